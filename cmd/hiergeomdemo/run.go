package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/latticeforge/hiergeom/pkg/config"
	"github.com/latticeforge/hiergeom/pkg/geom"
	"github.com/latticeforge/hiergeom/pkg/layoutstore"
	"github.com/latticeforge/hiergeom/pkg/localop"
	"github.com/latticeforge/hiergeom/pkg/processor"
	"github.com/latticeforge/hiergeom/pkg/telemetry"
)

// Cell ids for the fixture layout built by buildFixture: a top cell that
// instantiates a shared child twice under differing intrusion contexts,
// the scenario spec.md §8 calls out explicitly (scenario 3) because it is
// the simplest case that actually exercises propagation.
const (
	topCellID   geom.CellID = 0
	childCellID geom.CellID = 1
)

func newRunCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the fixture layout, run the processor, print results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd, configFile)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "path to a hiergeom config file (defaults to built-in values)")

	return cmd
}

func runDemo(cmd *cobra.Command, configFile string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	telemetryCfg := telemetry.DefaultConfig()
	telemetryCfg.ServiceName = cfg.Telemetry.ServiceName
	telemetryCfg.Environment = cfg.Telemetry.Environment
	telemetryCfg.MetricsEnabled = cfg.Telemetry.MetricsEnabled
	telemetryCfg.MetricsAddress = cfg.Telemetry.MetricsAddress

	providers, err := telemetry.Init(telemetryCfg)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if shutdownErr := providers.Shutdown(shutdownCtx); shutdownErr != nil {
			providers.Logger.Error("telemetry shutdown failed", "error", shutdownErr)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	layout := buildFixture(geom.LayerID(cfg.Layers.Scope), geom.LayerID(cfg.Layers.Intruder))

	proc := processor.New(
		layout,
		topCellID,
		localop.IntrudedOnly,
		geom.LayerID(cfg.Layers.Scope),
		geom.LayerID(cfg.Layers.Intruder),
		geom.LayerID(cfg.Layers.Output),
		processor.Config{Workers: cfg.Processor.Workers, Metrics: providers.Metrics},
	)

	start := time.Now()
	runErr := proc.Run(ctx)
	elapsed := time.Since(start)

	providers.Metrics.RecordRun(elapsed)

	if runErr != nil {
		color.New(color.FgRed, color.Bold).Fprintln(cmd.OutOrStdout(), "run failed")
		return fmt.Errorf("processor run: %w", runErr)
	}

	printResults(cmd, layout, geom.LayerID(cfg.Layers.Output), elapsed)

	return nil
}

// buildFixture builds spec.md §8 scenario 3: a top cell with no shapes of
// its own that instantiates childCellID twice at well-separated positions.
// The child carries one scope-layer rectangle. The top cell's only
// intruder-layer shape overlaps the scope rectangle as seen through the
// first instance but not the second, so the two instantiations see
// different IntrusionContexts and the result cannot be committed to the
// child's own output layer — it propagates to the first top-level drop
// instead.
func buildFixture(scopeLayer, intruderLayer geom.LayerID) *layoutstore.Layout {
	layout := layoutstore.NewLayout()

	top := layout.AddCell(topCellID)
	child := layout.AddCell(childCellID)

	childRepo := layout.Repository()
	scopeBody := childRepo.Intern(geom.PolygonBody{
		Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
	})
	child.AppendShape(scopeLayer, geom.PolygonRef{Body: scopeBody, Trans: geom.Identity()})

	firstPlacement := geom.Identity()
	secondPlacement := geom.Transform{DX: 1000, DY: 0, Orient: geom.R0, MagNum: 1, MagDen: 1}

	top.AddInstance(geom.NewInstance(childCellID, firstPlacement))
	top.AddInstance(geom.NewInstance(childCellID, secondPlacement))

	intruderBody := childRepo.Intern(geom.PolygonBody{
		Points: []geom.Point{{X: 5, Y: 5}, {X: 15, Y: 5}, {X: 15, Y: 15}, {X: 5, Y: 15}},
	})
	top.AppendShape(intruderLayer, geom.PolygonRef{Body: intruderBody, Trans: geom.Identity()})

	layout.Finalize(topCellID)

	return layout
}

func printResults(cmd *cobra.Command, layout *layoutstore.Layout, outputLayer geom.LayerID, elapsed time.Duration) {
	out := cmd.OutOrStdout()

	var shapeCount int64
	if repo, ok := layout.Repository().(*layoutstore.Repository); ok {
		shapeCount = int64(repo.Len())
	}

	color.New(color.FgGreen, color.Bold).Fprintf(out, "run completed in %s, %s polygon bodies interned\n", elapsed, humanize.Comma(shapeCount))

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Cell", "Output shapes"})

	for _, id := range layout.BottomUp() {
		cell, ok := layout.Cell(id)
		if !ok {
			continue
		}

		t.AppendRow(table.Row{int(id), len(cell.Shapes(outputLayer))})
	}

	t.Render()
}
