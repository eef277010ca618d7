// Package processor implements the hierarchical local geometric
// processor: a top-down context-discovery pass followed by a bottom-up
// result-computation pass, memoizing per-cell evaluation across every
// distinct intrusion context a cell is instantiated under.
package processor

import (
	"context"
	"fmt"

	"github.com/latticeforge/hiergeom/pkg/geom"
	"github.com/latticeforge/hiergeom/pkg/hierctx"
	"github.com/latticeforge/hiergeom/pkg/localop"
)

// Metrics receives run-level telemetry callbacks from the processor. All
// methods are called synchronously from whatever goroutine discovers or
// commits the event; implementations backed by OTel counters (see
// pkg/telemetry) are safe for this since OTel instruments are themselves
// safe for concurrent use. A nil Metrics in Config disables every call
// site — every call is guarded with a nil check, so the core has no hard
// dependency on telemetry wiring.
type Metrics interface {
	// ContextCreated is called once per distinct IntrusionContext a cell
	// is first instantiated under (hierctx.CellContexts.Create).
	ContextCreated(cellID geom.CellID)
	// ContextReused is called when computeContexts finds an existing
	// entry for a cell's IntrusionContext and only appends a drop.
	ContextReused(cellID geom.CellID)
	// CellCommitted is called once per cell from pushResults with the
	// number of polygon refs committed to that cell's output layer
	// (spec.md §4.4's "common" set; may be zero).
	CellCommitted(cellID geom.CellID, count int)
}

// Config tunes the processor's optional concurrency and telemetry.
// Grounded on the teacher's CoordinatorConfig (pkg/framework): a plain
// struct with a documented default rather than functional options, since
// this module has few enough knobs worth exposing.
type Config struct {
	// Workers bounds how many contexts of one cell's context table are
	// evaluated concurrently during the bottom-up pass
	// (hierctx.CellContexts.ComputeResults). Cells are still visited one
	// at a time in bottom-up order, and the common/lost/gained
	// reconciliation of each table always runs sequentially. 0 or 1 runs
	// strictly sequentially, which is
	// also the only mode spec.md's determinism tests assume; Workers > 1
	// is an opt-in optimization for large layouts and does not change
	// output content, only the order work completes in.
	Workers int

	// Metrics, if non-nil, receives context-discovery and commit events.
	Metrics Metrics
}

// DefaultConfig returns the sequential configuration with no telemetry.
func DefaultConfig() Config {
	return Config{Workers: 1}
}

// Processor is constructed once per run with a fixed layout, top cell,
// local operation and layer triple (spec.md §6's only public surface).
type Processor struct {
	layout        geom.Layout
	top           geom.CellID
	op            localop.Operation
	scopeLayer    geom.LayerID
	intruderLayer geom.LayerID
	outputLayer   geom.LayerID
	cfg           Config

	contextsPerCell map[geom.CellID]*hierctx.CellContexts
}

// New constructs a Processor. It performs no work until Run is called.
func New(layout geom.Layout, top geom.CellID, op localop.Operation, scopeLayer, intruderLayer, outputLayer geom.LayerID, cfg Config) *Processor {
	return &Processor{
		layout:        layout,
		top:           top,
		op:            op,
		scopeLayer:    scopeLayer,
		intruderLayer: intruderLayer,
		outputLayer:   outputLayer,
		cfg:           cfg,
	}
}

// Run executes the processor once: top-down context discovery followed
// by bottom-up result computation. On return, outputLayer in each cell of
// the layout holds that cell's portion of the result. The layout's
// changes-in-progress guard is acquired on entry and released on every
// exit path (spec.md §4.7); on failure the output layer may already hold
// results for some already-visited cells and should be discarded by the
// caller.
func (p *Processor) Run(ctx context.Context) error {
	if p.layout == nil {
		return ErrNilLayout
	}

	if p.op == nil {
		return ErrNilOp
	}

	release, err := p.layout.Guard().Acquire()
	if err != nil {
		return fmt.Errorf("processor: acquire changes guard: %w", err)
	}
	defer release()

	p.contextsPerCell = make(map[geom.CellID]*hierctx.CellContexts)

	root := hierctx.NewIntrusionContext(nil, nil)
	if err := p.computeContexts(ctx, nil, nil, p.top, geom.Identity(), root); err != nil {
		return err
	}

	if err := p.computeResults(ctx); err != nil {
		return err
	}

	return nil
}
