package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/latticeforge/hiergeom/pkg/geom"
)

const (
	metricContextsCreated = "hiergeom.contexts.created"
	metricContextsReused  = "hiergeom.contexts.reused"
	metricCellsCommitted  = "hiergeom.cells.committed"
	metricShapesCommitted = "hiergeom.shapes.committed"
	metricRunDuration     = "hiergeom.run.duration.seconds"

	attrCell = "cell"
)

// runDurationBucketBoundaries covers sub-millisecond single-cell runs up to
// multi-minute passes over large hierarchies.
var runDurationBucketBoundaries = []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 300}

// ProcessorMetrics holds the OTel instruments backing a processor run.
// Its ContextCreated/ContextReused/CellCommitted methods give it the same
// shape as pkg/processor.Metrics — Go's structural interfaces mean
// pkg/processor never needs to import this package to accept a
// *ProcessorMetrics as its Config.Metrics field.
type ProcessorMetrics struct {
	contextsCreated metric.Int64Counter
	contextsReused  metric.Int64Counter
	cellsCommitted  metric.Int64Counter
	shapesCommitted metric.Int64Counter
	runDuration     metric.Float64Histogram
}

// NewProcessorMetrics creates the processor's instruments from mt.
func NewProcessorMetrics(mt metric.Meter) (*ProcessorMetrics, error) {
	contextsCreated, err := mt.Int64Counter(metricContextsCreated,
		metric.WithDescription("Distinct intrusion contexts created per cell"),
		metric.WithUnit("{context}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricContextsCreated, err)
	}

	contextsReused, err := mt.Int64Counter(metricContextsReused,
		metric.WithDescription("Intrusion contexts reused via an existing drop"),
		metric.WithUnit("{context}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricContextsReused, err)
	}

	cellsCommitted, err := mt.Int64Counter(metricCellsCommitted,
		metric.WithDescription("Cells whose reconciled result was committed to the output layer"),
		metric.WithUnit("{cell}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCellsCommitted, err)
	}

	shapesCommitted, err := mt.Int64Counter(metricShapesCommitted,
		metric.WithDescription("Polygon refs committed to output layers"),
		metric.WithUnit("{shape}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricShapesCommitted, err)
	}

	runDuration, err := mt.Float64Histogram(metricRunDuration,
		metric.WithDescription("Wall-clock duration of a full processor run"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(runDurationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunDuration, err)
	}

	return &ProcessorMetrics{
		contextsCreated: contextsCreated,
		contextsReused:  contextsReused,
		cellsCommitted:  cellsCommitted,
		shapesCommitted: shapesCommitted,
		runDuration:     runDuration,
	}, nil
}

// ContextCreated implements pkg/processor.Metrics.
func (m *ProcessorMetrics) ContextCreated(geom.CellID) {
	m.contextsCreated.Add(context.Background(), 1)
}

// ContextReused implements pkg/processor.Metrics.
func (m *ProcessorMetrics) ContextReused(geom.CellID) {
	m.contextsReused.Add(context.Background(), 1)
}

// CellCommitted implements pkg/processor.Metrics.
func (m *ProcessorMetrics) CellCommitted(cellID geom.CellID, count int) {
	attrs := metric.WithAttributes(attribute.Int(attrCell, int(cellID)))

	m.cellsCommitted.Add(context.Background(), 1, attrs)
	m.shapesCommitted.Add(context.Background(), int64(count), attrs)
}

// RecordRun records the wall-clock duration of one full processor run.
func (m *ProcessorMetrics) RecordRun(d time.Duration) {
	m.runDuration.Record(context.Background(), d.Seconds())
}
