package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/latticeforge/hiergeom/pkg/geom"
	"github.com/latticeforge/hiergeom/pkg/telemetry"
)

func setupTestMeter(t *testing.T) (*telemetry.ProcessorMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := mp.Meter("test")

	pm, err := telemetry.NewProcessorMetrics(meter)
	require.NoError(t, err)

	return pm, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func TestProcessorMetricsContextCreatedAndReused(t *testing.T) {
	t.Parallel()

	pm, reader := setupTestMeter(t)

	pm.ContextCreated(geom.CellID(1))
	pm.ContextReused(geom.CellID(1))

	rm := collectMetrics(t, reader)

	require.NotNil(t, findMetric(rm, "hiergeom.contexts.created"))
	require.NotNil(t, findMetric(rm, "hiergeom.contexts.reused"))
}

func TestProcessorMetricsCellCommitted(t *testing.T) {
	t.Parallel()

	pm, reader := setupTestMeter(t)

	pm.CellCommitted(geom.CellID(2), 3)

	rm := collectMetrics(t, reader)

	require.NotNil(t, findMetric(rm, "hiergeom.cells.committed"))
	require.NotNil(t, findMetric(rm, "hiergeom.shapes.committed"))
}

func TestProcessorMetricsRecordRun(t *testing.T) {
	t.Parallel()

	pm, reader := setupTestMeter(t)

	pm.RecordRun(250 * time.Millisecond)

	rm := collectMetrics(t, reader)

	require.NotNil(t, findMetric(rm, "hiergeom.run.duration.seconds"))
}
