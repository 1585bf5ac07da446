package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/schedkit/availprof/internal/observability"
)

func setupTestMeter(t *testing.T, entryCount func() int64) (*observability.ProfileMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := mp.Meter("test")

	pm, err := observability.NewProfileMetrics(meter, entryCount)
	require.NoError(t, err)

	return pm, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)

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

func TestProfileMetrics_RecordOp(t *testing.T) {
	t.Parallel()

	pm, reader := setupTestMeter(t, nil)
	ctx := context.Background()

	pm.RecordOp(ctx, "allocate", observability.StatusOK, time.Microsecond*30)

	rm := collectMetrics(t, reader)

	opsTotal := findMetric(rm, "availprof.operations.total")
	require.NotNil(t, opsTotal, "availprof.operations.total metric not found")

	opDuration := findMetric(rm, "availprof.operation.duration.seconds")
	require.NotNil(t, opDuration, "availprof.operation.duration.seconds metric not found")
}

func TestProfileMetrics_RecordOpRejected(t *testing.T) {
	t.Parallel()

	pm, reader := setupTestMeter(t, nil)
	ctx := context.Background()

	pm.RecordOp(ctx, "allocate", observability.StatusRejected, time.Microsecond*10)

	rm := collectMetrics(t, reader)

	rejections := findMetric(rm, "availprof.rejections.total")
	require.NotNil(t, rejections, "availprof.rejections.total metric not found")
}

func TestProfileMetrics_ReservationGauge(t *testing.T) {
	t.Parallel()

	pm, reader := setupTestMeter(t, nil)
	ctx := context.Background()

	pm.ReservationOpened(ctx)
	pm.ReservationOpened(ctx)
	pm.ReservationClosed(ctx)

	rm := collectMetrics(t, reader)

	active := findMetric(rm, "availprof.reservations.active")
	require.NotNil(t, active, "availprof.reservations.active metric not found")

	sum, ok := active.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected Sum data type")
	require.NotEmpty(t, sum.DataPoints)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)
}

func TestProfileMetrics_TimelineEntriesCallback(t *testing.T) {
	t.Parallel()

	entries := int64(7)

	_, reader := setupTestMeter(t, func() int64 { return entries })

	rm := collectMetrics(t, reader)

	gauge := findMetric(rm, "availprof.timeline.entries")
	require.NotNil(t, gauge, "availprof.timeline.entries metric not found")

	data, ok := gauge.Data.(metricdata.Gauge[int64])
	require.True(t, ok, "expected Gauge data type")
	require.NotEmpty(t, data.DataPoints)
	assert.Equal(t, entries, data.DataPoints[0].Value)
}

func TestProfileMetrics_HistogramBuckets(t *testing.T) {
	t.Parallel()

	pm, reader := setupTestMeter(t, nil)
	ctx := context.Background()

	pm.RecordOp(ctx, "find_window", observability.StatusOK, time.Millisecond)

	rm := collectMetrics(t, reader)

	opDuration := findMetric(rm, "availprof.operation.duration.seconds")
	require.NotNil(t, opDuration)

	hist, ok := opDuration.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "expected Histogram data type")
	require.NotEmpty(t, hist.DataPoints)

	// In-memory operations need sub-millisecond resolution.
	assert.Contains(t, hist.DataPoints[0].Bounds, 0.000001)
	assert.Contains(t, hist.DataPoints[0].Bounds, 0.001)
}

func TestNewProfileMetrics_NoopMeter(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	pm, err := observability.NewProfileMetrics(providers.Meter, func() int64 { return 1 })
	require.NoError(t, err)
	assert.NotNil(t, pm)

	// Recording against no-op instruments must not panic.
	pm.RecordOp(context.Background(), "release", observability.StatusOK, time.Microsecond)
}
