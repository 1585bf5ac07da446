package scenario

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/schedkit/availprof/internal/config"
	"github.com/schedkit/availprof/internal/observability"
	"github.com/schedkit/availprof/pkg/profile"
)

func collectScenarioMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findScenarioMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

// quietDeps returns replay deps with a discarding logger.
func quietDeps(t *testing.T) Deps {
	t.Helper()

	return Deps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// TestRun_TwoJobReplay replays the canonical two-job scenario and checks
// the per-step outcomes and final timeline.
func TestRun_TwoJobReplay(t *testing.T) {
	t.Parallel()

	sc := &Scenario{
		Name:   "two-jobs",
		Engine: EngineSpec{Domain: config.DomainDiscrete, TotalCapacity: 4},
		Steps: []Step{
			{Op: OpAllocate, ID: "job-a", Start: 0, End: 10, Amount: 3},
			{Op: OpAllocate, ID: "job-b", Start: 5, End: 15, Amount: 1},
			{Op: OpFindWindow, Start: 0, MinDuration: 5, Required: 1},
			{Op: OpFreeAt, At: 7},
			{Op: OpRelease, ID: "job-b", Start: 5, End: 15, Amount: 1},
		},
	}

	report, err := Run(context.Background(), sc, quietDeps(t))
	require.NoError(t, err)

	require.Len(t, report.Results, 5)
	for _, res := range report.Results {
		assert.Equal(t, StatusOK, res.Status, "step %d", res.Index)
	}

	assert.Equal(t, []WindowReport{{Start: 0, End: 5, Capacity: 1}}, report.Results[2].Windows)
	assert.InDelta(t, 0.0, report.Results[3].Free, 0.001)

	// After releasing job-b only job-a's slot remains split out.
	require.Len(t, report.Timeline, 2)
	assert.Equal(t, TimelineRow{Start: 0, End: 10, Free: 1, Reservations: []string{"job-a"}}, report.Timeline[0])
	assert.Equal(t, int64(profile.HorizonEnd), report.Timeline[1].End)
	assert.Equal(t, 0, report.Rejected)
}

// TestRun_RejectionIsAnOutcome verifies that an oversized request is
// recorded as a rejected step, not a replay failure.
func TestRun_RejectionIsAnOutcome(t *testing.T) {
	t.Parallel()

	sc := &Scenario{
		Engine: EngineSpec{Domain: config.DomainDiscrete, TotalCapacity: 4},
		Steps: []Step{
			{Op: OpAllocate, ID: "job-a", Start: 0, End: 10, Amount: 4},
			{Op: OpAllocate, ID: "job-b", Start: 5, End: 8, Amount: 1},
			{Op: OpFindWindow, Start: 0, MinDuration: 3, Required: 5},
		},
	}

	report, err := Run(context.Background(), sc, quietDeps(t))
	require.NoError(t, err)

	assert.Equal(t, StatusOK, report.Results[0].Status)
	assert.Equal(t, StatusRejected, report.Results[1].Status)
	assert.Contains(t, report.Results[1].Detail, "free")
	assert.Equal(t, StatusRejected, report.Results[2].Status)
	assert.Equal(t, 2, report.Rejected)
}

// TestRun_MalformedStepAborts verifies that invalid input stops the replay.
func TestRun_MalformedStepAborts(t *testing.T) {
	t.Parallel()

	sc := &Scenario{
		Engine: EngineSpec{Domain: config.DomainDiscrete, TotalCapacity: 4},
		Steps: []Step{
			{Op: OpAllocate, ID: "", Start: 0, End: 10, Amount: 1},
		},
	}

	_, err := Run(context.Background(), sc, quietDeps(t))
	require.ErrorIs(t, err, profile.ErrEmptyReservationID)
}

// TestRun_ContinuousDomain verifies fractional replay.
func TestRun_ContinuousDomain(t *testing.T) {
	t.Parallel()

	sc := &Scenario{
		Engine: EngineSpec{Domain: config.DomainContinuous, TotalCapacity: 1.0},
		Steps: []Step{
			{Op: OpAllocate, ID: "stream-1", Start: 0, End: 100, Amount: 0.25},
			{Op: OpAllocate, ID: "stream-2", Start: 0, End: 100, Amount: 0.25},
			{Op: OpFreeAt, At: 50},
		},
	}

	report, err := Run(context.Background(), sc, quietDeps(t))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, report.Results[2].Free, 1e-9)
}

// TestRun_GranularitySnapsSpans verifies that allocate spans widen to the
// tick grid.
func TestRun_GranularitySnapsSpans(t *testing.T) {
	t.Parallel()

	sc := &Scenario{
		Engine: EngineSpec{Domain: config.DomainDiscrete, TotalCapacity: 4, Granularity: 10},
		Steps: []Step{
			{Op: OpAllocate, ID: "job-a", Start: 13, End: 27, Amount: 1},
		},
	}

	report, err := Run(context.Background(), sc, quietDeps(t))
	require.NoError(t, err)

	require.Len(t, report.Timeline, 3)
	assert.Equal(t, int64(10), report.Timeline[1].Start)
	assert.Equal(t, int64(30), report.Timeline[1].End)
}

// TestRun_UnknownDomain verifies the engine spec guard.
func TestRun_UnknownDomain(t *testing.T) {
	t.Parallel()

	sc := &Scenario{
		Engine: EngineSpec{Domain: "quantum", TotalCapacity: 4},
		Steps:  []Step{{Op: OpFreeAt, At: 0}},
	}

	_, err := Run(context.Background(), sc, quietDeps(t))
	require.ErrorIs(t, err, config.ErrInvalidDomain)
}

// TestRun_RecordsMetrics verifies that step outcomes reach the meter.
func TestRun_RecordsMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	metrics, err := observability.NewProfileMetrics(meter, nil)
	require.NoError(t, err)

	deps := quietDeps(t)
	deps.Metrics = metrics

	sc := &Scenario{
		Engine: EngineSpec{Domain: config.DomainDiscrete, TotalCapacity: 2},
		Steps: []Step{
			{Op: OpAllocate, ID: "job-a", Start: 0, End: 10, Amount: 2},
			{Op: OpAllocate, ID: "job-b", Start: 0, End: 10, Amount: 1},
		},
	}

	_, err = Run(context.Background(), sc, deps)
	require.NoError(t, err)

	rm := collectScenarioMetrics(t, reader)
	assert.NotNil(t, findScenarioMetric(rm, "availprof.operations.total"))
	assert.NotNil(t, findScenarioMetric(rm, "availprof.rejections.total"))
}
