package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricOperationsTotal    = "availprof.operations.total"
	metricOperationDuration  = "availprof.operation.duration.seconds"
	metricRejectionsTotal    = "availprof.rejections.total"
	metricActiveReservations = "availprof.reservations.active"
	metricTimelineEntries    = "availprof.timeline.entries"

	attrOp     = "op"
	attrStatus = "status"

	// StatusOK marks an operation that succeeded.
	StatusOK = "ok"
	// StatusRejected marks an operation turned down by the engine
	// (insufficient capacity, unknown reservation, and so on).
	StatusRejected = "rejected"
	// StatusError marks an operation that failed on invalid input.
	StatusError = "error"
)

// durationBucketBoundaries covers 1µs to 1s. Timeline operations are pure
// in-memory data structure work, far below typical RPC latencies.
var durationBucketBoundaries = []float64{
	0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 1,
}

// ProfileMetrics holds the OTel instruments for timeline engine operations.
type ProfileMetrics struct {
	operationsTotal    metric.Int64Counter
	operationDuration  metric.Float64Histogram
	rejectionsTotal    metric.Int64Counter
	activeReservations metric.Int64UpDownCounter
	timelineEntries    metric.Int64ObservableGauge
}

// NewProfileMetrics creates the engine instruments from the given meter.
// When entryCount is non-nil it is polled on every collection to report the
// current timeline length.
func NewProfileMetrics(mt metric.Meter, entryCount func() int64) (*ProfileMetrics, error) {
	b := newMetricBuilder(mt)

	pm := &ProfileMetrics{
		operationsTotal: b.counter(metricOperationsTotal,
			"Total number of timeline operations", "{operation}"),
		operationDuration: b.histogram(metricOperationDuration,
			"Timeline operation duration in seconds", "s", durationBucketBoundaries...),
		rejectionsTotal: b.counter(metricRejectionsTotal,
			"Total number of rejected timeline operations", "{operation}"),
		activeReservations: b.upDownCounter(metricActiveReservations,
			"Number of currently held reservations", "{reservation}"),
		timelineEntries: b.gauge(metricTimelineEntries,
			"Number of entries in the availability timeline", "{entry}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	if entryCount != nil {
		_, err := mt.RegisterCallback(func(_ context.Context, o metric.Observer) error {
			o.ObserveInt64(pm.timelineEntries, entryCount())

			return nil
		}, pm.timelineEntries)
		if err != nil {
			return nil, fmt.Errorf("register timeline gauge: %w", err)
		}
	}

	return pm, nil
}

// RecordOp records a completed operation with its name, status, and duration.
func (pm *ProfileMetrics) RecordOp(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	pm.operationsTotal.Add(ctx, 1, attrs)
	pm.operationDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusRejected {
		pm.rejectionsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrOp, op),
		))
	}
}

// ReservationOpened increments the active reservation gauge.
func (pm *ProfileMetrics) ReservationOpened(ctx context.Context) {
	pm.activeReservations.Add(ctx, 1)
}

// ReservationClosed decrements the active reservation gauge.
func (pm *ProfileMetrics) ReservationClosed(ctx context.Context) {
	pm.activeReservations.Add(ctx, -1)
}
