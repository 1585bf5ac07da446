package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/schedkit/availprof/internal/config"
	"github.com/schedkit/availprof/internal/observability"
	"github.com/schedkit/availprof/pkg/mathutil"
	"github.com/schedkit/availprof/pkg/profile"
	"github.com/schedkit/availprof/pkg/span"
)

// Step outcome statuses. A rejection is an ordinary scheduling answer
// ("does not fit"), not a replay failure.
const (
	StatusOK       = "ok"
	StatusRejected = "rejected"
)

// WindowReport is a reported availability window.
type WindowReport struct {
	Start    int64
	End      int64
	Capacity float64
}

// StepResult is the outcome of one replayed step.
type StepResult struct {
	Index   int
	Op      string
	ID      string
	Status  string
	Detail  string
	Free    float64
	Windows []WindowReport
	Elapsed time.Duration
}

// TimelineRow is one entry of the final timeline, flattened for reporting.
type TimelineRow struct {
	Start        int64
	End          int64
	Free         float64
	Reservations []string
}

// Report is the full outcome of a scenario replay.
type Report struct {
	Scenario string
	Domain   string
	Total    float64
	Results  []StepResult
	Timeline []TimelineRow
	Rejected int
	Snapshot *SnapshotDoc
}

// Deps carries the ambient collaborators of a replay. Logger is required;
// Metrics and Tracer are optional.
type Deps struct {
	Logger  *slog.Logger
	Metrics *observability.ProfileMetrics
	Tracer  trace.Tracer
}

// Run replays the scenario and returns its report. Engine rejections are
// recorded as step outcomes; only malformed steps abort the replay.
func Run(ctx context.Context, sc *Scenario, deps Deps) (*Report, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	opts := []profile.Option{profile.WithHorizonStart(sc.Engine.HorizonStart)}

	switch sc.Engine.Domain {
	case config.DomainDiscrete:
		p, err := profile.NewDiscrete(int64(sc.Engine.TotalCapacity), opts...)
		if err != nil {
			return nil, fmt.Errorf("build discrete profile: %w", err)
		}

		return run(ctx, sc, deps, p,
			func(f float64) int64 { return int64(f) },
			func(v int64) float64 { return float64(v) })
	case config.DomainContinuous:
		if sc.Engine.Tolerance > 0 {
			opts = append(opts, profile.WithTolerance(sc.Engine.Tolerance))
		}

		p, err := profile.NewContinuous(sc.Engine.TotalCapacity, opts...)
		if err != nil {
			return nil, fmt.Errorf("build continuous profile: %w", err)
		}

		return run(ctx, sc, deps, p,
			func(f float64) float64 { return f },
			func(v float64) float64 { return v })
	default:
		return nil, fmt.Errorf("%w: engine domain %q", config.ErrInvalidDomain, sc.Engine.Domain)
	}
}

// run replays the steps against one concrete capacity domain.
func run[V span.Value](
	ctx context.Context,
	sc *Scenario,
	deps Deps,
	p *profile.Profile[V],
	toV func(float64) V,
	toF func(V) float64,
) (*Report, error) {
	report := &Report{
		Scenario: sc.Name,
		Domain:   sc.Engine.Domain,
		Total:    toF(p.MaxCapacity()),
		Results:  make([]StepResult, 0, len(sc.Steps)),
	}

	for i, step := range sc.Steps {
		stepCtx := ctx

		var stepSpan trace.Span
		if deps.Tracer != nil {
			stepCtx, stepSpan = deps.Tracer.Start(ctx, "scenario.step",
				trace.WithAttributes(
					attribute.String("op", step.Op),
					attribute.Int("index", i),
				))
		}

		began := time.Now()
		result, err := applyStep(p, sc.Engine.Granularity, step, toV, toF)
		result.Index = i
		result.Op = step.Op
		result.ID = step.ID
		result.Elapsed = time.Since(began)

		if stepSpan != nil {
			if err != nil {
				stepSpan.RecordError(err)
			}

			stepSpan.End()
		}

		if err != nil && !isRejection(err) {
			recordStep(stepCtx, deps, step.Op, observability.StatusError, result.Elapsed)

			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}

		if err != nil {
			result.Status = StatusRejected
			result.Detail = err.Error()
			report.Rejected++

			recordStep(stepCtx, deps, step.Op, observability.StatusRejected, result.Elapsed)
			deps.Logger.InfoContext(stepCtx, "step rejected",
				"index", i, "op", step.Op, "reason", err)
		} else {
			result.Status = StatusOK

			recordStep(stepCtx, deps, step.Op, observability.StatusOK, result.Elapsed)
			deps.Logger.DebugContext(stepCtx, "step applied", "index", i, "op", step.Op)

			trackReservations(stepCtx, deps, step.Op)
		}

		report.Results = append(report.Results, result)
	}

	for e := range p.Entries() {
		report.Timeline = append(report.Timeline, TimelineRow{
			Start:        e.Slot().Start,
			End:          e.Slot().End,
			Free:         toF(e.Free()),
			Reservations: e.Reservations(),
		})
	}

	report.Snapshot = newSnapshotDoc(sc.Engine.Domain, p.Snapshot())

	deps.Logger.InfoContext(ctx, "scenario replayed",
		"scenario", sc.Name,
		"steps", len(sc.Steps),
		"rejected", report.Rejected,
		"entries", len(report.Timeline))

	return report, nil
}

// applyStep executes one step against the profile.
func applyStep[V span.Value](
	p *profile.Profile[V],
	granularity int64,
	step Step,
	toV func(float64) V,
	toF func(V) float64,
) (StepResult, error) {
	var res StepResult

	start, end := step.Start, step.End
	if granularity > 0 {
		start, end = mathutil.SnapSpan(start, end, granularity)
	}

	switch step.Op {
	case OpAllocate:
		return res, p.Allocate(start, end, toV(step.Amount), step.ID)
	case OpRelease:
		return res, p.Release(start, end, toV(step.Amount), step.ID)
	case OpCheck:
		windows, err := p.CheckAvailability(start, end, toV(step.Required))
		if err != nil {
			return res, err
		}

		for _, w := range windows {
			res.Windows = append(res.Windows, WindowReport{
				Start:    w.Slot.Start,
				End:      w.Slot.End,
				Capacity: toF(w.Capacity),
			})
		}

		return res, nil
	case OpFindWindow:
		slot, err := p.FindWindow(step.Start, step.MinDuration, toV(step.Required))
		if err != nil {
			return res, err
		}

		res.Windows = []WindowReport{{Start: slot.Start, End: slot.End, Capacity: step.Required}}

		return res, nil
	case OpFreeAt:
		free, err := p.FreeAt(step.At)
		if err != nil {
			return res, err
		}

		res.Free = toF(free)

		return res, nil
	case OpTrimBefore:
		p.TrimBefore(step.At)

		return res, nil
	default:
		return res, fmt.Errorf("%w: %q", ErrUnknownOp, step.Op)
	}
}

// isRejection reports whether err is an ordinary scheduling answer rather
// than a malformed request.
func isRejection(err error) bool {
	return errors.Is(err, profile.ErrInsufficientCapacity) ||
		errors.Is(err, profile.ErrDuplicateReservation) ||
		errors.Is(err, profile.ErrUnknownReservation) ||
		errors.Is(err, profile.ErrCapacityOverflow) ||
		errors.Is(err, profile.ErrNoAvailability)
}

func recordStep(ctx context.Context, deps Deps, op, status string, elapsed time.Duration) {
	if deps.Metrics == nil {
		return
	}

	deps.Metrics.RecordOp(ctx, op, status, elapsed)
}

func trackReservations(ctx context.Context, deps Deps, op string) {
	if deps.Metrics == nil {
		return
	}

	switch op {
	case OpAllocate:
		deps.Metrics.ReservationOpened(ctx)
	case OpRelease:
		deps.Metrics.ReservationClosed(ctx)
	}
}
