package profile

import "github.com/schedkit/availprof/pkg/span"

// settings holds construction-time options shared by both domains.
type settings struct {
	horizonStart Tick
	tolerance    float64
}

// Option configures a profile at construction.
type Option func(*settings)

// WithHorizonStart sets the earliest representable instant. Default 0.
func WithHorizonStart(t Tick) Option {
	return func(s *settings) {
		s.horizonStart = t
	}
}

// WithTolerance sets the equality epsilon for continuous capacity
// comparisons. Ignored by discrete profiles. Default span.DefaultTolerance.
func WithTolerance(eps float64) Option {
	return func(s *settings) {
		s.tolerance = eps
	}
}

// applyOptions folds options over the default settings.
func applyOptions(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// NewDiscrete creates a profile over a discrete capacity domain (whole
// units such as CPU cores), with one entry spanning the whole horizon at
// full capacity. Capacity comparisons are exact.
func NewDiscrete(total int64, opts ...Option) (*Profile[int64], error) {
	s := applyOptions(opts)

	return newProfile[int64](span.NewDiscrete(), total, s.horizonStart)
}
