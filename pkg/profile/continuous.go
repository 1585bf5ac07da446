package profile

import "github.com/schedkit/availprof/pkg/span"

// NewContinuous creates a profile over a continuous capacity domain
// (fractional amounts such as bandwidth shares), with one entry spanning
// the whole horizon at full capacity. Capacity comparisons use the
// configured tolerance (WithTolerance) so near-equal entries still merge
// instead of thrashing on floating-point noise.
func NewContinuous(total float64, opts ...Option) (*Profile[float64], error) {
	s := applyOptions(opts)

	return newProfile[float64](span.NewContinuous(s.tolerance), total, s.horizonStart)
}
