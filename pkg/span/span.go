// Package span provides interval primitives over discrete (integer) and
// continuous (real) scalar domains, plus an ordered container of disjoint
// intervals with merge-on-insert semantics. Ranges are half-open [Lower,
// Upper). The domain-specific rules (comparison, equality tolerance,
// adjacency) are supplied as an Arithmetic strategy so the same algorithms
// serve both domains.
package span

import (
	"errors"
	"math"
)

// ErrInvalidRange is returned when a range is malformed (Lower > Upper)
// or empty where a non-empty range is required.
var ErrInvalidRange = errors.New("invalid range")

// Value is the scalar type of a range bound: int64 for discrete domains
// (whole resource units), float64 for continuous ones (fractional amounts).
type Value interface {
	~int64 | ~float64
}

// Arithmetic supplies the domain-specific comparison and adjacency rules.
// Discrete domains compare exactly; continuous domains compare within a
// tolerance to avoid merge thrashing on floating-point noise.
type Arithmetic[V Value] interface {
	// Eq reports whether a and b are equal under the domain's rules.
	Eq(a, b V) bool
	// Less reports whether a is strictly less than b under the domain's rules.
	Less(a, b V) bool
	// Adjacent reports whether a range ending at upper touches a range
	// starting at lower. In half-open canonical form the discrete successor
	// rule ([0,3] next to [4,6]) collapses to boundary equality.
	Adjacent(upper, lower V) bool
}

// Discrete is the exact integer arithmetic for whole-unit domains.
type Discrete struct{}

// NewDiscrete creates the arithmetic for discrete (integer) domains.
func NewDiscrete() Discrete {
	return Discrete{}
}

// Eq reports exact integer equality.
func (Discrete) Eq(a, b int64) bool {
	return a == b
}

// Less reports exact integer ordering.
func (Discrete) Less(a, b int64) bool {
	return a < b
}

// Adjacent reports whether upper is the successor boundary of lower.
func (Discrete) Adjacent(upper, lower int64) bool {
	return upper == lower
}

// DefaultTolerance is the equality epsilon used by continuous arithmetic
// when none is configured.
const DefaultTolerance = 1e-9

// Continuous is the tolerance-based real arithmetic for fractional domains.
type Continuous struct {
	tolerance float64
}

// NewContinuous creates the arithmetic for continuous (real) domains.
// A non-positive tolerance falls back to DefaultTolerance.
func NewContinuous(tolerance float64) Continuous {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	return Continuous{tolerance: tolerance}
}

// Tolerance returns the configured equality epsilon.
func (c Continuous) Tolerance() float64 {
	return c.tolerance
}

// Eq reports equality within the configured tolerance.
func (c Continuous) Eq(a, b float64) bool {
	return math.Abs(a-b) <= c.tolerance
}

// Less reports strict ordering; values within tolerance are considered equal.
func (c Continuous) Less(a, b float64) bool {
	return a < b && !c.Eq(a, b)
}

// Adjacent reports whether the boundaries coincide within tolerance.
func (c Continuous) Adjacent(upper, lower float64) bool {
	return c.Eq(upper, lower)
}
