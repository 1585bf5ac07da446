package profile

import "errors"

// Sentinel errors for profile operations. Insufficient capacity and no
// availability are ordinary negative scheduling results; the rest indicate
// caller misuse and should be treated as fatal rather than retried.
var (
	// ErrOutOfRange indicates a split or query instant outside the
	// addressed entry or before the horizon start.
	ErrOutOfRange = errors.New("instant out of range")

	// ErrInsufficientCapacity indicates an allocation requested more than
	// is available somewhere in the range. The profile is unchanged.
	ErrInsufficientCapacity = errors.New("insufficient capacity")

	// ErrUnknownReservation indicates a release referencing a reservation
	// id not recorded on some entry in the range. The profile is unchanged.
	ErrUnknownReservation = errors.New("unknown reservation")

	// ErrNoAvailability indicates FindWindow found no window satisfying
	// the request anywhere on the remaining horizon.
	ErrNoAvailability = errors.New("no availability")

	// ErrDuplicateReservation indicates an allocation reusing a
	// reservation id over an interval where it is already active.
	ErrDuplicateReservation = errors.New("duplicate reservation")

	// ErrCapacityOverflow indicates a release that would push an entry's
	// free capacity above the profile total.
	ErrCapacityOverflow = errors.New("release exceeds total capacity")

	// ErrInvalidCapacity indicates a non-positive total capacity at
	// construction or a non-positive amount on a mutation.
	ErrInvalidCapacity = errors.New("invalid capacity")

	// ErrEmptyReservationID indicates a mutation with an empty reservation id.
	ErrEmptyReservationID = errors.New("empty reservation id")
)
