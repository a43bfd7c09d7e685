package reservations

import "errors"

var (
	// ErrReservationNotFound is returned when the reservation does not exist
	// or belongs to another merchant.
	ErrReservationNotFound = errors.New("reservations: reservation not found")

	// ErrForbidden is returned when the acting party may not perform the
	// requested change on this reservation.
	ErrForbidden = errors.New("reservations: action not allowed for this actor")

	// ErrInvalidStatus is returned when the requested status is not a known
	// reservation status.
	ErrInvalidStatus = errors.New("reservations: invalid status")

	// ErrInternal is returned on unexpected storage failures.
	ErrInternal = errors.New("reservations: internal error")
)
