package reschedule_reservation

import "errors"

var (
	// ErrInvalidInput is returned on malformed request data.
	ErrInvalidInput = errors.New("reschedule_reservation: invalid input")

	// ErrReservationNotFound is returned when the reservation does not exist
	// or belongs to another merchant.
	ErrReservationNotFound = errors.New("reschedule_reservation: reservation not found")

	// ErrNotReschedulable is returned when the reservation status does not
	// admit rescheduling.
	ErrNotReschedulable = errors.New("reschedule_reservation: reservation cannot be rescheduled")

	// ErrTooLateToBook is returned when the new slot starts before the
	// merchant's minimum booking notice.
	ErrTooLateToBook = errors.New("reschedule_reservation: booking notice too short")

	// ErrStaffBlocked is returned when the staff member has a block covering
	// the new slot.
	ErrStaffBlocked = errors.New("reschedule_reservation: staff member unavailable")

	// ErrSlotNotAvailable is returned when the new slot has no remaining
	// capacity.
	ErrSlotNotAvailable = errors.New("reschedule_reservation: slot not available")

	// ErrInternal is returned on unexpected failures.
	ErrInternal = errors.New("reschedule_reservation: internal error")
)
