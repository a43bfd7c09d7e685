package create_reservation

import "errors"

var (
	// ErrInvalidInput is returned on malformed request data.
	ErrInvalidInput = errors.New("create_reservation: invalid input")

	// ErrMerchantNotFound is returned when the merchant has no settings row.
	ErrMerchantNotFound = errors.New("create_reservation: merchant not found")

	// ErrServiceNotFound is returned when the service offering does not exist.
	ErrServiceNotFound = errors.New("create_reservation: service not found")

	// ErrResourceNotFound is returned when the resource does not exist.
	ErrResourceNotFound = errors.New("create_reservation: resource not found")

	// ErrTooLateToBook is returned when the slot starts before the merchant's
	// minimum booking notice.
	ErrTooLateToBook = errors.New("create_reservation: booking notice too short")

	// ErrStaffBlocked is returned when the requested staff member has a block
	// covering the slot.
	ErrStaffBlocked = errors.New("create_reservation: staff member unavailable")

	// ErrSlotNotAvailable is returned when the slot has no remaining capacity.
	ErrSlotNotAvailable = errors.New("create_reservation: slot not available")

	// ErrPaymentGateway is returned when the reservation was created but the
	// deposit charge could not be opened.
	ErrPaymentGateway = errors.New("create_reservation: payment gateway error")

	// ErrInternal is returned on unexpected failures.
	ErrInternal = errors.New("create_reservation: internal error")
)
