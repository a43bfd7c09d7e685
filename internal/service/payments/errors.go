package payments

import "errors"

var (
	// ErrReservationNotFound is returned when the reservation does not exist.
	ErrReservationNotFound = errors.New("payments: reservation not found")

	// ErrPaymentNotFound is returned when no payment attempt exists to act on.
	ErrPaymentNotFound = errors.New("payments: payment not found")

	// ErrNoDepositRequired is returned when a payment is requested for a
	// reservation with a zero deposit.
	ErrNoDepositRequired = errors.New("payments: reservation requires no deposit")

	// ErrRetryNotAllowed is returned when the reservation status does not
	// admit a new payment attempt.
	ErrRetryNotAllowed = errors.New("payments: payment retry not allowed in current status")

	// ErrAlreadyPaid is returned when the reservation already has an
	// approved payment.
	ErrAlreadyPaid = errors.New("payments: deposit already paid")

	// ErrGateway is returned when the payment provider call failed or
	// answered with malformed data.
	ErrGateway = errors.New("payments: payment gateway error")

	// ErrInternal is returned on unexpected storage failures.
	ErrInternal = errors.New("payments: internal error")
)
