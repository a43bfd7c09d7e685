package payment

import "errors"

var (
	// ErrPaymentNotFound is returned when the payment does not exist.
	ErrPaymentNotFound = errors.New("payment.repository: payment not found")

	// ErrBuildQuery is returned when building a SQL statement fails.
	ErrBuildQuery = errors.New("payment.repository: failed to build query")

	// ErrExecQuery is returned when executing a SQL statement fails.
	ErrExecQuery = errors.New("payment.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("payment.repository: failed to scan row")

	// ErrAlreadyApproved is returned when a second payment for the same
	// reservation tries to reach approved (partial unique index violation).
	ErrAlreadyApproved = errors.New("payment.repository: reservation already has an approved payment")
)
