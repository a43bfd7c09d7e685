package reservation

import "errors"

var (
	// ErrReservationNotFound is returned when the reservation does not exist.
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrBuildQuery is returned when building a SQL statement fails.
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery is returned when executing a SQL statement fails.
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("reservation.repository: failed to scan row")

	// ErrLockNotInTransaction is returned when a slot lock is requested
	// outside a transaction; pg_advisory_xact_lock is only meaningful inside
	// one.
	ErrLockNotInTransaction = errors.New("reservation.repository: slot lock requires an active transaction")
)
