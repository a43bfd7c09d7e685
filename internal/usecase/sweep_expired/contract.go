package sweep_expired

import (
	"context"
	"time"
)

// ReservationRepository is the reservation storage consumed by the sweeper.
type ReservationRepository interface {
	ListExpiredPendingIDs(ctx context.Context, now time.Time, limit uint64) ([]int64, error)
	CancelIfPendingPayment(ctx context.Context, id int64, reason string) (bool, error)
}

// PaymentRepository retires the open attempts of swept reservations.
type PaymentRepository interface {
	ExpirePendingForReservation(ctx context.Context, reservationID int64) (int64, error)
}

// TransactionManager runs each per-reservation sweep atomically.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider abstracts the clock for testing.
type TimeProvider interface {
	Now() time.Time
}

// Metrics is the subset of business counters used here; may be nil.
type Metrics interface {
	IncSwept(result string)
}

// Logger is the logging interface consumed by the sweeper.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider is the production clock.
type RealTimeProvider struct{}

// Now returns the current time.
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
