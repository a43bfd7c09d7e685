package reservations

import (
	"context"
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
)

// ReservationRepository is the reservation storage consumed by the service.
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByMerchantWithFilter(ctx context.Context, filter domain.MerchantReservationsFilter) ([]*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// PaymentRepository exposes the payment facts needed for status changes.
type PaymentRepository interface {
	HasApproved(ctx context.Context, reservationID int64) (bool, error)
	ExpirePendingForReservation(ctx context.Context, reservationID int64) (int64, error)
}

// CatalogRepository provides merchant settings for the cancellation policy.
type CatalogRepository interface {
	GetMerchantSettings(ctx context.Context, merchantID int64) (*domain.MerchantSettings, error)
}

// TransactionManager runs status changes atomically.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider abstracts the clock for testing.
type TimeProvider interface {
	Now() time.Time
}

// Logger is the logging interface consumed by the service.
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
