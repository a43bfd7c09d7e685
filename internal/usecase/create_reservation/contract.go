package create_reservation

import (
	"context"
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	"github.com/reservado/Reservado-BookingService/internal/service/payments/models"
)

// ReservationRepository is the reservation storage consumed by the use case.
type ReservationRepository interface {
	AcquireSlotLock(ctx context.Context, key int64) error
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	ListActiveForSlot(ctx context.Context, resourceID int64, staffID *int64, date time.Time) ([]*domain.Reservation, error)
}

// CatalogRepository provides the merchant configuration used for pricing,
// buffers and availability.
type CatalogRepository interface {
	GetServiceOffering(ctx context.Context, merchantID, serviceID int64) (*domain.ServiceOffering, error)
	GetResource(ctx context.Context, merchantID, resourceID int64) (*domain.Resource, error)
	GetMerchantSettings(ctx context.Context, merchantID int64) (*domain.MerchantSettings, error)
	ListStaffBlocks(ctx context.Context, staffID int64, from, to time.Time) ([]*domain.StaffBlock, error)
}

// PaymentService opens the deposit charge after the booking committed.
type PaymentService interface {
	CreateDeposit(ctx context.Context, res *domain.Reservation, settings *domain.MerchantSettings) (*models.PaymentAttempt, error)
}

// TransactionManager runs the availability check and insert atomically.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider abstracts the clock for testing.
type TimeProvider interface {
	Now() time.Time
}

// Metrics is the subset of business counters used here; may be nil.
type Metrics interface {
	IncReservationCreated(status string)
	IncSlotConflict(kind string)
}

// Logger is the logging interface consumed by the use case.
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
