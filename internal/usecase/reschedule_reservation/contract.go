package reschedule_reservation

import (
	"context"
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	"github.com/reservado/Reservado-BookingService/pkg/types"
)

// ReservationRepository is the reservation storage consumed by the use case.
type ReservationRepository interface {
	AcquireSlotLock(ctx context.Context, key int64) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListActiveForSlot(ctx context.Context, resourceID int64, staffID *int64, date time.Time) ([]*domain.Reservation, error)
	UpdateSchedule(ctx context.Context, id int64, date time.Time, startTime, endTime *types.TimeString, staffID *int64) error
}

// CatalogRepository provides buffers, notice and staff blocks.
type CatalogRepository interface {
	GetServiceOffering(ctx context.Context, merchantID, serviceID int64) (*domain.ServiceOffering, error)
	GetResource(ctx context.Context, merchantID, resourceID int64) (*domain.Resource, error)
	GetMerchantSettings(ctx context.Context, merchantID int64) (*domain.MerchantSettings, error)
	ListStaffBlocks(ctx context.Context, staffID int64, from, to time.Time) ([]*domain.StaffBlock, error)
}

// TransactionManager runs the availability check and update atomically.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider abstracts the clock for testing.
type TimeProvider interface {
	Now() time.Time
}

// Metrics is the subset of business counters used here; may be nil.
type Metrics interface {
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
