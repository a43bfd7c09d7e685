package payments

import (
	"context"
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	"github.com/reservado/Reservado-BookingService/internal/integrations/gateway"
)

// ReservationRepository is the reservation storage consumed by the
// orchestrator.
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
	CancelIfPendingPayment(ctx context.Context, id int64, reason string) (bool, error)
	SetPaymentInfo(ctx context.Context, id int64, provider string, providerRef, qrCode, copyPaste *string, depositExpiresAt *time.Time, status domain.ReservationStatus) error
}

// PaymentRepository is the payment storage consumed by the orchestrator.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	GetByProviderRef(ctx context.Context, provider, providerRef string) (*domain.Payment, error)
	ListByReservation(ctx context.Context, reservationID int64) ([]*domain.Payment, error)
	HasApproved(ctx context.Context, reservationID int64) (bool, error)
	MarkApprovedIfPending(ctx context.Context, id int64, paidAt time.Time) (bool, error)
	SetProviderData(ctx context.Context, id int64, providerRef, qrCode, copyPaste string) error
	UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
	ExpirePendingForReservation(ctx context.Context, reservationID int64) (int64, error)
}

// CatalogRepository provides merchant settings for gateway selection and
// deposit deadlines.
type CatalogRepository interface {
	GetMerchantSettings(ctx context.Context, merchantID int64) (*domain.MerchantSettings, error)
}

// GatewaySelector picks the payment gateway for a merchant. Selection
// happens once per merchant; callers never branch on the concrete provider.
type GatewaySelector interface {
	ForMerchant(settings *domain.MerchantSettings) gateway.Gateway
}

// TransactionManager runs reconciliation and retry atomically.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider abstracts the clock for testing.
type TimeProvider interface {
	Now() time.Time
}

// Metrics is the subset of business counters used here; may be nil.
type Metrics interface {
	IncPayment(provider, status string)
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
