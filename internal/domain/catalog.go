package domain

import "time"

// ServiceOffering is the bookable service configuration. Read-only from the
// engine's perspective; merchant CRUD lives in another service.
type ServiceOffering struct {
	ID                  int64
	MerchantID          int64
	Name                string
	Price               float64
	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	// Deposit configuration; fixed amount takes priority over percentage.
	DepositFixedAmount *float64
	DepositPercentage  *float64
	FullDayPricing     bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Resource is a bookable asset (boat, court, room) with a concurrency limit
// applied when a booking is not bound to a specific staff member.
type Resource struct {
	ID                    int64
	MerchantID            int64
	Name                  string
	MaxConcurrentBookings int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// MerchantSettings holds the merchant-level policies consumed by the engine.
// Threaded explicitly into the deposit and cancellation computations rather
// than read from ambient state.
type MerchantSettings struct {
	MerchantID                   int64
	RequireDeposit               bool
	DepositPercentage            float64
	DepositTTLMinutes            int
	CancellationDeadlineHours    int
	CancellationRefundPercentage float64
	MinBookingNoticeMinutes      int
	// MercadoPagoAccessToken selects the real gateway when present; the
	// deterministic stub is used otherwise.
	MercadoPagoAccessToken *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// UsesRealGateway reports whether the merchant has payment credentials.
func (s *MerchantSettings) UsesRealGateway() bool {
	return s.MercadoPagoAccessToken != nil && *s.MercadoPagoAccessToken != ""
}

// StaffBlock is an absolute time range during which a staff member cannot
// take bookings (vacation, maintenance).
type StaffBlock struct {
	ID        int64
	StaffID   int64
	StartsAt  time.Time
	EndsAt    time.Time
	Reason    *string
	CreatedAt time.Time
}

// Covers reports whether the block intersects the [from, to) instant range.
func (b *StaffBlock) Covers(from, to time.Time) bool {
	return b.StartsAt.Before(to) && b.EndsAt.After(from)
}
