package domain

import (
	"time"

	"github.com/reservado/Reservado-BookingService/pkg/types"
)

// Reservation represents one booking of a resource (boat, court, service
// slot) by a customer, possibly bound to a specific staff member.
type Reservation struct {
	ID         int64
	MerchantID int64
	ResourceID int64
	// StaffID, when set, makes the booking staff-exclusive; when nil the
	// booking competes for the resource's concurrency limit instead.
	StaffID   *int64
	ServiceID int64

	BookingDate     time.Time
	StartTime       *types.TimeString // nil for full-day pricing
	EndTime         *types.TimeString // always StartTime + service duration
	DurationMinutes int

	CustomerName  string
	CustomerPhone string // canonical identity key within a merchant, digits only
	CustomerEmail *string

	TotalAmount   float64
	DepositAmount float64

	Status ReservationStatus

	// Payment linkage; meaningful while the deposit is being collected.
	PaymentProvider    *string
	PaymentProviderRef *string
	PaymentQRCode      *string
	PaymentCopyPaste   *string
	DepositExpiresAt   *time.Time

	CustomerNotes *string
	InternalNotes *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the reservation still occupies its slot.
// Cancelled and no-show rows free the slot; everything else holds it.
func (r *Reservation) IsActive() bool {
	return r.Status != StatusCancelled && r.Status != StatusNoShow
}

// IsFullDay reports whether the reservation has no start time and occupies
// the whole booking date.
func (r *Reservation) IsFullDay() bool {
	return r.StartTime == nil
}

// Window returns the booked interval in minutes since midnight of the
// booking date. Full-day reservations occupy the entire day.
func (r *Reservation) Window() (Window, error) {
	if r.IsFullDay() {
		return FullDayWindow(), nil
	}
	return NewBookedWindow(*r.StartTime, r.DurationMinutes)
}

// ScheduledAt returns the absolute start instant of the reservation in loc.
// Full-day reservations start at midnight.
func (r *Reservation) ScheduledAt(loc *time.Location) time.Time {
	y, m, d := r.BookingDate.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if r.IsFullDay() {
		return midnight
	}
	minutes, err := r.StartTime.Minutes()
	if err != nil {
		return midnight
	}
	return midnight.Add(time.Duration(minutes) * time.Minute)
}

// CanReschedule reports whether the reservation may be moved to a new slot.
func (r *Reservation) CanReschedule() bool {
	return r.Status == StatusPendingPayment || r.Status == StatusConfirmed
}

// MerchantReservationsFilter filters merchant reservation listings.
type MerchantReservationsFilter struct {
	MerchantID      int64 // required
	ResourceID      *int64
	StaffID         *int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *ReservationStatus
	CustomerPhone   *string // matched on the normalized form
	IncludeInactive bool
}
