package reschedule_reservation

import (
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
)

// Request moves an existing reservation to a new slot. Omitting StaffID
// keeps the current staff assignment; setting it moves the booking to
// another staff member.
type Request struct {
	ReservationID int64
	MerchantID    int64

	Date time.Time
	// StartTime is "HH:MM"; must stay nil for full-day priced services.
	StartTime *string

	StaffID *int64
}

// Response is the reservation after the move.
type Response struct {
	ID              int64
	MerchantID      int64
	ResourceID      int64
	StaffID         *int64
	ServiceID       int64
	BookingDate     time.Time
	StartTime       *string
	EndTime         *string
	DurationMinutes int
	Status          string
}

func buildResponse(res *domain.Reservation) *Response {
	resp := &Response{
		ID:              res.ID,
		MerchantID:      res.MerchantID,
		ResourceID:      res.ResourceID,
		StaffID:         res.StaffID,
		ServiceID:       res.ServiceID,
		BookingDate:     res.BookingDate,
		DurationMinutes: res.DurationMinutes,
		Status:          string(res.Status),
	}
	if res.StartTime != nil {
		s := res.StartTime.String()
		resp.StartTime = &s
	}
	if res.EndTime != nil {
		e := res.EndTime.String()
		resp.EndTime = &e
	}
	return resp
}
