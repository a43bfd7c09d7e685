package reschedule_reservation

import (
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	rescheduleReservation "github.com/reservado/Reservado-BookingService/internal/usecase/reschedule_reservation"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	BookingDate string  `json:"bookingDate"` // "2026-09-20"
	StartTime   *string `json:"startTime,omitempty"`
	StaffID     *int64  `json:"staffId,omitempty"`
}

// RescheduleResponse HTTP response model
type RescheduleResponse struct {
	ID              int64   `json:"id"`
	ResourceID      int64   `json:"resourceId"`
	StaffID         *int64  `json:"staffId,omitempty"`
	ServiceID       int64   `json:"serviceId"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       *string `json:"startTime,omitempty"`
	EndTime         *string `json:"endTime,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
}

// ToUseCaseRequest converts the HTTP request, parsing the booking date.
func (r *RescheduleRequest) ToUseCaseRequest(reservationID, merchantID int64) (*rescheduleReservation.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	return &rescheduleReservation.Request{
		ReservationID: reservationID,
		MerchantID:    merchantID,
		Date:          bookingDate,
		StartTime:     r.StartTime,
		StaffID:       r.StaffID,
	}, nil
}

// FromUseCaseResponse converts the use case response into the HTTP model.
func FromUseCaseResponse(resp *rescheduleReservation.Response) *RescheduleResponse {
	return &RescheduleResponse{
		ID:              resp.ID,
		ResourceID:      resp.ResourceID,
		StaffID:         resp.StaffID,
		ServiceID:       resp.ServiceID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime,
		EndTime:         resp.EndTime,
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
	}
}
