package get_merchant_reservations

import (
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
)

// ReservationItem is one row in the merchant listing. Lighter than the
// single-reservation view: no payment codes, no notes.
type ReservationItem struct {
	ID              int64   `json:"id"`
	ResourceID      int64   `json:"resourceId"`
	StaffID         *int64  `json:"staffId,omitempty"`
	ServiceID       int64   `json:"serviceId"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       *string `json:"startTime,omitempty"`
	EndTime         *string `json:"endTime,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	TotalAmount     float64 `json:"totalAmount"`
	DepositAmount   float64 `json:"depositAmount"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"createdAt"`
}

// ReservationsResponse HTTP response model
type ReservationsResponse struct {
	Reservations []*ReservationItem `json:"reservations"`
	Total        int                `json:"total"`
}

// FromDomainList converts reservations into the listing response.
func FromDomainList(list []*domain.Reservation) *ReservationsResponse {
	items := make([]*ReservationItem, 0, len(list))
	for _, res := range list {
		item := &ReservationItem{
			ID:              res.ID,
			ResourceID:      res.ResourceID,
			StaffID:         res.StaffID,
			ServiceID:       res.ServiceID,
			BookingDate:     res.BookingDate.Format(domain.DateFormat),
			DurationMinutes: res.DurationMinutes,
			CustomerName:    res.CustomerName,
			CustomerPhone:   res.CustomerPhone,
			TotalAmount:     res.TotalAmount,
			DepositAmount:   res.DepositAmount,
			Status:          string(res.Status),
			CreatedAt:       res.CreatedAt.Format(time.RFC3339),
		}
		if res.StartTime != nil {
			s := res.StartTime.String()
			item.StartTime = &s
		}
		if res.EndTime != nil {
			e := res.EndTime.String()
			item.EndTime = &e
		}
		items = append(items, item)
	}
	return &ReservationsResponse{
		Reservations: items,
		Total:        len(items),
	}
}
