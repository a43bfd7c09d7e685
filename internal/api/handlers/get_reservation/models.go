package get_reservation

import (
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
)

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID                 int64   `json:"id"`
	MerchantID         int64   `json:"merchantId"`
	ResourceID         int64   `json:"resourceId"`
	StaffID            *int64  `json:"staffId,omitempty"`
	ServiceID          int64   `json:"serviceId"`
	BookingDate        string  `json:"bookingDate"`
	StartTime          *string `json:"startTime,omitempty"`
	EndTime            *string `json:"endTime,omitempty"`
	DurationMinutes    int     `json:"durationMinutes"`
	CustomerName       string  `json:"customerName"`
	CustomerPhone      string  `json:"customerPhone"`
	CustomerEmail      *string `json:"customerEmail,omitempty"`
	TotalAmount        float64 `json:"totalAmount"`
	DepositAmount      float64 `json:"depositAmount"`
	Status             string  `json:"status"`
	PaymentProvider    *string `json:"paymentProvider,omitempty"`
	PaymentQRCode      *string `json:"paymentQrCode,omitempty"`
	PaymentCopyPaste   *string `json:"paymentCopyPasteCode,omitempty"`
	DepositExpiresAt   *string `json:"depositExpiresAt,omitempty"`
	Notes              *string `json:"notes,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// FromDomain converts a reservation into the HTTP model.
func FromDomain(res *domain.Reservation) *ReservationResponse {
	out := &ReservationResponse{
		ID:                 res.ID,
		MerchantID:         res.MerchantID,
		ResourceID:         res.ResourceID,
		StaffID:            res.StaffID,
		ServiceID:          res.ServiceID,
		BookingDate:        res.BookingDate.Format(domain.DateFormat),
		DurationMinutes:    res.DurationMinutes,
		CustomerName:       res.CustomerName,
		CustomerPhone:      res.CustomerPhone,
		CustomerEmail:      res.CustomerEmail,
		TotalAmount:        res.TotalAmount,
		DepositAmount:      res.DepositAmount,
		Status:             string(res.Status),
		PaymentProvider:    res.PaymentProvider,
		PaymentQRCode:      res.PaymentQRCode,
		PaymentCopyPaste:   res.PaymentCopyPaste,
		Notes:              res.CustomerNotes,
		CancellationReason: res.CancellationReason,
		CreatedAt:          res.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          res.UpdatedAt.Format(time.RFC3339),
	}
	if res.StartTime != nil {
		s := res.StartTime.String()
		out.StartTime = &s
	}
	if res.EndTime != nil {
		e := res.EndTime.String()
		out.EndTime = &e
	}
	if res.DepositExpiresAt != nil {
		d := res.DepositExpiresAt.Format(time.RFC3339)
		out.DepositExpiresAt = &d
	}
	if res.CancelledAt != nil {
		c := res.CancelledAt.Format(time.RFC3339)
		out.CancelledAt = &c
	}
	return out
}
