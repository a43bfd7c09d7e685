package create_reservation

import (
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	createReservation "github.com/reservado/Reservado-BookingService/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	ResourceID    int64   `json:"resourceId"`
	StaffID       *int64  `json:"staffId,omitempty"`
	ServiceID     int64   `json:"serviceId"`
	BookingDate   string  `json:"bookingDate"` // "2026-09-15"
	StartTime     *string `json:"startTime,omitempty"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// PaymentResponse carries the deposit payment instructions.
type PaymentResponse struct {
	Provider      string  `json:"provider"`
	ProviderRef   string  `json:"providerRef"`
	QRCode        string  `json:"qrCode"`
	CopyPasteCode string  `json:"copyPasteCode"`
	Amount        float64 `json:"amount"`
	ExpiresAt     *string `json:"expiresAt,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID              int64            `json:"id"`
	MerchantID      int64            `json:"merchantId"`
	ResourceID      int64            `json:"resourceId"`
	StaffID         *int64           `json:"staffId,omitempty"`
	ServiceID       int64            `json:"serviceId"`
	BookingDate     string           `json:"bookingDate"`
	StartTime       *string          `json:"startTime,omitempty"`
	EndTime         *string          `json:"endTime,omitempty"`
	DurationMinutes int              `json:"durationMinutes"`
	CustomerName    string           `json:"customerName"`
	CustomerPhone   string           `json:"customerPhone"`
	CustomerEmail   *string          `json:"customerEmail,omitempty"`
	TotalAmount     float64          `json:"totalAmount"`
	DepositAmount   float64          `json:"depositAmount"`
	Status          string           `json:"status"`
	Payment         *PaymentResponse `json:"payment,omitempty"`
	CreatedAt       string           `json:"createdAt"`
}

// ToUseCaseRequest converts the HTTP request, parsing the booking date.
func (r *CreateReservationRequest) ToUseCaseRequest(merchantID int64) (*createReservation.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		MerchantID:    merchantID,
		ResourceID:    r.ResourceID,
		StaffID:       r.StaffID,
		ServiceID:     r.ServiceID,
		Date:          bookingDate,
		StartTime:     r.StartTime,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		CustomerNotes: r.Notes,
	}, nil
}

// FromUseCaseResponse converts the use case response into the HTTP model.
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	out := &ReservationResponse{
		ID:              resp.ID,
		MerchantID:      resp.MerchantID,
		ResourceID:      resp.ResourceID,
		StaffID:         resp.StaffID,
		ServiceID:       resp.ServiceID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime,
		EndTime:         resp.EndTime,
		DurationMinutes: resp.DurationMinutes,
		CustomerName:    resp.CustomerName,
		CustomerPhone:   resp.CustomerPhone,
		CustomerEmail:   resp.CustomerEmail,
		TotalAmount:     resp.TotalAmount,
		DepositAmount:   resp.DepositAmount,
		Status:          resp.Status,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
	if resp.Payment != nil {
		out.Payment = &PaymentResponse{
			Provider:      resp.Payment.Provider,
			ProviderRef:   resp.Payment.ProviderRef,
			QRCode:        resp.Payment.QRCode,
			CopyPasteCode: resp.Payment.CopyPasteCode,
			Amount:        resp.Payment.Amount,
		}
		if resp.Payment.ExpiresAt != nil {
			formatted := resp.Payment.ExpiresAt.Format(time.RFC3339)
			out.Payment.ExpiresAt = &formatted
		}
	}
	return out
}
