package create_reservation

import (
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	paymentModels "github.com/reservado/Reservado-BookingService/internal/service/payments/models"
)

// Request carries the data for one reservation attempt.
type Request struct {
	MerchantID int64
	ResourceID int64
	StaffID    *int64
	ServiceID  int64

	Date time.Time
	// StartTime is "HH:MM"; nil only for full-day priced services.
	StartTime *string

	CustomerName  string
	CustomerPhone string
	CustomerEmail *string

	CustomerNotes *string
}

// Response is the created reservation plus, when a deposit is due, the
// payment instructions for the customer.
type Response struct {
	ID         int64
	MerchantID int64
	ResourceID int64
	StaffID    *int64
	ServiceID  int64

	BookingDate     time.Time
	StartTime       *string
	EndTime         *string
	DurationMinutes int

	CustomerName  string
	CustomerPhone string
	CustomerEmail *string

	TotalAmount   float64
	DepositAmount float64
	Status        string

	// Payment is nil when the deposit is zero and the reservation was
	// confirmed immediately.
	Payment *PaymentInstructions

	CreatedAt time.Time
}

// PaymentInstructions is what the customer needs to settle the deposit.
type PaymentInstructions struct {
	Provider      string
	ProviderRef   string
	QRCode        string
	CopyPasteCode string
	Amount        float64
	ExpiresAt     *time.Time
}

func buildResponse(res *domain.Reservation, attempt *paymentModels.PaymentAttempt) *Response {
	resp := &Response{
		ID:              res.ID,
		MerchantID:      res.MerchantID,
		ResourceID:      res.ResourceID,
		StaffID:         res.StaffID,
		ServiceID:       res.ServiceID,
		BookingDate:     res.BookingDate,
		DurationMinutes: res.DurationMinutes,
		CustomerName:    res.CustomerName,
		CustomerPhone:   res.CustomerPhone,
		CustomerEmail:   res.CustomerEmail,
		TotalAmount:     res.TotalAmount,
		DepositAmount:   res.DepositAmount,
		Status:          string(res.Status),
		CreatedAt:       res.CreatedAt,
	}
	if res.StartTime != nil {
		s := res.StartTime.String()
		resp.StartTime = &s
	}
	if res.EndTime != nil {
		e := res.EndTime.String()
		resp.EndTime = &e
	}
	if attempt != nil {
		resp.Payment = &PaymentInstructions{
			Provider:      attempt.Provider,
			ProviderRef:   attempt.ProviderRef,
			QRCode:        attempt.QRCode,
			CopyPasteCode: attempt.CopyPasteCode,
			Amount:        attempt.Amount,
			ExpiresAt:     attempt.ExpiresAt,
		}
	}
	return resp
}
