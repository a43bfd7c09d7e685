package retry_payment

import (
	"time"

	"github.com/reservado/Reservado-BookingService/internal/service/payments/models"
)

// PaymentAttemptResponse HTTP response model
type PaymentAttemptResponse struct {
	PaymentID     int64   `json:"paymentId"`
	ReservationID int64   `json:"reservationId"`
	Provider      string  `json:"provider"`
	ProviderRef   string  `json:"providerRef"`
	QRCode        string  `json:"qrCode"`
	CopyPasteCode string  `json:"copyPasteCode"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	ExpiresAt     *string `json:"expiresAt,omitempty"`
}

// FromAttempt converts the orchestrator result into the HTTP model.
func FromAttempt(attempt *models.PaymentAttempt) *PaymentAttemptResponse {
	out := &PaymentAttemptResponse{
		PaymentID:     attempt.PaymentID,
		ReservationID: attempt.ReservationID,
		Provider:      attempt.Provider,
		ProviderRef:   attempt.ProviderRef,
		QRCode:        attempt.QRCode,
		CopyPasteCode: attempt.CopyPasteCode,
		Amount:        attempt.Amount,
		Status:        attempt.Status,
	}
	if attempt.ExpiresAt != nil {
		e := attempt.ExpiresAt.Format(time.RFC3339)
		out.ExpiresAt = &e
	}
	return out
}
