package models

import (
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
)

// PaymentAttempt is the orchestrator's view of one deposit attempt, returned
// to callers after creation or retry.
type PaymentAttempt struct {
	PaymentID     int64
	ReservationID int64
	Provider      string
	ProviderRef   string
	QRCode        string
	CopyPasteCode string
	Amount        float64
	Status        string
	ExpiresAt     *time.Time
}

// FromDomainPayment converts a payment row into a PaymentAttempt.
func FromDomainPayment(p *domain.Payment) *PaymentAttempt {
	attempt := &PaymentAttempt{
		PaymentID:     p.ID,
		ReservationID: p.ReservationID,
		Provider:      p.Provider,
		Amount:        p.Amount,
		Status:        string(p.Status),
		ExpiresAt:     p.ExpiresAt,
	}
	if p.ProviderRef != nil {
		attempt.ProviderRef = *p.ProviderRef
	}
	if p.QRCode != nil {
		attempt.QRCode = *p.QRCode
	}
	if p.CopyPasteCode != nil {
		attempt.CopyPasteCode = *p.CopyPasteCode
	}
	return attempt
}
