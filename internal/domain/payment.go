package domain

import "time"

// PaymentStatus represents the status of one deposit collection attempt.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentExpired  PaymentStatus = "expired"
)

// Payment providers.
const (
	ProviderMercadoPago = "mercadopago"
	ProviderFakePay     = "fakepay"
)

// Payment is one attempt to collect the deposit for a reservation.
// A reservation accumulates payment rows across retries; at most one of
// them may ever reach approved (enforced by a partial unique index).
type Payment struct {
	ID            int64
	ReservationID int64
	Amount        float64
	Status        PaymentStatus
	Provider      string
	ProviderRef   *string
	QRCode        *string
	CopyPasteCode *string
	PaidAt        *time.Time
	ExpiresAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsFinal reports whether the payment attempt can no longer change status.
func (p *Payment) IsFinal() bool {
	return p.Status == PaymentApproved || p.Status == PaymentRejected ||
		p.Status == PaymentRefunded || p.Status == PaymentExpired
}
