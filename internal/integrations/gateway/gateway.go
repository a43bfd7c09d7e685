// Package gateway defines the capability contract every payment provider
// implements. Callers hold a Gateway and never branch on which provider is
// behind it; selection happens once per merchant.
package gateway

import (
	"context"
	"time"
)

// Status is the provider-reported state of a deposit payment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Customer identifies the payer on the provider side.
type Customer struct {
	Name  string
	Phone string
	Email string
}

// CreateDepositRequest asks the provider to open a deposit charge.
type CreateDepositRequest struct {
	// IdempotencyKey deduplicates retried calls on the provider side.
	IdempotencyKey string
	ReservationID  int64
	Amount         float64
	Description    string
	Customer       Customer
	ExpiresAt      time.Time
}

// DepositIntent is the provider's handle for a created charge.
type DepositIntent struct {
	ProviderRef   string
	QRCode        string
	CopyPasteCode string
	ExpiresAt     time.Time
}

// Gateway is the payment provider capability.
type Gateway interface {
	// Provider returns the provider name recorded on payment rows.
	Provider() string

	// CreateDeposit opens a deposit charge and returns its handle.
	CreateDeposit(ctx context.Context, req *CreateDepositRequest) (*DepositIntent, error)

	// QueryStatus fetches the current provider-side status of a charge.
	QueryStatus(ctx context.Context, providerRef string) (Status, error)
}
