// Package fakepay is the deterministic stub gateway used for merchants
// without payment credentials (trials, demos, local development). It never
// fails and issues fixed-format fake payment codes; approval only ever
// happens through the webhook/manual reconciliation path.
package fakepay

import (
	"context"
	"fmt"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	"github.com/reservado/Reservado-BookingService/internal/integrations/gateway"
)

// Client implements gateway.Gateway deterministically.
type Client struct{}

// NewClient creates the stub gateway.
func NewClient() *Client {
	return &Client{}
}

// Provider implements gateway.Gateway.
func (c *Client) Provider() string {
	return domain.ProviderFakePay
}

// CreateDeposit issues a deterministic fake charge derived from the
// idempotency key; calling it twice with the same key yields the same
// reference.
func (c *Client) CreateDeposit(_ context.Context, req *gateway.CreateDepositRequest) (*gateway.DepositIntent, error) {
	ref := fmt.Sprintf("FAKE-%d-%s", req.ReservationID, req.IdempotencyKey)
	return &gateway.DepositIntent{
		ProviderRef:   ref,
		QRCode:        fmt.Sprintf("FAKEPAY|QR|%s|%.2f", ref, req.Amount),
		CopyPasteCode: fmt.Sprintf("FAKEPAY|COPIAECOLA|%s|%.2f", ref, req.Amount),
		ExpiresAt:     req.ExpiresAt,
	}, nil
}

// QueryStatus always reports pending; the stub has no provider-side state.
func (c *Client) QueryStatus(_ context.Context, _ string) (gateway.Status, error) {
	return gateway.StatusPending, nil
}
