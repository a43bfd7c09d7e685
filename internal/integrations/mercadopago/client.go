package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	"github.com/reservado/Reservado-BookingService/internal/integrations/gateway"
)

// Logger is the logging interface consumed by the client.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client is a Mercado Pago gateway bound to one merchant's access token.
// It implements gateway.Gateway with PIX deposit charges.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	log         Logger
}

const expirationLayout = "2006-01-02T15:04:05.000-07:00"

// NewClient creates a Mercado Pago client for one merchant.
func NewClient(baseURL, accessToken string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Provider implements gateway.Gateway.
func (c *Client) Provider() string {
	return domain.ProviderMercadoPago
}

// CreateDeposit opens a PIX charge for the deposit amount.
func (c *Client) CreateDeposit(ctx context.Context, req *gateway.CreateDepositRequest) (*gateway.DepositIntent, error) {
	url := fmt.Sprintf("%s/v1/payments", c.baseURL)

	body := createPaymentRequest{
		TransactionAmount: req.Amount,
		Description:       req.Description,
		PaymentMethodID:   "pix",
		DateOfExpiration:  req.ExpiresAt.Format(expirationLayout),
		ExternalReference: strconv.FormatInt(req.ReservationID, 10),
		Payer: payer{
			Email:     req.Customer.Email,
			FirstName: req.Customer.Name,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrRequestFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrRequestFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("X-Idempotency-Key", req.IdempotencyKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Continue below.
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var payment paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if payment.PointOfInteraction == nil || payment.PointOfInteraction.TransactionData == nil {
		return nil, fmt.Errorf("%w: response missing PIX transaction data", ErrInvalidResponse)
	}

	expiresAt := req.ExpiresAt
	if payment.DateOfExpiration != "" {
		if parsed, err := time.Parse(expirationLayout, payment.DateOfExpiration); err == nil {
			expiresAt = parsed
		}
	}

	c.log.Info("mercadopago: created payment id=%d for reservation=%d amount=%.2f",
		payment.ID, req.ReservationID, req.Amount)

	return &gateway.DepositIntent{
		ProviderRef:   strconv.FormatInt(payment.ID, 10),
		QRCode:        payment.PointOfInteraction.TransactionData.QRCodeBase64,
		CopyPasteCode: payment.PointOfInteraction.TransactionData.QRCode,
		ExpiresAt:     expiresAt,
	}, nil
}

// QueryStatus fetches the provider-side status of a charge.
func (c *Client) QueryStatus(ctx context.Context, providerRef string) (gateway.Status, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, providerRef)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrRequestFailed, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute request: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Continue below.
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", ErrUnauthorized
	case http.StatusNotFound:
		return "", ErrPaymentNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var payment paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return MapStatus(payment.Status), nil
}

// MapStatus translates Mercado Pago payment statuses onto the gateway
// contract. Unknown values map to pending so reconciliation never invents a
// terminal state.
func MapStatus(providerStatus string) gateway.Status {
	switch providerStatus {
	case "approved", "authorized":
		return gateway.StatusApproved
	case "rejected":
		return gateway.StatusRejected
	case "cancelled":
		return gateway.StatusCancelled
	case "expired":
		return gateway.StatusExpired
	default:
		return gateway.StatusPending
	}
}
