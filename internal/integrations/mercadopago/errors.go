package mercadopago

import "errors"

var (
	// ErrRequestFailed is returned when the HTTP call to Mercado Pago fails.
	ErrRequestFailed = errors.New("mercadopago: request failed")

	// ErrInvalidResponse is returned when Mercado Pago answers with an
	// unexpected status code or malformed body.
	ErrInvalidResponse = errors.New("mercadopago: invalid response")

	// ErrUnauthorized is returned when the merchant access token is rejected.
	ErrUnauthorized = errors.New("mercadopago: unauthorized")

	// ErrPaymentNotFound is returned when the payment id is unknown to the
	// provider.
	ErrPaymentNotFound = errors.New("mercadopago: payment not found")
)
