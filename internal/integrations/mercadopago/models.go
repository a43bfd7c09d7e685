package mercadopago

// Wire models for the subset of the Mercado Pago payments API the service
// uses (PIX charges).

type createPaymentRequest struct {
	TransactionAmount float64 `json:"transaction_amount"`
	Description       string  `json:"description"`
	PaymentMethodID   string  `json:"payment_method_id"`
	DateOfExpiration  string  `json:"date_of_expiration,omitempty"`
	ExternalReference string  `json:"external_reference,omitempty"`
	Payer             payer   `json:"payer"`
}

type payer struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
}

type paymentResponse struct {
	ID                 int64               `json:"id"`
	Status             string              `json:"status"`
	DateOfExpiration   string              `json:"date_of_expiration"`
	PointOfInteraction *pointOfInteraction `json:"point_of_interaction"`
}

type pointOfInteraction struct {
	TransactionData *transactionData `json:"transaction_data"`
}

type transactionData struct {
	QRCode       string `json:"qr_code"`
	QRCodeBase64 string `json:"qr_code_base64"`
	TicketURL    string `json:"ticket_url"`
}
