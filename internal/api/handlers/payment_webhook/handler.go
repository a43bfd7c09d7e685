package payment_webhook

import (
	"net/http"

	"github.com/reservado/Reservado-BookingService/internal/api/handlers"
	"github.com/reservado/Reservado-BookingService/internal/domain"
	"github.com/reservado/Reservado-BookingService/internal/integrations/gateway"
	"github.com/reservado/Reservado-BookingService/internal/integrations/mercadopago"
)

const (
	msgInvalidRequestBody = "corpo da notificação inválido"
	msgMissingFields      = "provider e providerRef são obrigatórios"
)

// WebhookRequest is the provider notification as forwarded by the payment
// edge. The provider's raw status string is mapped here; unknown values are
// treated as still pending.
type WebhookRequest struct {
	Provider    string `json:"provider"`
	ProviderRef string `json:"providerRef"`
	Status      string `json:"status"`
}

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/webhook
//
// Always answers 200 once the notification is syntactically valid, including
// for references this service does not know. Providers retry on anything
// else, and an unknown reference will stay unknown.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req WebhookRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/webhook - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.Provider == "" || req.ProviderRef == "" {
		handlers.RespondBadRequest(w, msgMissingFields)
		return
	}

	status := mapStatus(req.Provider, req.Status)

	if err := h.service.Reconcile(r.Context(), req.Provider, req.ProviderRef, status); err != nil {
		// Let the provider retry later.
		h.logger.Error("POST /payments/webhook - Reconcile failed: provider=%s ref=%s: %v",
			req.Provider, req.ProviderRef, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /payments/webhook - Processed: provider=%s ref=%s status=%s",
		req.Provider, req.ProviderRef, status)
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"result": "ok"})
}

func mapStatus(provider, raw string) gateway.Status {
	if provider == domain.ProviderMercadoPago {
		return mercadopago.MapStatus(raw)
	}
	switch raw {
	case "approved":
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
