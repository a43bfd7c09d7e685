package retry_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/reservado/Reservado-BookingService/internal/api/handlers"
	"github.com/reservado/Reservado-BookingService/internal/api/middleware"
	"github.com/reservado/Reservado-BookingService/internal/service/payments"
)

const (
	msgInvalidID           = "identificador de reserva inválido"
	msgReservationNotFound = "reserva não encontrada"
	msgNoDepositRequired   = "esta reserva não exige sinal"
	msgRetryNotAllowed     = "o status atual da reserva não permite nova cobrança"
	msgAlreadyPaid         = "o sinal desta reserva já foi pago"
	msgGatewayError        = "falha na comunicação com o provedor de pagamento"
)

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

// Handle POST /api/v1/reservations/{id}/payments/retry
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	merchantID := middleware.MerchantID(r.Context())

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	attempt, err := h.service.RetryPayment(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/%d/payments/retry - Not found: merchant=%d", id, merchantID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, payments.ErrNoDepositRequired):
			handlers.RespondUnprocessable(w, msgNoDepositRequired)

		case errors.Is(err, payments.ErrRetryNotAllowed):
			h.logger.Warn("POST /reservations/%d/payments/retry - Not allowed", id)
			handlers.RespondUnprocessable(w, msgRetryNotAllowed)

		case errors.Is(err, payments.ErrAlreadyPaid):
			h.logger.Warn("POST /reservations/%d/payments/retry - Already paid", id)
			handlers.RespondConflict(w, msgAlreadyPaid)

		case errors.Is(err, payments.ErrGateway):
			h.logger.Error("POST /reservations/%d/payments/retry - Gateway error: %v", id, err)
			handlers.RespondBadGateway(w, msgGatewayError)

		default:
			h.logger.Error("POST /reservations/%d/payments/retry - Failed: merchant=%d, error=%v", id, merchantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/%d/payments/retry - New attempt payment=%d provider=%s",
		id, attempt.PaymentID, attempt.Provider)
	handlers.RespondJSON(w, http.StatusCreated, FromAttempt(attempt))
}
