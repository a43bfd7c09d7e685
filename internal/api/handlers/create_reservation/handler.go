package create_reservation

import (
	"errors"
	"net/http"

	"github.com/reservado/Reservado-BookingService/internal/api/handlers"
	"github.com/reservado/Reservado-BookingService/internal/api/middleware"
	createReservation "github.com/reservado/Reservado-BookingService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "corpo da requisição inválido"
	msgInvalidDate        = "formato de data inválido, esperado YYYY-MM-DD"
	msgInvalidInput       = "dados da reserva inválidos"
	msgMerchantNotFound   = "comerciante não encontrado"
	msgServiceNotFound    = "serviço não encontrado"
	msgResourceNotFound   = "recurso não encontrado"
	msgStaffBlocked       = "profissional indisponível no horário escolhido"
	msgSlotNotAvailable   = "o horário escolhido não está mais disponível"
	msgTooLateToBook      = "antecedência mínima para reserva não respeitada"
	msgPaymentGateway     = "reserva criada, mas a cobrança do sinal falhou; tente novamente o pagamento"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	merchantID := middleware.MerchantID(r.Context())

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(merchantID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrSlotNotAvailable):
			h.logger.Warn("POST /reservations - Slot not available: merchant=%d, resource=%d", merchantID, req.ResourceID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createReservation.ErrStaffBlocked):
			h.logger.Warn("POST /reservations - Staff blocked: merchant=%d, staff=%v", merchantID, req.StaffID)
			handlers.RespondConflict(w, msgStaffBlocked)

		case errors.Is(err, createReservation.ErrMerchantNotFound):
			h.logger.Warn("POST /reservations - Merchant not found: merchant=%d", merchantID)
			handlers.RespondNotFound(w, msgMerchantNotFound)

		case errors.Is(err, createReservation.ErrServiceNotFound):
			h.logger.Warn("POST /reservations - Service not found: merchant=%d, service=%d", merchantID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createReservation.ErrResourceNotFound):
			h.logger.Warn("POST /reservations - Resource not found: merchant=%d, resource=%d", merchantID, req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createReservation.ErrTooLateToBook):
			h.logger.Warn("POST /reservations - Too late to book: merchant=%d", merchantID)
			handlers.RespondUnprocessable(w, msgTooLateToBook)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createReservation.ErrPaymentGateway):
			// The reservation exists; the client should surface the retry
			// flow instead of re-submitting the booking.
			h.logger.Error("POST /reservations - Deposit charge failed: merchant=%d: %v", merchantID, err)
			handlers.RespondBadGateway(w, msgPaymentGateway)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: merchant=%d, error=%v", merchantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: id=%d, merchant=%d, status=%s",
		result.ID, merchantID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
