package reschedule_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/reservado/Reservado-BookingService/internal/api/handlers"
	"github.com/reservado/Reservado-BookingService/internal/api/middleware"
	rescheduleReservation "github.com/reservado/Reservado-BookingService/internal/usecase/reschedule_reservation"
)

const (
	msgInvalidID           = "identificador de reserva inválido"
	msgInvalidRequestBody  = "corpo da requisição inválido"
	msgInvalidDate         = "formato de data inválido, esperado YYYY-MM-DD"
	msgInvalidInput        = "dados de remarcação inválidos"
	msgReservationNotFound = "reserva não encontrada"
	msgNotReschedulable    = "a reserva não pode mais ser remarcada"
	msgStaffBlocked        = "profissional indisponível no novo horário"
	msgSlotNotAvailable    = "o novo horário não está disponível"
	msgTooLateToBook       = "antecedência mínima para remarcação não respeitada"
)

type Handler struct {
	useCase RescheduleUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{id}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	merchantID := middleware.MerchantID(r.Context())

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/%d/reschedule - Invalid request body: %v", id, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(id, merchantID)
	if err != nil {
		h.logger.Warn("PATCH /reservations/%d/reschedule - Failed to parse request: %v", id, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleReservation.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/%d/reschedule - Not found: merchant=%d", id, merchantID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, rescheduleReservation.ErrNotReschedulable):
			h.logger.Warn("PATCH /reservations/%d/reschedule - Not reschedulable", id)
			handlers.RespondUnprocessable(w, msgNotReschedulable)

		case errors.Is(err, rescheduleReservation.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /reservations/%d/reschedule - Slot not available", id)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, rescheduleReservation.ErrStaffBlocked):
			h.logger.Warn("PATCH /reservations/%d/reschedule - Staff blocked", id)
			handlers.RespondConflict(w, msgStaffBlocked)

		case errors.Is(err, rescheduleReservation.ErrTooLateToBook):
			h.logger.Warn("PATCH /reservations/%d/reschedule - Too late", id)
			handlers.RespondUnprocessable(w, msgTooLateToBook)

		case errors.Is(err, rescheduleReservation.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/%d/reschedule - Invalid input: %v", id, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /reservations/%d/reschedule - Failed: merchant=%d, error=%v", id, merchantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/%d/reschedule - Moved to %s (merchant=%d)",
		id, result.BookingDate, merchantID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
