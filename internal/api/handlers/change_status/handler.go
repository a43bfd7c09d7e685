package change_status

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/reservado/Reservado-BookingService/internal/api/handlers"
	"github.com/reservado/Reservado-BookingService/internal/api/middleware"
	"github.com/reservado/Reservado-BookingService/internal/domain"
	"github.com/reservado/Reservado-BookingService/internal/service/reservations"
)

const (
	msgInvalidID           = "identificador de reserva inválido"
	msgInvalidRequestBody  = "corpo da requisição inválido"
	msgInvalidStatus       = "status de reserva inválido"
	msgReservationNotFound = "reserva não encontrada"
	msgForbidden           = "ação não permitida para este solicitante"
	msgInvalidTransition   = "transição de status não permitida: %s -> %s"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{id}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	merchantID := middleware.MerchantID(r.Context())

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req ChangeStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/%d/status - Invalid request body: %v", id, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	params, err := req.ToParams(id, merchantID)
	if err != nil {
		h.logger.Warn("PATCH /reservations/%d/status - Invalid status %q", id, req.Status)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	result, err := h.service.ChangeStatus(r.Context(), params)
	if err != nil {
		var transitionErr *domain.InvalidTransitionError
		switch {
		case errors.As(err, &transitionErr):
			h.logger.Warn("PATCH /reservations/%d/status - Invalid transition %s -> %s",
				id, transitionErr.From, transitionErr.To)
			handlers.RespondUnprocessable(w, fmt.Sprintf(msgInvalidTransition, transitionErr.From, transitionErr.To))

		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/%d/status - Not found: merchant=%d", id, merchantID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, reservations.ErrForbidden):
			h.logger.Warn("PATCH /reservations/%d/status - Forbidden: actor=%s", id, params.Actor)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservations.ErrInvalidStatus):
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("PATCH /reservations/%d/status - Failed: merchant=%d, error=%v", id, merchantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/%d/status - Now %s (merchant=%d)", id, result.Reservation.Status, merchantID)
	handlers.RespondJSON(w, http.StatusOK, FromStatusChange(result))
}
