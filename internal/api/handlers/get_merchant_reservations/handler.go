package get_merchant_reservations

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/reservado/Reservado-BookingService/internal/api/handlers"
	"github.com/reservado/Reservado-BookingService/internal/api/middleware"
	"github.com/reservado/Reservado-BookingService/internal/domain"
)

const (
	msgInvalidMerchantID = "identificador de comerciante inválido"
	msgInvalidFilter     = "filtro de listagem inválido"
	msgForbidden         = "acesso negado às reservas deste comerciante"
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

// Handle GET /api/v1/merchants/{merchantId}/reservations
//
// Query params: resourceId, staffId, startDate, endDate, status, phone,
// includeInactive.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	authMerchantID := middleware.MerchantID(r.Context())

	merchantID, err := strconv.ParseInt(mux.Vars(r)["merchantId"], 10, 64)
	if err != nil || merchantID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidMerchantID)
		return
	}
	if merchantID != authMerchantID {
		h.logger.Warn("GET /merchants/%d/reservations - Denied for merchant=%d", merchantID, authMerchantID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	filter, err := parseFilter(merchantID, r)
	if err != nil {
		h.logger.Warn("GET /merchants/%d/reservations - Invalid filter: %v", merchantID, err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	list, err := h.service.GetMerchantReservations(r.Context(), filter)
	if err != nil {
		h.logger.Error("GET /merchants/%d/reservations - Failed: %v", merchantID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainList(list))
}

func parseFilter(merchantID int64, r *http.Request) (domain.MerchantReservationsFilter, error) {
	filter := domain.MerchantReservationsFilter{MerchantID: merchantID}
	q := r.URL.Query()

	if raw := q.Get("resourceId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, err
		}
		filter.ResourceID = &id
	}
	if raw := q.Get("staffId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, err
		}
		filter.StaffID = &id
	}
	if raw := q.Get("startDate"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &date
	}
	if raw := q.Get("endDate"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return filter, err
		}
		filter.EndDate = &date
	}
	if raw := q.Get("status"); raw != "" {
		status, err := domain.ParseReservationStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if raw := q.Get("phone"); raw != "" {
		filter.CustomerPhone = &raw
	}
	if raw := q.Get("includeInactive"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, err
		}
		filter.IncludeInactive = include
	}

	return filter, nil
}
