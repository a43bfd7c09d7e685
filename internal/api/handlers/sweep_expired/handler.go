package sweep_expired

import (
	"net/http"

	"github.com/reservado/Reservado-BookingService/internal/api/handlers"
)

// SweepResponse reports how many reservations one run cancelled.
type SweepResponse struct {
	Swept int `json:"swept"`
}

type Handler struct {
	useCase SweepUseCase
	logger  Logger
}

func NewHandler(useCase SweepUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /internal/sweep-expired
//
// Operational endpoint for forcing a sweep outside the ticker schedule. Not
// exposed through the public route group.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	swept, err := h.useCase.Execute(r.Context())
	if err != nil {
		h.logger.Error("POST /internal/sweep-expired - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, SweepResponse{Swept: swept})
}
