package change_status

import (
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	"github.com/reservado/Reservado-BookingService/internal/service/reservations/models"
)

// ChangeStatusRequest HTTP request model
type ChangeStatusRequest struct {
	Status string `json:"status"`
	// Actor is "merchant" (default) or "customer".
	Actor string `json:"actor,omitempty"`
	// CustomerPhone authenticates customer cancellations.
	CustomerPhone string `json:"customerPhone,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// RefundResponse reports the refund eligibility of a cancellation.
type RefundResponse struct {
	EligibleAmount float64 `json:"eligibleAmount"`
	WithinDeadline bool    `json:"withinDeadline"`
}

// StatusChangeResponse HTTP response model
type StatusChangeResponse struct {
	ID                 int64           `json:"id"`
	Status             string          `json:"status"`
	CancellationReason *string         `json:"cancellationReason,omitempty"`
	CancelledAt        *string         `json:"cancelledAt,omitempty"`
	Refund             *RefundResponse `json:"refund,omitempty"`
}

// ToParams converts the HTTP request into service parameters.
func (r *ChangeStatusRequest) ToParams(reservationID, merchantID int64) (models.ChangeStatusParams, error) {
	status, err := domain.ParseReservationStatus(r.Status)
	if err != nil {
		return models.ChangeStatusParams{}, err
	}

	actor := models.ActorMerchant
	if r.Actor == string(models.ActorCustomer) {
		actor = models.ActorCustomer
	}

	return models.ChangeStatusParams{
		ReservationID: reservationID,
		MerchantID:    merchantID,
		NewStatus:     status,
		Actor:         actor,
		CustomerPhone: r.CustomerPhone,
		Reason:        r.Reason,
	}, nil
}

// FromStatusChange converts the service result into the HTTP model.
func FromStatusChange(change *models.StatusChange) *StatusChangeResponse {
	res := change.Reservation
	out := &StatusChangeResponse{
		ID:                 res.ID,
		Status:             string(res.Status),
		CancellationReason: res.CancellationReason,
	}
	if res.CancelledAt != nil {
		c := res.CancelledAt.Format(time.RFC3339)
		out.CancelledAt = &c
	}
	if change.Refund != nil {
		out.Refund = &RefundResponse{
			EligibleAmount: change.Refund.EligibleAmount,
			WithinDeadline: change.Refund.WithinDeadline,
		}
	}
	return out
}
