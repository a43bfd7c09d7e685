package models

import "github.com/reservado/Reservado-BookingService/internal/domain"

// Actor identifies who is requesting a status change.
type Actor string

const (
	// ActorMerchant is the merchant side (staff, admin panel).
	ActorMerchant Actor = "merchant"
	// ActorCustomer is the booking customer, identified by phone.
	ActorCustomer Actor = "customer"
)

// ChangeStatusParams describes one requested status transition.
type ChangeStatusParams struct {
	ReservationID int64
	MerchantID    int64
	NewStatus     domain.ReservationStatus
	Actor         Actor
	// CustomerPhone authenticates customer-initiated cancellations; compared
	// against the reservation's phone in normalized form.
	CustomerPhone string
	Reason        string
}

// StatusChange is the outcome of a status transition.
type StatusChange struct {
	Reservation *domain.Reservation
	// Refund is set only when the transition was a cancellation.
	Refund *domain.RefundInfo
}
