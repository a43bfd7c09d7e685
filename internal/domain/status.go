package domain

import "fmt"

// ReservationStatus represents the lifecycle status of a reservation.
// Lowercase values are canonical; they are also enforced by a CHECK
// constraint on the reservations table.
type ReservationStatus string

const (
	StatusPendingPayment ReservationStatus = "pending_payment"
	StatusConfirmed      ReservationStatus = "confirmed"
	StatusInProgress     ReservationStatus = "in_progress"
	StatusCompleted      ReservationStatus = "completed"
	StatusCancelled      ReservationStatus = "cancelled"
	StatusNoShow         ReservationStatus = "no_show"
)

// transitions is the full status machine. A status missing a target list is
// terminal. Payment retry intentionally bypasses this table when it reopens
// a cancelled reservation (see service/payments).
var transitions = map[ReservationStatus][]ReservationStatus{
	StatusPendingPayment: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusInProgress, StatusCancelled, StatusCompleted},
	StatusInProgress:     {StatusCompleted, StatusNoShow},
	StatusCompleted:      {},
	StatusCancelled:      {},
	StatusNoShow:         {},
}

// InvalidTransitionError reports an illegal status change.
type InvalidTransitionError struct {
	From ReservationStatus
	To   ReservationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

// ParseReservationStatus validates a raw status string.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(s)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("unknown reservation status %q", s)
	}
	return status, nil
}

// CanTransition reports whether from → to is a legal status change.
func CanTransition(from, to ReservationStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CheckTransition returns an InvalidTransitionError when from → to is not in
// the transition table.
func CheckTransition(from, to ReservationStatus) error {
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// IsTerminal reports whether no transition leaves the status.
func (s ReservationStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// InitialStatus returns the status a new reservation is created in:
// confirmed when no deposit is required, pending_payment otherwise.
func InitialStatus(depositAmount float64) ReservationStatus {
	if depositAmount <= 0 {
		return StatusConfirmed
	}
	return StatusPendingPayment
}
