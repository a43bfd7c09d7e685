package domain

// Default configuration values applied when a merchant or resource has no
// explicit configuration.
const (
	DefaultMaxConcurrentBookings   = 1
	DefaultDepositTTLMinutes       = 30
	DefaultMinBookingNoticeMinutes = 0
)

// Time constants.
const (
	MinutesPerDay = 24 * 60

	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses no longer occupy a slot and are excluded from
// availability counting.
var InactiveStatuses = []ReservationStatus{
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses occupy a slot.
var ActiveStatuses = []ReservationStatus{
	StatusPendingPayment,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}
