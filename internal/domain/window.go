package domain

import (
	"fmt"

	"github.com/reservado/Reservado-BookingService/pkg/types"
)

// Window is a half-open interval [Start, End) in minutes relative to
// midnight of the booking date.
//
// Buffer arithmetic may push Start below 0 or End past 1440 (a cleanup
// buffer on a 23:30 slot, say). Those values are kept as-is: overlap checks
// run on the raw minutes so an out-of-day buffer still collides with
// adjacent slots on the same date, and only rendering wraps onto the clock
// face. Spill into the neighbouring calendar date is not matched against
// that date's reservations; conflict checking is scoped to one booking date.
type Window struct {
	Start int
	End   int
}

// NewBookedWindow builds the booked interval for a start time and duration.
func NewBookedWindow(start types.TimeString, durationMinutes int) (Window, error) {
	startMin, err := start.Minutes()
	if err != nil {
		return Window{}, err
	}
	return Window{Start: startMin, End: startMin + durationMinutes}, nil
}

// FullDayWindow covers the whole booking date.
func FullDayWindow() Window {
	return Window{Start: 0, End: MinutesPerDay}
}

// WithBuffers widens the window by the setup/cleanup buffers, producing the
// conflict-check window. The result may leave the [0, 1440) range.
func (w Window) WithBuffers(beforeMinutes, afterMinutes int) Window {
	return Window{Start: w.Start - beforeMinutes, End: w.End + afterMinutes}
}

// Overlaps reports whether two half-open intervals intersect. Touching
// boundaries (a.End == b.Start) do not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.Start < other.End && w.End > other.Start
}

// String renders the window as "HH:MM-HH:MM", wrapping out-of-day minutes
// onto the clock face.
func (w Window) String() string {
	return fmt.Sprintf("%s-%s", types.FromMinutes(w.Start), types.FromMinutes(w.End))
}
