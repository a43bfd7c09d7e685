package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reservado/Reservado-BookingService/pkg/types"
)

func TestWindow_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Window
		b    Window
		want bool
	}{
		{"disjoint", Window{600, 660}, Window{720, 780}, false},
		{"touching boundaries do not overlap", Window{600, 660}, Window{660, 720}, false},
		{"partial overlap", Window{600, 660}, Window{630, 690}, true},
		{"contained", Window{600, 720}, Window{630, 660}, true},
		{"identical", Window{600, 660}, Window{600, 660}, true},
		{"negative start from buffer still collides", Window{-15, 45}, Window{0, 30}, true},
		{"past-midnight end still collides", Window{1410, 1470}, Window{1430, 1440}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestWindow_WithBuffers(t *testing.T) {
	// A 10:00-11:00 booking with a 15 minute cleanup buffer blocks 11:05
	// but not 11:15.
	booked, err := NewBookedWindow(types.TimeString("10:00"), 60)
	require.NoError(t, err)

	conflict := booked.WithBuffers(0, 15)
	assert.Equal(t, Window{Start: 600, End: 675}, conflict)

	at1105, err := NewBookedWindow(types.TimeString("11:05"), 60)
	require.NoError(t, err)
	assert.True(t, conflict.Overlaps(at1105))

	at1115, err := NewBookedWindow(types.TimeString("11:15"), 60)
	require.NoError(t, err)
	assert.False(t, conflict.Overlaps(at1115))
}

func TestFullDayWindow(t *testing.T) {
	full := FullDayWindow()
	assert.Equal(t, Window{Start: 0, End: MinutesPerDay}, full)

	morning, err := NewBookedWindow(types.TimeString("08:00"), 30)
	require.NoError(t, err)
	assert.True(t, full.Overlaps(morning))
}

func TestWindow_String(t *testing.T) {
	assert.Equal(t, "10:00-11:15", Window{600, 675}.String())
	// Out-of-day minutes wrap onto the clock face for rendering only.
	assert.Equal(t, "23:45-00:30", Window{1425, 1470}.String())
}
