package types

import (
	"errors"
	"fmt"
	"time"
)

// TimeString is a time of day in "HH:MM" format (24-hour clock).
// It is stored as a plain string so it maps directly onto TIME columns
// and JSON payloads without timezone ambiguity.
type TimeString string

const timeLayout = "15:04"

// ErrInvalidTimeString is returned when a string is not a valid "HH:MM" time.
var ErrInvalidTimeString = errors.New("types: invalid time string format")

// ErrTimeOutOfRange is returned when minute arithmetic leaves the day.
var ErrTimeOutOfRange = errors.New("types: time out of range")

// NewTimeString builds a TimeString from the clock part of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString parses and validates an "HH:MM" string.
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// String returns the "HH:MM" representation.
func (t TimeString) String() string {
	return string(t)
}

// IsZero reports whether the value is empty.
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate checks that the value is a well-formed "HH:MM" time.
func (t TimeString) Validate() error {
	if _, err := time.Parse(timeLayout, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// Minutes returns the value as minutes since midnight.
func (t TimeString) Minutes() (int, error) {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// FromMinutes renders minutes since midnight back to "HH:MM".
// Values outside [0, 1440) are wrapped onto the clock face; callers that
// need to know about the wrap must track raw minutes themselves.
func FromMinutes(m int) TimeString {
	m %= 24 * 60
	if m < 0 {
		m += 24 * 60
	}
	return TimeString(fmt.Sprintf("%02d:%02d", m/60, m%60))
}

// AddMinutes returns the time shifted by the given number of minutes.
// The result must stay within the same day; use raw minute arithmetic
// (Minutes/FromMinutes) for windows that may cross midnight.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	m, err := t.Minutes()
	if err != nil {
		return "", err
	}
	m += minutes
	if m < 0 || m > 24*60 {
		return "", fmt.Errorf("%w: %s%+d minutes", ErrTimeOutOfRange, t, minutes)
	}
	return FromMinutes(m), nil
}

// IsBefore reports whether t is strictly earlier in the day than other.
// Malformed values compare as not-before.
func (t TimeString) IsBefore(other TimeString) bool {
	a, err := t.Minutes()
	if err != nil {
		return false
	}
	b, err := other.Minutes()
	if err != nil {
		return false
	}
	return a < b
}

// IsAfter reports whether t is strictly later in the day than other.
func (t TimeString) IsAfter(other TimeString) bool {
	a, err := t.Minutes()
	if err != nil {
		return false
	}
	b, err := other.Minutes()
	if err != nil {
		return false
	}
	return a > b
}
