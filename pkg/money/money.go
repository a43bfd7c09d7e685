package money

import "math"

// Round2 rounds an amount to two decimal places using half-up rounding,
// matching how amounts are displayed to customers.
func Round2(amount float64) float64 {
	return math.Floor(amount*100+0.5) / 100
}

// Percentage returns pct percent of total, rounded to two decimal places.
func Percentage(total, pct float64) float64 {
	return Round2(total * pct / 100)
}
