package fx

import (
	"math"

	"github.com/shopspring/decimal"
)

// smallAmount is the threshold below which converted amounts keep extra precision
const smallAmount = 0.01

// FormatAmount rounds a converted amount for display: 6 decimal places
// below 0.01, 4 otherwise. The comparison is signed, so every negative
// amount keeps 6 places.
func FormatAmount(amount float64) string {
	if amount < smallAmount {
		return FormatFixed(amount, 6)
	}
	return FormatFixed(amount, 4)
}

// FormatFixed renders amount with exactly places decimals, rounding half away from zero.
func FormatFixed(amount float64, places int32) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "NaN"
	}
	return decimal.NewFromFloat(amount).StringFixed(places)
}
