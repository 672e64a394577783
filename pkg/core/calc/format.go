package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatCompact abbreviates large magnitudes with K/M/B suffixes (one decimal).
// Values below 1,000 are printed in shortest form.
func FormatCompact(num float64) string {
	abs := math.Abs(num)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.1fB", num/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.1fM", num/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.1fK", num/1e3)
	}
	return FormatDisplay(num)
}

// FormatDisplay renders a register value the way the display shows it.
func FormatDisplay(num float64) string {
	switch {
	case num == 0:
		return "0" // also folds -0
	case math.IsNaN(num):
		return "NaN"
	case math.IsInf(num, 1):
		return "Infinity"
	case math.IsInf(num, -1):
		return "-Infinity"
	case math.Abs(num) >= 1e21, math.Abs(num) < 1e-6:
		return exponent(num)
	}
	return strconv.FormatFloat(num, 'f', -1, 64)
}

// exponent prints num as 1.5e-7 or 1e+21, without zero-padding the exponent
func exponent(num float64) string {
	s := strconv.FormatFloat(num, 'e', -1, 64)
	i := strings.IndexByte(s, 'e')
	mantissa, sign, digits := s[:i], s[i+1], strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + string(sign) + digits
}

// ParseDisplay reads display content as a number.
// Non-numeric content yields NaN rather than an error so it can flow
// through the formulas unchanged.
func ParseDisplay(s string) float64 {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	// Partial entries such as "12." or "-"
	trimmed := strings.TrimSuffix(s, ".")
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return v
	}
	return math.NaN()
}
