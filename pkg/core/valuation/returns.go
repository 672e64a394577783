package valuation

import (
	"errors"
	"math"
)

// ErrIRRNoSignChange is returned when NPV never changes sign over the search range,
// so no internal rate of return can be bracketed.
var ErrIRRNoSignChange = errors.New("irr: npv does not change sign over search range")

// IRR search parameters
const (
	irrMinRate    = -0.99
	irrMaxRate    = 10.0
	irrScanStep   = 0.01
	irrTolerance  = 1e-7
	irrMaxIterate = 200
)

// NPV discounts a cash-flow series at rate. flows[0] occurs at t=0 and is not discounted.
//
// FORMULA: NPV = Σ CF_t / (1 + r)^t
func NPV(rate float64, flows []float64) float64 {
	total := 0.0
	df := 1.0
	for _, cf := range flows {
		total += cf / df
		df *= 1 + rate
	}
	return total
}

// IRR finds the rate at which NPV is zero.
//
// The range [-99%, 1000%] is scanned in 1% steps for the first sign change,
// then the bracket is bisected until |NPV| < 1e-7. Series whose NPV keeps one
// sign everywhere (all inflows, all outflows) return ErrIRRNoSignChange.
func IRR(flows []float64) (float64, error) {
	if len(flows) < 2 {
		return 0, ErrIRRNoSignChange
	}
	lo := irrMinRate
	npvLo := NPV(lo, flows)
	if npvLo == 0 {
		return lo, nil
	}

	hi := math.NaN()
	for r := lo + irrScanStep; r <= irrMaxRate; r += irrScanStep {
		v := NPV(r, flows)
		if v == 0 {
			return r, nil
		}
		if math.Signbit(v) != math.Signbit(npvLo) {
			hi = r
			break
		}
		lo, npvLo = r, v
	}
	if math.IsNaN(hi) {
		return 0, ErrIRRNoSignChange
	}

	mid := lo
	for i := 0; i < irrMaxIterate; i++ {
		mid = (lo + hi) / 2
		v := NPV(mid, flows)
		if math.Abs(v) < irrTolerance {
			return mid, nil
		}
		if math.Signbit(v) == math.Signbit(npvLo) {
			lo, npvLo = mid, v
		} else {
			hi = mid
		}
	}
	return mid, nil
}

// PaybackPeriod returns the number of periods until the cumulative cash flow
// turns non-negative, interpolating linearly inside the crossing period.
// flows[0] is the t=0 flow (usually the negative initial investment).
// ok is false when the series never pays back.
func PaybackPeriod(flows []float64) (years float64, ok bool) {
	if len(flows) == 0 {
		return 0, false
	}
	cumulative := flows[0]
	if cumulative >= 0 {
		return 0, true
	}
	for t := 1; t < len(flows); t++ {
		prev := cumulative
		cumulative += flows[t]
		if cumulative >= 0 {
			return float64(t-1) + (-prev)/flows[t], true
		}
	}
	return 0, false
}

// MOIC is the multiple on invested capital; 0 when nothing was invested.
func MOIC(exitEquity, investedEquity float64) float64 {
	if investedEquity == 0 {
		return 0
	}
	return exitEquity / investedEquity
}

// AnnualizedReturn converts a multiple earned over years into a compound annual rate.
func AnnualizedReturn(multiple float64, years int) float64 {
	if years <= 0 || multiple <= 0 {
		return 0
	}
	return math.Pow(multiple, 1/float64(years)) - 1
}
