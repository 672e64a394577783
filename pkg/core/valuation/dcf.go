package valuation

import (
	"math"
)

// Growth schedule for the explicit projection period
const (
	ProjectionYears = 5
	InitialGrowth   = 0.15 // Year 1 growth
	GrowthDecline   = 0.02 // Points lost per year
)

// DCFInput encapsulates all inputs required for a Discounted Cash Flow valuation
type DCFInput struct {
	FreeCashFlow   float64 `json:"free_cash_flow"`  // Base-year FCF
	WACC           float64 `json:"wacc"`            // Decimal, e.g. 0.085
	TerminalGrowth float64 `json:"terminal_growth"` // Decimal, e.g. 0.025
}

// ProjectedYear is one row of the explicit forecast
type ProjectedYear struct {
	Year           int     `json:"year"`
	Growth         float64 `json:"growth"`
	FreeCashFlow   float64 `json:"free_cash_flow"`
	DiscountFactor float64 `json:"discount_factor"`
	PresentValue   float64 `json:"present_value"`
}

// DCFResult holds the valuation outputs
type DCFResult struct {
	EnterpriseValue float64         `json:"enterprise_value"`
	PV_FCF          float64         `json:"pv_fcf"`
	TerminalValue   float64         `json:"terminal_value"`
	PV_Terminal     float64         `json:"pv_terminal"`
	Years           []ProjectedYear `json:"years"`
}

// YearGrowth returns the growth rate applied in a projection year (1-based).
// It declines linearly from InitialGrowth and never drops below the terminal rate.
func YearGrowth(year int, terminalGrowth float64) float64 {
	return math.Max(InitialGrowth-GrowthDecline*float64(year-1), terminalGrowth)
}

// CalculateDCF performs a 2-stage DCF: five explicit years plus a Gordon Growth terminal value.
//
// FORMULA:
//
//	FCF_y  = FCF_0 × (1 + g_y)^y
//	PV     = Σ FCF_y / (1 + WACC)^y
//	TV     = FCF_0 × (1 + g_T)^5 × (1 + g) / (WACC − g)
//	EV     = PV + TV / (1 + WACC)^5
//
// where g_T is the growth rate one step past the forecast horizon.
func CalculateDCF(input DCFInput) DCFResult {
	res := DCFResult{Years: make([]ProjectedYear, 0, ProjectionYears)}

	for year := 1; year <= ProjectionYears; year++ {
		g := YearGrowth(year, input.TerminalGrowth)
		fcf := input.FreeCashFlow * math.Pow(1+g, float64(year))
		df := 1 / math.Pow(1+input.WACC, float64(year))
		pv := fcf * df

		res.PV_FCF += pv
		res.Years = append(res.Years, ProjectedYear{
			Year:           year,
			Growth:         g,
			FreeCashFlow:   fcf,
			DiscountFactor: df,
			PresentValue:   pv,
		})
	}

	// Terminal Value (Gordon Growth)
	finalGrowth := YearGrowth(ProjectionYears+1, input.TerminalGrowth)
	terminalFCF := input.FreeCashFlow * math.Pow(1+finalGrowth, ProjectionYears) * (1 + input.TerminalGrowth)
	res.TerminalValue = TerminalValueGordonGrowth(terminalFCF, input.WACC, input.TerminalGrowth)
	res.PV_Terminal = res.TerminalValue / math.Pow(1+input.WACC, ProjectionYears)

	res.EnterpriseValue = res.PV_FCF + res.PV_Terminal
	return res
}

// TerminalValueGordonGrowth calculates TV = CF_{t+1} / (r - g).
// Growth must be below the discount rate; otherwise 0 is returned.
func TerminalValueGordonGrowth(nextPeriodCF, discountRate, growthRate float64) float64 {
	if discountRate <= growthRate {
		return 0
	}
	return nextPeriodCF / (discountRate - growthRate)
}
