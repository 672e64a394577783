package calculator

import (
	"fmt"
	"math"
	"strings"

	"ibc_tool/pkg/core/calc"
	"ibc_tool/pkg/core/memory"
	"ibc_tool/pkg/core/valuation"
)

// Model names accepted by RunModel
const (
	ModelDCF     = "dcf"
	ModelNPV     = "npv"
	ModelIRR     = "irr"
	ModelPayback = "payback"
	ModelComps   = "comps"
	ModelLBO     = "lbo"
)

// ModelWACC is served by WACC, which takes capital-structure inputs
const ModelWACC = "wacc"

// Comps metrics accepted by CompsRatio
const (
	MetricEVRevenue = "ev/revenue"
	MetricEVEBITDA  = "ev/ebitda"
	MetricPE        = "p/e"
	MetricPS        = "p/s"
	MetricPrice     = "price"
)

// ModelNames lists every model RunModel understands
func ModelNames() []string {
	return []string{ModelDCF, ModelNPV, ModelIRR, ModelPayback, ModelComps, ModelLBO}
}

// RunModel dispatches a model button by name
func (c *Calculator) RunModel(name string) error {
	switch strings.ToLower(name) {
	case ModelDCF:
		c.DCF()
	case ModelNPV:
		c.NPV()
	case ModelIRR:
		c.IRR()
	case ModelPayback:
		c.Payback()
	case ModelComps:
		c.Comps()
	case ModelLBO:
		c.LBO()
	default:
		if _, err := c.CompsRatio(name); err != nil {
			return fmt.Errorf("unknown model %q", name)
		}
	}
	return nil
}

// DCF values the displayed free cash flow with the stored WACC and terminal growth.
// The display shows the enterprise value rounded to a whole number.
func (c *Calculator) DCF() valuation.DCFResult {
	fcf := c.reg.Value()
	res := valuation.CalculateDCF(valuation.DCFInput{
		FreeCashFlow:   fcf,
		WACC:           c.Memory.Rate(memory.WACC),
		TerminalGrowth: c.Memory.Rate(memory.TerminalGrowth),
	})

	rounded := math.Round(res.EnterpriseValue)
	c.reg.SetResult(rounded)
	c.History.Addf("DCF: FCF=%s, WACC=%s%%, TG=%s%% = %s",
		calc.FormatCompact(fcf),
		calc.FormatDisplay(c.Memory.Get(memory.WACC)),
		calc.FormatDisplay(c.Memory.Get(memory.TerminalGrowth)),
		calc.FormatCompact(rounded))
	return res
}

// NPV discounts [-initialInvestment, cashFlows...] at the stored discount rate
func (c *Calculator) NPV() float64 {
	rate := c.Memory.Rate(memory.DiscountRate)
	v := valuation.NPV(rate, c.Memory.Series())
	c.reg.SetResult(v)
	c.History.Addf("NPV: r=%s%%, I=%s, CF×%d = %s",
		calc.FormatDisplay(c.Memory.Get(memory.DiscountRate)),
		calc.FormatCompact(c.Memory.Get(memory.InitialInvestment)),
		len(c.Memory.CashFlows),
		calc.FormatCompact(v))
	return v
}

// IRR solves the stored series for its internal rate of return.
// The display shows the rate in percent, or NaN when no root can be bracketed.
func (c *Calculator) IRR() (float64, error) {
	irr, err := valuation.IRR(c.Memory.Series())
	if err != nil {
		c.reg.SetResult(math.NaN())
		c.History.Addf("IRR: CF×%d = NaN", len(c.Memory.CashFlows))
		return math.NaN(), err
	}
	pct := irr * 100
	c.reg.SetResult(pct)
	c.History.Addf("IRR: CF×%d = %s%%", len(c.Memory.CashFlows), fmt.Sprintf("%.4f", pct))
	return irr, nil
}

// Payback shows the payback period in years (NaN if never paid back)
func (c *Calculator) Payback() (float64, bool) {
	years, ok := valuation.PaybackPeriod(c.Memory.Series())
	if !ok {
		c.reg.SetResult(math.NaN())
		c.History.Add("Payback: never")
		return math.NaN(), false
	}
	c.reg.SetResult(years)
	c.History.Addf("Payback: %.2f years", years)
	return years, true
}

// metrics collects the stored company figures
func (c *Calculator) metrics() valuation.MetricInput {
	return valuation.MetricInput{
		Revenue:         c.Memory.Get(memory.Revenue),
		EBITDA:          c.Memory.Get(memory.EBITDA),
		NetIncome:       c.Memory.Get(memory.NetIncome),
		MarketCap:       c.Memory.Get(memory.MarketCap),
		EnterpriseValue: c.Memory.Get(memory.Enterprise),
		SharesOut:       c.Memory.Get(memory.Shares),
	}
}

// Comps computes all trading multiples; the display shows EV/EBITDA
func (c *Calculator) Comps() valuation.Ratios {
	r := valuation.CalculateRatios(c.metrics())
	c.reg.SetResult(r.EV_EBITDA)
	c.History.Addf("COMPS: EV/Rev=%.1fx, EV/EBITDA=%.1fx, P/E=%.1fx, P/S=%.1fx",
		r.EV_Revenue, r.EV_EBITDA, r.PE_Ratio, r.PriceToSales)
	return r
}

// CompsRatio shows a single multiple
func (c *Calculator) CompsRatio(metric string) (float64, error) {
	r := valuation.CalculateRatios(c.metrics())
	var v float64
	var label string
	switch strings.ToLower(metric) {
	case MetricEVRevenue:
		v, label = r.EV_Revenue, "EV/Revenue"
	case MetricEVEBITDA:
		v, label = r.EV_EBITDA, "EV/EBITDA"
	case MetricPE, "pe":
		v, label = r.PE_Ratio, "P/E"
	case MetricPS, "ps":
		v, label = r.PriceToSales, "P/S"
	case MetricPrice:
		v, label = r.PricePerShare, "Price/Share"
	default:
		return 0, fmt.Errorf("unknown comps metric %q", metric)
	}
	c.reg.SetResult(v)
	c.History.Addf("%s = %s", label, calc.FormatCompact(v))
	return v, nil
}

// WACC prices the capital structure and stores the rate in memory (percent)
// so the next DCF discounts at it. The display shows the rate.
func (c *Calculator) WACC(in valuation.WACCInput) (valuation.WACCResult, error) {
	if err := in.Validate(); err != nil {
		return valuation.WACCResult{}, err
	}
	res := valuation.CalculateWACC(in)
	// Nine decimals keep float dust off the display
	pct := math.Round(res.Percent()*1e9) / 1e9
	if err := c.Memory.Store(memory.WACC, pct); err != nil {
		return res, err
	}
	c.reg.SetResult(pct)
	c.History.Addf("WACC: βL=%.2f, Ke=%.2f%%, Kd=%.2f%%, D/E=%s = %.4f%%",
		res.LeveredBeta, res.CostOfEquity*100, res.CostOfDebt*100,
		calc.FormatDisplay(in.DebtToEquityRatio), pct)
	return res, nil
}

// LBO sizes a buyout from the stored EBITDA and leverage; the display shows sponsor IRR in percent
func (c *Calculator) LBO() valuation.LBOResult {
	res := valuation.CalculateLBO(valuation.LBOInput{
		EBITDA:           c.Memory.Get(memory.EBITDA),
		DebtToEBITDA:     c.Memory.Get(memory.DebtEbitdaMultiple),
		DebtToEquity:     c.Memory.Get(memory.DebtEquityRatio),
		EquityInvestment: c.Memory.Get(memory.InitialInvestment),
	})
	c.reg.SetResult(res.IRR * 100)
	c.History.Addf("LBO: Debt=%s, Equity=%s, MOIC=%.2fx, IRR=%.1f%%",
		calc.FormatCompact(res.DebtRaised), calc.FormatCompact(res.EquityCheck), res.MOIC, res.IRR*100)
	return res
}
