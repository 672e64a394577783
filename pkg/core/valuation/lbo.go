package valuation

import (
	"math"
)

// LBO defaults applied when the caller leaves a field at zero
const (
	DefaultLBOInvestment    = 1000.0
	DefaultLBOHoldingPeriod = 5
	DefaultLBOEBITDAGrowth  = 0.05
	DefaultLBOInterestRate  = 0.08
	DefaultLBOTaxRate       = 0.25
	DefaultLBOTargetIRR     = 0.20
)

// LBOInput parameters for leverage sizing and sponsor returns
type LBOInput struct {
	EBITDA           float64 `json:"ebitda"`
	DebtToEBITDA     float64 `json:"debt_to_ebitda"`    // Leverage multiple (e.g. 6.0x)
	DebtToEquity     float64 `json:"debt_to_equity"`    // Capital structure (e.g. 4.0 = 80/20)
	EquityInvestment float64 `json:"equity_investment"` // Sponsor cheque; 0 derives it from the leverage ratios
	ExitMultiple     float64 `json:"exit_multiple"`     // EV/EBITDA at exit; 0 exits at the entry multiple
	EBITDAGrowth     float64 `json:"ebitda_growth"`
	InterestRate     float64 `json:"interest_rate"`
	TaxRate          float64 `json:"tax_rate"`
	HoldingPeriod    int     `json:"holding_period"`
	TargetIRR        float64 `json:"target_irr"`
}

// LBOResult
type LBOResult struct {
	DebtRaised           float64 `json:"debt_raised"`
	EquityCheck          float64 `json:"equity_check"`
	EntryEV              float64 `json:"entry_ev"`
	ImpliedEntryMultiple float64 `json:"implied_entry_multiple"`
	ExitEV               float64 `json:"exit_ev"`
	ExitDebt             float64 `json:"exit_debt"`
	ExitEquityValue      float64 `json:"exit_equity_value"`
	MOIC                 float64 `json:"moic"`
	IRR                  float64 `json:"irr"`
	MaxEntryEV           float64 `json:"max_entry_ev"` // Price that still earns TargetIRR
}

// withDefaults fills the optional fields
func (in LBOInput) withDefaults() LBOInput {
	if in.HoldingPeriod <= 0 {
		in.HoldingPeriod = DefaultLBOHoldingPeriod
	}
	if in.EBITDAGrowth == 0 {
		in.EBITDAGrowth = DefaultLBOEBITDAGrowth
	}
	if in.InterestRate == 0 {
		in.InterestRate = DefaultLBOInterestRate
	}
	if in.TaxRate == 0 {
		in.TaxRate = DefaultLBOTaxRate
	}
	if in.TargetIRR == 0 {
		in.TargetIRR = DefaultLBOTargetIRR
	}
	return in
}

// SizeEquity picks the sponsor equity: the explicit investment when set,
// else debt divided by the debt/equity ratio, else DefaultLBOInvestment.
func SizeEquity(debt, debtToEquity, investment float64) float64 {
	if investment > 0 {
		return investment
	}
	if debt > 0 && debtToEquity > 0 {
		return debt / debtToEquity
	}
	return DefaultLBOInvestment
}

// CalculateLBO sizes the debt package, sweeps free cash against debt over the
// holding period and reports sponsor returns.
func CalculateLBO(input LBOInput) LBOResult {
	input = input.withDefaults()

	// 1. Sources
	debt := input.EBITDA * input.DebtToEBITDA
	equity := SizeEquity(debt, input.DebtToEquity, input.EquityInvestment)
	entryEV := debt + equity

	entryMultiple := 0.0
	if input.EBITDA != 0 {
		entryMultiple = entryEV / input.EBITDA
	}
	exitMultiple := input.ExitMultiple
	if exitMultiple == 0 {
		exitMultiple = entryMultiple
	}

	// 2. Cash Flow Waterfall: FCF pays down debt
	currentDebt := debt
	ebitda := input.EBITDA
	for i := 0; i < input.HoldingPeriod; i++ {
		ebitda *= 1 + input.EBITDAGrowth
		interest := currentDebt * input.InterestRate

		taxes := (ebitda - interest) * input.TaxRate
		if taxes < 0 {
			taxes = 0
		}
		fcf := ebitda - interest - taxes

		// Surplus sweeps debt; a deficit is funded by the revolver
		currentDebt = math.Max(currentDebt-fcf, 0)
	}

	// 3. Exit
	exitEV := ebitda * exitMultiple
	exitEquity := exitEV - currentDebt
	moic := MOIC(exitEquity, equity)

	// 4. Backward induction: Entry equity = Exit / (1+IRR)^T
	requiredEquity := exitEquity / math.Pow(1+input.TargetIRR, float64(input.HoldingPeriod))

	return LBOResult{
		DebtRaised:           debt,
		EquityCheck:          equity,
		EntryEV:              entryEV,
		ImpliedEntryMultiple: entryMultiple,
		ExitEV:               exitEV,
		ExitDebt:             currentDebt,
		ExitEquityValue:      exitEquity,
		MOIC:                 moic,
		IRR:                  AnnualizedReturn(moic, input.HoldingPeriod),
		MaxEntryEV:           requiredEquity + debt,
	}
}
