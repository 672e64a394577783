package valuation

import (
	"errors"
	"fmt"
)

// ErrInvalidCapitalStructure is returned for inputs the WACC formula cannot price
var ErrInvalidCapitalStructure = errors.New("invalid capital structure")

// WACCInput describes a target capital structure. Rates are decimals.
type WACCInput struct {
	UnleveredBeta     float64 `json:"unlevered_beta"`
	RiskFreeRate      float64 `json:"risk_free_rate"`
	MarketRiskPremium float64 `json:"market_risk_premium"`
	PreTaxCostOfDebt  float64 `json:"pre_tax_cost_of_debt"`
	TaxRate           float64 `json:"tax_rate"`
	DebtToEquityRatio float64 `json:"debt_to_equity"`
}

// WACCResult is the blended discount rate and its components
type WACCResult struct {
	LeveredBeta  float64 `json:"levered_beta"`
	CostOfEquity float64 `json:"cost_of_equity"`
	CostOfDebt   float64 `json:"cost_of_debt"` // after tax
	WACC         float64 `json:"wacc"`
	WeightDebt   float64 `json:"weight_debt"`
	WeightEquity float64 `json:"weight_equity"`
}

// Validate rejects negative leverage and tax rates outside [0, 1)
func (in WACCInput) Validate() error {
	if in.DebtToEquityRatio < 0 {
		return fmt.Errorf("%w: debt/equity %g is negative", ErrInvalidCapitalStructure, in.DebtToEquityRatio)
	}
	if in.TaxRate < 0 || in.TaxRate >= 1 {
		return fmt.Errorf("%w: tax rate %g outside [0, 1)", ErrInvalidCapitalStructure, in.TaxRate)
	}
	return nil
}

// LeverBeta relevers an asset beta at debt/equity de (Hamada)
func LeverBeta(unlevered, taxRate, de float64) float64 {
	return unlevered * (1 + (1-taxRate)*de)
}

// CapitalWeights splits a debt/equity ratio into debt and equity weights
func CapitalWeights(de float64) (debt, equity float64) {
	return de / (1 + de), 1 / (1 + de)
}

// CalculateWACC prices equity with CAPM on the relevered beta and blends it
// with after-tax debt at the target weights.
func CalculateWACC(in WACCInput) WACCResult {
	beta := LeverBeta(in.UnleveredBeta, in.TaxRate, in.DebtToEquityRatio)
	ke := in.RiskFreeRate + beta*in.MarketRiskPremium
	kd := in.PreTaxCostOfDebt * (1 - in.TaxRate)
	wd, we := CapitalWeights(in.DebtToEquityRatio)

	return WACCResult{
		LeveredBeta:  beta,
		CostOfEquity: ke,
		CostOfDebt:   kd,
		WACC:         ke*we + kd*wd,
		WeightDebt:   wd,
		WeightEquity: we,
	}
}

// Percent is the WACC as the memory bank stores rates
func (r WACCResult) Percent() float64 {
	return r.WACC * 100
}
