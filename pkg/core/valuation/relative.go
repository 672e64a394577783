package valuation

import (
	"sort"
)

// MetricInput holds the target company's current metrics (LTM or NTM)
type MetricInput struct {
	Revenue         float64 `json:"revenue"`
	EBITDA          float64 `json:"ebitda"`
	NetIncome       float64 `json:"net_income"`
	MarketCap       float64 `json:"market_cap"`
	EnterpriseValue float64 `json:"enterprise_value"`
	SharesOut       float64 `json:"shares"`
}

// Ratios are the trading multiples of a single company
type Ratios struct {
	EV_Revenue    float64 `json:"ev_revenue"`
	EV_EBITDA     float64 `json:"ev_ebitda"`
	PE_Ratio      float64 `json:"pe_ratio"`
	PriceToSales  float64 `json:"price_to_sales"`
	PricePerShare float64 `json:"price_per_share"`
}

// PeerComparable represents a comparable company or transaction
type PeerComparable struct {
	Name          string  `json:"name"`
	EV_Revenue    float64 `json:"ev_revenue"`
	EV_EBITDA     float64 `json:"ev_ebitda"`
	PE_Ratio      float64 `json:"pe_ratio"`
	IsTransaction bool    `json:"is_transaction"` // True for Precedent Transaction, False for Trading Comp
}

// RelativeValuationResult holds the valuation range derived from multiples
type RelativeValuationResult struct {
	ImpliedEV_Revenue [2]float64 `json:"implied_ev_revenue"` // Low, High
	ImpliedEV_EBITDA  [2]float64 `json:"implied_ev_ebitda"`
	ImpliedPE_Price   [2]float64 `json:"implied_pe_price"`
}

// ratio divides, falling back to 0 for a zero denominator
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// CalculateRatios computes the company's own multiples from stored metrics
func CalculateRatios(m MetricInput) Ratios {
	return Ratios{
		EV_Revenue:    ratio(m.EnterpriseValue, m.Revenue),
		EV_EBITDA:     ratio(m.EnterpriseValue, m.EBITDA),
		PE_Ratio:      ratio(m.MarketCap, m.NetIncome),
		PriceToSales:  ratio(m.MarketCap, m.Revenue),
		PricePerShare: ratio(m.MarketCap, m.SharesOut),
	}
}

// CalculateComps performs Comparable Companies Analysis
func CalculateComps(target MetricInput, peers []PeerComparable) RelativeValuationResult {
	return calculateMultiples(target, peers, false)
}

// CalculateTransactions performs Precedent Transaction Analysis
func CalculateTransactions(target MetricInput, peers []PeerComparable) RelativeValuationResult {
	return calculateMultiples(target, peers, true)
}

func calculateMultiples(target MetricInput, peers []PeerComparable, onlyTransactions bool) RelativeValuationResult {
	var revMults, ebitdaMults, peMults []float64

	for _, p := range peers {
		if p.IsTransaction != onlyTransactions {
			continue
		}
		if p.EV_Revenue > 0 {
			revMults = append(revMults, p.EV_Revenue)
		}
		if p.EV_EBITDA > 0 {
			ebitdaMults = append(ebitdaMults, p.EV_EBITDA)
		}
		if p.PE_Ratio > 0 {
			peMults = append(peMults, p.PE_Ratio)
		}
	}

	res := RelativeValuationResult{}

	rLo, rHi := interquartile(revMults)
	res.ImpliedEV_Revenue = [2]float64{rLo * target.Revenue, rHi * target.Revenue}

	eLo, eHi := interquartile(ebitdaMults)
	res.ImpliedEV_EBITDA = [2]float64{eLo * target.EBITDA, eHi * target.EBITDA}

	// P/E implies a price per share
	eps := ratio(target.NetIncome, target.SharesOut)
	pLo, pHi := interquartile(peMults)
	res.ImpliedPE_Price = [2]float64{pLo * eps, pHi * eps}

	return res
}

// interquartile returns the 25th and 75th percentile picks of mults
func interquartile(mults []float64) (float64, float64) {
	if len(mults) == 0 {
		return 0, 0
	}
	sort.Float64s(mults)
	lowIdx := int(float64(len(mults)) * 0.25)
	highIdx := int(float64(len(mults)) * 0.75)
	if highIdx >= len(mults) {
		highIdx = len(mults) - 1
	}
	return mults[lowIdx], mults[highIdx]
}
