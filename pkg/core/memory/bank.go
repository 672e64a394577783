// Package memory implements the calculator's memory bank: named scalars read by
// the formula buttons and written only by explicit store actions.
package memory

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownKey is returned for a key the bank does not hold
var ErrUnknownKey = errors.New("unknown memory key")

// Key names a scalar slot in the bank
type Key string

const (
	WACC               Key = "wacc"           // percent
	TerminalGrowth     Key = "terminalGrowth" // percent
	DiscountRate       Key = "discountRate"   // percent
	Revenue            Key = "revenue"
	EBITDA             Key = "ebitda"
	NetIncome          Key = "netIncome"
	Shares             Key = "shares"
	MarketCap          Key = "marketCap"
	Enterprise         Key = "enterprise"
	DebtEquityRatio    Key = "debtEquityRatio"
	DebtEbitdaMultiple Key = "debtEbitdaMultiple"
	InitialInvestment  Key = "initialInvestment"
	CurrentCashFlow    Key = "currentCashFlow"
)

// Bank holds the stored values. The zero value is usable but has no defaults; use New.
type Bank struct {
	Values    map[Key]float64 `json:"values"`
	CashFlows []float64       `json:"cash_flows"`
}

// Defaults are the values a fresh bank starts with
var Defaults = map[Key]float64{
	WACC:               8.5,
	TerminalGrowth:     2.5,
	DiscountRate:       10,
	Revenue:            0,
	EBITDA:             0,
	NetIncome:          0,
	Shares:             0,
	MarketCap:          0,
	Enterprise:         0,
	DebtEquityRatio:    4.0,
	DebtEbitdaMultiple: 6.0,
	InitialInvestment:  0,
	CurrentCashFlow:    0,
}

// New returns a bank seeded with Defaults, overridden by any entries of overrides.
func New(overrides map[Key]float64) *Bank {
	b := &Bank{Values: make(map[Key]float64, len(Defaults))}
	for k, v := range Defaults {
		b.Values[k] = v
	}
	for k, v := range overrides {
		if _, ok := Defaults[k]; ok {
			b.Values[k] = v
		}
	}
	return b
}

// ParseKey resolves a key name case-insensitively
func ParseKey(name string) (Key, error) {
	for k := range Defaults {
		if strings.EqualFold(string(k), name) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, name)
}

// Keys lists the scalar slots in sorted order
func Keys() []Key {
	keys := make([]Key, 0, len(Defaults))
	for k := range Defaults {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Store writes value into key
func (b *Bank) Store(key Key, value float64) error {
	if _, ok := Defaults[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if b.Values == nil {
		b.Values = make(map[Key]float64)
	}
	b.Values[key] = value
	return nil
}

// Get reads key; unset slots read as 0
func (b *Bank) Get(key Key) float64 {
	return b.Values[key]
}

// Rate reads a percent slot as a decimal (8.5 -> 0.085)
func (b *Bank) Rate(key Key) float64 {
	return b.Values[key] / 100
}

// AddCashFlow appends a period cash flow and records it as the current one
func (b *Bank) AddCashFlow(v float64) {
	b.CashFlows = append(b.CashFlows, v)
	b.Store(CurrentCashFlow, v)
}

// ClearCashFlows empties the cash-flow sequence
func (b *Bank) ClearCashFlows() {
	b.CashFlows = nil
	b.Store(CurrentCashFlow, 0)
}

// Series returns [-initialInvestment, cashFlows...] with the investment at t=0
func (b *Bank) Series() []float64 {
	series := make([]float64, 0, len(b.CashFlows)+1)
	series = append(series, -b.Get(InitialInvestment))
	return append(series, b.CashFlows...)
}

// Clone returns an independent copy
func (b *Bank) Clone() *Bank {
	c := &Bank{Values: make(map[Key]float64, len(b.Values))}
	for k, v := range b.Values {
		c.Values[k] = v
	}
	c.CashFlows = append([]float64(nil), b.CashFlows...)
	return c
}
