package calculator

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"ibc_tool/pkg/core/calc"
	"ibc_tool/pkg/core/fx"
	"ibc_tool/pkg/core/history"
	"ibc_tool/pkg/core/memory"
)

// Options configures a new Calculator. Zero values fall back to defaults.
type Options struct {
	HistoryLimit int
	Memory       *memory.Bank
	Rates        *fx.Table
	Refresher    *fx.Refresher
	FromCurrency string
	ToCurrency   string
}

// Calculator is one user's calculator session. It is not safe for concurrent
// use; callers serialize access (see the session package).
type Calculator struct {
	reg       Register
	Memory    *memory.Bank
	History   *history.Log
	Rates     *fx.Table
	refresher *fx.Refresher

	from string
	to   string
}

// State is a read-only view of the calculator for rendering
type State struct {
	Display    string                 `json:"display"`
	Compact    string                 `json:"compact"`
	Pending    string                 `json:"pending,omitempty"`
	Waiting    bool                   `json:"waiting_for_operand"`
	From       string                 `json:"from_currency"`
	To         string                 `json:"to_currency"`
	History    []string               `json:"history"`
	RatesAsOf  *time.Time             `json:"rates_as_of,omitempty"`
	RatesBusy  bool                   `json:"rates_loading"`
	MemoryBank map[memory.Key]float64 `json:"memory"`
	CashFlows  []float64              `json:"cash_flows"`
}

// New creates a calculator
func New(opts Options) *Calculator {
	c := &Calculator{
		reg:       NewRegister(),
		Memory:    opts.Memory,
		History:   history.NewLog(opts.HistoryLimit),
		Rates:     opts.Rates,
		refresher: opts.Refresher,
		from:      opts.FromCurrency,
		to:        opts.ToCurrency,
	}
	if c.Memory == nil {
		c.Memory = memory.New(nil)
	}
	if c.Rates == nil {
		c.Rates = fx.NewTable(nil)
	}
	if c.refresher == nil {
		c.refresher = fx.NewRefresher(fx.DefaultRefreshDelay, nil, time.Now().UnixNano())
	}
	if c.from == "" {
		c.from = fx.BaseCurrency
	}
	if c.to == "" {
		c.to = "EUR"
	}
	return c
}

// Display returns the current display text
func (c *Calculator) Display() string { return c.reg.Display }

// Value returns the display parsed as a number (NaN if not numeric)
func (c *Calculator) Value() float64 { return c.reg.Value() }

// Register returns a copy of the register
func (c *Calculator) Register() Register { return c.reg }

// State snapshots the calculator
func (c *Calculator) State() State {
	snap := c.Rates.Snapshot()
	st := State{
		Display:    c.reg.Display,
		Compact:    calc.FormatCompact(c.reg.Value()),
		Pending:    c.reg.Pending(),
		Waiting:    c.reg.WaitingForOperand,
		From:       c.from,
		To:         c.to,
		History:    c.History.Entries(),
		RatesBusy:  c.Rates.IsLoading(),
		MemoryBank: c.Memory.Clone().Values,
		CashFlows:  append([]float64(nil), c.Memory.CashFlows...),
	}
	if !snap.UpdatedAt.IsZero() {
		at := snap.UpdatedAt
		st.RatesAsOf = &at
	}
	return st
}

// =============================================================================
// KEYPAD
// =============================================================================

func (c *Calculator) InputDigit(d int) error { return c.reg.InputDigit(d) }
func (c *Calculator) InputDecimal() { c.reg.InputDecimal() }
func (c *Calculator) Backspace() { c.reg.Backspace() }

// Clear resets the register (AC). Memory and history are kept.
func (c *Calculator) Clear() { c.reg.Clear() }

// Enter shows v as a finished number, as if it had just been computed
func (c *Calculator) Enter(v float64) { c.reg.SetResult(v) }

// PerformOperation queues a binary operator, evaluating any pending pair first
func (c *Calculator) PerformOperation(op calc.Operator) {
	if entry := c.reg.PerformOperation(op); entry != "" {
		c.History.Add(entry)
	}
}

// PerformEquals evaluates the pending operation
func (c *Calculator) PerformEquals() {
	if entry := c.reg.PerformEquals(); entry != "" {
		c.History.Add(entry)
	}
}

// ApplyUnary applies a scientific-panel function to the display
func (c *Calculator) ApplyUnary(name string) error {
	f, err := calc.LookupUnary(name)
	if err != nil {
		return err
	}
	in := c.reg.Value()
	out := f.Fn(in)
	c.reg.SetResult(out)
	c.History.Addf("%s(%s) = %s", f.Symbol, calc.FormatCompact(in), calc.FormatCompact(out))
	return nil
}

// Evaluate computes a typed expression with normal precedence and shows the
// result. Memory slots are available by name, the current value as "display".
func (c *Calculator) Evaluate(expression string) (float64, error) {
	vars := make(map[string]float64, len(c.Memory.Values)+1)
	for k, v := range c.Memory.Values {
		vars[string(k)] = v
	}
	vars["display"] = c.reg.Value()

	v, err := calc.Evaluate(expression, vars)
	if err != nil {
		return 0, err
	}
	c.reg.SetResult(v)
	c.History.Addf("%s = %s", expression, calc.FormatCompact(v))
	return v, nil
}

// =============================================================================
// MEMORY BANK
// =============================================================================

// StoreMemory writes the display value into a memory slot and ends digit entry
func (c *Calculator) StoreMemory(key memory.Key) error {
	if err := c.SetMemory(key, c.reg.Value()); err != nil {
		return err
	}
	c.reg.EndEntry()
	return nil
}

// SetMemory writes v into a memory slot without touching the display
func (c *Calculator) SetMemory(key memory.Key, v float64) error {
	if err := c.Memory.Store(key, v); err != nil {
		return err
	}
	c.History.Addf("Stored %s: %s", strings.ToUpper(string(key)), calc.FormatCompact(v))
	return nil
}

// RecallMemory puts a stored value on the display
func (c *Calculator) RecallMemory(key memory.Key) error {
	if _, err := memory.ParseKey(string(key)); err != nil {
		return err
	}
	c.reg.SetResult(c.Memory.Get(key))
	return nil
}

// AddCashFlow appends the display value to the cash-flow sequence
func (c *Calculator) AddCashFlow() {
	v := c.reg.Value()
	c.Memory.AddCashFlow(v)
	c.History.Addf("Cash flow %d: %s", len(c.Memory.CashFlows), calc.FormatCompact(v))
	c.reg.SetResult(v)
}

// ClearCashFlows empties the cash-flow sequence
func (c *Calculator) ClearCashFlows() {
	c.Memory.ClearCashFlows()
	c.History.Add("Cash flows cleared")
}

// LoadPreset replaces the memory bank with a parsed preset
func (c *Calculator) LoadPreset(input string) error {
	bank, err := memory.ParsePreset(input)
	if err != nil {
		return err
	}
	c.Memory = bank
	c.History.Add("Memory preset loaded")
	return nil
}

// =============================================================================
// FOREX
// =============================================================================

// Currencies returns the selected source and target codes
func (c *Calculator) Currencies() (string, string) { return c.from, c.to }

// SelectCurrencies chooses the conversion pair
func (c *Calculator) SelectCurrencies(from, to string) error {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	for _, code := range []string{from, to} {
		if !c.Rates.Has(code) {
			return fmt.Errorf("%w: %s", fx.ErrUnknownCurrency, code)
		}
	}
	c.from, c.to = from, to
	return nil
}

// SwapCurrencies exchanges source and target
func (c *Calculator) SwapCurrencies() {
	c.from, c.to = c.to, c.from
}

// ConvertDisplay converts the displayed amount from the source to the target
// currency. A NaN or zero amount leaves everything untouched.
func (c *Calculator) ConvertDisplay() error {
	amount := c.reg.Value()
	if math.IsNaN(amount) || amount == 0 {
		return nil
	}
	converted, err := c.Rates.Convert(amount, c.from, c.to)
	if err != nil {
		return err
	}
	formatted := fx.FormatAmount(converted)
	c.reg.SetText(formatted)
	c.History.Addf("%s %s = %s %s", fx.FormatFixed(amount, 2), c.from, formatted, c.to)
	return nil
}

// RefreshRates waits for a simulated rate refresh
func (c *Calculator) RefreshRates(ctx context.Context) (fx.Snapshot, error) {
	return c.refresher.Refresh(ctx, c.Rates)
}

// RefreshRatesAsync starts a simulated refresh in the background
func (c *Calculator) RefreshRatesAsync(ctx context.Context) <-chan fx.RefreshResult {
	return c.refresher.RefreshAsync(ctx, c.Rates)
}
