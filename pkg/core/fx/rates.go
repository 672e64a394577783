// Package fx holds the mock exchange-rate table used by the currency converter.
// Every rate is a multiplier against the USD base unit.
package fx

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BaseCurrency is the unit every rate is quoted against
const BaseCurrency = "USD"

// ErrUnknownCurrency is returned for a code missing from the table
var ErrUnknownCurrency = errors.New("unknown currency")

// DefaultRates is the table in effect before the first refresh
var DefaultRates = map[string]float64{
	"USD": 1.0000,
	"EUR": 0.9150,
	"JPY": 142.30,
	"GBP": 0.7820,
	"CHF": 0.8850,
	"CAD": 1.3720,
	"CNY": 7.2800,
	"PLN": 4.0500,
	"AUD": 1.4950,
	"SEK": 10.8500,
}

var currencyNames = map[string]string{
	"USD": "US Dollar",
	"EUR": "Euro",
	"JPY": "Japanese Yen",
	"GBP": "British Pound",
	"CHF": "Swiss Franc",
	"CAD": "Canadian Dollar",
	"CNY": "Chinese Yuan",
	"PLN": "Polish Zloty",
	"AUD": "Australian Dollar",
	"SEK": "Swedish Krona",
}

// CurrencyName returns the display name of code, or code itself when unknown.
func CurrencyName(code string) string {
	if n, ok := currencyNames[code]; ok {
		return n
	}
	return code
}

// Snapshot is one immutable version of the rate table
type Snapshot struct {
	ID        uuid.UUID          `json:"id"`
	Rates     map[string]float64 `json:"rates"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// NewSnapshot copies rates into a fresh snapshot
func NewSnapshot(rates map[string]float64, at time.Time) Snapshot {
	cp := make(map[string]float64, len(rates))
	for k, v := range rates {
		cp[k] = v
	}
	return Snapshot{ID: uuid.New(), Rates: cp, UpdatedAt: at}
}

// Codes lists the currencies in the snapshot, sorted
func (s Snapshot) Codes() []string {
	codes := make([]string, 0, len(s.Rates))
	for c := range s.Rates {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Convert goes through the base unit: amount / rate[from] * rate[to].
func (s Snapshot) Convert(amount float64, from, to string) (float64, error) {
	fromRate, ok := s.Rates[from]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, from)
	}
	toRate, ok := s.Rates[to]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, to)
	}
	return amount / fromRate * toRate, nil
}

// Table holds the current snapshot. A refresh replaces it wholesale.
type Table struct {
	mu      sync.RWMutex
	current Snapshot
	loading bool
}

// NewTable seeds a table; nil rates uses DefaultRates
func NewTable(rates map[string]float64) *Table {
	if rates == nil {
		rates = DefaultRates
	}
	// Seed snapshot has no refresh time
	return &Table{current: NewSnapshot(rates, time.Time{})}
}

// Snapshot returns the table currently in effect
func (t *Table) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Convert converts using the current snapshot
func (t *Table) Convert(amount float64, from, to string) (float64, error) {
	return t.Snapshot().Convert(amount, from, to)
}

// Has reports whether code is quoted
func (t *Table) Has(code string) bool {
	_, ok := t.Snapshot().Rates[code]
	return ok
}

// IsLoading reports whether a refresh is in flight
func (t *Table) IsLoading() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loading
}

// Replace swaps in a new snapshot
func (t *Table) Replace(s Snapshot) {
	t.mu.Lock()
	t.current = s
	t.mu.Unlock()
}

// beginRefresh marks the table loading; false if another refresh is already running
func (t *Table) beginRefresh() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loading {
		return false
	}
	t.loading = true
	return true
}

func (t *Table) endRefresh() {
	t.mu.Lock()
	t.loading = false
	t.mu.Unlock()
}
