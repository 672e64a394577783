package memory

import (
	"errors"
	"testing"
)

func TestNewBankDefaults(t *testing.T) {
	b := New(nil)
	if b.Get(WACC) != 8.5 || b.Get(TerminalGrowth) != 2.5 || b.Get(DiscountRate) != 10 {
		t.Errorf("Unexpected rate defaults: %+v", b.Values)
	}
	if b.Get(DebtEquityRatio) != 4 || b.Get(DebtEbitdaMultiple) != 6 {
		t.Errorf("Unexpected leverage defaults: %+v", b.Values)
	}
	if b.Rate(WACC) != 0.085 {
		t.Errorf("Expected WACC as decimal 0.085, got %f", b.Rate(WACC))
	}

	o := New(map[Key]float64{WACC: 9, Key("bogus"): 1})
	if o.Get(WACC) != 9 {
		t.Errorf("Expected override, got %f", o.Get(WACC))
	}
	if _, ok := o.Values[Key("bogus")]; ok {
		t.Error("Unknown override keys must be ignored")
	}
}

func TestStoreAndParseKey(t *testing.T) {
	b := New(nil)
	key, err := ParseKey("EBITDA")
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Store(key, 250); err != nil {
		t.Fatal(err)
	}
	if b.Get(EBITDA) != 250 {
		t.Errorf("Expected 250, got %f", b.Get(EBITDA))
	}
	if _, err := ParseKey("nope"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Expected ErrUnknownKey, got %v", err)
	}
	if err := b.Store(Key("nope"), 1); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Expected ErrUnknownKey, got %v", err)
	}
}

func TestCashFlowSeries(t *testing.T) {
	b := New(nil)
	b.Store(InitialInvestment, 1000)
	for i := 0; i < 3; i++ {
		b.AddCashFlow(300)
	}
	got := b.Series()
	want := []float64{-1000, 300, 300, 300}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Series[%d] = %f, want %f", i, got[i], want[i])
		}
	}
	if b.Get(CurrentCashFlow) != 300 {
		t.Errorf("Expected current cash flow 300, got %f", b.Get(CurrentCashFlow))
	}

	c := b.Clone()
	b.ClearCashFlows()
	if len(b.CashFlows) != 0 || len(c.CashFlows) != 3 {
		t.Error("Clone should be independent of the original")
	}
}

func TestParsePreset(t *testing.T) {
	preset := `{
  # deal case
  wacc: 9
  initialInvestment: 1000
  cashFlows: [300, 300, 300, 300, 300]
}`
	b, err := ParsePreset(preset)
	if err != nil {
		t.Fatalf("ParsePreset failed: %v", err)
	}
	if b.Get(WACC) != 9 || b.Get(InitialInvestment) != 1000 {
		t.Errorf("Unexpected values %+v", b.Values)
	}
	if len(b.CashFlows) != 5 {
		t.Errorf("Expected 5 cash flows, got %v", b.CashFlows)
	}
	if b.Get(TerminalGrowth) != 2.5 {
		t.Error("Absent keys should keep defaults")
	}

	if _, err := ParsePreset(`{"mystery": 1}`); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Expected ErrUnknownKey, got %v", err)
	}
	if _, err := ParsePreset(`{"wacc": "high"}`); err == nil {
		t.Error("Expected type error for non-numeric value")
	}
}

func TestParsePresetExplicitCurrentCashFlowWins(t *testing.T) {
	preset := `{currentCashFlow: 7, cashFlows: [1, 2]}`
	for i := 0; i < 50; i++ {
		b, err := ParsePreset(preset)
		if err != nil {
			t.Fatalf("ParsePreset failed: %v", err)
		}
		if got := b.Get(CurrentCashFlow); got != 7 {
			t.Fatalf("run %d: expected currentCashFlow 7, got %v", i, got)
		}
		if len(b.CashFlows) != 2 || b.CashFlows[1] != 2 {
			t.Fatalf("run %d: unexpected cash flows %v", i, b.CashFlows)
		}
	}

	b, err := ParsePreset(`{cashFlows: [1, 2]}`)
	if err != nil {
		t.Fatal(err)
	}
	if b.Get(CurrentCashFlow) != 2 {
		t.Errorf("Expected last cash flow as current, got %v", b.Get(CurrentCashFlow))
	}
}
