package calc

import (
	"errors"
	"math"
	"testing"
)

func TestApplyMatchesStandardArithmetic(t *testing.T) {
	pairs := [][2]float64{{5, 3}, {-7.5, 2}, {0, 4}, {1e6, 0.25}, {-3, -9}}

	for _, p := range pairs {
		a, b := p[0], p[1]
		cases := map[Operator]float64{
			OpAdd:      a + b,
			OpSubtract: a - b,
			OpMultiply: a * b,
			OpDivide:   a / b,
			OpModulo:   math.Mod(a, b),
			OpPower:    math.Pow(a, b),
		}
		for op, want := range cases {
			got := Apply(op, a, b)
			if math.IsNaN(want) {
				if !math.IsNaN(got) {
					t.Errorf("%v %s %v: expected NaN, got %v", a, op, b, got)
				}
				continue
			}
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("%v %s %v: expected %v, got %v", a, op, b, want, got)
			}
		}
	}
}

func TestApplyZeroDivisorFallback(t *testing.T) {
	if got := Apply(OpDivide, 42, 0); got != 0 {
		t.Errorf("Expected 42 ÷ 0 = 0, got %v", got)
	}
	if got := Apply(OpModulo, 42, 0); got != 0 {
		t.Errorf("Expected 42 %% 0 = 0, got %v", got)
	}
}

func TestApplyModuloKeepsDividendSign(t *testing.T) {
	if got := Apply(OpModulo, -7, 3); got != -1 {
		t.Errorf("Expected -7 %% 3 = -1, got %v", got)
	}
}

func TestApplyUnknownOperatorReturnsSecond(t *testing.T) {
	if got := Apply(Operator("?"), 1, 9); got != 9 {
		t.Errorf("Expected 9, got %v", got)
	}
}

func TestParseOperatorAliases(t *testing.T) {
	tests := map[string]Operator{
		"*":  OpMultiply,
		"/":  OpDivide,
		"−":  OpSubtract,
		"**": OpPower,
		"÷":  OpDivide,
	}
	for in, want := range tests {
		got, err := ParseOperator(in)
		if err != nil {
			t.Fatalf("ParseOperator(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseOperator(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseOperator("&"); err == nil {
		t.Error("Expected error for unknown operator")
	}
}

func TestScientificFunctions(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"sqrt", 16, 4},
		{"√", 2.25, 1.5},
		{"neg", 5, -5},
		{"square", -3, 9},
		{"recip", 4, 0.25},
		{"recip", 0, 0},
		{"ln", math.E, 1},
		{"log", 1000, 3},
		{"fact", 5, 120},
		{"fact", 0, 1},
		{"k", 2.5, 2500},
		{"×1M", 3, 3e6},
		{"b", 1, 1e9},
	}
	for _, tc := range tests {
		f, err := LookupUnary(tc.name)
		if err != nil {
			t.Fatalf("LookupUnary(%q): %v", tc.name, err)
		}
		if got := f.Fn(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s(%v) = %v, want %v", tc.name, tc.in, got, tc.want)
		}
	}

	if !math.IsNaN(Factorial(2.5)) || !math.IsNaN(Factorial(-1)) || !math.IsNaN(Factorial(171)) {
		t.Error("Expected NaN for non-integral or out of range factorial")
	}
	if _, err := LookupUnary("cosh"); err == nil {
		t.Error("Expected error for unknown function")
	}
}

func TestFormatCompact(t *testing.T) {
	tests := map[float64]string{
		2_500_000_000: "2.5B",
		-1_200_000:    "-1.2M",
		1500:          "1.5K",
		999:           "999",
		0.125:         "0.125",
	}
	for in, want := range tests {
		if got := FormatCompact(in); got != want {
			t.Errorf("FormatCompact(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatAndParseDisplay(t *testing.T) {
	if got := FormatDisplay(0.1 + 0.2); got != "0.30000000000000004" {
		t.Errorf("unexpected display %q", got)
	}
	if got := FormatDisplay(math.Copysign(0, -1)); got != "0" {
		t.Errorf("Expected negative zero to display as 0, got %q", got)
	}
	if got := FormatDisplay(math.NaN()); got != "NaN" {
		t.Errorf("Expected NaN, got %q", got)
	}

	exponents := map[float64]string{
		1e-7:     "1e-7",
		-1.5e-8:  "-1.5e-8",
		0.000001: "0.000001",
		1e21:     "1e+21",
		1.25e300: "1.25e+300",
	}
	for in, want := range exponents {
		if got := FormatDisplay(in); got != want {
			t.Errorf("FormatDisplay(%v) = %q, want %q", in, got, want)
		}
		if v := ParseDisplay(want); v != in {
			t.Errorf("ParseDisplay(%q) = %v, want %v", want, v, in)
		}
	}

	if v := ParseDisplay("12."); v != 12 {
		t.Errorf("Expected 12, got %v", v)
	}
	if v := ParseDisplay("-3.5"); v != -3.5 {
		t.Errorf("Expected -3.5, got %v", v)
	}
	if v := ParseDisplay("abc"); !math.IsNaN(v) {
		t.Errorf("Expected NaN for non-numeric display, got %v", v)
	}
	if v := ParseDisplay(FormatDisplay(math.Inf(-1))); !math.IsInf(v, -1) {
		t.Errorf("Expected -Inf round trip, got %v", v)
	}
}

func TestEvaluateExpression(t *testing.T) {
	v, err := Evaluate("(5 + 3) * 2 - 2 ** 3", nil)
	if err != nil {
		t.Fatal(err)
	}
	if v != 8 {
		t.Errorf("Expected 8, got %f", v)
	}

	v, err = Evaluate("ebitda * debtEbitdaMultiple", map[string]float64{"ebitda": 100, "debtEbitdaMultiple": 6})
	if err != nil {
		t.Fatal(err)
	}
	if v != 600 {
		t.Errorf("Expected 600, got %f", v)
	}

	if _, err := Evaluate("1 > 0", nil); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("Expected ErrNotNumeric, got %v", err)
	}
	if _, err := Evaluate("5 +", nil); err == nil {
		t.Error("Expected parse error")
	}
	if _, err := Evaluate("beta * 2", nil); err == nil {
		t.Error("Expected error for unknown variable")
	}
}
