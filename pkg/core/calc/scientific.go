package calc

import (
	"fmt"
	"math"
	"sort"
)

// UnaryFunc is a single-argument function from the scientific panel.
type UnaryFunc struct {
	Name   string
	Symbol string // Label used in history entries
	Fn     func(float64) float64
}

// maxFactorial is the largest n for which n! fits in a float64
const maxFactorial = 170

var unaryFuncs = map[string]UnaryFunc{
	"sqrt":   {Name: "sqrt", Symbol: "√", Fn: math.Sqrt},
	"neg":    {Name: "neg", Symbol: "±", Fn: func(x float64) float64 { return -x }},
	"square": {Name: "square", Symbol: "sqr", Fn: func(x float64) float64 { return x * x }},
	"recip":  {Name: "recip", Symbol: "1/x", Fn: Reciprocal},
	"abs":    {Name: "abs", Symbol: "abs", Fn: math.Abs},
	"ln":     {Name: "ln", Symbol: "ln", Fn: math.Log},
	"log10":  {Name: "log10", Symbol: "log", Fn: math.Log10},
	"exp":    {Name: "exp", Symbol: "exp", Fn: math.Exp},
	"sin":    {Name: "sin", Symbol: "sin", Fn: math.Sin},
	"cos":    {Name: "cos", Symbol: "cos", Fn: math.Cos},
	"tan":    {Name: "tan", Symbol: "tan", Fn: math.Tan},
	"fact":   {Name: "fact", Symbol: "n!", Fn: Factorial},
	"k":      {Name: "k", Symbol: "×1K", Fn: func(x float64) float64 { return x * 1e3 }},
	"m":      {Name: "m", Symbol: "×1M", Fn: func(x float64) float64 { return x * 1e6 }},
	"b":      {Name: "b", Symbol: "×1B", Fn: func(x float64) float64 { return x * 1e9 }},
}

// unaryAliases lets keypad glyphs address the same functions
var unaryAliases = map[string]string{
	"√":   "sqrt",
	"±":   "neg",
	"+/-": "neg",
	"x²":  "square",
	"1/x": "recip",
	"n!":  "fact",
	"×1K": "k",
	"×1M": "m",
	"×1B": "b",
	"log": "log10",
}

// LookupUnary finds a scientific function by name or keypad glyph.
func LookupUnary(name string) (UnaryFunc, error) {
	if alias, ok := unaryAliases[name]; ok {
		name = alias
	}
	f, ok := unaryFuncs[name]
	if !ok {
		return UnaryFunc{}, fmt.Errorf("unknown function %q", name)
	}
	return f, nil
}

// UnaryNames returns the canonical function names in sorted order.
func UnaryNames() []string {
	names := make([]string, 0, len(unaryFuncs))
	for n := range unaryFuncs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Reciprocal returns 1/x, or 0 when x is 0 (same fallback as division).
func Reciprocal(x float64) float64 {
	return Apply(OpDivide, 1, x)
}

// Factorial returns n! for integral n in [0, 170]; anything else is NaN.
func Factorial(n float64) float64 {
	if n < 0 || n > maxFactorial || n != math.Trunc(n) {
		return math.NaN()
	}
	result := 1.0
	for i := 2.0; i <= n; i++ {
		result *= i
	}
	return result
}
