package calculator

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"ibc_tool/pkg/core/calc"
	"ibc_tool/pkg/core/memory"
)

// ErrUnknownKey is returned by Press for a key no button is bound to
var ErrUnknownKey = errors.New("unknown key")

// Key prefixes for memory buttons, e.g. "sto:wacc", "rcl:ebitda"
const (
	storePrefix  = "sto:"
	recallPrefix = "rcl:"
)

// Press handles one keypad button by its label.
//
//	0-9 .          digit entry
//	+ - × ÷ % ^    operators (* / ** also accepted)
//	=              equals
//	AC, BS         clear, backspace
//	sqrt neg k m b scientific panel (see calc.UnaryNames)
//	sto:<key>      store display into memory, rcl:<key> recalls it
//	cf+ cf0        append display to / clear the cash-flow list
//	dcf npv irr payback comps lbo, ev/ebitda p/e ...   model buttons
//	fx, swap       convert display, swap currencies
func (c *Calculator) Press(key string) error {
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		return c.InputDigit(int(key[0] - '0'))
	}

	lower := strings.ToLower(key)
	switch lower {
	case ".", ",":
		c.InputDecimal()
		return nil
	case "=", "enter":
		c.PerformEquals()
		return nil
	case "ac", "c", "clear":
		c.Clear()
		return nil
	case "bs", "⌫", "back":
		c.Backspace()
		return nil
	case "cf+":
		c.AddCashFlow()
		return nil
	case "cf0":
		c.ClearCashFlows()
		return nil
	case "fx":
		return c.ConvertDisplay()
	case "swap", "⇄":
		c.SwapCurrencies()
		return nil
	}

	if op, err := calc.ParseOperator(key); err == nil {
		c.PerformOperation(op)
		return nil
	}

	if strings.HasPrefix(lower, storePrefix) {
		k, err := memory.ParseKey(strings.TrimPrefix(lower, storePrefix))
		if err != nil {
			return err
		}
		return c.StoreMemory(k)
	}
	if strings.HasPrefix(lower, recallPrefix) {
		k, err := memory.ParseKey(strings.TrimPrefix(lower, recallPrefix))
		if err != nil {
			return err
		}
		return c.RecallMemory(k)
	}

	if _, err := calc.LookupUnary(key); err == nil {
		return c.ApplyUnary(key)
	}
	if _, err := calc.LookupUnary(lower); err == nil {
		return c.ApplyUnary(lower)
	}

	if err := c.RunModel(lower); err == nil {
		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// PressAll tokenizes input and presses every key in order, stopping at the first error.
func (c *Calculator) PressAll(input string) error {
	for _, k := range Tokenize(input) {
		if err := c.Press(k); err != nil {
			return err
		}
	}
	return nil
}

// Tokenize splits a key sequence such as "12.5 + 3 sqrt =" or "12.5+3=" into key labels.
// Whitespace-separated words are kept whole when they name a button; otherwise
// digits, the decimal point and symbols become one key each.
func Tokenize(input string) []string {
	var keys []string
	for _, field := range strings.Fields(input) {
		if isWord(field) {
			keys = append(keys, field)
			continue
		}
		keys = append(keys, splitField(field)...)
	}
	return keys
}

// isWord reports whether field is a multi-character button label
func isWord(field string) bool {
	lower := strings.ToLower(field)
	if strings.HasPrefix(lower, storePrefix) || strings.HasPrefix(lower, recallPrefix) {
		return true
	}
	if _, err := calc.ParseOperator(field); err == nil {
		return true
	}
	if _, err := calc.LookupUnary(field); err == nil {
		return true
	}
	for _, m := range ModelNames() {
		if lower == m {
			return true
		}
	}
	switch lower {
	case "ac", "bs", "clear", "back", "enter", "cf+", "cf0", "fx", "swap",
		MetricEVRevenue, MetricEVEBITDA, MetricPE, MetricPS, MetricPrice, "pe", "ps":
		return true
	}
	return false
}

// splitField breaks a run like "12+3.5=" into single keys, keeping letter runs and "**" together
func splitField(field string) []string {
	var keys []string
	runes := []rune(field)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case unicode.IsLetter(r):
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			keys = append(keys, string(runes[i:j]))
			i = j - 1
		case r == '*' && i+1 < len(runes) && runes[i+1] == '*':
			keys = append(keys, "**")
			i++
		default:
			keys = append(keys, string(r))
		}
	}
	return keys
}
