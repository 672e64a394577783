// Package calculator wires the register state machine, memory bank, history log
// and exchange-rate table into the calculator driven by key presses.
package calculator

import (
	"fmt"
	"strings"

	"ibc_tool/pkg/core/calc"
)

// Register is the classic four-function calculator state.
//
// It is in exactly one of two states: awaiting the first digit of a new number
// (WaitingForOperand) or accumulating digits of the current one.
type Register struct {
	Display           string
	Previous          *float64
	Operator          calc.Operator // "" when no operation is pending
	WaitingForOperand bool

	justQueued bool // an operator was the last input
}

// NewRegister returns a cleared register showing "0"
func NewRegister() Register {
	return Register{Display: "0"}
}

// Value parses the display
func (r *Register) Value() float64 {
	return calc.ParseDisplay(r.Display)
}

// InputDigit enters one digit 0-9
func (r *Register) InputDigit(d int) error {
	if d < 0 || d > 9 {
		return fmt.Errorf("invalid digit %d", d)
	}
	digit := string(rune('0' + d))
	r.justQueued = false
	switch {
	case r.WaitingForOperand:
		r.Display = digit
		r.WaitingForOperand = false
	case r.Display == "0":
		r.Display = digit
	default:
		r.Display += digit
	}
	return nil
}

// InputDecimal enters the decimal point, at most once per number
func (r *Register) InputDecimal() {
	r.justQueued = false
	if r.WaitingForOperand {
		r.Display = "0."
		r.WaitingForOperand = false
		return
	}
	if !strings.Contains(r.Display, ".") {
		r.Display += "."
	}
}

// Backspace removes the last character
func (r *Register) Backspace() {
	r.justQueued = false
	if len(r.Display) > 0 {
		r.Display = r.Display[:len(r.Display)-1]
	}
	if r.Display == "" || r.Display == "-" {
		r.Display = "0"
	}
}

// Clear resets everything (AC)
func (r *Register) Clear() {
	*r = NewRegister()
}

// SetResult shows a computed value and starts a new number on the next digit
func (r *Register) SetResult(v float64) {
	r.Display = calc.FormatDisplay(v)
	r.WaitingForOperand = true
	r.justQueued = false
}

// SetText shows preformatted text (e.g. a rounded currency amount) as a result
func (r *Register) SetText(text string) {
	r.Display = text
	r.WaitingForOperand = true
	r.justQueued = false
}

// EndEntry keeps the display but makes the next digit start a new number
func (r *Register) EndEntry() {
	r.WaitingForOperand = true
	r.justQueued = false
}

// PerformOperation queues op. A pending operation with a freshly entered
// operand is evaluated first (left to right, no precedence); the returned
// entry describes that evaluation and is empty when nothing was computed.
func (r *Register) PerformOperation(op calc.Operator) string {
	input := r.Value()
	entry := ""

	switch {
	case r.Previous == nil:
		r.Previous = &input
	case r.Operator != "" && r.justQueued:
		// Operator pressed twice in a row: the newer one replaces the pending one
	case r.Operator != "":
		entry = r.evaluate(input)
	}

	r.WaitingForOperand = true
	r.justQueued = true
	r.Operator = op
	return entry
}

// PerformEquals evaluates the pending operation, if any
func (r *Register) PerformEquals() string {
	if r.Previous == nil || r.Operator == "" {
		return ""
	}
	entry := r.evaluate(r.Value())
	r.Previous = nil
	r.Operator = ""
	r.WaitingForOperand = true
	return entry
}

// Pending describes the queued operation, e.g. "5 +"
func (r *Register) Pending() string {
	if r.Previous == nil || r.Operator == "" {
		return ""
	}
	return calc.FormatCompact(*r.Previous) + " " + string(r.Operator)
}

func (r *Register) evaluate(input float64) string {
	prev := *r.Previous
	result := calc.Apply(r.Operator, prev, input)
	r.SetResult(result)
	r.Previous = &result
	return fmt.Sprintf("%s %s %s = %s",
		calc.FormatCompact(prev), r.Operator, calc.FormatCompact(input), calc.FormatCompact(result))
}
