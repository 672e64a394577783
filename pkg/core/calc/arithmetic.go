// Package calc provides the deterministic arithmetic behind the calculator register.
// This file implements the binary operators used by operator chaining.
package calc

import (
	"fmt"
	"math"
)

// Operator is a binary operator symbol as shown on the keypad.
type Operator string

const (
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpMultiply Operator = "×"
	OpDivide   Operator = "÷"
	OpModulo   Operator = "%"
	OpPower    Operator = "^"
)

// operatorAliases maps keyboard-friendly spellings onto keypad symbols
var operatorAliases = map[string]Operator{
	"+":  OpAdd,
	"-":  OpSubtract,
	"−":  OpSubtract,
	"×":  OpMultiply,
	"*":  OpMultiply,
	"x":  OpMultiply,
	"÷":  OpDivide,
	"/":  OpDivide,
	"%":  OpModulo,
	"^":  OpPower,
	"**": OpPower,
}

// ParseOperator resolves a key label to an Operator.
func ParseOperator(s string) (Operator, error) {
	if op, ok := operatorAliases[s]; ok {
		return op, nil
	}
	return "", fmt.Errorf("unknown operator %q", s)
}

// =============================================================================
// BINARY OPERATIONS
// =============================================================================

// Apply evaluates a op b.
//
// Division and modulo by zero return 0 instead of Inf/NaN. Modulo is
// truncated (the result takes the sign of a). An unrecognised operator
// returns b, mirroring a register with no pending operation.
func Apply(op Operator, a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSubtract:
		return a - b
	case OpMultiply:
		return a * b
	case OpDivide:
		if b == 0 {
			return 0
		}
		return a / b
	case OpModulo:
		if b == 0 {
			return 0
		}
		return math.Mod(a, b)
	case OpPower:
		return math.Pow(a, b)
	default:
		return b
	}
}
