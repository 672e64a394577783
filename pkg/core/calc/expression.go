package calc

import (
	"errors"
	"fmt"

	"github.com/Knetic/govaluate"
)

// ErrNotNumeric is returned when an expression evaluates to something other than a number
var ErrNotNumeric = errors.New("expression result is not a number")

// Evaluate computes a typed expression with normal precedence, e.g.
// "ebitda * debtEbitdaMultiple / (1 + wacc/100)". Names resolve from vars.
func Evaluate(expression string, vars map[string]float64) (float64, error) {
	expr, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", expression, err)
	}

	params := make(map[string]interface{}, len(vars))
	for k, v := range vars {
		params[k] = v
	}
	result, err := expr.Evaluate(params)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", expression, err)
	}

	if v, ok := result.(float64); ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrNotNumeric, result)
}
