package memory

import (
	"fmt"
	"sort"

	"ibc_tool/pkg/core/utils"
)

// cashFlowsField is the preset entry holding the ordered cash-flow list
const cashFlowsField = "cashFlows"

// ParsePreset decodes a memory preset written as JSON, sloppy JSON or Hjson,
// e.g.
//
//	{
//	  wacc: 9
//	  initialInvestment: 1000
//	  cashFlows: [300, 300, 300]
//	}
//
// Keys absent from the preset keep their defaults.
func ParsePreset(input string) (*Bank, error) {
	var raw map[string]interface{}
	// Presets are hand written, so Hjson goes first; SmartParse covers broken JSON
	if normalized, err := utils.ParseHJSON(input); err == nil {
		_, err = utils.SmartParse(normalized, &raw)
		if err != nil {
			return nil, fmt.Errorf("invalid memory preset: %w", err)
		}
	} else if _, err := utils.SmartParse(input, &raw); err != nil {
		return nil, fmt.Errorf("invalid memory preset: %w", err)
	}

	bank := New(nil)
	if err := bank.Apply(raw); err != nil {
		return nil, err
	}
	return bank, nil
}

// Apply stores every entry of a decoded preset into the bank. The cash-flow
// list goes first so an explicit currentCashFlow still wins; scalar keys follow
// in sorted order.
func (b *Bank) Apply(raw map[string]interface{}) error {
	if v, ok := raw[cashFlowsField]; ok {
		list, ok := v.([]interface{})
		if !ok {
			return fmt.Errorf("preset %s: expected a list, got %T", cashFlowsField, v)
		}
		b.ClearCashFlows()
		for i, item := range list {
			f, ok := item.(float64)
			if !ok {
				return fmt.Errorf("preset %s[%d]: expected a number, got %T", cashFlowsField, i, item)
			}
			b.AddCashFlow(f)
		}
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		if name != cashFlowsField {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		key, err := ParseKey(name)
		if err != nil {
			return fmt.Errorf("preset: %w", err)
		}
		f, ok := raw[name].(float64)
		if !ok {
			return fmt.Errorf("preset %s: expected a number, got %T", name, raw[name])
		}
		if err := b.Store(key, f); err != nil {
			return err
		}
	}
	return nil
}
