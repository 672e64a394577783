package utils

import (
	"encoding/json"
	"strings"
	"testing"
)

type convertBody struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

func TestSmartParseStrategies(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "Strict JSON", input: `{"from": "USD", "to": "EUR", "amount": 25}`},
		{name: "Single quotes", input: `{'from': 'USD', 'to': 'EUR', 'amount': 25}`},
		{name: "Trailing comma", input: `{"from": "USD", "to": "EUR", "amount": 25,}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var body convertBody
			if _, err := SmartParse(tc.input, &body); err != nil {
				t.Fatalf("SmartParse failed: %v", err)
			}
			if body.From != "USD" || body.To != "EUR" || body.Amount != 25 {
				t.Errorf("Unexpected decode: %+v", body)
			}
		})
	}
}

func TestRequireFields(t *testing.T) {
	body := convertBody{From: "USD", To: "EUR"}
	if err := RequireFields(&body, "From", "To"); err != nil {
		t.Errorf("Should have passed: %v", err)
	}
	err := RequireFields(&body, "Amount")
	if err == nil || !strings.Contains(err.Error(), "Amount") {
		t.Errorf("Expected missing Amount error, got %v", err)
	}
	if err := RequireFields(&body, "Nope"); err == nil {
		t.Error("Expected unknown field error")
	}
}

func TestParseHJSON(t *testing.T) {
	out, err := ParseHJSON("wacc: 9.5")
	if err != nil {
		t.Fatalf("ParseHJSON failed: %v", err)
	}
	if out != `{"wacc":9.5}` {
		t.Errorf("Unexpected JSON %s", out)
	}

	out, err = ParseHJSON("{\n  # hand written\n  from: USD\n  to: EUR\n  amount: 25\n}")
	if err != nil {
		t.Fatalf("ParseHJSON failed: %v", err)
	}
	var body convertBody
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatal(err)
	}
	if body.From != "USD" || body.To != "EUR" || body.Amount != 25 {
		t.Errorf("Unexpected decode: %+v", body)
	}
}

func TestRenderHTMLListItems(t *testing.T) {
	html, err := RenderHTML("# History\n\n- 5 + 3 = 8\n- 8 × 2 = 16\n")
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	if !strings.Contains(html, "<h1>History</h1>") {
		t.Errorf("Missing heading in %s", html)
	}
	items, err := ListItems(html)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[1] != "8 × 2 = 16" {
		t.Errorf("Unexpected items %v", items)
	}
}
