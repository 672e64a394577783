package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the root command against a config file that does not exist,
// so every run starts from built-in defaults.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("IBC_FX_DELAY_MS", "0")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("ibc %v: %v", args, err)
	}
	return out.String()
}

func firstLine(s string) string {
	return strings.SplitN(s, "\n", 2)[0]
}

func TestKeysCommand(t *testing.T) {
	if got := firstLine(execute(t, "keys", "5 + 3 × 2 =")); got != "16" {
		t.Errorf("Expected 16, got %q", got)
	}

	out := execute(t, "keys", "--report", "text", "2 + 2 =")
	if !strings.Contains(out, " 1. 2 + 2 = 4") {
		t.Errorf("Expected text report, got %q", out)
	}
	keysReport = ""
}

func TestModelCommands(t *testing.T) {
	if got := firstLine(execute(t, "dcf", "100")); got != "1967" {
		t.Errorf("Expected 1967, got %q", got)
	}
	if got := firstLine(execute(t, "npv", "--investment", "1000", "300", "300", "300", "300", "300")); !strings.HasPrefix(got, "137.236") {
		t.Errorf("Expected NPV 137.236, got %q", got)
	}
	if got := firstLine(execute(t, "irr", "--investment", "1000", "300", "300", "300", "300", "300")); !strings.HasPrefix(got, "15.238") {
		t.Errorf("Expected IRR 15.238, got %q", got)
	}
	if got := firstLine(execute(t, "eval", "(5 + 3) * 2")); got != "16" {
		t.Errorf("Expected 16, got %q", got)
	}
	if !strings.Contains(execute(t, "lbo", "--ebitda", "100"), "LBO: Debt=600, Equity=150") {
		t.Error("Expected LBO sizing line")
	}
}

func TestFXCommands(t *testing.T) {
	if got := firstLine(execute(t, "convert", "100", "usd", "eur")); got != "91.5000" {
		t.Errorf("Expected 91.5000, got %q", got)
	}
	out := execute(t, "rates")
	if !strings.Contains(out, "JPY") || !strings.Contains(out, "142.3000") {
		t.Errorf("Unexpected rates output %q", out)
	}
	if !strings.Contains(execute(t, "version"), "ibc v") {
		t.Error("Expected version banner")
	}
}

func TestNegativeCashFlowsAfterDash(t *testing.T) {
	got := firstLine(execute(t, "npv", "--investment", "1000", "--", "-200", "600", "600", "600"))
	if !strings.HasPrefix(got, "174.64") {
		t.Errorf("Expected NPV 174.64, got %q", got)
	}
}

func TestWACCCommandStoresRate(t *testing.T) {
	out := execute(t, "wacc", "--fcf", "100")
	if got := firstLine(out); got != "8.75" {
		t.Errorf("Expected WACC 8.75, got %q", got)
	}
	if !strings.Contains(out, "DCF: FCF=100, WACC=8.75%") {
		t.Errorf("Expected DCF at the computed WACC, got %q", out)
	}
}
