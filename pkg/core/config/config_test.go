package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ibc_tool/pkg/core/fx"
	"ibc_tool/pkg/core/memory"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calculator.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.HistoryLimit != 20 {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	if cfg.FXDelay() != fx.DefaultRefreshDelay {
		t.Errorf("Expected %v, got %v", fx.DefaultRefreshDelay, cfg.FXDelay())
	}
	if cfg.SessionTTL() != 24*time.Hour {
		t.Errorf("Expected 24h TTL, got %v", cfg.SessionTTL())
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
addr: ":9090"
history_limit: 5
fx:
  delay_ms: 0
  from: gbp
  to: JPY
  rates:
    EUR: 0.5
    GBP: 0.8
    JPY: 150
memory:
  wacc: 9
  discountRate: 12
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.HistoryLimit != 5 {
		t.Errorf("Unexpected config %+v", cfg)
	}

	c := cfg.NewCalculator()
	if c.Memory.Get(memory.WACC) != 9 || c.Memory.Get(memory.DiscountRate) != 12 {
		t.Error("Expected memory overrides applied")
	}
	if c.Memory.Get(memory.TerminalGrowth) != 2.5 {
		t.Error("Expected untouched keys to keep defaults")
	}
	if from, to := c.Currencies(); from != "GBP" || to != "JPY" {
		t.Errorf("Expected GBP/JPY, got %s/%s", from, to)
	}
	if c.Rates.Has("CHF") {
		t.Error("Expected configured table to replace defaults")
	}
	if !c.Rates.Has(fx.BaseCurrency) {
		t.Error("Expected base currency to be present")
	}
	if c.History.Limit() != 5 {
		t.Errorf("Expected history limit 5, got %d", c.History.Limit())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvAddr, "127.0.0.1:7000")
	t.Setenv(EnvFXDelayMS, "25")
	t.Setenv(EnvHistoryLimit, "3")

	cfg, err := Load(writeConfig(t, "addr: \":9090\"\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != "127.0.0.1:7000" {
		t.Errorf("Expected env addr, got %s", cfg.Addr)
	}
	if cfg.FXDelay() != 25*time.Millisecond || cfg.HistoryLimit != 3 {
		t.Errorf("Unexpected overrides %+v", cfg)
	}

	t.Setenv(EnvHistoryLimit, "many")
	if _, err := Load(writeConfig(t, "")); err == nil {
		t.Error("Expected error for non-numeric history limit")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	if _, err := Load(writeConfig(t, "fx:\n  to: XYZ\n")); !errors.Is(err, fx.ErrUnknownCurrency) {
		t.Errorf("Expected ErrUnknownCurrency, got %v", err)
	}
	if _, err := Load(writeConfig(t, "memory:\n  beta: 1.2\n")); !errors.Is(err, memory.ErrUnknownKey) {
		t.Errorf("Expected memory.ErrUnknownKey, got %v", err)
	}
	if _, err := Load(writeConfig(t, "history_limit: [1\n")); err == nil {
		t.Error("Expected YAML parse error")
	}
}

func TestBundledConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "..", DefaultPath))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := cfg.NewCalculator().Rates.Snapshot().Rates["JPY"]; got != 142.30 {
		t.Errorf("Expected JPY 142.30, got %f", got)
	}
}
