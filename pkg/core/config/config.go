// Package config loads the calculator server settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"strings"
	"time"

	"ibc_tool/pkg/core/calculator"
	"ibc_tool/pkg/core/fx"
	"ibc_tool/pkg/core/history"
	"ibc_tool/pkg/core/memory"

	"gopkg.in/yaml.v2"
)

// DefaultPath is read when IBC_CONFIG is not set
const DefaultPath = "config/calculator.yaml"

// Environment overrides
const (
	EnvAddr         = "IBC_ADDR"
	EnvConfig       = "IBC_CONFIG"
	EnvFXDelayMS    = "IBC_FX_DELAY_MS"
	EnvHistoryLimit = "IBC_HISTORY_LIMIT"
)

type Config struct {
	Addr         string             `yaml:"addr" json:"addr"`
	HistoryLimit int                `yaml:"history_limit" json:"history_limit"`
	FX           FXConfig           `yaml:"fx" json:"fx"`
	Session      SessionConfig      `yaml:"session" json:"session"`
	Memory       map[string]float64 `yaml:"memory" json:"memory,omitempty"`
}

type FXConfig struct {
	DelayMS int                `yaml:"delay_ms" json:"delay_ms"`
	From    string             `yaml:"from" json:"from"`
	To      string             `yaml:"to" json:"to"`
	Rates   map[string]float64 `yaml:"rates" json:"rates,omitempty"`
	Noise   map[string]float64 `yaml:"noise" json:"noise,omitempty"`
}

type SessionConfig struct {
	TTLMinutes   int `yaml:"ttl_minutes" json:"ttl_minutes"`
	SweepMinutes int `yaml:"sweep_minutes" json:"sweep_minutes"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Addr:         ":8080",
		HistoryLimit: history.DefaultLimit,
		FX: FXConfig{
			DelayMS: int(fx.DefaultRefreshDelay / time.Millisecond),
			From:    fx.BaseCurrency,
			To:      "EUR",
		},
		Session: SessionConfig{TTLMinutes: 24 * 60, SweepMinutes: 60},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := ioutil.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		fmt.Printf("[WARNING] Config %s not found, using defaults\n", path)
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads IBC_CONFIG, or DefaultPath when unset
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		path = DefaultPath
	}
	return Load(path)
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvFXDelayMS); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFXDelayMS, err)
		}
		c.FX.DelayMS = ms
	}
	if v := os.Getenv(EnvHistoryLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHistoryLimit, err)
		}
		c.HistoryLimit = n
	}
	return nil
}

// Validate checks currency codes and memory keys
func (c *Config) Validate() error {
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive, got %d", c.HistoryLimit)
	}
	if c.FX.DelayMS < 0 {
		return fmt.Errorf("fx.delay_ms must not be negative, got %d", c.FX.DelayMS)
	}
	table := fx.NewTable(c.Rates())
	for _, code := range []string{c.FX.From, c.FX.To} {
		if !table.Has(strings.ToUpper(code)) {
			return fmt.Errorf("fx: %w: %s", fx.ErrUnknownCurrency, code)
		}
	}
	if _, err := c.memoryOverrides(); err != nil {
		return err
	}
	return nil
}

// FXDelay is the simulated refresh delay
func (c *Config) FXDelay() time.Duration {
	return time.Duration(c.FX.DelayMS) * time.Millisecond
}

// SessionTTL is the idle lifetime of a session
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

// SweepInterval is how often idle sessions are evicted
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Session.SweepMinutes) * time.Minute
}

// Rates returns the configured table keyed by upper-case code, or nil for the built-in one
func (c *Config) Rates() map[string]float64 {
	if len(c.FX.Rates) == 0 {
		return nil
	}
	rates := make(map[string]float64, len(c.FX.Rates))
	for code, v := range c.FX.Rates {
		rates[strings.ToUpper(code)] = v
	}
	rates[fx.BaseCurrency] = 1
	return rates
}

func (c *Config) memoryOverrides() (map[memory.Key]float64, error) {
	out := make(map[memory.Key]float64, len(c.Memory))
	for name, v := range c.Memory {
		k, err := memory.ParseKey(name)
		if err != nil {
			return nil, fmt.Errorf("memory: %w", err)
		}
		out[k] = v
	}
	return out, nil
}

// NewCalculator builds a calculator from the settings. Call Validate first.
func (c *Config) NewCalculator() *calculator.Calculator {
	overrides, _ := c.memoryOverrides()
	var noise map[string]float64
	if len(c.FX.Noise) > 0 {
		noise = make(map[string]float64, len(c.FX.Noise))
		for code, v := range c.FX.Noise {
			noise[strings.ToUpper(code)] = v
		}
	}
	return calculator.New(calculator.Options{
		HistoryLimit: c.HistoryLimit,
		Memory:       memory.New(overrides),
		Rates:        fx.NewTable(c.Rates()),
		Refresher:    fx.NewRefresher(c.FXDelay(), noise, time.Now().UnixNano()),
		FromCurrency: strings.ToUpper(c.FX.From),
		ToCurrency:   strings.ToUpper(c.FX.To),
	})
}
