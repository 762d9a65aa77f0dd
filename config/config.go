package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/neonchange/riskengine/market"
)

// Config describes a complete engine run: accounts, initial marks, the
// positions to open, scripted price moves and where to journal.
type Config struct {
	Accounts  []AccountConfig    `json:"accounts" yaml:"accounts"`
	Prices    map[string]float64 `json:"prices" yaml:"prices"`
	Positions []PositionConfig   `json:"positions,omitempty" yaml:"positions,omitempty"`
	Ticks     []TickStep         `json:"ticks,omitempty" yaml:"ticks,omitempty"`
	Journal   JournalConfig      `json:"journal" yaml:"journal"`
	LogLevel  string             `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// AccountConfig seeds one trading account.
type AccountConfig struct {
	ID      string  `json:"id" yaml:"id"`
	Balance float64 `json:"balance" yaml:"balance"`
}

// PositionConfig is a position to open at the start of a run.
type PositionConfig struct {
	Account    string   `json:"account" yaml:"account"`
	Instrument string   `json:"instrument" yaml:"instrument"`
	Side       string   `json:"side" yaml:"side"`
	Margin     float64  `json:"margin" yaml:"margin"`
	Leverage   int      `json:"leverage" yaml:"leverage"`
	TakeProfit *float64 `json:"take_profit,omitempty" yaml:"take_profit,omitempty"`
	StopLoss   *float64 `json:"stop_loss,omitempty" yaml:"stop_loss,omitempty"`
}

// TickStep is one scripted price update.
type TickStep struct {
	Prices map[string]float64 `json:"prices" yaml:"prices"`
	Delay  string             `json:"delay,omitempty" yaml:"delay,omitempty"` // e.g. "1s", "500ms"
}

// ParseDuration converts the delay string to time.Duration.
func (ts TickStep) ParseDuration() (time.Duration, error) {
	if ts.Delay == "" {
		return 0, nil
	}
	return time.ParseDuration(ts.Delay)
}

// JournalConfig selects the audit backend.
type JournalConfig struct {
	Type          string `json:"type" yaml:"type"` // "csv" or "sqlite"
	PositionsFile string `json:"positions_file,omitempty" yaml:"positions_file,omitempty"`
	BalancesFile  string `json:"balances_file,omitempty" yaml:"balances_file,omitempty"`
	DBPath        string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (format by extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Accounts) == 0 {
		return fmt.Errorf("at least one account is required")
	}
	seen := map[string]bool{}
	for _, a := range c.Accounts {
		if a.ID == "" {
			return fmt.Errorf("account id is required")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate account id: %s", a.ID)
		}
		seen[a.ID] = true
		if a.Balance < 0 {
			return fmt.Errorf("account %s: balance must not be negative", a.ID)
		}
	}

	for sym, price := range c.Prices {
		if _, ok := market.Lookup(sym); !ok {
			return fmt.Errorf("unknown instrument: %s", sym)
		}
		if price <= 0 {
			return fmt.Errorf("price for %s must be positive", sym)
		}
	}

	for i, p := range c.Positions {
		if !seen[p.Account] {
			return fmt.Errorf("position %d: unknown account %q", i, p.Account)
		}
		meta, ok := market.Lookup(p.Instrument)
		if !ok {
			return fmt.Errorf("position %d: unknown instrument %q", i, p.Instrument)
		}
		if p.Side != "long" && p.Side != "short" {
			return fmt.Errorf("position %d: side must be long or short", i)
		}
		if p.Margin <= 0 {
			return fmt.Errorf("position %d: margin must be positive", i)
		}
		if p.Leverage < 1 || p.Leverage > meta.MaxLeverage {
			return fmt.Errorf("position %d: leverage must be in [1, %d]", i, meta.MaxLeverage)
		}
	}

	for i, ts := range c.Ticks {
		if len(ts.Prices) == 0 {
			return fmt.Errorf("tick %d: at least one price is required", i)
		}
		for sym, price := range ts.Prices {
			if price <= 0 {
				return fmt.Errorf("tick %d: price for %s must be positive", i, sym)
			}
		}
		if _, err := ts.ParseDuration(); err != nil {
			return fmt.Errorf("tick %d: invalid delay: %w", i, err)
		}
	}

	switch c.Journal.Type {
	case "csv":
		if c.Journal.PositionsFile == "" || c.Journal.BalancesFile == "" {
			return fmt.Errorf("journal positions_file and balances_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}

	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Accounts: []AccountConfig{
			{ID: "ACC-001", Balance: 10000},
		},
		Prices: map[string]float64{
			"BTC": 65000,
			"ETH": 3200,
		},
		Journal: JournalConfig{
			Type:          "csv",
			PositionsFile: "./positions.csv",
			BalancesFile:  "./balances.csv",
		},
		LogLevel: "info",
	}
}
