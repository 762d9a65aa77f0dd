package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Default().Validate())
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "cfg.yaml", `
accounts:
  - id: ACC-001
    balance: 5000
prices:
  BTC: 64000
positions:
  - account: ACC-001
    instrument: BTC
    side: long
    margin: 100
    leverage: 20
    take_profit: 70000
ticks:
  - prices:
      BTC: 66000
    delay: 250ms
journal:
  type: sqlite
  db_path: ./run.db
log_level: debug
`)

	cfg, err := LoadFromFile(path)
	assert.NoError(t, err)
	assert.Len(t, cfg.Accounts, 1)
	assert.Equal(t, 5000.0, cfg.Accounts[0].Balance)
	assert.Equal(t, 64000.0, cfg.Prices["BTC"])
	assert.Len(t, cfg.Positions, 1)
	assert.NotNil(t, cfg.Positions[0].TakeProfit)
	assert.Equal(t, 70000.0, *cfg.Positions[0].TakeProfit)
	assert.Nil(t, cfg.Positions[0].StopLoss)
	assert.Equal(t, "sqlite", cfg.Journal.Type)

	d, err := cfg.Ticks[0].ParseDuration()
	assert.NoError(t, err)
	assert.Equal(t, "250ms", d.String())
}

func TestLoadJSONFallback(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "cfg.json", `{
	  "accounts": [{"id": "ACC-001", "balance": 1000}],
	  "prices": {"ETH": 3000},
	  "journal": {"type": "csv", "positions_file": "p.csv", "balances_file": "b.csv"}
	}`)

	cfg, err := LoadFromFile(path)
	assert.NoError(t, err)
	assert.Equal(t, 3000.0, cfg.Prices["ETH"])
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	base := func() *Config {
		c := Default()
		return c
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no accounts", func(c *Config) { c.Accounts = nil }},
		{"duplicate account", func(c *Config) {
			c.Accounts = append(c.Accounts, c.Accounts[0])
		}},
		{"unknown instrument price", func(c *Config) { c.Prices["XYZ"] = 1 }},
		{"non-positive price", func(c *Config) { c.Prices["BTC"] = 0 }},
		{"position for unknown account", func(c *Config) {
			c.Positions = []PositionConfig{{Account: "nope", Instrument: "BTC", Side: "long", Margin: 1, Leverage: 1}}
		}},
		{"position bad side", func(c *Config) {
			c.Positions = []PositionConfig{{Account: "ACC-001", Instrument: "BTC", Side: "up", Margin: 1, Leverage: 1}}
		}},
		{"position leverage over cap", func(c *Config) {
			c.Positions = []PositionConfig{{Account: "ACC-001", Instrument: "ETH", Side: "long", Margin: 1, Leverage: 251}}
		}},
		{"tick without prices", func(c *Config) { c.Ticks = []TickStep{{}} }},
		{"tick bad delay", func(c *Config) {
			c.Ticks = []TickStep{{Prices: map[string]float64{"BTC": 1}, Delay: "soon"}}
		}},
		{"bad journal type", func(c *Config) { c.Journal.Type = "parquet" }},
		{"csv journal missing files", func(c *Config) { c.Journal.PositionsFile = "" }},
		{"sqlite journal missing path", func(c *Config) {
			c.Journal = JournalConfig{Type: "sqlite"}
		}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := base()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	assert.NoError(t, cfg.SaveToFile(path))

	got, err := LoadFromFile(path)
	assert.NoError(t, err)
	assert.Equal(t, cfg.Accounts, got.Accounts)
	assert.Equal(t, cfg.Journal, got.Journal)
}
