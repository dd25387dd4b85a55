package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradebook/money"
	"github.com/rustyeddy/tradebook/pricing"
)

// Config is the complete CLI configuration.
type Config struct {
	Account AccountConfig     `json:"account" yaml:"account"`
	Store   StoreConfig       `json:"store" yaml:"store"`
	Prices  map[string]string `json:"prices,omitempty" yaml:"prices,omitempty"`
}

// AccountConfig identifies the ledger the CLI operates on.
type AccountConfig struct {
	ID string `json:"id" yaml:"id"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
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

// SaveToFile saves configuration to a file, format chosen by extension.
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

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Account.ID == "" {
		return fmt.Errorf("account.id is required")
	}
	if c.Store.DBPath == "" {
		return fmt.Errorf("store.db_path is required")
	}
	for sym, price := range c.Prices {
		m, err := money.Parse(price)
		if err != nil {
			return fmt.Errorf("prices.%s: %w", sym, err)
		}
		if !m.IsPositive() {
			return fmt.Errorf("prices.%s must be positive, got %s", sym, price)
		}
	}
	return nil
}

// Provider builds the price provider from the configured overrides, falling
// back to the fixed reference table when none are set. Validate first.
func (c *Config) Provider() pricing.Provider {
	if len(c.Prices) == 0 {
		return pricing.NewTestProvider()
	}
	table := make(map[string]money.Money, len(c.Prices))
	for sym, price := range c.Prices {
		table[sym] = money.MustParse(price)
	}
	return pricing.NewStatic(table)
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{ID: "ACCT-001"},
		Store:   StoreConfig{DBPath: "./tradebook.sqlite"},
	}
}
