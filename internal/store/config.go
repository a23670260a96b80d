package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// InitialBalance is the account balance used for return-based metrics.
	// Nil leaves those metrics unset in the report.
	InitialBalance *float64 `yaml:"initial_balance"`
	Granularity    string   `yaml:"granularity"`
	// SetupAttribute names the trade attribute that identifies a setup in
	// performance highlights.
	SetupAttribute string `yaml:"setup_attribute"`
	// TimeRangeDays limits analysis to trades within that many days of now.
	// Zero means no limit.
	TimeRangeDays int    `yaml:"time_range_days"`
	JournalDir    string `yaml:"journal_dir"`

	Combination struct {
		Order     int `yaml:"order"`
		MinTrades int `yaml:"min_trades"`
	} `yaml:"combination"`

	Benchmark struct {
		Enabled bool   `yaml:"enabled"`
		URL     string `yaml:"url"`
		Symbol  string `yaml:"symbol"`
	} `yaml:"benchmark"`

	Broker struct {
		Enabled   bool   `yaml:"enabled"`
		APIKeyEnv string `yaml:"api_key_env"`
		TokenEnv  string `yaml:"token_env"`
	} `yaml:"broker"`
}

func (c *Config) Validate() error {
	switch c.Granularity {
	case "daily", "weekly", "monthly", "yearly":
	default:
		return fmt.Errorf("invalid granularity '%s': must be 'daily', 'weekly', 'monthly' or 'yearly'", c.Granularity)
	}
	if c.Combination.Order < 1 {
		return fmt.Errorf("combination.order must be at least 1, got %d", c.Combination.Order)
	}
	if c.Combination.MinTrades < 1 {
		return fmt.Errorf("combination.min_trades must be at least 1, got %d", c.Combination.MinTrades)
	}
	if c.TimeRangeDays < 0 {
		return fmt.Errorf("time_range_days cannot be negative, got %d", c.TimeRangeDays)
	}
	if c.InitialBalance != nil && *c.InitialBalance <= 0 {
		return fmt.Errorf("initial_balance must be positive, got %.2f", *c.InitialBalance)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// Default returns a config with all defaults applied, used when no config
// file is given.
func Default() *Config {
	var c Config
	applyDefaults(&c)
	return &c
}

func applyDefaults(c *Config) {
	if c.Granularity == "" {
		c.Granularity = "daily"
	}
	if c.SetupAttribute == "" {
		c.SetupAttribute = "setup"
	}
	if c.JournalDir == "" {
		c.JournalDir = "journal"
	}
	if c.Combination.Order == 0 {
		c.Combination.Order = 1
	}
	if c.Combination.MinTrades == 0 {
		c.Combination.MinTrades = 1
	}
	if c.Broker.APIKeyEnv == "" {
		c.Broker.APIKeyEnv = "KITE_API_KEY"
	}
	if c.Broker.TokenEnv == "" {
		c.Broker.TokenEnv = "KITE_ACCESS_TOKEN"
	}
}
