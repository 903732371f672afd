package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Source        string `yaml:"source"`         // FILE or KITE
	TradeCategory string `yaml:"trade_category"` // equity or derivatives
	Exchange      string `yaml:"exchange"`

	Report struct {
		Dir        string `yaml:"dir"`
		WriteCSV   bool   `yaml:"write_csv"`
		WriteJSON  bool   `yaml:"write_json"`
		PricePlaces int32 `yaml:"price_places"`
	} `yaml:"report"`

	Journal struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"journal"`

	Insights struct {
		Provider    string  `yaml:"provider"` // GROQ or NONE
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
		APIKeyEnv   string  `yaml:"api_key_env"`
	} `yaml:"insights"`

	Kite struct {
		Exchange string `yaml:"exchange"`
	} `yaml:"kite"`
}

func (c *Config) Validate() error {
	if c.Source != "FILE" && c.Source != "KITE" {
		return fmt.Errorf("invalid source '%s': must be 'FILE' or 'KITE'", c.Source)
	}
	if c.TradeCategory != "equity" && c.TradeCategory != "derivatives" {
		return fmt.Errorf("invalid trade_category '%s': must be 'equity' or 'derivatives'", c.TradeCategory)
	}
	if c.Insights.Provider != "GROQ" && c.Insights.Provider != "NONE" {
		return fmt.Errorf("insights.provider must be 'GROQ' or 'NONE', got '%s'", c.Insights.Provider)
	}
	if c.Journal.RetentionDays < 0 {
		return fmt.Errorf("journal.retention_days cannot be negative, got %d", c.Journal.RetentionDays)
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

	if c.Source == "" {
		c.Source = "FILE"
	}
	if c.TradeCategory == "" {
		c.TradeCategory = "equity"
	}
	if c.Report.Dir == "" {
		c.Report.Dir = "reports"
	}
	if c.Report.PricePlaces == 0 {
		c.Report.PricePlaces = 2
	}
	if c.Journal.Dir == "" {
		c.Journal.Dir = "logs"
	}
	if c.Insights.Provider == "" {
		c.Insights.Provider = "NONE"
	}
	if c.Insights.Model == "" {
		c.Insights.Model = "llama-3.3-70b-versatile"
	}
	if c.Insights.MaxTokens == 0 {
		c.Insights.MaxTokens = 200
	}
	if c.Insights.APIKeyEnv == "" {
		c.Insights.APIKeyEnv = "GROQ_API_KEY"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
