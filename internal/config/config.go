package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name inside a project directory.
const FileName = "bankbook.yaml"

// Config represents the top-level bankbook.yaml configuration.
type Config struct {
	Ledger LedgerConfig `yaml:"ledger"`
	Log    LogConfig    `yaml:"log"`
}

// LedgerConfig describes the single account book.
type LedgerConfig struct {
	Name                   string `yaml:"name" validate:"required"`
	Currency               string `yaml:"currency" validate:"required,iso4217"`
	AllowFullWithdrawal    bool   `yaml:"allow_full_withdrawal"` // withdrawals may take the balance to exactly zero
	RequirePositiveDeposit bool   `yaml:"require_positive_deposit"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates a bankbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	// Fields missing from the file keep these values.
	cfg := Config{Ledger: LedgerConfig{AllowFullWithdrawal: true}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Ledger.Currency = normalizeCurrency(cfg.Ledger.Currency)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]error, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Errorf("%s: failed %q check (value %q)", fe.Namespace(), fe.Tag(), fmt.Sprint(fe.Value()))
	}
	return fmt.Errorf("invalid config: %w", errors.Join(msgs...))
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(name, currency string) *Config {
	return &Config{
		Ledger: LedgerConfig{
			Name:                name,
			Currency:            normalizeCurrency(currency),
			AllowFullWithdrawal: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// normalizeCurrency upper-cases an ISO 4217 code so "usd" is accepted.
func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
