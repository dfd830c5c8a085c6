package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// Scheduling holds the slot-generation and packing parameters.
type Scheduling struct {
	// HourStart and HourEnd delimit the working day; slots cover hours in
	// [HourStart, HourEnd).
	HourStart int `yaml:"hourStart" validate:"min=0,max=23"`
	HourEnd   int `yaml:"hourEnd" validate:"min=1,max=24"`

	// HorizonWeeks is how far ahead proposals are generated.
	HorizonWeeks int `yaml:"horizonWeeks" validate:"min=1"`

	// MaxPerDay and MaxPerWeek cap how full the proposed calendar may get.
	MaxPerDay  int `yaml:"maxPerDay" validate:"min=1"`
	MaxPerWeek int `yaml:"maxPerWeek" validate:"min=1"`

	// Closures are recurrence rules (RFC 5545 RRULE strings) for days the
	// practice is closed, e.g. public holidays.
	Closures []string `yaml:"closures,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL   string     `yaml:"databaseURL" validate:"required"`
	ModelArtifact string     `yaml:"modelArtifact" validate:"required"`
	HTTPAddr      string     `yaml:"httpAddr,omitempty"`
	Scheduling    Scheduling `yaml:"scheduling"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from scheduler_config.yaml,
// looking in the current directory first, then in the user's home directory.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the working-day bounds and the
// closure rrule syntax.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Scheduling.HourStart >= cfg.Scheduling.HourEnd {
		return fmt.Errorf(
			"config validation failed: hourStart (%d) must be before hourEnd (%d)",
			cfg.Scheduling.HourStart, cfg.Scheduling.HourEnd,
		)
	}

	for i, closure := range cfg.Scheduling.Closures {
		if _, err := rrule.StrToRRule(closure); err != nil {
			return fmt.Errorf("invalid rrule in closures[%d]: %w", i, err)
		}
	}

	return nil
}

// findConfigFile searches for scheduler_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "scheduler_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
