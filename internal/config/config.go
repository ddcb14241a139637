// Package config loads the engine's runtime configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paddockworks/pitwall-engine/internal/domain"
)

// Config holds the engine's runtime configuration.
type Config struct {
	DBPath     string `json:"db_path"`
	SeasonPath string `json:"season_path"`
	SaveSlot   string `json:"save_slot"`
	PlayerTeam string `json:"player_team"`

	RepairBaseCost       int64   `json:"repair_base_cost"`
	RepairCrashSurcharge int64   `json:"repair_crash_surcharge"`
	TelemetryNoise       float64 `json:"telemetry_noise"`

	// Seed makes a whole simulated season reproducible; 0 leaves the
	// engine on time-seeded randomness.
	Seed int64 `json:"seed"`

	Development bool `json:"development"`
}

// Load reads a JSON config file, applies defaults, and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config JSON: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SaveSlot == "" {
		c.SaveSlot = "career"
	}
	if c.RepairBaseCost == 0 {
		c.RepairBaseCost = 120_000
	}
	if c.RepairCrashSurcharge == 0 {
		c.RepairCrashSurcharge = 350_000
	}
	if c.TelemetryNoise == 0 {
		c.TelemetryNoise = 0.08
	}
}

func (c *Config) validate() error {
	var problems []string

	if c.DBPath == "" {
		problems = append(problems, "db_path is required")
	}
	if c.SeasonPath == "" {
		problems = append(problems, "season_path is required")
	}
	if c.RepairBaseCost < 0 || c.RepairCrashSurcharge < 0 {
		problems = append(problems, "repair costs must not be negative")
	}
	if c.TelemetryNoise < 0 || c.TelemetryNoise > 0.5 {
		problems = append(problems, "telemetry_noise must be within [0, 0.5]")
	}

	if len(problems) > 0 {
		return &domain.EngineError{
			Code:    domain.ErrConfigInvalid.Code,
			Message: fmt.Sprintf("%s: %v", domain.ErrConfigInvalid.Message, problems),
		}
	}
	return nil
}
