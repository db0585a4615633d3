// Package config handles configuration loading and validation for timebox.
package config

import (
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
	"github.com/INF-Lucas/Timeboxing/internal/core/validate"
)

// Settings holds the application configuration. The engine treats the
// workday window and planning default as read-only for each operation.
type Settings struct {
	// WorkdayStart and WorkdayEnd bound the slot search, as "HH:MM"
	// wall-clock strings.
	WorkdayStart string `yaml:"workday_start"`
	WorkdayEnd   string `yaml:"workday_end"`

	// PlanningDefaultMinutes sizes the daily plan-session box.
	PlanningDefaultMinutes int `yaml:"planning_default_minutes"`

	// MeetingPrepMinutes is the suggested prep lead before meetings.
	// Display-only; the engine does not schedule prep boxes.
	MeetingPrepMinutes int `yaml:"meeting_prep_minutes"`

	// FocusShield suppresses non-urgent UI noise while a box is active.
	FocusShield bool `yaml:"focus_shield"`

	// ColorsByTag maps tag text to a display color.
	ColorsByTag map[string]string `yaml:"colors_by_tag"`

	Database DatabaseConfig `yaml:"database"`

	DataDir string `yaml:"-"` // set by caller, not from config file
}

// DatabaseConfig holds SQLite connection pool options.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultSettings returns a Settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		WorkdayStart:           "09:00",
		WorkdayEnd:             "18:00",
		PlanningDefaultMinutes: 15,
		MeetingPrepMinutes:     15,
		FocusShield:            true,
		ColorsByTag:            map[string]string{},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Settings, error) {
	cfg := DefaultSettings()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Settings) applyDefaults() {
	defaults := DefaultSettings()
	if c.WorkdayStart == "" {
		c.WorkdayStart = defaults.WorkdayStart
	}
	if c.WorkdayEnd == "" {
		c.WorkdayEnd = defaults.WorkdayEnd
	}
	if c.PlanningDefaultMinutes == 0 {
		c.PlanningDefaultMinutes = defaults.PlanningDefaultMinutes
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Settings) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, isNonEmptyPath),
		criterio.Run("workday_start", c.WorkdayStart, isClock),
		criterio.Run("workday_end", c.WorkdayEnd, isClock),
		c.validateWindow(),
		validate.EstimateField("planning_default_minutes", c.PlanningDefaultMinutes),
		c.validateMeetingPrep(),
	)
}

func isNonEmptyPath(path string) error {
	if path == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

// isClock validates an "HH:MM" wall-clock string.
func isClock(value string) error {
	_, _, err := timebox.ParseClock(value)
	return err
}

// validateWindow checks workday ordering. Clocks that fail to parse are
// reported by the per-field checks, not here.
func (c *Settings) validateWindow() error {
	startH, startM, errStart := timebox.ParseClock(c.WorkdayStart)
	endH, endM, errEnd := timebox.ParseClock(c.WorkdayEnd)
	if errStart != nil || errEnd != nil {
		return nil
	}
	if startH*60+startM >= endH*60+endM {
		return criterio.NewFieldErrors("workday_start",
			fmt.Errorf("%q must be before workday_end %q", c.WorkdayStart, c.WorkdayEnd))
	}
	return nil
}

func (c *Settings) validateMeetingPrep() error {
	if c.MeetingPrepMinutes < 0 {
		return criterio.NewFieldErrors("meeting_prep_minutes", fmt.Errorf("cannot be negative"))
	}
	return nil
}
