// =============================================================================
// Stocktake - Configuration Module
// =============================================================================
//
// Loads the application configuration from a YAML file. Every field has a
// sensible default, so running without a config file at all is fine; the
// file only exists to override paths and tuning knobs.
//
// CONFIGURATION AREAS:
//   - Paths: where the session blob lives, where reports are written
//   - Timing: autosave delay, search debounce, session TTL
//   - Logging: level and format for the slog setup
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// PATH SETTINGS
	// =========================================================================

	// DataDir is where stocktake keeps its session state.
	// Default: "./.stocktake"
	DataDir string `yaml:"data_dir"`

	// SessionFile is the name of the session blob inside DataDir. One
	// session slot exists system-wide.
	// Default: "session.json"
	SessionFile string `yaml:"session_file"`

	// ExportDir is where generated reports are written.
	// Default: "./reports"
	ExportDir string `yaml:"export_dir"`

	// ExportNameFormat defines report file names. Placeholders:
	//   {name}      - base name of the imported file, without extension
	//   {timestamp} - current timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - a random UUID
	// Default: "{name}_audit_{timestamp}.xlsx"
	ExportNameFormat string `yaml:"export_name_format"`

	// =========================================================================
	// TIMING SETTINGS
	// =========================================================================

	// AutosaveDelaySeconds is the quiet window after an edit before the
	// session is persisted.
	// Default: 5
	AutosaveDelaySeconds int `yaml:"autosave_delay_seconds"`

	// SearchDebounceMillis is the quiet window between search keystrokes.
	// Default: 300
	SearchDebounceMillis int `yaml:"search_debounce_millis"`

	// SessionTTLHours is how long a saved session stays restorable.
	// Default: 48
	SessionTTLHours int `yaml:"session_ttl_hours"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`
}

// Load reads the configuration from path. A missing file is not an error;
// it yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No file: pure defaults.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		cfg.DataDir = "./.stocktake"
	}
	if cfg.SessionFile == "" {
		cfg.SessionFile = "session.json"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "./reports"
	}
	if cfg.ExportNameFormat == "" {
		cfg.ExportNameFormat = "{name}_audit_{timestamp}.xlsx"
	}
	if cfg.AutosaveDelaySeconds == 0 {
		cfg.AutosaveDelaySeconds = 5
	}
	if cfg.SearchDebounceMillis == 0 {
		cfg.SearchDebounceMillis = 300
	}
	if cfg.SessionTTLHours == 0 {
		cfg.SessionTTLHours = 48
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
}

// validate checks ranges and creates the directories the tool writes to.
func validate(cfg *Config) error {
	if cfg.AutosaveDelaySeconds < 0 || cfg.SearchDebounceMillis < 0 || cfg.SessionTTLHours < 0 {
		return fmt.Errorf("timing settings must not be negative")
	}

	for _, dir := range []string{cfg.DataDir, cfg.ExportDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// SessionPath returns the full path of the session blob.
func (cfg *Config) SessionPath() string {
	return filepath.Join(cfg.DataDir, cfg.SessionFile)
}

// AutosaveDelay returns the autosave quiet window as a duration.
func (cfg *Config) AutosaveDelay() time.Duration {
	return time.Duration(cfg.AutosaveDelaySeconds) * time.Second
}

// SearchDebounce returns the search quiet window as a duration.
func (cfg *Config) SearchDebounce() time.Duration {
	return time.Duration(cfg.SearchDebounceMillis) * time.Millisecond
}

// SessionTTL returns the session time-to-live as a duration.
func (cfg *Config) SessionTTL() time.Duration {
	return time.Duration(cfg.SessionTTLHours) * time.Hour
}
