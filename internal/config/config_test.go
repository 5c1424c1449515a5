package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(filepath.Join(dir, "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SessionFile != "session.json" {
		t.Errorf("SessionFile = %q", cfg.SessionFile)
	}
	if cfg.AutosaveDelay() != 5*time.Second {
		t.Errorf("AutosaveDelay() = %v, expected 5s", cfg.AutosaveDelay())
	}
	if cfg.SearchDebounce() != 300*time.Millisecond {
		t.Errorf("SearchDebounce() = %v, expected 300ms", cfg.SearchDebounce())
	}
	if cfg.SessionTTL() != 48*time.Hour {
		t.Errorf("SessionTTL() = %v, expected 48h", cfg.SessionTTL())
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging defaults = (%s, %s)", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadOverridesAndDirCreation(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := `
data_dir: ` + filepath.Join(dir, "state") + `
export_dir: ` + filepath.Join(dir, "out") + `
autosave_delay_seconds: 2
log_level: debug
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AutosaveDelaySeconds != 2 {
		t.Errorf("AutosaveDelaySeconds = %d, expected 2", cfg.AutosaveDelaySeconds)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, expected debug", cfg.LogLevel)
	}
	// Unset fields still get defaults.
	if cfg.SessionTTLHours != 48 {
		t.Errorf("SessionTTLHours = %d, expected 48", cfg.SessionTTLHours)
	}
	// Directories are created on load.
	if _, err := os.Stat(filepath.Join(dir, "state")); err != nil {
		t.Errorf("data dir not created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); err != nil {
		t.Errorf("export dir not created: %v", err)
	}
	if got := cfg.SessionPath(); got != filepath.Join(dir, "state", "session.json") {
		t.Errorf("SessionPath() = %q", got)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(":"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Error("Load of invalid YAML must fail")
	}
}

func TestLoadRejectsNegativeTimings(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("autosave_delay_seconds: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Error("Load with negative timing must fail")
	}
}
