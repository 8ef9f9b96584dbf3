package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestGetHomeWithEnvVar tests CARDIORISK_HOME takes precedence and is created
func TestGetHomeWithEnvVar(t *testing.T) {
	customHome := filepath.Join(t.TempDir(), "nested", "home")
	t.Setenv(HomeEnvVar, customHome)

	home, err := GetHome()
	if err != nil {
		t.Fatalf("GetHome() error = %v", err)
	}
	if home != customHome {
		t.Errorf("GetHome() = %q, want %q", home, customHome)
	}
	if _, err := os.Stat(home); os.IsNotExist(err) {
		t.Errorf("Directory not created: %q", home)
	}
}

// TestLoadAppliesFileEnvAndPaths exercises the full load sequence
func TestLoadAppliesFileEnvAndPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnvVar, home)

	configContent := "predictor:\n  base_url: http://from-file:5000\n  timeout: 10s\n"
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("CARDIORISK_PREDICTOR_URL", "http://from-env:5000")
	t.Setenv("CARDIORISK_HISTORY_ENABLED", "false")

	cfg, gotHome, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if gotHome != home {
		t.Errorf("home = %q, want %q", gotHome, home)
	}
	if cfg.Predictor.BaseURL != "http://from-env:5000" {
		t.Errorf("Predictor.BaseURL = %q, want env override", cfg.Predictor.BaseURL)
	}
	if cfg.Predictor.Timeout != 10*time.Second {
		t.Errorf("Predictor.Timeout = %v, want 10s from file", cfg.Predictor.Timeout)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false from env")
	}
	if cfg.StoragePath != filepath.Join(home, "storage.json") {
		t.Errorf("StoragePath = %q", cfg.StoragePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

// TestApplyEnvTimeout decodes durations, including an explicit zero
func TestApplyEnvTimeout(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"45s", 45 * time.Second},
		{"1m30s", 90 * time.Second},
		{"0s", 0},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("CARDIORISK_PREDICTOR_TIMEOUT", tt.value)

			cfg := DefaultConfig()
			cfg.Predictor.Timeout = 10 * time.Second
			if err := cfg.ApplyEnv(); err != nil {
				t.Fatalf("ApplyEnv() error = %v", err)
			}
			if cfg.Predictor.Timeout != tt.want {
				t.Errorf("Predictor.Timeout = %v, want %v", cfg.Predictor.Timeout, tt.want)
			}
		})
	}
}

// TestApplyEnvBadTimeout rejects unparsable durations
func TestApplyEnvBadTimeout(t *testing.T) {
	t.Setenv("CARDIORISK_PREDICTOR_TIMEOUT", "forever")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("ApplyEnv() expected error for bad timeout")
	}
}

// TestApplyEnvStrictRanges parses boolean overrides
func TestApplyEnvStrictRanges(t *testing.T) {
	t.Setenv("CARDIORISK_STRICT_RANGES", "true")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if !cfg.StrictRanges {
		t.Error("StrictRanges = false, want true")
	}
}
