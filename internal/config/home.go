package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnvVar overrides the directory holding config, storage and history.
const HomeEnvVar = "CARDIORISK_HOME"

// GetHome returns the cardiorisk home directory
// Priority order:
//  1. CARDIORISK_HOME environment variable (if set)
//  2. .cardiorisk under the current working directory (fallback)
//
// The directory is created if it doesn't exist
func GetHome() (string, error) {
	if home := os.Getenv(HomeEnvVar); home != "" {
		if err := os.MkdirAll(home, 0755); err != nil {
			return "", fmt.Errorf("create cardiorisk home directory: %w", err)
		}
		return home, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	home := filepath.Join(cwd, ".cardiorisk")
	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create cardiorisk home directory: %w", err)
	}

	return home, nil
}

// Load resolves the home directory, reads config.yaml from it (or configPath
// when non-empty), applies environment overrides and resolves relative paths.
// Callers merge CLI flags and call Validate afterwards.
func Load(configPath string) (*Config, string, error) {
	home, err := GetHome()
	if err != nil {
		return nil, "", err
	}

	if configPath == "" {
		configPath = filepath.Join(home, "config.yaml")
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, "", err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, "", err
	}
	cfg.ResolvePaths(home)

	return cfg, home, nil
}
