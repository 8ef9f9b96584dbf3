package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPredictorURL is the address of a locally running prediction service.
const DefaultPredictorURL = "http://localhost:5000"

// PredictorConfig represents the external prediction service settings
type PredictorConfig struct {
	// BaseURL is the service root; requests go to BaseURL + "/predict"
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a single prediction call (0 = wait indefinitely)
	Timeout time.Duration `yaml:"timeout"`
}

// HistoryConfig represents assessment history settings
type HistoryConfig struct {
	// Enabled records every persisted assessment in the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database
	DBPath string `yaml:"db_path"`
}

// Config represents cardiorisk configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// StoragePath is the key-value file the latest assessment is written to
	StoragePath string `yaml:"storage_path"`

	// StrictRanges rejects submissions whose values fall outside clinical input bounds
	StrictRanges bool `yaml:"strict_ranges"`

	// Predictor contains prediction service configuration
	Predictor PredictorConfig `yaml:"predictor"`

	// History contains assessment history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values.
// Empty paths are filled in by ResolvePaths.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "info",
		StoragePath:  "",
		StrictRanges: false,
		Predictor: PredictorConfig{
			BaseURL: DefaultPredictorURL,
			Timeout: 0,
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  "",
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Timeout is read as a string so "30s" style values parse
	type yamlPredictor struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	}
	type yamlConfig struct {
		LogLevel     string        `yaml:"log_level"`
		StoragePath  string        `yaml:"storage_path"`
		StrictRanges bool          `yaml:"strict_ranges"`
		Predictor    yamlPredictor `yaml:"predictor"`
		History      HistoryConfig `yaml:"history"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.StoragePath != "" {
		cfg.StoragePath = yamlCfg.StoragePath
	}
	if yamlCfg.StrictRanges {
		cfg.StrictRanges = true
	}
	if yamlCfg.Predictor.BaseURL != "" {
		cfg.Predictor.BaseURL = yamlCfg.Predictor.BaseURL
	}
	if yamlCfg.Predictor.Timeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.Predictor.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid predictor.timeout format %q: %w", yamlCfg.Predictor.Timeout, err)
		}
		cfg.Predictor.Timeout = timeout
	}

	// history.enabled defaults to true, so only an explicit key may turn it off
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if historySection, exists := rawMap["history"]; exists && historySection != nil {
			historyMap, _ := historySection.(map[string]interface{})
			if _, exists := historyMap["enabled"]; exists {
				cfg.History.Enabled = yamlCfg.History.Enabled
			}
			if _, exists := historyMap["db_path"]; exists {
				cfg.History.DBPath = yamlCfg.History.DBPath
			}
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from config.yaml in the specified home directory
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, "config.yaml"))
}

// ResolvePaths fills empty storage and history paths relative to home
// and makes relative paths absolute against home.
func (c *Config) ResolvePaths(home string) {
	if c.StoragePath == "" {
		c.StoragePath = filepath.Join(home, "storage.json")
	} else if !filepath.IsAbs(c.StoragePath) {
		c.StoragePath = filepath.Join(home, c.StoragePath)
	}

	if c.History.DBPath == "" {
		c.History.DBPath = filepath.Join(home, "history", "assessments.db")
	} else if c.History.DBPath != ":memory:" && !filepath.IsAbs(c.History.DBPath) {
		c.History.DBPath = filepath.Join(home, c.History.DBPath)
	}
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(predictorURL *string, timeout *time.Duration, logLevel *string, strictRanges *bool) {
	if predictorURL != nil {
		c.Predictor.BaseURL = *predictorURL
	}
	if timeout != nil {
		c.Predictor.Timeout = *timeout
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if strictRanges != nil {
		c.StrictRanges = *strictRanges
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.Predictor.BaseURL == "" {
		return fmt.Errorf("predictor.base_url cannot be empty")
	}
	if !strings.HasPrefix(c.Predictor.BaseURL, "http://") && !strings.HasPrefix(c.Predictor.BaseURL, "https://") {
		return fmt.Errorf("predictor.base_url must be an http(s) URL, got %q", c.Predictor.BaseURL)
	}

	// Timeout can be 0 (no timeout) or positive, negative is invalid
	if c.Predictor.Timeout < 0 {
		return fmt.Errorf("predictor.timeout must be >= 0, got %v", c.Predictor.Timeout)
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	return nil
}
