package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment override, e.g. CARDIORISK_PREDICTOR_URL.
const EnvPrefix = "CARDIORISK"

// envOverlay lists the settings that may be overridden from the environment.
// split_words maps PredictorURL to CARDIORISK_PREDICTOR_URL with no
// unprefixed fallback. Pointer fields stay nil when the variable is unset.
type envOverlay struct {
	PredictorURL     string         `split_words:"true"`
	PredictorTimeout *time.Duration `split_words:"true"`
	LogLevel         string         `split_words:"true"`
	StoragePath      string         `split_words:"true"`
	HistoryDBPath    string         `split_words:"true"`
	HistoryEnabled   *bool          `split_words:"true"`
	StrictRanges     *bool          `split_words:"true"`
}

// ApplyEnv overrides configuration values with CARDIORISK_* environment variables.
// Environment values win over the config file; CLI flags win over both.
func (c *Config) ApplyEnv() error {
	var env envOverlay
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}

	if env.PredictorURL != "" {
		c.Predictor.BaseURL = env.PredictorURL
	}
	if env.PredictorTimeout != nil {
		c.Predictor.Timeout = *env.PredictorTimeout
	}
	if env.LogLevel != "" {
		c.LogLevel = env.LogLevel
	}
	if env.StoragePath != "" {
		c.StoragePath = env.StoragePath
	}
	if env.HistoryDBPath != "" {
		c.History.DBPath = env.HistoryDBPath
	}
	if env.HistoryEnabled != nil {
		c.History.Enabled = *env.HistoryEnabled
	}
	if env.StrictRanges != nil {
		c.StrictRanges = *env.StrictRanges
	}

	return nil
}
