package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/harrison/cardiorisk/internal/assessment"
	"github.com/harrison/cardiorisk/internal/config"
	"github.com/harrison/cardiorisk/internal/history"
	"github.com/harrison/cardiorisk/internal/logger"
	"github.com/harrison/cardiorisk/internal/predictor"
	"github.com/harrison/cardiorisk/internal/storage"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// runtime bundles the components a command needs, built from config.
type runtime struct {
	cfg     *config.Config
	home    string
	log     *logger.ConsoleLogger
	kv      *storage.FileKV
	history *history.Store
	bridge  *assessment.Bridge
	client  *predictor.Client
}

// loadConfig reads config for cmd and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, home, err := config.Load(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	var urlPtr, logLevelPtr *string
	var timeoutPtr *time.Duration
	var strictPtr *bool

	if cmd.Flags().Changed("predictor-url") {
		v, _ := cmd.Flags().GetString("predictor-url")
		urlPtr = &v
	}
	if cmd.Flags().Changed("timeout") {
		raw, _ := cmd.Flags().GetString("timeout")
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, "", fmt.Errorf("invalid timeout %q: %w", raw, err)
		}
		timeoutPtr = &d
	}
	if cmd.Flags().Changed("log-level") {
		v, _ := cmd.Flags().GetString("log-level")
		logLevelPtr = &v
	}
	if cmd.Flags().Changed("strict-ranges") {
		v, _ := cmd.Flags().GetBool("strict-ranges")
		strictPtr = &v
	}
	cfg.MergeWithFlags(urlPtr, timeoutPtr, logLevelPtr, strictPtr)

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, home, nil
}

// newRuntime wires storage, history and the prediction client.
// Logs go to the command's stderr.
func newRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, home, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	log.LogDebug(fmt.Sprintf("home: %s", home))

	rt := &runtime{
		cfg:    cfg,
		home:   home,
		log:    log,
		kv:     storage.NewFileKV(cfg.StoragePath),
		client: predictor.NewClient(cfg.Predictor.BaseURL, cfg.Predictor.Timeout),
	}

	opts := []assessment.Option{assessment.WithLogger(log)}
	if cfg.History.Enabled {
		store, err := history.NewStore(cfg.History.DBPath)
		if err != nil {
			// History is optional; results still persist without it.
			log.LogWarn(fmt.Sprintf("history disabled: %v", err))
		} else {
			rt.history = store
			opts = append(opts, assessment.WithRecorder(store))
		}
	}
	rt.bridge = assessment.NewBridge(rt.kv, opts...)

	return rt, nil
}

// Close releases the history database.
func (rt *runtime) Close() {
	if rt.history != nil {
		if err := rt.history.Close(); err != nil {
			rt.log.LogWarn(fmt.Sprintf("close history: %v", err))
		}
	}
}

// colorEnabled reports whether w is a color-capable terminal.
func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
