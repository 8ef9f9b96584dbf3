package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for cardiorisk
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cardiorisk",
		Short: "Guided heart disease risk assessment",
		Long: `Cardiorisk walks you through a five-step health questionnaire,
sends your answers to a heart disease prediction service, and shows
your risk level with a confidence score and recommendations.

The latest result is saved locally so it can be shown again with
"cardiorisk result", and every result is kept in a local history.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: $CARDIORISK_HOME/config.yaml)")
	cmd.PersistentFlags().String("predictor-url", "", "Base URL of the prediction service")
	cmd.PersistentFlags().String("timeout", "", "Prediction request timeout (e.g., 10s, 1m; 0 = none)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().Bool("strict-ranges", false, "Reject answers outside the usual clinical ranges")

	cmd.AddCommand(NewAssessCommand())
	cmd.AddCommand(NewResultCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewHealthCommand())

	return cmd
}
