package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// defaultHealthTimeout bounds the health probe when no predictor timeout is configured.
const defaultHealthTimeout = 5 * time.Second

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the prediction service",
		Long: `Queries the prediction service's /health endpoint and reports whether
the model and scaler are loaded. Exits non-zero when the service is
unreachable or not ready.`,
		Args: cobra.NoArgs,
		RunE: runHealthCommand,
	}
}

func runHealthCommand(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	timeout := rt.cfg.Predictor.Timeout
	if timeout == 0 {
		timeout = defaultHealthTimeout
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Prediction service: %s\n", rt.client.BaseURL())

	health, err := rt.client.CheckHealth(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	fmt.Fprintf(out, "  status:        %s\n", health.Status)
	fmt.Fprintf(out, "  model loaded:  %t\n", health.ModelLoaded)
	fmt.Fprintf(out, "  scaler loaded: %t\n", health.ScalerLoaded)

	if !health.Healthy() {
		return fmt.Errorf("prediction service is not ready")
	}
	fmt.Fprintln(out, "OK")
	return nil
}
