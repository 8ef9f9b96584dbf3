package cmd

import (
	"bytes"
	"fmt"

	"github.com/harrison/cardiorisk/internal/filelock"
	"github.com/harrison/cardiorisk/internal/report"
	"github.com/spf13/cobra"
)

// NewResultCommand creates the result command
func NewResultCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result",
		Short: "Show the latest assessment result",
		Long: `Shows the most recently saved assessment: risk level, advice,
confidence score and recommendations. When nothing has been saved the
result is shown as Unknown.`,
		Args: cobra.NoArgs,
		RunE: runResultCommand,
	}

	cmd.Flags().String("html", "", "Also write the result as an HTML page to this path")

	return cmd
}

func runResultCommand(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()
	if err := showResult(out, rt.bridge, colorEnabled(out)); err != nil {
		return err
	}

	htmlPath, _ := cmd.Flags().GetString("html")
	if htmlPath == "" {
		return nil
	}

	a, _ := rt.bridge.Load()
	var buf bytes.Buffer
	if err := report.RenderHTML(&buf, report.Derive(a)); err != nil {
		return err
	}
	if err := filelock.AtomicWrite(htmlPath, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write HTML report: %w", err)
	}
	fmt.Fprintf(out, "HTML report written to %s\n", htmlPath)
	return nil
}
