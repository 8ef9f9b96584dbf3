package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/harrison/cardiorisk/internal/models"
	"github.com/harrison/cardiorisk/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past assessments",
		Long:  `Lists saved assessments, newest first, with a summary of all recorded results.`,
		Args:  cobra.NoArgs,
		RunE:  runHistoryCommand,
	}

	cmd.Flags().Int("limit", 10, "Maximum number of assessments to show (0 = all)")

	return cmd
}

func runHistoryCommand(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()
	if rt.history == nil {
		fmt.Fprintln(out, "History is disabled (set history.enabled: true in config.yaml).")
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return fmt.Errorf("--limit must be >= 0, got %d", limit)
	}

	ctx := cmd.Context()
	records, err := rt.history.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No assessments recorded yet. Run 'cardiorisk assess' to take one.")
		return nil
	}

	stats, err := rt.history.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read history stats: %w", err)
	}

	renderHistory(out, records, colorEnabled(out))
	fmt.Fprintf(out, "\nTotal: %d  High Risk: %d  Low Risk: %d  Mean confidence: %d%%\n",
		stats.Total, stats.HighRisk, stats.LowRisk, report.ConfidencePercent(stats.MeanProbability))
	return nil
}

func renderHistory(out io.Writer, records []*models.PersistedAssessment, colorOutput bool) {
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	if colorOutput {
		red.EnableColor()
		green.EnableColor()
	} else {
		red.DisableColor()
		green.DisableColor()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-17s %-10s %10s %5s  %s\n", "Date", "Risk", "Confidence", "Age", "ID"))
	sb.WriteString(strings.Repeat("-", 56) + "\n")
	for _, a := range records {
		r := report.Derive(a)
		// Pad before coloring so escape codes do not skew the columns.
		level := fmt.Sprintf("%-10s", r.Level)
		if r.Tone == report.ToneHigh {
			level = red.Sprint(level)
		} else {
			level = green.Sprint(level)
		}
		age := a.Form[models.FieldAge]
		if age == "" {
			age = "-"
		}
		sb.WriteString(fmt.Sprintf("%-17s %s %9d%% %5s  %s\n",
			a.Timestamp.Local().Format("2006-01-02 15:04"), level, r.Confidence, age, shortID(a.ID)))
	}
	fmt.Fprint(out, sb.String())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
