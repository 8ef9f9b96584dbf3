package display

import (
	"fmt"
	"io"
	"strings"
)

// StepHeader prints the banner shown above each wizard step.
type StepHeader struct {
	writer io.Writer
	total  int
}

// NewStepHeader creates a header for a wizard of total steps.
func NewStepHeader(w io.Writer, total int) *StepHeader {
	return &StepHeader{writer: w, total: total}
}

// Show displays "[N/Total] Title" in cyan, the subtitle, and a percentage.
func (h *StepHeader) Show(step int, title, subtitle string) {
	percent := 0
	if h.total > 0 {
		percent = step * 100 / h.total
	}
	fmt.Fprintf(h.writer, "\n\x1b[36m[%d/%d] %s\x1b[0m  %d%% complete\n", step, h.total, title, percent)
	if subtitle != "" {
		fmt.Fprintf(h.writer, "%s\n", subtitle)
	}
	fmt.Fprintln(h.writer, strings.Repeat("-", 40))
}

// Complete displays the success line after a submission.
func Complete(w io.Writer, message string) {
	fmt.Fprintf(w, "\x1b[32m✓\x1b[0m %s\n", message)
}
