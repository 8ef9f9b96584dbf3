package display

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/harrison/cardiorisk/internal/features"
	"github.com/harrison/cardiorisk/internal/predictor"
	"github.com/harrison/cardiorisk/internal/storage"
	"github.com/harrison/cardiorisk/internal/wizard"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Fields     []string // Related form fields (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning in yellow
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("\x1b[33m")
	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Fields) > 0 {
		b.WriteString("    ")
		if len(w.Fields) == 1 {
			b.WriteString("Affected field:\n")
		} else {
			b.WriteString("Affected fields:\n")
		}
		for i, field := range w.Fields {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, fieldLabel(field)))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	b.WriteString("\x1b[0m")
	fmt.Fprint(out, b.String())
}

func fieldLabel(name string) string {
	if spec, ok := wizard.Field(name); ok {
		return spec.Label
	}
	return name
}

// IncompleteWarning reports the required fields still empty on a step.
func IncompleteWarning(err *wizard.StepIncompleteError) Warning {
	return Warning{
		Title:      fmt.Sprintf("Step %d is incomplete", err.Step),
		Fields:     err.Missing,
		Suggestion: "Answer every question on this step to continue",
	}
}

// RangeWarning reports values outside their usual clinical bounds.
func RangeWarning(violations []features.RangeViolation) Warning {
	msgs := make([]string, len(violations))
	fields := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.String()
		fields[i] = v.Field
	}
	return Warning{
		Title:      "Unusual values",
		Message:    strings.Join(msgs, "; "),
		Fields:     fields,
		Suggestion: "Double-check these answers before submitting",
	}
}

// SubmitWarning turns a Submit failure into a warning. The title names the
// failed stage and the message carries the cause.
func SubmitWarning(err error) Warning {
	var incomplete *wizard.StepIncompleteError
	if errors.As(err, &incomplete) {
		return IncompleteWarning(incomplete)
	}
	if errors.Is(err, wizard.ErrSubmitInProgress) {
		return Warning{Title: "Submission in progress", Suggestion: "Wait for the current submission to finish"}
	}
	if errors.Is(err, wizard.ErrNotOnFinalStep) {
		return Warning{Title: "Not ready to submit", Suggestion: "Complete every step first"}
	}
	if errors.Is(err, wizard.ErrSessionReset) {
		return Warning{Title: "Submission discarded", Message: err.Error(), Suggestion: "Submit the new assessment when it is complete"}
	}

	var submitErr *wizard.SubmitError
	if !errors.As(err, &submitErr) {
		return Warning{Title: "Submission failed", Message: err.Error()}
	}

	w := Warning{Message: submitErr.Err.Error()}
	switch submitErr.Stage {
	case wizard.StageEncode:
		w.Title = "Invalid answers"
		var invalid *features.InvalidInputError
		var rangeErr *features.RangeError
		switch {
		case errors.As(submitErr.Err, &invalid):
			w.Fields = invalid.FieldNames()
			w.Suggestion = "Enter a number for each listed field"
		case errors.As(submitErr.Err, &rangeErr):
			return RangeWarning(rangeErr.Violations)
		}
	case wizard.StagePredict:
		w.Title = "Prediction failed"
		switch predictor.KindOf(submitErr.Err) {
		case predictor.KindNetwork:
			w.Suggestion = "Check that the prediction service is running, then submit again"
		case predictor.KindHTTPStatus:
			w.Suggestion = "The prediction service rejected the request; check its logs, then submit again"
		default:
			w.Suggestion = "Submit again"
		}
	case wizard.StagePersist:
		w.Title = "Could not save the result"
		if errors.Is(submitErr.Err, storage.ErrUnavailable) {
			w.Suggestion = "Check that the storage file is writable, then submit again"
		}
	default:
		w.Title = "Submission failed"
	}
	return w
}
