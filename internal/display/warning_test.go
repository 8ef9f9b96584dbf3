package display

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/harrison/cardiorisk/internal/features"
	"github.com/harrison/cardiorisk/internal/models"
	"github.com/harrison/cardiorisk/internal/predictor"
	"github.com/harrison/cardiorisk/internal/storage"
	"github.com/harrison/cardiorisk/internal/wizard"
)

func TestDisplayWarning_TitleOnly(t *testing.T) {
	var buf bytes.Buffer
	Warning{Title: "Prediction failed"}.Display(&buf)

	output := buf.String()
	if !strings.HasPrefix(output, "\x1b[33m") {
		t.Error("Expected yellow ANSI color code at start of output")
	}
	if !strings.Contains(output, "⚠️  Warning: Prediction failed\n") {
		t.Errorf("Expected title line, got %q", output)
	}
	if !strings.HasSuffix(output, "\x1b[0m") {
		t.Error("Expected ANSI reset code at end of output")
	}
	if strings.Contains(output, "Suggestion") || strings.Contains(output, "Affected") {
		t.Errorf("Expected no optional sections, got %q", output)
	}
}

func TestDisplayWarning_AllSections(t *testing.T) {
	var buf bytes.Buffer
	Warning{
		Title:      "Invalid answers",
		Message:    "age is not a number",
		Fields:     []string{models.FieldAge, models.FieldMaxHR},
		Suggestion: "Enter a number",
	}.Display(&buf)

	output := buf.String()
	for _, want := range []string{
		"    age is not a number\n",
		"    Affected fields:\n",
		"      1. What's your age?\n",
		"      2. Maximum Heart Rate Achieved\n",
		"    Suggestion:\n    Enter a number\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output:\n%s", want, output)
		}
	}
}

func TestDisplayWarning_SingleField(t *testing.T) {
	var buf bytes.Buffer
	Warning{Title: "x", Fields: []string{"custom"}}.Display(&buf)

	if !strings.Contains(buf.String(), "Affected field:\n      1. custom\n") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestSubmitWarning(t *testing.T) {
	invalid := &features.InvalidInputError{Fields: []features.FieldError{{Field: models.FieldAge, Value: "abc"}}}
	rangeErr := &features.RangeError{Violations: []features.RangeViolation{
		{Field: models.FieldMaxHR, Value: 300, Range: features.Ranges[models.FieldMaxHR]},
	}}

	tests := []struct {
		name       string
		err        error
		title      string
		fields     []string
		suggestion string
	}{
		{
			name:   "incomplete",
			err:    &wizard.StepIncompleteError{Step: 5, Missing: []string{models.FieldThal}},
			title:  "Step 5 is incomplete",
			fields: []string{models.FieldThal},
		},
		{
			name:  "in progress",
			err:   wizard.ErrSubmitInProgress,
			title: "Submission in progress",
		},
		{
			name:  "not final step",
			err:   wizard.ErrNotOnFinalStep,
			title: "Not ready to submit",
		},
		{
			name:   "encode",
			err:    &wizard.SubmitError{Stage: wizard.StageEncode, Err: invalid},
			title:  "Invalid answers",
			fields: []string{models.FieldAge},
		},
		{
			name:   "range",
			err:    &wizard.SubmitError{Stage: wizard.StageEncode, Err: rangeErr},
			title:  "Unusual values",
			fields: []string{models.FieldMaxHR},
		},
		{
			name:       "network",
			err:        &wizard.SubmitError{Stage: wizard.StagePredict, Err: &predictor.Error{Kind: predictor.KindNetwork, Err: errors.New("refused")}},
			title:      "Prediction failed",
			suggestion: "Check that the prediction service is running, then submit again",
		},
		{
			name:  "http status",
			err:   &wizard.SubmitError{Stage: wizard.StagePredict, Err: &predictor.Error{Kind: predictor.KindHTTPStatus, StatusCode: 500}},
			title: "Prediction failed",
		},
		{
			name:  "persist",
			err:   &wizard.SubmitError{Stage: wizard.StagePersist, Err: fmt.Errorf("persist assessment: %w", storage.ErrUnavailable)},
			title: "Could not save the result",
		},
		{
			name:  "reset during submit",
			err:   &wizard.SubmitError{Stage: wizard.StagePersist, Err: wizard.ErrSessionReset},
			title: "Submission discarded",
		},
		{
			name:  "other",
			err:   errors.New("boom"),
			title: "Submission failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := SubmitWarning(tt.err)

			if w.Title != tt.title {
				t.Errorf("Title = %q, want %q", w.Title, tt.title)
			}
			if tt.fields != nil && strings.Join(w.Fields, ",") != strings.Join(tt.fields, ",") {
				t.Errorf("Fields = %v, want %v", w.Fields, tt.fields)
			}
			if tt.suggestion != "" && w.Suggestion != tt.suggestion {
				t.Errorf("Suggestion = %q, want %q", w.Suggestion, tt.suggestion)
			}
		})
	}
}

func TestSubmitWarningCarriesCause(t *testing.T) {
	cause := &predictor.Error{Kind: predictor.KindHTTPStatus, StatusCode: 500, Detail: "model not loaded"}
	w := SubmitWarning(&wizard.SubmitError{Stage: wizard.StagePredict, Err: cause})

	if w.Message != "prediction service returned HTTP 500: model not loaded" {
		t.Errorf("Message = %q", w.Message)
	}
}

func TestRangeWarning(t *testing.T) {
	w := RangeWarning([]features.RangeViolation{
		{Field: models.FieldAge, Value: 150, Range: features.Ranges[models.FieldAge]},
	})

	if !strings.Contains(w.Message, "age = 150 is outside 1-120 years") {
		t.Errorf("Message = %q", w.Message)
	}
}
