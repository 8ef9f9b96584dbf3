package display

import (
	"bytes"
	"strings"
	"testing"
)

func TestStepHeader(t *testing.T) {
	var buf bytes.Buffer
	NewStepHeader(&buf, 5).Show(2, "Symptoms & Pain", "Help us understand your symptoms")

	output := buf.String()
	if !strings.Contains(output, "\x1b[36m[2/5] Symptoms & Pain\x1b[0m  40% complete\n") {
		t.Errorf("unexpected header %q", output)
	}
	if !strings.Contains(output, "Help us understand your symptoms\n") {
		t.Errorf("missing subtitle in %q", output)
	}
}

func TestStepHeaderNoSubtitle(t *testing.T) {
	var buf bytes.Buffer
	NewStepHeader(&buf, 0).Show(1, "Title", "")

	if !strings.Contains(buf.String(), "0% complete\n"+strings.Repeat("-", 40)) {
		t.Errorf("unexpected header %q", buf.String())
	}
}

func TestComplete(t *testing.T) {
	var buf bytes.Buffer
	Complete(&buf, "Assessment saved")

	if buf.String() != "\x1b[32m✓\x1b[0m Assessment saved\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}
