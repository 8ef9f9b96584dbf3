package cmd

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harrison/cardiorisk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryEmpty(t *testing.T) {
	setupHome(t)

	output, err := executeCommand(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, output, "No assessments recorded yet")
}

func TestHistoryDisabled(t *testing.T) {
	home := setupHome(t)
	writeFile(t, filepath.Join(home, "config.yaml"), "history:\n  enabled: false\n")

	output, err := executeCommand(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, output, "History is disabled")
}

func TestHistoryNegativeLimit(t *testing.T) {
	setupHome(t)

	_, err := executeCommand(t, "", "history", "--limit", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--limit must be >= 0")
}

func TestHistoryListsAssessments(t *testing.T) {
	setupHome(t)
	answers := filepath.Join(t.TempDir(), "answers.yaml")
	writeFile(t, answers, answersYAML)

	high := newPredictorServer(t, http.StatusOK, `{"prediction": 1, "risk_probability": 0.8}`)
	low := newPredictorServer(t, http.StatusOK, `{"prediction": 0, "risk_probability": 0.2}`)

	_, err := executeCommand(t, "", "assess", "--answers", answers, "--batch", "--predictor-url", high.URL)
	require.NoError(t, err)
	_, err = executeCommand(t, "", "assess", "--answers", answers, "--batch", "--predictor-url", low.URL)
	require.NoError(t, err)

	output, err := executeCommand(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, output, "Confidence")
	assert.Contains(t, output, "High Risk")
	assert.Contains(t, output, "Low Risk")
	assert.Contains(t, output, "Total: 2  High Risk: 1  Low Risk: 1  Mean confidence: 50%")

	output, err = executeCommand(t, "", "history", "--limit", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(output, " 54  "), "only one row shown")
	assert.Contains(t, output, "Total: 2")
}

func TestRenderHistory(t *testing.T) {
	form := models.NewFormState()
	form[models.FieldAge] = "61"
	records := []*models.PersistedAssessment{
		{ID: "0123456789abcdef", Prediction: 1, Probability: 0.9, Form: form, Timestamp: time.Now()},
		{ID: "short", Prediction: 0, Probability: 0.05, Form: models.NewFormState(), Timestamp: time.Now()},
	}

	var buf bytes.Buffer
	renderHistory(&buf, records, false)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Date"))
	assert.Contains(t, lines[2], "High Risk")
	assert.Contains(t, lines[2], "90%")
	assert.Contains(t, lines[2], "01234567")
	assert.NotContains(t, lines[2], "89abcdef")
	assert.Contains(t, lines[3], "Low Risk")
	assert.Contains(t, lines[3], " -  short")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abcdefgh", shortID("abcdefghijkl"))
	assert.Equal(t, "abc", shortID("abc"))
}
