package cmd

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultWithoutAssessment(t *testing.T) {
	setupHome(t)

	output, err := executeCommand(t, "", "result")
	require.NoError(t, err)

	assert.Contains(t, output, "Unknown")
	assert.Contains(t, output, "0%")
	assert.Contains(t, output, "Consult a Doctor")
}

func TestResultAfterAssessment(t *testing.T) {
	setupHome(t)
	server := newPredictorServer(t, http.StatusOK, `{"prediction": 1, "risk_probability": 0.74}`)
	answers := filepath.Join(t.TempDir(), "answers.yaml")
	writeFile(t, answers, answersYAML)

	_, err := executeCommand(t, "", "assess", "--answers", answers, "--batch", "--predictor-url", server.URL)
	require.NoError(t, err)

	output, err := executeCommand(t, "", "result")
	require.NoError(t, err)
	assert.Contains(t, output, "High Risk")
	assert.Contains(t, output, "74%")
	assert.Contains(t, output, "Your Answers")
}

func TestResultHTML(t *testing.T) {
	setupHome(t)
	server := newPredictorServer(t, http.StatusOK, `{"prediction": 0, "risk_probability": 0.2}`)
	answers := filepath.Join(t.TempDir(), "answers.yaml")
	writeFile(t, answers, answersYAML)

	_, err := executeCommand(t, "", "assess", "--answers", answers, "--batch", "--predictor-url", server.URL)
	require.NoError(t, err)

	htmlPath := filepath.Join(t.TempDir(), "report", "result.html")
	output, err := executeCommand(t, "", "result", "--html", htmlPath)
	require.NoError(t, err)
	assert.Contains(t, output, "HTML report written to "+htmlPath)

	data, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
	assert.Contains(t, string(data), "Low Risk")
	assert.Contains(t, string(data), `class="tone-low"`)
}
