package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthOK(t *testing.T) {
	setupHome(t)
	server := newPredictorServer(t, http.StatusOK, `{}`)

	output, err := executeCommand(t, "", "health", "--predictor-url", server.URL)
	require.NoError(t, err)

	assert.Contains(t, output, "Prediction service: "+server.URL)
	assert.Contains(t, output, "status:        healthy")
	assert.Contains(t, output, "model loaded:  true")
	assert.Contains(t, output, "OK")
}

func TestHealthNotReady(t *testing.T) {
	setupHome(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "healthy", "model_loaded": false, "scaler_loaded": true}`))
	}))
	defer server.Close()

	output, err := executeCommand(t, "", "health", "--predictor-url", server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not ready")
	assert.Contains(t, output, "model loaded:  false")
}

func TestHealthUnreachable(t *testing.T) {
	setupHome(t)
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := executeCommand(t, "", "health", "--predictor-url", url, "--timeout", "2s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health check failed")
}
