// Package predictor provides a client for the external heart disease risk
// prediction service.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/harrison/cardiorisk/internal/features"
	"github.com/harrison/cardiorisk/internal/models"
)

// predictRequest is the JSON body sent to the /predict endpoint.
type predictRequest struct {
	Features []float64 `json:"features"`
}

// predictResponse is the subset of the /predict response the client reads.
type predictResponse struct {
	Prediction      *float64 `json:"prediction"`
	RiskProbability *float64 `json:"risk_probability"`
}

// Health is the /health response of the prediction service.
type Health struct {
	Status       string `json:"status"`
	ModelLoaded  bool   `json:"model_loaded"`
	ScalerLoaded bool   `json:"scaler_loaded"`
}

// Healthy reports whether the service is up with its model and scaler loaded.
func (h *Health) Healthy() bool {
	return h != nil && h.Status == "healthy" && h.ModelLoaded && h.ScalerLoaded
}

// Predictor turns a feature vector into a risk prediction.
type Predictor interface {
	Predict(ctx context.Context, vec models.FeatureVector) models.PredictionResult
}

// Client calls the prediction service over HTTP. Each Predict call makes
// exactly one request; there is no retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL.
// A zero timeout waits for the service indefinitely.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Predict sends the feature vector to the service and normalizes the outcome.
// Transport failures, non-2xx statuses and undecodable bodies all yield a
// result labelled Error with zero confidence and Err describing the failure.
func (c *Client) Predict(ctx context.Context, vec models.FeatureVector) models.PredictionResult {
	resp, err := c.callPredict(ctx, vec)
	if err != nil {
		return models.PredictionResult{Label: models.LabelError, Confidence: 0, Err: err}
	}

	result := models.PredictionResult{Label: models.LabelLowRisk}
	if resp.Prediction != nil && *resp.Prediction == 1 {
		result.Label = models.LabelHighRisk
	}
	if resp.RiskProbability != nil {
		result.Confidence = *resp.RiskProbability
	}
	return result
}

func (c *Client) callPredict(ctx context.Context, vec models.FeatureVector) (*predictResponse, error) {
	body, err := json.Marshal(predictRequest{Features: features.Slice(vec)})
	if err != nil {
		return nil, &Error{Kind: KindMalformedRequest, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindMalformedRequest, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: KindHTTPStatus, StatusCode: resp.StatusCode, Detail: serverMessage(data)}
	}

	// null, arrays and scalars decode into the struct without error
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return nil, &Error{Kind: KindMalformedResponse, Err: fmt.Errorf("expected a JSON object, got %q", truncate(data, 40))}
	}
	var out predictResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Err: err}
	}
	if p := out.RiskProbability; p != nil && (*p < 0 || *p > 1) {
		return nil, &Error{Kind: KindMalformedResponse, Err: fmt.Errorf("risk_probability %v is outside [0, 1]", *p)}
	}
	return &out, nil
}

func truncate(data []byte, n int) string {
	s := strings.TrimSpace(string(data))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

// serverMessage extracts the service's {"error": "..."} message, if any.
func serverMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}

// CheckHealth queries the service's /health endpoint.
func (c *Client) CheckHealth(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, &Error{Kind: KindMalformedRequest, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: KindHTTPStatus, StatusCode: resp.StatusCode, Detail: serverMessage(data)}
	}

	var health Health
	if err := json.Unmarshal(data, &health); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Err: err}
	}
	return &health, nil
}
