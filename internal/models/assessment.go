package models

import "time"

// RiskLabel is the categorical output of a prediction call.
type RiskLabel string

// Prediction labels
const (
	LabelLowRisk  RiskLabel = "Low Risk"
	LabelHighRisk RiskLabel = "High Risk"
	LabelError    RiskLabel = "Error"
)

// Prediction codes stored for a persisted assessment
const (
	PredictionLow  = 0
	PredictionHigh = 1
)

// PredictionResult is the normalized outcome of one call to the predictor.
type PredictionResult struct {
	Label      RiskLabel // LowRisk, HighRisk or Error
	Confidence float64   // Probability in [0,1]; 0 when Label is Error
	Err        error     // Cause when Label is Error, nil otherwise
}

// Failed reports whether the prediction call did not produce a usable label.
func (r PredictionResult) Failed() bool {
	return r.Label == LabelError
}

// PredictionCode converts the label into the stored 0/1 code.
func (r PredictionResult) PredictionCode() int {
	if r.Label == LabelHighRisk {
		return PredictionHigh
	}
	return PredictionLow
}

// PersistedAssessment is the record handed from the submission flow to the result view.
type PersistedAssessment struct {
	ID          string    `json:"id,omitempty"`
	Prediction  int       `json:"prediction"`
	Probability float64   `json:"probability"`
	Form        FormState `json:"formData"`
	Timestamp   time.Time `json:"timestamp"`
}

// HighRisk reports whether the stored prediction is the high risk class.
func (a *PersistedAssessment) HighRisk() bool {
	return a != nil && a.Prediction == PredictionHigh
}
