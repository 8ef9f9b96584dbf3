// Package report derives the result view of an assessment and renders it for
// the terminal or as a shareable HTML page.
package report

import (
	"math"
	"time"

	"github.com/harrison/cardiorisk/internal/models"
)

// Level is the headline risk level.
type Level string

const (
	LevelUnknown Level = "Unknown"
	LevelHigh    Level = "High Risk"
	LevelLow     Level = "Low Risk"
)

// Tone selects the accent color of the result view.
type Tone string

const (
	ToneUnknown Tone = "unknown"
	ToneHigh    Tone = "high"
	ToneLow     Tone = "low"
)

// Advice texts, keyed by level.
const (
	AdviceHigh    = "Your assessment indicates a high risk of heart disease. It's advisable to consult with a healthcare professional for further evaluation and guidance."
	AdviceLow     = "Your assessment indicates a low risk of heart disease. Continue maintaining a healthy lifestyle and regular checkups."
	AdviceUnknown = "Please consult with a healthcare professional for proper evaluation."
)

// Recommendation is one fixed advice card.
type Recommendation struct {
	Title string
	Text  string
}

// Recommendations are shown for every result.
var Recommendations = []Recommendation{
	{
		Title: "Consult a Doctor",
		Text:  "Consider scheduling an appointment with a cardiologist for a comprehensive check-up and personalized advice.",
	},
	{
		Title: "Regular Checkups",
		Text:  "Maintain regular check-ups and follow a heart-healthy lifestyle.",
	},
}

// Report is everything the result view shows.
type Report struct {
	ID              string
	Level           Level
	Tone            Tone
	Advice          string
	Confidence      int // percent
	Recommendations []Recommendation
	GeneratedAt     time.Time        // zero when unknown
	Form            models.FormState // nil when unknown
}

// Known reports whether the report describes a stored assessment.
func (r Report) Known() bool {
	return r.Level != LevelUnknown
}

// Derive builds the report for a persisted assessment. A nil assessment
// yields the Unknown report.
func Derive(a *models.PersistedAssessment) Report {
	r := Report{
		Level:           LevelUnknown,
		Tone:            ToneUnknown,
		Advice:          AdviceUnknown,
		Recommendations: Recommendations,
	}
	if a == nil {
		return r
	}

	if a.HighRisk() {
		r.Level, r.Tone, r.Advice = LevelHigh, ToneHigh, AdviceHigh
	} else {
		r.Level, r.Tone, r.Advice = LevelLow, ToneLow, AdviceLow
	}
	r.Confidence = ConfidencePercent(a.Probability)
	r.ID = a.ID
	r.GeneratedAt = a.Timestamp
	if a.Form != nil {
		r.Form = a.Form.Clone()
	}
	return r
}

// ConfidencePercent converts a probability to a rounded percentage.
// Halves round away from zero.
func ConfidencePercent(p float64) int {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return int(math.Round(p * 100))
}
