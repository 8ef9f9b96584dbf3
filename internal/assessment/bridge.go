// Package assessment hands a completed assessment from the submission flow to
// the result view through a storage.KV.
//
// Three keys are written on every successful submission: the two scalar keys
// the result view has always read, and a composite JSON record with the form
// snapshot and timestamp. Loading prefers the composite record and falls back
// to the scalars.
package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/cardiorisk/internal/logger"
	"github.com/harrison/cardiorisk/internal/models"
	"github.com/harrison/cardiorisk/internal/storage"
)

// Storage keys
const (
	KeyPrediction  = "prediction"
	KeyProbability = "probability"
	KeyResults     = "heartAssessmentResults"
)

// Recorder receives every persisted assessment, e.g. the history store.
type Recorder interface {
	Record(ctx context.Context, a *models.PersistedAssessment) error
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithRecorder attaches a history recorder.
func WithRecorder(r Recorder) Option {
	return func(b *Bridge) { b.recorder = r }
}

// WithLogger sets the logger used for history failures and debug output.
func WithLogger(l logger.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.log = l
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(b *Bridge) { b.now = now }
}

// Bridge persists and reloads the latest assessment.
type Bridge struct {
	kv       storage.KV
	recorder Recorder
	log      logger.Logger
	now      func() time.Time
	newID    func() string
}

// NewBridge creates a bridge over kv.
func NewBridge(kv storage.KV, opts ...Option) *Bridge {
	b := &Bridge{
		kv:    kv,
		log:   logger.NewNoOpLogger(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Persist stores the outcome of a submission, overwriting the previous one.
// The form is snapshotted, so later edits do not affect the stored record.
func (b *Bridge) Persist(ctx context.Context, form models.FormState, result models.PredictionResult) (*models.PersistedAssessment, error) {
	a := &models.PersistedAssessment{
		ID:          b.newID(),
		Prediction:  result.PredictionCode(),
		Probability: result.Confidence,
		Form:        form.Clone(),
		Timestamp:   b.now().UTC(),
	}

	blob, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode assessment: %w", err)
	}

	values := map[string]string{
		KeyPrediction:  strconv.Itoa(a.Prediction),
		KeyProbability: strconv.FormatFloat(a.Probability, 'f', -1, 64),
		KeyResults:     string(blob),
	}
	if err := storage.SetAll(b.kv, values); err != nil {
		return nil, fmt.Errorf("persist assessment: %w", err)
	}
	b.log.LogPersisted(a)

	if b.recorder != nil {
		if err := b.recorder.Record(ctx, a); err != nil {
			b.log.LogWarn(fmt.Sprintf("history: could not record assessment %s: %v", a.ID, err))
		}
	}
	return a, nil
}

// Load returns the most recently persisted assessment. It never fails:
// nothing stored, unreadable storage and unparseable values all report absent.
func (b *Bridge) Load() (*models.PersistedAssessment, bool) {
	if a, ok := b.loadComposite(); ok {
		return a, true
	}
	return b.loadScalars()
}

func (b *Bridge) loadComposite() (*models.PersistedAssessment, bool) {
	raw, ok, err := b.kv.Get(KeyResults)
	if err != nil {
		b.log.LogDebug(fmt.Sprintf("read %s: %v", KeyResults, err))
		return nil, false
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, false
	}

	var a models.PersistedAssessment
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		b.log.LogDebug(fmt.Sprintf("ignoring unreadable %s: %v", KeyResults, err))
		return nil, false
	}
	if !validPrediction(a.Prediction) || !validProbability(a.Probability) {
		b.log.LogDebug(fmt.Sprintf("ignoring %s with prediction=%d probability=%g", KeyResults, a.Prediction, a.Probability))
		return nil, false
	}
	if a.Form != nil {
		a.Form = a.Form.Clone()
	}
	return &a, true
}

func (b *Bridge) loadScalars() (*models.PersistedAssessment, bool) {
	rawPred, ok, err := b.kv.Get(KeyPrediction)
	if err != nil || !ok {
		return nil, false
	}
	pred, err := strconv.Atoi(strings.TrimSpace(rawPred))
	if err != nil || !validPrediction(pred) {
		return nil, false
	}

	a := &models.PersistedAssessment{Prediction: pred}
	if rawProb, ok, err := b.kv.Get(KeyProbability); err == nil && ok {
		if p, err := strconv.ParseFloat(strings.TrimSpace(rawProb), 64); err == nil && validProbability(p) {
			a.Probability = p
		}
	}
	return a, true
}

// validPrediction accepts only the two stored class codes.
func validPrediction(p int) bool {
	return p == models.PredictionLow || p == models.PredictionHigh
}

func validProbability(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0 && p <= 1
}
