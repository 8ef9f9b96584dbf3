// Package wizard implements the five-step assessment form: field edits,
// per-step gating of forward navigation, and the submit pipeline
// (encode, predict, persist).
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/harrison/cardiorisk/internal/features"
	"github.com/harrison/cardiorisk/internal/logger"
	"github.com/harrison/cardiorisk/internal/models"
	"github.com/harrison/cardiorisk/internal/predictor"
)

// Persister stores a completed assessment.
type Persister interface {
	Persist(ctx context.Context, form models.FormState, result models.PredictionResult) (*models.PersistedAssessment, error)
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithStrictRanges makes Submit fail when a numeric field is outside its bounds.
func WithStrictRanges(strict bool) Option {
	return func(w *Wizard) { w.strictRanges = strict }
}

// WithLogger sets the logger for navigation and prediction events.
func WithLogger(l logger.Logger) Option {
	return func(w *Wizard) {
		if l != nil {
			w.log = l
		}
	}
}

// Wizard holds one assessment session. It is safe for concurrent use.
type Wizard struct {
	mu         sync.Mutex
	step       int
	form       models.FormState
	submitting bool
	session    uint64 // bumped by Reset

	predictor    predictor.Predictor
	persister    Persister
	strictRanges bool
	log          logger.Logger
}

// New starts a session on step 1 with an empty form.
func New(p predictor.Predictor, persister Persister, opts ...Option) *Wizard {
	w := &Wizard{
		step:      1,
		form:      models.NewFormState(),
		predictor: p,
		persister: persister,
		log:       logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Step returns the current step number (1-5).
func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Submitting reports whether a submission is in flight.
func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Form returns a copy of the current form.
func (w *Wizard) Form() models.FormState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.Clone()
}

// Definition returns the definition of the current step.
func (w *Wizard) Definition() StepDefinition {
	def, _ := Step(w.Step())
	return def
}

// Progress returns the completion percentage shown for the current step.
func (w *Wizard) Progress() int {
	return w.Step() * 100 / StepCount
}

// SetField records a value. It is never gated by step or validity.
func (w *Wizard) SetField(name, value string) error {
	if !models.IsField(name) {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form[name] = value
	return nil
}

// StepValid reports whether every required field of the current step is filled.
func (w *Wizard) StepValid() bool {
	return len(w.Missing()) == 0
}

// Missing returns the required fields of the current step that are empty.
func (w *Wizard) Missing() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return MissingFields(w.step, w.form)
}

// Next advances one step when the current step is complete.
// On the final step it is a no-op.
func (w *Wizard) Next() error {
	w.mu.Lock()
	if missing := MissingFields(w.step, w.form); len(missing) > 0 {
		step := w.step
		w.mu.Unlock()
		return &StepIncompleteError{Step: step, Missing: missing}
	}
	if w.step < StepCount {
		w.step++
	}
	step := w.step
	w.mu.Unlock()

	w.logStep(step)
	return nil
}

// Prev goes back one step, stopping at step 1.
func (w *Wizard) Prev() {
	w.mu.Lock()
	if w.step > 1 {
		w.step--
	}
	step := w.step
	w.mu.Unlock()

	w.logStep(step)
}

// Reset starts a new session: step 1, empty form. A submission still in
// flight keeps the in-progress flag until it returns, and its result is
// discarded with ErrSessionReset instead of being persisted.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step = 1
	w.form = models.NewFormState()
	w.session++
}

func (w *Wizard) logStep(step int) {
	def, _ := Step(step)
	w.log.LogStep(step, StepCount, def.Title)
}

// Submit runs encode, predict and persist in sequence. It is allowed only on
// the final step, with that step complete and no other submission in flight.
// On failure the session is left as it was so the user can retry.
func (w *Wizard) Submit(ctx context.Context) (*models.PersistedAssessment, error) {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	if w.step != StepCount {
		w.mu.Unlock()
		return nil, ErrNotOnFinalStep
	}
	if missing := MissingFields(w.step, w.form); len(missing) > 0 {
		w.mu.Unlock()
		return nil, &StepIncompleteError{Step: w.step, Missing: missing}
	}
	w.submitting = true
	form := w.form.Clone()
	session := w.session
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	return w.runPipeline(ctx, form, session)
}

// current reports whether session is still the active one.
func (w *Wizard) current(session uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session == session
}

func (w *Wizard) runPipeline(ctx context.Context, form models.FormState, session uint64) (*models.PersistedAssessment, error) {
	vec, err := features.Encode(form)
	if err != nil {
		return nil, &SubmitError{Stage: StageEncode, Err: err}
	}
	if violations := features.CheckRanges(form); len(violations) > 0 {
		if w.strictRanges {
			return nil, &SubmitError{Stage: StageEncode, Err: &features.RangeError{Violations: violations}}
		}
		for _, v := range violations {
			w.log.LogWarn("unusual value: " + v.String())
		}
	}

	start := time.Now()
	result := w.predictor.Predict(ctx, vec)
	w.log.LogPrediction(result, time.Since(start))
	if result.Failed() {
		cause := result.Err
		if cause == nil {
			cause = errors.New("prediction service returned no result")
		}
		return nil, &SubmitError{Stage: StagePredict, Err: cause}
	}

	if !w.current(session) {
		return nil, &SubmitError{Stage: StagePersist, Err: ErrSessionReset}
	}
	a, err := w.persister.Persist(ctx, form, result)
	if err != nil {
		return nil, &SubmitError{Stage: StagePersist, Err: err}
	}
	return a, nil
}
