package wizard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownField is returned when setting a field that is not part of the form.
	ErrUnknownField = errors.New("unknown form field")
	// ErrNotOnFinalStep is returned by Submit before the last step is reached.
	ErrNotOnFinalStep = errors.New("submit is only available on the final step")
	// ErrSubmitInProgress is returned by Submit while another submission is outstanding.
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	// ErrSessionReset is returned by a submission whose session was reset while it ran.
	ErrSessionReset = errors.New("assessment was reset during submission")
)

// StepIncompleteError lists the required fields still empty on a step.
type StepIncompleteError struct {
	Step    int
	Missing []string
}

func (e *StepIncompleteError) Error() string {
	return fmt.Sprintf("step %d is incomplete: missing %s", e.Step, strings.Join(e.Missing, ", "))
}

// Stage names the part of the submission pipeline that failed.
type Stage string

// Submission stages, in pipeline order
const (
	StageEncode  Stage = "encode"
	StagePredict Stage = "predict"
	StagePersist Stage = "persist"
)

// SubmitError reports a failed submission and the stage it failed in.
type SubmitError struct {
	Stage Stage
	Err   error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit failed at %s: %v", e.Stage, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
