package predictor

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed prediction call.
type ErrorKind string

const (
	KindNetwork           ErrorKind = "network"
	KindHTTPStatus        ErrorKind = "http_status"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindMalformedRequest  ErrorKind = "malformed_request"
)

// Error is the cause attached to a PredictionResult labelled Error.
type Error struct {
	Kind       ErrorKind
	StatusCode int    // set for KindHTTPStatus
	Detail     string // server supplied message, if any
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		if e.Detail != "" {
			return fmt.Sprintf("prediction service returned HTTP %d: %s", e.StatusCode, e.Detail)
		}
		return fmt.Sprintf("prediction service returned HTTP %d", e.StatusCode)
	case KindNetwork:
		return fmt.Sprintf("prediction service unreachable: %v", e.Err)
	case KindMalformedResponse:
		return fmt.Sprintf("prediction service sent an unreadable response: %v", e.Err)
	default:
		return fmt.Sprintf("prediction request failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of err, or "" if err is not a predictor error.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
