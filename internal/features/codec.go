// Package features encodes a wizard form into the numeric feature vector
// consumed by the risk predictor.
package features

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/harrison/cardiorisk/internal/models"
)

// ErrInvalidInput is matched by every encoding failure.
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes one field that failed to parse.
type FieldError struct {
	Field string
	Value string
}

// InvalidInputError lists every field that could not be parsed to a finite number.
type InvalidInputError struct {
	Fields []FieldError
}

func (e *InvalidInputError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		if f.Value == "" {
			names[i] = f.Field + " (empty)"
		} else {
			names[i] = fmt.Sprintf("%s (%q)", f.Field, f.Value)
		}
	}
	return fmt.Sprintf("invalid input: non-numeric values in %s", strings.Join(names, ", "))
}

// Is makes errors.Is(err, ErrInvalidInput) true for any InvalidInputError.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// FieldNames returns the names of the offending fields.
func (e *InvalidInputError) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return names
}

// Encode parses every form field, in models.FieldOrder, into a FeatureVector.
// Domain ranges are not checked here; see CheckRanges.
func Encode(form models.FormState) (models.FeatureVector, error) {
	var vec models.FeatureVector
	var bad []FieldError

	for i, name := range models.FieldOrder {
		raw := form[name]
		value, ok := parseFinite(raw)
		if !ok {
			bad = append(bad, FieldError{Field: name, Value: raw})
			continue
		}
		vec[i] = value
	}

	if len(bad) > 0 {
		return models.FeatureVector{}, &InvalidInputError{Fields: bad}
	}
	return vec, nil
}

// parseFinite parses s as a float64, rejecting empty strings, NaN and infinities.
func parseFinite(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Slice returns the vector as a slice for JSON encoding.
func Slice(vec models.FeatureVector) []float64 {
	out := make([]float64, len(vec))
	copy(out, vec[:])
	return out
}
