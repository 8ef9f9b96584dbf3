package features

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/harrison/cardiorisk/internal/models"
)

// Range is an inclusive numeric bound for a form field.
type Range struct {
	Min  float64
	Max  float64
	Unit string
}

// Ranges holds the clinical input bounds shown next to the numeric form widgets.
var Ranges = map[string]Range{
	models.FieldAge:          {Min: 1, Max: 120, Unit: "years"},
	models.FieldRestingBP:    {Min: 50, Max: 250, Unit: "mmHg"},
	models.FieldCholesterol:  {Min: 100, Max: 600, Unit: "mg/dl"},
	models.FieldMaxHR:        {Min: 60, Max: 220, Unit: "bpm"},
	models.FieldSTDepression: {Min: 0, Max: 10},
	models.FieldVessels:      {Min: 0, Max: 4},
}

// RangeViolation is a numeric field whose value lies outside its Range.
type RangeViolation struct {
	Field string
	Value float64
	Range Range
}

func (v RangeViolation) String() string {
	unit := ""
	if v.Range.Unit != "" {
		unit = " " + v.Range.Unit
	}
	return fmt.Sprintf("%s = %s is outside %s-%s%s",
		v.Field, formatNumber(v.Value), formatNumber(v.Range.Min), formatNumber(v.Range.Max), unit)
}

// RangeError wraps the violations found when range checking is enforced.
type RangeError struct {
	Violations []RangeViolation
}

func (e *RangeError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Is makes a RangeError match ErrInvalidInput.
func (e *RangeError) Is(target error) bool {
	return target == ErrInvalidInput
}

// CheckRanges reports numeric fields outside their bounds, in field order.
// Empty or non-numeric fields are skipped; Encode reports those.
func CheckRanges(form models.FormState) []RangeViolation {
	var out []RangeViolation
	for _, name := range models.FieldOrder {
		r, ok := Ranges[name]
		if !ok {
			continue
		}
		v, ok := parseFinite(form[name])
		if !ok {
			continue
		}
		if v < r.Min || v > r.Max {
			out = append(out, RangeViolation{Field: name, Value: v, Range: r})
		}
	}
	return out
}

// CheckField reports whether a single value lies within its field's bounds.
// Fields without bounds and unparsable values are accepted.
func CheckField(name, value string) (RangeViolation, bool) {
	r, ok := Ranges[name]
	if !ok {
		return RangeViolation{}, true
	}
	v, ok := parseFinite(value)
	if !ok {
		return RangeViolation{}, true
	}
	if v < r.Min || v > r.Max {
		return RangeViolation{Field: name, Value: v, Range: r}, false
	}
	return RangeViolation{}, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
