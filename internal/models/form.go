package models

import "fmt"

// Form field names, in feature-vector order.
const (
	FieldAge          = "age"
	FieldGender       = "gender"
	FieldChestPain    = "chestPain"
	FieldRestingBP    = "restingBP"
	FieldCholesterol  = "cholesterol"
	FieldFastingBS    = "fastingBS"
	FieldECG          = "ecg"
	FieldMaxHR        = "maxHR"
	FieldAngina       = "angina"
	FieldSTDepression = "stDepression"
	FieldSlope        = "slope"
	FieldVessels      = "vessels"
	FieldThal         = "thal"
)

// FieldOrder is the fixed order in which form fields are encoded into a FeatureVector.
var FieldOrder = [FeatureCount]string{
	FieldAge,
	FieldGender,
	FieldChestPain,
	FieldRestingBP,
	FieldCholesterol,
	FieldFastingBS,
	FieldECG,
	FieldMaxHR,
	FieldAngina,
	FieldSTDepression,
	FieldSlope,
	FieldVessels,
	FieldThal,
}

// FeatureCount is the number of features the predictor expects.
const FeatureCount = 13

// FeatureVector is the ordered numeric encoding of a FormState.
type FeatureVector [FeatureCount]float64

// FormState maps field name to the raw value entered by the user.
// A FormState built with NewFormState always carries all 13 keys.
type FormState map[string]string

// NewFormState returns a FormState with every field present and empty.
func NewFormState() FormState {
	form := make(FormState, FeatureCount)
	for _, name := range FieldOrder {
		form[name] = ""
	}
	return form
}

// IsField reports whether name is one of the 13 form fields.
func IsField(name string) bool {
	for _, f := range FieldOrder {
		if f == name {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the form, normalized to carry all 13 keys.
// Keys that are not form fields are dropped.
func (f FormState) Clone() FormState {
	out := NewFormState()
	for _, name := range FieldOrder {
		out[name] = f[name]
	}
	return out
}

// Set assigns value to a known field.
func (f FormState) Set(name, value string) error {
	if !IsField(name) {
		return fmt.Errorf("unknown form field %q", name)
	}
	f[name] = value
	return nil
}
