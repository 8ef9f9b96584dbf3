package wizard

import (
	"slices"

	"github.com/harrison/cardiorisk/internal/models"
)

// StepCount is the number of wizard steps.
const StepCount = 5

// WidgetKind is how a field is entered.
type WidgetKind string

// Widget kinds
const (
	KindNumber WidgetKind = "number"
	KindChoice WidgetKind = "choice"
)

// Choice is one selectable value of a choice widget.
type Choice struct {
	Value string
	Label string
}

// FieldSpec describes how a single form field is presented.
// Min, Max and Step are hints for number widgets and are not enforced here.
type FieldSpec struct {
	Name        string
	Label       string
	Kind        WidgetKind
	Choices     []Choice
	Placeholder string
	Min         float64
	Max         float64
	Step        float64
}

// HasChoice reports whether value is one of the widget's choices.
func (f FieldSpec) HasChoice(value string) bool {
	for _, c := range f.Choices {
		if c.Value == value {
			return true
		}
	}
	return false
}

// ChoiceLabel returns the display label for value, or value itself.
func (f FieldSpec) ChoiceLabel(value string) string {
	for _, c := range f.Choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}

// StepDefinition is the static description of one wizard step.
type StepDefinition struct {
	Number   int
	Title    string
	Subtitle string
	Required []string
	Fields   []FieldSpec
}

var yesNo = []Choice{{"1", "Yes"}, {"0", "No"}}

var steps = [StepCount]StepDefinition{
	{
		Number:   1,
		Title:    "Basic Information",
		Subtitle: "Tell us about yourself",
		Required: []string{models.FieldAge, models.FieldGender},
		Fields: []FieldSpec{
			{Name: models.FieldAge, Label: "What's your age?", Kind: KindNumber, Placeholder: "Enter your age", Min: 1, Max: 120, Step: 1},
			{Name: models.FieldGender, Label: "Gender", Kind: KindChoice, Choices: []Choice{{"1", "Male"}, {"0", "Female"}}},
		},
	},
	{
		Number:   2,
		Title:    "Symptoms & Pain",
		Subtitle: "Help us understand your symptoms",
		Required: []string{models.FieldChestPain, models.FieldAngina},
		Fields: []FieldSpec{
			{Name: models.FieldChestPain, Label: "Chest Pain Type", Kind: KindChoice, Choices: []Choice{
				{"0", "Typical Angina"},
				{"1", "Atypical Angina"},
				{"2", "Non-anginal Pain"},
				{"3", "Asymptomatic"},
			}},
			{Name: models.FieldAngina, Label: "Exercise Induced Angina", Kind: KindChoice, Choices: yesNo},
		},
	},
	{
		Number:   3,
		Title:    "Vital Signs",
		Subtitle: "Your basic health metrics",
		Required: []string{models.FieldRestingBP, models.FieldCholesterol, models.FieldFastingBS},
		Fields: []FieldSpec{
			{Name: models.FieldRestingBP, Label: "Resting Blood Pressure (mmHg)", Kind: KindNumber, Placeholder: "e.g., 120", Min: 50, Max: 250, Step: 1},
			{Name: models.FieldCholesterol, Label: "Cholesterol (mg/dl)", Kind: KindNumber, Placeholder: "e.g., 200", Min: 100, Max: 600, Step: 1},
			{Name: models.FieldFastingBS, Label: "Fasting Blood Sugar > 120 mg/dl", Kind: KindChoice, Choices: yesNo},
		},
	},
	{
		Number:   4,
		Title:    "Heart Activity",
		Subtitle: "Heart function measurements",
		Required: []string{models.FieldECG, models.FieldMaxHR, models.FieldSTDepression},
		Fields: []FieldSpec{
			{Name: models.FieldECG, Label: "Resting ECG Results", Kind: KindChoice, Choices: []Choice{
				{"0", "Normal"},
				{"1", "ST-T Abnormality"},
				{"2", "Left Ventricular Hypertrophy"},
			}},
			{Name: models.FieldMaxHR, Label: "Maximum Heart Rate Achieved", Kind: KindNumber, Placeholder: "e.g., 150", Min: 60, Max: 220, Step: 1},
			{Name: models.FieldSTDepression, Label: "ST Depression", Kind: KindNumber, Placeholder: "e.g., 1.5", Min: 0, Max: 10, Step: 0.1},
		},
	},
	{
		Number:   5,
		Title:    "Advanced Tests",
		Subtitle: "Final specialized measurements",
		Required: []string{models.FieldSlope, models.FieldVessels, models.FieldThal},
		Fields: []FieldSpec{
			{Name: models.FieldSlope, Label: "Slope of Peak Exercise ST Segment", Kind: KindChoice, Choices: []Choice{
				{"0", "Upsloping"},
				{"1", "Flat"},
				{"2", "Downsloping"},
			}},
			{Name: models.FieldVessels, Label: "Major Vessels (Fluoroscopy)", Kind: KindNumber, Placeholder: "0-4", Min: 0, Max: 4, Step: 1},
			{Name: models.FieldThal, Label: "Thalassemia Type", Kind: KindChoice, Choices: []Choice{
				{"1", "Normal"},
				{"2", "Fixed Defect"},
				{"3", "Reversible Defect"},
			}},
		},
	},
}

// Step returns the definition of step n (1-based). The result is a copy;
// changing it does not affect the step table.
func Step(n int) (StepDefinition, bool) {
	if n < 1 || n > StepCount {
		return StepDefinition{}, false
	}
	return steps[n-1].clone(), true
}

// Steps returns copies of all step definitions in order.
func Steps() []StepDefinition {
	out := make([]StepDefinition, StepCount)
	for i, def := range steps {
		out[i] = def.clone()
	}
	return out
}

// Field returns a copy of the widget spec for a form field.
func Field(name string) (FieldSpec, bool) {
	for _, s := range steps {
		for _, f := range s.Fields {
			if f.Name == name {
				return f.clone(), true
			}
		}
	}
	return FieldSpec{}, false
}

func (d StepDefinition) clone() StepDefinition {
	d.Required = slices.Clone(d.Required)
	fields := make([]FieldSpec, len(d.Fields))
	for i, f := range d.Fields {
		fields[i] = f.clone()
	}
	d.Fields = fields
	return d
}

func (f FieldSpec) clone() FieldSpec {
	f.Choices = slices.Clone(f.Choices)
	return f
}

// MissingFields returns the required fields of step n that are empty in form.
func MissingFields(n int, form models.FormState) []string {
	def, ok := Step(n)
	if !ok {
		return nil
	}
	var missing []string
	for _, name := range def.Required {
		if form[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
