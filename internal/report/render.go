package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/harrison/cardiorisk/internal/models"
	"github.com/harrison/cardiorisk/internal/wizard"
)

const barWidth = 30

// Render prints the result card. colorOutput enables ANSI colors.
func Render(w io.Writer, r Report, colorOutput bool) error {
	bold := newColor(colorOutput, color.Bold)
	accent := newColor(colorOutput, toneAttribute(r.Tone), color.Bold)
	dim := newColor(colorOutput, color.FgHiBlack)

	var b strings.Builder
	rule := strings.Repeat("-", 60)

	b.WriteString("\n" + bold.Sprint("Your Heart Risk Level") + "\n")
	b.WriteString(rule + "\n")
	b.WriteString("  " + accent.Sprint(string(r.Level)) + "\n\n")
	b.WriteString(wrap(r.Advice, 58, "  ") + "\n\n")
	b.WriteString(fmt.Sprintf("  Confidence Score  %s %d%%\n", confidenceBar(r.Confidence, accent), r.Confidence))

	if !r.GeneratedAt.IsZero() {
		b.WriteString(dim.Sprintf("  Assessed %s", r.GeneratedAt.Local().Format("2006-01-02 15:04")) + "\n")
	}

	if len(r.Form) > 0 {
		b.WriteString("\n" + bold.Sprint("Your Answers") + "\n")
		for _, line := range answerLines(r.Form) {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n" + bold.Sprint("Recommendations") + "\n")
	for _, rec := range r.Recommendations {
		b.WriteString("  * " + bold.Sprint(rec.Title) + "\n")
		b.WriteString(wrap(rec.Text, 56, "    ") + "\n")
	}
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func newColor(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func toneAttribute(t Tone) color.Attribute {
	switch t {
	case ToneHigh:
		return color.FgRed
	case ToneLow:
		return color.FgGreen
	default:
		return color.FgHiBlack
	}
}

func confidenceBar(percent int, c *color.Color) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * barWidth / 100
	return "[" + c.Sprint(strings.Repeat("#", filled)) + strings.Repeat(".", barWidth-filled) + "]"
}

// answerLines lists the form answers in field order using widget labels.
func answerLines(form models.FormState) []string {
	lines := make([]string, 0, len(models.FieldOrder))
	for _, name := range models.FieldOrder {
		label, value := describeAnswer(name, form[name])
		lines = append(lines, fmt.Sprintf("%-36s %s", label+":", value))
	}
	return lines
}

func describeAnswer(name, value string) (string, string) {
	spec, ok := wizard.Field(name)
	if !ok {
		return name, value
	}
	if value == "" {
		return spec.Label, "-"
	}
	if spec.Kind == wizard.KindChoice {
		return spec.Label, spec.ChoiceLabel(value)
	}
	return spec.Label, value
}

// wrap breaks text into lines of at most width runes, each prefixed with indent.
func wrap(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, indent+line)
			line = word
			continue
		}
		line += " " + word
	}
	lines = append(lines, indent+line)
	return strings.Join(lines, "\n")
}
