package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/harrison/cardiorisk/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown renders the report as a Markdown document.
func Markdown(r Report) string {
	var b strings.Builder

	b.WriteString("# Heart Risk Assessment\n\n")
	b.WriteString("## Your Heart Risk Level: " + string(r.Level) + "\n\n")
	b.WriteString(r.Advice + "\n\n")
	b.WriteString(fmt.Sprintf("**Confidence Score:** %d%%\n\n", r.Confidence))
	if !r.GeneratedAt.IsZero() {
		b.WriteString("*Assessed " + r.GeneratedAt.UTC().Format("2006-01-02 15:04 MST") + "*\n\n")
	}

	if len(r.Form) > 0 {
		b.WriteString("## Your Answers\n\n")
		b.WriteString("| Question | Answer |\n|---|---|\n")
		for _, name := range models.FieldOrder {
			label, value := describeAnswer(name, r.Form[name])
			b.WriteString("| " + escapeCell(label) + " | " + escapeCell(value) + " |\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Recommendations\n\n")
	for _, rec := range r.Recommendations {
		b.WriteString("- **" + rec.Title + "**: " + rec.Text + "\n")
	}
	return b.String()
}

// RenderHTML writes a standalone HTML page for the report.
func RenderHTML(w io.Writer, r Report) error {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(r)), &body); err != nil {
		return fmt.Errorf("convert report to HTML: %w", err)
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body class="tone-%s">
%s</body>
</html>
`, html.EscapeString("Heart Risk Assessment: "+string(r.Level)), r.Tone, body.String())

	if _, err := io.WriteString(w, page); err != nil {
		return fmt.Errorf("write HTML report: %w", err)
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
