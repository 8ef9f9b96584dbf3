package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harrison/cardiorisk/internal/assessment"
	"github.com/harrison/cardiorisk/internal/display"
	"github.com/harrison/cardiorisk/internal/features"
	"github.com/harrison/cardiorisk/internal/models"
	"github.com/harrison/cardiorisk/internal/report"
	"github.com/harrison/cardiorisk/internal/wizard"
	"github.com/spf13/cobra"
)

// errQuit ends the interactive session without an error exit.
var errQuit = errors.New("assessment cancelled")

// NewAssessCommand creates the assess command
func NewAssessCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Take the heart risk assessment",
		Long: `Walks through the five assessment steps, submits the answers to the
prediction service and shows the result.

At any prompt:
  Enter   keep the current answer
  b       go back one step
  q       quit

With --answers, fields are pre-filled from a YAML file mapping field
names (age, gender, chestPain, ...) to values. Add --batch to submit
the pre-filled answers without prompting.`,
		Args: cobra.NoArgs,
		RunE: runAssessCommand,
	}

	cmd.Flags().String("answers", "", "YAML file with pre-filled answers")
	cmd.Flags().Bool("batch", false, "Submit the --answers file without prompting")

	return cmd
}

func runAssessCommand(cmd *cobra.Command, args []string) error {
	answersPath, _ := cmd.Flags().GetString("answers")
	batch, _ := cmd.Flags().GetBool("batch")
	if batch && answersPath == "" {
		return fmt.Errorf("--batch requires --answers")
	}

	var answers map[string]string
	if answersPath != "" {
		var err error
		if answers, err = loadAnswers(answersPath); err != nil {
			return err
		}
	}

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	w := wizard.New(rt.client, rt.bridge,
		wizard.WithStrictRanges(rt.cfg.StrictRanges),
		wizard.WithLogger(rt.log),
	)
	for name, value := range answers {
		if err := w.SetField(name, value); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	s := &assessSession{
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		in:     newLineReader(cmd.InOrStdin()),
		wizard: w,
		bridge: rt.bridge,
		header: display.NewStepHeader(cmd.OutOrStdout(), wizard.StepCount),
		color:  colorEnabled(cmd.OutOrStdout()),
		strict: rt.cfg.StrictRanges,
	}
	if batch {
		return s.runBatch(ctx)
	}
	return s.runInteractive(ctx)
}

// assessSession drives one wizard from a line-oriented terminal.
type assessSession struct {
	out    io.Writer
	errOut io.Writer
	in     LineReader
	wizard *wizard.Wizard
	bridge *assessment.Bridge
	header *display.StepHeader
	color  bool
	strict bool
}

func (s *assessSession) runBatch(ctx context.Context) error {
	for s.wizard.Step() < wizard.StepCount {
		if err := s.wizard.Next(); err != nil {
			display.SubmitWarning(err).Display(s.errOut)
			return err
		}
	}
	if err := s.submit(ctx); err != nil {
		display.SubmitWarning(err).Display(s.errOut)
		return err
	}
	return showResult(s.out, s.bridge, s.color)
}

func (s *assessSession) runInteractive(ctx context.Context) error {
	for {
		if err := s.collect(ctx); err != nil {
			if errors.Is(err, errQuit) {
				fmt.Fprintln(s.out, "\nAssessment cancelled.")
				return nil
			}
			return err
		}

		display.Complete(s.out, "Assessment saved")
		// The result view reads back from storage, like `cardiorisk result`.
		if err := showResult(s.out, s.bridge, s.color); err != nil {
			return err
		}

		again, err := s.confirm("Take another assessment? [y/N]: ")
		if err != nil || !again {
			return nil
		}
		s.wizard.Reset()
	}
}

// collect walks the steps until a submission succeeds.
func (s *assessSession) collect(ctx context.Context) error {
	for {
		def := s.wizard.Definition()
		s.header.Show(def.Number, def.Title, def.Subtitle)

		back, err := s.askStep(def)
		if err != nil {
			return err
		}
		if back {
			s.wizard.Prev()
			continue
		}

		if def.Number < wizard.StepCount {
			if err := s.wizard.Next(); err != nil {
				display.SubmitWarning(err).Display(s.out)
			}
			continue
		}

		if !s.strict {
			if violations := features.CheckRanges(s.wizard.Form()); len(violations) > 0 {
				display.RangeWarning(violations).Display(s.out)
			}
		}

		fmt.Fprintln(s.out, "Submitting...")
		if err := s.submit(ctx); err != nil {
			display.SubmitWarning(err).Display(s.out)
			if errors.Is(err, context.Canceled) {
				return errQuit
			}
			fmt.Fprintln(s.out, "Press Enter to keep an answer, b to go back, q to quit.")
			continue
		}
		return nil
	}
}

// submit runs one submission; Ctrl-C cancels the outstanding prediction call.
func (s *assessSession) submit(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	_, err := s.wizard.Submit(ctx)
	return err
}

// askStep prompts for every field of def. It returns back=true when the
// user asked to go to the previous step.
func (s *assessSession) askStep(def wizard.StepDefinition) (bool, error) {
	prompt := color.New(color.FgCyan)
	if s.color {
		prompt.EnableColor()
	} else {
		prompt.DisableColor()
	}

	for _, field := range def.Fields {
		for {
			current := s.wizard.Form()[field.Name]
			prompt.Fprint(s.out, promptText(field, current))

			line, err := readLine(s.in)
			if err == io.EOF {
				return false, errQuit
			}
			if err != nil {
				return false, fmt.Errorf("failed to read input: %w", err)
			}

			switch strings.ToLower(line) {
			case "q", "quit":
				return false, errQuit
			case "b", "back":
				return true, nil
			case "":
				// keep the current value, even if empty; Next reports what is missing
			default:
				value, ok := normalizeAnswer(field, line)
				if !ok {
					fmt.Fprintf(s.out, "  Choose one of: %s\n", choiceList(field))
					continue
				}
				if err := s.wizard.SetField(field.Name, value); err != nil {
					return false, err
				}
				s.noteValue(field, value)
			}
			break
		}
	}
	return false, nil
}

func (s *assessSession) noteValue(field wizard.FieldSpec, value string) {
	if field.Kind != wizard.KindNumber {
		return
	}
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		fmt.Fprintf(s.out, "  Note: %q is not a number and will be rejected on submit\n", value)
		return
	}
	if v, ok := features.CheckField(field.Name, value); !ok {
		fmt.Fprintf(s.out, "  Note: %s\n", v)
	}
}

func (s *assessSession) confirm(question string) (bool, error) {
	fmt.Fprint(s.out, question)
	line, err := readLine(s.in)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func promptText(field wizard.FieldSpec, current string) string {
	var b strings.Builder
	b.WriteString(field.Label)
	switch field.Kind {
	case wizard.KindChoice:
		b.WriteString(" (" + choiceList(field) + ")")
	case wizard.KindNumber:
		b.WriteString(fmt.Sprintf(" (%s-%s)", formatHint(field.Min), formatHint(field.Max)))
	}
	if current != "" {
		shown := current
		if field.Kind == wizard.KindChoice {
			shown = field.ChoiceLabel(current)
		}
		b.WriteString(" [" + shown + "]")
	}
	b.WriteString(": ")
	return b.String()
}

func choiceList(field wizard.FieldSpec) string {
	parts := make([]string, len(field.Choices))
	for i, c := range field.Choices {
		parts[i] = c.Value + " = " + c.Label
	}
	return strings.Join(parts, ", ")
}

func formatHint(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// normalizeAnswer maps typed input to a field value. Choice fields accept
// the value or its label (case-insensitive); number fields accept any text.
func normalizeAnswer(field wizard.FieldSpec, input string) (string, bool) {
	if field.Kind != wizard.KindChoice {
		return input, true
	}
	if field.HasChoice(input) {
		return input, true
	}
	for _, c := range field.Choices {
		if strings.EqualFold(c.Label, input) {
			return c.Value, true
		}
	}
	return "", false
}

// showResult loads the persisted assessment and renders it.
func showResult(out io.Writer, bridge *assessment.Bridge, colorOutput bool) error {
	var a *models.PersistedAssessment
	if loaded, ok := bridge.Load(); ok {
		a = loaded
	}
	return report.Render(out, report.Derive(a), colorOutput)
}
