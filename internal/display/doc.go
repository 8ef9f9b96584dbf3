// Package display provides terminal output for the interactive assessment:
// the step header shown above each wizard step and user-facing warnings.
//
// # Step Header
//
//	header := display.NewStepHeader(os.Stdout, wizard.StepCount)
//	header.Show(w.Step(), def.Title, def.Subtitle)
//
// # Warning Messages
//
// Display warnings with optional components:
//
//	warning := display.Warning{
//	    Title:      "Prediction failed",
//	    Message:    "prediction service unreachable",
//	    Suggestion: "Check that the service is running, then submit again",
//	}
//	warning.Display(os.Stderr)
//
// Or build one from a submission error:
//
//	display.SubmitWarning(err).Display(os.Stderr)
//
// All functions accept io.Writer interfaces for testability.
package display
