package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/temirov/gitmaster/internal/outcome"
)

const (
	errorLineTemplateConstant         = "Error: %s\n"
	warningLineTemplateConstant       = "Warning: %s\n"
	exitCodeLineTemplateConstant      = "Exit code: %d\n"
	glossaryLineTemplateConstant      = "%s: %s\n"
	genericFailureMessageConstant     = "action failed"
	lineTerminatorConstant            = "\n"
	genericFailureExitCodeConstant    = 1
	successfulProcessExitCodeConstant = 0
)

// ResultRenderer writes ActionResult values to the terminal.
type ResultRenderer struct {
	output       io.Writer
	errorOutput  io.Writer
	failureStyle *color.Color
	warningStyle *color.Color
	detailStyle  *color.Color
	headingStyle *color.Color
}

// NewResultRenderer constructs a renderer. Colors are emitted only when colorEnabled is true.
func NewResultRenderer(output io.Writer, errorOutput io.Writer, colorEnabled bool) *ResultRenderer {
	if output == nil {
		output = io.Discard
	}
	if errorOutput == nil {
		errorOutput = output
	}
	renderer := &ResultRenderer{
		output:       output,
		errorOutput:  errorOutput,
		failureStyle: color.New(color.FgRed, color.Bold),
		warningStyle: color.New(color.FgYellow),
		detailStyle:  color.New(color.FgHiBlack),
		headingStyle: color.New(color.Bold),
	}
	for _, style := range []*color.Color{renderer.failureStyle, renderer.warningStyle, renderer.detailStyle, renderer.headingStyle} {
		if colorEnabled {
			style.EnableColor()
		} else {
			style.DisableColor()
		}
	}
	return renderer
}

// Render writes the output of a successful result to standard output and failure details and warnings to the error stream.
func (renderer *ResultRenderer) Render(result outcome.ActionResult) error {
	if len(result.Output) > 0 {
		if _, writeError := io.WriteString(renderer.output, terminateLine(result.Output)); writeError != nil {
			return writeError
		}
	}

	if result.Succeeded {
		if result.HasErrorMessage() {
			if _, writeError := renderer.detailStyle.Fprint(renderer.errorOutput, terminateLine(result.ErrorMessage)); writeError != nil {
				return writeError
			}
		}
	} else {
		failureMessage := strings.TrimSpace(result.ErrorMessage)
		if len(failureMessage) == 0 {
			failureMessage = genericFailureMessageConstant
		}
		if _, writeError := renderer.failureStyle.Fprintf(renderer.errorOutput, errorLineTemplateConstant, failureMessage); writeError != nil {
			return writeError
		}
		if result.ExitCode != nil {
			if _, writeError := renderer.detailStyle.Fprintf(renderer.errorOutput, exitCodeLineTemplateConstant, *result.ExitCode); writeError != nil {
				return writeError
			}
		}
	}

	for _, warning := range result.Warnings {
		if _, writeError := renderer.warningStyle.Fprintf(renderer.errorOutput, warningLineTemplateConstant, warning); writeError != nil {
			return writeError
		}
	}
	return nil
}

// RenderGlossaryTerm writes one glossary entry with its name highlighted.
func (renderer *ResultRenderer) RenderGlossaryTerm(term GlossaryTerm) error {
	_, writeError := fmt.Fprintf(renderer.output, glossaryLineTemplateConstant, renderer.headingStyle.Sprint(term.Name), term.Definition)
	return writeError
}

// ExitCode maps a result to a process exit status.
func ExitCode(result outcome.ActionResult) int {
	if result.Succeeded {
		return successfulProcessExitCodeConstant
	}
	if result.ExitCode != nil && *result.ExitCode != successfulProcessExitCodeConstant {
		return *result.ExitCode
	}
	return genericFailureExitCodeConstant
}

func terminateLine(text string) string {
	if strings.HasSuffix(text, lineTerminatorConstant) {
		return text
	}
	return text + lineTerminatorConstant
}
