package ui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitmaster/internal/outcome"
	"github.com/temirov/gitmaster/internal/ui"
)

func TestResultRendererRender(testInstance *testing.T) {
	testCases := []struct {
		name                string
		result              outcome.ActionResult
		expectedOutput      string
		expectedErrorOutput string
	}{
		{
			name:           "success_output",
			result:         outcome.Succeed("On branch main"),
			expectedOutput: "On branch main\n",
		},
		{
			name:                "success_with_progress_on_stderr",
			result:              outcome.FromProcess("", "Switched to branch 'feature'\n", 0),
			expectedErrorOutput: "Switched to branch 'feature'\n",
		},
		{
			name:                "process_failure",
			result:              outcome.FromProcess("", "fatal: not a git repository\n", 128),
			expectedErrorOutput: "Error: fatal: not a git repository\nExit code: 128\n",
		},
		{
			name:                "failure_without_message",
			result:              outcome.Fail(outcome.ErrorKindTransient, ""),
			expectedErrorOutput: "Error: action failed\n",
		},
		{
			name:                "warnings",
			result:              outcome.Succeed("Connected as: octocat").WithWarning("credential not saved"),
			expectedOutput:      "Connected as: octocat\n",
			expectedErrorOutput: "Warning: credential not saved\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			errorBuffer := &bytes.Buffer{}
			renderer := ui.NewResultRenderer(outputBuffer, errorBuffer, false)

			require.NoError(testInstance, renderer.Render(testCase.result))
			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
			require.Equal(testInstance, testCase.expectedErrorOutput, errorBuffer.String())
		})
	}
}

func TestResultRendererColorsFailures(testInstance *testing.T) {
	errorBuffer := &bytes.Buffer{}
	renderer := ui.NewResultRenderer(&bytes.Buffer{}, errorBuffer, true)

	require.NoError(testInstance, renderer.Render(outcome.Fail(outcome.ErrorKindValidation, "value is required")))
	require.Contains(testInstance, errorBuffer.String(), "\x1b[")
	require.Contains(testInstance, errorBuffer.String(), "Error: value is required")
}

func TestResultRendererGlossaryTerm(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	renderer := ui.NewResultRenderer(outputBuffer, nil, false)

	require.NoError(testInstance, renderer.RenderGlossaryTerm(ui.GlossaryTerm{Name: "Tag", Definition: "A named commit."}))
	require.Equal(testInstance, "Tag: A named commit.\n", outputBuffer.String())
}

func TestExitCode(testInstance *testing.T) {
	testCases := []struct {
		name     string
		result   outcome.ActionResult
		expected int
	}{
		{name: "success", result: outcome.Succeed("ok"), expected: 0},
		{name: "process_exit_code", result: outcome.FromProcess("", "", 128), expected: 128},
		{name: "non_process_failure", result: outcome.Fail(outcome.ErrorKindNotFound, "missing"), expected: 1},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, ui.ExitCode(testCase.result))
		})
	}
}
