package execshell_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitmaster/internal/execshell"
)

const (
	testMessageRepositoryDirectoryConstant = "/tmp/project"
	testMessageCloneSourceConstant         = "https://github.com/octocat/hello.git"
)

func TestCommandMessageFormatterDescribesGitSubcommands(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}

	testCases := []struct {
		name            string
		command         execshell.ShellCommand
		result          execshell.ExecutionResult
		failure         error
		expectedStart   string
		expectedSuccess string
		expectedFailure string
		expectedError   string
	}{
		{
			name: "clone",
			command: execshell.ShellCommand{
				Name:    execshell.CommandGit,
				Details: execshell.CommandDetails{Arguments: []string{"clone", testMessageCloneSourceConstant}},
			},
			result:          execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: repository not found\n"},
			failure:         errors.New("exec: not found"),
			expectedStart:   "Cloning https://github.com/octocat/hello.git into current directory",
			expectedSuccess: "Cloned https://github.com/octocat/hello.git into current directory",
			expectedFailure: "Failed to clone https://github.com/octocat/hello.git (exit code 128: fatal: repository not found)",
			expectedError:   "Unable to clone https://github.com/octocat/hello.git: exec: not found",
		},
		{
			name: "commit",
			command: execshell.ShellCommand{
				Name: execshell.CommandGit,
				Details: execshell.CommandDetails{
					Arguments:        []string{"commit", "-m", "Initial import"},
					WorkingDirectory: testMessageRepositoryDirectoryConstant,
				},
			},
			result:          execshell.ExecutionResult{ExitCode: 1},
			expectedStart:   "Creating commit in /tmp/project with message \"Initial import\"",
			expectedSuccess: "Created commit in /tmp/project with message \"Initial import\"",
			expectedFailure: "Failed to create commit in /tmp/project with message \"Initial import\" (exit code 1)",
			expectedError:   "Unable to create commit in /tmp/project with message \"Initial import\": unknown error",
		},
		{
			name: "push",
			command: execshell.ShellCommand{
				Name:    execshell.CommandGit,
				Details: execshell.CommandDetails{Arguments: []string{"push", "origin", "main"}},
			},
			result:          execshell.ExecutionResult{ExitCode: 1, StandardError: "rejected"},
			expectedStart:   "Pushing main to origin from current directory",
			expectedSuccess: "Pushed main to origin from current directory",
			expectedFailure: "Failed to push main to origin from current directory (exit code 1: rejected)",
			expectedError:   "Unable to push main to origin from current directory: unknown error",
		},
		{
			name: "generic",
			command: execshell.ShellCommand{
				Name: execshell.CommandGit,
				Details: execshell.CommandDetails{
					Arguments:        []string{"log", "--oneline"},
					WorkingDirectory: testMessageRepositoryDirectoryConstant,
				},
			},
			result:          execshell.ExecutionResult{ExitCode: 2},
			expectedStart:   "Running git log --oneline (in /tmp/project)",
			expectedSuccess: "Completed git log --oneline (in /tmp/project)",
			expectedFailure: "git log --oneline (in /tmp/project) failed with exit code 2",
			expectedError:   "git log --oneline (in /tmp/project) failed: unknown error",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedStart, formatter.BuildStartedMessage(testCase.command))
			require.Equal(testInstance, testCase.expectedSuccess, formatter.BuildSuccessMessage(testCase.command))
			require.Equal(testInstance, testCase.expectedFailure, formatter.BuildFailureMessage(testCase.command, testCase.result))
			require.Equal(testInstance, testCase.expectedError, formatter.BuildExecutionFailureMessage(testCase.command, testCase.failure))
		})
	}
}
