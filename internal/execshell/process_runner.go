package execshell

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"

	"github.com/temirov/gitmaster/internal/outcome"
)

const (
	argumentsFieldNameConstant         = "arguments"
	executableFieldNameConstant        = "executable"
	executableRequiredMessageConstant  = "executable name is required"
	unsplittableArgumentsMessagePrefix = "cannot split arguments: "
)

// ErrProcessExecutorNotConfigured indicates that a ProcessRunner was built without a ShellExecutor.
var ErrProcessExecutorNotConfigured = errors.New("process runner requires a shell executor")

// ProcessRunnerOptions configures a ProcessRunner.
type ProcessRunnerOptions struct {
	WorkingDirectory string
	Timeout          time.Duration
}

// ProcessRunner invokes external executables and reports ActionResult values.
type ProcessRunner struct {
	executor *ShellExecutor
	options  ProcessRunnerOptions
}

// NewProcessRunner constructs a ProcessRunner backed by the provided executor.
func NewProcessRunner(executor *ShellExecutor, options ProcessRunnerOptions) (*ProcessRunner, error) {
	if executor == nil {
		return nil, ErrProcessExecutorNotConfigured
	}
	return &ProcessRunner{executor: executor, options: options}, nil
}

// SplitArguments splits an argument string using POSIX shell word rules without any expansion.
func SplitArguments(arguments string) ([]string, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = false
	parser.ParseBacktick = false
	return parser.Parse(arguments)
}

// Run splits the argument string and executes the named program.
func (runner *ProcessRunner) Run(executionContext context.Context, executableName string, arguments string) outcome.ActionResult {
	argumentVector, splitError := SplitArguments(arguments)
	if splitError != nil {
		return outcome.FromError(outcome.ValidationError{FieldName: argumentsFieldNameConstant, Message: unsplittableArgumentsMessagePrefix + splitError.Error()})
	}
	return runner.RunArguments(executionContext, executableName, argumentVector)
}

// RunArguments executes the named program with a pre-split argument vector.
func (runner *ProcessRunner) RunArguments(executionContext context.Context, executableName string, arguments []string) outcome.ActionResult {
	trimmedExecutableName := strings.TrimSpace(executableName)
	if len(trimmedExecutableName) == 0 {
		return outcome.FromError(outcome.ValidationError{FieldName: executableFieldNameConstant, Message: executableRequiredMessageConstant})
	}

	if executionContext == nil {
		executionContext = context.Background()
	}
	if runner.options.Timeout > 0 {
		var cancel context.CancelFunc
		executionContext, cancel = context.WithTimeout(executionContext, runner.options.Timeout)
		defer cancel()
	}

	command := ShellCommand{
		Name: CommandName(trimmedExecutableName),
		Details: CommandDetails{
			Arguments:        append([]string{}, arguments...),
			WorkingDirectory: runner.options.WorkingDirectory,
		},
	}

	executionResult, executionError := runner.executor.Execute(executionContext, command)
	if executionError == nil {
		return outcome.FromProcess(executionResult.StandardOutput, executionResult.StandardError, executionResult.ExitCode)
	}

	var failedError CommandFailedError
	if errors.As(executionError, &failedError) {
		return outcome.FromProcess(failedError.Result.StandardOutput, failedError.Result.StandardError, failedError.Result.ExitCode)
	}

	var commandExecutionError CommandExecutionError
	if errors.As(executionError, &commandExecutionError) && commandExecutionError.Cause != nil {
		return outcome.Fail(outcome.ErrorKindProcess, commandExecutionError.Cause.Error())
	}
	return outcome.Fail(outcome.ErrorKindProcess, executionError.Error())
}
