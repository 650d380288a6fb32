package auditlog

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitmaster/internal/dispatcher"
	"github.com/temirov/gitmaster/internal/execshell"
)

// lineBreakEscaper keeps each audit event on a single physical line.
var lineBreakEscaper = strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\r`)

const (
	commandStartedTemplateConstant         = "Executing command: %s"
	commandSucceededTemplateConstant       = "Command executed successfully: %s"
	commandFailedTemplateConstant          = "Command failed with exit code %d: %s"
	commandOutputTemplateConstant          = "Command output: %s"
	commandErrorOutputTemplateConstant     = "Command error: %s"
	commandExecutionFailedTemplateConstant = "Command could not be started: %s: %v"
	actionCompletedTemplateConstant        = "Action %s completed"
	actionRejectedTemplateConstant         = "Action %s rejected"
)

// Recorder writes audit lines for command lifecycle events, action transitions and free-form user events.
// Write failures are ignored.
type Recorder struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewRecorder constructs a Recorder backed by the provided audit logger.
func NewRecorder(logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{logger: logger}
}

// Record appends message to the audit log as one line. Embedded line breaks are escaped.
func (recorder *Recorder) Record(message string) {
	if recorder == nil {
		return
	}
	trimmedMessage := strings.TrimSpace(message)
	if len(trimmedMessage) == 0 {
		return
	}
	recorder.logger.Info(lineBreakEscaper.Replace(trimmedMessage))
}

// Recordf formats and appends a message to the audit log.
func (recorder *Recorder) Recordf(format string, arguments ...any) {
	recorder.Record(fmt.Sprintf(format, arguments...))
}

// CommandStarted implements execshell.CommandEventObserver.
func (recorder *Recorder) CommandStarted(command execshell.ShellCommand) {
	recorder.Recordf(commandStartedTemplateConstant, recorder.formatter.FormatCommandLabel(command))
}

// CommandCompleted implements execshell.CommandEventObserver. Captured output follows the status line.
func (recorder *Recorder) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	commandLabel := recorder.formatter.FormatCommandLabel(command)
	if result.ExitCode == 0 {
		recorder.Recordf(commandSucceededTemplateConstant, commandLabel)
	} else {
		recorder.Recordf(commandFailedTemplateConstant, result.ExitCode, commandLabel)
	}
	recorder.recordCapturedStream(commandOutputTemplateConstant, result.StandardOutput)
	recorder.recordCapturedStream(commandErrorOutputTemplateConstant, result.StandardError)
}

func (recorder *Recorder) recordCapturedStream(template string, stream string) {
	trimmedStream := strings.TrimSpace(stream)
	if len(trimmedStream) == 0 {
		return
	}
	recorder.Recordf(template, trimmedStream)
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (recorder *Recorder) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	recorder.Recordf(commandExecutionFailedTemplateConstant, recorder.formatter.FormatCommandLabel(command), failure)
}

// Transition implements dispatcher.TransitionObserver. Only terminal states are recorded.
func (recorder *Recorder) Transition(actionName dispatcher.ActionName, from dispatcher.State, to dispatcher.State) {
	switch to {
	case dispatcher.StateCompleted:
		recorder.Recordf(actionCompletedTemplateConstant, actionName)
	case dispatcher.StateRejected:
		recorder.Recordf(actionRejectedTemplateConstant, actionName)
	}
}
