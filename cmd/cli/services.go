package cli

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/gitmaster/internal/auditlog"
	"github.com/temirov/gitmaster/internal/credentials"
	"github.com/temirov/gitmaster/internal/dispatcher"
	"github.com/temirov/gitmaster/internal/execshell"
	"github.com/temirov/gitmaster/internal/githubapi"
	"github.com/temirov/gitmaster/internal/githubauth"
	"github.com/temirov/gitmaster/internal/gitrepo"
	"github.com/temirov/gitmaster/internal/outcome"
	"github.com/temirov/gitmaster/internal/ui"
	pathutils "github.com/temirov/gitmaster/internal/utils/path"
)

const (
	auditLogUnavailableMessageConstant = "audit log unavailable"
	auditLogPathFieldConstant          = "audit_log"
	fallbackTokenMessageConstant       = "using GitHub token from environment"
	fallbackTokenVariableFieldConstant = "variable"
	executorCreationErrorTemplate      = "unable to create command executor: %w"
	gatewayCreationErrorTemplate       = "unable to create GitHub gateway: %w"
	dispatcherCreationErrorTemplate    = "unable to create dispatcher: %w"
	workingDirectoryErrorTemplate      = "unable to resolve working directory: %w"
	auditSessionStartedMessageConstant = "Session started"
	auditSessionEndedMessageConstant   = "Session ended"
	auditUserActionTemplateConstant    = "User action: %s"
)

type applicationServices struct {
	dispatcher       *dispatcher.Dispatcher
	recorder         *auditlog.Recorder
	renderer         *ui.ResultRenderer
	inspector        gitrepo.WorkingTreeInspector
	workingDirectory string
	closeAuditLog    func()
}

// ensureServices builds the dispatcher and its collaborators from the loaded configuration once per run.
func (application *Application) ensureServices() (*applicationServices, error) {
	if application.services != nil {
		return application.services, nil
	}

	pathResolver := pathutils.NewResolver()
	gitConfiguration := application.configuration.Tools.Git
	gitHubConfiguration := application.configuration.Tools.GitHub

	workingDirectory := pathResolver.Resolve(gitConfiguration.WorkingDirectory)
	if len(workingDirectory) == 0 {
		currentDirectory, currentDirectoryError := os.Getwd()
		if currentDirectoryError != nil {
			return nil, fmt.Errorf(workingDirectoryErrorTemplate, currentDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	auditLogger, closeAuditLog := application.openAuditLog(pathResolver.Resolve(application.configuration.Common.AuditLog))
	recorder := auditlog.NewRecorder(auditLogger)

	shellExecutor, executorError := execshell.NewShellExecutor(
		application.logger,
		execshell.NewOSCommandRunner(),
		execshell.WithCommandEventObserver(execshell.CommandEventObservers{recorder, ui.NewConsoleCommandEventLogger(application.logger)}),
	)
	if executorError != nil {
		closeAuditLog()
		return nil, fmt.Errorf(executorCreationErrorTemplate, executorError)
	}
	processRunner, runnerError := execshell.NewProcessRunner(shellExecutor, execshell.ProcessRunnerOptions{
		WorkingDirectory: workingDirectory,
		Timeout:          gitConfiguration.Timeout,
	})
	if runnerError != nil {
		closeAuditLog()
		return nil, fmt.Errorf(executorCreationErrorTemplate, runnerError)
	}

	gateway, gatewayError := githubapi.NewGateway(githubapi.GatewayOptions{
		BaseURL: gitHubConfiguration.APIURL,
		Timeout: gitHubConfiguration.Timeout,
		Logger:  application.logger,
	})
	if gatewayError != nil {
		closeAuditLog()
		return nil, fmt.Errorf(gatewayCreationErrorTemplate, gatewayError)
	}

	credentialPath := pathResolver.Resolve(gitHubConfiguration.CredentialFile)
	actionDispatcher, dispatcherError := dispatcher.New(dispatcher.Dependencies{
		Runner:             processRunner,
		Gateway:            gateway,
		CredentialStore:    credentials.NewStore(credentialPath),
		CredentialCell:     credentials.NewCell(),
		Logger:             application.logger,
		TransitionObserver: recorder,
		Settings: dispatcher.Settings{
			GitExecutable: gitConfiguration.Executable,
			DefaultBranch: gitConfiguration.DefaultBranch,
		},
	})
	if dispatcherError != nil {
		closeAuditLog()
		return nil, fmt.Errorf(dispatcherCreationErrorTemplate, dispatcherError)
	}

	recorder.Record(auditSessionStartedMessageConstant)
	application.services = &applicationServices{
		dispatcher:       actionDispatcher,
		recorder:         recorder,
		renderer:         ui.NewResultRenderer(application.output, application.errorOutput, application.outputIsTerminal()),
		inspector:        gitrepo.NewWorkingTreeInspector(),
		workingDirectory: workingDirectory,
		closeAuditLog:    closeAuditLog,
	}
	return application.services, nil
}

// openAuditLog opens the audit log, degrading to a no-op logger when the file cannot be opened.
func (application *Application) openAuditLog(auditLogPath string) (*zap.Logger, func()) {
	auditLogger, closeAuditLog, openError := application.loggerFactory.CreateAuditLogger(auditLogPath)
	if openError != nil {
		application.logger.Warn(auditLogUnavailableMessageConstant, zap.String(auditLogPathFieldConstant, auditLogPath), zap.Error(openError))
		return zap.NewNop(), func() {}
	}
	return auditLogger, func() {
		_ = auditLogger.Sync()
		closeAuditLog()
	}
}

func (application *Application) closeServices() {
	if application.services == nil {
		return
	}
	application.services.recorder.Record(auditSessionEndedMessageConstant)
	application.services.closeAuditLog()
	application.services = nil
}

// recordUserAction writes a user-initiated event to the audit log.
func (services *applicationServices) recordUserAction(description string) {
	services.recorder.Recordf(auditUserActionTemplateConstant, description)
}

// restoreSession reconnects with the saved credential or an environment token unless a credential is already held.
func (application *Application) restoreSession(executionContext context.Context, services *applicationServices) (dispatcher.Connection, bool) {
	if _, connected := services.dispatcher.CredentialCell().Get(); connected {
		return dispatcher.Connection{Result: outcome.Succeed("")}, false
	}
	fallbackToken := ""
	if tokenSource, found := githubauth.ResolveToken(application.environment); found {
		application.logger.Debug(fallbackTokenMessageConstant, zap.String(fallbackTokenVariableFieldConstant, tokenSource.VariableName))
		fallbackToken = tokenSource.Credential.Token
	}
	return services.dispatcher.Restore(executionContext, fallbackToken), true
}
