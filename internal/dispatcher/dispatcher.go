package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitmaster/internal/credentials"
	"github.com/temirov/gitmaster/internal/githubapi"
	"github.com/temirov/gitmaster/internal/gitrepo"
	"github.com/temirov/gitmaster/internal/outcome"
)

const (
	defaultGitExecutableConstant        = "git"
	actionFieldNameConstant             = "action"
	repositoryFieldNameConstant         = "repository"
	pathFieldNameConstant               = "path"
	localFilePathFieldNameConstant      = "local file path"
	repositoryPathFieldNameConstant     = "repository path"
	branchFieldNameConstant             = "branch"
	commitMessageFieldNameConstant      = "commit message"
	confirmationFieldNameConstant       = "confirmation"
	requiredValueMessageConstant        = "value is required"
	unknownActionMessageTemplate        = "unknown action %q"
	localFileUnreadableTemplateConstant = "local file %s cannot be read: %v"
	localFileIsDirectoryTemplate        = "local file %s is a directory"
	deleteConfirmationMessageConstant   = "deleting a repository must be confirmed"
	credentialMissingMessageConstant    = "connect a GitHub account first"
	fileCreatedTemplateConstant         = "Created %s in %s on %s (commit %s)"
	repositoryDeletedTemplateConstant   = "Deleted repository %s"
	credentialClearWarningTemplate      = "credential record could not be removed: %v"
	transitionMessageConstant           = "action transition"
	transitionFromFieldConstant         = "from"
	transitionToFieldConstant           = "to"
	resultKindFieldConstant             = "kind"
	credentialClearedMessageConstant    = "credential cleared after the remote service rejected it"
)

// ErrRunnerNotConfigured indicates that no process runner was supplied.
var ErrRunnerNotConfigured = errors.New("dispatcher requires a process runner")

// ErrGatewayNotConfigured indicates that no remote gateway was supplied.
var ErrGatewayNotConfigured = errors.New("dispatcher requires a remote gateway")

// ErrCredentialStoreNotConfigured indicates that no credential store was supplied.
var ErrCredentialStoreNotConfigured = errors.New("dispatcher requires a credential store")

// ProcessRunner executes an external program from a command line or a pre-split argument vector.
type ProcessRunner interface {
	Run(executionContext context.Context, executableName string, arguments string) outcome.ActionResult
	RunArguments(executionContext context.Context, executableName string, arguments []string) outcome.ActionResult
}

// RemoteGateway performs calls against the remote repository service.
type RemoteGateway interface {
	Authenticate(executionContext context.Context, token string) (githubapi.AccountIdentity, error)
	ListRepositories(executionContext context.Context, token string) ([]gitrepo.RepositoryRef, error)
	ListDirectory(executionContext context.Context, token string, repository gitrepo.RepositoryRef, directoryPath string) ([]githubapi.DirectoryEntry, error)
	ReadFile(executionContext context.Context, token string, repository gitrepo.RepositoryRef, filePath string) (string, error)
	CreateFile(executionContext context.Context, token string, repository gitrepo.RepositoryRef, request githubapi.CreateFileRequest) (string, error)
	DeleteRepository(executionContext context.Context, token string, repository gitrepo.RepositoryRef) error
}

// CredentialStore persists the session credential.
type CredentialStore interface {
	Load() (credentials.RemoteCredential, bool)
	Save(credential credentials.RemoteCredential) error
	Clear() error
}

// LocalFileReader reads files from the local filesystem.
type LocalFileReader func(filePath string) ([]byte, error)

// Settings carries configuration consumed while validating actions.
type Settings struct {
	GitExecutable string
	DefaultBranch string
}

// Dependencies wires collaborators into a Dispatcher.
type Dependencies struct {
	Runner             ProcessRunner
	Gateway            RemoteGateway
	CredentialStore    CredentialStore
	CredentialCell     *credentials.Cell
	Logger             *zap.Logger
	TransitionObserver TransitionObserver
	ReadLocalFile      LocalFileReader
	Settings           Settings
}

// Parameters carries user input for one action.
type Parameters struct {
	Value          string
	Repository     string
	Path           string
	LocalFilePath  string
	RepositoryPath string
	Branch         string
	CommitMessage  string
	Confirmed      bool
}

type invocation func(executionContext context.Context) outcome.ActionResult

type preparedAction struct {
	execute         invocation
	credentialToken string
}

// Dispatcher validates and executes catalogue actions.
type Dispatcher struct {
	runner          ProcessRunner
	gateway         RemoteGateway
	credentialStore CredentialStore
	credentialCell  *credentials.Cell
	logger          *zap.Logger
	observer        TransitionObserver
	readLocalFile   LocalFileReader
	settings        Settings
	gitActions      map[ActionName]actionDefinition
	descriptors     []ActionDescriptor
}

// New constructs a Dispatcher from its dependencies.
func New(dependencies Dependencies) (*Dispatcher, error) {
	if dependencies.Runner == nil {
		return nil, ErrRunnerNotConfigured
	}
	if dependencies.Gateway == nil {
		return nil, ErrGatewayNotConfigured
	}
	if dependencies.CredentialStore == nil {
		return nil, ErrCredentialStoreNotConfigured
	}

	dispatcher := &Dispatcher{
		runner:          dependencies.Runner,
		gateway:         dependencies.Gateway,
		credentialStore: dependencies.CredentialStore,
		credentialCell:  dependencies.CredentialCell,
		logger:          dependencies.Logger,
		observer:        dependencies.TransitionObserver,
		readLocalFile:   dependencies.ReadLocalFile,
		settings:        dependencies.Settings,
		gitActions:      map[ActionName]actionDefinition{},
	}
	if dispatcher.credentialCell == nil {
		dispatcher.credentialCell = credentials.NewCell()
	}
	if dispatcher.logger == nil {
		dispatcher.logger = zap.NewNop()
	}
	if dispatcher.readLocalFile == nil {
		dispatcher.readLocalFile = os.ReadFile
	}
	if len(strings.TrimSpace(dispatcher.settings.GitExecutable)) == 0 {
		dispatcher.settings.GitExecutable = defaultGitExecutableConstant
	}
	dispatcher.settings.DefaultBranch = strings.TrimSpace(dispatcher.settings.DefaultBranch)

	for _, definition := range gitCatalogue() {
		dispatcher.gitActions[definition.descriptor.Name] = definition
		dispatcher.descriptors = append(dispatcher.descriptors, definition.descriptor)
	}
	dispatcher.descriptors = append(dispatcher.descriptors, gitHubCatalogue()...)
	return dispatcher, nil
}

// Actions lists the catalogue in presentation order.
func (dispatcher *Dispatcher) Actions() []ActionDescriptor {
	return append([]ActionDescriptor{}, dispatcher.descriptors...)
}

// DefaultBranch returns the configured branch used when pull, push or add-file omit one.
func (dispatcher *Dispatcher) DefaultBranch() string {
	return dispatcher.settings.DefaultBranch
}

// CredentialCell exposes the session credential holder.
func (dispatcher *Dispatcher) CredentialCell() *credentials.Cell {
	return dispatcher.credentialCell
}

// Dispatch validates and runs the named action.
func (dispatcher *Dispatcher) Dispatch(executionContext context.Context, actionName string, parameters Parameters) outcome.ActionResult {
	name := ActionName(strings.TrimSpace(actionName))
	return dispatcher.run(executionContext, name, func() (preparedAction, error) {
		return dispatcher.prepare(name, parameters)
	})
}

func (dispatcher *Dispatcher) run(executionContext context.Context, actionName ActionName, validate func() (preparedAction, error)) outcome.ActionResult {
	if executionContext == nil {
		executionContext = context.Background()
	}

	dispatcher.transition(actionName, StateIdle, StateValidating)
	prepared, validationError := validate()
	if validationError != nil {
		dispatcher.transition(actionName, StateValidating, StateRejected)
		return outcome.FromError(validationError)
	}

	dispatcher.transition(actionName, StateValidating, StateExecuting)
	result := prepared.execute(executionContext)
	dispatcher.transition(actionName, StateExecuting, StateCompleted)
	return dispatcher.complete(actionName, result, prepared.credentialToken)
}

func (dispatcher *Dispatcher) complete(actionName ActionName, result outcome.ActionResult, credentialToken string) outcome.ActionResult {
	if result.Kind != outcome.ErrorKindInvalidCredential || len(credentialToken) == 0 {
		return result
	}
	dispatcher.logger.Info(credentialClearedMessageConstant, zap.String(actionFieldNameConstant, string(actionName)))
	if forgetError := dispatcher.forgetCredential(credentialToken); forgetError != nil {
		return result.WithWarning(fmt.Sprintf(credentialClearWarningTemplate, forgetError))
	}
	return result
}

// forgetCredential drops token from the session cell and the store when they still hold it.
func (dispatcher *Dispatcher) forgetCredential(token string) error {
	if current, available := dispatcher.credentialCell.Get(); available && current.Token == token {
		dispatcher.credentialCell.Clear()
	}
	if stored, found := dispatcher.credentialStore.Load(); found && stored.Token == token {
		return dispatcher.credentialStore.Clear()
	}
	return nil
}

func (dispatcher *Dispatcher) transition(actionName ActionName, from State, to State) {
	dispatcher.logger.Debug(transitionMessageConstant,
		zap.String(actionFieldNameConstant, string(actionName)),
		zap.String(transitionFromFieldConstant, string(from)),
		zap.String(transitionToFieldConstant, string(to)),
	)
	if dispatcher.observer != nil {
		dispatcher.observer.Transition(actionName, from, to)
	}
}

func (dispatcher *Dispatcher) prepare(actionName ActionName, parameters Parameters) (preparedAction, error) {
	if definition, isGitAction := dispatcher.gitActions[actionName]; isGitAction {
		return dispatcher.prepareGitAction(definition, parameters)
	}

	switch actionName {
	case ActionGitHubAddFile:
		return dispatcher.prepareAddFile(parameters)
	case ActionGitHubDeleteRepository:
		return dispatcher.prepareDeleteRepository(parameters)
	case ActionGitHubViewFile:
		return dispatcher.prepareViewFile(parameters)
	default:
		return preparedAction{}, outcome.ValidationError{FieldName: actionFieldNameConstant, Message: fmt.Sprintf(unknownActionMessageTemplate, actionName)}
	}
}

func (dispatcher *Dispatcher) prepareGitAction(definition actionDefinition, parameters Parameters) (preparedAction, error) {
	value := strings.TrimSpace(parameters.Value)
	switch definition.descriptor.ValueRequirement {
	case ValueRequired:
		if len(value) == 0 {
			return preparedAction{}, requiredField(valueFieldNameConstant)
		}
	case ValueBranch:
		value = dispatcher.resolveBranch(value, parameters.Branch)
		if len(value) == 0 {
			return preparedAction{}, requiredField(branchFieldNameConstant)
		}
	}

	invocation, invocationError := definition.arguments(value)
	if invocationError != nil {
		return preparedAction{}, invocationError
	}

	return preparedAction{execute: func(executionContext context.Context) outcome.ActionResult {
		if len(invocation.commandLine) > 0 {
			return dispatcher.runner.Run(executionContext, dispatcher.settings.GitExecutable, invocation.commandLine)
		}
		return dispatcher.runner.RunArguments(executionContext, dispatcher.settings.GitExecutable, invocation.arguments)
	}}, nil
}

func (dispatcher *Dispatcher) prepareAddFile(parameters Parameters) (preparedAction, error) {
	repository, repositoryError := parseRepository(parameters.Repository)
	if repositoryError != nil {
		return preparedAction{}, repositoryError
	}
	localFilePath := strings.TrimSpace(parameters.LocalFilePath)
	if len(localFilePath) == 0 {
		return preparedAction{}, requiredField(localFilePathFieldNameConstant)
	}
	repositoryPath := strings.Trim(strings.TrimSpace(parameters.RepositoryPath), "/")
	if len(repositoryPath) == 0 {
		return preparedAction{}, requiredField(repositoryPathFieldNameConstant)
	}
	branch := dispatcher.resolveBranch(parameters.Branch, "")
	if len(branch) == 0 {
		return preparedAction{}, requiredField(branchFieldNameConstant)
	}
	commitMessage := strings.TrimSpace(parameters.CommitMessage)
	if len(commitMessage) == 0 {
		return preparedAction{}, requiredField(commitMessageFieldNameConstant)
	}
	token, credentialError := dispatcher.requireCredential()
	if credentialError != nil {
		return preparedAction{}, credentialError
	}

	if fileInformation, statError := os.Stat(localFilePath); statError == nil && fileInformation.IsDir() {
		return preparedAction{}, outcome.ValidationError{FieldName: localFilePathFieldNameConstant, Message: fmt.Sprintf(localFileIsDirectoryTemplate, localFilePath)}
	}
	content, readError := dispatcher.readLocalFile(localFilePath)
	if readError != nil {
		return preparedAction{}, outcome.ValidationError{FieldName: localFilePathFieldNameConstant, Message: fmt.Sprintf(localFileUnreadableTemplateConstant, localFilePath, readError)}
	}

	request := githubapi.CreateFileRequest{Path: repositoryPath, Content: content, Branch: branch, CommitMessage: commitMessage}
	return preparedAction{credentialToken: token, execute: func(executionContext context.Context) outcome.ActionResult {
		commitSHA, createError := dispatcher.gateway.CreateFile(executionContext, token, repository, request)
		if createError != nil {
			return outcome.FromError(createError)
		}
		return outcome.Succeed(fmt.Sprintf(fileCreatedTemplateConstant, repositoryPath, repository.String(), branch, commitSHA))
	}}, nil
}

func (dispatcher *Dispatcher) prepareDeleteRepository(parameters Parameters) (preparedAction, error) {
	repository, repositoryError := parseRepository(parameters.Repository)
	if repositoryError != nil {
		return preparedAction{}, repositoryError
	}
	if !parameters.Confirmed {
		return preparedAction{}, outcome.ValidationError{FieldName: confirmationFieldNameConstant, Message: deleteConfirmationMessageConstant}
	}
	token, credentialError := dispatcher.requireCredential()
	if credentialError != nil {
		return preparedAction{}, credentialError
	}

	return preparedAction{credentialToken: token, execute: func(executionContext context.Context) outcome.ActionResult {
		if deleteError := dispatcher.gateway.DeleteRepository(executionContext, token, repository); deleteError != nil {
			return outcome.FromError(deleteError)
		}
		return outcome.Succeed(fmt.Sprintf(repositoryDeletedTemplateConstant, repository.String()))
	}}, nil
}

func (dispatcher *Dispatcher) prepareViewFile(parameters Parameters) (preparedAction, error) {
	repository, repositoryError := parseRepository(parameters.Repository)
	if repositoryError != nil {
		return preparedAction{}, repositoryError
	}
	filePath := strings.Trim(strings.TrimSpace(parameters.Path), "/")
	if len(filePath) == 0 {
		return preparedAction{}, requiredField(pathFieldNameConstant)
	}
	token, credentialError := dispatcher.requireCredential()
	if credentialError != nil {
		return preparedAction{}, credentialError
	}

	return preparedAction{credentialToken: token, execute: func(executionContext context.Context) outcome.ActionResult {
		content, readError := dispatcher.gateway.ReadFile(executionContext, token, repository, filePath)
		if readError != nil {
			return outcome.FromError(readError)
		}
		return outcome.Succeed(content)
	}}, nil
}

func (dispatcher *Dispatcher) resolveBranch(primary string, secondary string) string {
	for _, candidate := range []string{primary, secondary, dispatcher.settings.DefaultBranch} {
		if trimmedCandidate := strings.TrimSpace(candidate); len(trimmedCandidate) > 0 {
			return trimmedCandidate
		}
	}
	return ""
}

func (dispatcher *Dispatcher) requireCredential() (string, error) {
	credential, available := dispatcher.credentialCell.Get()
	if !available {
		return "", CredentialMissingError{}
	}
	return credential.Token, nil
}

// CredentialMissingError rejects GitHub actions attempted before a credential is connected.
type CredentialMissingError struct{}

// Error describes the missing credential.
func (CredentialMissingError) Error() string {
	return credentialMissingMessageConstant
}

// Kind implements outcome.KindCarrier.
func (CredentialMissingError) Kind() outcome.ErrorKind {
	return outcome.ErrorKindCredentialMissing
}

// Is matches githubapi.ErrCredentialRequired.
func (CredentialMissingError) Is(target error) bool {
	return target == githubapi.ErrCredentialRequired
}

func parseRepository(identifier string) (gitrepo.RepositoryRef, error) {
	if len(strings.TrimSpace(identifier)) == 0 {
		return gitrepo.RepositoryRef{}, requiredField(repositoryFieldNameConstant)
	}
	repository, parseError := gitrepo.ParseRepositoryRef(identifier)
	if parseError != nil {
		return gitrepo.RepositoryRef{}, outcome.ValidationError{FieldName: repositoryFieldNameConstant, Message: parseError.Error()}
	}
	return repository, nil
}

func requiredField(fieldName string) error {
	return outcome.ValidationError{FieldName: fieldName, Message: requiredValueMessageConstant}
}

func formatSplitError(splitError error) string {
	return fmt.Sprintf(unsplittableValueTemplate, splitError)
}
