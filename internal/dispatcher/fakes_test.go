package dispatcher_test

import (
	"context"
	"errors"
	"sync"

	"github.com/temirov/gitmaster/internal/credentials"
	"github.com/temirov/gitmaster/internal/dispatcher"
	"github.com/temirov/gitmaster/internal/execshell"
	"github.com/temirov/gitmaster/internal/githubapi"
	"github.com/temirov/gitmaster/internal/gitrepo"
	"github.com/temirov/gitmaster/internal/outcome"
)

type recordedRun struct {
	executable  string
	arguments   []string
	commandLine string
}

type recordingRunner struct {
	result outcome.ActionResult
	runs   []recordedRun
}

func (runner *recordingRunner) Run(executionContext context.Context, executableName string, arguments string) outcome.ActionResult {
	argumentVector, splitError := execshell.SplitArguments(arguments)
	if splitError != nil {
		return outcome.FromError(splitError)
	}
	runner.runs = append(runner.runs, recordedRun{executable: executableName, arguments: argumentVector, commandLine: arguments})
	return runner.result
}

func (runner *recordingRunner) RunArguments(executionContext context.Context, executableName string, arguments []string) outcome.ActionResult {
	runner.runs = append(runner.runs, recordedRun{executable: executableName, arguments: append([]string{}, arguments...)})
	return runner.result
}

type stubGateway struct {
	calls             []githubapi.OperationName
	identity          githubapi.AccountIdentity
	repositories      []gitrepo.RepositoryRef
	entries           []githubapi.DirectoryEntry
	fileContent       string
	commitSHA         string
	authenticateError error
	listError         error
	directoryError    error
	readError         error
	createError       error
	deleteError       error
	lastCreateRequest githubapi.CreateFileRequest
	lastToken         string
	lastDirectoryPath string
}

func (gateway *stubGateway) record(operation githubapi.OperationName, token string) {
	gateway.calls = append(gateway.calls, operation)
	gateway.lastToken = token
}

func (gateway *stubGateway) Authenticate(executionContext context.Context, token string) (githubapi.AccountIdentity, error) {
	gateway.record(githubapi.OperationAuthenticate, token)
	return gateway.identity, gateway.authenticateError
}

func (gateway *stubGateway) ListRepositories(executionContext context.Context, token string) ([]gitrepo.RepositoryRef, error) {
	gateway.record(githubapi.OperationListRepositories, token)
	return gateway.repositories, gateway.listError
}

func (gateway *stubGateway) ListDirectory(executionContext context.Context, token string, repository gitrepo.RepositoryRef, directoryPath string) ([]githubapi.DirectoryEntry, error) {
	gateway.record(githubapi.OperationListDirectory, token)
	gateway.lastDirectoryPath = directoryPath
	return gateway.entries, gateway.directoryError
}

func (gateway *stubGateway) ReadFile(executionContext context.Context, token string, repository gitrepo.RepositoryRef, filePath string) (string, error) {
	gateway.record(githubapi.OperationReadFile, token)
	return gateway.fileContent, gateway.readError
}

func (gateway *stubGateway) CreateFile(executionContext context.Context, token string, repository gitrepo.RepositoryRef, request githubapi.CreateFileRequest) (string, error) {
	gateway.record(githubapi.OperationCreateFile, token)
	gateway.lastCreateRequest = request
	return gateway.commitSHA, gateway.createError
}

func (gateway *stubGateway) DeleteRepository(executionContext context.Context, token string, repository gitrepo.RepositoryRef) error {
	gateway.record(githubapi.OperationDeleteRepository, token)
	return gateway.deleteError
}

type memoryCredentialStore struct {
	mutex      sync.Mutex
	credential *credentials.RemoteCredential
	saveError  error
	clearError error
	saves      int
	clears     int
}

func (store *memoryCredentialStore) Load() (credentials.RemoteCredential, bool) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	if store.credential == nil {
		return credentials.RemoteCredential{}, false
	}
	return *store.credential, true
}

func (store *memoryCredentialStore) Save(credential credentials.RemoteCredential) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.saves++
	if store.saveError != nil {
		return store.saveError
	}
	storedCredential := credential
	store.credential = &storedCredential
	return nil
}

func (store *memoryCredentialStore) Clear() error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.clears++
	if store.clearError != nil {
		return store.clearError
	}
	store.credential = nil
	return nil
}

type recordedTransition struct {
	action dispatcher.ActionName
	from   dispatcher.State
	to     dispatcher.State
}

type dispatcherFixture struct {
	dispatcher  *dispatcher.Dispatcher
	runner      *recordingRunner
	gateway     *stubGateway
	store       *memoryCredentialStore
	cell        *credentials.Cell
	transitions []recordedTransition
}

func newDispatcherFixture(settings dispatcher.Settings, readLocalFile dispatcher.LocalFileReader) (*dispatcherFixture, error) {
	fixture := &dispatcherFixture{
		runner:  &recordingRunner{result: outcome.Succeed("")},
		gateway: &stubGateway{},
		store:   &memoryCredentialStore{},
		cell:    credentials.NewCell(),
	}
	if readLocalFile == nil {
		readLocalFile = func(string) ([]byte, error) { return nil, errors.New("no such file") }
	}
	createdDispatcher, creationError := dispatcher.New(dispatcher.Dependencies{
		Runner:          fixture.runner,
		Gateway:         fixture.gateway,
		CredentialStore: fixture.store,
		CredentialCell:  fixture.cell,
		ReadLocalFile:   readLocalFile,
		Settings:        settings,
		TransitionObserver: dispatcher.TransitionObserverFunc(func(actionName dispatcher.ActionName, from dispatcher.State, to dispatcher.State) {
			fixture.transitions = append(fixture.transitions, recordedTransition{action: actionName, from: from, to: to})
		}),
	})
	if creationError != nil {
		return nil, creationError
	}
	fixture.dispatcher = createdDispatcher
	return fixture, nil
}

func (fixture *dispatcherFixture) finalState() dispatcher.State {
	if len(fixture.transitions) == 0 {
		return dispatcher.StateIdle
	}
	return fixture.transitions[len(fixture.transitions)-1].to
}
