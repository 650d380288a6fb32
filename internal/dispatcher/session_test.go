package dispatcher_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitmaster/internal/credentials"
	"github.com/temirov/gitmaster/internal/dispatcher"
	"github.com/temirov/gitmaster/internal/githubapi"
	"github.com/temirov/gitmaster/internal/gitrepo"
	"github.com/temirov/gitmaster/internal/outcome"
)

const (
	testStoredTokenConstant = "ghp_stored"
	testNewTokenConstant    = "ghp_new"
	testLoginConstant       = "octocat"
)

var testRepositories = []gitrepo.RepositoryRef{{Owner: "octocat", Name: "hello"}, {Owner: "octocat", Name: "world"}}

func invalidCredentialError() error {
	return githubapi.GatewayError{Operation: githubapi.OperationAuthenticate, ErrorKind: outcome.ErrorKindInvalidCredential, Cause: errors.New("bad credentials")}
}

func TestConnectStoresCredentialAfterListing(testInstance *testing.T) {
	fixture, fixtureError := newDispatcherFixture(dispatcher.Settings{}, nil)
	require.NoError(testInstance, fixtureError)
	fixture.gateway.identity = githubapi.AccountIdentity{Login: testLoginConstant}
	fixture.gateway.repositories = testRepositories

	connection := fixture.dispatcher.Connect(context.Background(), "  "+testNewTokenConstant+" ")

	require.True(testInstance, connection.Result.Succeeded)
	require.Equal(testInstance, "Connected as: octocat", connection.Result.Output)
	require.Equal(testInstance, testRepositories, connection.Repositories)
	require.Equal(testInstance, []githubapi.OperationName{githubapi.OperationAuthenticate, githubapi.OperationListRepositories}, fixture.gateway.calls)

	sessionCredential, sessionHasCredential := fixture.cell.Get()
	require.True(testInstance, sessionHasCredential)
	require.Equal(testInstance, testNewTokenConstant, sessionCredential.Token)
	storedCredential, storeHasCredential := fixture.store.Load()
	require.True(testInstance, storeHasCredential)
	require.Equal(testInstance, testNewTokenConstant, storedCredential.Token)
}

func TestConnectPersistenceFailureBecomesWarning(testInstance *testing.T) {
	fixture, fixtureError := newDispatcherFixture(dispatcher.Settings{}, nil)
	require.NoError(testInstance, fixtureError)
	fixture.gateway.identity = githubapi.AccountIdentity{Login: testLoginConstant}
	fixture.store.saveError = credentials.PersistenceError{Operation: "save", Path: "github_config.yaml", Cause: errors.New("read-only file system")}

	connection := fixture.dispatcher.Connect(context.Background(), testNewTokenConstant)

	require.True(testInstance, connection.Result.Succeeded)
	require.Len(testInstance, connection.Result.Warnings, 1)
	require.Contains(testInstance, connection.Result.Warnings[0], "read-only file system")
	_, sessionHasCredential := fixture.cell.Get()
	require.True(testInstance, sessionHasCredential)
}

func TestConnectFailures(testInstance *testing.T) {
	testCases := []struct {
		name                 string
		token                string
		authenticateError    error
		listError            error
		expectedKind         outcome.ErrorKind
		expectedGatewayCalls int
		expectStoredKept     bool
	}{
		{name: "empty_token", token: " ", expectedKind: outcome.ErrorKindValidation, expectStoredKept: true},
		{name: "invalid_token_keeps_other_stored_token", token: testNewTokenConstant, authenticateError: invalidCredentialError(), expectedKind: outcome.ErrorKindInvalidCredential, expectedGatewayCalls: 1, expectStoredKept: true},
		{name: "invalid_stored_token_is_cleared", token: testStoredTokenConstant, authenticateError: invalidCredentialError(), expectedKind: outcome.ErrorKindInvalidCredential, expectedGatewayCalls: 1},
		{
			name:                 "rate_limited_listing",
			token:                testNewTokenConstant,
			listError:            githubapi.GatewayError{Operation: githubapi.OperationListRepositories, ErrorKind: outcome.ErrorKindRateLimited, Cause: errors.New("limit")},
			expectedKind:         outcome.ErrorKindRateLimited,
			expectedGatewayCalls: 2,
			expectStoredKept:     true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture, fixtureError := newDispatcherFixture(dispatcher.Settings{}, nil)
			require.NoError(testInstance, fixtureError)
			require.NoError(testInstance, fixture.store.Save(credentials.RemoteCredential{Token: testStoredTokenConstant}))
			fixture.gateway.authenticateError = testCase.authenticateError
			fixture.gateway.listError = testCase.listError

			connection := fixture.dispatcher.Connect(context.Background(), testCase.token)

			require.False(testInstance, connection.Result.Succeeded)
			require.Equal(testInstance, testCase.expectedKind, connection.Result.Kind)
			require.Len(testInstance, fixture.gateway.calls, testCase.expectedGatewayCalls)
			_, sessionHasCredential := fixture.cell.Get()
			require.False(testInstance, sessionHasCredential)
			_, storeHasCredential := fixture.store.Load()
			require.Equal(testInstance, testCase.expectStoredKept, storeHasCredential)
		})
	}
}

func TestRestore(testInstance *testing.T) {
	testCases := []struct {
		name               string
		storedToken        string
		fallbackToken      string
		authenticateError  error
		expectedSucceeded  bool
		expectedKind       outcome.ErrorKind
		expectedToken      string
		expectStoredAfter  bool
		expectedStoreSaves int
	}{
		{name: "stored_token", storedToken: testStoredTokenConstant, expectedSucceeded: true, expectedKind: outcome.ErrorKindNone, expectedToken: testStoredTokenConstant, expectStoredAfter: true, expectedStoreSaves: 1},
		{name: "fallback_token_not_saved", fallbackToken: testNewTokenConstant, expectedSucceeded: true, expectedKind: outcome.ErrorKindNone, expectedToken: testNewTokenConstant},
		{name: "expired_stored_token", storedToken: testStoredTokenConstant, authenticateError: invalidCredentialError(), expectedKind: outcome.ErrorKindInvalidCredential, expectedStoreSaves: 1},
		{name: "nothing_available", expectedKind: outcome.ErrorKindCredentialMissing},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture, fixtureError := newDispatcherFixture(dispatcher.Settings{}, nil)
			require.NoError(testInstance, fixtureError)
			if len(testCase.storedToken) > 0 {
				require.NoError(testInstance, fixture.store.Save(credentials.RemoteCredential{Token: testCase.storedToken}))
			}
			fixture.gateway.identity = githubapi.AccountIdentity{Login: testLoginConstant}
			fixture.gateway.authenticateError = testCase.authenticateError

			connection := fixture.dispatcher.Restore(context.Background(), testCase.fallbackToken)

			require.Equal(testInstance, testCase.expectedSucceeded, connection.Result.Succeeded)
			require.Equal(testInstance, testCase.expectedKind, connection.Result.Kind)
			sessionCredential, _ := fixture.cell.Get()
			require.Equal(testInstance, testCase.expectedToken, sessionCredential.Token)
			_, storeHasCredential := fixture.store.Load()
			require.Equal(testInstance, testCase.expectStoredAfter, storeHasCredential)
			require.Equal(testInstance, testCase.expectedStoreSaves, fixture.store.saves)
		})
	}
}

func TestResetCredential(testInstance *testing.T) {
	fixture, fixtureError := newDispatcherFixture(dispatcher.Settings{}, nil)
	require.NoError(testInstance, fixtureError)
	fixture.cell.Set(credentials.RemoteCredential{Token: testTokenConstant})
	require.NoError(testInstance, fixture.store.Save(credentials.RemoteCredential{Token: testTokenConstant}))

	result := fixture.dispatcher.ResetCredential()
	require.True(testInstance, result.Succeeded)
	_, sessionHasCredential := fixture.cell.Get()
	require.False(testInstance, sessionHasCredential)
	_, storeHasCredential := fixture.store.Load()
	require.False(testInstance, storeHasCredential)

	fixture.store.clearError = credentials.PersistenceError{Operation: "clear", Path: "github_config.yaml", Cause: errors.New("permission denied")}
	failedResult := fixture.dispatcher.ResetCredential()
	require.False(testInstance, failedResult.Succeeded)
	require.Equal(testInstance, outcome.ErrorKindPersistence, failedResult.Kind)
}

func TestListRepositoriesIsRepeatable(testInstance *testing.T) {
	fixture, fixtureError := newDispatcherFixture(dispatcher.Settings{}, nil)
	require.NoError(testInstance, fixtureError)
	fixture.cell.Set(credentials.RemoteCredential{Token: testTokenConstant})
	fixture.gateway.repositories = testRepositories

	firstRepositories, firstResult := fixture.dispatcher.ListRepositories(context.Background())
	secondRepositories, secondResult := fixture.dispatcher.ListRepositories(context.Background())

	require.True(testInstance, firstResult.Succeeded)
	require.True(testInstance, secondResult.Succeeded)
	require.Equal(testInstance, firstRepositories, secondRepositories)
	require.Equal(testInstance, "octocat/hello\noctocat/world", firstResult.Output)
}

func TestListRepositoriesRequiresCredential(testInstance *testing.T) {
	fixture, fixtureError := newDispatcherFixture(dispatcher.Settings{}, nil)
	require.NoError(testInstance, fixtureError)

	repositories, result := fixture.dispatcher.ListRepositories(context.Background())
	require.Nil(testInstance, repositories)
	require.Equal(testInstance, outcome.ErrorKindCredentialMissing, result.Kind)
	require.Empty(testInstance, fixture.gateway.calls)
}

func TestNavigateListsDirectory(testInstance *testing.T) {
	fixture, fixtureError := newDispatcherFixture(dispatcher.Settings{}, nil)
	require.NoError(testInstance, fixtureError)
	fixture.cell.Set(credentials.RemoteCredential{Token: testTokenConstant})
	fixture.gateway.entries = []githubapi.DirectoryEntry{
		{Name: "README.md", Path: "README.md", Kind: githubapi.EntryKindFile},
		{Name: "src", Path: "src", Kind: githubapi.EntryKindDirectory},
	}

	entries, result := fixture.dispatcher.Navigate(context.Background(), testRepositoryConstant, "/")

	require.True(testInstance, result.Succeeded)
	require.Len(testInstance, entries, 2)
	require.Equal(testInstance, "README.md\n[DIR] src", result.Output)
	require.Equal(testInstance, "", fixture.gateway.lastDirectoryPath)
}

func TestParentDirectory(testInstance *testing.T) {
	testCases := []struct {
		name           string
		directoryPath  string
		expectedParent string
		expectedInside bool
	}{
		{name: "root", directoryPath: "", expectedParent: "", expectedInside: false},
		{name: "slash_root", directoryPath: "/", expectedParent: "", expectedInside: false},
		{name: "top_level", directoryPath: "src", expectedParent: "", expectedInside: true},
		{name: "nested", directoryPath: "src/internal/", expectedParent: "src", expectedInside: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parentPath, insideRepository := dispatcher.ParentDirectory(testCase.directoryPath)
			require.Equal(testInstance, testCase.expectedParent, parentPath)
			require.Equal(testInstance, testCase.expectedInside, insideRepository)
		})
	}
}
