package dispatcher

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/temirov/gitmaster/internal/credentials"
	"github.com/temirov/gitmaster/internal/githubapi"
	"github.com/temirov/gitmaster/internal/gitrepo"
	"github.com/temirov/gitmaster/internal/outcome"
)

const (
	tokenFieldNameConstant         = "token"
	connectedTemplateConstant      = "Connected as: %s"
	credentialResetMessageConstant = "GitHub credential cleared"
	credentialSaveWarningTemplate  = "credential was not saved: %v"
	directoryEntryPrefixConstant   = "[DIR] "
	listingLineSeparatorConstant   = "\n"
	rootDirectoryConstant          = ""
	pathSeparatorConstant          = "/"
	currentDirectoryConstant       = "."
)

// Connection summarizes an attempt to connect a GitHub account.
type Connection struct {
	Identity     githubapi.AccountIdentity
	Repositories []gitrepo.RepositoryRef
	Result       outcome.ActionResult
}

// Connect verifies token, lists its repositories and keeps it for the session.
// The token is saved to the credential store only after both calls succeed.
func (dispatcher *Dispatcher) Connect(executionContext context.Context, token string) Connection {
	return dispatcher.connect(executionContext, token, true)
}

// Restore reconnects with the stored credential, or with fallbackToken when nothing is stored.
// A fallback token is kept for the session but never saved.
func (dispatcher *Dispatcher) Restore(executionContext context.Context, fallbackToken string) Connection {
	if storedCredential, found := dispatcher.credentialStore.Load(); found {
		return dispatcher.connect(executionContext, storedCredential.Token, false)
	}
	if len(strings.TrimSpace(fallbackToken)) > 0 {
		return dispatcher.connect(executionContext, fallbackToken, false)
	}
	return Connection{Result: outcome.FromError(CredentialMissingError{})}
}

func (dispatcher *Dispatcher) connect(executionContext context.Context, token string, persist bool) Connection {
	trimmedToken := strings.TrimSpace(token)
	connection := Connection{}
	connection.Result = dispatcher.run(executionContext, ActionGitHubConnect, func() (preparedAction, error) {
		if len(trimmedToken) == 0 {
			return preparedAction{}, requiredField(tokenFieldNameConstant)
		}
		return preparedAction{credentialToken: trimmedToken, execute: func(executionContext context.Context) outcome.ActionResult {
			identity, authenticateError := dispatcher.gateway.Authenticate(executionContext, trimmedToken)
			if authenticateError != nil {
				return outcome.FromError(authenticateError)
			}
			repositories, listError := dispatcher.gateway.ListRepositories(executionContext, trimmedToken)
			if listError != nil {
				return outcome.FromError(listError)
			}

			credential := credentials.RemoteCredential{Token: trimmedToken}
			dispatcher.credentialCell.Set(credential)
			connection.Identity = identity
			connection.Repositories = repositories

			result := outcome.Succeed(fmt.Sprintf(connectedTemplateConstant, identity.Login))
			if persist {
				if saveError := dispatcher.credentialStore.Save(credential); saveError != nil {
					result = result.WithWarning(fmt.Sprintf(credentialSaveWarningTemplate, saveError))
				}
			}
			return result
		}}, nil
	})
	return connection
}

// ResetCredential forgets the session credential and removes the stored record.
func (dispatcher *Dispatcher) ResetCredential() outcome.ActionResult {
	dispatcher.credentialCell.Clear()
	if clearError := dispatcher.credentialStore.Clear(); clearError != nil {
		return outcome.FromError(clearError)
	}
	return outcome.Succeed(credentialResetMessageConstant)
}

// ListRepositories lists the repositories of the connected account.
func (dispatcher *Dispatcher) ListRepositories(executionContext context.Context) ([]gitrepo.RepositoryRef, outcome.ActionResult) {
	var repositories []gitrepo.RepositoryRef
	result := dispatcher.run(executionContext, ActionGitHubListRepositories, func() (preparedAction, error) {
		token, credentialError := dispatcher.requireCredential()
		if credentialError != nil {
			return preparedAction{}, credentialError
		}
		return preparedAction{credentialToken: token, execute: func(executionContext context.Context) outcome.ActionResult {
			listedRepositories, listError := dispatcher.gateway.ListRepositories(executionContext, token)
			if listError != nil {
				return outcome.FromError(listError)
			}
			repositories = listedRepositories
			return outcome.Succeed(formatRepositoryListing(listedRepositories))
		}}, nil
	})
	return repositories, result
}

// Navigate lists one directory of a repository. An empty path lists the root.
func (dispatcher *Dispatcher) Navigate(executionContext context.Context, repositoryIdentifier string, directoryPath string) ([]githubapi.DirectoryEntry, outcome.ActionResult) {
	var entries []githubapi.DirectoryEntry
	result := dispatcher.run(executionContext, ActionGitHubNavigate, func() (preparedAction, error) {
		repository, repositoryError := parseRepository(repositoryIdentifier)
		if repositoryError != nil {
			return preparedAction{}, repositoryError
		}
		token, credentialError := dispatcher.requireCredential()
		if credentialError != nil {
			return preparedAction{}, credentialError
		}
		normalizedPath := NormalizeRepositoryPath(directoryPath)
		return preparedAction{credentialToken: token, execute: func(executionContext context.Context) outcome.ActionResult {
			listedEntries, listError := dispatcher.gateway.ListDirectory(executionContext, token, repository, normalizedPath)
			if listError != nil {
				return outcome.FromError(listError)
			}
			entries = listedEntries
			return outcome.Succeed(FormatDirectoryListing(listedEntries))
		}}, nil
	})
	return entries, result
}

// ReadFile returns the content of a repository file.
func (dispatcher *Dispatcher) ReadFile(executionContext context.Context, repositoryIdentifier string, filePath string) outcome.ActionResult {
	return dispatcher.Dispatch(executionContext, string(ActionGitHubViewFile), Parameters{Repository: repositoryIdentifier, Path: filePath})
}

// NormalizeRepositoryPath strips surrounding separators so the root is always the empty path.
func NormalizeRepositoryPath(repositoryPath string) string {
	cleanedPath := path.Clean(pathSeparatorConstant + strings.TrimSpace(repositoryPath))
	return strings.TrimPrefix(cleanedPath, pathSeparatorConstant)
}

// ParentDirectory returns the parent of directoryPath. It reports false at the repository root.
func ParentDirectory(directoryPath string) (string, bool) {
	normalizedPath := NormalizeRepositoryPath(directoryPath)
	if normalizedPath == rootDirectoryConstant {
		return rootDirectoryConstant, false
	}
	parentPath := path.Dir(normalizedPath)
	if parentPath == currentDirectoryConstant {
		return rootDirectoryConstant, true
	}
	return parentPath, true
}

// FormatDirectoryListing renders entries one per line, marking directories.
func FormatDirectoryListing(entries []githubapi.DirectoryEntry) string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDirectory() {
			lines = append(lines, directoryEntryPrefixConstant+entry.Name)
			continue
		}
		lines = append(lines, entry.Name)
	}
	return strings.Join(lines, listingLineSeparatorConstant)
}

func formatRepositoryListing(repositories []gitrepo.RepositoryRef) string {
	lines := make([]string, 0, len(repositories))
	for _, repository := range repositories {
		lines = append(lines, repository.String())
	}
	return strings.Join(lines, listingLineSeparatorConstant)
}
