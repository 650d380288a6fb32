package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/temirov/gitmaster/internal/gitrepo"
	"github.com/temirov/gitmaster/internal/outcome"
)

const (
	repositoriesPerPageConstant        = 100
	userAgentConstant                  = "gitmaster"
	baseURLSuffixConstant              = "/"
	contentTypeDirectoryConstant       = "dir"
	pathSeparatorConstant              = "/"
	currentUserConstant                = ""
	operationFieldNameConstant         = "operation"
	repositoryFieldNameConstant        = "repository"
	pathFieldNameConstant              = "path"
	gatewayCallMessageConstant         = "github api call"
	gatewayCallFailedMessageConstant   = "github api call failed"
	createFilePathFieldConstant        = "path"
	createFileBranchFieldConstant      = "branch"
	createFileMessageFieldConstant     = "commit message"
	requiredValueMessageConstant       = "value is required"
	pathIsDirectoryMessageConstant     = "path is a directory"
	pathIsFileMessageConstant          = "path is a file"
	invalidBaseURLMessageTemplateConst = "invalid github api url %q: %w"
)

// GatewayOptions configures a Gateway.
type GatewayOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zap.Logger
	Clock      func() time.Time
}

// Gateway performs GitHub REST calls on behalf of one credential per call.
type Gateway struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
	clock      func() time.Time
}

// NewGateway constructs a Gateway. An empty BaseURL targets api.github.com.
func NewGateway(options GatewayOptions) (*Gateway, error) {
	gateway := &Gateway{
		httpClient: options.HTTPClient,
		timeout:    options.Timeout,
		logger:     options.Logger,
		clock:      options.Clock,
	}
	if gateway.logger == nil {
		gateway.logger = zap.NewNop()
	}
	if gateway.clock == nil {
		gateway.clock = time.Now
	}

	trimmedBaseURL := strings.TrimSpace(options.BaseURL)
	if len(trimmedBaseURL) > 0 {
		if !strings.HasSuffix(trimmedBaseURL, baseURLSuffixConstant) {
			trimmedBaseURL += baseURLSuffixConstant
		}
		parsedBaseURL, parseError := url.Parse(trimmedBaseURL)
		if parseError != nil {
			return nil, fmt.Errorf(invalidBaseURLMessageTemplateConst, options.BaseURL, parseError)
		}
		gateway.baseURL = parsedBaseURL
	}
	return gateway, nil
}

// NewHTTPClient returns an HTTP client that sends token as a bearer credential over base.
func NewHTTPClient(token string, base *http.Client) *http.Client {
	clientContext := context.Background()
	if base != nil {
		clientContext = context.WithValue(clientContext, oauth2.HTTPClient, base)
	}
	return oauth2.NewClient(clientContext, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}

// Authenticate resolves the account that owns token.
func (gateway *Gateway) Authenticate(executionContext context.Context, token string) (AccountIdentity, error) {
	client, callContext, cancel, prepareError := gateway.prepare(executionContext, OperationAuthenticate, token)
	if prepareError != nil {
		return AccountIdentity{}, prepareError
	}
	defer cancel()

	gateway.logCall(OperationAuthenticate)
	user, _, callError := client.Users.Get(callContext, currentUserConstant)
	if callError != nil {
		return AccountIdentity{}, gateway.classify(OperationAuthenticate, callError, classificationOptions{})
	}
	return AccountIdentity{Login: user.GetLogin()}, nil
}

// ListRepositories returns every repository visible to the credential in server order.
func (gateway *Gateway) ListRepositories(executionContext context.Context, token string) ([]gitrepo.RepositoryRef, error) {
	client, callContext, cancel, prepareError := gateway.prepare(executionContext, OperationListRepositories, token)
	if prepareError != nil {
		return nil, prepareError
	}
	defer cancel()

	gateway.logCall(OperationListRepositories)
	listOptions := &gh.RepositoryListByAuthenticatedUserOptions{
		ListOptions: gh.ListOptions{PerPage: repositoriesPerPageConstant},
	}

	repositories := []gitrepo.RepositoryRef{}
	for {
		page, response, callError := client.Repositories.ListByAuthenticatedUser(callContext, listOptions)
		if callError != nil {
			return nil, gateway.classify(OperationListRepositories, callError, classificationOptions{})
		}
		for _, repository := range page {
			repositories = append(repositories, repositoryReference(repository))
		}
		if response == nil || response.NextPage == 0 {
			break
		}
		listOptions.Page = response.NextPage
	}
	return repositories, nil
}

// ListDirectory lists the entries at path. An empty path lists the repository root.
func (gateway *Gateway) ListDirectory(executionContext context.Context, token string, repository gitrepo.RepositoryRef, directoryPath string) ([]DirectoryEntry, error) {
	client, callContext, cancel, prepareError := gateway.prepare(executionContext, OperationListDirectory, token)
	if prepareError != nil {
		return nil, prepareError
	}
	defer cancel()

	normalizedPath := normalizeContentPath(directoryPath)
	gateway.logCall(OperationListDirectory, zap.String(repositoryFieldNameConstant, repository.String()), zap.String(pathFieldNameConstant, normalizedPath))
	fileContent, directoryContent, _, callError := client.Repositories.GetContents(callContext, repository.Owner, repository.Name, normalizedPath, &gh.RepositoryContentGetOptions{})
	if callError != nil {
		return nil, gateway.classify(OperationListDirectory, callError, classificationOptions{})
	}
	if fileContent != nil {
		return nil, GatewayError{Operation: OperationListDirectory, ErrorKind: outcome.ErrorKindNotFound, Cause: pathError(normalizedPath, pathIsFileMessageConstant)}
	}

	entries := make([]DirectoryEntry, 0, len(directoryContent))
	for _, content := range directoryContent {
		entry := DirectoryEntry{Name: content.GetName(), Path: content.GetPath(), Kind: EntryKindFile}
		if content.GetType() == contentTypeDirectoryConstant {
			entry.Kind = EntryKindDirectory
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ReadFile returns the decoded content of the file at path.
func (gateway *Gateway) ReadFile(executionContext context.Context, token string, repository gitrepo.RepositoryRef, filePath string) (string, error) {
	client, callContext, cancel, prepareError := gateway.prepare(executionContext, OperationReadFile, token)
	if prepareError != nil {
		return "", prepareError
	}
	defer cancel()

	normalizedPath := normalizeContentPath(filePath)
	gateway.logCall(OperationReadFile, zap.String(repositoryFieldNameConstant, repository.String()), zap.String(pathFieldNameConstant, normalizedPath))
	fileContent, _, _, callError := client.Repositories.GetContents(callContext, repository.Owner, repository.Name, normalizedPath, &gh.RepositoryContentGetOptions{})
	if callError != nil {
		return "", gateway.classify(OperationReadFile, callError, classificationOptions{})
	}
	if fileContent == nil {
		return "", GatewayError{Operation: OperationReadFile, ErrorKind: outcome.ErrorKindNotFound, Cause: pathError(normalizedPath, pathIsDirectoryMessageConstant)}
	}

	decodedContent, decodeError := fileContent.GetContent()
	if decodeError != nil {
		return "", GatewayError{Operation: OperationReadFile, ErrorKind: outcome.ErrorKindTransient, Cause: decodeError}
	}
	return decodedContent, nil
}

// CreateFile commits a new file and returns the commit SHA.
func (gateway *Gateway) CreateFile(executionContext context.Context, token string, repository gitrepo.RepositoryRef, request CreateFileRequest) (string, error) {
	if validationError := validateCreateFileRequest(request); validationError != nil {
		return "", validationError
	}

	client, callContext, cancel, prepareError := gateway.prepare(executionContext, OperationCreateFile, token)
	if prepareError != nil {
		return "", prepareError
	}
	defer cancel()

	normalizedPath := normalizeContentPath(request.Path)
	gateway.logCall(OperationCreateFile, zap.String(repositoryFieldNameConstant, repository.String()), zap.String(pathFieldNameConstant, normalizedPath))
	fileOptions := &gh.RepositoryContentFileOptions{
		Message: gh.String(strings.TrimSpace(request.CommitMessage)),
		Content: request.Content,
		Branch:  gh.String(strings.TrimSpace(request.Branch)),
	}
	if fileOptions.Content == nil {
		fileOptions.Content = []byte{}
	}

	response, _, callError := client.Repositories.CreateFile(callContext, repository.Owner, repository.Name, normalizedPath, fileOptions)
	if callError != nil {
		return "", gateway.classify(OperationCreateFile, callError, classificationOptions{
			conflictStatuses: map[int]struct{}{http.StatusConflict: {}, http.StatusUnprocessableEntity: {}},
		})
	}
	return response.Commit.GetSHA(), nil
}

// DeleteRepository irreversibly deletes the repository.
func (gateway *Gateway) DeleteRepository(executionContext context.Context, token string, repository gitrepo.RepositoryRef) error {
	client, callContext, cancel, prepareError := gateway.prepare(executionContext, OperationDeleteRepository, token)
	if prepareError != nil {
		return prepareError
	}
	defer cancel()

	gateway.logCall(OperationDeleteRepository, zap.String(repositoryFieldNameConstant, repository.String()))
	_, callError := client.Repositories.Delete(callContext, repository.Owner, repository.Name)
	if callError != nil {
		return gateway.classify(OperationDeleteRepository, callError, classificationOptions{})
	}
	return nil
}

func (gateway *Gateway) prepare(executionContext context.Context, operation OperationName, token string) (*gh.Client, context.Context, context.CancelFunc, error) {
	if gateway == nil {
		return nil, nil, nil, GatewayError{Operation: operation, ErrorKind: outcome.ErrorKindTransient, Cause: ErrGatewayNotConfigured}
	}
	trimmedToken := strings.TrimSpace(token)
	if len(trimmedToken) == 0 {
		return nil, nil, nil, GatewayError{Operation: operation, ErrorKind: outcome.ErrorKindCredentialMissing, Cause: ErrCredentialRequired}
	}

	if executionContext == nil {
		executionContext = context.Background()
	}
	callContext, cancel := executionContext, context.CancelFunc(func() {})
	if gateway.timeout > 0 {
		callContext, cancel = context.WithTimeout(executionContext, gateway.timeout)
	}

	client := gh.NewClient(NewHTTPClient(trimmedToken, gateway.httpClient))
	client.UserAgent = userAgentConstant
	if gateway.baseURL != nil {
		copiedBaseURL := *gateway.baseURL
		client.BaseURL = &copiedBaseURL
	}
	return client, callContext, cancel, nil
}

func (gateway *Gateway) classify(operation OperationName, callError error, options classificationOptions) error {
	classifiedError := classifyError(operation, callError, options, gateway.clock)
	gateway.logger.Debug(gatewayCallFailedMessageConstant, zap.String(operationFieldNameConstant, string(operation)), zap.Error(classifiedError))
	return classifiedError
}

func (gateway *Gateway) logCall(operation OperationName, fields ...zap.Field) {
	gateway.logger.Debug(gatewayCallMessageConstant, append([]zap.Field{zap.String(operationFieldNameConstant, string(operation))}, fields...)...)
}

func validateCreateFileRequest(request CreateFileRequest) error {
	switch {
	case len(normalizeContentPath(request.Path)) == 0:
		return outcome.ValidationError{FieldName: createFilePathFieldConstant, Message: requiredValueMessageConstant}
	case len(strings.TrimSpace(request.Branch)) == 0:
		return outcome.ValidationError{FieldName: createFileBranchFieldConstant, Message: requiredValueMessageConstant}
	case len(strings.TrimSpace(request.CommitMessage)) == 0:
		return outcome.ValidationError{FieldName: createFileMessageFieldConstant, Message: requiredValueMessageConstant}
	default:
		return nil
	}
}

func normalizeContentPath(contentPath string) string {
	return strings.Trim(strings.TrimSpace(contentPath), pathSeparatorConstant)
}

func repositoryReference(repository *gh.Repository) gitrepo.RepositoryRef {
	if parsedReference, parseError := gitrepo.ParseRepositoryRef(repository.GetFullName()); parseError == nil {
		return parsedReference
	}
	return gitrepo.RepositoryRef{Owner: repository.GetOwner().GetLogin(), Name: repository.GetName()}
}
