package cli_test

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const (
	fakeValidTokenConstant     = "valid-token"
	fakeLoginConstant          = "octocat"
	fakeReadmeContentConstant  = "# Hello\n"
	fakeCommitSHAConstant      = "7638417db6d59f3c431d3e1f261cc637155684cd"
	fakeContentsPrefixConstant = "/repos/octocat/hello/contents/"
	fakeRepositoryPathConstant = "/repos/octocat/hello"
)

// fakeGitHub serves the subset of the GitHub REST API used by the github commands.
type fakeGitHub struct {
	mutex         sync.Mutex
	createdPaths  []string
	deletedCount  int
	existingPaths map[string]struct{}
}

func newFakeGitHub(testInstance *testing.T) (*fakeGitHub, *httptest.Server) {
	testInstance.Helper()
	fake := &fakeGitHub{existingPaths: map[string]struct{}{"README.md": {}}}
	server := httptest.NewServer(http.HandlerFunc(fake.serveHTTP))
	testInstance.Cleanup(server.Close)
	return fake, server
}

func (fake *fakeGitHub) serveHTTP(responseWriter http.ResponseWriter, request *http.Request) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	responseWriter.Header().Set("Content-Type", "application/json")
	if request.Header.Get("Authorization") != "Bearer "+fakeValidTokenConstant {
		responseWriter.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(responseWriter, `{"message":"Bad credentials"}`)
		return
	}

	switch {
	case request.Method == http.MethodGet && request.URL.Path == "/user":
		_, _ = fmt.Fprintf(responseWriter, `{"login":%q}`, fakeLoginConstant)
	case request.Method == http.MethodGet && request.URL.Path == "/user/repos":
		_, _ = fmt.Fprint(responseWriter, `[{"name":"hello","full_name":"octocat/hello","owner":{"login":"octocat"}},{"name":"alpha","full_name":"octo-org/alpha","owner":{"login":"octo-org"}}]`)
	case request.Method == http.MethodGet && request.URL.Path == fakeContentsPrefixConstant:
		_, _ = fmt.Fprint(responseWriter, `[{"type":"file","name":"README.md","path":"README.md"},{"type":"dir","name":"src","path":"src"}]`)
	case request.Method == http.MethodGet && request.URL.Path == fakeContentsPrefixConstant+"src":
		_, _ = fmt.Fprint(responseWriter, `[{"type":"file","name":"main.go","path":"src/main.go"}]`)
	case request.Method == http.MethodGet && request.URL.Path == fakeContentsPrefixConstant+"README.md":
		encodedContent := base64.StdEncoding.EncodeToString([]byte(fakeReadmeContentConstant))
		_, _ = fmt.Fprintf(responseWriter, `{"type":"file","encoding":"base64","name":"README.md","path":"README.md","content":%q}`, encodedContent)
	case request.Method == http.MethodPut && strings.HasPrefix(request.URL.Path, fakeContentsPrefixConstant):
		contentPath := strings.TrimPrefix(request.URL.Path, fakeContentsPrefixConstant)
		if _, exists := fake.existingPaths[contentPath]; exists {
			responseWriter.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = fmt.Fprint(responseWriter, `{"message":"Invalid request.\n\n\"sha\" wasn't supplied."}`)
			return
		}
		fake.existingPaths[contentPath] = struct{}{}
		fake.createdPaths = append(fake.createdPaths, contentPath)
		responseWriter.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprintf(responseWriter, `{"content":{"path":%q},"commit":{"sha":%q}}`, contentPath, fakeCommitSHAConstant)
	case request.Method == http.MethodDelete && request.URL.Path == fakeRepositoryPathConstant:
		fake.deletedCount++
		responseWriter.WriteHeader(http.StatusNoContent)
	default:
		responseWriter.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprint(responseWriter, `{"message":"Not Found"}`)
	}
}

func (fake *fakeGitHub) created() []string {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return append([]string{}, fake.createdPaths...)
}

func (fake *fakeGitHub) deletions() int {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return fake.deletedCount
}
