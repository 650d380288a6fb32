package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitmaster/internal/gitrepo"
)

func TestParseRemoteURL(testInstance *testing.T) {
	expectedReference := gitrepo.RepositoryRef{Owner: "octocat", Name: "hello"}

	testCases := []struct {
		name             string
		remote           string
		expectedProtocol gitrepo.RemoteProtocol
		expectError      bool
	}{
		{name: "https", remote: "https://github.com/octocat/hello.git", expectedProtocol: gitrepo.RemoteProtocolHTTPS},
		{name: "https_without_suffix", remote: "https://github.com/octocat/hello", expectedProtocol: gitrepo.RemoteProtocolHTTPS},
		{name: "scp_like_ssh", remote: "git@github.com:octocat/hello.git", expectedProtocol: gitrepo.RemoteProtocolSSH},
		{name: "ssh_scheme", remote: "ssh://git@github.com/octocat/hello.git", expectedProtocol: gitrepo.RemoteProtocolSSH},
		{name: "unknown_scheme", remote: "ftp://github.com/octocat/hello", expectError: true},
		{name: "missing_repository", remote: "https://github.com/octocat", expectError: true},
		{name: "empty", remote: " ", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			remoteURL, parseError := gitrepo.ParseRemoteURL(testCase.remote)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedProtocol, remoteURL.Protocol)
			require.Equal(testInstance, gitrepo.DefaultRemoteHost, remoteURL.Host)
			require.Equal(testInstance, expectedReference, remoteURL.Repository)
		})
	}
}

func TestFormatRemoteURL(testInstance *testing.T) {
	reference := gitrepo.RepositoryRef{Owner: "octocat", Name: "hello"}

	testCases := []struct {
		name          string
		remote        gitrepo.RemoteURL
		expectedURL   string
		expectedError any
	}{
		{
			name:        "https",
			remote:      gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolHTTPS, Host: gitrepo.DefaultRemoteHost, Repository: reference},
			expectedURL: "https://github.com/octocat/hello.git",
		},
		{
			name:        "ssh",
			remote:      gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: gitrepo.DefaultRemoteHost, Repository: reference},
			expectedURL: "git@github.com:octocat/hello.git",
		},
		{
			name:          "unsupported_protocol",
			remote:        gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocol("ftp"), Host: gitrepo.DefaultRemoteHost, Repository: reference},
			expectedError: gitrepo.UnsupportedProtocolError{},
		},
		{
			name:          "missing_host",
			remote:        gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolHTTPS, Repository: reference},
			expectedError: gitrepo.RemoteURLParseError{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			formattedURL, formatError := gitrepo.FormatRemoteURL(testCase.remote)
			if testCase.expectedError != nil {
				require.Error(testInstance, formatError)
				require.IsType(testInstance, testCase.expectedError, formatError)
				return
			}
			require.NoError(testInstance, formatError)
			require.Equal(testInstance, testCase.expectedURL, formattedURL)

			parsedRemote, parseError := gitrepo.ParseRemoteURL(formattedURL)
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.remote, parsedRemote)
		})
	}
}
