package githubauth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitmaster/internal/githubauth"
)

func TestResolveToken(testInstance *testing.T) {
	testCases := []struct {
		name             string
		environment      map[string]string
		expectFound      bool
		expectedToken    string
		expectedVariable string
	}{
		{
			name:             "cli_token_preferred",
			environment:      map[string]string{githubauth.EnvGitHubCLIToken: "cli", githubauth.EnvGitHubToken: "actions"},
			expectFound:      true,
			expectedToken:    "cli",
			expectedVariable: githubauth.EnvGitHubCLIToken,
		},
		{
			name:             "blank_values_skipped",
			environment:      map[string]string{githubauth.EnvGitHubCLIToken: "  ", githubauth.EnvGitHubAPIToken: " api \n"},
			expectFound:      true,
			expectedToken:    "api",
			expectedVariable: githubauth.EnvGitHubAPIToken,
		},
		{
			name:        "nothing_set",
			environment: map[string]string{"HOME": "/tmp"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			source, found := githubauth.ResolveToken(githubauth.MapLookup(testCase.environment))
			require.Equal(testInstance, testCase.expectFound, found)
			require.Equal(testInstance, testCase.expectedToken, source.Credential.Token)
			require.Equal(testInstance, testCase.expectedVariable, source.VariableName)
		})
	}
}

func TestResolveTokenFromProcessEnvironment(testInstance *testing.T) {
	testInstance.Setenv(githubauth.EnvGitHubCLIToken, "")
	testInstance.Setenv(githubauth.EnvGitHubToken, "process-token")

	source, found := githubauth.ResolveToken(nil)
	require.True(testInstance, found)
	require.Equal(testInstance, "process-token", source.Credential.Token)
}
