package githubauth

import (
	"os"
	"strings"

	"github.com/temirov/gitmaster/internal/credentials"
)

// Environment variable names consulted for a fallback GitHub token, in order of preference.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// EnvironmentLookup resolves one environment variable.
type EnvironmentLookup func(key string) (string, bool)

// TokenSource reports where a fallback credential was found.
type TokenSource struct {
	Credential   credentials.RemoteCredential
	VariableName string
}

// ResolveToken returns the first non-blank token among GH_TOKEN, GITHUB_TOKEN and GITHUB_API_TOKEN.
// A nil lookup reads the process environment.
func ResolveToken(lookup EnvironmentLookup) (TokenSource, bool) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, variableName := range tokenPreference {
		value, exists := lookup(variableName)
		if !exists {
			continue
		}
		trimmedValue := strings.TrimSpace(value)
		if len(trimmedValue) == 0 {
			continue
		}
		return TokenSource{Credential: credentials.RemoteCredential{Token: trimmedValue}, VariableName: variableName}, true
	}
	return TokenSource{}, false
}

// MapLookup adapts a map to an EnvironmentLookup.
func MapLookup(environment map[string]string) EnvironmentLookup {
	return func(key string) (string, bool) {
		value, exists := environment[key]
		return value, exists
	}
}
