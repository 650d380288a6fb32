package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitmaster/internal/gitrepo"
)

func TestParseRepositoryRef(testInstance *testing.T) {
	testCases := []struct {
		name              string
		identifier        string
		expectedReference gitrepo.RepositoryRef
		expectError       bool
	}{
		{name: "valid", identifier: "octocat/hello-world", expectedReference: gitrepo.RepositoryRef{Owner: "octocat", Name: "hello-world"}},
		{name: "surrounding_whitespace", identifier: "  octocat/hello  ", expectedReference: gitrepo.RepositoryRef{Owner: "octocat", Name: "hello"}},
		{name: "missing_separator", identifier: "noslash", expectError: true},
		{name: "empty_owner", identifier: "/name", expectError: true},
		{name: "empty_name", identifier: "owner/", expectError: true},
		{name: "nested_name", identifier: "owner/name/extra", expectError: true},
		{name: "empty", identifier: "", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			reference, parseError := gitrepo.ParseRepositoryRef(testCase.identifier)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				require.IsType(testInstance, gitrepo.RepositoryReferenceError{}, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedReference, reference)
			require.Equal(testInstance, testCase.expectedReference.Owner+"/"+testCase.expectedReference.Name, reference.String())
		})
	}
}
