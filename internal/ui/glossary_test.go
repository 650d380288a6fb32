package ui_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitmaster/internal/ui"
)

func TestGlossaryTermsAreComplete(testInstance *testing.T) {
	terms := ui.GlossaryTerms()
	require.Len(testInstance, terms, 13)

	seenNames := map[string]struct{}{}
	for _, term := range terms {
		require.NotEmpty(testInstance, term.Definition, term.Name)
		_, duplicate := seenNames[term.Name]
		require.False(testInstance, duplicate, term.Name)
		seenNames[term.Name] = struct{}{}
	}

	terms[0].Name = "mutated"
	require.Equal(testInstance, "Branch", ui.GlossaryTerms()[0].Name)
}

func TestLookupGlossaryTerm(testInstance *testing.T) {
	testCases := []struct {
		name         string
		query        string
		expectedName string
		expectFound  bool
	}{
		{name: "exact", query: "HEAD", expectedName: "HEAD", expectFound: true},
		{name: "case_insensitive", query: "pull request", expectedName: "Pull Request", expectFound: true},
		{name: "hyphenated", query: "working-tree", expectedName: "Working Tree", expectFound: true},
		{name: "extra_spaces", query: "  version   control ", expectedName: "Version Control", expectFound: true},
		{name: "unknown", query: "stash", expectFound: false},
		{name: "blank", query: "   ", expectFound: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			term, found := ui.LookupGlossaryTerm(testCase.query)
			require.Equal(testInstance, testCase.expectFound, found)
			if testCase.expectFound {
				require.Equal(testInstance, testCase.expectedName, term.Name)
			}
		})
	}
}
