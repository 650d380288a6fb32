package ui

import (
	"strings"
)

const (
	glossaryNameSeparatorsConstant = "-_"
	glossaryWordSeparatorConstant  = " "
)

// GlossaryTerm pairs a git concept with a short definition.
type GlossaryTerm struct {
	Name       string
	Definition string
}

var glossaryTerms = []GlossaryTerm{
	{Name: "Branch", Definition: "A branch is a parallel version of a repository, allowing multiple lines of development."},
	{Name: "Centralized Workflow", Definition: "A workflow where a single repository serves as the central hub for all changes."},
	{Name: "Feature Branch Workflow", Definition: "Developers create feature branches for new features, merging them into main when complete."},
	{Name: "Forking", Definition: "Forking creates a personal copy of a repository to work on independently."},
	{Name: "Gitflow Workflow", Definition: "A branching model with main, develop, feature, release, and hotfix branches."},
	{Name: "HEAD", Definition: "HEAD is a pointer to the current branch or commit you are working on."},
	{Name: "Hook", Definition: "Scripts that run automatically on certain Git events, like pre-commit or post-merge."},
	{Name: "Main", Definition: "The default branch in a Git repository, often called 'main' or 'master'."},
	{Name: "Pull Request", Definition: "A request to merge changes from one branch to another, often reviewed by collaborators."},
	{Name: "Repository", Definition: "A storage location for a project's files and version history."},
	{Name: "Tag", Definition: "A reference to a specific commit, often used to mark release points."},
	{Name: "Version Control", Definition: "A system to manage changes to code or documents over time."},
	{Name: "Working Tree", Definition: "The current state of files in your working directory, including tracked and untracked files."},
}

// GlossaryTerms returns the glossary in display order.
func GlossaryTerms() []GlossaryTerm {
	return append([]GlossaryTerm{}, glossaryTerms...)
}

// LookupGlossaryTerm finds a term by name ignoring case, hyphens and underscores.
func LookupGlossaryTerm(name string) (GlossaryTerm, bool) {
	normalizedName := normalizeGlossaryName(name)
	if len(normalizedName) == 0 {
		return GlossaryTerm{}, false
	}
	for _, term := range glossaryTerms {
		if normalizeGlossaryName(term.Name) == normalizedName {
			return term, true
		}
	}
	return GlossaryTerm{}, false
}

func normalizeGlossaryName(name string) string {
	separatedName := strings.Map(func(character rune) rune {
		if strings.ContainsRune(glossaryNameSeparatorsConstant, character) {
			return ' '
		}
		return character
	}, name)
	return strings.ToLower(strings.Join(strings.Fields(separatedName), glossaryWordSeparatorConstant))
}
