package gitrepo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const (
	originRemoteNameConstant             = "origin"
	workingTreeOpenErrorTemplateConstant = "failed to open repository at %s: %w"
	workingTreeHeadErrorTemplateConstant = "failed to resolve HEAD at %s: %w"
	detachedHeadLengthConstant           = 7
)

// ErrNotARepository indicates that the inspected directory is not inside a git working tree.
var ErrNotARepository = errors.New("not a git repository")

// WorkingTreeSummary describes the checked-out state of a local repository.
type WorkingTreeSummary struct {
	BranchName      string
	DetachedHead    bool
	OriginURL       string
	OriginReference *RepositoryRef
}

// WorkingTreeInspector reads local repository state without invoking the git executable.
type WorkingTreeInspector struct{}

// NewWorkingTreeInspector constructs a WorkingTreeInspector.
func NewWorkingTreeInspector() WorkingTreeInspector {
	return WorkingTreeInspector{}
}

// Inspect reports the branch and origin remote of the repository containing directory.
func (inspector WorkingTreeInspector) Inspect(directory string) (WorkingTreeSummary, error) {
	repository, openError := git.PlainOpenWithOptions(directory, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return WorkingTreeSummary{}, ErrNotARepository
		}
		return WorkingTreeSummary{}, fmt.Errorf(workingTreeOpenErrorTemplateConstant, directory, openError)
	}

	summary := WorkingTreeSummary{}
	headReference, headError := repository.Reference(plumbing.HEAD, false)
	if headError != nil {
		return WorkingTreeSummary{}, fmt.Errorf(workingTreeHeadErrorTemplateConstant, directory, headError)
	}

	switch {
	case headReference.Type() == plumbing.SymbolicReference && headReference.Target().IsBranch():
		summary.BranchName = headReference.Target().Short()
	default:
		summary.DetachedHead = true
		detachedHash := headReference.Hash().String()
		if len(detachedHash) > detachedHeadLengthConstant {
			detachedHash = detachedHash[:detachedHeadLengthConstant]
		}
		summary.BranchName = detachedHash
	}

	originRemote, remoteError := repository.Remote(originRemoteNameConstant)
	if remoteError != nil || originRemote == nil || len(originRemote.Config().URLs) == 0 {
		return summary, nil
	}

	summary.OriginURL = strings.TrimSpace(originRemote.Config().URLs[0])
	if parsedRemote, parseError := ParseRemoteURL(summary.OriginURL); parseError == nil {
		originReference := parsedRemote.Repository
		summary.OriginReference = &originReference
	}
	return summary, nil
}
