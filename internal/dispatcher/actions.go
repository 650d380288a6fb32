package dispatcher

import (
	"github.com/temirov/gitmaster/internal/execshell"
	"github.com/temirov/gitmaster/internal/outcome"
)

// ActionName identifies an entry of the action catalogue.
type ActionName string

// Git actions.
const (
	ActionAdd         ActionName = ActionName("add")
	ActionBranch      ActionName = ActionName("branch")
	ActionCheckout    ActionName = ActionName("checkout")
	ActionClean       ActionName = ActionName("clean")
	ActionClone       ActionName = ActionName("clone")
	ActionCommit      ActionName = ActionName("commit")
	ActionCommitAmend ActionName = ActionName("commit-amend")
	ActionConfig      ActionName = ActionName("config")
	ActionFetch       ActionName = ActionName("fetch")
	ActionInit        ActionName = ActionName("init")
	ActionLog         ActionName = ActionName("log")
	ActionMerge       ActionName = ActionName("merge")
	ActionPull        ActionName = ActionName("pull")
	ActionPush        ActionName = ActionName("push")
	ActionRebase      ActionName = ActionName("rebase")
	ActionReflog      ActionName = ActionName("reflog")
	ActionRemote      ActionName = ActionName("remote")
	ActionReset       ActionName = ActionName("reset")
	ActionRevert      ActionName = ActionName("revert")
	ActionStatus      ActionName = ActionName("status")
)

// GitHub actions.
const (
	ActionGitHubAddFile          ActionName = ActionName("github-add-file")
	ActionGitHubDeleteRepository ActionName = ActionName("github-delete-repository")
	ActionGitHubViewFile         ActionName = ActionName("github-view-file")
)

// Session operations reported to TransitionObserver values.
const (
	ActionGitHubConnect          ActionName = ActionName("github-connect")
	ActionGitHubListRepositories ActionName = ActionName("github-list-repositories")
	ActionGitHubNavigate         ActionName = ActionName("github-navigate")
)

// ActionCategory groups actions for presentation.
type ActionCategory string

// Action categories.
const (
	ActionCategoryGit    ActionCategory = ActionCategory("git")
	ActionCategoryGitHub ActionCategory = ActionCategory("github")
)

// ValueRequirement describes how an action uses Parameters.Value.
type ValueRequirement int

// Value requirements.
const (
	ValueIgnored ValueRequirement = iota
	ValueRequired
	ValueBranch
)

// ActionDescriptor describes a catalogue entry to the presentation layer.
type ActionDescriptor struct {
	Name             ActionName
	Category         ActionCategory
	Description      string
	ValuePrompt      string
	ValueRequirement ValueRequirement
}

// gitInvocation is either a pre-split argument vector or a command line split by the process runner.
type gitInvocation struct {
	arguments   []string
	commandLine string
}

type gitArgumentBuilder func(value string) (gitInvocation, error)

type actionDefinition struct {
	descriptor ActionDescriptor
	arguments  gitArgumentBuilder
}

const (
	gitAddSubcommandConstant      = "add"
	gitBranchSubcommandConstant   = "branch"
	gitCheckoutSubcommandConstant = "checkout"
	gitCleanSubcommandConstant    = "clean"
	gitCloneSubcommandConstant    = "clone"
	gitCommitSubcommandConstant   = "commit"
	gitConfigSubcommandConstant   = "config"
	gitFetchSubcommandConstant    = "fetch"
	gitInitSubcommandConstant     = "init"
	gitLogSubcommandConstant      = "log"
	gitMergeSubcommandConstant    = "merge"
	gitPullSubcommandConstant     = "pull"
	gitPushSubcommandConstant     = "push"
	gitRebaseSubcommandConstant   = "rebase"
	gitReflogSubcommandConstant   = "reflog"
	gitRemoteSubcommandConstant   = "remote"
	gitResetSubcommandConstant    = "reset"
	gitRevertSubcommandConstant   = "revert"
	gitStatusSubcommandConstant   = "status"
	gitOriginRemoteConstant       = "origin"
	gitForceDirectoriesFlag       = "-fd"
	gitMessageFlagConstant        = "-m"
	gitAmendFlagConstant          = "--amend"
	gitNoEditFlagConstant         = "--no-edit"
	gitOnelineFlagConstant        = "--oneline"
	gitVerboseFlagConstant        = "-v"
	valueFieldNameConstant        = "value"
	unsplittableValueTemplate     = "cannot split value: %v"
	commandLineSeparatorConstant  = " "
)

func fixedArguments(arguments ...string) gitArgumentBuilder {
	return func(string) (gitInvocation, error) {
		return gitInvocation{arguments: append([]string{}, arguments...)}, nil
	}
}

// splitValueArguments passes the value as a command line; values that cannot be split are rejected up front.
func splitValueArguments(subcommand string) gitArgumentBuilder {
	return func(value string) (gitInvocation, error) {
		if _, splitError := execshell.SplitArguments(value); splitError != nil {
			return gitInvocation{}, outcome.ValidationError{FieldName: valueFieldNameConstant, Message: formatSplitError(splitError)}
		}
		return gitInvocation{commandLine: subcommand + commandLineSeparatorConstant + value}, nil
	}
}

func singleValueArgument(leadingArguments ...string) gitArgumentBuilder {
	return func(value string) (gitInvocation, error) {
		return gitInvocation{arguments: append(append([]string{}, leadingArguments...), value)}, nil
	}
}

func gitCatalogue() []actionDefinition {
	return []actionDefinition{
		{descriptor: ActionDescriptor{Name: ActionAdd, Category: ActionCategoryGit, Description: "Stage files for the next commit", ValuePrompt: "Files to add", ValueRequirement: ValueRequired}, arguments: splitValueArguments(gitAddSubcommandConstant)},
		{descriptor: ActionDescriptor{Name: ActionBranch, Category: ActionCategoryGit, Description: "List local branches"}, arguments: fixedArguments(gitBranchSubcommandConstant)},
		{descriptor: ActionDescriptor{Name: ActionCheckout, Category: ActionCategoryGit, Description: "Switch branches or restore files", ValuePrompt: "Branch or path to check out", ValueRequirement: ValueRequired}, arguments: splitValueArguments(gitCheckoutSubcommandConstant)},
		{descriptor: ActionDescriptor{Name: ActionClean, Category: ActionCategoryGit, Description: "Remove untracked files and directories"}, arguments: fixedArguments(gitCleanSubcommandConstant, gitForceDirectoriesFlag)},
		{descriptor: ActionDescriptor{Name: ActionClone, Category: ActionCategoryGit, Description: "Clone a repository", ValuePrompt: "Repository URL to clone", ValueRequirement: ValueRequired}, arguments: splitValueArguments(gitCloneSubcommandConstant)},
		{descriptor: ActionDescriptor{Name: ActionCommit, Category: ActionCategoryGit, Description: "Record staged changes", ValuePrompt: "Commit message", ValueRequirement: ValueRequired}, arguments: singleValueArgument(gitCommitSubcommandConstant, gitMessageFlagConstant)},
		{descriptor: ActionDescriptor{Name: ActionCommitAmend, Category: ActionCategoryGit, Description: "Amend the last commit with staged changes"}, arguments: fixedArguments(gitCommitSubcommandConstant, gitAmendFlagConstant, gitNoEditFlagConstant)},
		{descriptor: ActionDescriptor{Name: ActionConfig, Category: ActionCategoryGit, Description: "Get or set configuration options", ValuePrompt: "Configuration arguments", ValueRequirement: ValueRequired}, arguments: splitValueArguments(gitConfigSubcommandConstant)},
		{descriptor: ActionDescriptor{Name: ActionFetch, Category: ActionCategoryGit, Description: "Download objects and refs from the remote"}, arguments: fixedArguments(gitFetchSubcommandConstant)},
		{descriptor: ActionDescriptor{Name: ActionInit, Category: ActionCategoryGit, Description: "Create an empty repository"}, arguments: fixedArguments(gitInitSubcommandConstant)},
		{descriptor: ActionDescriptor{Name: ActionLog, Category: ActionCategoryGit, Description: "Show the commit history"}, arguments: fixedArguments(gitLogSubcommandConstant, gitOnelineFlagConstant)},
		{descriptor: ActionDescriptor{Name: ActionMerge, Category: ActionCategoryGit, Description: "Merge a branch into the current branch", ValuePrompt: "Branch to merge", ValueRequirement: ValueRequired}, arguments: splitValueArguments(gitMergeSubcommandConstant)},
		{descriptor: ActionDescriptor{Name: ActionPull, Category: ActionCategoryGit, Description: "Pull a branch from origin", ValuePrompt: "Branch to pull", ValueRequirement: ValueBranch}, arguments: singleValueArgument(gitPullSubcommandConstant, gitOriginRemoteConstant)},
		{descriptor: ActionDescriptor{Name: ActionPush, Category: ActionCategoryGit, Description: "Push a branch to origin", ValuePrompt: "Branch to push", ValueRequirement: ValueBranch}, arguments: singleValueArgument(gitPushSubcommandConstant, gitOriginRemoteConstant)},
		{descriptor: ActionDescriptor{Name: ActionRebase, Category: ActionCategoryGit, Description: "Reapply commits on top of another base", ValuePrompt: "Upstream to rebase onto", ValueRequirement: ValueRequired}, arguments: splitValueArguments(gitRebaseSubcommandConstant)},
		{descriptor: ActionDescriptor{Name: ActionReflog, Category: ActionCategoryGit, Description: "Show reference updates"}, arguments: fixedArguments(gitReflogSubcommandConstant)},
		{descriptor: ActionDescriptor{Name: ActionRemote, Category: ActionCategoryGit, Description: "List remotes with their URLs"}, arguments: fixedArguments(gitRemoteSubcommandConstant, gitVerboseFlagConstant)},
		{descriptor: ActionDescriptor{Name: ActionReset, Category: ActionCategoryGit, Description: "Reset the current HEAD", ValuePrompt: "Reset arguments", ValueRequirement: ValueRequired}, arguments: splitValueArguments(gitResetSubcommandConstant)},
		{descriptor: ActionDescriptor{Name: ActionRevert, Category: ActionCategoryGit, Description: "Revert an existing commit", ValuePrompt: "Commit to revert", ValueRequirement: ValueRequired}, arguments: splitValueArguments(gitRevertSubcommandConstant)},
		{descriptor: ActionDescriptor{Name: ActionStatus, Category: ActionCategoryGit, Description: "Show the working tree status"}, arguments: fixedArguments(gitStatusSubcommandConstant)},
	}
}

func gitHubCatalogue() []ActionDescriptor {
	return []ActionDescriptor{
		{Name: ActionGitHubAddFile, Category: ActionCategoryGitHub, Description: "Upload a local file to a repository"},
		{Name: ActionGitHubDeleteRepository, Category: ActionCategoryGitHub, Description: "Delete a repository permanently"},
		{Name: ActionGitHubViewFile, Category: ActionCategoryGitHub, Description: "Show a file from a repository"},
	}
}
