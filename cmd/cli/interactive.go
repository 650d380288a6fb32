package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitmaster/internal/dispatcher"
	"github.com/temirov/gitmaster/internal/githubapi"
	"github.com/temirov/gitmaster/internal/outcome"
	"github.com/temirov/gitmaster/internal/ui"
)

const (
	interactiveCommandUseConstant       = "interactive"
	interactiveCommandShortConstant     = "Start the interactive menus"
	mainMenuTitleConstant               = "gitmaster"
	mainMenuGitLabelTemplateConstant    = "Git commands (%s)"
	mainMenuGitHubLabelConstant         = "GitHub"
	mainMenuGlossaryLabelConstant       = "Git terminology"
	mainMenuQuitLabelConstant           = "Quit"
	menuValueGit                        = "git"
	menuValueGitHub                     = "github"
	menuValueGlossary                   = "glossary"
	menuValueQuit                       = "quit"
	menuValueBack                       = "back"
	menuValueConnect                    = "connect"
	menuValueRepositories               = "repositories"
	menuValueReset                      = "reset"
	menuValueBrowse                     = "browse"
	menuValueAddFile                    = "add-file"
	menuValueClone                      = "clone"
	menuValueDelete                     = "delete"
	menuBackLabelConstant               = "Back"
	gitMenuTitleTemplateConstant        = "Git commands (%s)"
	gitActionLabelTemplateConstant      = "%s - %s"
	gitHubMenuTitleConstant             = "GitHub"
	gitHubConnectLabelConstant          = "Connect with a token"
	gitHubRepositoriesLabelConstant     = "Repositories"
	gitHubResetLabelConstant            = "Reset token"
	repositoriesMenuTitleConstant       = "Repositories"
	repositoryMenuTitleTemplateConstant = "Repository %s"
	repositoryBrowseLabelConstant       = "Browse contents"
	repositoryAddFileLabelConstant      = "Add file"
	repositoryCloneLabelConstant        = "Clone into working directory"
	repositoryDeleteLabelConstant       = "Delete repository"
	browseTitleTemplateConstant         = "Contents of %s/%s"
	browseBackLabelConstant             = ".. (back)"
	browseDirectoryLabelPrefixConstant  = "[DIR] "
	browseDirectoryValuePrefixConstant  = "d:"
	browseFileValuePrefixConstant       = "f:"
	glossaryMenuTitleConstant           = "Git terminology"
	localFilePromptConstant             = "Local file path"
	repositoryPathPromptConstant        = "Path in repository"
	branchPromptConstant                = "Branch"
	commitMessagePromptConstant         = "Commit message"
	branchLabelTemplateConstant         = "on branch %s"
	detachedHeadLabelConstant           = "detached HEAD"
	notARepositoryLabelConstant         = "not a git repository"
	configurationNoticeTemplateConstant = "Using configuration %s\n"
	environmentOverridesNoticeTemplate  = "Environment overrides: %s\n"
	overrideSeparatorConstant           = ", "
	menuUserActionTemplateConstant      = "menu %s"
	interactiveUserActionTemplate       = "%s %s"
	renderFailedMessageConstant         = "unable to render action result"
)

type interactiveSession struct {
	executionContext context.Context
	application      *Application
	services         *applicationServices
	prompter         ui.Prompter
}

func (application *Application) newInteractiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   interactiveCommandUseConstant,
		Short: interactiveCommandShortConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runInteractive(command)
		},
	}
}

func (application *Application) runInteractive(command *cobra.Command) error {
	services, servicesError := application.ensureServices()
	if servicesError != nil {
		return servicesError
	}

	if metadata, found := application.commandContextAccessor.LoadedConfiguration(command.Context()); found {
		if len(metadata.ConfigFileUsed) > 0 {
			if _, writeError := fmt.Fprintf(application.output, configurationNoticeTemplateConstant, metadata.ConfigFileUsed); writeError != nil {
				return writeError
			}
		}
		if len(metadata.EnvironmentOverrides) > 0 {
			if _, writeError := fmt.Fprintf(application.output, environmentOverridesNoticeTemplate, strings.Join(metadata.EnvironmentOverrides, overrideSeparatorConstant)); writeError != nil {
				return writeError
			}
		}
	}

	session := &interactiveSession{
		executionContext: command.Context(),
		application:      application,
		services:         services,
		prompter:         application.newPrompter(),
	}
	session.restore()
	return session.ignoreAbort(session.mainMenu())
}

func (session *interactiveSession) restore() {
	connection, attempted := session.application.restoreSession(session.executionContext, session.services)
	if !attempted || connection.Result.Kind == outcome.ErrorKindCredentialMissing {
		return
	}
	session.show(connection.Result)
}

func (session *interactiveSession) mainMenu() error {
	for {
		selection, selectError := session.prompter.Select(mainMenuTitleConstant, []ui.SelectOption{
			{Label: fmt.Sprintf(mainMenuGitLabelTemplateConstant, session.workingTreeLabel()), Value: menuValueGit},
			{Label: mainMenuGitHubLabelConstant, Value: menuValueGitHub},
			{Label: mainMenuGlossaryLabelConstant, Value: menuValueGlossary},
			{Label: mainMenuQuitLabelConstant, Value: menuValueQuit},
		})
		if selectError != nil {
			return selectError
		}
		session.services.recordUserAction(fmt.Sprintf(menuUserActionTemplateConstant, selection))

		var menuError error
		switch selection {
		case menuValueGit:
			menuError = session.gitMenu()
		case menuValueGitHub:
			menuError = session.gitHubMenu()
		case menuValueGlossary:
			menuError = session.glossaryMenu()
		default:
			return nil
		}
		if menuError := session.ignoreAbort(menuError); menuError != nil {
			return menuError
		}
	}
}

func (session *interactiveSession) gitMenu() error {
	defaultBranch := session.services.dispatcher.DefaultBranch()
	descriptorsByName := map[string]dispatcher.ActionDescriptor{}
	options := []ui.SelectOption{}
	for _, descriptor := range session.services.dispatcher.Actions() {
		if descriptor.Category != dispatcher.ActionCategoryGit {
			continue
		}
		descriptorsByName[string(descriptor.Name)] = descriptor
		options = append(options, ui.SelectOption{Label: fmt.Sprintf(gitActionLabelTemplateConstant, descriptor.Name, descriptor.Description), Value: string(descriptor.Name)})
	}
	options = append(options, ui.SelectOption{Label: menuBackLabelConstant, Value: menuValueBack})

	for {
		selection, selectError := session.prompter.Select(fmt.Sprintf(gitMenuTitleTemplateConstant, session.workingTreeLabel()), options)
		if selectError != nil {
			return selectError
		}
		descriptor, known := descriptorsByName[selection]
		if !known {
			return nil
		}

		value := ""
		switch descriptor.ValueRequirement {
		case dispatcher.ValueRequired:
			value, selectError = session.prompter.Input(descriptor.ValuePrompt, "")
		case dispatcher.ValueBranch:
			value, selectError = session.prompter.Input(descriptor.ValuePrompt, defaultBranch)
		}
		if selectError != nil {
			if errors.Is(selectError, ui.ErrPromptAborted) {
				continue
			}
			return selectError
		}

		session.services.recordUserAction(fmt.Sprintf(interactiveUserActionTemplate, menuValueGit, selection))
		session.show(session.services.dispatcher.Dispatch(session.executionContext, selection, dispatcher.Parameters{Value: value}))
	}
}

func (session *interactiveSession) gitHubMenu() error {
	for {
		options := []ui.SelectOption{{Label: gitHubConnectLabelConstant, Value: menuValueConnect}}
		if _, connected := session.services.dispatcher.CredentialCell().Get(); connected {
			options = []ui.SelectOption{
				{Label: gitHubRepositoriesLabelConstant, Value: menuValueRepositories},
				{Label: gitHubResetLabelConstant, Value: menuValueReset},
			}
		}
		options = append(options, ui.SelectOption{Label: menuBackLabelConstant, Value: menuValueBack})

		selection, selectError := session.prompter.Select(gitHubMenuTitleConstant, options)
		if selectError != nil {
			return selectError
		}
		session.services.recordUserAction(fmt.Sprintf(interactiveUserActionTemplate, menuValueGitHub, selection))

		switch selection {
		case menuValueConnect:
			token, promptError := session.prompter.Password(tokenPromptTitleConstant)
			if promptError != nil {
				if errors.Is(promptError, ui.ErrPromptAborted) {
					continue
				}
				return promptError
			}
			session.show(withRepositoryListing(session.services.dispatcher.Connect(session.executionContext, token)))
		case menuValueRepositories:
			if repositoriesError := session.ignoreAbort(session.repositoriesMenu()); repositoriesError != nil {
				return repositoriesError
			}
		case menuValueReset:
			session.show(session.services.dispatcher.ResetCredential())
		default:
			return nil
		}
	}
}

func (session *interactiveSession) repositoriesMenu() error {
	repositories, result := session.services.dispatcher.ListRepositories(session.executionContext)
	if !result.Succeeded {
		session.show(result)
		return nil
	}

	options := make([]ui.SelectOption, 0, len(repositories)+1)
	for _, repository := range repositories {
		options = append(options, ui.SelectOption{Label: repository.String(), Value: repository.String()})
	}
	options = append(options, ui.SelectOption{Label: menuBackLabelConstant, Value: menuValueBack})

	selection, selectError := session.prompter.Select(repositoriesMenuTitleConstant, options)
	if selectError != nil || selection == menuValueBack {
		return selectError
	}
	return session.repositoryMenu(selection)
}

func (session *interactiveSession) repositoryMenu(repositoryIdentifier string) error {
	for {
		selection, selectError := session.prompter.Select(fmt.Sprintf(repositoryMenuTitleTemplateConstant, repositoryIdentifier), []ui.SelectOption{
			{Label: repositoryBrowseLabelConstant, Value: menuValueBrowse},
			{Label: repositoryAddFileLabelConstant, Value: menuValueAddFile},
			{Label: repositoryCloneLabelConstant, Value: menuValueClone},
			{Label: repositoryDeleteLabelConstant, Value: menuValueDelete},
			{Label: menuBackLabelConstant, Value: menuValueBack},
		})
		if selectError != nil {
			return selectError
		}
		session.services.recordUserAction(fmt.Sprintf(interactiveUserActionTemplate, repositoryIdentifier, selection))

		var actionError error
		switch selection {
		case menuValueBrowse:
			actionError = session.browse(repositoryIdentifier)
		case menuValueAddFile:
			actionError = session.addFile(repositoryIdentifier)
		case menuValueClone:
			session.show(session.application.cloneRepository(session.executionContext, session.services, repositoryIdentifier, ""))
		case menuValueDelete:
			deleted, deleteError := session.deleteRepository(repositoryIdentifier)
			if deleteError != nil || deleted {
				return deleteError
			}
		default:
			return nil
		}
		if actionError := session.ignoreAbort(actionError); actionError != nil {
			return actionError
		}
	}
}

func (session *interactiveSession) browse(repositoryIdentifier string) error {
	currentPath := ""
	for {
		entries, result := session.services.dispatcher.Navigate(session.executionContext, repositoryIdentifier, currentPath)
		if !result.Succeeded {
			session.show(result)
			return nil
		}

		selection, selectError := session.prompter.Select(fmt.Sprintf(browseTitleTemplateConstant, repositoryIdentifier, currentPath), browseOptions(entries))
		if selectError != nil {
			return selectError
		}

		switch {
		case selection == menuValueBack:
			parentPath, hasParent := dispatcher.ParentDirectory(currentPath)
			if !hasParent {
				return nil
			}
			currentPath = parentPath
		case len(selection) > len(browseDirectoryValuePrefixConstant) && selection[:len(browseDirectoryValuePrefixConstant)] == browseDirectoryValuePrefixConstant:
			currentPath = selection[len(browseDirectoryValuePrefixConstant):]
		default:
			filePath := selection[len(browseFileValuePrefixConstant):]
			fileResult := session.services.dispatcher.ReadFile(session.executionContext, repositoryIdentifier, filePath)
			if !fileResult.Succeeded {
				session.show(fileResult)
				continue
			}
			if noteError := session.prompter.Note(filePath, fileResult.Output); noteError != nil {
				return noteError
			}
		}
	}
}

func (session *interactiveSession) addFile(repositoryIdentifier string) error {
	localFilePath, promptError := session.prompter.Input(localFilePromptConstant, "")
	if promptError != nil {
		return promptError
	}
	repositoryPath, promptError := session.prompter.Input(repositoryPathPromptConstant, defaultRepositoryPath(localFilePath))
	if promptError != nil {
		return promptError
	}
	branch, promptError := session.prompter.Input(branchPromptConstant, session.services.dispatcher.DefaultBranch())
	if promptError != nil {
		return promptError
	}
	commitMessage, promptError := session.prompter.Input(commitMessagePromptConstant, session.application.configuration.Tools.GitHub.DefaultCommitMessage)
	if promptError != nil {
		return promptError
	}

	session.show(session.services.dispatcher.Dispatch(session.executionContext, string(dispatcher.ActionGitHubAddFile), dispatcher.Parameters{
		Repository:     repositoryIdentifier,
		LocalFilePath:  localFilePath,
		RepositoryPath: repositoryPath,
		Branch:         branch,
		CommitMessage:  commitMessage,
	}))
	return nil
}

func (session *interactiveSession) deleteRepository(repositoryIdentifier string) (bool, error) {
	confirmed, confirmError := session.prompter.Confirm(fmt.Sprintf(deleteConfirmationTemplateConstant, repositoryIdentifier))
	if confirmError != nil {
		return false, session.ignoreAbort(confirmError)
	}
	result := session.services.dispatcher.Dispatch(session.executionContext, string(dispatcher.ActionGitHubDeleteRepository), dispatcher.Parameters{
		Repository: repositoryIdentifier,
		Confirmed:  confirmed,
	})
	session.show(result)
	return result.Succeeded, nil
}

func (session *interactiveSession) glossaryMenu() error {
	terms := ui.GlossaryTerms()
	options := make([]ui.SelectOption, 0, len(terms)+1)
	for _, term := range terms {
		options = append(options, ui.SelectOption{Label: term.Name, Value: term.Name})
	}
	options = append(options, ui.SelectOption{Label: menuBackLabelConstant, Value: menuValueBack})

	for {
		selection, selectError := session.prompter.Select(glossaryMenuTitleConstant, options)
		if selectError != nil {
			return selectError
		}
		term, found := ui.LookupGlossaryTerm(selection)
		if !found {
			return nil
		}
		if noteError := session.prompter.Note(term.Name, term.Definition); noteError != nil {
			return noteError
		}
	}
}

func (session *interactiveSession) workingTreeLabel() string {
	summary, inspectError := session.services.inspector.Inspect(session.services.workingDirectory)
	switch {
	case inspectError != nil:
		return notARepositoryLabelConstant
	case summary.DetachedHead:
		return detachedHeadLabelConstant
	default:
		return fmt.Sprintf(branchLabelTemplateConstant, summary.BranchName)
	}
}

// show renders result and keeps the session running regardless of its outcome.
func (session *interactiveSession) show(result outcome.ActionResult) {
	if renderError := session.services.renderer.Render(result); renderError != nil {
		session.application.logger.Warn(renderFailedMessageConstant, zap.Error(renderError))
	}
}

func (session *interactiveSession) ignoreAbort(err error) error {
	if errors.Is(err, ui.ErrPromptAborted) {
		return nil
	}
	return err
}

func browseOptions(entries []githubapi.DirectoryEntry) []ui.SelectOption {
	options := make([]ui.SelectOption, 0, len(entries)+1)
	for _, entry := range entries {
		if entry.IsDirectory() {
			options = append(options, ui.SelectOption{Label: browseDirectoryLabelPrefixConstant + entry.Name, Value: browseDirectoryValuePrefixConstant + entry.Path})
			continue
		}
		options = append(options, ui.SelectOption{Label: entry.Name, Value: browseFileValuePrefixConstant + entry.Path})
	}
	return append(options, ui.SelectOption{Label: browseBackLabelConstant, Value: menuValueBack})
}

func defaultRepositoryPath(localFilePath string) string {
	if len(localFilePath) == 0 {
		return ""
	}
	return filepath.Base(localFilePath)
}
