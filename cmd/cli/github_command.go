package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/gitmaster/internal/dispatcher"
	"github.com/temirov/gitmaster/internal/githubauth"
	"github.com/temirov/gitmaster/internal/gitrepo"
	"github.com/temirov/gitmaster/internal/outcome"
	flagutils "github.com/temirov/gitmaster/internal/utils/flags"
)

const (
	gitHubCommandUseConstant           = "github"
	gitHubCommandShortConstant         = "Browse and modify the repositories of the connected GitHub account"
	connectCommandUseConstant          = "connect [token]"
	connectCommandShortConstant        = "Verify a personal access token, save it and list its repositories"
	resetCommandUseConstant            = "reset"
	resetCommandShortConstant          = "Forget the saved GitHub token"
	reposCommandUseConstant            = "repos"
	reposCommandShortConstant          = "List the repositories of the connected account"
	browseCommandUseConstant           = "browse <owner/name> [path]"
	browseCommandShortConstant         = "List a directory of a repository"
	viewCommandUseConstant             = "view <owner/name> <path>"
	viewCommandShortConstant           = "Print a file of a repository"
	addFileCommandUseConstant          = "add-file <owner/name>"
	addFileCommandShortConstant        = "Upload a local file to a repository as a new file"
	deleteCommandUseConstant           = "delete <owner/name>"
	deleteCommandShortConstant         = "Delete a repository permanently"
	cloneCommandUseConstant            = "clone <owner/name>"
	cloneCommandShortConstant          = "Clone a repository into the working directory"
	localFlagNameConstant              = "local"
	localFlagUsageConstant             = "Path of the local file to upload."
	pathFlagNameConstant               = "path"
	pathFlagUsageConstant              = "Destination path inside the repository (defaults to the local file name)."
	branchFlagNameConstant             = "branch"
	branchFlagUsageConstant            = "Branch receiving the commit (defaults to tools.git.default_branch)."
	messageFlagNameConstant            = "message"
	messageFlagUsageConstant           = "Commit message (defaults to tools.github.default_commit_message)."
	yesFlagNameConstant                = "yes"
	yesFlagUsageConstant               = "Confirm the deletion without prompting."
	protocolFlagNameConstant           = "protocol"
	protocolFlagUsageConstant          = "Remote protocol used for the clone URL (defaults to tools.github.clone_protocol)."
	tokenPromptTitleConstant           = "GitHub personal access token"
	deleteConfirmationTemplateConstant = "Delete repository %s permanently?"
	repositoryArgumentIndexConstant    = 0
	pathArgumentIndexConstant          = 1
	connectUserActionConstant          = "github connect"
	resetUserActionConstant            = "github reset"
	reposUserActionConstant            = "github repos"
	browseUserActionTemplateConstant   = "github browse %s /%s"
	viewUserActionTemplateConstant     = "github view %s /%s"
	addFileUserActionTemplateConstant  = "github add-file %s %s -> %s"
	deleteUserActionTemplateConstant   = "github delete %s"
	cloneUserActionTemplateConstant    = "github clone %s"
	connectedWithRepositoriesTemplate  = "%s\n%s"
	shortFlagYesConstant               = "y"
	invalidCloneProtocolTemplate       = "unsupported clone protocol %q"
	cloneProtocolFieldNameConstant     = "protocol"
	repositoryListingSeparatorConstant = "\n"
	tokenArgumentIndexConstant         = 0
	repositoryFieldNameConstant        = "repository"
)

type addFileOptions struct {
	localFilePath  string
	repositoryPath string
	branch         string
	commitMessage  string
}

func (application *Application) newGitHubCommand() *cobra.Command {
	gitHubCommand := &cobra.Command{
		Use:   gitHubCommandUseConstant,
		Short: gitHubCommandShortConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	gitHubCommand.AddCommand(
		&cobra.Command{
			Use:   connectCommandUseConstant,
			Short: connectCommandShortConstant,
			Args:  cobra.MaximumNArgs(1),
			RunE: func(command *cobra.Command, arguments []string) error {
				token := ""
				if len(arguments) > 0 {
					token = arguments[tokenArgumentIndexConstant]
				}
				return application.runConnect(command.Context(), token)
			},
		},
		&cobra.Command{
			Use:   resetCommandUseConstant,
			Short: resetCommandShortConstant,
			Args:  cobra.NoArgs,
			RunE: func(command *cobra.Command, arguments []string) error {
				return application.runReset()
			},
		},
		&cobra.Command{
			Use:   reposCommandUseConstant,
			Short: reposCommandShortConstant,
			Args:  cobra.NoArgs,
			RunE: func(command *cobra.Command, arguments []string) error {
				return application.runRepositories(command.Context())
			},
		},
		&cobra.Command{
			Use:   browseCommandUseConstant,
			Short: browseCommandShortConstant,
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(command *cobra.Command, arguments []string) error {
				directoryPath := ""
				if len(arguments) > pathArgumentIndexConstant {
					directoryPath = arguments[pathArgumentIndexConstant]
				}
				return application.runBrowse(command.Context(), arguments[repositoryArgumentIndexConstant], directoryPath)
			},
		},
		&cobra.Command{
			Use:   viewCommandUseConstant,
			Short: viewCommandShortConstant,
			Args:  cobra.ExactArgs(2),
			RunE: func(command *cobra.Command, arguments []string) error {
				return application.runView(command.Context(), arguments[repositoryArgumentIndexConstant], arguments[pathArgumentIndexConstant])
			},
		},
		application.newAddFileCommand(),
		application.newDeleteCommand(),
		application.newCloneCommand(),
	)
	return gitHubCommand
}

func (application *Application) newAddFileCommand() *cobra.Command {
	options := addFileOptions{}
	addFileCommand := &cobra.Command{
		Use:   addFileCommandUseConstant,
		Short: addFileCommandShortConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runAddFile(command.Context(), arguments[repositoryArgumentIndexConstant], options)
		},
	}
	addFileCommand.Flags().StringVar(&options.localFilePath, localFlagNameConstant, "", localFlagUsageConstant)
	addFileCommand.Flags().StringVar(&options.repositoryPath, pathFlagNameConstant, "", pathFlagUsageConstant)
	addFileCommand.Flags().StringVar(&options.branch, branchFlagNameConstant, "", branchFlagUsageConstant)
	addFileCommand.Flags().StringVar(&options.commitMessage, messageFlagNameConstant, "", messageFlagUsageConstant)
	return addFileCommand
}

func (application *Application) newDeleteCommand() *cobra.Command {
	var confirmed bool
	deleteCommand := &cobra.Command{
		Use:   deleteCommandUseConstant,
		Short: deleteCommandShortConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runDelete(command.Context(), arguments[repositoryArgumentIndexConstant], confirmed)
		},
	}
	flagutils.AddToggleFlag(deleteCommand.Flags(), &confirmed, yesFlagNameConstant, shortFlagYesConstant, false, yesFlagUsageConstant)
	return deleteCommand
}

func (application *Application) newCloneCommand() *cobra.Command {
	var protocol string
	cloneCommand := &cobra.Command{
		Use:   cloneCommandUseConstant,
		Short: cloneCommandShortConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runClone(command.Context(), arguments[repositoryArgumentIndexConstant], protocol)
		},
	}
	cloneCommand.Flags().StringVar(&protocol, protocolFlagNameConstant, "", flagutils.FormatChoiceUsage(string(gitrepo.RemoteProtocolHTTPS), supportedCloneProtocols(), protocolFlagUsageConstant))
	return cloneCommand
}

func (application *Application) runConnect(executionContext context.Context, token string) error {
	services, servicesError := application.ensureServices()
	if servicesError != nil {
		return servicesError
	}
	services.recordUserAction(connectUserActionConstant)

	trimmedToken := strings.TrimSpace(token)
	if len(trimmedToken) == 0 {
		if tokenSource, found := githubauth.ResolveToken(application.environment); found {
			trimmedToken = tokenSource.Credential.Token
		}
	}
	if len(trimmedToken) == 0 {
		promptedToken, promptError := application.newPrompter().Password(tokenPromptTitleConstant)
		if promptError != nil {
			return promptError
		}
		trimmedToken = promptedToken
	}

	connection := services.dispatcher.Connect(executionContext, trimmedToken)
	return application.render(withRepositoryListing(connection))
}

func (application *Application) runReset() error {
	services, servicesError := application.ensureServices()
	if servicesError != nil {
		return servicesError
	}
	services.recordUserAction(resetUserActionConstant)
	return application.render(services.dispatcher.ResetCredential())
}

func (application *Application) runRepositories(executionContext context.Context) error {
	services, restoreError := application.connectedServices(executionContext)
	if restoreError != nil {
		return restoreError
	}
	services.recordUserAction(reposUserActionConstant)
	_, result := services.dispatcher.ListRepositories(executionContext)
	return application.render(result)
}

func (application *Application) runBrowse(executionContext context.Context, repositoryIdentifier string, directoryPath string) error {
	services, restoreError := application.connectedServices(executionContext)
	if restoreError != nil {
		return restoreError
	}
	services.recordUserAction(fmt.Sprintf(browseUserActionTemplateConstant, repositoryIdentifier, dispatcher.NormalizeRepositoryPath(directoryPath)))
	_, result := services.dispatcher.Navigate(executionContext, repositoryIdentifier, directoryPath)
	return application.render(result)
}

func (application *Application) runView(executionContext context.Context, repositoryIdentifier string, filePath string) error {
	services, restoreError := application.connectedServices(executionContext)
	if restoreError != nil {
		return restoreError
	}
	services.recordUserAction(fmt.Sprintf(viewUserActionTemplateConstant, repositoryIdentifier, dispatcher.NormalizeRepositoryPath(filePath)))
	return application.render(services.dispatcher.ReadFile(executionContext, repositoryIdentifier, filePath))
}

func (application *Application) runAddFile(executionContext context.Context, repositoryIdentifier string, options addFileOptions) error {
	services, restoreError := application.connectedServices(executionContext)
	if restoreError != nil {
		return restoreError
	}

	repositoryPath := options.repositoryPath
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		repositoryPath = defaultRepositoryPath(options.localFilePath)
	}
	commitMessage := options.commitMessage
	if len(strings.TrimSpace(commitMessage)) == 0 {
		commitMessage = application.configuration.Tools.GitHub.DefaultCommitMessage
	}
	services.recordUserAction(fmt.Sprintf(addFileUserActionTemplateConstant, repositoryIdentifier, options.localFilePath, repositoryPath))
	result := services.dispatcher.Dispatch(executionContext, string(dispatcher.ActionGitHubAddFile), dispatcher.Parameters{
		Repository:     repositoryIdentifier,
		LocalFilePath:  options.localFilePath,
		RepositoryPath: repositoryPath,
		Branch:         options.branch,
		CommitMessage:  commitMessage,
	})
	return application.render(result)
}

func (application *Application) runDelete(executionContext context.Context, repositoryIdentifier string, confirmed bool) error {
	services, restoreError := application.connectedServices(executionContext)
	if restoreError != nil {
		return restoreError
	}
	services.recordUserAction(fmt.Sprintf(deleteUserActionTemplateConstant, repositoryIdentifier))

	if !confirmed {
		answer, promptError := application.newPrompter().Confirm(fmt.Sprintf(deleteConfirmationTemplateConstant, repositoryIdentifier))
		if promptError != nil {
			return promptError
		}
		confirmed = answer
	}
	result := services.dispatcher.Dispatch(executionContext, string(dispatcher.ActionGitHubDeleteRepository), dispatcher.Parameters{
		Repository: repositoryIdentifier,
		Confirmed:  confirmed,
	})
	return application.render(result)
}

func (application *Application) runClone(executionContext context.Context, repositoryIdentifier string, protocol string) error {
	services, servicesError := application.ensureServices()
	if servicesError != nil {
		return servicesError
	}
	services.recordUserAction(fmt.Sprintf(cloneUserActionTemplateConstant, repositoryIdentifier))
	return application.render(application.cloneRepository(executionContext, services, repositoryIdentifier, protocol))
}

// cloneRepository builds the clone URL for repositoryIdentifier and runs the clone action.
func (application *Application) cloneRepository(executionContext context.Context, services *applicationServices, repositoryIdentifier string, protocol string) outcome.ActionResult {
	repository, parseError := gitrepo.ParseRepositoryRef(repositoryIdentifier)
	if parseError != nil {
		return outcome.FromError(outcome.ValidationError{FieldName: repositoryFieldNameConstant, Message: parseError.Error()})
	}

	requestedProtocol := strings.TrimSpace(protocol)
	if len(requestedProtocol) == 0 {
		requestedProtocol = strings.TrimSpace(application.configuration.Tools.GitHub.CloneProtocol)
	}
	selectedProtocol, supported := flagutils.MatchChoice(requestedProtocol, supportedCloneProtocols())
	if !supported {
		return outcome.FromError(outcome.ValidationError{FieldName: cloneProtocolFieldNameConstant, Message: fmt.Sprintf(invalidCloneProtocolTemplate, requestedProtocol)})
	}
	remoteURL, formatError := gitrepo.FormatRemoteURL(gitrepo.RemoteURL{
		Protocol:   gitrepo.RemoteProtocol(selectedProtocol),
		Host:       application.configuration.Tools.GitHub.CloneHost,
		Repository: repository,
	})
	if formatError != nil {
		return outcome.FromError(outcome.ValidationError{FieldName: repositoryFieldNameConstant, Message: formatError.Error()})
	}
	return services.dispatcher.Dispatch(executionContext, string(dispatcher.ActionClone), dispatcher.Parameters{Value: remoteURL})
}

// connectedServices returns the services after restoring a saved or environment credential.
// A missing credential is left for the dispatcher to report; other restore failures are rendered.
func (application *Application) connectedServices(executionContext context.Context) (*applicationServices, error) {
	services, servicesError := application.ensureServices()
	if servicesError != nil {
		return nil, servicesError
	}
	connection, attempted := application.restoreSession(executionContext, services)
	if !attempted || connection.Result.Succeeded || connection.Result.Kind == outcome.ErrorKindCredentialMissing {
		return services, nil
	}
	return nil, application.render(connection.Result)
}

func supportedCloneProtocols() []string {
	return []string{string(gitrepo.RemoteProtocolHTTPS), string(gitrepo.RemoteProtocolSSH)}
}

func withRepositoryListing(connection dispatcher.Connection) outcome.ActionResult {
	if !connection.Result.Succeeded || len(connection.Repositories) == 0 {
		return connection.Result
	}
	repositoryNames := make([]string, 0, len(connection.Repositories))
	for _, repository := range connection.Repositories {
		repositoryNames = append(repositoryNames, repository.String())
	}
	result := connection.Result
	result.Output = fmt.Sprintf(connectedWithRepositoriesTemplate, result.Output, strings.Join(repositoryNames, repositoryListingSeparatorConstant))
	return result
}
