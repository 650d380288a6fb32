package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/temirov/gitmaster/internal/dispatcher"
	"github.com/temirov/gitmaster/internal/outcome"
)

const (
	gitCommandUseConstant              = "git <action> [value...]"
	gitCommandShortConstant            = "Run a git action in the working directory"
	gitCommandLongConstant             = "git runs one catalogue action (see `gitmaster git actions`) with the configured git executable. Values that start with a dash follow `--`."
	gitCommandExampleConstant          = "  gitmaster git status\n  gitmaster git commit \"Fix typo\"\n  gitmaster git reset -- --hard HEAD~1"
	gitActionsCommandUseConstant       = "actions"
	gitActionsCommandShortConstant     = "List the available git actions"
	gitActionLineTemplateConstant      = "%s\t%s\t%s\n"
	gitActionValueRequiredConstant     = "value required"
	gitActionValueBranchTemplate       = "branch, default %s"
	gitActionValueBranchRequiredConst  = "branch required"
	gitActionNoValueConstant           = "-"
	gitValueSeparatorConstant          = " "
	unknownGitActionTemplateConstant   = "unknown git action %q"
	gitUserActionTemplateConstant      = "git %s"
	tabWriterMinimumWidthConstant      = 0
	tabWriterTabWidthConstant          = 4
	tabWriterPaddingConstant           = 2
	tabWriterPaddingCharacterConstant  = ' '
	tabWriterFlagsConstant             = 0
	gitActionNameArgumentIndexConstant = 0
)

func (application *Application) newGitCommand() *cobra.Command {
	gitCommand := &cobra.Command{
		Use:     gitCommandUseConstant,
		Short:   gitCommandShortConstant,
		Long:    gitCommandLongConstant,
		Example: gitCommandExampleConstant,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runGitAction(command, arguments[gitActionNameArgumentIndexConstant], arguments[gitActionNameArgumentIndexConstant+1:])
		},
	}

	gitCommand.AddCommand(&cobra.Command{
		Use:   gitActionsCommandUseConstant,
		Short: gitActionsCommandShortConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.listGitActions()
		},
	})
	return gitCommand
}

func (application *Application) runGitAction(command *cobra.Command, actionName string, valueArguments []string) error {
	services, servicesError := application.ensureServices()
	if servicesError != nil {
		return servicesError
	}
	services.recordUserAction(fmt.Sprintf(gitUserActionTemplateConstant, strings.TrimSpace(strings.Join(append([]string{actionName}, valueArguments...), gitValueSeparatorConstant))))

	if !isGitAction(services.dispatcher.Actions(), actionName) {
		return application.render(outcome.FromError(outcome.ValidationError{Message: fmt.Sprintf(unknownGitActionTemplateConstant, actionName)}))
	}

	result := services.dispatcher.Dispatch(command.Context(), actionName, dispatcher.Parameters{
		Value: strings.Join(valueArguments, gitValueSeparatorConstant),
	})
	return application.render(result)
}

func (application *Application) listGitActions() error {
	services, servicesError := application.ensureServices()
	if servicesError != nil {
		return servicesError
	}

	tableWriter := tabwriter.NewWriter(application.output, tabWriterMinimumWidthConstant, tabWriterTabWidthConstant, tabWriterPaddingConstant, tabWriterPaddingCharacterConstant, tabWriterFlagsConstant)
	for _, descriptor := range services.dispatcher.Actions() {
		if descriptor.Category != dispatcher.ActionCategoryGit {
			continue
		}
		if _, writeError := fmt.Fprintf(tableWriter, gitActionLineTemplateConstant, descriptor.Name, describeValueRequirement(descriptor, services.dispatcher.DefaultBranch()), descriptor.Description); writeError != nil {
			return writeError
		}
	}
	return tableWriter.Flush()
}

func describeValueRequirement(descriptor dispatcher.ActionDescriptor, defaultBranch string) string {
	switch descriptor.ValueRequirement {
	case dispatcher.ValueRequired:
		return gitActionValueRequiredConstant
	case dispatcher.ValueBranch:
		if len(defaultBranch) == 0 {
			return gitActionValueBranchRequiredConst
		}
		return fmt.Sprintf(gitActionValueBranchTemplate, defaultBranch)
	default:
		return gitActionNoValueConstant
	}
}

func isGitAction(descriptors []dispatcher.ActionDescriptor, actionName string) bool {
	for _, descriptor := range descriptors {
		if string(descriptor.Name) == actionName {
			return descriptor.Category == dispatcher.ActionCategoryGit
		}
	}
	return false
}
