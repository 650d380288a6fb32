package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/gitmaster/internal/outcome"
	"github.com/temirov/gitmaster/internal/ui"
)

const (
	glossaryCommandUseConstant            = "glossary [term]"
	glossaryCommandShortConstant          = "Explain git terminology"
	glossaryCommandExampleConstant        = "  gitmaster glossary\n  gitmaster glossary \"pull request\""
	unknownGlossaryTermTemplateConstant   = "unknown glossary term %q"
	glossaryUserActionConstant            = "glossary"
	glossaryTermUserActionTemplate        = "glossary %s"
	glossaryTermArgumentSeparatorConstant = " "
)

func (application *Application) newGlossaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:     glossaryCommandUseConstant,
		Short:   glossaryCommandShortConstant,
		Example: glossaryCommandExampleConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runGlossary(strings.Join(arguments, glossaryTermArgumentSeparatorConstant))
		},
	}
}

func (application *Application) runGlossary(termName string) error {
	services, servicesError := application.ensureServices()
	if servicesError != nil {
		return servicesError
	}

	if len(strings.TrimSpace(termName)) == 0 {
		services.recordUserAction(glossaryUserActionConstant)
		for _, term := range ui.GlossaryTerms() {
			if renderError := services.renderer.RenderGlossaryTerm(term); renderError != nil {
				return renderError
			}
		}
		return nil
	}

	services.recordUserAction(fmt.Sprintf(glossaryTermUserActionTemplate, termName))
	term, found := ui.LookupGlossaryTerm(termName)
	if !found {
		return application.render(outcome.FromError(outcome.ValidationError{Message: fmt.Sprintf(unknownGlossaryTermTemplateConstant, termName)}))
	}
	return services.renderer.RenderGlossaryTerm(term)
}
