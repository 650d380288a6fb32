package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/gitmaster/internal/githubauth"
	"github.com/temirov/gitmaster/internal/outcome"
	"github.com/temirov/gitmaster/internal/ui"
	"github.com/temirov/gitmaster/internal/utils"
	flagutils "github.com/temirov/gitmaster/internal/utils/flags"
)

const (
	applicationNameConstant                 = "gitmaster"
	applicationShortDescriptionConstant     = "Terminal front-end for git and GitHub"
	applicationLongDescriptionConstant      = "gitmaster runs common git subcommands in a working directory and browses or modifies the repositories of one connected GitHub account. Without a subcommand it starts the interactive menus when attached to a terminal."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant               = "GITMASTER"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationOverridesFieldConstant     = "environment_overrides"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	rootCommandInfoMessageConstant          = "gitmaster CLI executed"
	rootCommandDebugMessageConstant         = "gitmaster CLI diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentCountConstant           = "argument_count"
	logFieldArgumentsConstant               = "arguments"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	defaultConfigurationSearchPathConstant  = "."
	errorOutputTemplateConstant             = "Error: %v\n"
	actionFailedMessageTemplateConstant     = "action failed with exit code %d"
	genericErrorExitCodeConstant            = 1
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	AuditLog  string `mapstructure:"audit_log"`
}

// ApplicationToolsConfiguration holds configuration for the git and GitHub integrations.
type ApplicationToolsConfiguration struct {
	Git    GitToolConfiguration    `mapstructure:"git"`
	GitHub GitHubToolConfiguration `mapstructure:"github"`
}

// GitToolConfiguration configures how git subcommands are executed.
type GitToolConfiguration struct {
	Executable       string        `mapstructure:"executable"`
	WorkingDirectory string        `mapstructure:"working_directory"`
	DefaultBranch    string        `mapstructure:"default_branch"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// GitHubToolConfiguration configures the GitHub REST integration.
type GitHubToolConfiguration struct {
	APIURL               string        `mapstructure:"api_url"`
	CloneHost            string        `mapstructure:"clone_host"`
	CloneProtocol        string        `mapstructure:"clone_protocol"`
	CredentialFile       string        `mapstructure:"credential_file"`
	DefaultCommitMessage string        `mapstructure:"default_commit_message"`
	Timeout              time.Duration `mapstructure:"timeout"`
}

// ActionFailedError reports that a rendered action finished unsuccessfully.
type ActionFailedError struct {
	ExitCode int
}

// Error describes the failure.
func (actionFailedError ActionFailedError) Error() string {
	return fmt.Sprintf(actionFailedMessageTemplateConstant, actionFailedError.ExitCode)
}

// Application wires the Cobra root command, configuration loader, structured logger and action services.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
	input                  io.Reader
	output                 io.Writer
	errorOutput            io.Writer
	environment            githubauth.EnvironmentLookup
	services               *applicationServices
	prompter               ui.Prompter
}

// NewApplication assembles a fully wired CLI application instance bound to the provided streams.
func NewApplication(input io.Reader, output io.Writer, errorOutput io.Writer) *Application {
	if input == nil {
		input = strings.NewReader("")
	}
	if output == nil {
		output = io.Discard
	}
	if errorOutput == nil {
		errorOutput = io.Discard
	}

	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactoryWithOutput(errorOutput),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		input:                  input,
		output:                 output,
		errorOutput:            errorOutput,
		environment:            os.LookupEnv,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.SetIn(input)
	cobraCommand.SetOut(output)
	cobraCommand.SetErr(errorOutput)
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", flagutils.FormatChoiceUsage(string(utils.LogLevelWarn), supportedLogLevels(), logLevelFlagUsageConstant))
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", flagutils.FormatChoiceUsage(string(utils.LogFormatConsole), supportedLogFormats(), logFormatFlagUsageConstant))

	cobraCommand.AddCommand(
		application.newGitCommand(),
		application.newGitHubCommand(),
		application.newGlossaryCommand(),
		application.newInteractiveCommand(),
	)

	application.rootCommand = cobraCommand

	return application
}

// Run executes the application with os.Args-style arguments and returns the process exit code.
func Run(arguments []string, input io.Reader, output io.Writer, errorOutput io.Writer) int {
	application := NewApplication(input, output, errorOutput)
	commandArguments := []string{}
	if len(arguments) > 1 {
		commandArguments = arguments[1:]
	}
	return application.ExecuteArguments(commandArguments)
}

// ExecuteArguments runs the command hierarchy with the provided arguments and maps the outcome to an exit code.
func (application *Application) ExecuteArguments(arguments []string) int {
	application.rootCommand.SetArgs(flagutils.NormalizeToggleArguments(arguments))
	executionError := application.Execute()

	var actionFailedError ActionFailedError
	switch {
	case executionError == nil:
		return 0
	case errors.As(executionError, &actionFailedError):
		return actionFailedError.ExitCode
	default:
		fmt.Fprintf(application.errorOutput, errorOutputTemplateConstant, executionError)
		return genericErrorExitCodeConstant
	}
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	application.closeServices()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelWarn),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.Strings(configurationOverridesFieldConstant, application.configurationMetadata.EnvironmentOverrides),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithLoadedConfiguration(command.Context(), application.configurationMetadata)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if len(arguments) == 0 && application.inputIsTerminal() {
		return application.runInteractive(command)
	}

	return command.Help()
}

// render prints result and converts an unsuccessful result into ActionFailedError.
func (application *Application) render(result outcome.ActionResult) error {
	services, servicesError := application.ensureServices()
	if servicesError != nil {
		return servicesError
	}
	if renderError := services.renderer.Render(result); renderError != nil {
		return renderError
	}
	if result.Succeeded {
		return nil
	}
	return ActionFailedError{ExitCode: ui.ExitCode(result)}
}

// newPrompter returns the session prompter: huh forms on a terminal, line prompts otherwise.
func (application *Application) newPrompter() ui.Prompter {
	if application.prompter != nil {
		return application.prompter
	}
	if application.inputIsTerminal() {
		application.prompter = ui.NewFormPrompter(application.input, application.output)
	} else {
		application.prompter = ui.NewLinePrompter(application.input, application.output)
	}
	return application.prompter
}

func (application *Application) inputIsTerminal() bool {
	inputFile, isFile := application.input.(*os.File)
	if !isFile {
		return false
	}
	return isatty.IsTerminal(inputFile.Fd()) || isatty.IsCygwinTerminal(inputFile.Fd())
}

func (application *Application) outputIsTerminal() bool {
	outputFile, isFile := application.output.(*os.File)
	if !isFile {
		return false
	}
	return isatty.IsTerminal(outputFile.Fd()) || isatty.IsCygwinTerminal(outputFile.Fd())
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

func supportedLogLevels() []string {
	return []string{string(utils.LogLevelDebug), string(utils.LogLevelInfo), string(utils.LogLevelWarn), string(utils.LogLevelError)}
}

func supportedLogFormats() []string {
	return []string{string(utils.LogFormatStructured), string(utils.LogFormatConsole)}
}
