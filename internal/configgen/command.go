package configgen

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitdot/internal/filesystem"
	"github.com/temirov/gitdot/internal/shared"
	pathutils "github.com/temirov/gitdot/internal/utils/path"
)

const (
	commandUseConstant                    = "generate"
	commandShortDescriptionConstant       = "Render .gitconfig from the repository template"
	commandLongDescriptionConstant        = "generate renders the dotfiles gitconfig template to its destination, substituting the repository and home directory paths. Any existing destination file is backed up first."
	commandExecutionErrorTemplateConstant = "configuration generation failed: %w"
	unexpectedArgumentsMessageConstant    = "generate does not accept positional arguments"
	flagTemplateNameConstant              = "template"
	flagTemplateDescriptionConstant       = "Path to the gitconfig template"
	flagOutputNameConstant                = "output"
	flagOutputDescriptionConstant         = "Destination path for the rendered configuration"
	flagRepositoryNameConstant            = "repository"
	flagRepositoryDescriptionConstant     = "Path to the dotfiles repository substituted for {{REPO_PATH}}"
	repositoryPathTokenConstant           = "REPO_PATH"
	homeDirectoryTokenConstant            = "HOME_DIR"
	homeDirectoryLookupErrorTemplate      = "unable to determine home directory: %w"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the effective generation configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the Cobra command for configuration generation.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	FileSystem            shared.FileSystem
	Clock                 shared.Clock
	HomeDirectoryProvider pathutils.HomeDirectoryProvider
}

// Build constructs the generate command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	defaultConfiguration := builder.resolveConfiguration()

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagTemplateNameConstant, defaultConfiguration.TemplatePath, flagTemplateDescriptionConstant)
	command.Flags().String(flagOutputNameConstant, defaultConfiguration.OutputPath, flagOutputDescriptionConstant)
	command.Flags().String(flagRepositoryNameConstant, defaultConfiguration.RepositoryPath, flagRepositoryDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	templateValue, _ := command.Flags().GetString(flagTemplateNameConstant)
	outputValue, _ := command.Flags().GetString(flagOutputNameConstant)
	repositoryValue, _ := command.Flags().GetString(flagRepositoryNameConstant)

	homeExpander := pathutils.NewHomeExpanderWithProvider(builder.resolveHomeDirectoryProvider())

	homeDirectory, homeLookupError := builder.resolveHomeDirectoryProvider()()
	if homeLookupError != nil {
		return fmt.Errorf(homeDirectoryLookupErrorTemplate, homeLookupError)
	}

	repositoryPath := homeExpander.Expand(strings.TrimSpace(repositoryValue))

	service, serviceError := NewService(Dependencies{
		FileSystem:   builder.resolveFileSystem(),
		Clock:        builder.resolveClock(),
		Logger:       builder.resolveLogger(),
		OutputWriter: command.OutOrStdout(),
	})
	if serviceError != nil {
		return serviceError
	}

	generateOptions := GenerateOptions{
		TemplatePath: homeExpander.Expand(strings.TrimSpace(templateValue)),
		OutputPath:   homeExpander.Expand(strings.TrimSpace(outputValue)),
		Substitutions: map[string]string{
			repositoryPathTokenConstant: repositoryPath,
			homeDirectoryTokenConstant:  homeDirectory,
		},
	}

	_, generationError := service.Generate(generateOptions)
	if generationError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, generationError)
	}

	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveFileSystem() shared.FileSystem {
	if builder.FileSystem != nil {
		return builder.FileSystem
	}
	return filesystem.NewOSFileSystem()
}

func (builder *CommandBuilder) resolveClock() shared.Clock {
	if builder.Clock != nil {
		return builder.Clock
	}
	return shared.SystemClock{}
}

func (builder *CommandBuilder) resolveHomeDirectoryProvider() pathutils.HomeDirectoryProvider {
	if builder.HomeDirectoryProvider != nil {
		return builder.HomeDirectoryProvider
	}
	return os.UserHomeDir
}
