package symlinks

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitdot/internal/filesystem"
	"github.com/temirov/gitdot/internal/shared"
	pathutils "github.com/temirov/gitdot/internal/utils/path"
)

const (
	commandUseConstant                    = "link [entries...]"
	commandShortDescriptionConstant       = "Symlink dotfiles from the repository into the home directory"
	commandLongDescriptionConstant        = "link creates symbolic links in the target root pointing at files in the dotfiles repository. Entries given as arguments override the configured entry list."
	commandExecutionErrorTemplateConstant = "symlink placement failed: %w"
	noEntriesMessageConstant              = "no link entries configured"
	flagSourceRootNameConstant            = "source-root"
	flagSourceRootDescriptionConstant     = "Directory containing the dotfiles to link"
	flagTargetRootNameConstant            = "target-root"
	flagTargetRootDescriptionConstant     = "Directory in which links are created"
	flagOverwriteNameConstant             = "overwrite"
	flagOverwriteDescriptionConstant      = "Replace existing files or stale links at the target paths"
)

// ErrNoLinkEntries indicates that neither arguments nor configuration named anything to link.
var ErrNoLinkEntries = errors.New(noEntriesMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the effective linking configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the Cobra command for symlink placement.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	FileSystem            shared.FileSystem
	HomeDirectoryProvider pathutils.HomeDirectoryProvider
}

// Build constructs the link command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	defaultConfiguration := builder.resolveConfiguration()

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagSourceRootNameConstant, defaultConfiguration.SourceRoot, flagSourceRootDescriptionConstant)
	command.Flags().String(flagTargetRootNameConstant, defaultConfiguration.TargetRoot, flagTargetRootDescriptionConstant)
	command.Flags().Bool(flagOverwriteNameConstant, defaultConfiguration.Overwrite, flagOverwriteDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	sourceRootValue, _ := command.Flags().GetString(flagSourceRootNameConstant)
	targetRootValue, _ := command.Flags().GetString(flagTargetRootNameConstant)
	overwriteValue, _ := command.Flags().GetBool(flagOverwriteNameConstant)

	linkEntries := builder.resolveEntries(arguments)
	if len(linkEntries) == 0 {
		return ErrNoLinkEntries
	}

	homeExpander := pathutils.NewHomeExpanderWithProvider(builder.HomeDirectoryProvider)

	service, serviceError := NewService(Dependencies{
		FileSystem:   builder.resolveFileSystem(),
		Logger:       builder.resolveLogger(),
		OutputWriter: command.OutOrStdout(),
	})
	if serviceError != nil {
		return serviceError
	}

	linkOptions := LinkOptions{
		SourceRoot: homeExpander.Expand(sourceRootValue),
		TargetRoot: homeExpander.Expand(targetRootValue),
		Entries:    linkEntries,
		Overwrite:  overwriteValue,
	}

	_, linkError := service.Link(linkOptions)
	if linkError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, linkError)
	}

	return nil
}

func (builder *CommandBuilder) resolveEntries(arguments []string) []LinkEntry {
	if len(arguments) > 0 {
		argumentEntries := make([]LinkEntry, 0, len(arguments))
		for _, argumentEntry := range arguments {
			argumentEntries = append(argumentEntries, LinkEntry{SourceRelativePath: argumentEntry})
		}
		return argumentEntries
	}

	configuredEntries := builder.resolveConfiguration().Entries
	linkEntries := make([]LinkEntry, 0, len(configuredEntries))
	for _, configuredEntry := range configuredEntries {
		linkEntries = append(linkEntries, LinkEntry{
			SourceRelativePath: configuredEntry.Source,
			TargetRelativePath: configuredEntry.Target,
		})
	}
	return linkEntries
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
