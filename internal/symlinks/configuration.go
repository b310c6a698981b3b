package symlinks

import "strings"

const (
	configurationSourceRootKeySuffixConstant = "source_root"
	configurationTargetRootKeySuffixConstant = "target_root"
	configurationOverwriteKeySuffixConstant  = "overwrite"
	configurationKeySeparatorConstant        = "."
	defaultSourceRootConstant                = "~/dotfiles"
	defaultTargetRootConstant                = "~"
)

// LinkEntryConfiguration names one configured link target.
type LinkEntryConfiguration struct {
	Source string `mapstructure:"source"`
	Target string `mapstructure:"target"`
}

// CommandConfiguration captures configuration values for the link command.
type CommandConfiguration struct {
	SourceRoot string                   `mapstructure:"source_root"`
	TargetRoot string                   `mapstructure:"target_root"`
	Overwrite  bool                     `mapstructure:"overwrite"`
	Entries    []LinkEntryConfiguration `mapstructure:"entries"`
}

// DefaultCommandConfiguration provides baseline configuration values for linking.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		SourceRoot: defaultSourceRootConstant,
		TargetRoot: defaultTargetRootConstant,
		Overwrite:  false,
		Entries:    nil,
	}
}

// DefaultConfigurationValues exposes linking defaults keyed for configuration files.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKey + configurationKeySeparatorConstant + configurationSourceRootKeySuffixConstant: defaults.SourceRoot,
		configurationKey + configurationKeySeparatorConstant + configurationTargetRootKeySuffixConstant: defaults.TargetRoot,
		configurationKey + configurationKeySeparatorConstant + configurationOverwriteKeySuffixConstant:  defaults.Overwrite,
	}
}

// sanitize trims configuration values and restores defaults for empty roots.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.SourceRoot = trimmedOrDefault(configuration.SourceRoot, defaults.SourceRoot)
	sanitized.TargetRoot = trimmedOrDefault(configuration.TargetRoot, defaults.TargetRoot)

	sanitizedEntries := make([]LinkEntryConfiguration, 0, len(configuration.Entries))
	for _, configuredEntry := range configuration.Entries {
		trimmedSource := strings.TrimSpace(configuredEntry.Source)
		if len(trimmedSource) == 0 {
			continue
		}
		sanitizedEntries = append(sanitizedEntries, LinkEntryConfiguration{
			Source: trimmedSource,
			Target: strings.TrimSpace(configuredEntry.Target),
		})
	}
	sanitized.Entries = sanitizedEntries

	return sanitized
}

func trimmedOrDefault(candidateValue string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(candidateValue)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}
