package configgen

import "strings"

const (
	configurationTemplateKeySuffixConstant   = "template"
	configurationOutputKeySuffixConstant     = "output"
	configurationRepositoryKeySuffixConstant = "repository"
	configurationKeySeparatorConstant        = "."
	defaultTemplatePathConstant              = "~/dotfiles/gitconfig.template"
	defaultOutputPathConstant                = "~/.gitconfig"
	defaultRepositoryPathConstant            = "~/dotfiles"
)

// CommandConfiguration captures configuration values for the generate command.
type CommandConfiguration struct {
	TemplatePath   string `mapstructure:"template"`
	OutputPath     string `mapstructure:"output"`
	RepositoryPath string `mapstructure:"repository"`
}

// DefaultCommandConfiguration provides baseline configuration values for generation.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		TemplatePath:   defaultTemplatePathConstant,
		OutputPath:     defaultOutputPathConstant,
		RepositoryPath: defaultRepositoryPathConstant,
	}
}

// DefaultConfigurationValues exposes generation defaults keyed for configuration files.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKey + configurationKeySeparatorConstant + configurationTemplateKeySuffixConstant:   defaults.TemplatePath,
		configurationKey + configurationKeySeparatorConstant + configurationOutputKeySuffixConstant:     defaults.OutputPath,
		configurationKey + configurationKeySeparatorConstant + configurationRepositoryKeySuffixConstant: defaults.RepositoryPath,
	}
}

// sanitize trims configuration values and restores defaults for empty entries.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.TemplatePath = trimmedOrDefault(configuration.TemplatePath, defaults.TemplatePath)
	sanitized.OutputPath = trimmedOrDefault(configuration.OutputPath, defaults.OutputPath)
	sanitized.RepositoryPath = trimmedOrDefault(configuration.RepositoryPath, defaults.RepositoryPath)

	return sanitized
}

func trimmedOrDefault(candidateValue string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(candidateValue)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}
