package scheduler

import "strings"

const (
	configurationLabelKeySuffixConstant      = "label"
	configurationRepositoryKeySuffixConstant = "repository"
	configurationIntervalKeySuffixConstant   = "interval_minutes"
	configurationKeySeparatorConstant        = "."
	defaultAgentLabelConstant                = "com.gitdot.autosync"
	defaultRepositoryPathConstant            = "~/dotfiles"
	defaultIntervalMinutesConstant           = 60
)

// CommandConfiguration captures configuration values for the schedule command.
type CommandConfiguration struct {
	Label           string `mapstructure:"label"`
	RepositoryPath  string `mapstructure:"repository"`
	IntervalMinutes int    `mapstructure:"interval_minutes"`
}

// DefaultCommandConfiguration provides baseline configuration values for scheduling.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Label:           defaultAgentLabelConstant,
		RepositoryPath:  defaultRepositoryPathConstant,
		IntervalMinutes: defaultIntervalMinutesConstant,
	}
}

// DefaultConfigurationValues exposes scheduling defaults keyed for configuration files.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKey + configurationKeySeparatorConstant + configurationLabelKeySuffixConstant:      defaults.Label,
		configurationKey + configurationKeySeparatorConstant + configurationRepositoryKeySuffixConstant: defaults.RepositoryPath,
		configurationKey + configurationKeySeparatorConstant + configurationIntervalKeySuffixConstant:   defaults.IntervalMinutes,
	}
}

// sanitize trims configuration values and restores defaults for empty entries.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.Label = trimmedOrDefault(configuration.Label, defaults.Label)
	sanitized.RepositoryPath = trimmedOrDefault(configuration.RepositoryPath, defaults.RepositoryPath)
	if configuration.IntervalMinutes <= 0 {
		sanitized.IntervalMinutes = defaults.IntervalMinutes
	}

	return sanitized
}

func trimmedOrDefault(candidateValue string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(candidateValue)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}
