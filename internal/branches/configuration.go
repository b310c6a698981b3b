package branches

const (
	configurationForceKeySuffixConstant  = "force"
	configurationDryRunKeySuffixConstant = "dry_run"
	configurationKeySeparatorConstant    = "."
)

// CommandConfiguration captures configuration values for the cleanup command.
type CommandConfiguration struct {
	Force  bool `mapstructure:"force"`
	DryRun bool `mapstructure:"dry_run"`
}

// DefaultCommandConfiguration provides baseline configuration values for cleanup.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Force:  false,
		DryRun: false,
	}
}

// DefaultConfigurationValues exposes cleanup defaults keyed for configuration files.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKey + configurationKeySeparatorConstant + configurationForceKeySuffixConstant:  defaults.Force,
		configurationKey + configurationKeySeparatorConstant + configurationDryRunKeySuffixConstant: defaults.DryRun,
	}
}

// sanitize normalizes configuration values without applying implicit defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	return configuration
}
