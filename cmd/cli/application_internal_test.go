package cli

import (
	"bytes"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/require"
)

const (
	expectedRootCommandNameConstant = "gitdot"
	helpOutputCommandNameConstant   = "cleanup"
)

func TestNewApplicationRegistersCommands(testInstance *testing.T) {
	application := NewApplication()
	require.NotNil(testInstance, application)
	require.Equal(testInstance, expectedRootCommandNameConstant, application.rootCommand.Name())

	registeredCommandNames := map[string]bool{}
	for _, registeredCommand := range application.rootCommand.Commands() {
		registeredCommandNames[registeredCommand.Name()] = true
	}

	expectedCommandNames := []string{"aliases", "cleanup", "generate", "link", "schedule", "sync"}
	for _, expectedCommandName := range expectedCommandNames {
		require.True(testInstance, registeredCommandNames[expectedCommandName], expectedCommandName)
	}
}

func TestNewApplicationRegistersPersistentFlags(testInstance *testing.T) {
	application := NewApplication()

	persistentFlags := application.rootCommand.PersistentFlags()
	require.NotNil(testInstance, persistentFlags.Lookup(configFileFlagNameConstant))
	require.NotNil(testInstance, persistentFlags.Lookup(logLevelFlagNameConstant))
	require.NotNil(testInstance, persistentFlags.Lookup(logFormatFlagNameConstant))
}

func TestPrintAliasesResolvesToAliasesCommand(testInstance *testing.T) {
	application := NewApplication()

	resolvedCommand, _, lookupError := application.rootCommand.Find([]string{"print_aliases"})

	require.NoError(testInstance, lookupError)
	require.Equal(testInstance, "aliases", resolvedCommand.Name())
}

func TestRootCommandWithoutOperationPrintsHelpAndFails(testInstance *testing.T) {
	application := NewApplication()

	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(&bytes.Buffer{})
	application.rootCommand.SetArgs([]string{})

	executionError := application.rootCommand.Execute()

	require.ErrorIs(testInstance, executionError, ErrNoOperationSpecified)
	require.Contains(testInstance, outputBuffer.String(), expectedRootCommandNameConstant)
	require.Contains(testInstance, outputBuffer.String(), helpOutputCommandNameConstant)
}

func TestApplicationConfigurationDecodesOperationSections(testInstance *testing.T) {
	configurationDocument := map[string]any{
		"common": map[string]any{
			"log_level":  "debug",
			"log_format": "console",
		},
		"operations": map[string]any{
			"cleanup": map[string]any{
				"force":   true,
				"dry_run": true,
			},
			"generate": map[string]any{
				"template":   "~/dotfiles/gitconfig.template",
				"output":     "~/.gitconfig",
				"repository": "~/dotfiles",
			},
			"link": map[string]any{
				"source_root": "~/dotfiles",
				"target_root": "~",
				"entries": []map[string]any{
					{"source": "gitconfig.shared", "target": ".gitconfig.shared"},
				},
			},
			"schedule": map[string]any{
				"label":            "com.gitdot.autosync",
				"repository":       "~/dotfiles",
				"interval_minutes": 30,
			},
		},
	}

	decodedConfiguration := ApplicationConfiguration{}
	decodeError := mapstructure.Decode(configurationDocument, &decodedConfiguration)

	require.NoError(testInstance, decodeError)
	require.Equal(testInstance, "debug", decodedConfiguration.Common.LogLevel)
	require.Equal(testInstance, "console", decodedConfiguration.Common.LogFormat)
	require.True(testInstance, decodedConfiguration.Operations.Cleanup.Force)
	require.True(testInstance, decodedConfiguration.Operations.Cleanup.DryRun)
	require.Equal(testInstance, "~/dotfiles/gitconfig.template", decodedConfiguration.Operations.Generate.TemplatePath)
	require.Equal(testInstance, "~/.gitconfig", decodedConfiguration.Operations.Generate.OutputPath)
	require.Equal(testInstance, "~/dotfiles", decodedConfiguration.Operations.Link.SourceRoot)
	require.Len(testInstance, decodedConfiguration.Operations.Link.Entries, 1)
	require.Equal(testInstance, ".gitconfig.shared", decodedConfiguration.Operations.Link.Entries[0].Target)
	require.Equal(testInstance, 30, decodedConfiguration.Operations.Schedule.IntervalMinutes)
}

func TestInitializeConfigurationAppliesFlagOverrides(testInstance *testing.T) {
	testInstance.Setenv("HOME", testInstance.TempDir())
	testInstance.Setenv("XDG_CONFIG_HOME", testInstance.TempDir())

	application := NewApplication()
	require.NoError(testInstance, application.rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "warn"))
	require.NoError(testInstance, application.rootCommand.PersistentFlags().Set(logFormatFlagNameConstant, "console"))

	initializationError := application.initializeConfiguration(application.rootCommand)

	require.NoError(testInstance, initializationError)
	require.Equal(testInstance, "warn", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "console", application.configuration.Common.LogFormat)

	storedConfigurationPath, configurationPathAvailable := application.commandContextAccessor.ConfigurationFilePath(application.rootCommand.Context())
	require.True(testInstance, configurationPathAvailable)
	require.Equal(testInstance, application.configurationMetadata.ConfigFileUsed, storedConfigurationPath)
}
