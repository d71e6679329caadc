// Package cli provides the command line interfaces of the report and tree tools.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/snapshot/internal/config"
	"github.com/temirov/snapshot/internal/services/clipboard"
	"github.com/temirov/snapshot/internal/tokenizer"
	"github.com/temirov/snapshot/internal/utils"
)

const (
	versionFlagName        = "version"
	configFlagName         = "config"
	initConfigFlagName     = "init-config"
	forceFlagName          = "force"
	copyFlagName           = "copy"
	tokensFlagName         = "tokens"
	modelFlagName          = "model"
	versionFlagDescription = "display application version"
	configFlagDescription  = "path to a configuration file"
	initConfigDescription  = "write the default configuration (local or global) and exit"
	forceFlagDescription   = "overwrite an existing configuration file with --init-config"
	copyFlagDescription    = "copy the generated document to the system clipboard"
	tokensFlagDescription  = "report the token count of the generated document"
	modelFlagDescription   = "tokenizer model to use for token counting"

	versionTemplate              = "%s version: %s\n"
	configurationWrittenTemplate = "configuration written to %s\n"
	workingDirectoryErrorFormat  = "unable to determine working directory: %w"
	loadConfigurationErrorFormat = "load configuration: %w"
	initConfigurationErrorFormat = "initialize configuration: %w"
	writeOutputErrorFormat       = "write %s: %w"
	warningClipboardCopyMessage  = "Warning: unable to copy to clipboard"
	warningTokenCountMessage     = "Warning: failed to count tokens"
	warningTokenizerSetupMessage = "Warning: tokenizer unavailable"

	outputFilePermissions   = 0o644
	initConfigDefaultTarget = string(config.InitTargetLocal)
)

// Dependencies holds the collaborators a command talks to outside the file system.
type Dependencies struct {
	Logger    *zap.Logger
	Clock     func() time.Time
	Clipboard clipboard.Copier
	// NewCounter builds the token counter used by --tokens.
	NewCounter func(tokenizer.Config) (tokenizer.Counter, string, error)
}

func (dependencies Dependencies) withDefaults() Dependencies {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Clock == nil {
		dependencies.Clock = time.Now
	}
	if dependencies.Clipboard == nil {
		dependencies.Clipboard = clipboard.NewService()
	}
	if dependencies.NewCounter == nil {
		dependencies.NewCounter = tokenizer.NewCounter
	}
	return dependencies
}

// sharedOptions stores the flags every tool registers.
type sharedOptions struct {
	showVersion     bool
	configPath      string
	initTarget      string
	forceInit       bool
	copyToClipboard bool
}

func addSharedFlags(command *cobra.Command, options *sharedOptions) {
	flagSet := command.Flags()
	registerBooleanFlag(flagSet, &options.showVersion, versionFlagName, false, versionFlagDescription)
	flagSet.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	flagSet.StringVar(&options.initTarget, initConfigFlagName, "", initConfigDescription)
	if lookup := flagSet.Lookup(initConfigFlagName); lookup != nil {
		lookup.NoOptDefVal = initConfigDefaultTarget
	}
	registerBooleanFlag(flagSet, &options.forceInit, forceFlagName, false, forceFlagDescription)
	registerCopyFlag(flagSet, &options.copyToClipboard)
}

// handleSharedFlags runs --version and --init-config. It reports whether the command is done.
func handleSharedFlags(command *cobra.Command, options sharedOptions, workingDirectory string) (bool, error) {
	if options.showVersion {
		fmt.Fprintf(command.OutOrStdout(), versionTemplate, command.Name(), utils.GetApplicationVersion())
		return true, nil
	}
	if command.Flags().Changed(initConfigFlagName) {
		destination, initErr := config.InitializeConfiguration(config.InitOptions{
			Target:           config.InitTarget(options.initTarget),
			Force:            options.forceInit,
			WorkingDirectory: workingDirectory,
		})
		if initErr != nil {
			return true, fmt.Errorf(initConfigurationErrorFormat, initErr)
		}
		fmt.Fprintf(command.OutOrStdout(), configurationWrittenTemplate, destination)
		return true, nil
	}
	return false, nil
}

func loadConfiguration(options sharedOptions, workingDirectory string) (config.ApplicationConfiguration, error) {
	applicationConfiguration, loadErr := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configPath,
	})
	if loadErr != nil {
		return config.ApplicationConfiguration{}, fmt.Errorf(loadConfigurationErrorFormat, loadErr)
	}
	return applicationConfiguration, nil
}

// resolveBoolSetting prefers an explicitly set flag, then the configured value, then the flag default.
func resolveBoolSetting(flagSet *pflag.FlagSet, flagName string, flagValue bool, configured *bool) bool {
	if flagSet.Changed(flagName) {
		return flagValue
	}
	return config.BoolValue(configured, flagValue)
}

func currentWorkingDirectory() (string, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	return workingDirectory, nil
}

// writeOutputFile replaces the fixed-name output file in directory and returns its absolute path.
func writeOutputFile(directory, fileName, document string) (string, error) {
	outputPath, absoluteError := filepath.Abs(filepath.Join(directory, fileName))
	if absoluteError != nil {
		return "", fmt.Errorf(writeOutputErrorFormat, fileName, absoluteError)
	}
	if writeError := os.WriteFile(outputPath, []byte(document), outputFilePermissions); writeError != nil {
		return "", fmt.Errorf(writeOutputErrorFormat, outputPath, writeError)
	}
	return outputPath, nil
}

func walkerWarning(logger *zap.Logger) func(string) {
	return func(message string) {
		logger.Warn(message)
	}
}

// execute runs command with normalized process arguments.
func execute(command *cobra.Command) error {
	command.SetArgs(normalizeBooleanFlagArguments(command, os.Args[1:]))
	return command.Execute()
}
