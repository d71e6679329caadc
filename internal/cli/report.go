package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/snapshot/internal/config"
	"github.com/temirov/snapshot/internal/output"
	"github.com/temirov/snapshot/internal/tokenizer"
	"github.com/temirov/snapshot/internal/types"
	"github.com/temirov/snapshot/internal/utils"
	"github.com/temirov/snapshot/internal/walker"
)

const (
	reportUse              = "snapshot-report"
	reportShortDescription = "concatenate project text files into " + types.ReportFileName
	reportLongDescription  = `Walk the current directory and write every included text file into
` + types.ReportFileName + `, framed by a header and followed by statistics.
Use --tokens to estimate the token size of the report and --copy to place it on the clipboard.`
	reportUsageExample = `  # Compile the current project
  snapshot-report

  # Compile and count tokens with a specific model
  snapshot-report --tokens --model gpt-4`

	analyzingDirectoryTemplate = "ANALYZING DIRECTORY: %s\n"
	fileCreatedTemplate        = "FILE CREATED: %s\n"
	totalLinesTemplate         = "TOTAL LINES: %d\n"
	totalSizeTemplate          = "TOTAL SIZE: %s\n"
	totalTokensTemplate        = "TOTAL TOKENS: %d (%s)\n"
	reportCopiedMessage        = "Report copied to clipboard"
)

type reportOptions struct {
	shared        sharedOptions
	tokensEnabled bool
	model         string
}

// NewReportCommand returns the root command of the report tool.
func NewReportCommand(dependencies Dependencies) *cobra.Command {
	dependencies = dependencies.withDefaults()
	var options reportOptions

	reportCommand := &cobra.Command{
		Use:           reportUse,
		Short:         reportShortDescription,
		Long:          reportLongDescription,
		Example:       reportUsageExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryError := currentWorkingDirectory()
			if workingDirectoryError != nil {
				return workingDirectoryError
			}
			if handled, sharedError := handleSharedFlags(command, options.shared, workingDirectory); handled {
				return sharedError
			}
			applicationConfiguration, loadError := loadConfiguration(options.shared, workingDirectory)
			if loadError != nil {
				return loadError
			}
			settings := resolveReportSettings(command, options, applicationConfiguration.Report)
			return runReport(command, dependencies, workingDirectory, settings)
		},
	}

	addSharedFlags(reportCommand, &options.shared)
	registerBooleanFlag(reportCommand.Flags(), &options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	reportCommand.Flags().StringVar(&options.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	return reportCommand
}

// ExecuteReport runs the report tool with the process arguments.
func ExecuteReport(logger *zap.Logger) error {
	return execute(NewReportCommand(Dependencies{Logger: logger}))
}

type reportSettings struct {
	copyToClipboard bool
	tokensEnabled   bool
	model           string
}

func resolveReportSettings(command *cobra.Command, options reportOptions, configured config.ReportConfiguration) reportSettings {
	flagSet := command.Flags()
	settings := reportSettings{
		copyToClipboard: resolveBoolSetting(flagSet, copyFlagName, options.shared.copyToClipboard, configured.Copy),
		tokensEnabled:   resolveBoolSetting(flagSet, tokensFlagName, options.tokensEnabled, configured.Tokens.Enabled),
		model:           options.model,
	}
	if !flagSet.Changed(modelFlagName) && strings.TrimSpace(configured.Tokens.Model) != "" {
		settings.model = configured.Tokens.Model
	}
	return settings
}

func runReport(command *cobra.Command, dependencies Dependencies, workingDirectory string, settings reportSettings) error {
	out := command.OutOrStdout()
	fmt.Fprintf(out, analyzingDirectoryTemplate, workingDirectory)

	reportWalker, walkerError := walker.New(workingDirectory, walker.Options{
		Rules: config.ReportFilterRules(),
		Warn:  walkerWarning(dependencies.Logger),
	})
	if walkerError != nil {
		return walkerError
	}
	renderer := output.NewReportRenderer(reportWalker.Root(), dependencies.Clock())
	document, renderError := output.Render(reportWalker.Events(), renderer)
	if renderError != nil {
		return renderError
	}

	outputPath, writeError := writeOutputFile(workingDirectory, types.ReportFileName, document)
	if writeError != nil {
		return writeError
	}
	fmt.Fprintf(out, fileCreatedTemplate, outputPath)
	fmt.Fprintf(out, totalLinesTemplate, utils.CountLines(document))
	fmt.Fprintf(out, totalSizeTemplate, utils.FormatFileSize(int64(len(document))))

	if settings.tokensEnabled {
		reportTokenCount(command, dependencies, settings.model, document)
	}
	if settings.copyToClipboard && copyDocument(dependencies.Clipboard, dependencies.Logger, document) {
		dependencies.Logger.Info(reportCopiedMessage)
	}
	return nil
}

// reportTokenCount prints the token estimate. Tokenizer problems are warnings only.
func reportTokenCount(command *cobra.Command, dependencies Dependencies, model string, document string) {
	counter, resolvedModel, counterError := dependencies.NewCounter(tokenizer.Config{Model: model})
	if counterError != nil {
		dependencies.Logger.Warn(warningTokenizerSetupMessage, zap.String("model", model), zap.Error(counterError))
		return
	}
	result, countError := tokenizer.CountText(counter, document)
	if countError != nil {
		dependencies.Logger.Warn(warningTokenCountMessage, zap.Error(countError))
		return
	}
	if !result.Counted {
		return
	}
	fmt.Fprintf(command.OutOrStdout(), totalTokensTemplate, result.Tokens, resolvedModel)
}
