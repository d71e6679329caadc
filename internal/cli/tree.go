package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/snapshot/internal/config"
	"github.com/temirov/snapshot/internal/output"
	"github.com/temirov/snapshot/internal/types"
	"github.com/temirov/snapshot/internal/walker"
)

const (
	treeUse              = "snapshot-tree [path]"
	treeShortDescription = "write the directory tree of a path into " + types.TreeFileName
	treeLongDescription  = `Render an ASCII tree of the given directory (default ".") into
` + types.TreeFileName + ` in the current directory. Directories are listed before files.`
	treeUsageExample = `  # Render the current directory
  snapshot-tree

  # Render another directory and copy the result
  snapshot-tree --copy ../service`

	defaultTreeRoot     = "."
	treeCreatedTemplate = types.TreeFileName + " created at: %s\n"
	treeCopiedMessage   = "Tree copied to clipboard"
)

// NewTreeCommand returns the root command of the tree tool.
func NewTreeCommand(dependencies Dependencies) *cobra.Command {
	dependencies = dependencies.withDefaults()
	var options sharedOptions

	treeCommand := &cobra.Command{
		Use:           treeUse,
		Short:         treeShortDescription,
		Long:          treeLongDescription,
		Example:       treeUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryError := currentWorkingDirectory()
			if workingDirectoryError != nil {
				return workingDirectoryError
			}
			if handled, sharedError := handleSharedFlags(command, options, workingDirectory); handled {
				return sharedError
			}
			applicationConfiguration, loadError := loadConfiguration(options, workingDirectory)
			if loadError != nil {
				return loadError
			}
			root := defaultTreeRoot
			if len(arguments) > 0 {
				root = arguments[0]
			}
			copyToClipboard := resolveBoolSetting(command.Flags(), copyFlagName, options.copyToClipboard, applicationConfiguration.Tree.Copy)
			return runTree(command, dependencies, workingDirectory, root, copyToClipboard)
		},
	}

	addSharedFlags(treeCommand, &options)
	return treeCommand
}

// ExecuteTree runs the tree tool with the process arguments.
func ExecuteTree(logger *zap.Logger) error {
	return execute(NewTreeCommand(Dependencies{Logger: logger}))
}

func runTree(command *cobra.Command, dependencies Dependencies, workingDirectory, root string, copyToClipboard bool) error {
	treeWalker, walkerError := walker.New(root, walker.Options{
		Rules: config.TreeFilterRules(),
		Warn:  walkerWarning(dependencies.Logger),
	})
	if walkerError != nil {
		return walkerError
	}
	document, renderError := output.Render(treeWalker.Events(), output.NewTreeRenderer(canonicalBaseName(treeWalker.Root())))
	if renderError != nil {
		return renderError
	}

	outputPath, writeError := writeOutputFile(workingDirectory, types.TreeFileName, document)
	if writeError != nil {
		return writeError
	}
	fmt.Fprintf(command.OutOrStdout(), treeCreatedTemplate, outputPath)

	if copyToClipboard && copyDocument(dependencies.Clipboard, dependencies.Logger, document) {
		dependencies.Logger.Info(treeCopiedMessage)
	}
	return nil
}

// canonicalBaseName returns the base name of path after resolving symbolic links.
func canonicalBaseName(path string) string {
	if resolved, resolveError := filepath.EvalSymlinks(path); resolveError == nil {
		path = resolved
	}
	return filepath.Base(path)
}
