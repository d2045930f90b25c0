// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/temirov/projdump/internal/commands"
	"github.com/temirov/projdump/internal/config"
	"github.com/temirov/projdump/internal/output"
	"github.com/temirov/projdump/internal/services/clipboard"
	"github.com/temirov/projdump/internal/tokenizer"
	"github.com/temirov/projdump/internal/types"
	"github.com/temirov/projdump/internal/utils"
)

const (
	configFlagName    = "config"
	outputFlagName    = "output"
	clipboardFlagName = "clipboard"
	tokensFlagName    = "tokens"
	modelFlagName     = "model"
	versionFlagName   = "version"
	versionTemplate   = "projdump version: %s\n"

	rootUse              = "projdump <directory>"
	rootShortDescription = "dump a project tree and file contents into one document"
	rootLongDescription  = `projdump scans a directory tree, renders a textual tree view, and
concatenates the contents of filtered files into a single plain-text document.
Filtering is driven by a JSON configuration with extension allow-lists,
ignored directories, and force-include/force-exclude overrides.`
	rootUsageExample = `  # Dump the current project using config.json
  projdump .

  # Use an explicit configuration and output path
  projdump ./service --config review.json --output service_dump.txt

  # Include token totals and copy the document to the clipboard
  projdump . --tokens --clipboard`

	configFlagDescription    = "path to the JSON configuration file"
	outputFlagDescription    = "output text file path"
	clipboardFlagDescription = "copy the finished document to the clipboard"
	tokensFlagDescription    = "include token totals in the summary"
	modelFlagDescription     = "tokenizer model to use for token counting"
	versionFlagDescription   = "display application version"

	defaultOutputFileName = "project_dump.txt"

	writtenMessageFormat = "Wrote %s\n%s\n"

	// warningClipboardFormat reports a clipboard failure after the document was written.
	warningClipboardFormat = "Warning: failed to copy output to clipboard: %v\n"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing root path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNotDirectoryFormat reports a root path that is not a directory.
	errorNotDirectoryFormat = "path '%s' is not a directory"
	// errorMissingRootArgument reports a missing root directory argument.
	errorMissingRootArgument = "missing required <directory> argument"
)

// Execute runs the projdump application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// dumpOptions stores the flag values of the root command.
type dumpOptions struct {
	configFilePath  string
	outputFilePath  string
	copyToClipboard bool
	tokensEnabled   bool
	tokenModel      string
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var options dumpOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) == 0 {
				return fmt.Errorf(errorMissingRootArgument)
			}
			return runDump(arguments[0], options)
		},
	}

	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().StringVar(&options.configFilePath, configFlagName, config.DefaultConfigFileName, configFlagDescription)
	rootCommand.Flags().StringVar(&options.outputFilePath, outputFlagName, defaultOutputFileName, outputFlagDescription)
	rootCommand.Flags().BoolVar(&options.copyToClipboard, clipboardFlagName, false, clipboardFlagDescription)
	rootCommand.Flags().BoolVar(&options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	rootCommand.Flags().StringVar(&options.tokenModel, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// runDump validates inputs, performs the walk, and writes the document.
func runDump(rootArgument string, options dumpOptions) error {
	validatedRoot, rootValidationError := resolveAndValidateRoot(rootArgument)
	if rootValidationError != nil {
		return rootValidationError
	}

	configuration, configurationError := config.LoadConfiguration(options.configFilePath)
	if configurationError != nil {
		return configurationError
	}

	var tokenCounter tokenizer.Counter
	var resolvedTokenModel string
	if options.tokensEnabled {
		createdCounter, resolvedModel, counterError := tokenizer.NewCounter(options.tokenModel)
		if counterError != nil {
			return counterError
		}
		tokenCounter = createdCounter
		resolvedTokenModel = resolvedModel
	}

	dumpBuilder := &commands.DumpBuilder{
		Configuration: configuration,
		TokenCounter:  tokenCounter,
	}
	rootNode, dumpRecords, walkError := dumpBuilder.Run(validatedRoot.AbsolutePath)
	if walkError != nil {
		return walkError
	}

	summary := output.BuildSummary(dumpRecords, resolvedTokenModel)
	document := output.BuildDocument(rootNode, dumpRecords, summary)

	if writeError := output.WriteDocument(options.outputFilePath, document); writeError != nil {
		return writeError
	}

	if options.copyToClipboard {
		copier := clipboard.NewService()
		if copyError := copier.Copy(document); copyError != nil {
			fmt.Fprintf(os.Stderr, warningClipboardFormat, copyError)
		}
	}

	fmt.Printf(writtenMessageFormat, options.outputFilePath, output.FormatSummaryLine(summary))
	return nil
}

// resolveAndValidateRoot converts the root argument to absolute form and
// verifies it exists and is a directory.
func resolveAndValidateRoot(rootArgument string) (types.ValidatedRoot, error) {
	absolutePath, absolutePathError := filepath.Abs(rootArgument)
	if absolutePathError != nil {
		return types.ValidatedRoot{}, fmt.Errorf(errorAbsolutePathFormat, rootArgument, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)

	fileInformation, fileStatusError := os.Stat(cleanPath)
	if fileStatusError != nil {
		if os.IsNotExist(fileStatusError) {
			return types.ValidatedRoot{}, fmt.Errorf(errorPathMissingFormat, rootArgument)
		}
		return types.ValidatedRoot{}, fmt.Errorf(errorStatFormat, rootArgument, fileStatusError)
	}
	if !fileInformation.IsDir() {
		return types.ValidatedRoot{}, fmt.Errorf(errorNotDirectoryFormat, rootArgument)
	}

	return types.ValidatedRoot{AbsolutePath: cleanPath}, nil
}
