// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dirscribe/dirscribe/internal/analyzer"
	"github.com/dirscribe/dirscribe/internal/clipboard"
	"github.com/dirscribe/dirscribe/internal/config"
	"github.com/dirscribe/dirscribe/internal/tokenizer"
	"github.com/dirscribe/dirscribe/internal/utils"
	"github.com/dirscribe/dirscribe/internal/wizard"
)

const (
	rootUse              = "dirscribe"
	rootShortDescription = "dirscribe renders directory trees with optional embedded file contents"
	rootLongDescription  = `dirscribe recursively enumerates a directory tree, renders it as a tree
diagram, and optionally appends the textual contents of files matching
configured extensions. Output goes to the console, a file, or both.
Run the wizard subcommand for an interactive selection flow.`

	scanUse              = "scan [path]"
	scanAlias            = "s"
	scanShortDescription = "render a directory tree (" + scanAlias + ")"
	scanLongDescription  = `Render the directory tree for a path, applying the configured filters,
and write the result to the console and/or the configured output file.`
	scanUsageExample = `  # Render the current directory using config.json defaults
  dirscribe scan

  # Render a project into ./docs and embed Go and Markdown sources
  dirscribe scan ./project -o ./docs --contents .go,.md`

	wizardUse              = "wizard [path]"
	wizardAlias            = "w"
	wizardShortDescription = "interactively select files and run the analysis (" + wizardAlias + ")"

	configUse              = "config"
	configShortDescription = "print the effective configuration"

	configFlagName    = "config"
	outputFlagName    = "output"
	outputFlagShort   = "o"
	hiddenFlagName    = "hidden"
	pycacheFlagName   = "pycache"
	contentsFlagName  = "contents"
	noConsoleFlagName = "no-console"
	noFileFlagName    = "no-file"
	copyFlagName      = "copy"
	tokensFlagName    = "tokens"
	versionFlagName   = "version"
	versionTemplate   = "dirscribe version: %s\n"

	configFlagDescription    = "path to the configuration file"
	outputFlagDescription    = "directory for the rendered output file"
	hiddenFlagDescription    = "include hidden files and directories"
	pycacheFlagDescription   = "include bytecode cache artifacts"
	contentsFlagDescription  = "extensions whose file contents are embedded"
	noConsoleFlagDescription = "do not write the tree to the console"
	noFileFlagDescription    = "do not write the rendered output file"
	copyFlagDescription      = "copy the rendered text to the clipboard"
	tokensFlagDescription    = "log a token estimate for the rendered text"
	versionFlagDescription   = "display application version"

	warningClipboardFormat = "failed to copy output to clipboard: %v"
	warningTokenizerFormat = "failed to estimate tokens: %v"
	tokenEstimateFormat    = "Token estimate: %d (%s)"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
)

// Execute runs the dirscribe application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	return rootCommand.Execute()
}

// scanOptions stores the flag overrides of the scan command.
type scanOptions struct {
	outputDirectory string
	includeHidden   bool
	includePycache  bool
	contents        []string
	noConsole       bool
	noFile          bool
	copyToClipboard bool
	countTokens     bool
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool
	var configPath string

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&configPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		createScanCommand(logger, &configPath),
		createWizardCommand(logger, &configPath),
		createConfigCommand(&configPath),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createScanCommand returns the scan subcommand.
func createScanCommand(logger *zap.Logger, configPath *string) *cobra.Command {
	var options scanOptions

	scanCommand := &cobra.Command{
		Use:     scanUse,
		Aliases: []string{scanAlias},
		Short:   scanShortDescription,
		Long:    scanLongDescription,
		Example: scanUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			settings, loadError := loadSettings(*configPath)
			if loadError != nil {
				return loadError
			}
			settings = applyScanOverrides(settings, command, options)

			targetPath := settings.InputDirectory
			if len(arguments) > 0 {
				targetPath = arguments[0]
			}

			runner := analyzer.New(settings, logger)
			var captured strings.Builder
			if options.copyToClipboard || options.countTokens {
				runner.CaptureWriter = &captured
			}

			if _, runError := runner.Run(targetPath); runError != nil {
				return runError
			}

			if options.copyToClipboard {
				if copyError := clipboard.NewService().Copy(captured.String()); copyError != nil {
					logger.Warn(fmt.Sprintf(warningClipboardFormat, copyError))
				}
			}
			if options.countTokens {
				reportTokenEstimate(logger, captured.String())
			}
			return nil
		},
	}

	scanCommand.Flags().StringVarP(&options.outputDirectory, outputFlagName, outputFlagShort, "", outputFlagDescription)
	scanCommand.Flags().BoolVar(&options.includeHidden, hiddenFlagName, false, hiddenFlagDescription)
	scanCommand.Flags().BoolVar(&options.includePycache, pycacheFlagName, false, pycacheFlagDescription)
	scanCommand.Flags().StringSliceVar(&options.contents, contentsFlagName, nil, contentsFlagDescription)
	scanCommand.Flags().BoolVar(&options.noConsole, noConsoleFlagName, false, noConsoleFlagDescription)
	scanCommand.Flags().BoolVar(&options.noFile, noFileFlagName, false, noFileFlagDescription)
	scanCommand.Flags().BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	scanCommand.Flags().BoolVar(&options.countTokens, tokensFlagName, false, tokensFlagDescription)
	return scanCommand
}

// applyScanOverrides overlays changed flags onto the loaded settings, so the
// persisted configuration keeps supplying every default the user did not touch.
func applyScanOverrides(settings config.Settings, command *cobra.Command, options scanOptions) config.Settings {
	settings = settings.UpdateFromArguments("", options.outputDirectory)
	if command.Flags().Changed(hiddenFlagName) {
		settings.IncludeHiddenFiles = options.includeHidden
	}
	if command.Flags().Changed(pycacheFlagName) {
		settings.IncludePycache = options.includePycache
	}
	if command.Flags().Changed(contentsFlagName) {
		settings.IncludeFileContents = config.NormalizeExtensions(options.contents)
	}
	if options.noConsole {
		settings.OutputToConsole = false
	}
	if options.noFile {
		settings.OutputToFile = false
	}
	return settings
}

// createWizardCommand returns the wizard subcommand.
func createWizardCommand(logger *zap.Logger, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     wizardUse,
		Aliases: []string{wizardAlias},
		Short:   wizardShortDescription,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			settings, loadError := loadSettings(*configPath)
			if loadError != nil {
				return loadError
			}
			targetPath := settings.InputDirectory
			if len(arguments) > 0 {
				targetPath = arguments[0]
			}
			persistPath := *configPath
			if persistPath == "" {
				persistPath = config.ConfigFileName
			}
			return wizard.Run(settings, logger, targetPath, persistPath)
		},
	}
}

// createConfigCommand returns the config subcommand.
func createConfigCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			settings, loadError := loadSettings(*configPath)
			if loadError != nil {
				return loadError
			}
			fmt.Fprint(command.OutOrStdout(), settings.Describe())
			return nil
		},
	}
}

func loadSettings(configPath string) (config.Settings, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return config.Settings{}, fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	return config.Load(workingDirectory, configPath)
}

func reportTokenEstimate(logger *zap.Logger, text string) {
	counter, counterError := tokenizer.NewCounter()
	if counterError != nil {
		logger.Warn(fmt.Sprintf(warningTokenizerFormat, counterError))
		return
	}
	count, countError := counter.CountString(text)
	if countError != nil {
		logger.Warn(fmt.Sprintf(warningTokenizerFormat, countError))
		return
	}
	logger.Info(fmt.Sprintf(tokenEstimateFormat, count, counter.Name()))
}
