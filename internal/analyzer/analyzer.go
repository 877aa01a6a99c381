// Package analyzer implements the tree traversal, filtering, and rendering
// engine behind the dirscribe commands.
package analyzer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/dirscribe/dirscribe/internal/config"
	"github.com/dirscribe/dirscribe/internal/types"
)

const (
	analyzingMessageFormat = "Analyzing folder structure of: %s"
	savingMessageFormat    = "Results will be saved to: %s"
	completeMessageFormat  = "Analysis complete! Results saved to: %s"

	errorCreateOutputDirFormat  = "creating output directory %s: %w"
	errorCreateOutputFileFormat = "creating output file %s: %w"

	warningCloseOutputFormat = "failed to close %s: %v"

	outputDirectoryPermissions = 0o755
)

// Analyzer runs the rendering engine against a fully-resolved configuration.
// Each call to Run constructs fresh render state; nothing is shared across runs.
type Analyzer struct {
	Settings config.Settings
	Logger   *zap.Logger

	// Console receives the progress banners and, when enabled, the tree
	// section. Defaults to os.Stdout.
	Console io.Writer

	// CaptureWriter, when non-nil, is attached as an additional file-class
	// destination and receives the full rendered text including the content
	// section.
	CaptureWriter io.Writer
}

// New constructs an Analyzer writing console output to stdout.
func New(settings config.Settings, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		Settings: settings,
		Logger:   logger,
		Console:  os.Stdout,
	}
}

// Run renders targetPath according to the settings: the tree section goes to
// the console and/or the configured output file, and the content section is
// appended to the output file only. The output file is opened once, written
// incrementally, and closed on every exit path.
func (analyzer *Analyzer) Run(targetPath string) (types.RenderResult, error) {
	var result types.RenderResult

	sink := NewSink()
	if analyzer.Settings.OutputToConsole && analyzer.Console != nil {
		sink.AttachConsole(analyzer.Console)
	}
	if analyzer.CaptureWriter != nil {
		sink.AttachFile(analyzer.CaptureWriter)
	}

	analyzer.announce(fmt.Sprintf(analyzingMessageFormat, absoluteOrSelf(targetPath)))
	analyzer.announce(contentsBannerLine)

	if analyzer.Settings.OutputToFile {
		outputDirectory := analyzer.Settings.OutputDirectory
		if mkdirError := os.MkdirAll(outputDirectory, outputDirectoryPermissions); mkdirError != nil {
			return result, fmt.Errorf(errorCreateOutputDirFormat, outputDirectory, mkdirError)
		}
		outputFilePath := filepath.Join(outputDirectory, analyzer.Settings.OutputFilename)
		outputFile, createError := os.Create(outputFilePath)
		if createError != nil {
			return result, fmt.Errorf(errorCreateOutputFileFormat, outputFilePath, createError)
		}
		defer func() {
			if closeError := outputFile.Close(); closeError != nil && analyzer.Logger != nil {
				analyzer.Logger.Warn(fmt.Sprintf(warningCloseOutputFormat, outputFilePath, closeError))
			}
		}()
		sink.AttachFile(outputFile)
		result.OutputFilePath = absoluteOrSelf(outputFilePath)

		analyzer.announce(fmt.Sprintf(savingMessageFormat, result.OutputFilePath))
		analyzer.announce(contentsBannerLine)
	}

	result.Status = Render(targetPath, analyzer.Settings, sink)
	if result.Status != types.StatusOK {
		return result, nil
	}

	if len(analyzer.Settings.IncludeFileContents) > 0 && sink.HasFileDestination() {
		records := CollectContents(targetPath, analyzer.Settings, analyzer.Logger)
		WriteContentSection(sink, records)
	}

	if result.OutputFilePath != "" {
		analyzer.announce(contentsBannerLine)
		analyzer.announce(fmt.Sprintf(completeMessageFormat, result.OutputFilePath))
	}
	return result, nil
}

// RenderToString renders targetPath into a string. The backing buffer is
// attached as a file-class destination, so permission handling and content
// embedding behave exactly as they do when writing a file.
func (analyzer *Analyzer) RenderToString(targetPath string) (string, types.RenderStatus) {
	var builder strings.Builder
	sink := NewSink().AttachFile(&builder)

	status := Render(targetPath, analyzer.Settings, sink)
	if status == types.StatusOK && len(analyzer.Settings.IncludeFileContents) > 0 {
		records := CollectContents(targetPath, analyzer.Settings, analyzer.Logger)
		WriteContentSection(sink, records)
	}
	return builder.String(), status
}

// announce prints a progress banner line to the console writer. Banners are
// never written to the output file.
func (analyzer *Analyzer) announce(message string) {
	if analyzer.Console != nil {
		fmt.Fprintln(analyzer.Console, message)
	}
}

func absoluteOrSelf(path string) string {
	absolutePath, absolutePathError := filepath.Abs(path)
	if absolutePathError != nil {
		return filepath.Clean(path)
	}
	return absolutePath
}
