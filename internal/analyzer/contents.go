package analyzer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/dirscribe/dirscribe/internal/config"
	"github.com/dirscribe/dirscribe/internal/types"
	"github.com/dirscribe/dirscribe/internal/utils"
)

const (
	contentsBannerLine    = "=================================================="
	contentsSeparatorLine = "--------------------------------------------------"
	contentsSectionTitle  = "FILE CONTENTS"
	contentsLabelSuffix   = " contents:"

	placeholderPermissionDenied = "[Permission denied]"
	placeholderNotText          = "[Unable to decode file as text]"
	placeholderReadErrorFormat  = "[Error reading file: %v]"

	warningContentWalkFormat = "content collection incomplete for %s: %v"
)

// CollectContents walks rootPath a second time, independently of the tree
// section, and gathers a content record for every reachable file that passes
// both filter checks. Each file is attempted on its own: permission failures,
// undecodable content, and any other read error become inline placeholder
// records rather than aborting the collection. A failure of the walk itself is
// reported once through the logger and yields whatever was collected so far.
func CollectContents(rootPath string, settings config.Settings, logger *zap.Logger) []types.ContentRecord {
	var records []types.ContentRecord

	walkError := filepath.WalkDir(rootPath, func(currentPath string, directoryEntry fs.DirEntry, visitError error) error {
		if visitError != nil {
			if currentPath == rootPath {
				return visitError
			}
			// An unreadable subtree is skipped; every remaining file is
			// still attempted independently.
			return nil
		}
		if directoryEntry.IsDir() {
			return nil
		}
		entry := types.Entry{
			Name:       directoryEntry.Name(),
			Path:       currentPath,
			ParentPath: filepath.Dir(currentPath),
			IsDir:      false,
		}
		if !ShouldInclude(entry, settings) || !ShouldIncludeContents(entry, settings) {
			return nil
		}
		records = append(records, readContentRecord(rootPath, currentPath))
		return nil
	})
	if walkError != nil && logger != nil {
		logger.Warn(fmt.Sprintf(warningContentWalkFormat, rootPath, walkError))
	}

	return records
}

// readContentRecord reads one file and converts any failure into the matching
// placeholder string.
func readContentRecord(rootPath string, filePath string) types.ContentRecord {
	record := types.ContentRecord{RelativePath: utils.RelativePathOrSelf(filePath, rootPath)}

	data, readError := os.ReadFile(filePath)
	switch {
	case errors.Is(readError, fs.ErrPermission):
		record.Content = placeholderPermissionDenied
	case readError != nil:
		record.Content = fmt.Sprintf(placeholderReadErrorFormat, readError)
	case utils.IsBinary(data):
		record.Content = placeholderNotText
	default:
		record.Content = string(data)
	}
	return record
}

// WriteContentSection appends the collected records to the sink's file-class
// destinations, framed by the banner header and per-record separators.
// Console destinations never receive the content section. Content that does
// not already end in a line break has one appended.
func WriteContentSection(sink *Sink, records []types.ContentRecord) {
	if len(records) == 0 || !sink.HasFileDestination() {
		return
	}

	sink.writeFileLine("")
	sink.writeFileLine(contentsBannerLine)
	sink.writeFileLine(contentsSectionTitle)
	sink.writeFileLine(contentsBannerLine)
	sink.writeFileLine("")

	for _, record := range records {
		sink.writeFileLine(record.RelativePath + contentsLabelSuffix)
		sink.writeFileLine(contentsSeparatorLine)
		content := record.Content
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		sink.writeFileString(content)
		sink.writeFileLine(contentsSeparatorLine)
		sink.writeFileLine("")
	}
}
