package wizard

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dirscribe/dirscribe/internal/analyzer"
	"github.com/dirscribe/dirscribe/internal/config"
	"github.com/dirscribe/dirscribe/internal/types"
)

const (
	stagePrefix               = "dirscribe-stage-"
	stageDirectoryPermissions = 0o755
	stageFilePermissions      = 0o644

	errorCreateStageFormat  = "creating staging directory: %w"
	errorPrepareStageFormat = "preparing staging root %s: %w"
)

// Stage copies the selected paths into a scratch directory named after the
// target folder, preserving their layout relative to the target, and returns
// the staged root for the renderer to scan. Files that cannot be copied are
// skipped; the caller must invoke cleanup to remove the scratch directory.
func Stage(targetPath string, selection []string, settings config.Settings) (string, func(), error) {
	absoluteTargetPath, absolutePathError := filepath.Abs(targetPath)
	if absolutePathError != nil {
		return "", nil, fmt.Errorf(errorPrepareStageFormat, targetPath, absolutePathError)
	}

	scratchDirectory, tempError := os.MkdirTemp("", stagePrefix)
	if tempError != nil {
		return "", nil, fmt.Errorf(errorCreateStageFormat, tempError)
	}
	cleanup := func() { os.RemoveAll(scratchDirectory) }

	stagedRoot := filepath.Join(scratchDirectory, filepath.Base(absoluteTargetPath))
	if mkdirError := os.MkdirAll(stagedRoot, stageDirectoryPermissions); mkdirError != nil {
		cleanup()
		return "", nil, fmt.Errorf(errorPrepareStageFormat, stagedRoot, mkdirError)
	}

	for _, selectedPath := range selection {
		relativePath, relativeError := filepath.Rel(absoluteTargetPath, selectedPath)
		if relativeError != nil {
			continue
		}
		stageSelectedPath(selectedPath, filepath.Join(stagedRoot, relativePath), absoluteTargetPath, stagedRoot, settings)
	}
	return stagedRoot, cleanup, nil
}

// stageSelectedPath copies one selected file or directory subtree. Directory
// copies re-apply the inclusion filter so artifacts excluded from listings are
// not smuggled into the staged tree.
func stageSelectedPath(sourcePath string, destinationPath string, targetRoot string, stagedRoot string, settings config.Settings) {
	info, statError := os.Stat(sourcePath)
	if statError != nil {
		return
	}

	if !info.IsDir() {
		copyStagedFile(sourcePath, destinationPath)
		return
	}

	filepath.WalkDir(sourcePath, func(currentPath string, directoryEntry fs.DirEntry, visitError error) error {
		if visitError != nil {
			return nil
		}
		entry := types.Entry{
			Name:       directoryEntry.Name(),
			Path:       currentPath,
			ParentPath: filepath.Dir(currentPath),
			IsDir:      directoryEntry.IsDir(),
		}
		if currentPath != sourcePath && !analyzer.ShouldInclude(entry, settings) {
			if directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() {
			return nil
		}
		relativePath, relativeError := filepath.Rel(targetRoot, currentPath)
		if relativeError != nil {
			return nil
		}
		copyStagedFile(currentPath, filepath.Join(stagedRoot, relativePath))
		return nil
	})
}

// copyStagedFile copies a single file, creating parent directories. Per-file
// failures are skipped so one unreadable file never aborts staging.
func copyStagedFile(sourcePath string, destinationPath string) {
	data, readError := os.ReadFile(sourcePath)
	if readError != nil {
		return
	}
	if mkdirError := os.MkdirAll(filepath.Dir(destinationPath), stageDirectoryPermissions); mkdirError != nil {
		return
	}
	os.WriteFile(destinationPath, data, stageFilePermissions)
}
