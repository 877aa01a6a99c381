package analyzer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dirscribe/dirscribe/internal/config"
	"github.com/dirscribe/dirscribe/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directorySuffix = "/"

	permissionDeniedLabel = "[Permission Denied]"

	pathMissingMessage      = "the path does not exist"
	pathNotDirectoryMessage = "the path is not a directory"
)

// Render walks rootPath depth-first and writes the tree section to the sink,
// one line per entry. An invalid root produces a single diagnostic line and no
// traversal; the returned status distinguishes that case from an empty
// directory.
func Render(rootPath string, settings config.Settings, sink *Sink) types.RenderStatus {
	rootInfo, rootStatError := os.Stat(rootPath)
	if rootStatError != nil {
		sink.WriteLine(pathMissingMessage)
		return types.StatusPathMissing
	}
	if !rootInfo.IsDir() {
		sink.WriteLine(pathNotDirectoryMessage)
		return types.StatusNotDirectory
	}

	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		absoluteRootPath = filepath.Clean(rootPath)
	}

	sink.WriteLine(filepath.Base(absoluteRootPath) + directorySuffix)
	renderDirectory(absoluteRootPath, "", settings, sink)
	return types.StatusOK
}

// renderDirectory lists one directory level, filters and sorts the surviving
// entries, emits their lines, and recurses into child directories with the
// grown prefix. A listing failure is scoped to this directory: a single
// permission-denied line is emitted and siblings and ancestors continue
// normally.
func renderDirectory(directoryPath string, prefix string, settings config.Settings, sink *Sink) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		sink.WriteLine(prefix + treeBranchConnector + permissionDeniedLabel)
		return
	}

	entries := make([]types.Entry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		entry := types.Entry{
			Name:       directoryEntry.Name(),
			Path:       filepath.Join(directoryPath, directoryEntry.Name()),
			ParentPath: directoryPath,
			IsDir:      directoryEntry.IsDir(),
		}
		if ShouldInclude(entry, settings) {
			entries = append(entries, entry)
		}
	}
	sortEntries(entries)

	for index, entry := range entries {
		isLast := index == len(entries)-1
		connector := treeBranchConnector
		childPrefix := prefix + treeBranchPadding
		if isLast {
			connector = treeLastConnector
			childPrefix = prefix + treeLastPadding
		}
		if entry.IsDir {
			sink.WriteLine(prefix + connector + entry.Name + directorySuffix)
			renderDirectory(entry.Path, childPrefix, settings, sink)
		} else {
			sink.WriteLine(prefix + connector + entry.Name)
		}
	}
}

// sortEntries orders directories before files, then by case-insensitive name.
// Names are unique within a directory, so the order is total.
func sortEntries(entries []types.Entry) {
	sort.Slice(entries, func(first, second int) bool {
		if entries[first].IsDir != entries[second].IsDir {
			return entries[first].IsDir
		}
		return strings.ToLower(entries[first].Name) < strings.ToLower(entries[second].Name)
	})
}
