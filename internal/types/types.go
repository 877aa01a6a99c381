// Package types defines every cross-package data structure used by the dirscribe CLI.
package types

// Entry is a single filesystem node discovered during traversal. Entries are
// ephemeral: they are produced while listing a directory and never persisted.
type Entry struct {
	Name       string
	Path       string
	ParentPath string
	IsDir      bool
}

// ContentRecord pairs a root-relative path with the file's textual content or
// an inline placeholder describing why the content could not be read.
type ContentRecord struct {
	RelativePath string
	Content      string
}

// RenderStatus classifies the outcome of a render run beyond the emitted text,
// so callers can tell an invalid root apart from an empty directory.
type RenderStatus int

const (
	// StatusOK indicates the root was traversed.
	StatusOK RenderStatus = iota
	// StatusPathMissing indicates the root path does not exist.
	StatusPathMissing
	// StatusNotDirectory indicates the root path exists but is not a directory.
	StatusNotDirectory
)

// RenderResult reports how a run ended and where it wrote its output.
type RenderResult struct {
	Status         RenderStatus
	OutputFilePath string
}
