package wizard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dirscribe/dirscribe/internal/config"
)

func TestStageCopiesSelectedPaths(t *testing.T) {
	targetDirectory := t.TempDir()
	writeWizardFile(t, filepath.Join(targetDirectory, "keep.txt"), "keep")
	writeWizardFile(t, filepath.Join(targetDirectory, "sub", "inner.txt"), "inner")
	writeWizardFile(t, filepath.Join(targetDirectory, "drop.txt"), "drop")

	selection := []string{
		filepath.Join(targetDirectory, "keep.txt"),
		filepath.Join(targetDirectory, "sub"),
	}
	stagedRoot, cleanup, stageError := Stage(targetDirectory, selection, config.DefaultSettings())
	if stageError != nil {
		t.Fatalf("Stage error: %v", stageError)
	}
	defer cleanup()

	if filepath.Base(stagedRoot) != filepath.Base(targetDirectory) {
		t.Fatalf("staged root %q must be named after the target", stagedRoot)
	}

	keptBytes, readError := os.ReadFile(filepath.Join(stagedRoot, "keep.txt"))
	if readError != nil {
		t.Fatalf("selected file missing from staged tree: %v", readError)
	}
	if string(keptBytes) != "keep" {
		t.Fatalf("staged file content mismatch: %q", keptBytes)
	}
	if _, statError := os.Stat(filepath.Join(stagedRoot, "sub", "inner.txt")); statError != nil {
		t.Fatalf("selected subtree missing from staged tree: %v", statError)
	}
	if _, statError := os.Stat(filepath.Join(stagedRoot, "drop.txt")); !os.IsNotExist(statError) {
		t.Fatalf("unselected file must not be staged, stat error: %v", statError)
	}
}

func TestStageReappliesInclusionFilter(t *testing.T) {
	targetDirectory := t.TempDir()
	writeWizardFile(t, filepath.Join(targetDirectory, "sub", "kept.txt"), "kept")
	writeWizardFile(t, filepath.Join(targetDirectory, "sub", ".hidden"), "hidden")
	writeWizardFile(t, filepath.Join(targetDirectory, "sub", "__pycache__", "cached.pyc"), "cache")

	stagedRoot, cleanup, stageError := Stage(targetDirectory, []string{filepath.Join(targetDirectory, "sub")}, config.DefaultSettings())
	if stageError != nil {
		t.Fatalf("Stage error: %v", stageError)
	}
	defer cleanup()

	if _, statError := os.Stat(filepath.Join(stagedRoot, "sub", "kept.txt")); statError != nil {
		t.Fatalf("expected kept.txt in staged tree: %v", statError)
	}
	for _, excluded := range []string{
		filepath.Join(stagedRoot, "sub", ".hidden"),
		filepath.Join(stagedRoot, "sub", "__pycache__"),
	} {
		if _, statError := os.Stat(excluded); !os.IsNotExist(statError) {
			t.Fatalf("expected %s to be filtered out of the staged tree", excluded)
		}
	}
}

func TestStageCleanupRemovesScratchDirectory(t *testing.T) {
	targetDirectory := t.TempDir()
	writeWizardFile(t, filepath.Join(targetDirectory, "file.txt"), "content")

	stagedRoot, cleanup, stageError := Stage(targetDirectory, []string{filepath.Join(targetDirectory, "file.txt")}, config.DefaultSettings())
	if stageError != nil {
		t.Fatalf("Stage error: %v", stageError)
	}

	cleanup()
	if _, statError := os.Stat(stagedRoot); !os.IsNotExist(statError) {
		t.Fatalf("cleanup must remove the staged tree, stat error: %v", statError)
	}
}
