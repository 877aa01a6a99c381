package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLoadPersistsDefaultsWhenFileAbsent(t *testing.T) {
	workingDirectory := t.TempDir()

	settings, loadError := Load(workingDirectory, "")
	if loadError != nil {
		t.Fatalf("Load error: %v", loadError)
	}
	if !reflect.DeepEqual(settings, DefaultSettings()) {
		t.Fatalf("expected defaults, got %+v", settings)
	}

	persistedPath := filepath.Join(workingDirectory, ConfigFileName)
	persistedBytes, readError := os.ReadFile(persistedPath)
	if readError != nil {
		t.Fatalf("expected %s to be persisted: %v", ConfigFileName, readError)
	}
	var persisted map[string]any
	if decodeError := json.Unmarshal(persistedBytes, &persisted); decodeError != nil {
		t.Fatalf("persisted configuration is not valid JSON: %v", decodeError)
	}
	for _, key := range []string{
		"input_directory",
		"output_directory",
		"include_hidden_files",
		"include_pycache",
		"output_to_console",
		"output_to_file",
		"output_filename",
		"include_file_contents",
	} {
		if _, present := persisted[key]; !present {
			t.Fatalf("persisted configuration missing key %q", key)
		}
	}
}

func TestLoadMergesOverridesWithDefaults(t *testing.T) {
	workingDirectory := t.TempDir()
	overrides := `{"include_hidden_files": true, "output_filename": "tree.txt", "include_file_contents": [".GO", "md"]}`
	if writeError := os.WriteFile(filepath.Join(workingDirectory, ConfigFileName), []byte(overrides), 0o644); writeError != nil {
		t.Fatalf("write config: %v", writeError)
	}

	settings, loadError := Load(workingDirectory, "")
	if loadError != nil {
		t.Fatalf("Load error: %v", loadError)
	}
	if !settings.IncludeHiddenFiles {
		t.Fatal("expected include_hidden_files override to apply")
	}
	if settings.OutputFilename != "tree.txt" {
		t.Fatalf("expected output_filename override, got %q", settings.OutputFilename)
	}
	if settings.InputDirectory != DefaultSettings().InputDirectory {
		t.Fatalf("expected default input_directory, got %q", settings.InputDirectory)
	}
	if !settings.OutputToConsole || !settings.OutputToFile {
		t.Fatal("expected untouched keys to keep their defaults")
	}
	if !reflect.DeepEqual(settings.IncludeFileContents, []string{".go", ".md"}) {
		t.Fatalf("expected normalized extensions, got %v", settings.IncludeFileContents)
	}
}

func TestLoadMalformedFileFallsBackToDefaults(t *testing.T) {
	workingDirectory := t.TempDir()
	if writeError := os.WriteFile(filepath.Join(workingDirectory, ConfigFileName), []byte("{not json"), 0o644); writeError != nil {
		t.Fatalf("write config: %v", writeError)
	}

	settings, loadError := Load(workingDirectory, "")
	if loadError != nil {
		t.Fatalf("Load error: %v", loadError)
	}
	if !reflect.DeepEqual(settings, DefaultSettings()) {
		t.Fatalf("expected defaults for malformed file, got %+v", settings)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	workingDirectory := t.TempDir()
	explicitName := "custom.json"
	content := `{"output_filename": "custom.txt"}`
	if writeError := os.WriteFile(filepath.Join(workingDirectory, explicitName), []byte(content), 0o644); writeError != nil {
		t.Fatalf("write config: %v", writeError)
	}

	settings, loadError := Load(workingDirectory, explicitName)
	if loadError != nil {
		t.Fatalf("Load error: %v", loadError)
	}
	if settings.OutputFilename != "custom.txt" {
		t.Fatalf("expected explicit file to apply, got %q", settings.OutputFilename)
	}
}

func TestUpdateFromArguments(t *testing.T) {
	settings := DefaultSettings()
	settings.OutputToFile = false

	updated := settings.UpdateFromArguments("./src", "./reports")
	if updated.InputDirectory != "./src" {
		t.Fatalf("expected input directory override, got %q", updated.InputDirectory)
	}
	if updated.OutputDirectory != "./reports" {
		t.Fatalf("expected output directory override, got %q", updated.OutputDirectory)
	}
	if !updated.OutputToFile {
		t.Fatal("supplying an output directory must enable the file sink")
	}

	unchanged := settings.UpdateFromArguments("", "")
	if unchanged.OutputToFile {
		t.Fatal("empty overrides must not enable the file sink")
	}
}

func TestNormalizeExtensions(t *testing.T) {
	normalized := NormalizeExtensions([]string{" .TXT", "go", "", ".", ".Md "})
	expected := []string{".txt", ".go", ".md"}
	if !reflect.DeepEqual(normalized, expected) {
		t.Fatalf("expected %v, got %v", expected, normalized)
	}
}

func TestDescribeListsEveryKey(t *testing.T) {
	description := DefaultSettings().Describe()
	for _, key := range []string{
		"input_directory",
		"output_directory",
		"include_hidden_files",
		"include_pycache",
		"output_to_console",
		"output_to_file",
		"output_filename",
		"include_file_contents",
	} {
		if !strings.Contains(description, key) {
			t.Fatalf("Describe output missing %q:\n%s", key, description)
		}
	}
}
