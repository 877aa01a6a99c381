package analyzer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dirscribe/dirscribe/internal/config"
	"github.com/dirscribe/dirscribe/internal/types"
)

func textSettings(extensions ...string) config.Settings {
	settings := config.DefaultSettings()
	settings.IncludeFileContents = extensions
	return settings
}

func TestCollectContentsGathersMatchingFiles(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, "notes.txt"), "hello")
	writeTestFile(t, filepath.Join(rootDirectory, "sub", "more.txt"), "nested\n")
	writeTestFile(t, filepath.Join(rootDirectory, "skip.md"), "ignored")

	records := CollectContents(rootDirectory, textSettings(".txt"), nil)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	if records[0].RelativePath != "notes.txt" || records[0].Content != "hello" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].RelativePath != "sub/more.txt" || records[1].Content != "nested\n" {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestCollectContentsRespectsInclusionFilter(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, ".secret.txt"), "hidden")
	writeTestFile(t, filepath.Join(rootDirectory, "__pycache__", "cached.txt"), "cache")
	writeTestFile(t, filepath.Join(rootDirectory, "kept.txt"), "kept")

	records := CollectContents(rootDirectory, textSettings(".txt"), nil)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(records), records)
	}
	if records[0].RelativePath != "kept.txt" {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestCollectContentsReplacesBinaryWithPlaceholder(t *testing.T) {
	rootDirectory := t.TempDir()
	binaryPath := filepath.Join(rootDirectory, "blob.txt")
	if err := os.WriteFile(binaryPath, []byte{0x00, 0xff, 0x01, 0x02}, 0o644); err != nil {
		t.Fatalf("write binary file: %v", err)
	}

	records := CollectContents(rootDirectory, textSettings(".txt"), nil)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Content != placeholderNotText {
		t.Fatalf("expected %q placeholder, got %q", placeholderNotText, records[0].Content)
	}
}

func TestWriteContentSectionAppendsExactlyOneNewline(t *testing.T) {
	var builder strings.Builder
	sink := NewSink().AttachFile(&builder)
	WriteContentSection(sink, []types.ContentRecord{
		{RelativePath: "notes.txt", Content: "hello"},
	})

	expectedFragment := "notes.txt" + contentsLabelSuffix + "\n" +
		contentsSeparatorLine + "\n" +
		"hello\n" +
		contentsSeparatorLine + "\n\n"
	if !strings.Contains(builder.String(), expectedFragment) {
		t.Fatalf("expected record framing with a single appended newline, got:\n%s", builder.String())
	}
	if strings.Contains(builder.String(), "hello\n\n"+contentsSeparatorLine) {
		t.Fatalf("content gained an extra newline:\n%s", builder.String())
	}
	if !strings.Contains(builder.String(), contentsSectionTitle) {
		t.Fatalf("missing section header:\n%s", builder.String())
	}
}

func TestWriteContentSectionPreservesExistingNewline(t *testing.T) {
	var builder strings.Builder
	sink := NewSink().AttachFile(&builder)
	WriteContentSection(sink, []types.ContentRecord{
		{RelativePath: "notes.txt", Content: "hello\n"},
	})
	if !strings.Contains(builder.String(), "hello\n"+contentsSeparatorLine) {
		t.Fatalf("expected content followed directly by separator:\n%s", builder.String())
	}
}

func TestWriteContentSectionSkipsConsoleOnlySinks(t *testing.T) {
	var consoleOutput strings.Builder
	sink := NewSink().AttachConsole(&consoleOutput)
	WriteContentSection(sink, []types.ContentRecord{
		{RelativePath: "notes.txt", Content: "hello"},
	})
	if consoleOutput.Len() != 0 {
		t.Fatalf("content section must never reach console destinations, got:\n%s", consoleOutput.String())
	}
}

func TestWriteContentSectionWithNoRecordsEmitsNothing(t *testing.T) {
	var builder strings.Builder
	sink := NewSink().AttachFile(&builder)
	WriteContentSection(sink, nil)
	if builder.Len() != 0 {
		t.Fatalf("expected no output for empty record set, got:\n%s", builder.String())
	}
}
