package utils

import (
	"path/filepath"
	"testing"
)

func TestIsBinary(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected bool
	}{
		{name: "empty_input_is_text", data: nil, expected: false},
		{name: "plain_ascii_is_text", data: []byte("hello world"), expected: false},
		{name: "valid_utf8_is_text", data: []byte("héllo wörld"), expected: false},
		{name: "invalid_utf8_is_binary", data: []byte{0xff, 0xfe, 0x00, 0x01}, expected: true},
		{name: "embedded_nul_is_binary", data: []byte("hel\x00lo"), expected: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if result := IsBinary(testCase.data); result != testCase.expected {
				t.Fatalf("IsBinary(%q) = %v, expected %v", testCase.data, result, testCase.expected)
			}
		})
	}
}

func TestLowerExtension(t *testing.T) {
	testCases := []struct {
		name     string
		fileName string
		expected string
	}{
		{name: "lower_case_passthrough", fileName: "notes.txt", expected: ".txt"},
		{name: "upper_case_folded", fileName: "NOTES.TXT", expected: ".txt"},
		{name: "mixed_case_folded", fileName: "archive.Tar.Gz", expected: ".gz"},
		{name: "no_extension", fileName: "Makefile", expected: ""},
		{name: "dotfile_is_its_own_extension", fileName: ".gitignore", expected: ".gitignore"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if result := LowerExtension(testCase.fileName); result != testCase.expected {
				t.Fatalf("LowerExtension(%q) = %q, expected %q", testCase.fileName, result, testCase.expected)
			}
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "zero_bytes", bytes: 0, expected: "0b"},
		{name: "negative_clamped", bytes: -5, expected: "0b"},
		{name: "below_one_kilobyte", bytes: 512, expected: "512b"},
		{name: "exact_kilobyte", bytes: 1024, expected: "1kb"},
		{name: "fractional_kilobytes", bytes: 1536, expected: "1.5kb"},
		{name: "double_digit_kilobytes", bytes: 20 * 1024, expected: "20kb"},
		{name: "megabytes", bytes: 2 * 1024 * 1024, expected: "2mb"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if result := FormatFileSize(testCase.bytes); result != testCase.expected {
				t.Fatalf("FormatFileSize(%d) = %q, expected %q", testCase.bytes, result, testCase.expected)
			}
		})
	}
}

func TestRelativePathOrSelf(t *testing.T) {
	rootDirectory := t.TempDir()

	if result := RelativePathOrSelf(rootDirectory, rootDirectory); result != "." {
		t.Fatalf("expected \".\" for the root itself, got %q", result)
	}

	nestedPath := filepath.Join(rootDirectory, "sub", "inner.txt")
	if result := RelativePathOrSelf(nestedPath, rootDirectory); result != "sub/inner.txt" {
		t.Fatalf("expected slash-separated relative path, got %q", result)
	}
}
