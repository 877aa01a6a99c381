// Package config loads, merges, and persists the dirscribe configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the configuration file consulted in the working directory.
	ConfigFileName = "config.json"

	configFileType = "json"

	defaultInputDirectory  = "."
	defaultOutputDirectory = "./output"
	defaultOutputFilename  = "folder_structure.txt"

	configFilePermissions = 0o644

	warningLoadConfigFormat = "Warning: could not load config file %s: %v\n"
	warningUsingDefaults    = "Using default configuration.\n"
	warningSaveConfigFormat = "Warning: could not save config file %s: %v\n"

	errorDecodeConfigFormat = "decode configuration from %s: %w"
	errorEncodeConfigFormat = "encode configuration: %w"
	errorWriteConfigFormat  = "write configuration to %s: %w"

	settingsBannerLine = "========================================"
	settingsHeader     = "Current Configuration:"
)

// Settings is the immutable-per-run configuration consulted by the filter
// policy and the tree renderer. It is constructed once per invocation from
// defaults merged with the persisted file and command-line overrides, and is
// passed explicitly into every traversal and filter call.
type Settings struct {
	InputDirectory      string   `mapstructure:"input_directory" json:"input_directory"`
	OutputDirectory     string   `mapstructure:"output_directory" json:"output_directory"`
	IncludeHiddenFiles  bool     `mapstructure:"include_hidden_files" json:"include_hidden_files"`
	IncludePycache      bool     `mapstructure:"include_pycache" json:"include_pycache"`
	OutputToConsole     bool     `mapstructure:"output_to_console" json:"output_to_console"`
	OutputToFile        bool     `mapstructure:"output_to_file" json:"output_to_file"`
	OutputFilename      string   `mapstructure:"output_filename" json:"output_filename"`
	IncludeFileContents []string `mapstructure:"include_file_contents" json:"include_file_contents"`
}

// DefaultSettings returns the configuration used when no overrides exist.
func DefaultSettings() Settings {
	return Settings{
		InputDirectory:      defaultInputDirectory,
		OutputDirectory:     defaultOutputDirectory,
		IncludeHiddenFiles:  false,
		IncludePycache:      false,
		OutputToConsole:     true,
		OutputToFile:        true,
		OutputFilename:      defaultOutputFilename,
		IncludeFileContents: []string{},
	}
}

// Load reads the configuration file at explicitPath, or ConfigFileName inside
// workingDirectory when explicitPath is empty, and merges it over the
// defaults. A missing file is persisted with the default values so the next
// run starts from an editable template; an unreadable or malformed file is
// reported as a warning and the defaults are used.
func Load(workingDirectory string, explicitPath string) (Settings, error) {
	configPath := resolveConfigPath(workingDirectory, explicitPath)

	if _, statError := os.Stat(configPath); os.IsNotExist(statError) {
		settings := DefaultSettings()
		if saveError := Save(configPath, settings); saveError != nil {
			fmt.Fprintf(os.Stderr, warningSaveConfigFormat, configPath, saveError)
		}
		return settings, nil
	}

	reader := viper.New()
	reader.SetConfigFile(configPath)
	reader.SetConfigType(configFileType)
	applyDefaults(reader)

	if readError := reader.ReadInConfig(); readError != nil {
		fmt.Fprintf(os.Stderr, warningLoadConfigFormat, configPath, readError)
		fmt.Fprint(os.Stderr, warningUsingDefaults)
		return DefaultSettings(), nil
	}

	var settings Settings
	if decodeError := reader.Unmarshal(&settings); decodeError != nil {
		return Settings{}, fmt.Errorf(errorDecodeConfigFormat, configPath, decodeError)
	}
	settings.IncludeFileContents = NormalizeExtensions(settings.IncludeFileContents)
	return settings, nil
}

func resolveConfigPath(workingDirectory string, explicitPath string) string {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) || workingDirectory == "" {
			return explicitPath
		}
		return filepath.Join(workingDirectory, explicitPath)
	}
	if workingDirectory == "" {
		return ConfigFileName
	}
	return filepath.Join(workingDirectory, ConfigFileName)
}

func applyDefaults(reader *viper.Viper) {
	defaults := DefaultSettings()
	reader.SetDefault("input_directory", defaults.InputDirectory)
	reader.SetDefault("output_directory", defaults.OutputDirectory)
	reader.SetDefault("include_hidden_files", defaults.IncludeHiddenFiles)
	reader.SetDefault("include_pycache", defaults.IncludePycache)
	reader.SetDefault("output_to_console", defaults.OutputToConsole)
	reader.SetDefault("output_to_file", defaults.OutputToFile)
	reader.SetDefault("output_filename", defaults.OutputFilename)
	reader.SetDefault("include_file_contents", defaults.IncludeFileContents)
}

// Save writes the settings as indented JSON, creating parent directories as needed.
func Save(configPath string, settings Settings) error {
	encoded, encodeError := json.MarshalIndent(settings, "", "    ")
	if encodeError != nil {
		return fmt.Errorf(errorEncodeConfigFormat, encodeError)
	}
	parentDirectory := filepath.Dir(configPath)
	if parentDirectory != "." {
		if mkdirError := os.MkdirAll(parentDirectory, 0o755); mkdirError != nil {
			return fmt.Errorf(errorWriteConfigFormat, configPath, mkdirError)
		}
	}
	if writeError := os.WriteFile(configPath, append(encoded, '\n'), configFilePermissions); writeError != nil {
		return fmt.Errorf(errorWriteConfigFormat, configPath, writeError)
	}
	return nil
}

// UpdateFromArguments overlays command-line overrides onto the settings.
// Supplying an output directory implies writing the rendered file.
func (settings Settings) UpdateFromArguments(inputDirectory string, outputDirectory string) Settings {
	result := settings
	if inputDirectory != "" {
		result.InputDirectory = inputDirectory
	}
	if outputDirectory != "" {
		result.OutputDirectory = outputDirectory
		result.OutputToFile = true
	}
	return result
}

// NormalizeExtensions lower-cases each extension and guarantees the leading
// dot, dropping blank values, so membership checks need no further cleanup.
func NormalizeExtensions(extensions []string) []string {
	normalized := make([]string, 0, len(extensions))
	for _, extension := range extensions {
		trimmed := strings.TrimSpace(strings.ToLower(extension))
		if trimmed == "" || trimmed == "." {
			continue
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		normalized = append(normalized, trimmed)
	}
	return normalized
}

// Describe renders the settings as the banner-framed listing shown by the
// config command.
func (settings Settings) Describe() string {
	var builder strings.Builder
	builder.WriteString(settingsHeader + "\n")
	builder.WriteString(settingsBannerLine + "\n")
	fmt.Fprintf(&builder, "  input_directory: %s\n", settings.InputDirectory)
	fmt.Fprintf(&builder, "  output_directory: %s\n", settings.OutputDirectory)
	fmt.Fprintf(&builder, "  include_hidden_files: %v\n", settings.IncludeHiddenFiles)
	fmt.Fprintf(&builder, "  include_pycache: %v\n", settings.IncludePycache)
	fmt.Fprintf(&builder, "  output_to_console: %v\n", settings.OutputToConsole)
	fmt.Fprintf(&builder, "  output_to_file: %v\n", settings.OutputToFile)
	fmt.Fprintf(&builder, "  output_filename: %s\n", settings.OutputFilename)
	fmt.Fprintf(&builder, "  include_file_contents: [%s]\n", strings.Join(settings.IncludeFileContents, ", "))
	builder.WriteString(settingsBannerLine + "\n")
	return builder.String()
}
