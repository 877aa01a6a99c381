package analyzer

import (
	"strings"

	"github.com/dirscribe/dirscribe/internal/config"
	"github.com/dirscribe/dirscribe/internal/types"
	"github.com/dirscribe/dirscribe/internal/utils"
)

const (
	hiddenEntryPrefix  = "."
	cacheDirectoryName = "__pycache__"
)

// cacheFileSuffixes lists the bytecode cache artifacts filtered alongside
// cacheDirectoryName.
var cacheFileSuffixes = []string{".pyc", ".pyo"}

// ShouldInclude reports whether an entry appears in listings and content
// collection. Hidden entries are excluded unless the hidden-files flag is set;
// cache artifacts, including anything nested under a cache directory, are
// excluded unless the cache-inclusion flag is set. The checks are independent
// and either can exclude the entry.
func ShouldInclude(entry types.Entry, settings config.Settings) bool {
	if strings.HasPrefix(entry.Name, hiddenEntryPrefix) && !settings.IncludeHiddenFiles {
		return false
	}

	if !settings.IncludePycache {
		if entry.Name == cacheDirectoryName {
			return false
		}
		for _, suffix := range cacheFileSuffixes {
			if strings.HasSuffix(entry.Name, suffix) {
				return false
			}
		}
		if strings.Contains(entry.Path, cacheDirectoryName) {
			return false
		}
	}

	return true
}

// ShouldIncludeContents reports whether the entry's contents are embedded in
// the output. Directories never qualify. With an empty extension set the
// answer is always false; otherwise the entry's lower-cased extension,
// including the leading dot, must be a member of the configured set.
func ShouldIncludeContents(entry types.Entry, settings config.Settings) bool {
	if entry.IsDir || len(settings.IncludeFileContents) == 0 {
		return false
	}
	extension := utils.LowerExtension(entry.Name)
	if extension == "" {
		return false
	}
	for _, candidate := range settings.IncludeFileContents {
		if candidate == extension {
			return true
		}
	}
	return false
}
