// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"strings"
)

// maxListedStyles caps how many style names ForHighlightStyle prints.
const maxListedStyles = 8

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and, when one was searched, the user config path.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-mdhtml") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForHighlightStyle lists some valid chroma style names.
func ForHighlightStyle(available []string) string {
	if len(available) == 0 {
		return ""
	}
	if len(available) <= maxListedStyles {
		return format("available: " + strings.Join(available, ", "))
	}
	listed := strings.Join(available[:maxListedStyles], ", ")
	return format(fmt.Sprintf("available: %s (and %d more)", listed, len(available)-maxListedStyles))
}

// ForMissingStyle suggests a style for enabled highlighting.
func ForMissingStyle(suggested string) string {
	return format(fmt.Sprintf("set highlight.style (e.g. %s) or pass --highlight %s", suggested, suggested))
}

// ForNoInput explains the ways to provide input.
func ForNoInput() string {
	return format("pass a file or directory, use - to read stdin, or set input.defaultDir in config")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
