package errors

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/matzehuels/graphpad/pkg/graph"
)

// Graph file extensions accepted by open and save.
var graphExtensions = []string{".graph", ".json", ".toml"}

// ValidatePath validates a document path before it is opened or written.
//
// Validation rules:
//   - Path cannot be empty or blank
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Extension must be .graph, .json or .toml
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range graphExtensions {
		if ext == allowed {
			return nil
		}
	}
	return New(ErrCodeInvalidPath, "unsupported file extension %q (want .graph, .json or .toml)", ext)
}

// ValidateColorName parses a pen color given by palette name or "#rrggbb".
func ValidateColorName(name string) (graph.Color, error) {
	if name == "" {
		return graph.Color{}, New(ErrCodeInvalidColor, "color cannot be empty")
	}
	c, err := graph.ParseColor(name)
	if err != nil {
		return graph.Color{}, Wrap(ErrCodeInvalidColor, err, "unknown pen color %q", name)
	}
	return c, nil
}
