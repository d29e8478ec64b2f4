package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// blockTypeRegex matches block type identifiers such as "Const" or
// "math.add". Segments are alphanumeric with internal hyphens or
// underscores, joined by dots.
var blockTypeRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*(\.[A-Za-z0-9][A-Za-z0-9_-]*)*$`)

// ValidateBlockType validates a block type identifier supplied from the
// outside (CLI arguments, library files). It rejects identifiers that
// could not have been produced by a well-formed block library.
func ValidateBlockType(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "block type cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "block type too long (max 128 characters)")
	}

	if !blockTypeRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid block type: %q", id)
	}

	return nil
}

// ValidateLibraryFilename validates a block library filename.
// It ensures the name is a simple basename with a YAML extension.
func ValidateLibraryFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidLibrary, "library filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidLibrary, "library filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidLibrary, "library filename cannot be a hidden file")
	}

	if !strings.HasSuffix(filename, ".yaml") && !strings.HasSuffix(filename, ".yml") {
		return New(ErrCodeInvalidLibrary, "library filename must end in .yaml or .yml")
	}

	return nil
}

// ValidatePath validates a user-supplied relative path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
