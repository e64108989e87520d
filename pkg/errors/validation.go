package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePath validates a user-supplied file path for input or output.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// colorRegex matches #rgb and #rrggbb hex colors.
var colorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a hex color string such as "#1f77b4" or "#fff".
func ValidateColor(color string) error {
	if !colorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid color %q (want #rgb or #rrggbb)", color)
	}
	return nil
}

// ValidateFormat checks that name is one of the allowed formats.
// Comparison is case-insensitive.
func ValidateFormat(name string, allowed ...string) error {
	for _, a := range allowed {
		if strings.EqualFold(name, a) {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)", name, strings.Join(allowed, ", "))
}
