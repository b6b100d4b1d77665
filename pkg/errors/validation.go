package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateOntologyName validates a human-entered ontology name.
//
// The rules are intentionally permissive since names are display text:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 200 characters
func ValidateOntologyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "ontology name cannot be empty")
	}

	if len(name) > 200 {
		return New(ErrCodeInvalidName, "ontology name too long (max 200 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "ontology name contains invalid control characters")
		}
	}

	return nil
}

// tokenRegex matches normalized relationship type tokens.
var tokenRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateToken validates a relationship type token after normalization.
// Tokens are snake_case identifiers starting with a letter, at most 64 characters.
func ValidateToken(token string) error {
	if token == "" {
		return New(ErrCodeInvalidToken, "relationship type cannot be empty")
	}

	if len(token) > 64 {
		return New(ErrCodeInvalidToken, "relationship type too long (max 64 characters)")
	}

	if !tokenRegex.MatchString(token) {
		return New(ErrCodeInvalidToken, "invalid relationship type: %q", token)
	}

	return nil
}

// ValidateFilename validates an export/import filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}

	if strings.Contains(filename, "..") {
		return New(ErrCodeInvalidPath, "filename cannot contain path traversal sequences (..)")
	}

	for _, r := range filename {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "filename contains invalid characters")
		}
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidPath, "filename cannot be a hidden file")
	}

	return nil
}
