package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier for safety and correctness.
// Node identifiers come from map files and HTTP requests, so the rules
// are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No path separators (identifiers appear in URLs and cache keys)
//   - Maximum length of 128 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node identifier cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "node identifier too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node identifier contains invalid control characters")
		}
	}

	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidInput, "node identifier cannot contain path separators")
	}

	return nil
}

// ValidateMapFilename validates a map filename for safety.
// It ensures the filename is a simple basename without traversal sequences.
func ValidateMapFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidMap, "map filename cannot be empty")
	}

	if strings.Contains(filename, "..") {
		return New(ErrCodeInvalidMap, "map filename cannot contain path traversal sequences (..)")
	}

	if strings.Contains(filename, "\x00") {
		return New(ErrCodeInvalidMap, "map filename contains invalid characters")
	}

	return nil
}

// sessionIDRegex matches the UUID format used for planning-session identifiers.
var sessionIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateSessionID validates a planning-session identifier.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session identifier cannot be empty")
	}

	if !sessionIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid session identifier: %q", id)
	}

	return nil
}
