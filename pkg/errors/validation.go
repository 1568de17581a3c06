package errors

import (
	"strings"
	"unicode"
)

// maxProjectIDLength bounds project identifiers. GCP ids are at most 30
// characters but hand-made snapshots may use longer names.
const maxProjectIDLength = 128

// ValidateProjectID validates a project identifier before it is turned into a
// snapshot filename. It rejects ids that could escape the snapshot directory.
//
// Validation rules:
//   - Id cannot be empty or whitespace only
//   - Maximum length of 128 characters
//   - No control characters or null bytes
//   - No path separators (/ or \)
//   - No path traversal sequences (..)
func ValidateProjectID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidProject, "project id cannot be empty")
	}

	if len(id) > maxProjectIDLength {
		return New(ErrCodeInvalidProject, "project id too long (max %d characters)", maxProjectIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidProject, "project id contains invalid control characters")
		}
	}

	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidProject, "project id cannot contain path separators: %q", id)
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidProject, "project id cannot contain path traversal sequences (..)")
	}

	return nil
}
