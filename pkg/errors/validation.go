package errors

import (
	"strings"
	"unicode"
)

// maxItemIDLength bounds item ids accepted from the CLI and the API.
const maxItemIDLength = 128

// ValidateItemID validates an item id before it is used as a lookup key or
// as part of a cache key.
//
// Rules:
//   - No empty ids
//   - No control characters or whitespace
//   - No path separators
//   - Maximum length of 128 characters
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "item id cannot be empty")
	}
	if len(id) > maxItemIDLength {
		return New(ErrCodeInvalidInput, "item id too long (max %d characters)", maxItemIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "item id contains invalid characters")
		}
	}
	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "item id contains invalid characters: %q", id)
	}
	return nil
}
