package store

import (
	"strings"

	"github.com/google/uuid"
)

// ParseID validates a gauge identifier. Only the canonical form (lowercase,
// hyphenated) is accepted, so braces, URN prefixes and upper case are
// rejected even though they would parse.
func ParseID(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", &ValidationError{Field: "id", Message: "gauge id is required"}
	}
	id, err := uuid.Parse(raw)
	if err != nil || id.String() != raw {
		return "", &ValidationError{Field: "id", Message: "invalid gauge id"}
	}
	return raw, nil
}
