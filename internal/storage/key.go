package storage

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BuildKey constructs a unique object key of the form
// <userID>/<plantID>/<uuid>-<sanitized original name>. The uuid component
// makes two uploads for the same plant and filename land on different keys.
func BuildKey(userID, plantID, originalName string) string {
	return fmt.Sprintf("%s/%s/%s-%s", userID, plantID, uuid.NewString(), SanitizeFilename(originalName))
}

// SanitizeFilename strips every character outside [A-Za-z0-9.-] from name so
// the result is safe to embed in an object key and a public URL.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "upload"
	}
	return b.String()
}
