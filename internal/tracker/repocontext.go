package tracker

import (
	"os"
	"strings"
	"unicode/utf8"
)

// DefaultContextCap bounds how much project description is injected into
// extraction prompts.
const DefaultContextCap = 2048

// ReadProjectContext reads an optional free-text project description from
// path, capped at maxBytes. A missing or unreadable file yields an empty
// context; this provider never fails the pipeline.
func ReadProjectContext(path string, maxBytes int) string {
	if path == "" {
		return ""
	}
	if maxBytes <= 0 {
		maxBytes = DefaultContextCap
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	text := strings.TrimSpace(string(data))
	if len(text) <= maxBytes {
		return text
	}

	text = text[:maxBytes]
	// Back off a truncated multi-byte rune at the cut point.
	for len(text) > 0 && !utf8.ValidString(text) {
		text = text[:len(text)-1]
	}
	return text
}
