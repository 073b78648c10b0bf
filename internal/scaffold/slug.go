package scaffold

import (
	"regexp"
	"strings"
)

// SafeName derives a project directory name: lowercase, trimmed, with
// spaces and slashes replaced by "-". Other punctuation is kept.
func SafeName(name string) string {
	safe := strings.TrimSpace(strings.ToLower(name))
	return strings.NewReplacer(" ", "-", "/", "-").Replace(safe)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify is the strict slug: lowercase with every run of characters
// outside [a-z0-9] collapsed to "-" and leading and trailing "-" removed.
func Slugify(text string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(text), "-"), "-")
}
