// file: internal/services/slug.go
package services

import (
	"regexp"
	"strings"
)

var nonAlnumRuns = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a URL-safe identifier from a title: lowercase, runs of
// non-alphanumeric characters collapsed to a single hyphen, leading and
// trailing hyphens stripped. A title with no usable characters falls back to
// "discussion" so the collision probe still has a base to suffix.
func slugify(title string) string {
	slug := nonAlnumRuns.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "discussion"
	}
	return slug
}
