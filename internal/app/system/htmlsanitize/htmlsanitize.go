// Package htmlsanitize strips markup from free-text fields submitted to the
// API. Group and meeting descriptions are stored and returned as text, so
// only input that looks like markup is touched.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// IsPlainText reports whether s contains no tag-like content.
// A lone '<' or '>' (as in "5 < 10") is still plain text.
func IsPlainText(s string) bool {
	return !strings.Contains(s, "<") || !strings.Contains(s, ">")
}

// StripTags removes all markup from s and returns text, not HTML: the
// sanitizer's entity escaping is undone so "Q&A" and "a < b" come back as
// written.
func StripTags(s string) string {
	if IsPlainText(s) {
		return s
	}
	return html.UnescapeString(strict.Sanitize(s))
}

// Fields applies StripTags to each pointer in place.
func Fields(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = StripTags(*f)
		}
	}
}
