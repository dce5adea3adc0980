package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// StripTags removes all markup from s. Text is returned HTML-escaped.
func StripTags(s string) string {
	return stripPolicy.Sanitize(s)
}

/**
 * Render a long module description as HTML-safe text
 * @param {any} raw - String, or list of lines joined with "\n"
 * @returns {string} Tag-free text with newlines turned into "<br />", "" for nil or other types
 * @example
 * NormalizeLongDescription([]any{"line1", "<b>line2</b>"}) // "line1<br />line2"
 */
func NormalizeLongDescription(raw any) string {
	var text string
	switch v := raw.(type) {
	case string:
		text = v
	case []string:
		text = strings.Join(v, "\n")
	case []any:
		lines := make([]string, 0, len(v))
		for _, line := range v {
			if s, ok := line.(string); ok {
				lines = append(lines, s)
			}
		}
		text = strings.Join(lines, "\n")
	default:
		return ""
	}
	return strings.ReplaceAll(StripTags(text), "\n", "<br />")
}
