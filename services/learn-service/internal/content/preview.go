package content

import (
	"html"
	"regexp"
	"strings"
)

// PreviewLength is the default preview size in runes
const PreviewLength = 120

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Preview returns a short plain-text summary: the first non-empty text block
// found scanning sections then blocks in order, or the description otherwise
func Preview(c Content, description string, maxRunes int) string {
	for _, s := range c.Sections {
		for _, b := range s.Blocks {
			if b.Type != BlockTypeText {
				continue
			}
			if text := PlainText(b.Content); text != "" {
				return Truncate(text, maxRunes)
			}
		}
	}
	return Truncate(PlainText(description), maxRunes)
}

// PlainText strips markup and collapses whitespace
func PlainText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// Truncate shortens s to at most maxRunes runes, ending with an ellipsis when cut
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	if maxRunes == 1 {
		return "…"
	}
	return strings.TrimSpace(string(r[:maxRunes-1])) + "…"
}
