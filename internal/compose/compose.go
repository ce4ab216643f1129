// Package compose turns generated text and an item link into the final post
// body under a character limit. Length is counted in runes.
package compose

import (
	"errors"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"news-herald/internal/ai"
)

// ErrEmptyText is returned when nothing usable is left after cleaning.
var ErrEmptyText = errors.New("generated text is empty")

const (
	ellipsis  = "…"
	separator = "\n\n"
)

// Clean strips reasoning blocks, surrounding whitespace and stray quotes.
func Clean(text string) string {
	text = ai.StripThink(text)
	text = strings.Trim(text, "\"'“”‘’")
	return strings.TrimSpace(text)
}

// Compose cleans text and, when appendLink is set and link looks like a URL,
// appends it after a blank line. If the result exceeds limit runes the text
// is trimmed at a word boundary and suffixed with an ellipsis; the link is
// kept whole or dropped. A limit <= 0 disables trimming.
func Compose(text, link string, limit int, appendLink bool) (string, error) {
	text = Clean(text)
	if text == "" {
		return "", ErrEmptyText
	}
	suffix := ""
	if appendLink && IsLink(link) {
		suffix = separator + link
	}
	if limit <= 0 {
		return text + suffix, nil
	}
	if utf8.RuneCountInString(suffix) >= limit {
		suffix = ""
	}
	budget := limit - utf8.RuneCountInString(suffix)
	if utf8.RuneCountInString(text) > budget {
		text = truncate(text, budget)
		if text == "" {
			return "", ErrEmptyText
		}
	}
	return text + suffix, nil
}

// IsLink reports whether s is an absolute http(s) URL.
func IsLink(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \n\t") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// truncate shortens s to at most max runes including a trailing ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if max == 1 {
		return ellipsis
	}
	runes := []rune(s)
	keep := max - 1
	cut := keep
	// prefer the last whitespace that fits
	for i := keep; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	out := strings.TrimRightFunc(string(runes[:cut]), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	if out == "" {
		out = string(runes[:keep])
	}
	return out + ellipsis
}
