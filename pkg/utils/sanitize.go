package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// sanitize.go - input sanitization helpers

// EscapeSQLWildcards escapes LIKE/ILIKE wildcard characters so user input
// cannot widen a pattern match.
func EscapeSQLWildcards(input string) string {
	input = strings.ReplaceAll(input, "\\", "\\\\")
	input = strings.ReplaceAll(input, "%", "\\%")
	input = strings.ReplaceAll(input, "_", "\\_")
	return input
}

// SanitizeSearchQuery prepares a search string for safe ILIKE usage.
// Returns the sanitized term wrapped with % for partial matching.
func SanitizeSearchQuery(input string) string {
	input = TruncateString(strings.TrimSpace(input), 100)
	input = EscapeSQLWildcards(input)
	return "%" + input + "%"
}

// SanitizeHTML escapes HTML entities to prevent XSS
func SanitizeHTML(input string) string {
	return html.EscapeString(input)
}

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes all HTML tags from a string
func StripHTML(input string) string {
	return htmlTagRegex.ReplaceAllString(input, "")
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)

// ValidateUsername checks if username contains only allowed characters
func ValidateUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

// TruncateString truncates a string to at most maxLen bytes without
// splitting a multi-byte rune, so the result stays valid UTF-8.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
