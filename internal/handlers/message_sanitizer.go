package handlers

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Message length limits
const (
	MaxMessageLength = 4000
	MinMessageLength = 1
)

// Dangerous patterns for XSS prevention
var (
	scriptTagRegex = regexp.MustCompile(`(?i)<script[^>]*>.*?</script>`)
	onEventRegex   = regexp.MustCompile(`(?i)\s+on\w+\s*=`)
	iframeRegex    = regexp.MustCompile(`(?i)<iframe[^>]*>.*?</iframe>`)
)

// SanitizeMessageContent cleans and validates message content.
// Returns the sanitized content or an error when validation fails.
func SanitizeMessageContent(content string, msgType string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", errors.New("message cannot be empty")
	}

	if utf8.RuneCountInString(content) > MaxMessageLength {
		return "", errors.New("message exceeds maximum length")
	}

	// System messages are generated server-side, leave them alone
	if msgType == "system" {
		return content, nil
	}

	// Strip active content, then escape what remains
	content = scriptTagRegex.ReplaceAllString(content, "")
	content = iframeRegex.ReplaceAllString(content, "")
	content = onEventRegex.ReplaceAllString(content, " ")
	content = html.EscapeString(content)

	content = strings.TrimSpace(content)
	if content == "" {
		return "", errors.New("message cannot be empty")
	}

	return content, nil
}
