package handlers

import (
	"strings"
	"testing"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeMessageContent(t *testing.T) {
	out, err := SanitizeMessageContent("hello <script>alert('x')</script>there", models.MessageTypeText)
	assert.NoError(t, err)
	assert.NotContains(t, out, "script")
	assert.Contains(t, out, "hello")

	out, err = SanitizeMessageContent(`<img src=x onerror=alert(1)>hi`, models.MessageTypeText)
	assert.NoError(t, err)
	assert.NotContains(t, out, "onerror")

	out, err = SanitizeMessageContent(`see <iframe src="evil"></iframe>`, models.MessageTypeText)
	assert.NoError(t, err)
	assert.NotContains(t, out, "iframe")
}

func TestSanitizeMessageContent_Empty(t *testing.T) {
	_, err := SanitizeMessageContent("   ", models.MessageTypeText)
	assert.Error(t, err)
}

func TestSanitizeMessageContent_TooLong(t *testing.T) {
	_, err := SanitizeMessageContent(strings.Repeat("a", MaxMessageLength+1), models.MessageTypeText)
	assert.Error(t, err)
}

func TestSanitizeMessageContent_SystemPassthrough(t *testing.T) {
	out, err := SanitizeMessageContent("Borrow request approved", models.MessageTypeSystem)
	assert.NoError(t, err)
	assert.Equal(t, "Borrow request approved", out)
}
