package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestEscapeSQLWildcards(t *testing.T) {
	assert.Equal(t, "100\\%", EscapeSQLWildcards("100%"))
	assert.Equal(t, "snake\\_case", EscapeSQLWildcards("snake_case"))
	assert.Equal(t, "back\\\\slash", EscapeSQLWildcards("back\\slash"))
	assert.Equal(t, "plain", EscapeSQLWildcards("plain"))
}

func TestSanitizeSearchQuery(t *testing.T) {
	assert.Equal(t, "%drill%", SanitizeSearchQuery("  drill  "))
	assert.Equal(t, "%50\\% off%", SanitizeSearchQuery("50% off"))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "hello world", StripHTML("<b>hello</b> world"))
	assert.Equal(t, "alert(1)", StripHTML("<script>alert(1)</script>"))
}

func TestValidateUsername(t *testing.T) {
	assert.True(t, ValidateUsername("priya_t"))
	assert.True(t, ValidateUsername("user-42"))
	assert.False(t, ValidateUsername("ab"))                 // too short
	assert.False(t, ValidateUsername("has spaces"))         // whitespace
	assert.False(t, ValidateUsername("emoji🙂"))     // non-ascii
	assert.False(t, ValidateUsername(strings.Repeat("a", 31))) // too long
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", TruncateString("abc", 10))
	assert.Equal(t, "abc", TruncateString("abcdef", 3))
}

func TestTruncateStringKeepsValidUTF8(t *testing.T) {
	// "héllo" is 6 bytes; cutting at 2 would land inside é.
	assert.Equal(t, "h", TruncateString("héllo", 2))
	assert.Equal(t, "hé", TruncateString("héllo", 3))
	assert.True(t, utf8.ValidString(TruncateString(strings.Repeat("日", 200), 100)))

	long := strings.Repeat("日", 50) // 150 bytes, over the 100-byte search cap
	assert.True(t, utf8.ValidString(SanitizeSearchQuery(long)))
}
