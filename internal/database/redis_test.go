package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// The server keeps running when Redis is absent, so every helper must
// tolerate a nil client instead of panicking.
func TestRedisHelpersWithoutClient(t *testing.T) {
	old := Redis
	Redis = nil
	defer func() { Redis = old }()

	assert.NotPanics(t, func() {
		allowed, err := CheckRateLimit("user-1", 10, time.Minute)
		assert.True(t, allowed)
		assert.NoError(t, err)
	})

	assert.NotPanics(t, func() {
		assert.Error(t, CacheSet("k", map[string]string{"a": "b"}, time.Minute))
	})

	assert.NotPanics(t, func() {
		var dest map[string]string
		assert.Error(t, CacheGet("k", &dest))
	})

	assert.NotPanics(t, func() {
		assert.Error(t, CacheInvalidate("resources:*"))
	})

	assert.NotPanics(t, func() {
		assert.Error(t, BlacklistToken("jti", time.Minute))
		assert.False(t, IsTokenBlacklisted("jti"))
		assert.Error(t, StoreRefreshToken("user-1", "jti", time.Minute))
		assert.False(t, IsRefreshTokenActive("user-1", "jti"))
		assert.NoError(t, RevokeRefreshToken("user-1"))
	})
}
