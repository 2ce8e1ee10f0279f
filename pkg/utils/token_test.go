package utils

import (
	"testing"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/config"
	"github.com/stretchr/testify/assert"
)

func setTestConfig() {
	config.AppConfig = &config.Config{
		JWTSecret:     "access-secret",
		RefreshSecret: "refresh-secret",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	setTestConfig()

	token, err := GenerateToken("user-123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.NotEmpty(t, claims.GetJTI())
	assert.False(t, claims.GetExpiresAt().IsZero())
}

func TestRefreshTokenUsesSeparateSecret(t *testing.T) {
	setTestConfig()

	refresh, jti, err := GenerateRefreshToken("user-123")
	assert.NoError(t, err)
	assert.NotEmpty(t, jti)

	// Valid against the refresh secret
	claims, err := ValidateRefreshToken(refresh)
	assert.NoError(t, err)
	assert.Equal(t, jti, claims.GetJTI())

	// A refresh token must never pass as an access token
	_, err = ValidateToken(refresh)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	setTestConfig()

	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID(GenerateID()))
	assert.False(t, IsUUID("nope"))
}
