package utils

import (
	"errors"
	"time"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 30 * 24 * time.Hour
)

type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// GetJTI returns the token's unique ID used for revocation
func (c *Claims) GetJTI() string {
	return c.ID
}

func (c *Claims) GetExpiresAt() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

func signToken(userID, secret string, ttl time.Duration) (string, string, error) {
	jti := uuid.New().String()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "borrowbase-backend",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// GenerateToken issues a short-lived access token
func GenerateToken(userID string) (string, error) {
	signed, _, err := signToken(userID, config.AppConfig.JWTSecret, AccessTokenTTL)
	return signed, err
}

// GenerateRefreshToken issues a long-lived refresh token and returns its JTI
// so the caller can persist it for rotation/revocation.
func GenerateRefreshToken(userID string) (string, string, error) {
	return signToken(userID, config.AppConfig.RefreshSecret, RefreshTokenTTL)
}

func parseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ValidateToken validates an access token
func ValidateToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, config.AppConfig.JWTSecret)
}

// ValidateRefreshToken validates a refresh token
func ValidateRefreshToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, config.AppConfig.RefreshSecret)
}

// GenerateID returns a new UUID string
func GenerateID() string {
	return uuid.New().String()
}

// IsUUID checks if the string is a valid UUID
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
