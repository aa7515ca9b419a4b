package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateToken(t *testing.T) {
	jwtService := NewJWTService("test-secret-key", 24*time.Hour)

	userID := "test-user-123"
	token, err := jwtService.GenerateToken(userID)

	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID, claims.Subject)
	assert.NotNil(t, claims.ExpiresAt)
	assert.NotNil(t, claims.IssuedAt)
}

func TestJWTService_ValidateToken_WrongSecret(t *testing.T) {
	jwtService := NewJWTService("test-secret-key", 24*time.Hour)
	otherService := NewJWTService("different-secret", 24*time.Hour)

	token, err := jwtService.GenerateToken("test-user")
	require.NoError(t, err)

	_, err = otherService.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateToken_Malformed(t *testing.T) {
	jwtService := NewJWTService("test-secret-key", 24*time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := jwtService.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	jwtService := NewJWTService("test-secret-key", -time.Minute)

	token, err := jwtService.GenerateToken("test-user")
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
