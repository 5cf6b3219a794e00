package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateTokenPair_RoundTrip(t *testing.T) {
	pair, err := GenerateTokenPair(42, testSecret, time.Minute, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	claims, err := ParseJWT(pair.Access, AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)

	claims, err = ParseJWT(pair.Refresh, RefreshToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestParseJWT_RejectsWrongType(t *testing.T) {
	pair, err := GenerateTokenPair(1, testSecret, time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(pair.Refresh, AccessToken, testSecret)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestParseJWT_RejectsBadSecretAndExpiry(t *testing.T) {
	token, err := GenerateJWT(1, AccessToken, testSecret, time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(token, AccessToken, "other")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	expired, err := GenerateJWT(1, AccessToken, testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, AccessToken, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
