package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(t *testing.T, accessMinutes int) *JWTManager {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewJWTManagerFromKeys(key, &key.PublicKey, accessMinutes, 7)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	mgr := testManager(t, 30)

	token, _, err := mgr.GenerateAccessToken("user-1", "student")
	require.NoError(t, err)

	claims, err := mgr.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "student", claims.Role)
}

func TestParseAccessRejectsRefreshToken(t *testing.T) {
	mgr := testManager(t, 30)

	refresh, _, err := mgr.GenerateRefreshToken("user-1", "student")
	require.NoError(t, err)

	_, err = mgr.ParseAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	mgr := testManager(t, -1)

	token, _, err := mgr.GenerateAccessToken("user-1", "student")
	require.NoError(t, err)

	_, err = mgr.ParseAccess(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestForeignSignatureRejected(t *testing.T) {
	mgr := testManager(t, 30)
	other := testManager(t, 30)

	token, _, err := other.GenerateAccessToken("user-1", "student")
	require.NoError(t, err)

	_, err = mgr.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageToken(t *testing.T) {
	mgr := testManager(t, 30)
	_, err := mgr.ParseAccess("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
