package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService([]byte("test-secret-0123456789abcdef"), "openshelf", time.Hour)

	token, expiresAt, err := svc.Issue("u1", "admin@acme.test", "acme", []string{"brands.view", "brands.search"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "admin@acme.test", claims.Email)
	assert.Equal(t, "acme", claims.TenantKey)
	assert.Equal(t, []string{"brands.view", "brands.search"}, claims.Permissions)
	assert.Equal(t, "openshelf", claims.Issuer)
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService([]byte("secret-a"), "openshelf", time.Hour)
	verifier := NewTokenService([]byte("secret-b"), "openshelf", time.Hour)

	token, _, err := issuer.Issue("u1", "a@b.test", "acme", nil)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsWrongIssuer(t *testing.T) {
	issuer := NewTokenService([]byte("secret"), "someone-else", time.Hour)
	verifier := NewTokenService([]byte("secret"), "openshelf", time.Hour)

	token, _, err := issuer.Issue("u1", "a@b.test", "acme", nil)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := NewTokenService([]byte("secret"), "openshelf", -time.Minute)

	token, _, err := svc.Issue("u1", "a@b.test", "acme", nil)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc := NewTokenService([]byte("secret"), "openshelf", time.Hour)

	_, err := svc.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
