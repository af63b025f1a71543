package jwtinfra

import (
	"errors"
	"testing"
	"time"

	"github.com/go-banking-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider(&config.Config{
		JWTSecret:        "test-signing-secret",
		JWTExpiry:        time.Hour,
		ResetTokenExpiry: 15 * time.Minute,
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_RequiresSecret(t *testing.T) {
	_, err := NewProvider(&config.Config{JWTExpiry: time.Hour})
	require.Error(t, err)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	p := newProvider(t)

	signed, err := p.Sign("u1", "rol_admin", "admin")
	require.NoError(t, err)

	claims, err := p.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "rol_admin", claims.RoleID)
	assert.Equal(t, "admin", claims.RoleName)
	assert.Empty(t, claims.Purpose)
}

func TestVerify_Expired(t *testing.T) {
	p, err := NewProvider(&config.Config{
		JWTSecret:        "test-signing-secret",
		JWTExpiry:        -time.Minute,
		ResetTokenExpiry: 15 * time.Minute,
	})
	require.NoError(t, err)

	signed, err := p.Sign("u1", "rol_customer", "customer")
	require.NoError(t, err)

	_, err = p.Verify(signed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExpired))
	assert.False(t, errors.Is(err, ErrInvalid))
}

func TestVerify_WrongSecret(t *testing.T) {
	p := newProvider(t)
	other, err := NewProvider(&config.Config{
		JWTSecret:        "another-secret",
		JWTExpiry:        time.Hour,
		ResetTokenExpiry: 15 * time.Minute,
	})
	require.NoError(t, err)

	signed, err := other.Sign("u1", "rol_customer", "customer")
	require.NoError(t, err)

	_, err = p.Verify(signed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestVerify_Garbage(t *testing.T) {
	p := newProvider(t)
	_, err := p.Verify("not.a.token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestVerify_RejectsNonHMAC(t *testing.T) {
	p := newProvider(t)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = p.Verify(signed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestSignReset_CarriesPurposeAndNonce(t *testing.T) {
	p := newProvider(t)

	signed, err := p.SignReset("u1", "nonce-123")
	require.NoError(t, err)

	claims, err := p.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, PurposeResetPassword, claims.Purpose)
	assert.Equal(t, "nonce-123", claims.ID)
}
