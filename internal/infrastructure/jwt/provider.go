package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-banking-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Verification failure classes. Expired tokens are reported separately so
// the transport layer can distinguish a lapsed session (401) from a forged
// or malformed token (403).
var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("token invalid")
)

// PurposeResetPassword is the purpose claim of a temporary reset token.
const PurposeResetPassword = "reset_password"

// Claims holds the JWT payload fields.
type Claims struct {
	UserID   string `json:"user_id"`
	RoleID   string `json:"role,omitempty"`
	RoleName string `json:"role_name,omitempty"`
	Purpose  string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs with a process-wide secret.
type Provider struct {
	secret      []byte
	expiry      time.Duration
	resetExpiry time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return &Provider{
		secret:      []byte(cfg.JWTSecret),
		expiry:      cfg.JWTExpiry,
		resetExpiry: cfg.ResetTokenExpiry,
	}, nil
}

// Sign issues a session token binding the user's identity and role.
func (p *Provider) Sign(userID, roleID, roleName string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		RoleID:   roleID,
		RoleName: roleName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// SignReset issues a short-lived token that authorizes exactly one password
// reset. jti is a nonce the auth core tracks so the token cannot be replayed
// after a successful reset.
func (p *Provider) SignReset(userID, jti string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		Purpose: PurposeResetPassword,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(p.resetExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify checks signature then expiry. A well-formed token past its expiry
// fails with ErrExpired; every other failure is ErrInvalid.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: malformed claims", ErrInvalid)
	}
	return claims, nil
}
