// Package otp implements the one-time-password lifecycle: short-lived
// hashed challenges keyed by (user, purpose) with exactly-once consumption.
package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/go-banking-api/internal/domain"
	"github.com/go-banking-api/internal/pkg/otpcode"
	"github.com/go-banking-api/internal/pkg/password"
)

// ChallengeStore is the minimal persistence contract. Consume must be
// atomic: of any number of concurrent calls for the same (user, purpose),
// at most one may succeed.
type ChallengeStore interface {
	Put(ctx context.Context, c *domain.OTPChallenge) error
	Consume(ctx context.Context, userID, purpose string) (*domain.OTPChallenge, error)
}

type Service interface {
	// Issue creates a fresh 6-digit challenge and returns the plaintext
	// code to the caller. Any previous challenge for the same
	// (user, purpose) is superseded.
	Issue(ctx context.Context, userID, purpose string, ttl time.Duration) (string, error)
	// Register stores a caller-supplied secret (e.g. a reset-token nonce)
	// under the same single-consumption semantics as an issued code.
	Register(ctx context.Context, userID, purpose, secret string, ttl time.Duration) error
	// Consume verifies and spends the active challenge. Absent, expired,
	// already-consumed, or mismatched codes all fail with
	// domain.ErrInvalidOTP.
	Consume(ctx context.Context, userID, purpose, code string) error
}

type service struct {
	store ChallengeStore
}

func NewService(store ChallengeStore) Service {
	return &service{store: store}
}

func (s *service) Issue(ctx context.Context, userID, purpose string, ttl time.Duration) (string, error) {
	code, err := otpcode.New()
	if err != nil {
		return "", err
	}
	if err := s.Register(ctx, userID, purpose, code, ttl); err != nil {
		return "", err
	}
	return code, nil
}

func (s *service) Register(ctx context.Context, userID, purpose, secret string, ttl time.Duration) error {
	hash, err := password.Hash(secret)
	if err != nil {
		return fmt.Errorf("hash challenge secret: %w", err)
	}
	now := time.Now()
	return s.store.Put(ctx, &domain.OTPChallenge{
		UserID:    userID,
		Purpose:   purpose,
		CodeHash:  hash,
		Consumed:  false,
		ExpiresAt: now.Add(ttl).Unix(),
		CreatedAt: now.Unix(),
	})
}

func (s *service) Consume(ctx context.Context, userID, purpose, code string) error {
	c, err := s.store.Consume(ctx, userID, purpose)
	if err != nil {
		return err
	}
	if !password.Verify(code, c.CodeHash) {
		return fmt.Errorf("code mismatch: %w", domain.ErrInvalidOTP)
	}
	return nil
}
