package otp

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/go-banking-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChallengeStore mimics the conditional-update semantics of the real
// store: Consume spends the row under a lock, so concurrent calls observe
// exactly one success.
type fakeChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]*domain.OTPChallenge
}

func newFakeStore() *fakeChallengeStore {
	return &fakeChallengeStore{challenges: make(map[string]*domain.OTPChallenge)}
}

func (f *fakeChallengeStore) key(userID, purpose string) string { return userID + "#" + purpose }

func (f *fakeChallengeStore) Put(_ context.Context, c *domain.OTPChallenge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.challenges[f.key(c.UserID, c.Purpose)] = &cp
	return nil
}

func (f *fakeChallengeStore) Consume(_ context.Context, userID, purpose string) (*domain.OTPChallenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.challenges[f.key(userID, purpose)]
	if !ok || c.Consumed || c.ExpiresAt <= time.Now().Unix() {
		return nil, domain.ErrInvalidOTP
	}
	c.Consumed = true
	cp := *c
	return &cp, nil
}

func TestIssue_ReturnsSixDigitCode(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	code, err := svc.Issue(context.Background(), "u1", domain.PurposePasswordReset, time.Minute)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[1-9][0-9]{5}$`), code)

	stored := store.challenges["u1#"+domain.PurposePasswordReset]
	require.NotNil(t, stored)
	assert.NotEqual(t, code, stored.CodeHash)
	assert.False(t, stored.Consumed)
}

func TestConsume_HappyPath_ThenReplayFails(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	code, err := svc.Issue(context.Background(), "u1", domain.PurposeCardDetails, 2*time.Minute)
	require.NoError(t, err)

	require.NoError(t, svc.Consume(context.Background(), "u1", domain.PurposeCardDetails, code))

	err = svc.Consume(context.Background(), "u1", domain.PurposeCardDetails, code)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOTP))
}

func TestConsume_WrongCode_SpendsChallenge(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	code, err := svc.Issue(context.Background(), "u1", domain.PurposePasswordReset, time.Minute)
	require.NoError(t, err)

	err = svc.Consume(context.Background(), "u1", domain.PurposePasswordReset, "000000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOTP))

	// the challenge was spent by the failed attempt
	err = svc.Consume(context.Background(), "u1", domain.PurposePasswordReset, code)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOTP))
}

func TestConsume_Expired(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	code, err := svc.Issue(context.Background(), "u1", domain.PurposePasswordReset, -time.Second)
	require.NoError(t, err)

	err = svc.Consume(context.Background(), "u1", domain.PurposePasswordReset, code)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOTP))
}

func TestConsume_WrongPurpose(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	code, err := svc.Issue(context.Background(), "u1", domain.PurposePasswordReset, time.Minute)
	require.NoError(t, err)

	err = svc.Consume(context.Background(), "u1", domain.PurposeCardDetails, code)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOTP))
}

func TestIssue_SupersedesPreviousChallenge(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	first, err := svc.Issue(context.Background(), "u1", domain.PurposePasswordReset, time.Minute)
	require.NoError(t, err)
	second, err := svc.Issue(context.Background(), "u1", domain.PurposePasswordReset, time.Minute)
	require.NoError(t, err)

	err = svc.Consume(context.Background(), "u1", domain.PurposePasswordReset, first)
	if first != second {
		require.Error(t, err)
	}
}

func TestConsume_ExactlyOnceUnderConcurrency(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	code, err := svc.Issue(context.Background(), "u1", domain.PurposeCardDetails, 2*time.Minute)
	require.NoError(t, err)

	const callers = 8
	results := make(chan error, callers)
	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < callers; i++ {
		go func() {
			start.Wait()
			results <- svc.Consume(context.Background(), "u1", domain.PurposeCardDetails, code)
		}()
	}
	start.Done()

	successes := 0
	for i := 0; i < callers; i++ {
		if err := <-results; err == nil {
			successes++
		} else {
			assert.True(t, errors.Is(err, domain.ErrInvalidOTP))
		}
	}
	assert.Equal(t, 1, successes)
}
