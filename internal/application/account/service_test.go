package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-banking-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, a *domain.Account) error {
	return m.Called(ctx, a).Error(0)
}
func (m *mockStore) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) GetByIBAN(ctx context.Context, iban string) (*domain.Account, error) {
	args := m.Called(ctx, iban)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) ListByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if as, _ := args.Get(0).([]domain.Account); as != nil {
		return as, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) SetStatus(ctx context.Context, accountID, status string) error {
	return m.Called(ctx, accountID, status).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMovementStore struct{ mock.Mock }

func (m *mockMovementStore) ListByParent(ctx context.Context, parentID string, f domain.MovementFilters) ([]domain.Movement, int, error) {
	args := m.Called(ctx, parentID, f)
	if ms, _ := args.Get(0).([]domain.Movement); ms != nil {
		return ms, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

type noopAudit struct{}

func (noopAudit) Record(context.Context, string, string, string, string) {}
func (noopAudit) ListByUser(context.Context, string, domain.AuditFilters) ([]domain.AuditEntry, int, error) {
	return nil, 0, nil
}
func (noopAudit) Summary(context.Context, string, *time.Time, *time.Time) ([]domain.ActionCount, error) {
	return nil, nil
}
func (noopAudit) Stats(context.Context, string) (*domain.AuditStats, error) { return nil, nil }
func (noopAudit) Export(context.Context, string) (string, error)           { return "", nil }

var createReq = domain.CreateAccountRequest{
	UserID:   "u1",
	IBAN:     "ES9121000418450200051332",
	Alias:    "main",
	Type:     "checking",
	Currency: "EUR",
}

func TestCreate_UnknownHolder(t *testing.T) {
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "u1").Return(nil, domain.ErrNotFound)

	svc := NewService(&mockStore{}, users, &mockMovementStore{}, noopAudit{})
	_, err := svc.Create(context.Background(), "admin1", createReq)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreate_IBANTaken(t *testing.T) {
	store := &mockStore{}
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	store.On("GetByIBAN", mock.Anything, createReq.IBAN).Return(&domain.Account{AccountID: "a9"}, nil)

	svc := NewService(store, users, &mockMovementStore{}, noopAudit{})
	_, err := svc.Create(context.Background(), "admin1", createReq)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestCreate_DefaultsToActive(t *testing.T) {
	store := &mockStore{}
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	store.On("GetByIBAN", mock.Anything, createReq.IBAN).Return(nil, domain.ErrNotFound)

	var stored *domain.Account
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.Account")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Account) }).
		Return(nil)

	svc := NewService(store, users, &mockMovementStore{}, noopAudit{})
	a, err := svc.Create(context.Background(), "admin1", createReq)

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.AccountActive, a.Status)
	assert.NotEmpty(t, a.AccountID)
}

func TestSetStatus_UnknownStatus(t *testing.T) {
	svc := NewService(&mockStore{}, &mockUserStore{}, &mockMovementStore{}, noopAudit{})
	err := svc.SetStatus(context.Background(), "admin1", "a1", "frozen")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSetStatus_HappyPath(t *testing.T) {
	store := &mockStore{}
	store.On("SetStatus", mock.Anything, "a1", domain.AccountBlocked).Return(nil)

	svc := NewService(store, &mockUserStore{}, &mockMovementStore{}, noopAudit{})
	err := svc.SetStatus(context.Background(), "admin1", "a1", domain.AccountBlocked)

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestMovements_UnknownAccount(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	svc := NewService(store, &mockUserStore{}, &mockMovementStore{}, noopAudit{})
	_, _, err := svc.Movements(context.Background(), "missing", domain.MovementFilters{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMovements_DefaultsPaging(t *testing.T) {
	store := &mockStore{}
	movements := &mockMovementStore{}
	store.On("Get", mock.Anything, "a1").Return(&domain.Account{AccountID: "a1"}, nil)
	movements.On("ListByParent", mock.Anything, "a1", mock.MatchedBy(func(f domain.MovementFilters) bool {
		return f.Page == 1 && f.PageSize == 10
	})).Return([]domain.Movement{{MovementID: "m1"}}, 1, nil)

	svc := NewService(store, &mockUserStore{}, movements, noopAudit{})
	ms, total, err := svc.Movements(context.Background(), "a1", domain.MovementFilters{})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, ms, 1)
}
