package account

import (
	"context"
	"fmt"
	"time"

	"github.com/go-banking-api/internal/application/audit"
	"github.com/go-banking-api/internal/domain"
	"github.com/go-banking-api/internal/pkg/id"
)

// Store is the account persistence contract.
type Store interface {
	Put(ctx context.Context, a *domain.Account) error
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	GetByIBAN(ctx context.Context, iban string) (*domain.Account, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Account, error)
	SetStatus(ctx context.Context, accountID, status string) error
}

// UserStore resolves account holders.
type UserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// MovementStore lists an account's ledger lines.
type MovementStore interface {
	ListByParent(ctx context.Context, parentID string, f domain.MovementFilters) ([]domain.Movement, int, error)
}

type Service interface {
	Create(ctx context.Context, actorID string, req domain.CreateAccountRequest) (*domain.Account, error)
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Account, error)
	SetStatus(ctx context.Context, actorID, accountID, status string) error
	Movements(ctx context.Context, accountID string, f domain.MovementFilters) ([]domain.Movement, int, error)
}

type service struct {
	store     Store
	users     UserStore
	movements MovementStore
	audit     audit.Service
}

func NewService(store Store, users UserStore, movements MovementStore, auditSvc audit.Service) Service {
	return &service{store: store, users: users, movements: movements, audit: auditSvc}
}

func (s *service) Create(ctx context.Context, actorID string, req domain.CreateAccountRequest) (*domain.Account, error) {
	if _, err := s.users.Get(ctx, req.UserID); err != nil {
		return nil, fmt.Errorf("holder not found: %w", domain.ErrNotFound)
	}
	if _, err := s.store.GetByIBAN(ctx, req.IBAN); err == nil {
		return nil, fmt.Errorf("iban taken: %w", domain.ErrConflict)
	}
	status := req.Status
	if status == "" {
		status = domain.AccountActive
	}
	now := time.Now().UTC()
	a := &domain.Account{
		AccountID: id.New(),
		UserID:    req.UserID,
		IBAN:      req.IBAN,
		Alias:     req.Alias,
		Type:      req.Type,
		Currency:  req.Currency,
		Balance:   req.InitialBalance,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Put(ctx, a); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, "account_created", "account", a.AccountID)
	return a, nil
}

func (s *service) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.store.Get(ctx, accountID)
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *service) SetStatus(ctx context.Context, actorID, accountID, status string) error {
	switch status {
	case domain.AccountActive, domain.AccountBlocked, domain.AccountClosed:
	default:
		return fmt.Errorf("unknown account status %q: %w", status, domain.ErrBadRequest)
	}
	if err := s.store.SetStatus(ctx, accountID, status); err != nil {
		return err
	}
	s.audit.Record(ctx, actorID, "account_status_"+status, "account", accountID)
	return nil
}

func (s *service) Movements(ctx context.Context, accountID string, f domain.MovementFilters) ([]domain.Movement, int, error) {
	if _, err := s.store.Get(ctx, accountID); err != nil {
		return nil, 0, err
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}
	return s.movements.ListByParent(ctx, accountID, f)
}
