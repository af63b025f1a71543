package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-banking-api/internal/application/audit"
	"github.com/go-banking-api/internal/domain"
	"github.com/go-banking-api/internal/infrastructure/dynamo"
	"github.com/go-banking-api/internal/pkg/id"
)

// Store executes transfers. ExecuteInternal must be atomic: debit, credit
// and the transfer record commit together or not at all.
type Store interface {
	ExecuteInternal(ctx context.Context, t *domain.Transfer) error
	ListByUser(ctx context.Context, userID string) ([]domain.Transfer, error)
}

// AccountStore resolves transfer legs.
type AccountStore interface {
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	GetByIBAN(ctx context.Context, iban string) (*domain.Account, error)
}

// UserStore resolves account holders for IBAN validation.
type UserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// MovementStore records the ledger lines of a committed transfer.
type MovementStore interface {
	Put(ctx context.Context, m *domain.Movement) error
}

type Service interface {
	// CreateInternal moves money between two accounts of the bank. The
	// source account must belong to the acting user unless the actor is
	// an administrator.
	CreateInternal(ctx context.Context, actorID string, actorIsAdmin bool, req domain.InternalTransferRequest) (*domain.Transfer, error)
	ValidateAccount(ctx context.Context, iban string) (*domain.AccountValidation, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Transfer, error)
}

type service struct {
	store     Store
	accounts  AccountStore
	users     UserStore
	movements MovementStore
	audit     audit.Service
}

func NewService(store Store, accounts AccountStore, users UserStore, movements MovementStore, auditSvc audit.Service) Service {
	return &service{store: store, accounts: accounts, users: users, movements: movements, audit: auditSvc}
}

func (s *service) CreateInternal(ctx context.Context, actorID string, actorIsAdmin bool, req domain.InternalTransferRequest) (*domain.Transfer, error) {
	from, err := s.accounts.Get(ctx, req.FromAccountID)
	if err != nil {
		return nil, err
	}
	if from.UserID != actorID && !actorIsAdmin {
		return nil, fmt.Errorf("source account not owned by caller: %w", domain.ErrForbidden)
	}
	to, err := s.accounts.Get(ctx, req.ToAccountID)
	if err != nil {
		return nil, err
	}
	if from.Currency != req.Currency || to.Currency != req.Currency {
		return nil, fmt.Errorf("currency mismatch: %w", domain.ErrBadRequest)
	}

	t := &domain.Transfer{
		TransferID:    id.New(),
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Description:   req.Description,
		UserID:        actorID,
		Status:        "completed",
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.ExecuteInternal(ctx, t); err != nil {
		if errors.Is(err, dynamo.ErrInsufficientFunds) {
			return nil, fmt.Errorf("insufficient funds: %w", domain.ErrBadRequest)
		}
		return nil, err
	}

	// The transfer is committed; ledger lines are best effort.
	s.recordMovement(ctx, req.FromAccountID, "debit", t)
	s.recordMovement(ctx, req.ToAccountID, "credit", t)
	s.audit.Record(ctx, actorID, "transfer_internal", "transfer", t.TransferID)
	return t, nil
}

func (s *service) recordMovement(ctx context.Context, accountID, movType string, t *domain.Transfer) {
	m := &domain.Movement{
		ParentID:    accountID,
		MovementID:  id.New(),
		Date:        t.CreatedAt,
		Type:        movType,
		Description: t.Description,
		Currency:    t.Currency,
		Amount:      t.Amount,
	}
	if err := s.movements.Put(ctx, m); err != nil {
		slog.Warn("transfer movement write failed", "transfer_id", t.TransferID, "account_id", accountID, "err", err)
	}
}

// ValidateAccount answers the pre-transfer IBAN check. An unknown IBAN is a
// negative validation, not an error.
func (s *service) ValidateAccount(ctx context.Context, iban string) (*domain.AccountValidation, error) {
	a, err := s.accounts.GetByIBAN(ctx, iban)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.AccountValidation{Valid: false}, nil
		}
		return nil, err
	}
	holder := ""
	if u, err := s.users.Get(ctx, a.UserID); err == nil {
		holder = u.FirstName + " " + u.LastName
	}
	return &domain.AccountValidation{
		Valid:      true,
		AccountID:  a.AccountID,
		HolderName: holder,
		Currency:   a.Currency,
		Status:     a.Status,
	}, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]domain.Transfer, error) {
	return s.store.ListByUser(ctx, userID)
}
