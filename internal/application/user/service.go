package user

import (
	"context"
	"fmt"
	"time"

	"github.com/go-banking-api/internal/application/audit"
	"github.com/go-banking-api/internal/domain"
	"github.com/go-banking-api/internal/pkg/id"
	"github.com/go-banking-api/internal/pkg/password"
)

// Store is the user persistence contract.
type Store interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByIdentification(ctx context.Context, identification string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, userID string) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

type Service interface {
	Create(ctx context.Context, actorID string, req domain.CreateUserRequest) (*domain.User, error)
	GetByIdentification(ctx context.Context, identification string) (*domain.User, error)
	Update(ctx context.Context, actorID, userID string, req domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, actorID, userID string) error
	List(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

type service struct {
	store Store
	audit audit.Service
}

func NewService(store Store, auditSvc audit.Service) Service {
	return &service{store: store, audit: auditSvc}
}

// Create registers a user. Username, email and identification must all be
// unique; a clash fails with domain.ErrConflict.
func (s *service) Create(ctx context.Context, actorID string, req domain.CreateUserRequest) (*domain.User, error) {
	if _, err := s.store.GetByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("username taken: %w", domain.ErrConflict)
	}
	if _, err := s.store.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email taken: %w", domain.ErrConflict)
	}
	if _, err := s.store.GetByIdentification(ctx, req.Identification); err == nil {
		return nil, fmt.Errorf("identification taken: %w", domain.ErrConflict)
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:         id.New(),
		IDType:         req.IDType,
		Identification: req.Identification,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Username:       req.Username,
		PasswordHash:   hash,
		RoleID:         domain.RoleIDFor(req.RoleName),
		RoleName:       req.RoleName,
		Enable:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Put(ctx, u); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, "user_created", "user", u.UserID)
	return u, nil
}

func (s *service) GetByIdentification(ctx context.Context, identification string) (*domain.User, error) {
	return s.store.GetByIdentification(ctx, identification)
}

func (s *service) Update(ctx context.Context, actorID, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	if _, err := s.store.Get(ctx, userID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Username != nil {
		updates["username"] = *req.Username
	}
	if req.RoleName != nil {
		updates["role_name"] = *req.RoleName
		updates["role_id"] = domain.RoleIDFor(*req.RoleName)
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.store.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, "user_updated", "user", userID)
	return s.store.Get(ctx, userID)
}

func (s *service) Delete(ctx context.Context, actorID, userID string) error {
	if _, err := s.store.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.store.SoftDelete(ctx, userID); err != nil {
		return err
	}
	s.audit.Record(ctx, actorID, "user_deleted", "user", userID)
	return nil
}

func (s *service) List(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.store.ScanPage(ctx, limit, cursor)
}
