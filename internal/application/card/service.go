package card

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-banking-api/internal/application/audit"
	"github.com/go-banking-api/internal/application/otp"
	"github.com/go-banking-api/internal/domain"
	"github.com/go-banking-api/internal/infrastructure/smtp"
	"github.com/go-banking-api/internal/infrastructure/sns"
	"github.com/go-banking-api/internal/pkg/id"
	"github.com/go-banking-api/internal/pkg/password"
)

// cardDetailsOTPTTL is deliberately short: the step-up authorizes viewing
// PIN/CVV, the most sensitive data the API guards.
const cardDetailsOTPTTL = 120 * time.Second

// Store is the card persistence contract.
type Store interface {
	Put(ctx context.Context, c *domain.Card) error
	Get(ctx context.Context, cardID string) (*domain.Card, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Card, error)
}

// UserStore resolves card owners for OTP delivery.
type UserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// MovementStore holds card ledger lines.
type MovementStore interface {
	Put(ctx context.Context, m *domain.Movement) error
	ListByParent(ctx context.Context, parentID string, f domain.MovementFilters) ([]domain.Movement, int, error)
}

// OTPResult mirrors the auth flow's issuance result: the plaintext code is
// exposed only in debug mode, and never logged.
type OTPResult struct {
	DebugCode string
}

type Service interface {
	Create(ctx context.Context, actorID string, req domain.CreateCardRequest) (*domain.Card, error)
	Get(ctx context.Context, cardID string) (*domain.Card, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Card, error)
	Movements(ctx context.Context, cardID string, f domain.MovementFilters) ([]domain.Movement, int, error)
	AddMovement(ctx context.Context, actorID, cardID string, req domain.AddMovementRequest) (*domain.Movement, error)
	// GenerateDetailsOTP issues the card_details step-up challenge for the
	// card's owner.
	GenerateDetailsOTP(ctx context.Context, cardID string) (*OTPResult, error)
	// ViewDetails consumes the step-up challenge. On success it returns an
	// authorization confirmation; the stored PIN/CVV hashes never leave
	// the service.
	ViewDetails(ctx context.Context, cardID, code string) (*domain.CardDetailsAuthorization, error)
}

// ServiceDeps wires the card service's collaborators.
type ServiceDeps struct {
	Cards       Store
	Users       UserStore
	Movements   MovementStore
	OTP         otp.Service
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender
	Audit       audit.Service
	DebugExpose bool
}

type service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	return &service{deps: deps}
}

func (s *service) Create(ctx context.Context, actorID string, req domain.CreateCardRequest) (*domain.Card, error) {
	if _, err := s.deps.Users.Get(ctx, req.UserID); err != nil {
		return nil, fmt.Errorf("holder not found: %w", domain.ErrNotFound)
	}
	cvvHash, err := password.Hash(req.CVV)
	if err != nil {
		return nil, err
	}
	pinHash, err := password.Hash(req.PIN)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &domain.Card{
		CardID:       id.New(),
		UserID:       req.UserID,
		Type:         req.Type,
		MaskedNumber: req.MaskedNumber,
		ExpiryDate:   req.ExpiryDate,
		CVVHash:      cvvHash,
		PINHash:      pinHash,
		Currency:     req.Currency,
		CreditLimit:  req.CreditLimit,
		Balance:      req.Balance,
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.deps.Cards.Put(ctx, c); err != nil {
		return nil, err
	}
	s.deps.Audit.Record(ctx, actorID, "card_created", "card", c.CardID)
	return c, nil
}

func (s *service) Get(ctx context.Context, cardID string) (*domain.Card, error) {
	return s.deps.Cards.Get(ctx, cardID)
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]domain.Card, error) {
	return s.deps.Cards.ListByUser(ctx, userID)
}

func (s *service) Movements(ctx context.Context, cardID string, f domain.MovementFilters) ([]domain.Movement, int, error) {
	if _, err := s.deps.Cards.Get(ctx, cardID); err != nil {
		return nil, 0, err
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}
	return s.deps.Movements.ListByParent(ctx, cardID, f)
}

func (s *service) AddMovement(ctx context.Context, actorID, cardID string, req domain.AddMovementRequest) (*domain.Movement, error) {
	if _, err := s.deps.Cards.Get(ctx, cardID); err != nil {
		return nil, err
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, domain.ErrBadRequest)
	}
	m := &domain.Movement{
		ParentID:    cardID,
		MovementID:  id.New(),
		Date:        date,
		Type:        req.Type,
		Description: req.Description,
		Currency:    req.Currency,
		Amount:      req.Amount,
	}
	if err := s.deps.Movements.Put(ctx, m); err != nil {
		return nil, err
	}
	s.deps.Audit.Record(ctx, actorID, "card_movement_added", "card", cardID)
	return m, nil
}

func (s *service) GenerateDetailsOTP(ctx context.Context, cardID string) (*OTPResult, error) {
	c, err := s.deps.Cards.Get(ctx, cardID)
	if err != nil {
		return nil, err
	}
	owner, err := s.deps.Users.Get(ctx, c.UserID)
	if err != nil {
		return nil, err
	}
	code, err := s.deps.OTP.Issue(ctx, owner.UserID, domain.PurposeCardDetails, cardDetailsOTPTTL)
	if err != nil {
		return nil, err
	}
	body := "Your card verification code is " + code + ". It expires in 2 minutes."
	if s.deps.Mailer != nil {
		if err := s.deps.Mailer.SendEmail(owner.Email, "Card verification code", body); err != nil {
			slog.Warn("card otp email delivery failed", "user_id", owner.UserID, "err", err)
		}
	}
	if s.deps.SMSSender != nil && owner.Phone != nil {
		if err := s.deps.SMSSender.SendSMS(ctx, *owner.Phone, body); err != nil {
			slog.Warn("card otp sms delivery failed", "user_id", owner.UserID, "err", err)
		}
	}
	s.deps.Audit.Record(ctx, owner.UserID, "card_details_otp_requested", "card", cardID)

	res := &OTPResult{}
	if s.deps.DebugExpose {
		res.DebugCode = code
	}
	return res, nil
}

func (s *service) ViewDetails(ctx context.Context, cardID, code string) (*domain.CardDetailsAuthorization, error) {
	c, err := s.deps.Cards.Get(ctx, cardID)
	if err != nil {
		return nil, err
	}
	// The step-up challenge is single use. A disconnect after the spend
	// must not cost the user their authorization, so the spend and the
	// audit entry run detached from the request context.
	ctx = context.WithoutCancel(ctx)
	if err := s.deps.OTP.Consume(ctx, c.UserID, domain.PurposeCardDetails, code); err != nil {
		return nil, err
	}
	s.deps.Audit.Record(ctx, c.UserID, "card_details_viewed", "card", cardID)
	return &domain.CardDetailsAuthorization{
		CardID:       c.CardID,
		MaskedNumber: c.MaskedNumber,
		Authorized:   true,
	}, nil
}
