package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-banking-api/internal/application/otp"
	"github.com/go-banking-api/internal/domain"
	jwtinfra "github.com/go-banking-api/internal/infrastructure/jwt"
	"github.com/go-banking-api/internal/infrastructure/smtp"
	"github.com/go-banking-api/internal/infrastructure/sns"
	"github.com/go-banking-api/internal/pkg/id"
	"github.com/go-banking-api/internal/pkg/password"
)

// TTLs of the two OTP flows and the reset-token nonce.
const (
	passwordResetOTPTTL = 600 * time.Second
	resetTokenTTL       = 15 * time.Minute
)

type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	TempToken   string `json:"temp_token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type LoginResult struct {
	Token string
	User  *domain.User
}

// OTPResult carries the outcome of an OTP issuance. DebugCode is populated
// only when the service runs with debug exposure enabled; it is never
// logged.
type OTPResult struct {
	DebugCode string
}

// UserStore is the credential-store contract the auth core needs.
type UserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
}

// TokenProvider issues and verifies session and reset tokens.
type TokenProvider interface {
	Sign(userID, roleID, roleName string) (string, error)
	SignReset(userID, jti string) (string, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

// AuditRecorder appends entries to the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, userID, action, entity, entityID string)
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	ForgotPassword(ctx context.Context, email string) (*OTPResult, error)
	VerifyOTP(ctx context.Context, email, code string) (tempToken string, err error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

// ServiceDeps wires the auth core's collaborators.
type ServiceDeps struct {
	Users       UserStore
	OTP         otp.Service
	Tokens      TokenProvider
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender
	Audit       AuditRecorder
	DebugExpose bool
}

type service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	return &service{deps: deps}
}

// Login resolves the identifier as a username first, then as an email.
// A missing user, a disabled user and a wrong password all collapse into
// domain.ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	u, err := s.deps.Users.GetByUsername(ctx, req.UsernameOrEmail)
	if err != nil {
		u, err = s.deps.Users.GetByEmail(ctx, req.UsernameOrEmail)
		if err != nil {
			return nil, fmt.Errorf("user lookup: %w", domain.ErrInvalidCredentials)
		}
	}
	if !u.Enable {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrInvalidCredentials)
	}
	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, fmt.Errorf("password mismatch: %w", domain.ErrInvalidCredentials)
	}
	// Credentials checked out; finish issuance even if the caller has
	// already disconnected.
	ctx = context.WithoutCancel(ctx)
	token, err := s.deps.Tokens.Sign(u.UserID, u.RoleID, u.RoleName)
	if err != nil {
		return nil, err
	}
	s.deps.Audit.Record(ctx, u.UserID, "login", "user", u.UserID)
	return &LoginResult{Token: token, User: u}, nil
}

// ForgotPassword issues a password-reset OTP. Unlike Login, a missing user
// is reported as such; the recovery flow is deliberately more informative.
func (s *service) ForgotPassword(ctx context.Context, email string) (*OTPResult, error) {
	u, err := s.deps.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	code, err := s.deps.OTP.Issue(ctx, u.UserID, domain.PurposePasswordReset, passwordResetOTPTTL)
	if err != nil {
		return nil, err
	}
	s.deliver(ctx, u, "Password recovery code", "Your password recovery code is "+code+". It expires in 10 minutes.")
	s.deps.Audit.Record(ctx, u.UserID, "password_recovery_requested", "user", u.UserID)

	res := &OTPResult{}
	if s.deps.DebugExpose {
		res.DebugCode = code
	}
	return res, nil
}

// VerifyOTP consumes the password-reset challenge and, on success, issues a
// temporary reset token. The token's nonce is registered for single use so
// a successful reset spends the token.
func (s *service) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	u, err := s.deps.Users.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	// Spending the challenge and registering the nonce are one step from
	// the caller's point of view; a mid-request disconnect must not
	// separate them.
	ctx = context.WithoutCancel(ctx)
	if err := s.deps.OTP.Consume(ctx, u.UserID, domain.PurposePasswordReset, code); err != nil {
		return "", err
	}
	jti := id.New()
	if err := s.deps.OTP.Register(ctx, u.UserID, domain.PurposeResetToken, jti, resetTokenTTL); err != nil {
		return "", err
	}
	token, err := s.deps.Tokens.SignReset(u.UserID, jti)
	if err != nil {
		return "", err
	}
	s.deps.Audit.Record(ctx, u.UserID, "otp_verified", "user", u.UserID)
	return token, nil
}

// ResetPassword verifies the temporary token (signature, expiry, purpose),
// spends its nonce and persists the new password hash. A token already used
// for a successful reset fails with domain.ErrInvalidToken.
func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	claims, err := s.deps.Tokens.Verify(req.TempToken)
	if err != nil {
		return fmt.Errorf("reset token rejected: %w", domain.ErrInvalidToken)
	}
	if claims.Purpose != jwtinfra.PurposeResetPassword {
		return fmt.Errorf("wrong token purpose: %w", domain.ErrInvalidToken)
	}
	// The nonce spend and the hash update must land together. If the
	// caller disconnects between the two, the token would be burned with
	// the password unchanged, so the whole sequence runs detached from
	// the request context.
	ctx = context.WithoutCancel(ctx)
	if err := s.deps.OTP.Consume(ctx, claims.UserID, domain.PurposeResetToken, claims.ID); err != nil {
		if errors.Is(err, domain.ErrInvalidOTP) {
			return fmt.Errorf("reset token already used: %w", domain.ErrInvalidToken)
		}
		return err
	}
	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.deps.Users.UpdatePasswordHash(ctx, claims.UserID, hash); err != nil {
		return err
	}
	s.deps.Audit.Record(ctx, claims.UserID, "password_reset", "user", claims.UserID)
	return nil
}

// deliver sends the OTP message over every channel the user has on file.
// Delivery failures are logged, never surfaced: the challenge is already
// persisted and the caller must not learn which channels exist.
func (s *service) deliver(ctx context.Context, u *domain.User, subject, body string) {
	if s.deps.Mailer != nil {
		if err := s.deps.Mailer.SendEmail(u.Email, subject, body); err != nil {
			slog.Warn("otp email delivery failed", "user_id", u.UserID, "err", err)
		}
	}
	if s.deps.SMSSender != nil && u.Phone != nil {
		if err := s.deps.SMSSender.SendSMS(ctx, *u.Phone, body); err != nil {
			slog.Warn("otp sms delivery failed", "user_id", u.UserID, "err", err)
		}
	}
}
