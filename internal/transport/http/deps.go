package http

import (
	"github.com/go-banking-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-banking-api/internal/infrastructure/jwt"
	s3infra "github.com/go-banking-api/internal/infrastructure/s3"
	"github.com/go-banking-api/internal/infrastructure/smtp"
	"github.com/go-banking-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo     *dynamo.UserRepo
	AccountRepo  *dynamo.AccountRepo
	CardRepo     *dynamo.CardRepo
	MovementRepo *dynamo.MovementRepo
	TransferRepo *dynamo.TransferRepo
	OTPRepo      *dynamo.OTPRepo
	AuditRepo    *dynamo.AuditRepo
	S3Store      *s3infra.Store
	Mailer       smtp.Mailer
	SMSSender    sns.SMSSender
	JWTProvider  *jwtinfra.Provider
}
