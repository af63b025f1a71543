package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-banking-api/internal/application/account"
	"github.com/go-banking-api/internal/application/audit"
	"github.com/go-banking-api/internal/application/auth"
	"github.com/go-banking-api/internal/application/card"
	"github.com/go-banking-api/internal/application/otp"
	"github.com/go-banking-api/internal/application/transfer"
	"github.com/go-banking-api/internal/application/user"
	"github.com/go-banking-api/internal/config"
	"github.com/go-banking-api/internal/domain"
	"github.com/go-banking-api/internal/transport/http/handler"
	appmiddleware "github.com/go-banking-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "x-api-key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	apiKeyMw := appmiddleware.APIKey(cfg.APIKey)
	sessionMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second, burst of 10, per remote IP.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	auditSvc := audit.NewService(deps.AuditRepo, deps.S3Store)
	otpSvc := otp.NewService(deps.OTPRepo)
	authSvc := auth.NewService(auth.ServiceDeps{
		Users:       deps.UserRepo,
		OTP:         otpSvc,
		Tokens:      deps.JWTProvider,
		Mailer:      deps.Mailer,
		SMSSender:   deps.SMSSender,
		Audit:       auditSvc,
		DebugExpose: cfg.OTPDebugExpose,
	})
	userSvc := user.NewService(deps.UserRepo, auditSvc)
	accountSvc := account.NewService(deps.AccountRepo, deps.UserRepo, deps.MovementRepo, auditSvc)
	cardSvc := card.NewService(card.ServiceDeps{
		Cards:       deps.CardRepo,
		Users:       deps.UserRepo,
		Movements:   deps.MovementRepo,
		OTP:         otpSvc,
		Mailer:      deps.Mailer,
		SMSSender:   deps.SMSSender,
		Audit:       auditSvc,
		DebugExpose: cfg.OTPDebugExpose,
	})
	transferSvc := transfer.NewService(deps.TransferRepo, deps.AccountRepo, deps.UserRepo, deps.MovementRepo, auditSvc)

	healthH := handler.NewHealthHandler()
	catalogH := handler.NewCatalogHandler()
	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(userSvc)
	accountH := handler.NewAccountHandler(accountSvc)
	cardH := handler.NewCardHandler(cardSvc)
	transferH := handler.NewTransferHandler(transferSvc)
	auditH := handler.NewAuditHandler(auditSvc)

	r.Route("/v1", func(r chi.Router) {
		// Public, no gate at all.
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.Get("/health", healthH.Test)
		r.Get("/catalog", catalogH.List)
		r.Get("/catalog/{name}", catalogH.Get)

		// Pre-auth endpoints: API key gate plus rate limiting.
		r.Group(func(r chi.Router) {
			r.Use(apiKeyMw)
			r.Use(sensitiveRL.Limit)

			r.Post("/auth/login", authH.Login)
			r.Post("/auth/forgot-password", authH.ForgotPassword)
			r.Post("/auth/verify-otp", authH.VerifyOTP)
			r.Post("/auth/reset-password", authH.ResetPassword)
		})

		// Session-gated endpoints.
		r.Group(func(r chi.Router) {
			r.Use(sessionMw)

			r.Get("/users/{id}", userH.GetByIdentification)
			r.Get("/accounts", accountH.ListMine)
			r.Get("/accounts/{accountId}", accountH.Get)
			r.Get("/accounts/{accountId}/movements", accountH.Movements)
			r.Get("/cards", cardH.ListMine)
			r.Get("/cards/{cardId}", cardH.Get)
			r.Get("/cards/{cardId}/movements", cardH.Movements)
			r.Post("/cards/{cardId}/otp", cardH.GenerateOTP)
			r.Post("/cards/{cardId}/view-details", cardH.ViewDetails)
			r.Post("/transfers/internal", transferH.CreateInternal)
			r.Get("/transfers", transferH.ListMine)
			r.Post("/bank/validate-account", transferH.ValidateAccount)
			r.Get("/audit/{userId}", auditH.List)
			r.Get("/audit/{userId}/summary", auditH.Summary)
			r.Get("/audit/{userId}/stats", auditH.Stats)

			// Admin-only routes.
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/users", userH.List)
				r.Post("/users", userH.Create)
				r.Put("/users/{id}", userH.Update)
				r.Delete("/users/{id}", userH.Delete)

				r.Post("/accounts", accountH.Create)
				r.Post("/accounts/{accountId}/{status}", accountH.SetStatus)

				r.Post("/cards", cardH.Create)
				r.Post("/cards/{cardId}/movements", cardH.AddMovement)

				r.Post("/audit/{userId}/export", auditH.Export)
			})
		})
	})

	return r
}
