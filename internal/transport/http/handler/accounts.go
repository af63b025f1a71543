package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-banking-api/internal/application/account"
	"github.com/go-banking-api/internal/domain"
	"github.com/go-banking-api/internal/pkg/validate"
	"github.com/go-banking-api/internal/transport/http/middleware"
)

// AccountHandler handles account endpoints.
type AccountHandler struct {
	svc account.Service
}

func NewAccountHandler(svc account.Service) *AccountHandler { return &AccountHandler{svc: svc} }

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeValidationError(w, err)
		return
	}
	a, err := h.svc.Create(r.Context(), claims.UserID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "account created", a)
}

// ListMine returns the caller's accounts. Administrators may list another
// user's accounts with ?user_id=.
func (h *AccountHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID := claims.UserID
	if v := r.URL.Query().Get("user_id"); v != "" {
		if !middleware.IsOwnerOrAdmin(claims, v) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		userID = v
	}
	accounts, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "accounts listed", accounts)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	a, err := h.svc.Get(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !middleware.IsOwnerOrAdmin(claims, a.UserID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	writeSuccess(w, http.StatusOK, "account found", a)
}

func (h *AccountHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	accountID := chi.URLParam(r, "accountId")
	status := chi.URLParam(r, "status")
	if err := h.svc.SetStatus(r.Context(), claims.UserID, accountID, status); err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "account status updated", nil)
}

func (h *AccountHandler) Movements(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	accountID := chi.URLParam(r, "accountId")
	a, err := h.svc.Get(r.Context(), accountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !middleware.IsOwnerOrAdmin(claims, a.UserID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	movements, total, err := h.svc.Movements(r.Context(), accountID, movementFiltersFromQuery(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "movements listed", map[string]interface{}{
		"movements": movements,
		"total":     total,
	})
}

// movementFiltersFromQuery parses the shared movement filter query params.
// Dates are ISO days (2006-01-02); the upper bound is inclusive.
func movementFiltersFromQuery(r *http.Request) domain.MovementFilters {
	q := r.URL.Query()
	var f domain.MovementFilters
	if v := q.Get("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.FromDate = &t
		}
	}
	if v := q.Get("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			f.ToDate = &end
		}
	}
	f.Type = q.Get("type")
	f.Query = q.Get("q")
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		f.Page = n
	}
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && n > 0 && n <= 100 {
		f.PageSize = n
	}
	return f
}
