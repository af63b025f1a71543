package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-banking-api/internal/application/card"
	"github.com/go-banking-api/internal/domain"
	"github.com/go-banking-api/internal/pkg/validate"
	"github.com/go-banking-api/internal/transport/http/middleware"
)

// CardHandler handles card endpoints, including the OTP step-up that gates
// card detail viewing.
type CardHandler struct {
	svc card.Service
}

func NewCardHandler(svc card.Service) *CardHandler { return &CardHandler{svc: svc} }

type viewDetailsRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeValidationError(w, err)
		return
	}
	c, err := h.svc.Create(r.Context(), claims.UserID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "card created", c)
}

// ListMine returns the caller's cards. Administrators may list another
// user's cards with ?user_id=.
func (h *CardHandler) ListMine(w http.ResponseWriter, r *http.Request) {
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
	cards, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "cards listed", cards)
}

func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.authorizedCard(w, r)
	if !ok {
		return
	}
	writeSuccess(w, http.StatusOK, "card found", c)
}

func (h *CardHandler) Movements(w http.ResponseWriter, r *http.Request) {
	c, ok := h.authorizedCard(w, r)
	if !ok {
		return
	}
	movements, total, err := h.svc.Movements(r.Context(), c.CardID, movementFiltersFromQuery(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "movements listed", map[string]interface{}{
		"movements": movements,
		"total":     total,
	})
}

func (h *CardHandler) AddMovement(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.AddMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeValidationError(w, err)
		return
	}
	m, err := h.svc.AddMovement(r.Context(), claims.UserID, chi.URLParam(r, "cardId"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "movement added", m)
}

// GenerateOTP issues the short-lived challenge that must be consumed before
// card details may be viewed. The code travels by email and SMS; the
// response carries it only when debug exposure is configured.
func (h *CardHandler) GenerateOTP(w http.ResponseWriter, r *http.Request) {
	c, ok := h.authorizedCard(w, r)
	if !ok {
		return
	}
	res, err := h.svc.GenerateDetailsOTP(r.Context(), c.CardID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var data interface{}
	if res.DebugCode != "" {
		data = map[string]string{"otp": res.DebugCode}
	}
	writeSuccess(w, http.StatusOK, "OTP sent", data)
}

func (h *CardHandler) ViewDetails(w http.ResponseWriter, r *http.Request) {
	c, ok := h.authorizedCard(w, r)
	if !ok {
		return
	}
	var req viewDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeValidationError(w, err)
		return
	}
	authz, err := h.svc.ViewDetails(r.Context(), c.CardID, req.Code)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "card details authorized", authz)
}

// authorizedCard loads the card from the URL and enforces owner-or-admin.
// On failure the response has already been written.
func (h *CardHandler) authorizedCard(w http.ResponseWriter, r *http.Request) (*domain.Card, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	c, err := h.svc.Get(r.Context(), chi.URLParam(r, "cardId"))
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	if !middleware.IsOwnerOrAdmin(claims, c.UserID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return nil, false
	}
	return c, true
}
