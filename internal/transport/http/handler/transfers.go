package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-banking-api/internal/application/transfer"
	"github.com/go-banking-api/internal/domain"
	"github.com/go-banking-api/internal/pkg/validate"
	"github.com/go-banking-api/internal/transport/http/middleware"
)

// TransferHandler handles internal transfers and the pre-transfer IBAN check.
type TransferHandler struct {
	svc transfer.Service
}

func NewTransferHandler(svc transfer.Service) *TransferHandler { return &TransferHandler{svc: svc} }

type validateAccountRequest struct {
	IBAN string `json:"iban" validate:"required,min=15,max=34"`
}

func (h *TransferHandler) CreateInternal(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.InternalTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeValidationError(w, err)
		return
	}
	t, err := h.svc.CreateInternal(r.Context(), claims.UserID, middleware.IsAdmin(claims), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "transfer completed", t)
}

func (h *TransferHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	transfers, err := h.svc.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "transfers listed", transfers)
}

func (h *TransferHandler) ValidateAccount(w http.ResponseWriter, r *http.Request) {
	var req validateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeValidationError(w, err)
		return
	}
	v, err := h.svc.ValidateAccount(r.Context(), req.IBAN)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "account validated", v)
}
