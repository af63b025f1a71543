package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-banking-api/internal/application/audit"
	"github.com/go-banking-api/internal/domain"
	"github.com/go-banking-api/internal/transport/http/middleware"
)

// AuditHandler serves a user's audit trail. Owners may read their own
// trail; exports are admin only.
type AuditHandler struct {
	svc audit.Service
}

func NewAuditHandler(svc audit.Service) *AuditHandler { return &AuditHandler{svc: svc} }

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizedUser(w, r)
	if !ok {
		return
	}
	f := auditFiltersFromQuery(r)
	entries, total, err := h.svc.ListByUser(r.Context(), userID, f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "audit entries listed", map[string]interface{}{
		"entries": entries,
		"total":   total,
	})
}

func (h *AuditHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizedUser(w, r)
	if !ok {
		return
	}
	f := auditFiltersFromQuery(r)
	counts, err := h.svc.Summary(r.Context(), userID, f.FromDate, f.ToDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "audit summary", counts)
}

func (h *AuditHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizedUser(w, r)
	if !ok {
		return
	}
	stats, err := h.svc.Stats(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "audit stats", stats)
}

// Export uploads the full trail to object storage and returns a presigned
// download URL.
func (h *AuditHandler) Export(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.Export(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "audit export ready", map[string]string{"url": url})
}

func (h *AuditHandler) authorizedUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	userID := chi.URLParam(r, "userId")
	if !middleware.IsOwnerOrAdmin(claims, userID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return "", false
	}
	return userID, true
}

func auditFiltersFromQuery(r *http.Request) domain.AuditFilters {
	q := r.URL.Query()
	var f domain.AuditFilters
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
	f.Action = q.Get("action")
	f.Entity = q.Get("entity")
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		f.Page = n
	}
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && n > 0 && n <= 100 {
		f.PageSize = n
	}
	return f
}
