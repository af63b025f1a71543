package handler

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-banking-api/internal/domain"
)

// CatalogHandler serves the static reference catalogs the clients render
// pickers from.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler { return &CatalogHandler{} }

var catalogs = map[string][]domain.CatalogItem{
	"account-types":    domain.AccountTypes,
	"currencies":       domain.Currencies,
	"card-types":       domain.CardTypes,
	"account-statuses": domain.AccountStatuses,
	"movement-types":   domain.MovementTypes,
	"id-types":         domain.IDTypes,
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	items, ok := catalogs[name]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown catalog")
		return
	}
	writeSuccess(w, http.StatusOK, "catalog", items)
}

func (h *CatalogHandler) List(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(catalogs))
	for name := range catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	writeSuccess(w, http.StatusOK, "catalogs", names)
}
