package domain

// CatalogItem is one entry of the static reference catalogs.
type CatalogItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Static reference data served by the public catalog endpoints.
var (
	AccountTypes = []CatalogItem{
		{ID: "checking", Name: "Checking", Description: "Day-to-day checking account"},
		{ID: "savings", Name: "Savings", Description: "Interest-bearing savings account"},
	}
	Currencies = []CatalogItem{
		{ID: "CRC", Name: "Costa Rican colón"},
		{ID: "EUR", Name: "Euro"},
		{ID: "USD", Name: "US dollar"},
	}
	CardTypes = []CatalogItem{
		{ID: "credit", Name: "Credit"},
		{ID: "debit", Name: "Debit"},
	}
	AccountStatuses = []CatalogItem{
		{ID: AccountActive, Name: "Active"},
		{ID: AccountBlocked, Name: "Blocked"},
		{ID: AccountClosed, Name: "Closed"},
	}
	MovementTypes = []CatalogItem{
		{ID: "credit", Name: "Credit"},
		{ID: "debit", Name: "Debit"},
	}
	IDTypes = []CatalogItem{
		{ID: "national_id", Name: "National ID"},
		{ID: "passport", Name: "Passport"},
		{ID: "residence", Name: "Residence permit"},
	}
)
