package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogProduct is one tracked product reference. InitialStock is the
// opening quantity; the remaining quantity is always derived from it and the
// full sales list, never maintained incrementally.
type CatalogProduct struct {
	Ref          string          `json:"ref"` // unique key
	Category     string          `json:"category"`
	BuyPriceUnit decimal.Decimal `json:"buy_price_unit"`
	InitialStock int             `json:"initial_stock"`
	Rank         int             `json:"order"` // display order
	DatasheetURL string          `json:"datasheet_url"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
