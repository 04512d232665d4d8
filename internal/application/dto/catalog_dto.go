package dto

import "github.com/shopspring/decimal"

// CatalogProductRequest creates or fully replaces a catalog product.
type CatalogProductRequest struct {
	Ref          string          `json:"ref"`
	Category     string          `json:"category"`
	BuyPriceUnit decimal.Decimal `json:"buy_price_unit"`
	InitialStock int             `json:"initial_stock"`
	Rank         int             `json:"order"`
	DatasheetURL string          `json:"datasheet_url"`
}

// StockEntry is one line of the derived stock view.
type StockEntry struct {
	Ref       string `json:"ref"`
	Remaining int    `json:"remaining"`
	Initial   int    `json:"initial"`
	Sold      int    `json:"sold"`
}
