package dto

import "github.com/shopspring/decimal"

// SaleRequest is the raw sale input. Derived fields are never accepted from
// the client: the engine recomputes them on every write.
type SaleRequest struct {
	Date               string           `json:"date"` // YYYY-MM-DD
	ClientOrTx         string           `json:"client_or_tx"`
	TransactionRef     string           `json:"transaction_ref"`
	Channel            string           `json:"channel"`
	CustomerCountry    string           `json:"customer_country"`
	ProductRef         string           `json:"product_ref"`
	Quantity           int              `json:"quantity"`
	SellPriceUnitHT    decimal.Decimal  `json:"sell_price_unit_ht"`
	SellPriceUnitTTC   *decimal.Decimal `json:"sell_price_unit_ttc"`
	ShippingCharged    decimal.Decimal  `json:"shipping_charged"`
	ShippingChargedTTC *decimal.Decimal `json:"shipping_charged_ttc"`
	ShippingReal       decimal.Decimal  `json:"shipping_real"`
	ShippingRealTTC    *decimal.Decimal `json:"shipping_real_ttc"`
	PaymentMethod      string           `json:"payment_method"`
	Category           string           `json:"category"`
	BuyPriceUnit       decimal.Decimal  `json:"buy_price_unit"`
	PowerWp            *decimal.Decimal `json:"power_wp"`
	AttachmentCount    int              `json:"attachment_count"`
}

// OrderLineRequest is one product line of a multi-line order.
type OrderLineRequest struct {
	ProductRef      string           `json:"product_ref"`
	Category        string           `json:"category"`
	Quantity        int              `json:"quantity"`
	SellPriceUnitHT decimal.Decimal  `json:"sell_price_unit_ht"`
	BuyPriceUnit    decimal.Decimal  `json:"buy_price_unit"`
	PowerWp         *decimal.Decimal `json:"power_wp"`
}

// OrderRequest creates several sale lines in one transaction. The order-level
// shipping amounts are split across the lines by economic weight, cent-exact.
type OrderRequest struct {
	Date            string             `json:"date"`
	ClientOrTx      string             `json:"client_or_tx"`
	TransactionRef  string             `json:"transaction_ref"`
	Channel         string             `json:"channel"`
	CustomerCountry string             `json:"customer_country"`
	PaymentMethod   string             `json:"payment_method"`
	ShippingCharged decimal.Decimal    `json:"shipping_charged"`
	ShippingReal    decimal.Decimal    `json:"shipping_real"`
	Lines           []OrderLineRequest `json:"lines"`
}
