package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sales channels.
const (
	ChannelSunStore  = "sun.store" // first-party storefront
	ChannelEbay      = "ebay"
	ChannelLeboncoin = "leboncoin"
	ChannelDirect    = "direct"
)

// Payment methods.
const (
	PaymentCard     = "card"
	PaymentPaypal   = "paypal"
	PaymentTransfer = "transfer"
	PaymentCash     = "cash"
)

// Product categories.
const (
	CategoryPanel     = "panneau"
	CategoryInverter  = "onduleur"
	CategoryBattery   = "batterie"
	CategoryAccessory = "accessoire"
)

// Sale is one product reference sold in one transaction, the atomic persisted
// record. Identity is immutable; everything else mutates by full replacement.
// Derived fields are always recomputed, never hand-set. The JSON tags define
// the backup snapshot format, so renaming one is a breaking format change.
type Sale struct {
	ID                 string           `json:"id"`
	Date               string           `json:"date"` // YYYY-MM-DD, part of the order grouping key
	ClientOrTx         string           `json:"client_or_tx"`
	TransactionRef     string           `json:"transaction_ref"`
	Channel            string           `json:"channel"`
	CustomerCountry    string           `json:"customer_country"`
	ProductRef         string           `json:"product_ref"`
	Quantity           int              `json:"quantity"`
	SellPriceUnitHT    decimal.Decimal  `json:"sell_price_unit_ht"`
	SellPriceUnitTTC   *decimal.Decimal `json:"sell_price_unit_ttc"` // forced for France, optional elsewhere
	ShippingCharged    decimal.Decimal  `json:"shipping_charged"`
	ShippingChargedTTC *decimal.Decimal `json:"shipping_charged_ttc"`
	ShippingReal       decimal.Decimal  `json:"shipping_real"`
	ShippingRealTTC    *decimal.Decimal `json:"shipping_real_ttc"`
	PaymentMethod      string           `json:"payment_method"`
	Category           string           `json:"category"`
	BuyPriceUnit       decimal.Decimal  `json:"buy_price_unit"`
	PowerWp            *decimal.Decimal `json:"power_wp"` // required for some channel+category pairs
	AttachmentCount    int              `json:"attachment_count"`

	// Derived (see finance.ComputeSale).
	SellTotalHT      decimal.Decimal `json:"sell_total_ht"`
	TransactionValue decimal.Decimal `json:"transaction_value"`
	CommissionEur    decimal.Decimal `json:"commission_eur"`
	CommissionLabel  string          `json:"commission_label"`
	PaymentFee       decimal.Decimal `json:"payment_fee"`
	NetReceived      decimal.Decimal `json:"net_received"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	GrossMargin      decimal.Decimal `json:"gross_margin"`
	NetMargin        decimal.Decimal `json:"net_margin"`
	NetMarginPct     decimal.Decimal `json:"net_margin_pct"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderKey returns the grouping key shared by every line of one logical order.
func (s Sale) OrderKey() string {
	return s.Date + "::" + s.ClientOrTx + "::" + s.TransactionRef + "::" + s.Channel
}
