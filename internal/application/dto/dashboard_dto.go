package dto

import "github.com/shopspring/decimal"

// ChannelKPI revenue and margin for one sales channel.
type ChannelKPI struct {
	Channel   string          `json:"channel"`
	Orders    int             `json:"orders"`
	Revenue   decimal.Decimal `json:"revenue"`
	NetMargin decimal.Decimal `json:"net_margin"`
}

// DashboardSummary top-line figures over the whole dataset.
type DashboardSummary struct {
	Orders       int             `json:"orders"`
	Lines        int             `json:"lines"`
	Revenue      decimal.Decimal `json:"revenue"`
	GrossMargin  decimal.Decimal `json:"gross_margin"`
	NetMargin    decimal.Decimal `json:"net_margin"`
	NetMarginPct decimal.Decimal `json:"net_margin_pct"`
	OutOfStock   int             `json:"out_of_stock"` // tracked refs at or under zero
	LowStock     int             `json:"low_stock"`
	PerChannel   []ChannelKPI    `json:"per_channel"`
}
