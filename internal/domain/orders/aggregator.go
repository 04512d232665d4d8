// Package orders rebuilds the virtual order view from the flat sales list.
// An order is never stored with its own identity: it is the set of sale lines
// sharing (date, customer label, transaction ref, channel), reaggregated on
// every read.
package orders

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/finance"
)

// LowStockThreshold marks a tracked reference as running low when the
// remaining quantity is at or under it (but still positive).
const LowStockThreshold = 3

// Row is one aggregated order as shown in the orders table.
type Row struct {
	Date           string   `json:"date"`
	ClientOrTx     string   `json:"client_or_tx"`
	TransactionRef string   `json:"transaction_ref"`
	Channel        string   `json:"channel"`
	Refs           []string `json:"refs"` // distinct product refs, first-seen order
	Lines          int      `json:"lines"`
	Quantity       int      `json:"quantity"`

	AvgUnitPriceHT   decimal.Decimal `json:"avg_unit_price_ht"` // Σ(price×qty) / Σqty
	SellTotalHT      decimal.Decimal `json:"sell_total_ht"`
	TransactionValue decimal.Decimal `json:"transaction_value"`
	CommissionEur    decimal.Decimal `json:"commission_eur"`
	PaymentFee       decimal.Decimal `json:"payment_fee"`
	NetReceived      decimal.Decimal `json:"net_received"`
	NetMargin        decimal.Decimal `json:"net_margin"`
	AttachmentCount  int             `json:"attachment_count"`

	OutOfStock []string `json:"out_of_stock"` // refs with stock <= 0
	LowStock   []string `json:"low_stock"`    // refs with 0 < stock <= threshold
}

// Key returns the grouping key of the row, mirroring entity.Sale.OrderKey.
func (r Row) Key() string {
	return r.Date + "::" + r.ClientOrTx + "::" + r.TransactionRef + "::" + r.Channel
}

// Aggregate buckets sale lines into orders and recomputes every order-level
// total. stockMap is the derived ledger: refs present in it get out-of-stock
// and low-stock flags, refs absent from it (soft references) aggregate
// normally but are left unflagged.
//
// For sun.store orders the payment fee is normalized to the storefront's flat
// per-order figure; the delta against the raw summed fee is folded back into
// net_received and net_margin so the bottom line stays consistent with the
// member lines.
func Aggregate(sales []entity.Sale, stockMap map[string]int) []Row {
	index := make(map[string]int)
	rows := make([]Row, 0)
	weighted := make([]decimal.Decimal, 0) // Σ(price×qty) per row, for the average

	for _, s := range sales {
		key := s.OrderKey()
		i, seen := index[key]
		if !seen {
			i = len(rows)
			index[key] = i
			rows = append(rows, Row{
				Date:           s.Date,
				ClientOrTx:     s.ClientOrTx,
				TransactionRef: s.TransactionRef,
				Channel:        s.Channel,
			})
			weighted = append(weighted, decimal.Zero)
		}
		r := &rows[i]
		if !containsRef(r.Refs, s.ProductRef) {
			r.Refs = append(r.Refs, s.ProductRef)
		}
		r.Lines++
		r.Quantity += s.Quantity
		r.SellTotalHT = r.SellTotalHT.Add(s.SellTotalHT)
		r.TransactionValue = r.TransactionValue.Add(s.TransactionValue)
		r.CommissionEur = r.CommissionEur.Add(s.CommissionEur)
		r.PaymentFee = r.PaymentFee.Add(s.PaymentFee)
		r.NetReceived = r.NetReceived.Add(s.NetReceived)
		r.NetMargin = r.NetMargin.Add(s.NetMargin)
		r.AttachmentCount += s.AttachmentCount
		weighted[i] = weighted[i].Add(s.SellPriceUnitHT.Mul(decimal.NewFromInt(int64(s.Quantity))))
	}

	for i := range rows {
		r := &rows[i]
		if r.Quantity > 0 {
			r.AvgUnitPriceHT = finance.Round2(weighted[i].Div(decimal.NewFromInt(int64(r.Quantity))))
		}
		if r.Channel == entity.ChannelSunStore {
			// Flat storefront fee per order; the delta keeps net_received and
			// net_margin equal to the sum of the member lines after
			// normalization.
			delta := r.PaymentFee.Sub(finance.SunStoreOrderFee)
			r.PaymentFee = finance.SunStoreOrderFee
			r.NetReceived = finance.Round2(r.NetReceived.Add(delta))
			r.NetMargin = finance.Round2(r.NetMargin.Add(delta))
		}
		for _, ref := range r.Refs {
			remaining, tracked := stockMap[ref]
			switch {
			case !tracked:
				// Soft reference: aggregated but not classified.
			case remaining <= 0:
				r.OutOfStock = append(r.OutOfStock, ref)
			case remaining <= LowStockThreshold:
				r.LowStock = append(r.LowStock, ref)
			}
		}
	}

	// Display order: newest first, then customer label, then transaction ref.
	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].Date != rows[b].Date {
			return rows[a].Date > rows[b].Date
		}
		if rows[a].ClientOrTx != rows[b].ClientOrTx {
			return rows[a].ClientOrTx < rows[b].ClientOrTx
		}
		return rows[a].TransactionRef < rows[b].TransactionRef
	})
	return rows
}

func containsRef(refs []string, ref string) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}
