// Package export produces the CSV and PDF downloads. These are collaborator
// outputs: the core invariants live in finance/stock/orders, this package
// only formats what they computed.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/yohand-byte/sales-margin-tracker/internal/domain/repository"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/stock"
)

// CSVUseCase renders the sales and catalog/stock exports.
type CSVUseCase struct {
	saleRepo repository.SaleRepository
	catRepo  repository.CatalogRepository
}

// NewCSVUseCase builds the use case.
func NewCSVUseCase(saleRepo repository.SaleRepository, catRepo repository.CatalogRepository) *CSVUseCase {
	return &CSVUseCase{saleRepo: saleRepo, catRepo: catRepo}
}

// SalesCSV renders one row per sale line, raw and derived fields included.
func (uc *CSVUseCase) SalesCSV(_ context.Context) ([]byte, error) {
	allSales, err := uc.saleRepo.List()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{
		"id", "date", "client_or_tx", "transaction_ref", "channel", "customer_country",
		"product_ref", "quantity", "sell_price_unit_ht", "shipping_charged", "shipping_real",
		"payment_method", "category", "buy_price_unit", "power_wp",
		"sell_total_ht", "transaction_value", "commission_eur", "payment_fee",
		"net_received", "total_cost", "gross_margin", "net_margin", "net_margin_pct",
	})
	for _, s := range allSales {
		power := ""
		if s.PowerWp != nil {
			power = s.PowerWp.String()
		}
		_ = w.Write([]string{
			s.ID, s.Date, s.ClientOrTx, s.TransactionRef, s.Channel, s.CustomerCountry,
			s.ProductRef, strconv.Itoa(s.Quantity), money(s.SellPriceUnitHT), money(s.ShippingCharged), money(s.ShippingReal),
			s.PaymentMethod, s.Category, money(s.BuyPriceUnit), power,
			money(s.SellTotalHT), money(s.TransactionValue), money(s.CommissionEur), money(s.PaymentFee),
			money(s.NetReceived), money(s.TotalCost), money(s.GrossMargin), money(s.NetMargin), money(s.NetMarginPct),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CatalogCSV renders one row per catalog entry with its derived stock.
func (uc *CSVUseCase) CatalogCSV(_ context.Context) ([]byte, error) {
	catalog, err := uc.catRepo.List()
	if err != nil {
		return nil, err
	}
	allSales, err := uc.saleRepo.List()
	if err != nil {
		return nil, err
	}
	stockMap := stock.Compute(catalog, allSales)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"ref", "category", "buy_price_unit", "initial_stock", "remaining", "sold", "datasheet_url"})
	for _, p := range catalog {
		remaining := stockMap[p.Ref]
		_ = w.Write([]string{
			p.Ref, p.Category, money(p.BuyPriceUnit),
			strconv.Itoa(p.InitialStock), strconv.Itoa(remaining), strconv.Itoa(p.InitialStock - remaining),
			p.DatasheetURL,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
