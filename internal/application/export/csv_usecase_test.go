package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yohand-byte/sales-margin-tracker/internal/application/export"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/finance"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/repository"
)

type stubSaleRepo struct {
	repository.SaleRepository
	sales []entity.Sale
}

func (r *stubSaleRepo) List() ([]entity.Sale, error) { return r.sales, nil }

type stubCatalogRepo struct {
	repository.CatalogRepository
	catalog []entity.CatalogProduct
}

func (r *stubCatalogRepo) List() ([]entity.CatalogProduct, error) { return r.catalog, nil }

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestSalesCSV_OneRowPerSale(t *testing.T) {
	sale := finance.ComputeSale(entity.Sale{
		ID:              "s-1",
		Date:            "2026-03-10",
		ClientOrTx:      "Dupont",
		Channel:         entity.ChannelEbay,
		ProductRef:      "PAN-450",
		Quantity:        2,
		SellPriceUnitHT: decimal.RequireFromString("100.00"),
		PaymentMethod:   entity.PaymentTransfer,
		Category:        entity.CategoryPanel,
		BuyPriceUnit:    decimal.RequireFromString("50.00"),
	})
	uc := export.NewCSVUseCase(&stubSaleRepo{sales: []entity.Sale{sale}}, &stubCatalogRepo{})

	data, err := uc.SalesCSV(context.Background())
	require.NoError(t, err)
	rows := parseCSV(t, data)

	require.Len(t, rows, 2, "header plus one sale")
	header, row := rows[0], rows[1]
	assert.Equal(t, "id", header[0])
	assert.Equal(t, "s-1", row[0])

	// Derived fields come out money-formatted.
	idx := map[string]int{}
	for i, name := range header {
		idx[name] = i
	}
	assert.Equal(t, "200.00", row[idx["sell_total_ht"]])
	assert.Equal(t, "24.00", row[idx["commission_eur"]])
	assert.Equal(t, "", row[idx["power_wp"]], "absent power stays empty, not zero")
}

func TestCatalogCSV_IncludesDerivedStock(t *testing.T) {
	catalog := []entity.CatalogProduct{
		{Ref: "PAN-450", Category: entity.CategoryPanel, BuyPriceUnit: decimal.RequireFromString("50.00"), InitialStock: 10},
	}
	sales := []entity.Sale{{ProductRef: "PAN-450", Quantity: 3}}
	uc := export.NewCSVUseCase(&stubSaleRepo{sales: sales}, &stubCatalogRepo{catalog: catalog})

	data, err := uc.CatalogCSV(context.Background())
	require.NoError(t, err)
	rows := parseCSV(t, data)

	require.Len(t, rows, 2)
	header, row := rows[0], rows[1]
	idx := map[string]int{}
	for i, name := range header {
		idx[name] = i
	}
	assert.Equal(t, "PAN-450", row[idx["ref"]])
	assert.Equal(t, "10", row[idx["initial_stock"]])
	assert.Equal(t, "7", row[idx["remaining"]])
	assert.Equal(t, "3", row[idx["sold"]])
}
