package snapshot_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yohand-byte/sales-margin-tracker/internal/application/snapshot"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/repository"
	"github.com/yohand-byte/sales-margin-tracker/pkg/logger"
)

// The stubs embed the port interface and override only what the snapshot
// use case touches; anything else panics loudly.

type stubSaleRepo struct {
	repository.SaleRepository
	sales []entity.Sale
}

func (r *stubSaleRepo) List() ([]entity.Sale, error) { return r.sales, nil }
func (r *stubSaleRepo) ReplaceAll(list []entity.Sale) error {
	r.sales = list
	return nil
}

type stubCatalogRepo struct {
	repository.CatalogRepository
	catalog []entity.CatalogProduct
}

func (r *stubCatalogRepo) List() ([]entity.CatalogProduct, error) { return r.catalog, nil }
func (r *stubCatalogRepo) ReplaceAll(list []entity.CatalogProduct) error {
	r.catalog = list
	return nil
}

type stubDatasetRepo struct {
	repository.DatasetRepository
	generatedAt time.Time
	stockCache  map[string]int
}

func (r *stubDatasetRepo) GeneratedAt() (time.Time, error) { return r.generatedAt, nil }
func (r *stubDatasetRepo) Touch(t time.Time) error {
	r.generatedAt = t
	return nil
}
func (r *stubDatasetRepo) ReplaceStock(stockMap map[string]int) error {
	r.stockCache = stockMap
	return nil
}

type stubTx struct {
	saleRepo    *stubSaleRepo
	catalogRepo *stubCatalogRepo
	datasetRepo *stubDatasetRepo
}

func (tx *stubTx) Run(_ context.Context, fn func(
	saleRepo repository.SaleRepository,
	catalogRepo repository.CatalogRepository,
	datasetRepo repository.DatasetRepository,
) error) error {
	return fn(tx.saleRepo, tx.catalogRepo, tx.datasetRepo)
}

func newFixture() (*snapshot.UseCase, *stubSaleRepo, *stubCatalogRepo, *stubDatasetRepo) {
	saleRepo := &stubSaleRepo{}
	catalogRepo := &stubCatalogRepo{}
	datasetRepo := &stubDatasetRepo{}
	tx := &stubTx{saleRepo, catalogRepo, datasetRepo}
	uc := snapshot.NewUseCase(tx, saleRepo, catalogRepo, datasetRepo, nil, logger.Nop())
	return uc, saleRepo, catalogRepo, datasetRepo
}

func TestBuild_AssemblesDatasetWithDerivedStock(t *testing.T) {
	uc, saleRepo, catalogRepo, datasetRepo := newFixture()
	catalogRepo.catalog = []entity.CatalogProduct{{Ref: "PAN-450", InitialStock: 10}}
	saleRepo.sales = []entity.Sale{{ID: "s-1", ProductRef: "PAN-450", Quantity: 3}}
	datasetRepo.generatedAt = time.Unix(1000, 0)

	payload, err := uc.Build(context.Background())

	require.NoError(t, err)
	assert.True(t, payload.GeneratedAt.Equal(time.Unix(1000, 0)))
	assert.Len(t, payload.Sales, 1)
	assert.Len(t, payload.Catalog, 1)
	assert.Equal(t, 7, payload.Stock["PAN-450"])
}

// An adopted snapshot may carry stale derived fields; Replace must recompute
// them instead of trusting the payload.
func TestReplace_RecomputesDerivedFields(t *testing.T) {
	uc, saleRepo, _, datasetRepo := newFixture()

	payload := &entity.BackupPayload{
		GeneratedAt: time.Unix(2000, 0),
		Catalog:     []entity.CatalogProduct{{Ref: "PAN-450", InitialStock: 10}},
		Sales: []entity.Sale{{
			ID:              "s-1",
			Date:            "2026-03-10",
			ClientOrTx:      "Dupont",
			Channel:         entity.ChannelEbay,
			ProductRef:      "PAN-450",
			Quantity:        2,
			SellPriceUnitHT: decimal.RequireFromString("100.00"),
			PaymentMethod:   entity.PaymentTransfer,
			Category:        entity.CategoryPanel,
			// Stale garbage the snapshot claims:
			SellTotalHT: decimal.RequireFromString("999999.00"),
		}},
	}

	require.NoError(t, uc.Replace(context.Background(), payload))

	require.Len(t, saleRepo.sales, 1)
	assert.True(t, saleRepo.sales[0].SellTotalHT.Equal(decimal.RequireFromString("200.00")),
		"sell_total_ht must be recomputed, got %s", saleRepo.sales[0].SellTotalHT)
	assert.Equal(t, 8, datasetRepo.stockCache["PAN-450"])
	assert.True(t, datasetRepo.generatedAt.Equal(time.Unix(2000, 0)))
}

func TestReplace_NilPayload(t *testing.T) {
	uc, _, _, _ := newFixture()
	assert.ErrorIs(t, uc.Replace(context.Background(), nil), domain.ErrInvalidInput)
}

func TestExportImport_RoundTrip(t *testing.T) {
	uc, saleRepo, catalogRepo, _ := newFixture()
	catalogRepo.catalog = []entity.CatalogProduct{{Ref: "PAN-450", InitialStock: 10}}
	saleRepo.sales = []entity.Sale{{
		ID:              "s-1",
		Date:            "2026-03-10",
		ClientOrTx:      "Dupont",
		Channel:         entity.ChannelEbay,
		ProductRef:      "PAN-450",
		Quantity:        3,
		SellPriceUnitHT: decimal.RequireFromString("100.00"),
		PaymentMethod:   entity.PaymentCard,
		Category:        entity.CategoryPanel,
	}}

	data, err := uc.Export(context.Background())
	require.NoError(t, err)

	var payload entity.BackupPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, 7, payload.Stock["PAN-450"])

	require.NoError(t, uc.Import(context.Background(), data))
	require.Len(t, saleRepo.sales, 1)
	assert.Equal(t, "s-1", saleRepo.sales[0].ID)
}

func TestImport_RejectsMalformedPayloads(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", `{"sales": [`},
		{"neither sales nor catalog", `{"generated_at":"2026-03-10T00:00:00Z"}`},
		{"sale without id", `{"sales":[{"product_ref":"PAN-450"}]}`},
		{"sale without product ref", `{"sales":[{"id":"s-1"}]}`},
		{"catalog entry without ref", `{"catalog":[{"category":"panneau"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, saleRepo, _, _ := newFixture()
			err := uc.Import(context.Background(), []byte(tc.data))
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err), "want a validation error, got %v", err)
			assert.Empty(t, saleRepo.sales, "a rejected import must not touch the dataset")
		})
	}
}

// Importing stamps the dataset with the current time, not the file's: the
// import is a fresh local mutation that must win the next comparison.
func TestImport_StampsGeneratedAtNow(t *testing.T) {
	uc, _, _, datasetRepo := newFixture()
	before := time.Now().UTC().Add(-time.Second)

	data := `{"generated_at":"2000-01-01T00:00:00Z","sales":[],"catalog":[{"ref":"PAN-450","initial_stock":5}]}`
	require.NoError(t, uc.Import(context.Background(), []byte(data)))

	assert.True(t, datasetRepo.generatedAt.After(before),
		"generated_at = %s, want now", datasetRepo.generatedAt)
}
