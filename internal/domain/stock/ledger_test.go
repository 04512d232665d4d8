package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yohand-byte/sales-margin-tracker/internal/domain"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/stock"
)

func product(ref string, initial int) entity.CatalogProduct {
	return entity.CatalogProduct{Ref: ref, Category: entity.CategoryPanel, InitialStock: initial}
}

func sale(ref string, qty int) entity.Sale {
	return entity.Sale{ProductRef: ref, Quantity: qty}
}

func TestCompute_SubtractsSoldQuantities(t *testing.T) {
	catalog := []entity.CatalogProduct{product("PAN-450", 10), product("INV-3K", 4)}
	sales := []entity.Sale{sale("PAN-450", 3), sale("PAN-450", 2), sale("INV-3K", 4)}

	got := stock.Compute(catalog, sales)

	require.Len(t, got, 2)
	assert.Equal(t, 5, got["PAN-450"])
	assert.Equal(t, 0, got["INV-3K"])
}

// A sale whose reference left the catalog is a soft reference: it neither
// appears in the ledger nor corrupts it.
func TestCompute_IgnoresSoftReferences(t *testing.T) {
	catalog := []entity.CatalogProduct{product("PAN-450", 10)}
	sales := []entity.Sale{sale("DELETED-REF", 7), sale("PAN-450", 1)}

	got := stock.Compute(catalog, sales)

	require.Len(t, got, 1)
	assert.Equal(t, 9, got["PAN-450"])
	_, tracked := got["DELETED-REF"]
	assert.False(t, tracked)
}

// Negative remainders are possible (catalog edited after the fact) and must
// be reported as-is, not clamped.
func TestCompute_OversoldGoesNegative(t *testing.T) {
	catalog := []entity.CatalogProduct{product("PAN-450", 2)}
	sales := []entity.Sale{sale("PAN-450", 5)}

	got := stock.Compute(catalog, sales)

	assert.Equal(t, -3, got["PAN-450"])
}

// Conservation: for every tracked ref, remaining + sold == initial, whatever
// the order of sales.
func TestCompute_ConservationInvariant(t *testing.T) {
	catalog := []entity.CatalogProduct{product("A", 10), product("B", 3), product("C", 0)}
	sales := []entity.Sale{sale("A", 4), sale("B", 1), sale("A", 1), sale("C", 2), sale("B", 2)}

	got := stock.Compute(catalog, sales)

	sold := map[string]int{}
	for _, s := range sales {
		sold[s.ProductRef] += s.Quantity
	}
	for _, p := range catalog {
		assert.Equal(t, p.InitialStock, got[p.Ref]+sold[p.Ref], "ref %s", p.Ref)
	}
}

func TestCheckAvailability(t *testing.T) {
	stockMap := map[string]int{"PAN-450": 4}

	assert.NoError(t, stock.CheckAvailability(stockMap, "PAN-450", 4, 0))
	assert.NoError(t, stock.CheckAvailability(stockMap, "UNTRACKED", 100, 0))

	err := stock.CheckAvailability(stockMap, "PAN-450", 5, 0)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	// prevQty credits what the edited line already holds.
	assert.NoError(t, stock.CheckAvailability(stockMap, "PAN-450", 6, 2))
	assert.Error(t, stock.CheckAvailability(stockMap, "PAN-450", 7, 2))
}
