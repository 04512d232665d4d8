// Package stock derives the remaining quantity per product reference.
// There is no incremental counter anywhere: the ledger is recomputed from the
// catalog and the full sales list on every change, which makes drift
// impossible. The cached copy kept for fast reload is always overwritten by a
// fresh recomputation, never trusted ahead of it.
package stock

import (
	"github.com/yohand-byte/sales-margin-tracker/internal/domain"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"
)

// Compute returns stock[ref] = initial_stock - Σ quantity over every sale
// referencing ref. Sales whose reference has no catalog entry are soft
// references: they do not appear in the result and never block anything.
func Compute(catalog []entity.CatalogProduct, sales []entity.Sale) map[string]int {
	out := make(map[string]int, len(catalog))
	for _, p := range catalog {
		out[p.Ref] = p.InitialStock
	}
	for _, s := range sales {
		if _, tracked := out[s.ProductRef]; tracked {
			out[s.ProductRef] -= s.Quantity
		}
	}
	return out
}

// CheckAvailability verifies that quantity units of ref can be sold given the
// derived stock map. prevQty is the quantity the edited sale already
// consumes (zero for a new sale): editing a 3-unit line down to 2 must not
// fail because the 3 units are already counted out of stock. Untracked
// references always pass.
func CheckAvailability(stockMap map[string]int, ref string, quantity, prevQty int) error {
	remaining, tracked := stockMap[ref]
	if !tracked {
		return nil
	}
	if quantity > remaining+prevQty {
		return domain.Validationf("insufficient stock for %s: %d remaining, %d requested", ref, remaining+prevQty, quantity)
	}
	return nil
}
