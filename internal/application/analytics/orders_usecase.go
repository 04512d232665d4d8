package analytics

import (
	"context"

	"github.com/yohand-byte/sales-margin-tracker/internal/domain/orders"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/repository"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/stock"
)

// OrdersUseCase rebuilds the aggregated order view.
type OrdersUseCase struct {
	saleRepo repository.SaleRepository
	catRepo  repository.CatalogRepository
}

// NewOrdersUseCase builds the use case.
func NewOrdersUseCase(saleRepo repository.SaleRepository, catRepo repository.CatalogRepository) *OrdersUseCase {
	return &OrdersUseCase{saleRepo: saleRepo, catRepo: catRepo}
}

// List reaggregates every sale line into virtual orders, newest first.
func (uc *OrdersUseCase) List(_ context.Context) ([]orders.Row, error) {
	allSales, err := uc.saleRepo.List()
	if err != nil {
		return nil, err
	}
	catalog, err := uc.catRepo.List()
	if err != nil {
		return nil, err
	}
	return orders.Aggregate(allSales, stock.Compute(catalog, allSales)), nil
}
