package export

import (
	"context"

	"github.com/yohand-byte/sales-margin-tracker/internal/domain"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/orders"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/repository"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/stock"
)

// OrderPDFGenerator renders one aggregated order with its member lines.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, row orders.Row, lines []entity.Sale) ([]byte, error)
}

// PDFUseCase produces the printable order summary.
type PDFUseCase struct {
	saleRepo repository.SaleRepository
	catRepo  repository.CatalogRepository
	gen      OrderPDFGenerator
}

// NewPDFUseCase builds the use case.
func NewPDFUseCase(saleRepo repository.SaleRepository, catRepo repository.CatalogRepository, gen OrderPDFGenerator) *PDFUseCase {
	return &PDFUseCase{saleRepo: saleRepo, catRepo: catRepo, gen: gen}
}

// OrderPDF renders the order identified by its grouping key
// (date::client::transaction_ref::channel). Returns domain.ErrNotFound when
// no order matches.
func (uc *PDFUseCase) OrderPDF(ctx context.Context, key string) ([]byte, error) {
	allSales, err := uc.saleRepo.List()
	if err != nil {
		return nil, err
	}
	catalog, err := uc.catRepo.List()
	if err != nil {
		return nil, err
	}

	rows := orders.Aggregate(allSales, stock.Compute(catalog, allSales))
	for _, row := range rows {
		if row.Key() != key {
			continue
		}
		var lines []entity.Sale
		for _, s := range allSales {
			if s.OrderKey() == key {
				lines = append(lines, s)
			}
		}
		return uc.gen.GenerateOrderPDF(ctx, row, lines)
	}
	return nil, domain.ErrNotFound
}
