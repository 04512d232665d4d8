// Package catalog manages the product catalog and the derived stock view.
package catalog

import (
	"context"
	"time"

	"github.com/yohand-byte/sales-margin-tracker/internal/application/dto"
	"github.com/yohand-byte/sales-margin-tracker/internal/application/sales"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/repository"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/stock"
	"github.com/yohand-byte/sales-margin-tracker/pkg/logger"
)

// TxRunner mirrors sales.TxRunner: catalog writes share the same
// transactional recompute.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		catalogRepo repository.CatalogRepository,
		datasetRepo repository.DatasetRepository,
	) error) error
}

// UseCase handles catalog mutations and the stock view.
type UseCase struct {
	txRunner TxRunner
	catRepo  repository.CatalogRepository
	saleRepo repository.SaleRepository
	notifier sales.MutationNotifier
	log      *logger.Logger
}

// NewUseCase builds the use case.
func NewUseCase(
	txRunner TxRunner,
	catRepo repository.CatalogRepository,
	saleRepo repository.SaleRepository,
	notifier sales.MutationNotifier,
	log *logger.Logger,
) *UseCase {
	if notifier == nil {
		notifier = sales.NopNotifier()
	}
	return &UseCase{txRunner: txRunner, catRepo: catRepo, saleRepo: saleRepo, notifier: notifier, log: log}
}

// List returns the catalog ordered by display rank.
func (uc *UseCase) List(_ context.Context) ([]entity.CatalogProduct, error) {
	return uc.catRepo.List()
}

// Create adds a catalog product.
func (uc *UseCase) Create(ctx context.Context, in dto.CatalogProductRequest) (*entity.CatalogProduct, error) {
	if in.Ref == "" {
		return nil, domain.Validationf("product ref is required")
	}
	existing, err := uc.catRepo.GetByRef(in.Ref)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now().UTC()
	p := entity.CatalogProduct{
		Ref:          in.Ref,
		Category:     in.Category,
		BuyPriceUnit: in.BuyPriceUnit,
		InitialStock: in.InitialStock,
		Rank:         in.Rank,
		DatasheetURL: in.DatasheetURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.commitMutation(ctx, now, func(catRepo repository.CatalogRepository) error {
		return catRepo.Create(&p)
	}); err != nil {
		return nil, err
	}

	uc.log.Info().Str("ref", p.Ref).Msg("catalog product created")
	uc.notifier.NotifyMutation()
	return &p, nil
}

// Update replaces every mutable field of a catalog product.
func (uc *UseCase) Update(ctx context.Context, ref string, in dto.CatalogProductRequest) (*entity.CatalogProduct, error) {
	existing, err := uc.catRepo.GetByRef(ref)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now().UTC()
	p := *existing
	p.Category = in.Category
	p.BuyPriceUnit = in.BuyPriceUnit
	p.InitialStock = in.InitialStock
	p.Rank = in.Rank
	p.DatasheetURL = in.DatasheetURL
	p.UpdatedAt = now

	if err := uc.commitMutation(ctx, now, func(catRepo repository.CatalogRepository) error {
		return catRepo.Update(&p)
	}); err != nil {
		return nil, err
	}

	uc.log.Info().Str("ref", p.Ref).Msg("catalog product updated")
	uc.notifier.NotifyMutation()
	return &p, nil
}

// Delete removes a catalog product. Sales referencing it keep aggregating as
// soft references; they just stop being stock-tracked.
func (uc *UseCase) Delete(ctx context.Context, ref string) error {
	existing, err := uc.catRepo.GetByRef(ref)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	now := time.Now().UTC()
	if err := uc.commitMutation(ctx, now, func(catRepo repository.CatalogRepository) error {
		return catRepo.Delete(ref)
	}); err != nil {
		return err
	}

	uc.log.Info().Str("ref", ref).Msg("catalog product deleted")
	uc.notifier.NotifyMutation()
	return nil
}

// StockView recomputes the full ledger and returns one entry per tracked
// reference, sorted by display rank.
func (uc *UseCase) StockView(_ context.Context) ([]dto.StockEntry, error) {
	catalog, err := uc.catRepo.List()
	if err != nil {
		return nil, err
	}
	allSales, err := uc.saleRepo.List()
	if err != nil {
		return nil, err
	}
	stockMap := stock.Compute(catalog, allSales)

	// catalog.List is already rank-ordered; keep that order.
	entries := make([]dto.StockEntry, 0, len(catalog))
	for _, p := range catalog {
		remaining := stockMap[p.Ref]
		entries = append(entries, dto.StockEntry{
			Ref:       p.Ref,
			Remaining: remaining,
			Initial:   p.InitialStock,
			Sold:      p.InitialStock - remaining,
		})
	}
	return entries, nil
}

func (uc *UseCase) commitMutation(ctx context.Context, now time.Time, write func(repository.CatalogRepository) error) error {
	return uc.txRunner.Run(ctx, func(
		saleRepo repository.SaleRepository,
		catalogRepo repository.CatalogRepository,
		datasetRepo repository.DatasetRepository,
	) error {
		if err := write(catalogRepo); err != nil {
			return err
		}
		catalog, err := catalogRepo.List()
		if err != nil {
			return err
		}
		allSales, err := saleRepo.List()
		if err != nil {
			return err
		}
		if err := datasetRepo.ReplaceStock(stock.Compute(catalog, allSales)); err != nil {
			return err
		}
		return datasetRepo.Touch(now)
	})
}
