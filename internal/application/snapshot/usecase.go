// Package snapshot bundles the whole dataset into a BackupPayload and swaps
// it back in atomically. It is the local side of remote synchronization and
// the backbone of backup export/import.
package snapshot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yohand-byte/sales-margin-tracker/internal/application/sales"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/finance"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/repository"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/stock"
	"github.com/yohand-byte/sales-margin-tracker/pkg/logger"
)

// TxRunner mirrors sales.TxRunner for whole-dataset replacement.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		catalogRepo repository.CatalogRepository,
		datasetRepo repository.DatasetRepository,
	) error) error
}

// UseCase builds and replaces whole-dataset snapshots.
type UseCase struct {
	txRunner    TxRunner
	saleRepo    repository.SaleRepository
	catRepo     repository.CatalogRepository
	datasetRepo repository.DatasetRepository
	notifier    sales.MutationNotifier
	log         *logger.Logger
}

// NewUseCase builds the use case.
func NewUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	catRepo repository.CatalogRepository,
	datasetRepo repository.DatasetRepository,
	notifier sales.MutationNotifier,
	log *logger.Logger,
) *UseCase {
	if notifier == nil {
		notifier = sales.NopNotifier()
	}
	return &UseCase{
		txRunner:    txRunner,
		saleRepo:    saleRepo,
		catRepo:     catRepo,
		datasetRepo: datasetRepo,
		notifier:    notifier,
		log:         log,
	}
}

// Build assembles the current dataset: sales, catalog, a freshly recomputed
// stock map and the generation timestamp.
func (uc *UseCase) Build(_ context.Context) (*entity.BackupPayload, error) {
	allSales, err := uc.saleRepo.List()
	if err != nil {
		return nil, err
	}
	catalog, err := uc.catRepo.List()
	if err != nil {
		return nil, err
	}
	generatedAt, err := uc.datasetRepo.GeneratedAt()
	if err != nil {
		return nil, err
	}
	return &entity.BackupPayload{
		GeneratedAt: generatedAt,
		Sales:       allSales,
		Catalog:     catalog,
		Stock:       stock.Compute(catalog, allSales),
	}, nil
}

// Replace swaps the whole local dataset for the payload, atomically. Derived
// sale fields and the stock map are recomputed rather than trusted: a
// snapshot produced by an older build must still obey today's rules.
func (uc *UseCase) Replace(ctx context.Context, payload *entity.BackupPayload) error {
	if payload == nil {
		return domain.ErrInvalidInput
	}
	recomputed := make([]entity.Sale, len(payload.Sales))
	for i, s := range payload.Sales {
		recomputed[i] = finance.ComputeSale(s)
	}
	return uc.txRunner.Run(ctx, func(
		saleRepo repository.SaleRepository,
		catalogRepo repository.CatalogRepository,
		datasetRepo repository.DatasetRepository,
	) error {
		if err := catalogRepo.ReplaceAll(payload.Catalog); err != nil {
			return err
		}
		if err := saleRepo.ReplaceAll(recomputed); err != nil {
			return err
		}
		if err := datasetRepo.ReplaceStock(stock.Compute(payload.Catalog, recomputed)); err != nil {
			return err
		}
		return datasetRepo.Touch(payload.GeneratedAt)
	})
}

// Export serializes the current dataset as indented JSON for download.
func (uc *UseCase) Export(ctx context.Context) ([]byte, error) {
	payload, err := uc.Build(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(payload, "", "  ")
}

// Import parses an uploaded backup file and replaces the local dataset with
// it. A malformed payload is rejected with a message and the local state is
// left untouched. The import counts as a local mutation: the dataset is
// stamped now and the reconciler is notified.
func (uc *UseCase) Import(ctx context.Context, data []byte) error {
	var payload entity.BackupPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.Validationf("backup file is not valid JSON: %v", err)
	}
	if payload.Sales == nil && payload.Catalog == nil {
		return domain.Validationf("backup file has neither sales nor catalog")
	}
	for _, s := range payload.Sales {
		if s.ID == "" || s.ProductRef == "" {
			return domain.Validationf("backup file contains a sale without id or product ref")
		}
	}
	for _, p := range payload.Catalog {
		if p.Ref == "" {
			return domain.Validationf("backup file contains a catalog entry without ref")
		}
	}

	payload.GeneratedAt = time.Now().UTC()
	if err := uc.Replace(ctx, &payload); err != nil {
		return err
	}
	uc.log.Info().Int("sales", len(payload.Sales)).Int("catalog", len(payload.Catalog)).Msg("backup imported")
	uc.notifier.NotifyMutation()
	return nil
}
