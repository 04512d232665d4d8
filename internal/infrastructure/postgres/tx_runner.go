package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yohand-byte/sales-margin-tracker/internal/application/catalog"
	"github.com/yohand-byte/sales-margin-tracker/internal/application/sales"
	"github.com/yohand-byte/sales-margin-tracker/internal/application/snapshot"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/repository"
)

var (
	_ sales.TxRunner    = (*TxRunner)(nil)
	_ catalog.TxRunner  = (*TxRunner)(nil)
	_ snapshot.TxRunner = (*TxRunner)(nil)
)

// TxRunner runs a function inside one pgx transaction and hands it
// repositories bound to that transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the transaction runner.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run opens a transaction, invokes fn with tx-bound repositories and
// commits, or rolls everything back when fn fails.
func (r *TxRunner) Run(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	catalogRepo repository.CatalogRepository,
	datasetRepo repository.DatasetRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(NewSaleRepository(tx), NewCatalogRepository(tx), NewDatasetRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
