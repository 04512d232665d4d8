package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yohand-byte/sales-margin-tracker/internal/domain/repository"
)

var _ repository.DatasetRepository = (*DatasetRepo)(nil)

// DatasetRepo stores the snapshot generation timestamp (single row) and the
// derived stock cache.
type DatasetRepo struct {
	q Querier
}

// NewDatasetRepository builds the persistence adapter for dataset metadata.
func NewDatasetRepository(q Querier) *DatasetRepo {
	return &DatasetRepo{q: q}
}

// GeneratedAt returns the last generation timestamp, zero when never touched.
func (r *DatasetRepo) GeneratedAt() (time.Time, error) {
	var t time.Time
	err := r.q.QueryRow(context.Background(),
		`SELECT generated_at FROM dataset_meta WHERE id = 1`).Scan(&t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("get dataset timestamp: %w", err)
	}
	return t, nil
}

// Touch stamps the dataset as regenerated at t.
func (r *DatasetRepo) Touch(t time.Time) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO dataset_meta (id, generated_at) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET generated_at = EXCLUDED.generated_at`, t)
	if err != nil {
		return fmt.Errorf("touch dataset: %w", err)
	}
	return nil
}

// ReplaceStock overwrites the stock cache with a freshly derived map.
func (r *DatasetRepo) ReplaceStock(stock map[string]int) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_cache`); err != nil {
		return fmt.Errorf("clear stock cache: %w", err)
	}
	for ref, remaining := range stock {
		if _, err := r.q.Exec(ctx,
			`INSERT INTO stock_cache (ref, remaining) VALUES ($1, $2)`, ref, remaining); err != nil {
			return fmt.Errorf("insert stock cache row: %w", err)
		}
	}
	return nil
}

// CachedStock reloads the last derived stock map.
func (r *DatasetRepo) CachedStock() (map[string]int, error) {
	rows, err := r.q.Query(context.Background(), `SELECT ref, remaining FROM stock_cache`)
	if err != nil {
		return nil, fmt.Errorf("read stock cache: %w", err)
	}
	defer rows.Close()
	stock := make(map[string]int)
	for rows.Next() {
		var ref string
		var remaining int
		if err := rows.Scan(&ref, &remaining); err != nil {
			return nil, fmt.Errorf("scan stock cache row: %w", err)
		}
		stock[ref] = remaining
	}
	return stock, rows.Err()
}
