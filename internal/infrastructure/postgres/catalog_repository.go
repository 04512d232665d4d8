package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yohand-byte/sales-margin-tracker/internal/domain"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo implements the CatalogRepository port on PostgreSQL.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository builds the persistence adapter for catalog products.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// Create persists a new catalog product.
func (r *CatalogRepo) Create(p *entity.CatalogProduct) error {
	query := `
		INSERT INTO catalog_products (ref, category, buy_price_unit, initial_stock, display_rank, datasheet_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		p.Ref, p.Category, p.BuyPriceUnit, p.InitialStock, p.Rank, p.DatasheetURL, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert catalog product: %w", err)
	}
	return nil
}

// Update replaces every mutable field of a product; ref is immutable.
func (r *CatalogRepo) Update(p *entity.CatalogProduct) error {
	query := `
		UPDATE catalog_products
		SET category = $2, buy_price_unit = $3, initial_stock = $4, display_rank = $5, datasheet_url = $6, updated_at = $7
		WHERE ref = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		p.Ref, p.Category, p.BuyPriceUnit, p.InitialStock, p.Rank, p.DatasheetURL, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update catalog product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByRef returns one product, (nil, nil) when missing.
func (r *CatalogRepo) GetByRef(ref string) (*entity.CatalogProduct, error) {
	query := `
		SELECT ref, category, buy_price_unit, initial_stock, display_rank, datasheet_url, created_at, updated_at
		FROM catalog_products WHERE ref = $1`
	var p entity.CatalogProduct
	err := r.q.QueryRow(context.Background(), query, ref).Scan(
		&p.Ref, &p.Category, &p.BuyPriceUnit, &p.InitialStock, &p.Rank, &p.DatasheetURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog product: %w", err)
	}
	return &p, nil
}

// List returns the catalog ordered by display rank, then ref.
func (r *CatalogRepo) List() ([]entity.CatalogProduct, error) {
	query := `
		SELECT ref, category, buy_price_unit, initial_stock, display_rank, datasheet_url, created_at, updated_at
		FROM catalog_products ORDER BY display_rank, ref`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()
	var list []entity.CatalogProduct
	for rows.Next() {
		var p entity.CatalogProduct
		if err := rows.Scan(&p.Ref, &p.Category, &p.BuyPriceUnit, &p.InitialStock, &p.Rank, &p.DatasheetURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan catalog product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete removes a product; referencing sales become soft references.
func (r *CatalogRepo) Delete(ref string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM catalog_products WHERE ref = $1`, ref)
	if err != nil {
		return fmt.Errorf("delete catalog product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceAll swaps the whole catalog (snapshot adoption/import). Run it
// inside a transaction.
func (r *CatalogRepo) ReplaceAll(catalog []entity.CatalogProduct) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM catalog_products`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	for i := range catalog {
		if err := r.Create(&catalog[i]); err != nil {
			return err
		}
	}
	return nil
}
