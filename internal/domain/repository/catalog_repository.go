package repository

import "github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"

// CatalogRepository is the persistence port for catalog products.
// GetByRef returns (nil, nil) when the reference does not exist.
type CatalogRepository interface {
	Create(product *entity.CatalogProduct) error
	Update(product *entity.CatalogProduct) error
	GetByRef(ref string) (*entity.CatalogProduct, error)
	// List returns the catalog ordered by display rank, then ref.
	List() ([]entity.CatalogProduct, error)
	Delete(ref string) error
	ReplaceAll(catalog []entity.CatalogProduct) error
}
