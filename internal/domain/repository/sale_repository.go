package repository

import "github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"

// SaleRepository is the persistence port for sale line items.
// GetByID returns (nil, nil) when the sale does not exist.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	Update(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	List() ([]entity.Sale, error)
	Delete(id string) error
	// ReplaceAll swaps the full sales list, used when adopting a remote or
	// imported snapshot. Callers run it inside a transaction.
	ReplaceAll(sales []entity.Sale) error
}
