package sales

import (
	"context"

	"github.com/yohand-byte/sales-margin-tracker/internal/domain/repository"
)

// TxRunner executes fn inside one database transaction, handing it
// repositories bound to that transaction. A sale mutation and the stock
// recompute it triggers always commit or roll back together.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		catalogRepo repository.CatalogRepository,
		datasetRepo repository.DatasetRepository,
	) error) error
}

// MutationNotifier is told after every committed local mutation so the
// reconciler can schedule its debounced push. Implementations must not block.
type MutationNotifier interface {
	NotifyMutation()
}

// nopNotifier lets the use case run without a reconciler (tests, sync off).
type nopNotifier struct{}

func (nopNotifier) NotifyMutation() {}

// NopNotifier returns a notifier that does nothing.
func NopNotifier() MutationNotifier { return nopNotifier{} }
