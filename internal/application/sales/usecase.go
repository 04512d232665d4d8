// Package sales owns every mutation of the sale list. Each write validates
// against the derived stock, recomputes the line's money fields, refreshes
// the stock cache and the dataset timestamp in the same transaction, then
// notifies the reconciler.
package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yohand-byte/sales-margin-tracker/internal/application/dto"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/finance"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/repository"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/stock"
	"github.com/yohand-byte/sales-margin-tracker/pkg/logger"
)

// UseCase handles sale line mutations and reads.
type UseCase struct {
	txRunner TxRunner
	saleRepo repository.SaleRepository
	catRepo  repository.CatalogRepository
	notifier MutationNotifier
	log      *logger.Logger
}

// NewUseCase builds the use case.
func NewUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	catRepo repository.CatalogRepository,
	notifier MutationNotifier,
	log *logger.Logger,
) *UseCase {
	if notifier == nil {
		notifier = NopNotifier()
	}
	return &UseCase{txRunner: txRunner, saleRepo: saleRepo, catRepo: catRepo, notifier: notifier, log: log}
}

// List returns every sale line.
func (uc *UseCase) List(_ context.Context) ([]entity.Sale, error) {
	return uc.saleRepo.List()
}

// Get returns one sale or domain.ErrNotFound.
func (uc *UseCase) Get(_ context.Context, id string) (*entity.Sale, error) {
	s, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// Create validates, computes and persists a new sale line.
func (uc *UseCase) Create(ctx context.Context, in dto.SaleRequest) (*entity.Sale, error) {
	if err := checkDate(in.Date); err != nil {
		return nil, err
	}
	stockMap, err := uc.currentStock()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	s := fromRequest(in)
	s.ID = uuid.New().String()
	s.CreatedAt = now
	s.UpdatedAt = now

	if err := finance.ValidateSale(s, stockMap, 0); err != nil {
		return nil, err
	}
	s = finance.ComputeSale(s)

	if err := uc.commitMutation(ctx, now, func(saleRepo repository.SaleRepository) error {
		return saleRepo.Create(&s)
	}); err != nil {
		return nil, err
	}

	uc.log.Info().Str("sale_id", s.ID).Str("ref", s.ProductRef).Int("qty", s.Quantity).Msg("sale created")
	uc.notifier.NotifyMutation()
	return &s, nil
}

// Update replaces every mutable field of an existing sale. The quantity the
// sale already consumes is credited back before the availability check, so
// lowering a quantity can never fail on stock.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.SaleRequest) (*entity.Sale, error) {
	if err := checkDate(in.Date); err != nil {
		return nil, err
	}
	existing, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	stockMap, err := uc.currentStock()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	s := fromRequest(in)
	s.ID = existing.ID
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = now

	prevQty := 0
	if existing.ProductRef == s.ProductRef {
		prevQty = existing.Quantity
	}
	if err := finance.ValidateSale(s, stockMap, prevQty); err != nil {
		return nil, err
	}
	s = finance.ComputeSale(s)

	if err := uc.commitMutation(ctx, now, func(saleRepo repository.SaleRepository) error {
		return saleRepo.Update(&s)
	}); err != nil {
		return nil, err
	}

	uc.log.Info().Str("sale_id", s.ID).Msg("sale updated")
	uc.notifier.NotifyMutation()
	return &s, nil
}

// Delete removes a sale line (its stock flows back automatically on the next
// recompute).
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	existing, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	now := time.Now().UTC()
	if err := uc.commitMutation(ctx, now, func(saleRepo repository.SaleRepository) error {
		return saleRepo.Delete(id)
	}); err != nil {
		return err
	}

	uc.log.Info().Str("sale_id", id).Msg("sale deleted")
	uc.notifier.NotifyMutation()
	return nil
}

// CreateOrder creates one sale line per product of a multi-line order,
// splitting the shared shipping amounts (charged and real) across the lines
// by economic weight, cent-exact.
func (uc *UseCase) CreateOrder(ctx context.Context, in dto.OrderRequest) ([]entity.Sale, error) {
	if len(in.Lines) == 0 {
		return nil, domain.Validationf("an order needs at least one line")
	}
	if err := checkDate(in.Date); err != nil {
		return nil, err
	}
	stockMap, err := uc.currentStock()
	if err != nil {
		return nil, err
	}

	quantities := make([]int, len(in.Lines))
	prices := make([]decimal.Decimal, len(in.Lines))
	for i, l := range in.Lines {
		quantities[i] = l.Quantity
		prices[i] = l.SellPriceUnitHT
	}
	weights := finance.LineWeights(quantities, prices)
	chargedParts := finance.AllocateByWeight(in.ShippingCharged, weights)
	realParts := finance.AllocateByWeight(in.ShippingReal, weights)

	now := time.Now().UTC()
	created := make([]entity.Sale, 0, len(in.Lines))
	// Validate against a working copy so several lines of the same reference
	// consume stock cumulatively.
	working := make(map[string]int, len(stockMap))
	for ref, remaining := range stockMap {
		working[ref] = remaining
	}
	for i, l := range in.Lines {
		s := entity.Sale{
			ID:              uuid.New().String(),
			Date:            in.Date,
			ClientOrTx:      in.ClientOrTx,
			TransactionRef:  in.TransactionRef,
			Channel:         in.Channel,
			CustomerCountry: in.CustomerCountry,
			ProductRef:      l.ProductRef,
			Quantity:        l.Quantity,
			SellPriceUnitHT: l.SellPriceUnitHT,
			ShippingCharged: chargedParts[i],
			ShippingReal:    realParts[i],
			PaymentMethod:   in.PaymentMethod,
			Category:        l.Category,
			BuyPriceUnit:    l.BuyPriceUnit,
			PowerWp:         l.PowerWp,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := finance.ValidateSale(s, working, 0); err != nil {
			return nil, err
		}
		if _, tracked := working[s.ProductRef]; tracked {
			working[s.ProductRef] -= s.Quantity
		}
		created = append(created, finance.ComputeSale(s))
	}

	if err := uc.commitMutation(ctx, now, func(saleRepo repository.SaleRepository) error {
		for i := range created {
			if err := saleRepo.Create(&created[i]); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	uc.log.Info().Int("lines", len(created)).Str("transaction_ref", in.TransactionRef).Msg("order created")
	uc.notifier.NotifyMutation()
	return created, nil
}

// commitMutation runs the write plus the full stock recompute and the
// dataset timestamp bump in one transaction.
func (uc *UseCase) commitMutation(ctx context.Context, now time.Time, write func(repository.SaleRepository) error) error {
	return uc.txRunner.Run(ctx, func(
		saleRepo repository.SaleRepository,
		catalogRepo repository.CatalogRepository,
		datasetRepo repository.DatasetRepository,
	) error {
		if err := write(saleRepo); err != nil {
			return err
		}
		catalog, err := catalogRepo.List()
		if err != nil {
			return err
		}
		all, err := saleRepo.List()
		if err != nil {
			return err
		}
		if err := datasetRepo.ReplaceStock(stock.Compute(catalog, all)); err != nil {
			return err
		}
		return datasetRepo.Touch(now)
	})
}

// currentStock derives the stock map from the authoritative lists.
func (uc *UseCase) currentStock() (map[string]int, error) {
	catalog, err := uc.catRepo.List()
	if err != nil {
		return nil, err
	}
	all, err := uc.saleRepo.List()
	if err != nil {
		return nil, err
	}
	return stock.Compute(catalog, all), nil
}

func fromRequest(in dto.SaleRequest) entity.Sale {
	return entity.Sale{
		Date:               in.Date,
		ClientOrTx:         in.ClientOrTx,
		TransactionRef:     in.TransactionRef,
		Channel:            in.Channel,
		CustomerCountry:    in.CustomerCountry,
		ProductRef:         in.ProductRef,
		Quantity:           in.Quantity,
		SellPriceUnitHT:    in.SellPriceUnitHT,
		SellPriceUnitTTC:   in.SellPriceUnitTTC,
		ShippingCharged:    in.ShippingCharged,
		ShippingChargedTTC: in.ShippingChargedTTC,
		ShippingReal:       in.ShippingReal,
		ShippingRealTTC:    in.ShippingRealTTC,
		PaymentMethod:      in.PaymentMethod,
		Category:           in.Category,
		BuyPriceUnit:       in.BuyPriceUnit,
		PowerWp:            in.PowerWp,
		AttachmentCount:    in.AttachmentCount,
	}
}

func checkDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return domain.Validationf("date must be YYYY-MM-DD")
	}
	return nil
}
