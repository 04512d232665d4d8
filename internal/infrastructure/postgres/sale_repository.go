package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yohand-byte/sales-margin-tracker/internal/domain"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `
	id, date, client_or_tx, transaction_ref, channel, customer_country,
	product_ref, quantity, sell_price_unit_ht, sell_price_unit_ttc,
	shipping_charged, shipping_charged_ttc, shipping_real, shipping_real_ttc,
	payment_method, category, buy_price_unit, power_wp, attachment_count,
	sell_total_ht, transaction_value, commission_eur, commission_label,
	payment_fee, net_received, total_cost, gross_margin, net_margin,
	net_margin_pct, created_at, updated_at`

// SaleRepo implements the SaleRepository port on PostgreSQL. Pass a pool or
// a tx (Querier).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository builds the persistence adapter for sales.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persists a new sale line, derived fields included.
func (r *SaleRepo) Create(s *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)`
	_, err := r.q.Exec(context.Background(), query, saleArgs(s)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// Update replaces every mutable field; identity and created_at stay.
func (r *SaleRepo) Update(s *entity.Sale) error {
	query := `
		UPDATE sales SET
			date = $2, client_or_tx = $3, transaction_ref = $4, channel = $5,
			customer_country = $6, product_ref = $7, quantity = $8,
			sell_price_unit_ht = $9, sell_price_unit_ttc = $10,
			shipping_charged = $11, shipping_charged_ttc = $12,
			shipping_real = $13, shipping_real_ttc = $14,
			payment_method = $15, category = $16, buy_price_unit = $17,
			power_wp = $18, attachment_count = $19,
			sell_total_ht = $20, transaction_value = $21, commission_eur = $22,
			commission_label = $23, payment_fee = $24, net_received = $25,
			total_cost = $26, gross_margin = $27, net_margin = $28,
			net_margin_pct = $29, updated_at = $30
		WHERE id = $1`
	args := []any{
		s.ID, s.Date, s.ClientOrTx, s.TransactionRef, s.Channel, s.CustomerCountry,
		s.ProductRef, s.Quantity, s.SellPriceUnitHT, toNull(s.SellPriceUnitTTC),
		s.ShippingCharged, toNull(s.ShippingChargedTTC), s.ShippingReal, toNull(s.ShippingRealTTC),
		s.PaymentMethod, s.Category, s.BuyPriceUnit, toNull(s.PowerWp), s.AttachmentCount,
		s.SellTotalHT, s.TransactionValue, s.CommissionEur, s.CommissionLabel,
		s.PaymentFee, s.NetReceived, s.TotalCost, s.GrossMargin, s.NetMargin,
		s.NetMarginPct, s.UpdatedAt,
	}
	cmd, err := r.q.Exec(context.Background(), query, args...)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID returns one sale, (nil, nil) when missing.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	s, err := scanSale(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// List returns every sale, newest first.
func (r *SaleRepo) List() ([]entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales ORDER BY date DESC, created_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

// Delete removes one sale line.
func (r *SaleRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceAll swaps the full sales list (snapshot adoption/import). Run it
// inside a transaction.
func (r *SaleRepo) ReplaceAll(sales []entity.Sale) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM sales`); err != nil {
		return fmt.Errorf("clear sales: %w", err)
	}
	for i := range sales {
		if err := r.Create(&sales[i]); err != nil {
			return err
		}
	}
	return nil
}

func saleArgs(s *entity.Sale) []any {
	return []any{
		s.ID, s.Date, s.ClientOrTx, s.TransactionRef, s.Channel, s.CustomerCountry,
		s.ProductRef, s.Quantity, s.SellPriceUnitHT, toNull(s.SellPriceUnitTTC),
		s.ShippingCharged, toNull(s.ShippingChargedTTC), s.ShippingReal, toNull(s.ShippingRealTTC),
		s.PaymentMethod, s.Category, s.BuyPriceUnit, toNull(s.PowerWp), s.AttachmentCount,
		s.SellTotalHT, s.TransactionValue, s.CommissionEur, s.CommissionLabel,
		s.PaymentFee, s.NetReceived, s.TotalCost, s.GrossMargin, s.NetMargin,
		s.NetMarginPct, s.CreatedAt, s.UpdatedAt,
	}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var sellTTC, shipChargedTTC, shipRealTTC, powerWp decimal.NullDecimal
	err := row.Scan(
		&s.ID, &s.Date, &s.ClientOrTx, &s.TransactionRef, &s.Channel, &s.CustomerCountry,
		&s.ProductRef, &s.Quantity, &s.SellPriceUnitHT, &sellTTC,
		&s.ShippingCharged, &shipChargedTTC, &s.ShippingReal, &shipRealTTC,
		&s.PaymentMethod, &s.Category, &s.BuyPriceUnit, &powerWp, &s.AttachmentCount,
		&s.SellTotalHT, &s.TransactionValue, &s.CommissionEur, &s.CommissionLabel,
		&s.PaymentFee, &s.NetReceived, &s.TotalCost, &s.GrossMargin, &s.NetMargin,
		&s.NetMarginPct, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.SellPriceUnitTTC = fromNull(sellTTC)
	s.ShippingChargedTTC = fromNull(shipChargedTTC)
	s.ShippingRealTTC = fromNull(shipRealTTC)
	s.PowerWp = fromNull(powerWp)
	return &s, nil
}
