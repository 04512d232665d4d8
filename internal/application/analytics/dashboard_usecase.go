// Package analytics computes the dashboard KPIs. Everything is derived from
// the authoritative sale and catalog lists on every call; nothing is cached.
package analytics

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yohand-byte/sales-margin-tracker/internal/application/dto"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/finance"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/orders"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/repository"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/stock"
)

var hundred = decimal.NewFromInt(100)

// DashboardUseCase builds the top-line summary.
type DashboardUseCase struct {
	saleRepo repository.SaleRepository
	catRepo  repository.CatalogRepository
}

// NewDashboardUseCase builds the use case.
func NewDashboardUseCase(saleRepo repository.SaleRepository, catRepo repository.CatalogRepository) *DashboardUseCase {
	return &DashboardUseCase{saleRepo: saleRepo, catRepo: catRepo}
}

// GetSummary aggregates the whole dataset into dashboard figures: revenue,
// margins, order/line counts, stock alerts and the per-channel split.
func (uc *DashboardUseCase) GetSummary(_ context.Context) (*dto.DashboardSummary, error) {
	allSales, err := uc.saleRepo.List()
	if err != nil {
		return nil, err
	}
	catalog, err := uc.catRepo.List()
	if err != nil {
		return nil, err
	}

	stockMap := stock.Compute(catalog, allSales)
	rows := orders.Aggregate(allSales, stockMap)

	out := &dto.DashboardSummary{
		Orders:       len(rows),
		Lines:        len(allSales),
		Revenue:      decimal.Zero,
		GrossMargin:  decimal.Zero,
		NetMargin:    decimal.Zero,
		NetMarginPct: decimal.Zero,
	}
	perChannel := make(map[string]*dto.ChannelKPI)
	for _, row := range rows {
		out.Revenue = out.Revenue.Add(row.TransactionValue)
		out.NetMargin = out.NetMargin.Add(row.NetMargin)
		kpi, ok := perChannel[row.Channel]
		if !ok {
			kpi = &dto.ChannelKPI{Channel: row.Channel, Revenue: decimal.Zero, NetMargin: decimal.Zero}
			perChannel[row.Channel] = kpi
		}
		kpi.Orders++
		kpi.Revenue = kpi.Revenue.Add(row.TransactionValue)
		kpi.NetMargin = kpi.NetMargin.Add(row.NetMargin)
	}
	for _, s := range allSales {
		out.GrossMargin = out.GrossMargin.Add(s.GrossMargin)
	}
	if !out.Revenue.IsZero() {
		out.NetMarginPct = finance.Round2(out.NetMargin.Div(out.Revenue).Mul(hundred))
	}

	for _, remaining := range stockMap {
		switch {
		case remaining <= 0:
			out.OutOfStock++
		case remaining <= orders.LowStockThreshold:
			out.LowStock++
		}
	}

	out.PerChannel = make([]dto.ChannelKPI, 0, len(perChannel))
	for _, kpi := range perChannel {
		out.PerChannel = append(out.PerChannel, *kpi)
	}
	sort.Slice(out.PerChannel, func(a, b int) bool {
		return out.PerChannel[a].Channel < out.PerChannel[b].Channel
	})
	return out, nil
}
