package orders_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/finance"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/orders"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// line builds a computed sale line ready for aggregation.
func line(date, client, txRef, channel, ref string, qty int, unitPrice string) entity.Sale {
	return finance.ComputeSale(entity.Sale{
		Date:            date,
		ClientOrTx:      client,
		TransactionRef:  txRef,
		Channel:         channel,
		ProductRef:      ref,
		Quantity:        qty,
		SellPriceUnitHT: d(unitPrice),
		PaymentMethod:   entity.PaymentCard,
		Category:        entity.CategoryPanel,
		BuyPriceUnit:    d("50.00"),
	})
}

func TestAggregate_GroupsLinesByOrderKey(t *testing.T) {
	sales := []entity.Sale{
		line("2026-03-10", "Dupont", "TX-1", entity.ChannelEbay, "PAN-450", 2, "100.00"),
		line("2026-03-10", "Dupont", "TX-1", entity.ChannelEbay, "INV-3K", 3, "200.00"),
		line("2026-03-10", "Martin", "TX-2", entity.ChannelEbay, "PAN-450", 1, "100.00"),
	}

	rows := orders.Aggregate(sales, nil)

	require.Len(t, rows, 2)
	dupont := rows[0]
	assert.Equal(t, "Dupont", dupont.ClientOrTx)
	assert.Equal(t, 2, dupont.Lines)
	assert.Equal(t, 5, dupont.Quantity)
	assert.Equal(t, []string{"PAN-450", "INV-3K"}, dupont.Refs)
	assert.True(t, dupont.SellTotalHT.Equal(d("800.00")), "sell_total_ht = %s", dupont.SellTotalHT)
	// Weighted average: (2x100 + 3x200) / 5 = 160.
	assert.True(t, dupont.AvgUnitPriceHT.Equal(d("160.00")), "avg = %s", dupont.AvgUnitPriceHT)
}

// Order-level money fields are the exact sums of the member lines (no
// storefront normalization on ebay).
func TestAggregate_SumsAreExact(t *testing.T) {
	sales := []entity.Sale{
		line("2026-03-10", "Dupont", "TX-1", entity.ChannelEbay, "PAN-450", 2, "100.00"),
		line("2026-03-10", "Dupont", "TX-1", entity.ChannelEbay, "INV-3K", 3, "200.00"),
	}

	rows := orders.Aggregate(sales, nil)
	require.Len(t, rows, 1)
	row := rows[0]

	wantMargin := sales[0].NetMargin.Add(sales[1].NetMargin)
	wantFee := sales[0].PaymentFee.Add(sales[1].PaymentFee)
	assert.True(t, row.NetMargin.Equal(wantMargin), "net_margin = %s, want %s", row.NetMargin, wantMargin)
	assert.True(t, row.PaymentFee.Equal(wantFee))
}

// sun.store charges one flat fee per order, not one per line. The aggregate
// must show the flat fee and fold the difference back into net figures so the
// bottom line stays coherent.
func TestAggregate_SunStoreFlatFeeNormalization(t *testing.T) {
	sales := []entity.Sale{
		line("2026-03-10", "Dupont", "TX-1", entity.ChannelSunStore, "PAN-450", 2, "100.00"),
		line("2026-03-10", "Dupont", "TX-1", entity.ChannelSunStore, "INV-3K", 3, "200.00"),
	}

	rows := orders.Aggregate(sales, nil)
	require.Len(t, rows, 1)
	row := rows[0]

	assert.True(t, row.PaymentFee.Equal(finance.SunStoreOrderFee), "payment_fee = %s", row.PaymentFee)

	rawFee := sales[0].PaymentFee.Add(sales[1].PaymentFee)
	delta := rawFee.Sub(finance.SunStoreOrderFee)
	wantNet := sales[0].NetReceived.Add(sales[1].NetReceived).Add(delta)
	wantMargin := sales[0].NetMargin.Add(sales[1].NetMargin).Add(delta)
	assert.True(t, row.NetReceived.Equal(wantNet), "net_received = %s, want %s", row.NetReceived, wantNet)
	assert.True(t, row.NetMargin.Equal(wantMargin), "net_margin = %s, want %s", row.NetMargin, wantMargin)
}

func TestAggregate_StockFlags(t *testing.T) {
	sales := []entity.Sale{
		line("2026-03-10", "Dupont", "TX-1", entity.ChannelEbay, "OUT", 1, "10.00"),
		line("2026-03-10", "Dupont", "TX-1", entity.ChannelEbay, "LOW", 1, "10.00"),
		line("2026-03-10", "Dupont", "TX-1", entity.ChannelEbay, "FINE", 1, "10.00"),
		line("2026-03-10", "Dupont", "TX-1", entity.ChannelEbay, "SOFT", 1, "10.00"),
	}
	stockMap := map[string]int{"OUT": 0, "LOW": orders.LowStockThreshold, "FINE": 50}

	rows := orders.Aggregate(sales, stockMap)
	require.Len(t, rows, 1)

	assert.Equal(t, []string{"OUT"}, rows[0].OutOfStock)
	assert.Equal(t, []string{"LOW"}, rows[0].LowStock)
}

func TestAggregate_SortsNewestFirstThenClient(t *testing.T) {
	sales := []entity.Sale{
		line("2026-03-09", "Zola", "TX-3", entity.ChannelEbay, "A", 1, "10.00"),
		line("2026-03-10", "Martin", "TX-2", entity.ChannelEbay, "A", 1, "10.00"),
		line("2026-03-10", "Dupont", "TX-1", entity.ChannelEbay, "A", 1, "10.00"),
	}

	rows := orders.Aggregate(sales, nil)

	require.Len(t, rows, 3)
	assert.Equal(t, "Dupont", rows[0].ClientOrTx)
	assert.Equal(t, "Martin", rows[1].ClientOrTx)
	assert.Equal(t, "Zola", rows[2].ClientOrTx)
}

func TestRowKey_MirrorsSaleOrderKey(t *testing.T) {
	s := line("2026-03-10", "Dupont", "TX-1", entity.ChannelEbay, "A", 1, "10.00")
	rows := orders.Aggregate([]entity.Sale{s}, nil)

	require.Len(t, rows, 1)
	assert.Equal(t, s.OrderKey(), rows[0].Key())
}
