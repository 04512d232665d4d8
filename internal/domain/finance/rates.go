// Package finance implements the per-line sale computation and the
// cent-exact allocation of shared order costs. Everything here is pure:
// no I/O, no state, decimal in, decimal out.
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"
)

// VATMultiplier is the French VAT factor applied to HT amounts (20 %).
var VATMultiplier = decimal.NewFromFloat(1.20)

// SunStoreOrderFee is the flat per-order payment fee charged by the
// first-party storefront, regardless of how many lines the order has.
var SunStoreOrderFee = decimal.NewFromFloat(5.00)

// commissionRule is the platform fee taken on the pre-tax sell amount.
type commissionRule struct {
	Rate  decimal.Decimal
	Label string // human-readable rate, shown next to the amount
}

var commissionRules = map[string]commissionRule{
	entity.ChannelSunStore:  {Rate: decimal.NewFromFloat(0.025), Label: "2,5 %"},
	entity.ChannelEbay:      {Rate: decimal.NewFromFloat(0.12), Label: "12 %"},
	entity.ChannelLeboncoin: {Rate: decimal.NewFromFloat(0.10), Label: "10 %"},
	entity.ChannelDirect:    {Rate: decimal.Zero, Label: "0 %"},
}

// paymentFeeRule is the processor fee taken on the transacted amount:
// a percentage plus a fixed component.
type paymentFeeRule struct {
	Rate  decimal.Decimal
	Fixed decimal.Decimal
}

var paymentFeeRules = map[string]paymentFeeRule{
	entity.PaymentCard:     {Rate: decimal.NewFromFloat(0.014), Fixed: decimal.NewFromFloat(0.25)},
	entity.PaymentPaypal:   {Rate: decimal.NewFromFloat(0.029), Fixed: decimal.NewFromFloat(0.35)},
	entity.PaymentTransfer: {Rate: decimal.Zero, Fixed: decimal.Zero},
	entity.PaymentCash:     {Rate: decimal.Zero, Fixed: decimal.Zero},
}

// powerRequired lists the channel+category pairs for which the power rating
// (watt-peak) is mandatory on the listing.
var powerRequired = map[[2]string]bool{
	{entity.ChannelSunStore, entity.CategoryPanel}:    true,
	{entity.ChannelSunStore, entity.CategoryInverter}: true,
}

// KnownChannel reports whether channel is one of the four sales channels.
func KnownChannel(channel string) bool {
	_, ok := commissionRules[channel]
	return ok
}

// KnownPaymentMethod reports whether method has a fee rule.
func KnownPaymentMethod(method string) bool {
	_, ok := paymentFeeRules[method]
	return ok
}

// PowerRequired reports whether the power rating is mandatory for the given
// channel+category pair.
func PowerRequired(channel, category string) bool {
	return powerRequired[[2]string{channel, category}]
}

// Round2 rounds a monetary amount to the cent, half away from zero. It is
// applied as the last step of every derived field so floating drift never
// accumulates across aggregation.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
