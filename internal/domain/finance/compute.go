package finance

import (
	"github.com/shopspring/decimal"

	"github.com/yohand-byte/sales-margin-tracker/internal/domain"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"
	stockledger "github.com/yohand-byte/sales-margin-tracker/internal/domain/stock"
)

var hundred = decimal.NewFromInt(100)

// ComputeSale derives every money field of a sale from its raw inputs and
// returns the completed copy. It is pure and total: it never fails, a zero
// transaction value yields a zero margin percentage, and a negative quantity
// computes as zero. Callers must treat the returned derived fields as the
// only truth; hand-set values are overwritten.
func ComputeSale(s entity.Sale) entity.Sale {
	qty := s.Quantity
	if qty < 0 {
		qty = 0
	}
	q := decimal.NewFromInt(int64(qty))

	s.SellTotalHT = Round2(s.SellPriceUnitHT.Mul(q))
	s.TransactionValue = Round2(s.SellTotalHT.Add(s.ShippingCharged))

	rule := commissionRules[s.Channel]
	s.CommissionEur = Round2(s.SellTotalHT.Mul(rule.Rate))
	s.CommissionLabel = rule.Label

	fee := paymentFeeRules[s.PaymentMethod]
	if fee.Rate.IsZero() && fee.Fixed.IsZero() {
		s.PaymentFee = decimal.Zero
	} else {
		s.PaymentFee = Round2(s.TransactionValue.Mul(fee.Rate).Add(fee.Fixed))
	}

	s.NetReceived = Round2(s.TransactionValue.Sub(s.CommissionEur).Sub(s.PaymentFee))
	s.TotalCost = Round2(s.BuyPriceUnit.Mul(q).Add(s.ShippingReal))
	s.GrossMargin = Round2(s.SellTotalHT.Sub(s.TotalCost))
	s.NetMargin = Round2(s.NetReceived.Sub(s.TotalCost))

	if s.TransactionValue.IsZero() {
		s.NetMarginPct = decimal.Zero
	} else {
		s.NetMarginPct = Round2(s.NetMargin.Div(s.TransactionValue).Mul(hundred))
	}

	if IsFrance(s.CustomerCountry) {
		// French customers: TTC is always HT + 20 % VAT, overriding any
		// manually supplied value.
		s.SellPriceUnitTTC = ttc(s.SellPriceUnitHT)
		s.ShippingChargedTTC = ttc(s.ShippingCharged)
		s.ShippingRealTTC = ttc(s.ShippingReal)
	}

	if !PowerRequired(s.Channel, s.Category) {
		s.PowerWp = nil
	}

	return s
}

func ttc(ht decimal.Decimal) *decimal.Decimal {
	v := Round2(ht.Mul(VATMultiplier))
	return &v
}

// ValidateSale checks a sale input before it is applied. stock is the derived
// stock map (presence means the ref is catalog-tracked; soft references pass
// through). prevQty is the quantity already consumed by the sale being
// edited, zero for a new sale. A non-nil result is always a
// *domain.ValidationError carrying the message to show the operator.
func ValidateSale(s entity.Sale, stock map[string]int, prevQty int) error {
	switch {
	case s.Date == "":
		return domain.Validationf("date is required")
	case s.ClientOrTx == "":
		return domain.Validationf("customer label is required")
	case s.ProductRef == "":
		return domain.Validationf("product reference is required")
	case s.Category == "":
		return domain.Validationf("category is required")
	}
	if !KnownChannel(s.Channel) {
		return domain.Validationf("unknown sales channel %q", s.Channel)
	}
	if !KnownPaymentMethod(s.PaymentMethod) {
		return domain.Validationf("unknown payment method %q", s.PaymentMethod)
	}
	if s.Quantity <= 0 {
		return domain.Validationf("quantity must be greater than zero")
	}
	if PowerRequired(s.Channel, s.Category) && (s.PowerWp == nil || s.PowerWp.LessThanOrEqual(decimal.Zero)) {
		return domain.Validationf("power rating (Wc) is required for %s listings in category %s", s.Channel, s.Category)
	}
	return stockledger.CheckAvailability(stock, s.ProductRef, s.Quantity, prevQty)
}
