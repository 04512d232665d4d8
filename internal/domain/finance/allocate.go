package finance

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AllocateByWeight splits a shared monetary total across len(weights) lines
// proportionally to each weight, exact to the cent. A naive per-line division
// drifts by rounding error when summed; this works in integer cents and hands
// the leftover cents to the lines with the largest fractional remainder
// (largest-remainder method), ties broken by original line order.
//
// Negative weights count as zero; an all-zero weight vector falls back to an
// equal split. For any nonnegative total, the allocations sum to exactly
// Round2(total).
func AllocateByWeight(total decimal.Decimal, weights []decimal.Decimal) []decimal.Decimal {
	n := len(weights)
	if n == 0 {
		return nil
	}

	out := make([]decimal.Decimal, n)
	totalCents := Round2(total).Shift(2).IntPart()
	if totalCents == 0 {
		for i := range out {
			out[i] = decimal.Zero
		}
		return out
	}

	clamped := make([]decimal.Decimal, n)
	sum := decimal.Zero
	for i, w := range weights {
		if w.IsNegative() {
			w = decimal.Zero
		}
		clamped[i] = w
		sum = sum.Add(w)
	}
	if sum.IsZero() {
		// No usable weights: split equally.
		for i := range clamped {
			clamped[i] = decimal.NewFromInt(1)
		}
		sum = decimal.NewFromInt(int64(n))
	}

	// Exact proportional shares: quotient and remainder against the weight
	// sum, so no division precision ever skews a floor or a tie.
	totalDec := decimal.NewFromInt(totalCents)
	cents := make([]int64, n)
	remainders := make([]decimal.Decimal, n)
	var floored int64
	for i, w := range clamped {
		q, r := totalDec.Mul(w).QuoRem(sum, 0)
		cents[i] = q.IntPart()
		remainders[i] = r
		floored += cents[i]
	}

	// Hand out the leftover cents, largest remainder first, first index wins
	// on ties (SliceStable keeps the original order for equal remainders).
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})
	for k := 0; int64(k) < totalCents-floored; k++ {
		cents[order[k]]++
	}

	for i, c := range cents {
		out[i] = decimal.NewFromInt(c).Shift(-2)
	}
	return out
}

// LineWeights computes the economic weight of each order line: quantity times
// unit sell price, or quantity alone when that product is zero for every
// line (e.g. an order of free samples with real shipping).
func LineWeights(quantities []int, unitPrices []decimal.Decimal) []decimal.Decimal {
	weights := make([]decimal.Decimal, len(quantities))
	allZero := true
	for i, qty := range quantities {
		weights[i] = unitPrices[i].Mul(decimal.NewFromInt(int64(qty)))
		if !weights[i].IsZero() {
			allZero = false
		}
	}
	if allZero {
		for i, qty := range quantities {
			weights[i] = decimal.NewFromInt(int64(qty))
		}
	}
	return weights
}
