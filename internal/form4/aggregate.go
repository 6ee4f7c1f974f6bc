package form4

import (
	"time"

	"github.com/shopspring/decimal"

	"insider-data/internal/model"
)

// groupKey identifies one economic intent inside a filing. The date is the
// zero time when adjacent-date combining is enabled, folding all dates of
// one (type, sign) pair into a single group.
type groupKey struct {
	tradeType string
	acquired  bool
	date      time.Time
}

// Aggregate combines a filing's trade legs into summary transactions, one
// per (trade type, direction[, trade date]) group. Groups are emitted in
// first-seen order so repeated runs over the same filing produce identical
// output.
func Aggregate(legs []TradeLeg, combineDates bool) []model.Transaction {
	if len(legs) == 0 {
		return nil
	}

	var order []groupKey
	groups := make(map[groupKey][]TradeLeg)
	for _, leg := range legs {
		k := groupKey{tradeType: leg.TradeType, acquired: leg.Acquired}
		if !combineDates {
			k.date = leg.TradeDate
		}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], leg)
	}

	out := make([]model.Transaction, 0, len(order))
	for _, k := range order {
		out = append(out, summarize(groups[k], combineDates))
	}
	return out
}

func summarize(legs []TradeLeg, combineDates bool) model.Transaction {
	first := legs[0]

	var qty int64
	notional := decimal.Zero    // signed Σ price·qty
	absWeighted := decimal.Zero // Σ price·|qty|
	earliest := first.TradeDate
	for _, leg := range legs {
		q := decimal.NewFromInt(leg.Qty)
		notional = notional.Add(leg.Price.Mul(q))
		absWeighted = absWeighted.Add(leg.Price.Mul(q.Abs()))
		qty += leg.Qty
		if leg.TradeDate.Before(earliest) {
			earliest = leg.TradeDate
		}
	}

	price := decimal.Zero
	if qty != 0 {
		absQty := qty
		if absQty < 0 {
			absQty = -absQty
		}
		price = roundHalfAwayFromZero(absWeighted.Div(decimal.NewFromInt(absQty)), 2)
	}
	// Value is rounded from the unrounded notional, not recomputed from the
	// rounded average price.
	value := roundHalfAwayFromZero(notional, 0)

	tradeDate := first.TradeDate
	marker := first.Marker
	if len(legs) > 1 {
		marker += "M"
		if combineDates {
			tradeDate = earliest
		}
	}

	return model.Transaction{
		Marker:       marker,
		FilingDate:   first.FilingDate,
		TradeDate:    tradeDate,
		Ticker:       first.Ticker,
		InsiderName:  first.InsiderName,
		InsiderTitle: first.InsiderTitle,
		TradeType:    first.TradeType,
		Price:        price,
		Qty:          qty,
		Value:        value,
		Accession:    first.Accession,
	}
}

var half = decimal.New(5, -1)

// roundHalfAwayFromZero rounds to the given number of decimal places with
// ties going outward from zero: 2.345 at 2 places is 2.35, -2.345 is -2.35.
func roundHalfAwayFromZero(d decimal.Decimal, places int32) decimal.Decimal {
	shifted := d.Shift(places)
	whole := shifted.Truncate(0)
	frac := shifted.Sub(whole).Abs()
	if frac.Cmp(half) >= 0 {
		one := decimal.NewFromInt(1)
		if shifted.IsNegative() {
			whole = whole.Sub(one)
		} else {
			whole = whole.Add(one)
		}
	}
	return whole.Shift(-places)
}
