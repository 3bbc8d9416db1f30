package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitbill/internal/models"
)

var hundred = decimal.NewFromInt(100)

// shareScale is the number of decimal places item shares are carried to.
const shareScale = 16

var shareUnit = decimal.New(1, -shareScale)

// CalculateSubtotal sums price × quantity over items that have at least one
// assignee. Unassigned items contribute nothing.
func CalculateSubtotal(items []models.Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		if !item.IsAssigned() {
			continue
		}
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// splitLine divides total into n shares carried to shareScale places. The
// quotient is truncated and the leftover smallest units go to the first
// shares, so the shares always add back to total.
func splitLine(total decimal.Decimal, n int) []decimal.Decimal {
	q, r := total.QuoRem(decimal.NewFromInt(int64(n)), shareScale)
	leftover := r.Shift(shareScale).IntPart()
	shares := make([]decimal.Decimal, n)
	for i := range shares {
		shares[i] = q
		if int64(i) < leftover {
			shares[i] = q.Add(shareUnit)
		}
	}
	return shares
}

// CalculateTax computes tax on subtotal in one of two modes:
//   - taxIncluded: the tax part of an already tax-inclusive amount,
//     subtotal × rate / (100 + rate). Informational only.
//   - otherwise: subtotal × rate / 100, to be added to the total.
func CalculateTax(subtotal decimal.Decimal, taxPercent float64, taxIncluded bool) decimal.Decimal {
	rate := decimal.NewFromFloat(taxPercent)
	if !rate.IsPositive() {
		return decimal.Zero
	}
	if taxIncluded {
		return subtotal.Mul(rate).Div(hundred.Add(rate))
	}
	return subtotal.Mul(rate).Div(hundred)
}

// PreTaxBase returns the part of subtotal that excludes tax.
func PreTaxBase(subtotal decimal.Decimal, cfg models.BillConfig) decimal.Decimal {
	if !cfg.TaxIncluded {
		return subtotal
	}
	rate := decimal.NewFromFloat(cfg.TaxPercent)
	if !rate.IsPositive() {
		return subtotal
	}
	return subtotal.Mul(hundred).Div(hundred.Add(rate))
}

// CalculateTip returns the bill tip. A fixed tip is used as-is; a percentage
// tip is taken on the pre-tax base and rounded up to the next 100.
func CalculateTip(subtotal decimal.Decimal, cfg models.BillConfig) decimal.Decimal {
	if cfg.TipType == models.TipFixed {
		return decimal.NewFromInt(cfg.TipAmount)
	}
	rate := decimal.NewFromFloat(cfg.TipPercent)
	if !rate.IsPositive() {
		return decimal.Zero
	}
	return RoundUpTo100(PreTaxBase(subtotal, cfg).Mul(rate).Div(hundred))
}

// CalculateTotal adds the tip, and the tax when prices exclude it.
func CalculateTotal(subtotal, tax, tip decimal.Decimal, taxIncluded bool) decimal.Decimal {
	if taxIncluded {
		return subtotal.Add(tip)
	}
	return subtotal.Add(tax).Add(tip)
}

// CalculateSplit computes each person's share of the bill.
//
// Algorithm:
//   - every assigned item is split equally among its assignees; the shares
//     of one item always add back to its line total
//   - person tax uses CalculateTax on the person's own subtotal
//   - person tip = bill tip × person subtotal / bill subtotal (0 when the
//     bill subtotal is 0)
//
// The result follows snap.People order and includes people with no items.
func CalculateSplit(snap models.Snapshot) []models.PersonSplit {
	cfg := snap.Config
	subtotal := CalculateSubtotal(snap.Items)
	tip := CalculateTip(subtotal, cfg)

	splits := make([]models.PersonSplit, len(snap.People))
	index := make(map[string]int, len(snap.People))
	for i, p := range snap.People {
		splits[i] = models.PersonSplit{
			Person:   p,
			Subtotal: decimal.Zero,
			Items:    []models.ItemShare{},
		}
		index[p.ID] = i
	}

	// Calculate each person's subtotal based on assigned items
	for _, item := range snap.Items {
		if !item.IsAssigned() {
			continue
		}
		shares := splitLine(item.LineTotal(), len(item.AssignedTo))
		for k, pid := range item.AssignedTo {
			i, ok := index[pid]
			if !ok {
				continue
			}
			share := shares[k]
			splits[i].Subtotal = splits[i].Subtotal.Add(share)
			splits[i].Items = append(splits[i].Items, models.ItemShare{Item: item, Share: share})
		}
	}

	for i := range splits {
		split := &splits[i]
		split.Tax = CalculateTax(split.Subtotal, cfg.TaxPercent, cfg.TaxIncluded)
		if subtotal.IsPositive() {
			split.Tip = tip.Mul(split.Subtotal).Div(subtotal)
		} else {
			split.Tip = decimal.Zero
		}
		split.Total = CalculateTotal(split.Subtotal, split.Tax, split.Tip, cfg.TaxIncluded)
	}

	return splits
}

// Summarize computes the bill-wide amounts and the per-person split for snap.
// It has no side effects; the same snapshot always yields the same summary.
func Summarize(snap models.Snapshot) models.BillSummary {
	cfg := snap.Config
	subtotal := CalculateSubtotal(snap.Items)
	tax := CalculateTax(subtotal, cfg.TaxPercent, cfg.TaxIncluded)
	tip := CalculateTip(subtotal, cfg)
	total := CalculateTotal(subtotal, tax, tip, cfg.TaxIncluded)

	return models.BillSummary{
		Subtotal:     subtotal,
		Tax:          tax,
		Tip:          tip,
		Total:        total,
		DisplayTotal: RoundTo100(total),
		PerPerson:    CalculateSplit(snap),
	}
}
