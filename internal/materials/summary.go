package materials

// summary.go derives the aggregate audit figures. Everything here is a pure
// pass over the current items, recomputed on demand; item counts are bounded
// by spreadsheet size so caching would buy nothing.

import "github.com/shopspring/decimal"

// Summary holds the aggregate statistics for the current index.
type Summary struct {
	TotalItems    int
	VerifiedCount int
	ShortageCount int
	ExcessCount   int

	// TotalShortageValue is the sum of |variance value| over items with a
	// negative variance; TotalExcessValue the sum of variance value over
	// items with a positive one. Both are reported as positive amounts.
	TotalShortageValue decimal.Decimal
	TotalExcessValue   decimal.Decimal

	// UnparseableCount is the number of numeric cells that silently
	// defaulted to zero during the index build.
	UnparseableCount int
}

// Summarize computes the aggregate figures for a set of items.
func Summarize(items []*Item) Summary {
	sum := Summary{
		TotalItems:         len(items),
		TotalShortageValue: decimal.Zero,
		TotalExcessValue:   decimal.Zero,
	}

	for _, it := range items {
		if it.IsVerified() {
			sum.VerifiedCount++
		}
		if !it.SystemQtyParsed {
			sum.UnparseableCount++
		}
		if !it.RateParsed {
			sum.UnparseableCount++
		}

		switch v := it.Variance(); {
		case v < 0:
			sum.ShortageCount++
			sum.TotalShortageValue = sum.TotalShortageValue.Add(it.VarianceValue().Abs())
		case v > 0:
			sum.ExcessCount++
			sum.TotalExcessValue = sum.TotalExcessValue.Add(it.VarianceValue())
		}
	}

	return sum
}
