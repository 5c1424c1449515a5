// =============================================================================
// Stocktake - Material Item
// =============================================================================
//
// One Item exists per data row with a non-empty material code. The code,
// description, UOM, system quantity and rate are snapshots captured when the
// index is built: system figures are a frozen baseline for the audit session
// and are never re-read from the buffer. Only PhysicalQty and Remarks are
// live, and every mutation of those is written through to the buffer by the
// index so the two representations cannot diverge.
//
// =============================================================================

package materials

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Item is one auditable material record.
type Item struct {
	// RowIndex is the back-reference into the tabular buffer. It is a
	// relation, not ownership; the buffer outlives the item.
	RowIndex int

	// Snapshot fields, captured at index build time.
	Code        string
	Description string
	UOM         string

	// SystemQuantity is the book quantity, parsed once at build time.
	// Commas are stripped before parsing; failures default to 0 and clear
	// SystemQtyParsed so data-quality reporting can surface them.
	SystemQuantity  float64
	SystemQtyParsed bool

	// Rate is the unit value, parsed once at build time under the same
	// rules as SystemQuantity.
	Rate       decimal.Decimal
	RateParsed bool

	// Live fields, user-editable. Mutate only through Index.SetPhysicalQty
	// and Index.SetRemarks so the buffer stays in sync.
	PhysicalQty string
	Remarks     string
}

// PhysicalQuantity returns the numeric interpretation of the counted
// quantity: 0 when empty or unparseable.
func (it *Item) PhysicalQuantity() float64 {
	v, _ := ParseNumber(it.PhysicalQty)
	return v
}

// Variance is the counted quantity minus the book quantity.
func (it *Item) Variance() float64 {
	return it.PhysicalQuantity() - it.SystemQuantity
}

// VarianceValue is the variance priced at the item's rate.
func (it *Item) VarianceValue() decimal.Decimal {
	return decimal.NewFromFloat(it.Variance()).Mul(it.Rate)
}

// IsVerified reports whether a physical count has been entered. An explicit
// "0" counts as verified; only the empty string does not.
func (it *Item) IsVerified() bool {
	return it.PhysicalQty != ""
}

// ParseNumber parses a cell value as a floating point number. Thousand
// separator commas are stripped first. Returns (0, false) for empty or
// unparseable input; callers never see an error.
func ParseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
