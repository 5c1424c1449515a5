// =============================================================================
// Stocktake - Material Index
// =============================================================================
//
// The index derives one Item per data row from the tabular buffer via the
// confirmed column mapping and keeps the live fields in sync with it.
//
// LIFECYCLE:
//   Build is the only constructor. Rebuilding (after remap, re-import or
//   clear) discards every prior Item identity, which is why edits are always
//   written through to the buffer immediately and never held only in the
//   item.
//
// WRITE-THROUGH:
//   SetPhysicalQty and SetRemarks update the item and the backing buffer cell
//   in the same call, then fire the dirty callback so the owner can arm its
//   autosave timer.
//
// =============================================================================

package materials

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/auditgrid/stocktake/internal/grid"
	"github.com/auditgrid/stocktake/internal/mapping"
)

// Issue flags a cell whose numeric interpretation silently defaulted to zero.
// The computation keeps the zero default; the issue exists so the problem is
// visible instead of guessed away.
type Issue struct {
	RowIndex int
	Code     string
	Field    string // "system qty" or "rate"
	Raw      string
}

// Index owns the set of MaterialItems for the current buffer and mapping.
type Index struct {
	buf     *grid.Buffer
	mapping mapping.Mapping
	items   []*Item
	byRow   map[int]*Item
	issues  []Issue
	onDirty func()
}

// Build constructs the index from the buffer and a confirmed mapping. Data
// rows (index >= 1) whose code cell is absent or blank are skipped. onDirty,
// if non-nil, is invoked after every live-field mutation.
func Build(buf *grid.Buffer, m mapping.Mapping, onDirty func()) *Index {
	idx := &Index{
		buf:     buf,
		mapping: m,
		byRow:   make(map[int]*Item),
		onDirty: onDirty,
	}

	codeCol, _ := m.Column(mapping.Code)
	for row := 1; row < buf.RowCount(); row++ {
		code := strings.TrimSpace(buf.Get(row, codeCol))
		if code == "" {
			continue
		}

		it := &Item{
			RowIndex:    row,
			Code:        code,
			Description: idx.cell(row, mapping.Description),
			UOM:         idx.cell(row, mapping.UOM),
			PhysicalQty: idx.cell(row, mapping.PhysicalQty),
			Remarks:     idx.cell(row, mapping.Remarks),
		}

		rawQty := idx.cell(row, mapping.SystemQty)
		qty, ok := ParseNumber(rawQty)
		it.SystemQuantity = qty
		it.SystemQtyParsed = ok || strings.TrimSpace(rawQty) == ""
		if !it.SystemQtyParsed {
			idx.issues = append(idx.issues, Issue{RowIndex: row, Code: code, Field: "system qty", Raw: rawQty})
		}

		rawRate := idx.cell(row, mapping.Rate)
		rate, ok := ParseNumber(rawRate)
		it.Rate = decimal.NewFromFloat(rate)
		it.RateParsed = ok || strings.TrimSpace(rawRate) == ""
		if !it.RateParsed {
			idx.issues = append(idx.issues, Issue{RowIndex: row, Code: code, Field: "rate", Raw: rawRate})
		}

		idx.items = append(idx.items, it)
		idx.byRow[row] = it
	}

	return idx
}

// cell reads the mapped cell for role on the given row, or "" when the role
// is unmapped or the row is too short.
func (idx *Index) cell(row int, role mapping.Role) string {
	col, ok := idx.mapping.Column(role)
	if !ok {
		return ""
	}
	return idx.buf.Get(row, col)
}

// Items returns the items in buffer row order. The slice is shared; callers
// must not reorder it.
func (idx *Index) Items() []*Item {
	return idx.items
}

// Len returns the number of items.
func (idx *Index) Len() int {
	return len(idx.items)
}

// ByRow returns the item backed by the given buffer row, if any.
func (idx *Index) ByRow(row int) (*Item, bool) {
	it, ok := idx.byRow[row]
	return it, ok
}

// QualityIssues returns the numeric cells that defaulted to zero during the
// build, in row order.
func (idx *Index) QualityIssues() []Issue {
	return idx.issues
}

// SetPhysicalQty updates the item's counted quantity and writes the value
// through to the buffer at the mapped column.
func (idx *Index) SetPhysicalQty(it *Item, value string) {
	it.PhysicalQty = value
	idx.writeThrough(it.RowIndex, mapping.PhysicalQty, value)
	idx.markDirty()
}

// SetRemarks updates the item's remarks and writes the value through to the
// buffer at the mapped column.
func (idx *Index) SetRemarks(it *Item, value string) {
	it.Remarks = value
	idx.writeThrough(it.RowIndex, mapping.Remarks, value)
	idx.markDirty()
}

func (idx *Index) writeThrough(row int, role mapping.Role, value string) {
	if col, ok := idx.mapping.Column(role); ok {
		idx.buf.Set(row, col, value)
	}
}

func (idx *Index) markDirty() {
	if idx.onDirty != nil {
		idx.onDirty()
	}
}
