package materials

import (
	"testing"

	"github.com/auditgrid/stocktake/internal/grid"
	"github.com/auditgrid/stocktake/internal/mapping"
)

// auditGrid builds a buffer with the canonical seven-column layout and a
// fully confirmed mapping over it.
func auditGrid(t *testing.T, dataRows ...[]string) (*grid.Buffer, mapping.Mapping) {
	t.Helper()
	rows := [][]string{
		{"Item Code", "Description", "Book Qty", "UOM", "Rate", "Physical Qty", "Remarks"},
	}
	rows = append(rows, dataRows...)

	buf := grid.New()
	buf.Load(rows)

	m, err := mapping.Confirm(buf, mapping.Detect(buf.Header()))
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	return buf, m
}

func TestBuildSkipsEmptyCodeRows(t *testing.T) {
	buf, m := auditGrid(t,
		[]string{"A1", "Widget", "10", "PCS", "5", "", ""},
		[]string{"  ", "No code", "3", "PCS", "1", "", ""},
		[]string{"A3", "Gadget", "7", "PCS", "2", "", ""},
	)

	idx := Build(buf, m, nil)

	if idx.Len() != 2 {
		t.Fatalf("Len() = %d, expected 2", idx.Len())
	}
	if idx.Items()[0].Code != "A1" || idx.Items()[1].Code != "A3" {
		t.Errorf("item codes = [%s, %s], expected [A1, A3]",
			idx.Items()[0].Code, idx.Items()[1].Code)
	}
}

func TestVarianceMath(t *testing.T) {
	buf, m := auditGrid(t,
		[]string{"A1", "Widget", "100", "PCS", "5", "80", ""},
	)

	it := Build(buf, m, nil).Items()[0]

	if got := it.Variance(); got != -20 {
		t.Errorf("Variance() = %v, expected -20", got)
	}
	if got := it.VarianceValue(); !got.Equal(decimalFrom(t, "-100")) {
		t.Errorf("VarianceValue() = %s, expected -100", got)
	}
	if !it.IsVerified() {
		t.Error("item with a counted quantity must be verified")
	}
}

func TestCommaStrippedParsing(t *testing.T) {
	buf, m := auditGrid(t,
		[]string{"A1", "Widget", "1,250", "PCS", "2,000.50", "", ""},
	)

	it := Build(buf, m, nil).Items()[0]

	if it.SystemQuantity != 1250 {
		t.Errorf("SystemQuantity = %v, expected 1250", it.SystemQuantity)
	}
	if !it.Rate.Equal(decimalFrom(t, "2000.5")) {
		t.Errorf("Rate = %s, expected 2000.5", it.Rate)
	}
}

func TestUnparseableDefaultsToZeroAndIsFlagged(t *testing.T) {
	buf, m := auditGrid(t,
		[]string{"A1", "Widget", "N/A", "PCS", "abc", "", ""},
		[]string{"A2", "Gadget", "", "PCS", "", "", ""},
	)

	idx := Build(buf, m, nil)

	bad := idx.Items()[0]
	if bad.SystemQuantity != 0 || bad.SystemQtyParsed {
		t.Errorf("SystemQuantity = %v (parsed=%v), expected 0 with parsed=false",
			bad.SystemQuantity, bad.SystemQtyParsed)
	}
	if bad.RateParsed {
		t.Error("unparseable rate must clear RateParsed")
	}

	// Empty cells are genuinely-zero, not data-quality problems.
	empty := idx.Items()[1]
	if !empty.SystemQtyParsed || !empty.RateParsed {
		t.Error("empty numeric cells must not be flagged")
	}

	issues := idx.QualityIssues()
	if len(issues) != 2 {
		t.Fatalf("QualityIssues() len = %d, expected 2", len(issues))
	}
	if issues[0].Raw != "N/A" || issues[0].Field != "system qty" {
		t.Errorf("unexpected first issue: %+v", issues[0])
	}
}

func TestWriteThroughRoundTrip(t *testing.T) {
	buf, m := auditGrid(t,
		[]string{"A1", "Widget", "100", "PCS", "5", "", ""},
	)

	dirty := 0
	idx := Build(buf, m, func() { dirty++ })
	it := idx.Items()[0]

	idx.SetPhysicalQty(it, "42")
	idx.SetRemarks(it, "recount done")

	phyCol, _ := m.Column(mapping.PhysicalQty)
	remCol, _ := m.Column(mapping.Remarks)

	if got := buf.Get(it.RowIndex, phyCol); got != "42" {
		t.Errorf("buffer physical qty = %q, expected %q", got, "42")
	}
	if got := buf.Get(it.RowIndex, remCol); got != "recount done" {
		t.Errorf("buffer remarks = %q, expected %q", got, "recount done")
	}
	if dirty != 2 {
		t.Errorf("dirty callback fired %d times, expected 2", dirty)
	}
}

func TestRebuildDiscardsIdentities(t *testing.T) {
	buf, m := auditGrid(t,
		[]string{"A1", "Widget", "100", "PCS", "5", "", ""},
	)

	first := Build(buf, m, nil)
	second := Build(buf, m, nil)

	if first.Items()[0] == second.Items()[0] {
		t.Error("rebuild must produce fresh item identities")
	}
	if first.Items()[0].Code != second.Items()[0].Code {
		t.Error("rebuild over identical state must produce identical codes")
	}
	if first.Items()[0].SystemQuantity != second.Items()[0].SystemQuantity {
		t.Error("rebuild over identical state must produce identical values")
	}
}

func TestSnapshotIsFrozen(t *testing.T) {
	buf, m := auditGrid(t,
		[]string{"A1", "Widget", "100", "PCS", "5", "", ""},
	)

	idx := Build(buf, m, nil)
	it := idx.Items()[0]

	// Changing the book qty cell after the build must not affect the item.
	qtyCol, _ := m.Column(mapping.SystemQty)
	buf.Set(it.RowIndex, qtyCol, "999")

	if it.SystemQuantity != 100 {
		t.Errorf("SystemQuantity = %v, expected frozen 100", it.SystemQuantity)
	}
}
