package mapping

import (
	"errors"
	"testing"

	"github.com/auditgrid/stocktake/internal/grid"
)

func TestDetect(t *testing.T) {
	headers := []string{"SAP Code", "Material Description", "Book Qty", "UOM", "Rate (INR)", "Counted", "Auditor Notes"}
	m := Detect(headers)

	tests := []struct {
		role     Role
		expected int
	}{
		{Code, 0},
		{Description, 1},
		{SystemQty, 2},
		{UOM, 3},
		{Rate, 4},
		{PhysicalQty, 5}, // "counted" contains "count"
		{Remarks, 6},     // "auditor notes" contains "note"
	}

	for _, tt := range tests {
		col, ok := m.Column(tt.role)
		if !ok {
			t.Errorf("%s: not detected, expected column %d", tt.role, tt.expected)
			continue
		}
		if col != tt.expected {
			t.Errorf("%s: detected column %d, expected %d", tt.role, col, tt.expected)
		}
	}
}

func TestDetectFirstColumnWins(t *testing.T) {
	// Both headers contain code keywords; the leftmost column must win.
	m := Detect([]string{"Item No", "Old Code"})
	col, ok := m.Column(Code)
	if !ok || col != 0 {
		t.Errorf("Code detected at %d (ok=%v), expected 0", col, ok)
	}
}

func TestDetectUnmatchedRoleIsIgnored(t *testing.T) {
	m := Detect([]string{"Code", "Qty"})
	if _, ok := m.Column(Rate); ok {
		t.Error("Rate should not be detected without a matching header")
	}
	if _, ok := m.Column(UOM); ok {
		t.Error("UOM should not be detected without a matching header")
	}
}

func TestConfirmRejectsIncomplete(t *testing.T) {
	buf := grid.New()
	buf.Load([][]string{{"Code", "Desc"}, {"A1", "Widget"}})

	m := New()
	m.Set(Code, 0) // SystemQty missing

	before := buf.ColumnCount()
	if _, err := Confirm(buf, m); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("Confirm error = %v, expected ErrIncomplete", err)
	}
	if buf.ColumnCount() != before {
		t.Error("failed confirmation must not mutate the buffer")
	}
}

func TestConfirmAppendsMissingColumns(t *testing.T) {
	buf := grid.New()
	buf.Load([][]string{
		{"Code", "Qty"},
		{"A1", "10"},
	})

	m := New()
	m.Set(Code, 0)
	m.Set(SystemQty, 1)

	applied, err := Confirm(buf, m)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	phyCol, ok := applied.Column(PhysicalQty)
	if !ok || phyCol != 2 {
		t.Errorf("PhysicalQty bound to %d (ok=%v), expected 2", phyCol, ok)
	}
	remCol, ok := applied.Column(Remarks)
	if !ok || remCol != 3 {
		t.Errorf("Remarks bound to %d (ok=%v), expected 3", remCol, ok)
	}
	if got := buf.Get(0, phyCol); got != "Physical Qty" {
		t.Errorf("appended header = %q, expected %q", got, "Physical Qty")
	}
	if got := buf.Get(0, remCol); got != "Remarks" {
		t.Errorf("appended header = %q, expected %q", got, "Remarks")
	}
	if !buf.Has(1, remCol) {
		t.Error("data row missing cell in appended column")
	}
}

func TestConfirmKeepsExistingColumns(t *testing.T) {
	buf := grid.New()
	buf.Load([][]string{
		{"Code", "Qty", "Phy Qty", "Remarks"},
		{"A1", "10", "", ""},
	})

	m := Detect(buf.Header())
	applied, err := Confirm(buf, m)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if buf.ColumnCount() != 4 {
		t.Errorf("ColumnCount() = %d, expected 4 (no columns should be appended)", buf.ColumnCount())
	}
	if col, _ := applied.Column(PhysicalQty); col != 2 {
		t.Errorf("PhysicalQty column = %d, expected 2", col)
	}
}

func TestConfirmAllowsDuplicateColumns(t *testing.T) {
	buf := grid.New()
	buf.Load([][]string{{"Code"}, {"A1"}})

	m := New()
	m.Set(Code, 0)
	m.Set(SystemQty, 0) // deliberately the same column

	if _, err := Confirm(buf, m); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
}
