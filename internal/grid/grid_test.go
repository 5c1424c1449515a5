package grid

import "testing"

func TestGetOutOfRange(t *testing.T) {
	b := New()
	b.Load([][]string{
		{"Code", "Qty"},
		{"A1"},
	})

	tests := []struct {
		name     string
		row, col int
		expected string
	}{
		{"in range", 0, 1, "Qty"},
		{"ragged row", 1, 1, ""},
		{"negative row", -1, 0, ""},
		{"negative col", 0, -1, ""},
		{"row past end", 5, 0, ""},
		{"col past end", 0, 9, ""},
	}

	for _, tt := range tests {
		if got := b.Get(tt.row, tt.col); got != tt.expected {
			t.Errorf("%s: Get(%d, %d) = %q, expected %q", tt.name, tt.row, tt.col, got, tt.expected)
		}
	}
}

func TestSetPadsRaggedRow(t *testing.T) {
	b := New()
	b.Load([][]string{
		{"Code", "Qty", "Remarks"},
		{"A1"},
	})

	b.Set(1, 2, "checked")

	if got := b.Get(1, 2); got != "checked" {
		t.Errorf("Get(1, 2) = %q, expected %q", got, "checked")
	}
	// The intermediate cell must exist and be empty.
	if !b.Has(1, 1) {
		t.Error("expected cell (1, 1) to exist after padding")
	}
	if got := b.Get(1, 1); got != "" {
		t.Errorf("Get(1, 1) = %q, expected empty", got)
	}
}

func TestSetIgnoresMissingRow(t *testing.T) {
	b := New()
	b.Load([][]string{{"Code"}})

	b.Set(3, 0, "x")

	if b.RowCount() != 1 {
		t.Errorf("RowCount() = %d, expected 1", b.RowCount())
	}
}

func TestAppendColumn(t *testing.T) {
	b := New()
	b.Load([][]string{
		{"Code", "Qty"},
		{"A1", "10"},
		{"A2"},
	})

	col := b.AppendColumn("Physical Qty")

	if col != 2 {
		t.Errorf("AppendColumn returned %d, expected 2", col)
	}
	if got := b.Get(0, col); got != "Physical Qty" {
		t.Errorf("header cell = %q, expected %q", got, "Physical Qty")
	}
	for row := 1; row < b.RowCount(); row++ {
		if !b.Has(row, col) {
			t.Errorf("row %d missing cell in appended column", row)
		}
		if got := b.Get(row, col); got != "" {
			t.Errorf("row %d appended cell = %q, expected empty", row, got)
		}
	}
}

func TestLoadReplacesWholesale(t *testing.T) {
	b := New()
	b.Load([][]string{{"Old", "Header"}, {"x", "y"}})
	b.Load([][]string{{"New"}})

	if b.RowCount() != 1 {
		t.Errorf("RowCount() = %d, expected 1", b.RowCount())
	}
	if b.ColumnCount() != 1 {
		t.Errorf("ColumnCount() = %d, expected 1", b.ColumnCount())
	}
}

func TestLoadCopiesInput(t *testing.T) {
	src := [][]string{{"Code"}, {"A1"}}
	b := New()
	b.Load(src)

	src[1][0] = "mutated"

	if got := b.Get(1, 0); got != "A1" {
		t.Errorf("Get(1, 0) = %q, expected %q (buffer must not alias caller slices)", got, "A1")
	}
}

func TestRowsReturnsCopy(t *testing.T) {
	b := New()
	b.Load([][]string{{"Code"}, {"A1"}})

	rows := b.Rows()
	rows[1][0] = "mutated"

	if got := b.Get(1, 0); got != "A1" {
		t.Errorf("Get(1, 0) = %q, expected %q after mutating snapshot", got, "A1")
	}
}
