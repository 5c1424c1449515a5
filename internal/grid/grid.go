// =============================================================================
// Stocktake - Tabular Buffer
// =============================================================================
//
// This module holds the in-memory grid of string cells mirroring the imported
// sheet. It is the single source of truth for raw values: every other
// component (column mapping, material index, export) reads from and writes
// through this buffer.
//
// LAYOUT:
//   - Row 0 is the header row. It is stored exactly like any data row; only
//     the consumers treat it differently.
//   - Rows are independently sized. Imported sheets are frequently ragged
//     (trailing empty cells are dropped by the codec), so every access is
//     bounds-checked per row and out-of-range reads return "".
//
// =============================================================================

package grid

// Buffer is a mutable grid of string cells. Values are stored untyped;
// numeric interpretation happens at read time in the consumers, never here.
type Buffer struct {
	rows [][]string
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{}
}

// Load replaces the buffer contents wholesale, discarding any prior state.
// The input is copied so later mutation of the caller's slices cannot alias
// the buffer.
func (b *Buffer) Load(rows [][]string) {
	b.rows = make([][]string, len(rows))
	for i, row := range rows {
		b.rows[i] = make([]string, len(row))
		copy(b.rows[i], row)
	}
}

// Clear discards all rows.
func (b *Buffer) Clear() {
	b.rows = nil
}

// RowCount returns the number of rows, including the header row.
func (b *Buffer) RowCount() int {
	return len(b.rows)
}

// DataRowCount returns the number of data rows (everything below the header).
func (b *Buffer) DataRowCount() int {
	if len(b.rows) == 0 {
		return 0
	}
	return len(b.rows) - 1
}

// ColumnCount returns the width of the header row. Data rows may be shorter
// or longer; the header defines the logical column space.
func (b *Buffer) ColumnCount() int {
	if len(b.rows) == 0 {
		return 0
	}
	return len(b.rows[0])
}

// Get returns the cell at (row, col), or "" if either index is out of range.
// Reads never fail.
func (b *Buffer) Get(row, col int) string {
	if row < 0 || row >= len(b.rows) {
		return ""
	}
	r := b.rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Has reports whether the cell at (row, col) physically exists in the grid.
// A short data row does not contain cells for trailing columns.
func (b *Buffer) Has(row, col int) bool {
	if row < 0 || row >= len(b.rows) {
		return false
	}
	return col >= 0 && col < len(b.rows[row])
}

// Set writes value at (row, col). The row is padded with empty cells if it is
// shorter than col+1, so writes to a mapped column always land even on ragged
// rows. Writes to rows that do not exist are dropped.
func (b *Buffer) Set(row, col int, value string) {
	if row < 0 || row >= len(b.rows) || col < 0 {
		return
	}
	for len(b.rows[row]) <= col {
		b.rows[row] = append(b.rows[row], "")
	}
	b.rows[row][col] = value
}

// Header returns a copy of the header row, or nil when the buffer is empty.
func (b *Buffer) Header() []string {
	if len(b.rows) == 0 {
		return nil
	}
	h := make([]string, len(b.rows[0]))
	copy(h, b.rows[0])
	return h
}

// AppendColumn extends the grid by one trailing column. The header row gets
// headerValue, every data row gets an empty cell. Returns the index of the
// new column. On an empty buffer the header row is created.
func (b *Buffer) AppendColumn(headerValue string) int {
	if len(b.rows) == 0 {
		b.rows = [][]string{{headerValue}}
		return 0
	}
	col := len(b.rows[0])
	b.Set(0, col, headerValue)
	for i := 1; i < len(b.rows); i++ {
		b.Set(i, col, "")
	}
	return col
}

// Rows returns a deep copy of all rows, in order. Used by the export path,
// which must not observe later edits.
func (b *Buffer) Rows() [][]string {
	out := make([][]string, len(b.rows))
	for i, row := range b.rows {
		out[i] = make([]string, len(row))
		copy(out[i], row)
	}
	return out
}
