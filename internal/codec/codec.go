// =============================================================================
// Stocktake - Spreadsheet Codec
// =============================================================================
//
// The codec is the boundary to the binary spreadsheet formats. The core is
// agnostic to them: Decode turns a file into a plain grid of strings and
// Encode writes a grid back out. Only the first non-empty sheet of a
// workbook is imported; multi-sheet audits are out of scope.
//
// SUPPORTED FORMATS:
//   - .xlsx via excelize (read and write)
//   - .csv via encoding/csv (read only, for book-stock exports that arrive
//     as plain CSV)
//
// =============================================================================

package codec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrNoSheets means the workbook contains no sheets at all.
	ErrNoSheets = errors.New("workbook contains no sheets")

	// ErrEmptySheet means no sheet contains a single non-empty cell.
	ErrEmptySheet = errors.New("workbook contains no non-empty sheet")
)

// Decode reads the spreadsheet at path into a grid of raw string values.
// The format is chosen by extension; anything that is not .csv is treated
// as a workbook.
func Decode(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return decodeCSV(path)
	}
	return decodeXLSX(path)
}

// decodeXLSX returns the rows of the first sheet that has any non-empty
// cell. Every cell value arrives as its string form; numeric interpretation
// is the consumers' concern.
func decodeXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		if hasContent(rows) {
			return rows, nil
		}
	}
	return nil, ErrEmptySheet
}

// decodeCSV reads a CSV file as a ragged grid. Rows are allowed to have
// differing field counts, matching how the buffer treats imported rows.
func decodeCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv file: %w", err)
	}
	if !hasContent(rows) {
		return nil, ErrEmptySheet
	}
	return rows, nil
}

// Encode writes rows to an .xlsx workbook at path. Cells whose value parses
// as a number are written as numeric so the report stays usable for
// spreadsheet arithmetic; everything else is written as text.
func Encode(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("bad cell coordinates (%d, %d): %w", r, c, err)
			}
			if num, ok := asNumber(value); ok {
				if err := f.SetCellValue(sheet, cell, num); err != nil {
					return fmt.Errorf("failed to write cell %s: %w", cell, err)
				}
			} else if value != "" {
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return fmt.Errorf("failed to write cell %s: %w", cell, err)
				}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// hasContent reports whether any cell in rows is non-blank.
func hasContent(rows [][]string) bool {
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return true
			}
		}
	}
	return false
}

// asNumber parses a plain numeric cell value. Unlike the audit parsers this
// does not strip commas: "1,250" in the buffer is preserved verbatim as text
// in the report.
func asNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
