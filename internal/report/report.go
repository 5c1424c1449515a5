// =============================================================================
// Stocktake - Audit Report Layout
// =============================================================================
//
// Assembles the rows of the exported verification report. The layout is
// fixed and order matters: a title block, the buffer contents verbatim, and
// (when the audit produced any items) the summary statistics block. The
// actual spreadsheet encoding is the codec's job; this module only decides
// what goes on which row.
//
// =============================================================================

package report

import (
	"strconv"
	"time"

	"github.com/auditgrid/stocktake/internal/grid"
	"github.com/auditgrid/stocktake/internal/materials"
)

// Title is the first row of every report.
const Title = "PHYSICAL STOCK VERIFICATION REPORT"

// Rows assembles the full report row set:
//
//	title, file name, date, blank,
//	every buffer row verbatim,
//	blank, "SUMMARY STATISTICS", six (label, value) rows
//
// The summary block is omitted when the audit has no items.
func Rows(fileName string, date time.Time, buf *grid.Buffer, sum materials.Summary) [][]string {
	rows := [][]string{
		{Title},
		{"File:", fileName},
		{"Date:", date.Format("02-Jan-2006")},
		{},
	}

	rows = append(rows, buf.Rows()...)

	if sum.TotalItems > 0 {
		rows = append(rows,
			[]string{},
			[]string{"SUMMARY STATISTICS"},
			[]string{"Total Items", strconv.Itoa(sum.TotalItems)},
			[]string{"Verified Items", strconv.Itoa(sum.VerifiedCount)},
			[]string{"Shortage Count", strconv.Itoa(sum.ShortageCount)},
			[]string{"Excess Count", strconv.Itoa(sum.ExcessCount)},
			[]string{"Total Shortage Value", sum.TotalShortageValue.StringFixed(2)},
			[]string{"Total Excess Value", sum.TotalExcessValue.StringFixed(2)},
		)
	}

	return rows
}
