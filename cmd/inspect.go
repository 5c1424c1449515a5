// =============================================================================
// Stocktake - Inspect Command
// =============================================================================
//
// This file defines the 'inspect' command: a read-only preview of what an
// audit over the given file would look like. It shows the detected column
// mapping, the indexed item count, data-quality findings, and whether a
// saved session would be offered for restore. Nothing is persisted.
//
// COMMAND USAGE:
//   stocktake inspect <file>
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/auditgrid/stocktake/internal/mapping"
)

// inspectCmd represents the 'inspect' command.
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Preview column detection and data quality for a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(args[0])
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(file string) error {
	cfg, err := loadRuntime()
	if err != nil {
		return err
	}

	ctrl := newController(cfg)
	if err := ctrl.Import(file); err != nil {
		return err
	}

	status := ctrl.Status()
	fmt.Printf("File: %s (%d data rows)\n", filepath.Base(file), status.Rows)
	if status.CanRestore {
		rec := ctrl.PendingRestore()
		fmt.Printf("Saved session: %d row(s) from %s (restore with 'audit --restore')\n",
			len(rec.Materials), rec.Timestamp.Format("02-Jan-2006 15:04"))
	}

	proposed := ctrl.ProposedMapping()
	fmt.Println("\nDetected columns:")
	for _, role := range mapping.AllRoles {
		if col, ok := proposed.Column(role); ok {
			fmt.Printf("  %-13s -> column %d\n", role, col+1)
		} else {
			fmt.Printf("  %-13s -> (not detected)\n", role)
		}
	}

	// Build the index in memory to surface item count and bad cells. The
	// mapping may be incomplete for odd sheets; that is a finding, not a
	// failure.
	if err := ctrl.ConfirmMapping(proposed); err != nil {
		if errors.Is(err, mapping.ErrIncomplete) {
			fmt.Println("\nCannot index: assign code and qty columns with 'audit --map'.")
			return nil
		}
		return err
	}

	fmt.Printf("\nIndexed items: %d\n", ctrl.Status().Items)
	if issues := ctrl.QualityIssues(); len(issues) > 0 {
		fmt.Printf("Unparseable numeric cells (treated as 0):\n")
		for _, is := range issues {
			fmt.Printf("  row %d (%s): %s = %q\n", is.RowIndex+1, is.Code, is.Field, is.Raw)
		}
	} else {
		fmt.Println("No data-quality findings.")
	}
	return nil
}
