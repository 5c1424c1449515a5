// =============================================================================
// Stocktake - Audit Command
// =============================================================================
//
// This file defines the 'audit' command, the main end-to-end flow: import a
// book-stock spreadsheet, confirm the column mapping, apply counted
// quantities, and export the verification report.
//
// COMMAND USAGE:
//   stocktake audit <file> [flags]
//
// FLAGS:
//   --map        : Override detected columns, e.g. --map code=1 --map qty=3
//                  (columns are 1-based; "-" unassigns a role)
//   --counts     : CSV of counted quantities: code,qty[,remarks] per line
//   --restore    : Apply a saved session for this file before the counts
//   --out        : Explicit report path (default: export dir + name format)
//   --no-export  : Stop after saving the session; do not write a report
//
// PIPELINE:
//   1. Load configuration, set up logging
//   2. Import the spreadsheet (first non-empty sheet)
//   3. Auto-detect the column mapping, apply --map overrides, confirm
//   4. Optionally restore the saved session, then apply --counts
//   5. Persist the session
//   6. Export the report (clears the session on success)
//
// =============================================================================

package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/auditgrid/stocktake/internal/audit"
	"github.com/auditgrid/stocktake/internal/config"
	"github.com/auditgrid/stocktake/internal/mapping"
	"github.com/auditgrid/stocktake/internal/session"
	"github.com/auditgrid/stocktake/pkg/utils"
)

var (
	mapOverrides []string
	countsFile   string
	restoreFlag  bool
	outPath      string
	noExport     bool
)

// auditCmd represents the 'audit' command.
var auditCmd = &cobra.Command{
	Use:   "audit <file>",
	Short: "Run a stock audit over a book-stock spreadsheet",
	Long: `The audit command imports the given spreadsheet, maps its columns to the
audit schema, applies counted quantities and exports the verification report.

Column mapping is detected from the header row and can be corrected per role
with --map. Counted quantities arrive either from a saved session (--restore)
or from a CSV file (--counts) with one "code,qty[,remarks]" line per item;
both can be combined, with --counts applied last.

Unless --no-export is given, the report is written and the saved session is
cleared; with --no-export the session stays live so the audit can be resumed
later with --restore.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAudit(args[0])
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringArrayVar(&mapOverrides, "map", nil,
		"Override a detected column, role=column (1-based), e.g. code=1")
	auditCmd.Flags().StringVar(&countsFile, "counts", "",
		"CSV file of counted quantities: code,qty[,remarks]")
	auditCmd.Flags().BoolVar(&restoreFlag, "restore", false,
		"Apply the saved session for this file before the counts")
	auditCmd.Flags().StringVar(&outPath, "out", "",
		"Report output path (default: export dir + configured name format)")
	auditCmd.Flags().BoolVar(&noExport, "no-export", false,
		"Save the session but do not export a report")
}

// runAudit orchestrates the audit pipeline.
func runAudit(file string) error {
	cfg, err := loadRuntime()
	if err != nil {
		return err
	}

	ctrl := newController(cfg)

	fmt.Println("=== Stocktake ===")
	fmt.Printf("Importing %s...\n", filepath.Base(file))
	if err := ctrl.Import(file); err != nil {
		return err
	}

	m := ctrl.ProposedMapping()
	if err := applyMapOverrides(&m, mapOverrides); err != nil {
		return err
	}
	if err := ctrl.ConfirmMapping(m); err != nil {
		return err
	}

	status := ctrl.Status()
	fmt.Printf("Indexed %d item(s) from %d data row(s)\n", status.Items, status.Rows)

	if restoreFlag {
		if !status.CanRestore {
			fmt.Println("No saved session for this file; nothing to restore.")
		} else {
			restored, err := ctrl.ApplyRestore()
			if err != nil {
				return err
			}
			fmt.Printf("Restored %d row(s) from the saved session\n", restored)
		}
	}

	if countsFile != "" {
		applied, skipped, err := applyCounts(ctrl, countsFile)
		if err != nil {
			return err
		}
		fmt.Printf("Applied %d count(s)", applied)
		if skipped > 0 {
			fmt.Printf(" (%d code(s) not found)", skipped)
		}
		fmt.Println()
	}

	if err := ctrl.Flush(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	printSummary(ctrl)

	if noExport {
		fmt.Println("\nSession saved; rerun with --restore to resume.")
		return nil
	}

	target := outPath
	if target == "" {
		target = filepath.Join(cfg.ExportDir, utils.ExportFileName(cfg.ExportNameFormat, file, time.Now()))
	}
	if err := utils.EnsureDir(filepath.Dir(target)); err != nil {
		return err
	}
	if err := ctrl.Export(target); err != nil {
		return err
	}
	fmt.Printf("\nReport written to %s\n", target)
	return nil
}

// newController wires a controller against the configured session slot.
func newController(cfg *config.Config) *audit.Controller {
	store := session.NewStore(session.FileStorage{Path: cfg.SessionPath()}, cfg.SessionTTL())
	return audit.New(store, audit.Options{
		AutosaveDelay:  cfg.AutosaveDelay(),
		SearchDebounce: cfg.SearchDebounce(),
	})
}

// roleNames maps the CLI role tokens to mapping roles, matching the session
// wire format's vocabulary.
var roleNames = map[string]mapping.Role{
	"code":     mapping.Code,
	"desc":     mapping.Description,
	"qty":      mapping.SystemQty,
	"uom":      mapping.UOM,
	"rate":     mapping.Rate,
	"physical": mapping.PhysicalQty,
	"remarks":  mapping.Remarks,
}

// applyMapOverrides mutates m according to role=column tokens. Columns are
// 1-based on the CLI; "-" unassigns the role.
func applyMapOverrides(m *mapping.Mapping, overrides []string) error {
	for _, ov := range overrides {
		name, value, ok := strings.Cut(ov, "=")
		if !ok {
			return fmt.Errorf("invalid --map value %q, expected role=column", ov)
		}
		role, ok := roleNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return fmt.Errorf("unknown role %q (valid: code, desc, qty, uom, rate, physical, remarks)", name)
		}
		value = strings.TrimSpace(value)
		if value == "-" {
			m.Unset(role)
			continue
		}
		col, err := strconv.Atoi(value)
		if err != nil || col < 1 {
			return fmt.Errorf("invalid column %q for role %s", value, name)
		}
		m.Set(role, col-1)
	}
	return nil
}

// applyCounts reads a counts CSV and applies each line to the matching item.
// Lines whose code is unknown are counted as skipped, not errors: count
// sheets routinely contain items that were removed from the book stock.
func applyCounts(ctrl *audit.Controller, path string) (applied, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open counts file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse counts file: %w", err)
	}

	for _, rec := range records {
		if len(rec) < 2 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		it, ok := ctrl.FindByCode(strings.TrimSpace(rec[0]))
		if !ok {
			skipped++
			continue
		}
		if err := ctrl.SetPhysicalQty(it, strings.TrimSpace(rec[1])); err != nil {
			return applied, skipped, err
		}
		if len(rec) > 2 {
			if err := ctrl.SetRemarks(it, strings.TrimSpace(rec[2])); err != nil {
				return applied, skipped, err
			}
		}
		applied++
	}
	return applied, skipped, nil
}

// printSummary prints the aggregate audit figures.
func printSummary(ctrl *audit.Controller) {
	sum := ctrl.Summary()

	fmt.Println("\n=== Audit Summary ===")
	fmt.Printf("Total items:          %d\n", sum.TotalItems)
	fmt.Printf("Verified items:       %d\n", sum.VerifiedCount)
	fmt.Printf("Shortage count:       %d\n", sum.ShortageCount)
	fmt.Printf("Excess count:         %d\n", sum.ExcessCount)
	fmt.Printf("Total shortage value: %s\n", sum.TotalShortageValue.StringFixed(2))
	fmt.Printf("Total excess value:   %s\n", sum.TotalExcessValue.StringFixed(2))

	if issues := ctrl.QualityIssues(); len(issues) > 0 {
		fmt.Printf("\nWarning: %d numeric cell(s) could not be parsed and were treated as 0:\n", len(issues))
		for _, is := range issues {
			fmt.Printf("  row %d (%s): %s = %q\n", is.RowIndex+1, is.Code, is.Field, is.Raw)
		}
	}
}
