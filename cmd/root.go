// =============================================================================
// Stocktake - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All subcommands
// attach here.
//
// COBRA CLI STRUCTURE:
//   rootCmd (stocktake)
//   ├── auditCmd   (stocktake audit <file>)
//   ├── inspectCmd (stocktake inspect <file>)
//   ├── sessionCmd (stocktake session)
//   └── versionCmd (stocktake version)
//
// The root command owns the global flags (--config, --verbose) and the
// shared runtime setup: loading configuration and configuring logging.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/auditgrid/stocktake/internal/config"
	"github.com/auditgrid/stocktake/internal/logging"
)

// cfgFile holds the path to the configuration file.
// Overridden with the --config flag.
var cfgFile string

// verbose enables debug logging when set.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "stocktake",
	Short: "Stocktake - physical inventory audit over book-stock spreadsheets",
	Long: `Stocktake imports a book-stock spreadsheet, maps its columns to a canonical
audit schema, records physically counted quantities and remarks per item, and
exports an annotated report with variance and shortage/excess summaries.

An in-progress audit is saved automatically and offered for restore the next
time the same file is imported, so a count interrupted mid-warehouse is not
lost.

Example Usage:
  stocktake audit stock.xlsx --counts counted.csv   # Import, apply counts, export report
  stocktake audit stock.xlsx --restore              # Resume a saved session
  stocktake inspect stock.xlsx                      # Preview column detection and data quality
  stocktake session --clear                         # Drop the saved session`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadRuntime loads the configuration and wires up logging. Every
// subcommand goes through here first.
func loadRuntime() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logging.Setup(level, cfg.LogFormat)
	return cfg, nil
}
