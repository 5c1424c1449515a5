// =============================================================================
// Stocktake - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Stocktake CLI application, a physical
// inventory verification tool. It initializes the Cobra CLI framework and
// delegates command execution to the cmd package.
//
// USAGE:
//   stocktake audit <file>   - Run a verification pass over a stock sheet
//   stocktake inspect <file> - Preview column detection without writing
//   stocktake session        - Show or clear the saved audit session
//   stocktake version        - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//
// =============================================================================

package main

import (
	"github.com/auditgrid/stocktake/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
