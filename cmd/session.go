// =============================================================================
// Stocktake - Session Command
// =============================================================================
//
// This file defines the 'session' command for the single saved session slot:
// show what is stored, or clear it.
//
// COMMAND USAGE:
//   stocktake session           - Show the saved session, if any
//   stocktake session --clear   - Delete the saved session
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/auditgrid/stocktake/internal/session"
)

// clearSession deletes the saved session instead of showing it.
var clearSession bool

// sessionCmd represents the 'session' command.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show or clear the saved audit session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession()
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.Flags().BoolVar(&clearSession, "clear", false,
		"Delete the saved session")
}

func runSession() error {
	cfg, err := loadRuntime()
	if err != nil {
		return err
	}

	store := session.NewStore(session.FileStorage{Path: cfg.SessionPath()}, cfg.SessionTTL())

	if clearSession {
		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		fmt.Println("Saved session cleared.")
		return nil
	}

	rec := store.Load()
	if rec == nil {
		fmt.Println("No saved session.")
		return nil
	}

	verified := 0
	for _, st := range rec.Materials {
		if st.PhysicalQty != "" {
			verified++
		}
	}
	fmt.Printf("File:     %s\n", rec.FileName)
	fmt.Printf("Saved:    %s\n", rec.Timestamp.Format("02-Jan-2006 15:04:05"))
	fmt.Printf("Rows:     %d (%d with counts)\n", len(rec.Materials), verified)
	return nil
}
