// =============================================================================
// Stocktake - File Utilities
// =============================================================================
//
// Small file helpers shared by the CLI surface: report file naming and
// directory management. Report names are generated from a format string so
// repeated exports of the same audit never clobber each other.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EnsureDir creates dir (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// ExportFileName renders an export file name from format. Placeholders:
//
//	{name}      - base name of sourceFile without its extension
//	{timestamp} - now as YYYYMMDD_HHMMSS
//	{uuid}      - a random UUID
//
// A format without any extension gets ".xlsx" appended.
func ExportFileName(format, sourceFile string, now time.Time) string {
	base := filepath.Base(sourceFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	out := format
	out = strings.ReplaceAll(out, "{name}", name)
	out = strings.ReplaceAll(out, "{timestamp}", now.Format("20060102_150405"))
	out = strings.ReplaceAll(out, "{uuid}", uuid.New().String())

	if filepath.Ext(out) == "" {
		out += ".xlsx"
	}
	return out
}
