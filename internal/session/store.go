// =============================================================================
// Stocktake - Session Store
// =============================================================================
//
// One session slot exists system-wide: a single blob at a well-known
// location. Importing a second file overwrites the prior session unless the
// identities match. The store never surfaces corruption: an unreadable or
// structurally broken blob loads as "no session", because a broken session
// must never block a fresh audit.
//
// =============================================================================

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/auditgrid/stocktake/internal/mapping"
	"github.com/auditgrid/stocktake/internal/materials"
)

// DefaultTTL is how long a saved session stays restorable.
const DefaultTTL = 48 * time.Hour

// BlobStorage is the durable single-slot storage collaborator.
type BlobStorage interface {
	// Read returns the stored blob, or os.ErrNotExist when nothing is stored.
	Read() ([]byte, error)
	Write(data []byte) error
	Delete() error
}

// FileStorage stores the blob as a single JSON file.
type FileStorage struct {
	Path string
}

func (fs FileStorage) Read() ([]byte, error) {
	return os.ReadFile(fs.Path)
}

func (fs FileStorage) Write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(fs.Path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	return os.WriteFile(fs.Path, data, 0644)
}

func (fs FileStorage) Delete() error {
	err := os.Remove(fs.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Store persists and restores session records.
type Store struct {
	storage BlobStorage
	ttl     time.Duration

	// now is swappable for expiry tests.
	now func() time.Time
}

// NewStore returns a store over the given storage. A non-positive ttl falls
// back to DefaultTTL.
func NewStore(storage BlobStorage, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{storage: storage, ttl: ttl, now: time.Now}
}

// Save writes the session record, unconditionally overwriting any prior one.
// Saving is a no-op when there are no items or no file name - there is
// nothing worth restoring.
func (s *Store) Save(m mapping.Mapping, items []*materials.Item, fileName, identity string) error {
	if len(items) == 0 || fileName == "" {
		return nil
	}

	rec := NewRecord(m, items, fileName, identity, s.now())
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.storage.Write(data); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Load reads the stored record. It returns nil when nothing is stored, when
// the blob is corrupt (treated as absence, logged at debug), or when the
// record has expired - in which case the stale blob is also deleted.
func (s *Store) Load() *Record {
	data, err := s.storage.Read()
	if err != nil {
		return nil
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		slog.Debug("discarding corrupt session blob", "error", err)
		return nil
	}
	if rec.Timestamp.IsZero() {
		slog.Debug("discarding session blob without timestamp")
		return nil
	}

	if s.now().Sub(rec.Timestamp) > s.ttl {
		slog.Info("discarding expired session",
			"file", rec.FileName,
			"saved_at", rec.Timestamp,
		)
		if err := s.storage.Delete(); err != nil {
			slog.Warn("failed to delete expired session", "error", err)
		}
		return nil
	}

	return &rec
}

// RestoreInto overwrites the live fields of every indexed item that has a
// matching row in the record. Rows in the record that no longer exist in the
// index are skipped; restore never creates items. Values go through the
// index so they are written through to the buffer.
func RestoreInto(rec *Record, idx *materials.Index) int {
	restored := 0
	for _, st := range rec.Materials {
		it, ok := idx.ByRow(st.RowIndex)
		if !ok {
			continue
		}
		idx.SetPhysicalQty(it, st.PhysicalQty)
		idx.SetRemarks(it, st.Remarks)
		restored++
	}
	return restored
}

// Clear deletes the persisted session. Called after a successful export or
// an explicit clear-all.
func (s *Store) Clear() error {
	return s.storage.Delete()
}
