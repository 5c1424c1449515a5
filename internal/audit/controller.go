// =============================================================================
// Stocktake - Audit Controller
// =============================================================================
//
// The controller owns the top-level audit flow: it holds the tabular buffer,
// the confirmed mapping, the material index, the search filter and the
// session store, and sequences the import -> map -> count -> export
// pipeline.
//
// VIEW MODES:
//   The surface is a two-state machine. ViewRaw shows the imported sheet as
//   is; ViewVerification shows the keyed material records. Entering
//   Verification requires a confirmed mapping - EnterVerification routes
//   through mapping confirmation when none exists yet.
//
// AUTOSAVE:
//   Every edit marks the session dirty and re-arms a quiet-window timer;
//   only the timer that fires uninterrupted persists. Flush saves
//   immediately and is the forced-flush point for suspend-like events. A
//   failed save is logged and leaves the dirty flag set so a later attempt
//   retries.
//
// BUSY STATE:
//   Import and export are long-running and not cancellable. The controller
//   refuses to start one while another is in flight; the operations
//   themselves are idempotent, so a double invocation that slips through a
//   racing surface is safe, just wasteful.
//
// =============================================================================

package audit

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/auditgrid/stocktake/internal/codec"
	"github.com/auditgrid/stocktake/internal/grid"
	"github.com/auditgrid/stocktake/internal/mapping"
	"github.com/auditgrid/stocktake/internal/materials"
	"github.com/auditgrid/stocktake/internal/report"
	"github.com/auditgrid/stocktake/internal/search"
	"github.com/auditgrid/stocktake/internal/session"
)

// ViewMode is the surface state.
type ViewMode int

const (
	ViewRaw ViewMode = iota
	ViewVerification
)

var (
	// ErrBusy means an import or export is already in flight.
	ErrBusy = errors.New("an import or export is already running")

	// ErrNoImport means the operation needs an imported sheet first.
	ErrNoImport = errors.New("no sheet has been imported")

	// ErrNoIndex means the operation needs a confirmed mapping and built
	// index first.
	ErrNoIndex = errors.New("mapping has not been confirmed")
)

// Options tunes the controller. Zero values fall back to the package
// defaults.
type Options struct {
	AutosaveDelay  time.Duration
	SearchDebounce time.Duration
}

// DefaultAutosaveDelay is the quiet window after an edit before the session
// is persisted.
const DefaultAutosaveDelay = 5 * time.Second

// Controller owns one in-progress audit.
type Controller struct {
	mu sync.Mutex

	buf      *grid.Buffer
	proposed mapping.Mapping
	mapping  mapping.Mapping
	mapped   bool
	index    *materials.Index
	filter   *search.Filter
	store    *session.Store

	fileName string
	identity string
	view     ViewMode
	busy     bool
	dirty    bool

	autosaveDelay time.Duration
	saveTimer     *time.Timer

	pendingRestore *session.Record
}

// New returns a controller over the given session store.
func New(store *session.Store, opts Options) *Controller {
	delay := opts.AutosaveDelay
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Controller{
		buf:           grid.New(),
		filter:        search.New(opts.SearchDebounce, nil),
		store:         store,
		autosaveDelay: delay,
	}
}

// Status is a snapshot of the controller state for reporting surfaces.
type Status struct {
	FileName   string
	Rows       int
	Items      int
	View       ViewMode
	Dirty      bool
	CanRestore bool
}

// Status returns a snapshot of the current state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := 0
	if c.index != nil {
		items = c.index.Len()
	}
	return Status{
		FileName:   c.fileName,
		Rows:       c.buf.DataRowCount(),
		Items:      items,
		View:       c.view,
		Dirty:      c.dirty,
		CanRestore: c.pendingRestore != nil,
	}
}

// Import decodes the spreadsheet at path and replaces the audit state with
// it. Nothing is committed until the decode fully succeeds: a failed import
// leaves the prior state untouched. On success the mapping is auto-detected
// (as a suggestion) and, when a live session matches this file's identity,
// it is staged for restore.
func (c *Controller) Import(path string) error {
	if err := c.setBusy(); err != nil {
		return err
	}
	defer c.clearBusy()

	rows, err := codec.Decode(path)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf.Load(rows)
	c.fileName = filepath.Base(path)
	c.identity = session.Identity(c.fileName)
	c.proposed = mapping.Detect(c.buf.Header())
	c.mapping = mapping.Mapping{}
	c.mapped = false
	c.index = nil
	c.view = ViewRaw
	c.dirty = false
	c.pendingRestore = nil
	c.stopAutosaveLocked()

	if rec := c.store.Load(); rec != nil && rec.FileHash == c.identity {
		c.pendingRestore = rec
	}

	slog.Info("sheet imported",
		"file", c.fileName,
		"rows", c.buf.DataRowCount(),
		"restorable", c.pendingRestore != nil,
	)
	return nil
}

// ProposedMapping returns the auto-detected mapping suggestion for the
// current sheet. Callers may adjust it before confirming.
func (c *Controller) ProposedMapping() mapping.Mapping {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.proposed.Clone()
}

// ConfirmMapping validates and applies m, builds the material index and
// moves the surface into the Verification view. On validation failure
// nothing changes and the caller stays where it was.
func (c *Controller) ConfirmMapping(m mapping.Mapping) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.buf.RowCount() == 0 {
		return ErrNoImport
	}

	applied, err := mapping.Confirm(c.buf, m)
	if err != nil {
		return err
	}

	c.mapping = applied
	c.mapped = true
	c.index = materials.Build(c.buf, applied, c.markDirtyLocked)
	c.view = ViewVerification
	return nil
}

// EnterVerification switches to the Verification view. Without a confirmed
// mapping the transition is redirected through confirmation of the current
// proposal; if that proposal is incomplete the transition fails and the
// view stays Raw.
func (c *Controller) EnterVerification() error {
	c.mu.Lock()
	mapped := c.mapped
	proposed := c.proposed.Clone()
	c.mu.Unlock()

	if !mapped {
		return c.ConfirmMapping(proposed)
	}

	c.mu.Lock()
	c.view = ViewVerification
	c.mu.Unlock()
	return nil
}

// EnterRaw switches back to the raw sheet view. Always allowed.
func (c *Controller) EnterRaw() {
	c.mu.Lock()
	c.view = ViewRaw
	c.mu.Unlock()
}

// Items returns the indexed items in row order.
func (c *Controller) Items() ([]*materials.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index == nil {
		return nil, ErrNoIndex
	}
	return c.index.Items(), nil
}

// FindByCode returns the first item whose code matches, case-insensitively.
func (c *Controller) FindByCode(code string) (*materials.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index == nil {
		return nil, false
	}
	for _, it := range c.index.Items() {
		if strings.EqualFold(it.Code, code) {
			return it, true
		}
	}
	return nil, false
}

// SetPhysicalQty records a counted quantity. The value is written through to
// the buffer, the session goes dirty and the autosave timer is re-armed.
func (c *Controller) SetPhysicalQty(it *materials.Item, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index == nil {
		return ErrNoIndex
	}
	c.index.SetPhysicalQty(it, value)
	return nil
}

// SetRemarks records remarks for an item, with the same side effects as
// SetPhysicalQty.
func (c *Controller) SetRemarks(it *materials.Item, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index == nil {
		return ErrNoIndex
	}
	c.index.SetRemarks(it, value)
	return nil
}

// Search applies the query immediately and returns the matching items in
// index order. Interactive surfaces that feed keystrokes should use
// SearchDebounced instead.
func (c *Controller) Search(query string) ([]*materials.Item, error) {
	c.mu.Lock()
	if c.index == nil {
		c.mu.Unlock()
		return nil, ErrNoIndex
	}
	items := c.index.Items()
	c.mu.Unlock()

	c.filter.SetQueryNow(query)
	return c.filter.Apply(items), nil
}

// SearchDebounced schedules the query; the filter applies it after the
// quiet window.
func (c *Controller) SearchDebounced(query string) {
	c.filter.SetQuery(query)
}

// Summary computes the aggregate audit figures for the current index.
func (c *Controller) Summary() materials.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index == nil {
		return materials.Summary{}
	}
	return materials.Summarize(c.index.Items())
}

// QualityIssues returns the numeric cells that defaulted to zero during the
// index build.
func (c *Controller) QualityIssues() []materials.Issue {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index == nil {
		return nil
	}
	return c.index.QualityIssues()
}

// PendingRestore returns the staged session record, if the last import
// matched a live session.
func (c *Controller) PendingRestore() *session.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingRestore
}

// ApplyRestore overlays the staged session's audit inputs onto the current
// index. Rows that no longer exist are skipped. Returns the number of rows
// restored.
func (c *Controller) ApplyRestore() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index == nil {
		return 0, ErrNoIndex
	}
	if c.pendingRestore == nil {
		return 0, nil
	}

	restored := session.RestoreInto(c.pendingRestore, c.index)
	c.pendingRestore = nil
	slog.Info("session restored", "rows", restored)
	return restored, nil
}

// Flush persists the session immediately, bypassing the autosave timer.
// This is the forced-flush point for suspend-like events and for surfaces
// that are about to exit.
func (c *Controller) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopAutosaveLocked()
	return c.saveLocked()
}

// Export writes the verification report to path. The persisted session is
// cleared only when the export fully succeeds; on failure it stays intact
// so the audit remains resumable.
func (c *Controller) Export(path string) error {
	if err := c.setBusy(); err != nil {
		return err
	}
	defer c.clearBusy()

	c.mu.Lock()
	if c.buf.RowCount() == 0 {
		c.mu.Unlock()
		return ErrNoImport
	}
	fileName := c.fileName
	sum := materials.Summary{}
	if c.index != nil {
		sum = materials.Summarize(c.index.Items())
	}
	rows := report.Rows(fileName, time.Now(), c.buf, sum)
	c.mu.Unlock()

	if err := codec.Encode(path, rows); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopAutosaveLocked()
	if err := c.store.Clear(); err != nil {
		slog.Warn("failed to clear session after export", "error", err)
	} else {
		c.dirty = false
	}
	slog.Info("report exported", "file", path, "items", sum.TotalItems)
	return nil
}

// ClearAll wipes every audit input: the physical qty and remarks cells are
// blanked in the buffer, the index is rebuilt and the persisted session is
// deleted.
func (c *Controller) ClearAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index != nil {
		for _, it := range c.index.Items() {
			c.index.SetPhysicalQty(it, "")
			c.index.SetRemarks(it, "")
		}
		c.index = materials.Build(c.buf, c.mapping, c.markDirtyLocked)
	}

	c.stopAutosaveLocked()
	c.dirty = false
	if err := c.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// =============================================================================
// INTERNAL: DIRTY TRACKING AND AUTOSAVE
// =============================================================================

// markDirtyLocked is the index's dirty callback. The controller mutex is
// already held: every index mutation goes through a controller method.
func (c *Controller) markDirtyLocked() {
	c.dirty = true
	if c.saveTimer != nil {
		c.saveTimer.Stop()
	}
	c.saveTimer = time.AfterFunc(c.autosaveDelay, c.autosave)
}

// autosave runs on the timer goroutine when an edit survived the quiet
// window.
func (c *Controller) autosave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return
	}
	// A failure is already logged; the dirty flag stays set so the next
	// edit or Flush retries.
	_ = c.saveLocked()
}

// saveLocked persists the session unconditionally. A failure is logged and
// reported but keeps the dirty flag set.
func (c *Controller) saveLocked() error {
	if c.index == nil {
		return nil
	}
	if err := c.store.Save(c.mapping, c.index.Items(), c.fileName, c.identity); err != nil {
		slog.Error("session save failed", "error", err)
		return err
	}
	c.dirty = false
	slog.Debug("session saved", "file", c.fileName)
	return nil
}

func (c *Controller) stopAutosaveLocked() {
	if c.saveTimer != nil {
		c.saveTimer.Stop()
		c.saveTimer = nil
	}
}

func (c *Controller) setBusy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	c.busy = true
	return nil
}

func (c *Controller) clearBusy() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

