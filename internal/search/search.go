// =============================================================================
// Stocktake - Incremental Search
// =============================================================================
//
// Substring filter over the material index. Queries arrive per keystroke, so
// SetQuery is debounced: each call re-arms a timer and only the last query
// issued within the quiet window is applied. The filtered sequence is a pure
// view, recomputed in full on every Apply; it is never patched incrementally.
//
// =============================================================================

package search

import (
	"strings"
	"sync"
	"time"

	"github.com/auditgrid/stocktake/internal/materials"
)

// DefaultDebounce is the quiet window applied between keystrokes.
const DefaultDebounce = 300 * time.Millisecond

// Filter holds the active query and the debounce state.
type Filter struct {
	mu       sync.Mutex
	query    string
	delay    time.Duration
	timer    *time.Timer
	onChange func()
}

// New returns a filter with the given debounce window. onChange, if non-nil,
// fires after a debounced query becomes active, on the timer goroutine.
func New(delay time.Duration, onChange func()) *Filter {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Filter{delay: delay, onChange: onChange}
}

// SetQuery schedules the query to become active after the quiet window. A
// newer call cancels any pending one, so at most one recomputation happens
// per pause in typing.
func (f *Filter) SetQuery(q string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.delay, func() {
		f.mu.Lock()
		f.query = normalize(q)
		f.mu.Unlock()
		if f.onChange != nil {
			f.onChange()
		}
	})
}

// SetQueryNow applies the query immediately, cancelling any pending debounced
// update. Used by non-interactive surfaces where typing latency is not a
// concern.
func (f *Filter) SetQueryNow(q string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.query = normalize(q)
}

// Query returns the currently active (normalized) query.
func (f *Filter) Query() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

// Apply returns the items matching the active query, preserving index order.
// An empty query yields all items.
func (f *Filter) Apply(items []*materials.Item) []*materials.Item {
	q := f.Query()
	if q == "" {
		return items
	}

	var out []*materials.Item
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Code), q) ||
			strings.Contains(strings.ToLower(it.Description), q) {
			out = append(out, it)
		}
	}
	return out
}

func normalize(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
