package search

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/auditgrid/stocktake/internal/materials"
)

func sampleItems() []*materials.Item {
	return []*materials.Item{
		{Code: "AB100", Description: "Steel rod"},
		{Code: "CD200", Description: "Cabinet"},
		{Code: "EF300", Description: "Fasteners"},
	}
}

func TestApplyMatchesCodeAndDescription(t *testing.T) {
	f := New(DefaultDebounce, nil)
	f.SetQueryNow("ab")

	got := f.Apply(sampleItems())

	if len(got) != 2 {
		t.Fatalf("got %d items, expected 2", len(got))
	}
	// Index order must be preserved: AB100 (code match) before CD200
	// (description "Cabinet" matches case-insensitively).
	if got[0].Code != "AB100" || got[1].Code != "CD200" {
		t.Errorf("got [%s, %s], expected [AB100, CD200]", got[0].Code, got[1].Code)
	}
}

func TestClearedQueryRestoresAllItems(t *testing.T) {
	f := New(DefaultDebounce, nil)
	items := sampleItems()

	f.SetQueryNow("ab")
	f.SetQueryNow("")

	got := f.Apply(items)
	if len(got) != len(items) {
		t.Fatalf("got %d items, expected %d", len(got), len(items))
	}
	for i := range items {
		if got[i] != items[i] {
			t.Errorf("position %d: order not preserved", i)
		}
	}
}

func TestQueryIsNormalized(t *testing.T) {
	f := New(DefaultDebounce, nil)
	f.SetQueryNow("  AB ")
	if got := f.Query(); got != "ab" {
		t.Errorf("Query() = %q, expected %q", got, "ab")
	}
}

func TestDebounceLastQueryWins(t *testing.T) {
	var applied atomic.Int32
	f := New(20*time.Millisecond, func() { applied.Add(1) })

	f.SetQuery("a")
	f.SetQuery("ab")
	f.SetQuery("ab1")

	time.Sleep(100 * time.Millisecond)

	if got := applied.Load(); got != 1 {
		t.Errorf("onChange fired %d times, expected 1", got)
	}
	if got := f.Query(); got != "ab1" {
		t.Errorf("Query() = %q, expected %q", got, "ab1")
	}
}

func TestSetQueryNowCancelsPending(t *testing.T) {
	var applied atomic.Int32
	f := New(20*time.Millisecond, func() { applied.Add(1) })

	f.SetQuery("stale")
	f.SetQueryNow("fresh")

	time.Sleep(100 * time.Millisecond)

	if got := f.Query(); got != "fresh" {
		t.Errorf("Query() = %q, expected %q", got, "fresh")
	}
	if got := applied.Load(); got != 0 {
		t.Errorf("onChange fired %d times, expected 0 (pending update was cancelled)", got)
	}
}
