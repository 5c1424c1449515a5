// =============================================================================
// Stocktake - Column Role Mapping
// =============================================================================
//
// This module maps sheet columns to the semantic roles the audit needs:
// material code, description, system (book) quantity, unit of measure, rate,
// physical quantity, and remarks.
//
// DETECTION:
//   Auto-detection scans the header row once per role. Headers are trimmed
//   and lowercased, and the first column whose header contains any of the
//   role's keywords wins. Detection is only a suggestion; the caller can
//   override every role before confirming, including pointing two roles at
//   the same column.
//
// CONFIRMATION:
//   Confirm validates that Code and SystemQty are resolved (the index cannot
//   be built without them) and guarantees that PhysicalQty and Remarks are
//   backed by real columns, appending trailing columns to the buffer when
//   the sheet does not carry them.
//
// =============================================================================

package mapping

import (
	"errors"
	"strings"

	"github.com/auditgrid/stocktake/internal/grid"
)

// Role identifies a semantic column in the audit schema.
type Role int

const (
	Code Role = iota
	Description
	SystemQty
	UOM
	Rate
	PhysicalQty
	Remarks
)

// AllRoles lists every role in schema order.
var AllRoles = []Role{Code, Description, SystemQty, UOM, Rate, PhysicalQty, Remarks}

// String returns the display name of the role.
func (r Role) String() string {
	switch r {
	case Code:
		return "Code"
	case Description:
		return "Description"
	case SystemQty:
		return "System Qty"
	case UOM:
		return "UOM"
	case Rate:
		return "Rate"
	case PhysicalQty:
		return "Physical Qty"
	case Remarks:
		return "Remarks"
	default:
		return "Unknown"
	}
}

// roleKeywords is the detection vocabulary per role. Within a role the first
// column (by scan order) whose header contains any keyword is selected.
var roleKeywords = map[Role][]string{
	Code:        {"code", "sap", "material", "item", "sku"},
	Description: {"desc", "name", "detail"},
	SystemQty:   {"sys", "book", "current", "sap qty", "qty"},
	UOM:         {"uom", "unit", "base"},
	Rate:        {"rate", "price", "cost", "val"},
	PhysicalQty: {"phy", "act", "count", "audit"},
	Remarks:     {"remark", "note", "comment", "obs"},
}

// ErrIncomplete is returned by Confirm when the mandatory roles are not
// resolved. The mapping is not applied and no state changes.
var ErrIncomplete = errors.New("mapping incomplete: code and system quantity columns must be assigned")

// Mapping assigns roles to column indices. A role without an entry is
// ignored. The zero value is an empty mapping; use Set to populate it.
type Mapping struct {
	columns map[Role]int
}

// New returns an empty mapping.
func New() Mapping {
	return Mapping{columns: make(map[Role]int)}
}

// Set binds role to the given column index.
func (m *Mapping) Set(role Role, col int) {
	if m.columns == nil {
		m.columns = make(map[Role]int)
	}
	m.columns[role] = col
}

// Unset removes the binding for role.
func (m *Mapping) Unset(role Role) {
	delete(m.columns, role)
}

// Column returns the column bound to role and whether a binding exists.
func (m Mapping) Column(role Role) (int, bool) {
	col, ok := m.columns[role]
	return col, ok
}

// IsComplete reports whether the mandatory roles are resolved.
func (m Mapping) IsComplete() bool {
	_, hasCode := m.columns[Code]
	_, hasQty := m.columns[SystemQty]
	return hasCode && hasQty
}

// Clone returns an independent copy of the mapping.
func (m Mapping) Clone() Mapping {
	out := New()
	for role, col := range m.columns {
		out.columns[role] = col
	}
	return out
}

// Detect proposes a mapping from the header row. Matching is case-insensitive
// on trimmed headers; for each role the first column containing any of the
// role's keywords is chosen, and roles without a match stay unassigned.
func Detect(headers []string) Mapping {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	m := New()
	for _, role := range AllRoles {
		for col, header := range normalized {
			if header == "" {
				continue
			}
			if containsAny(header, roleKeywords[role]) {
				m.Set(role, col)
				break
			}
		}
	}
	return m
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// Confirm validates and applies a proposed mapping against the buffer.
//
// Confirmation fails with ErrIncomplete when Code or SystemQty is unassigned;
// in that case the buffer is untouched. On success PhysicalQty and Remarks
// are guaranteed to be backed by real columns: when either role is
// unassigned, a trailing column with a recognizable header is appended to the
// buffer and the role bound to it. The returned mapping is the one to use
// from here on (the input is not mutated).
func Confirm(buf *grid.Buffer, proposed Mapping) (Mapping, error) {
	if !proposed.IsComplete() {
		return Mapping{}, ErrIncomplete
	}

	applied := proposed.Clone()
	if _, ok := applied.Column(PhysicalQty); !ok {
		applied.Set(PhysicalQty, buf.AppendColumn("Physical Qty"))
	}
	if _, ok := applied.Column(Remarks); !ok {
		applied.Set(Remarks, buf.AppendColumn("Remarks"))
	}
	return applied, nil
}
