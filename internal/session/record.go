// =============================================================================
// Stocktake - Session Record
// =============================================================================
//
// The persisted snapshot of one in-progress audit: which file it belongs to,
// the confirmed column mapping, and the per-row audit inputs (counted
// quantity and remarks). The wire format is JSON and deliberately small;
// system figures are not persisted because a restore only ever happens after
// a fresh import has rebuilt the index from the file itself.
//
// =============================================================================

package session

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strconv"
	"time"

	"github.com/auditgrid/stocktake/internal/mapping"
	"github.com/auditgrid/stocktake/internal/materials"
)

// Record is the persisted session snapshot.
type Record struct {
	FileName  string                   `json:"fileName"`
	FileHash  string                   `json:"fileHash"`
	Mappings  RoleColumns              `json:"mappings"`
	Materials map[string]MaterialState `json:"materials"`
	Timestamp time.Time                `json:"timestamp"`
}

// RoleColumns is the wire form of the column mapping. A null column means
// the role is ignored.
type RoleColumns struct {
	Code     *int `json:"code"`
	Desc     *int `json:"desc"`
	Qty      *int `json:"qty"`
	UOM      *int `json:"uom"`
	Rate     *int `json:"rate"`
	Physical *int `json:"physical"`
	Remarks  *int `json:"remarks"`
}

// MaterialState is the per-row audit input.
type MaterialState struct {
	RowIndex    int    `json:"rowIndex"`
	PhysicalQty string `json:"physicalQty"`
	Remarks     string `json:"remarks"`
}

// Identity returns the stable file-identity hash: hex sha256 of the base
// file name. Two imports of same-named files are the same logical session.
// This is an explicit simplification, not a content guarantee.
func Identity(fileName string) string {
	h := sha256.Sum256([]byte(filepath.Base(fileName)))
	return hex.EncodeToString(h[:])
}

// NewRecord assembles a Record from the live mapping and items.
func NewRecord(m mapping.Mapping, items []*materials.Item, fileName, identity string, now time.Time) Record {
	rec := Record{
		FileName:  fileName,
		FileHash:  identity,
		Mappings:  roleColumnsFrom(m),
		Materials: make(map[string]MaterialState, len(items)),
		Timestamp: now,
	}
	for _, it := range items {
		rec.Materials[strconv.Itoa(it.RowIndex)] = MaterialState{
			RowIndex:    it.RowIndex,
			PhysicalQty: it.PhysicalQty,
			Remarks:     it.Remarks,
		}
	}
	return rec
}

// Mapping converts the wire form back to a mapping.Mapping.
func (rc RoleColumns) Mapping() mapping.Mapping {
	m := mapping.New()
	set := func(role mapping.Role, col *int) {
		if col != nil {
			m.Set(role, *col)
		}
	}
	set(mapping.Code, rc.Code)
	set(mapping.Description, rc.Desc)
	set(mapping.SystemQty, rc.Qty)
	set(mapping.UOM, rc.UOM)
	set(mapping.Rate, rc.Rate)
	set(mapping.PhysicalQty, rc.Physical)
	set(mapping.Remarks, rc.Remarks)
	return m
}

func roleColumnsFrom(m mapping.Mapping) RoleColumns {
	col := func(role mapping.Role) *int {
		if c, ok := m.Column(role); ok {
			v := c
			return &v
		}
		return nil
	}
	return RoleColumns{
		Code:     col(mapping.Code),
		Desc:     col(mapping.Description),
		Qty:      col(mapping.SystemQty),
		UOM:      col(mapping.UOM),
		Rate:     col(mapping.Rate),
		Physical: col(mapping.PhysicalQty),
		Remarks:  col(mapping.Remarks),
	}
}
