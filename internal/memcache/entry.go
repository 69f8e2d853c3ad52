package memcache

import (
	"sort"

	"github.com/cnosdb/tskv/internal/base"
)

// Entry is a per-field ordered/unordered buffer of Cells. It tracks the
// observed [TsMin, TsMax] bound and the field's
// scalar type, and holds an append-only slice of Cells until the owning
// cache is switched to immutable, at which point it is sorted exactly once.
type Entry struct {
	TsMin     base.Timestamp
	TsMax     base.Timestamp
	FieldType base.ValueType
	Cells     []Cell
}

// NewEntry returns an empty Entry with the sentinel bounds TsMin=+inf,
// TsMax=-inf, so the first insert always widens both.
func NewEntry() *Entry {
	return &Entry{
		TsMin:     base.PosInf,
		TsMax:     base.NegInf,
		FieldType: base.Unknown,
	}
}

// Insert appends cell, widens [TsMin, TsMax], and sets or validates
// FieldType. It never sorts; sort is the caller's responsibility, invoked
// from Cache.SwitchToImmutable.
func (e *Entry) Insert(cell Cell) {
	if e.FieldType == base.Unknown {
		e.FieldType = cell.Type
	}
	if cell.Ts < e.TsMin {
		e.TsMin = cell.Ts
	}
	if cell.Ts > e.TsMax {
		e.TsMax = cell.Ts
	}
	e.Cells = append(e.Cells, cell)
}

// DeleteRange retains only cells outside the closed range [r.MinTS,
// r.MaxTS], i.e. removes every cell with MinTS <= ts <= MaxTS. It does not
// recompute TsMin/TsMax: they remain valid upper/lower bounds for read
// filtering, which re-checks every candidate cell individually.
func (e *Entry) DeleteRange(r base.TimeRange) {
	kept := e.Cells[:0]
	for _, c := range e.Cells {
		if !r.Contains(c.Ts) {
			kept = append(kept, c)
		}
	}
	e.Cells = kept
}

// Overlap reports whether r intersects this entry's observed [TsMin, TsMax]
// bound. Symmetric with base.TimeRange.Overlaps.
func (e *Entry) Overlap(r base.TimeRange) bool {
	return r.MinTS <= e.TsMax && r.MaxTS >= e.TsMin
}

// Sort stably orders Cells by timestamp ascending, ties broken by existing
// (insertion) order. Called exactly once, from Cache.SwitchToImmutable.
func (e *Entry) Sort() {
	sort.SliceStable(e.Cells, func(i, j int) bool {
		return e.Cells[i].Ts < e.Cells[j].Ts
	})
}

// IsEmpty reports whether the entry holds no cells.
func (e *Entry) IsEmpty() bool {
	return len(e.Cells) == 0
}

// ReadCell returns every cell whose timestamp falls within the closed range
// [r.MinTS, r.MaxTS], matching the closed semantics DeleteRange uses so the
// two operations agree on what "in range" means.
func (e *Entry) ReadCell(r base.TimeRange) []Cell {
	var out []Cell
	for _, c := range e.Cells {
		if r.Contains(c.Ts) {
			out = append(out, c)
		}
	}
	return out
}
