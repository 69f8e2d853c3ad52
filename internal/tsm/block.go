// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package tsm holds the flush-merge unit exchanged with the (out-of-scope)
// codec layer: DataBlock, its k-way merge, and the Encoder/IndexReader
// interfaces the codec boundary consumes.
package tsm

import (
	"github.com/cnosdb/tskv/internal/base"
	"github.com/cnosdb/tskv/internal/memcache"
)

// DataBlock is the columnar representation of one field's samples: a tagged
// variant per scalar type carrying parallel Ts/value arrays. Only the slice
// matching Type is populated; the rest stay nil. Every arm has exactly the
// behavior listed in this file and never acquires more: a flat tag plus
// five parallel arrays is the right shape for a language without sum types.
type DataBlock struct {
	Type base.ValueType

	Ts    []base.Timestamp
	U64   []uint64
	I64   []int64
	F64   []float64
	Bool  []bool
	Bytes [][]byte
}

// NewDataBlock returns an empty block of the given type.
func NewDataBlock(typ base.ValueType) *DataBlock {
	return &DataBlock{Type: typ}
}

// Len returns the number of (ts, value) pairs in the block.
func (b *DataBlock) Len() int {
	return len(b.Ts)
}

// FieldType returns the block's scalar type tag.
func (b *DataBlock) FieldType() base.ValueType {
	return b.Type
}

// IsEmpty reports whether the block holds no samples.
func (b *DataBlock) IsEmpty() bool {
	return len(b.Ts) == 0
}

// TimeRange returns the closed range [Ts[0], Ts[len-1]] covered by the
// block. The block is assumed sorted ascending by timestamp, which holds
// for every block this package produces.
func (b *DataBlock) TimeRange() base.TimeRange {
	if b.IsEmpty() {
		return base.TimeRange{}
	}
	return base.NewTimeRange(b.Ts[0], b.Ts[len(b.Ts)-1])
}

// Insert appends cell to the block's parallel arrays. A tag mismatch
// between cell and the block's Type is silently ignored: the caller
// guarantees homogeneity by construction, since every MemEntry is
// single-typed.
func (b *DataBlock) Insert(cell memcache.Cell) {
	if cell.Type != b.Type {
		return
	}
	b.Ts = append(b.Ts, cell.Ts)
	switch b.Type {
	case base.Unsigned:
		b.U64 = append(b.U64, cell.U64)
	case base.Integer:
		b.I64 = append(b.I64, cell.I64)
	case base.Float:
		b.F64 = append(b.F64, cell.F64)
	case base.Boolean:
		b.Bool = append(b.Bool, cell.Bool)
	case base.String:
		b.Bytes = append(b.Bytes, cell.Bytes)
	}
}

// BatchInsert inserts every cell in cells, in order.
func (b *DataBlock) BatchInsert(cells []memcache.Cell) {
	for _, c := range cells {
		b.Insert(c)
	}
}

// Get returns the cell at index i, and false if i is past the end of the
// block.
func (b *DataBlock) Get(i int) (memcache.Cell, bool) {
	if i < 0 || i >= len(b.Ts) {
		return memcache.Cell{}, false
	}
	c := memcache.Cell{Ts: b.Ts[i], Type: b.Type}
	switch b.Type {
	case base.Unsigned:
		c.U64 = b.U64[i]
	case base.Integer:
		c.I64 = b.I64[i]
	case base.Float:
		c.F64 = b.F64[i]
	case base.Boolean:
		c.Bool = b.Bool[i]
	case base.String:
		c.Bytes = b.Bytes[i]
	}
	return c, true
}

// Set overwrites the cell at index i in place. Out-of-range or mismatched
// tag is a no-op.
func (b *DataBlock) Set(i int, cell memcache.Cell) {
	if i < 0 || i >= len(b.Ts) || cell.Type != b.Type {
		return
	}
	b.Ts[i] = cell.Ts
	switch b.Type {
	case base.Unsigned:
		b.U64[i] = cell.U64
	case base.Integer:
		b.I64[i] = cell.I64
	case base.Float:
		b.F64[i] = cell.F64
	case base.Boolean:
		b.Bool[i] = cell.Bool
	case base.String:
		b.Bytes[i] = cell.Bytes
	}
}

// Append merges self and other (both assumed already sorted ascending by
// timestamp) and replaces self with the merged result. On equal
// timestamps the right-hand (later, from other) value wins. Mismatched
// tags leave self unchanged.
func (b *DataBlock) Append(other *DataBlock) {
	if other == nil || other.Type != b.Type {
		return
	}
	merged := mergeTwo(b, other)
	*b = *merged
}

// mergeTwo merges a and b (same type, each sorted ascending) with
// last-writer-wins on equal timestamps, b's value winning ties.
func mergeTwo(a, b *DataBlock) *DataBlock {
	out := NewDataBlock(a.Type)
	i, j := 0, 0
	for i < a.Len() || j < b.Len() {
		switch {
		case i >= a.Len():
			cell, _ := b.Get(j)
			out.Insert(cell)
			j++
		case j >= b.Len():
			cell, _ := a.Get(i)
			out.Insert(cell)
			i++
		default:
			ca, _ := a.Get(i)
			cb, _ := b.Get(j)
			switch {
			case ca.Ts < cb.Ts:
				out.Insert(ca)
				i++
			case cb.Ts < ca.Ts:
				out.Insert(cb)
				j++
			default: // equal timestamp: right-hand (later) value wins
				out.Insert(cb)
				i++
				j++
			}
		}
	}
	return out
}

// MergeBlocks performs an n-way merge of blocks with the same tie-breaking
// as Append: for every step, the minimum timestamp across all heads is
// chosen; among entries sharing that minimum, the last one in iteration
// order (i.e. the block with the highest index among ties) is kept, and
// every head that matched the minimum advances. Empty input panics: the
// operation has no sensible result for zero blocks. A single-element input
// is returned unchanged.
func MergeBlocks(blocks []*DataBlock) *DataBlock {
	if len(blocks) == 0 {
		panic("tsm: MergeBlocks called with no blocks")
	}
	if len(blocks) == 1 {
		return blocks[0]
	}

	typ := blocks[0].Type
	heads := make([]int, len(blocks))
	out := NewDataBlock(typ)

	for {
		minTs, minSet := base.Timestamp(0), false
		for bi, blk := range blocks {
			if heads[bi] >= blk.Len() {
				continue
			}
			ts := blk.Ts[heads[bi]]
			if !minSet || ts < minTs {
				minTs = ts
				minSet = true
			}
		}
		if !minSet {
			break
		}

		// Among all heads at minTs, the one from the block with the
		// highest index wins (last in iteration order); every matching
		// head still advances.
		var winner memcache.Cell
		haveWinner := false
		for bi, blk := range blocks {
			if heads[bi] >= blk.Len() || blk.Ts[heads[bi]] != minTs {
				continue
			}
			c, _ := blk.Get(heads[bi])
			winner = c
			haveWinner = true
			heads[bi]++
		}
		if haveWinner {
			out.Insert(winner)
		}
	}

	return out
}
