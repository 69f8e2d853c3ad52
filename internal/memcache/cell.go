// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package memcache holds the in-memory write buffer tier: Cell, MemEntry,
// and MemCache, as described by tskv/tskv-write-path.
package memcache

import "github.com/cnosdb/tskv/internal/base"

// Cell is a tagged (timestamp, value) pair. Only the field matching Type is
// meaningful; the others are zero. A class hierarchy would let each arm grow
// its own behavior, but nothing here ever does, so a flat tag plus untyped
// storage is the right shape.
type Cell struct {
	Ts    base.Timestamp
	Type  base.ValueType
	U64   uint64
	I64   int64
	F64   float64
	Bool  bool
	Bytes []byte
}

// NewU64Cell, NewI64Cell, ... construct a Cell of the matching tag. These
// exist so callers never have to remember which struct field a tag reads
// from.
func NewU64Cell(ts base.Timestamp, v uint64) Cell {
	return Cell{Ts: ts, Type: base.Unsigned, U64: v}
}

func NewI64Cell(ts base.Timestamp, v int64) Cell {
	return Cell{Ts: ts, Type: base.Integer, I64: v}
}

func NewF64Cell(ts base.Timestamp, v float64) Cell {
	return Cell{Ts: ts, Type: base.Float, F64: v}
}

func NewBoolCell(ts base.Timestamp, v bool) Cell {
	return Cell{Ts: ts, Type: base.Boolean, Bool: v}
}

func NewBytesCell(ts base.Timestamp, v []byte) Cell {
	return Cell{Ts: ts, Type: base.String, Bytes: v}
}

// Size returns the approximate in-memory footprint of the cell: a fixed
// per-cell overhead (timestamp + tag) plus the payload size for
// variable-length types. Callers must go through here rather than
// hand-charging a constant, since only String carries a variable payload.
func (c Cell) Size() uint64 {
	const fixedOverhead = 16 // timestamp (8) + tag/union discriminant (8, aligned)
	switch c.Type {
	case base.String:
		return fixedOverhead + uint64(len(c.Bytes))
	default:
		return fixedOverhead + 8
	}
}
