// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package base holds the scalar types shared by every layer of tskv: field
// identifiers, the timestamp axis, the five-way value type tag, and the
// inclusive time range used for both deletion and file pruning.
package base

import "math"

// Timestamp is a 64-bit signed instant on the series' time axis. Its unit
// (microseconds, nanoseconds, ...) is opaque to every package in this module;
// all comparisons here only ever rely on it being a monotone integer.
type Timestamp = int64

// NegInf and PosInf are the sentinel bounds used before any real timestamp
// has been observed. A fresh MemEntry starts at [PosInf, NegInf] so its
// first insert always widens both, and a fresh Version starts with
// MaxLevelTS == NegInf so TseriesFamily recognizes that no flush has
// happened yet and bootstraps its watermark from the first ingested sample.
const (
	NegInf = Timestamp(math.MinInt64)
	PosInf = Timestamp(math.MaxInt64)
)

// FieldID identifies one field (column) within a time-series family. The high
// bits of a real deployment's field id typically encode the field's type, but
// nothing in this package depends on that layout.
type FieldID = uint64

// TseriesFamilyID identifies a time-series family (a TSF, a partition of the
// keyspace with its own memory and file tiers).
type TseriesFamilyID = uint32

// ColumnFileID identifies one on-disk column file (.tsm or .delta).
type ColumnFileID = uint64

// VersionID identifies a Version snapshot of a family's on-disk levels.
type VersionID = uint64

// ValueType tags the payload carried by a Cell or held by a MemEntry/DataBlock.
// Unknown is the zero value so a freshly constructed MemEntry reports it has
// not yet observed any data.
type ValueType uint8

const (
	Unknown ValueType = iota
	Unsigned
	Integer
	Float
	Boolean
	String
)

// String implements fmt.Stringer for log and debug-dump readability.
func (t ValueType) String() string {
	switch t {
	case Unsigned:
		return "unsigned"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// TimeRange is an inclusive [MinTS, MaxTS] range over the timestamp axis.
type TimeRange struct {
	MinTS Timestamp
	MaxTS Timestamp
}

// NewTimeRange returns the TimeRange [min, max]. Arguments are taken in
// (min, max) order; the original Rust constructor took (max, min).
func NewTimeRange(min, max Timestamp) TimeRange {
	return TimeRange{MinTS: min, MaxTS: max}
}

// Contains reports whether ts falls within the closed range [MinTS, MaxTS].
func (r TimeRange) Contains(ts Timestamp) bool {
	return ts >= r.MinTS && ts <= r.MaxTS
}

// Overlaps reports whether r and other share at least one timestamp.
// Overlap is symmetric: r.Overlaps(other) == other.Overlaps(r).
func (r TimeRange) Overlaps(other TimeRange) bool {
	return !(r.MinTS > other.MaxTS || r.MaxTS < other.MinTS)
}

// Union returns the smallest TimeRange that contains both r and other.
func (r TimeRange) Union(other TimeRange) TimeRange {
	min := r.MinTS
	if other.MinTS < min {
		min = other.MinTS
	}
	max := r.MaxTS
	if other.MaxTS > max {
		max = other.MaxTS
	}
	return TimeRange{MinTS: min, MaxTS: max}
}
