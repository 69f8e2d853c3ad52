// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package manifest holds the immutable on-disk-tier metadata: ColumnFile,
// LevelInfo, Version, and the VersionEdit/CompactMeta deltas a flush or
// compaction feeds into LevelInfo.Apply.
package manifest

import (
	"sync"
	"sync/atomic"

	"github.com/cnosdb/tskv/internal/base"
)

// ColumnFile is immutable metadata for one on-disk segment (a .tsm or
// .delta file). Deleted and BeingCompact are independent atomic booleans
// with release-store / acquire-load pairing and are monotonic one-shot
// transitions: once true, never false again.
type ColumnFile struct {
	FileID base.ColumnFileID
	Range  base.TimeRange
	Size   uint64
	IsDelta bool
	Bloom  *FieldBloomFilter

	deleted      int32
	beingCompact int32
}

// NewColumnFile returns a ColumnFile with the given identity and an empty
// bloom filter ready for field ids to be added as the file is written.
func NewColumnFile(fileID base.ColumnFileID, r base.TimeRange, size uint64, isDelta bool) *ColumnFile {
	return &ColumnFile{
		FileID:  fileID,
		Range:   r,
		Size:    size,
		IsDelta: isDelta,
		Bloom:   NewFieldBloomFilter(),
	}
}

// MarkDeleted transitions Deleted false->true. Calling it again is a no-op.
func (c *ColumnFile) MarkDeleted() {
	atomic.StoreInt32(&c.deleted, 1)
}

// Deleted reports whether MarkDeleted has been called.
func (c *ColumnFile) Deleted() bool {
	return atomic.LoadInt32(&c.deleted) != 0
}

// MarkBeingCompact transitions BeingCompact false->true.
func (c *ColumnFile) MarkBeingCompact() {
	atomic.StoreInt32(&c.beingCompact, 1)
}

// BeingCompact reports whether MarkBeingCompact has been called.
func (c *ColumnFile) BeingCompact() bool {
	return atomic.LoadInt32(&c.beingCompact) != 0
}

// MayContainField reports whether fieldID could be present in this file,
// per its bloom filter.
func (c *ColumnFile) MayContainField(fieldID base.FieldID) bool {
	return c.Bloom.MayContain(fieldID)
}

// CompactMeta is the delta a flush or compaction contributes to a level:
// one new file plus the aggregate size/time-range contribution it makes.
// This is the consumed VersionEdit input to LevelInfo.Apply; its contents
// are produced by the surrounding system (flush pipeline / compaction),
// not built here.
type CompactMeta struct {
	File     *ColumnFile
	FileSize uint64
	TsMin    base.Timestamp
	TsMax    base.Timestamp
}

// LevelInfo is one on-disk tier: a set of ColumnFiles plus aggregate size
// and time-range bookkeeping.
type LevelInfo struct {
	Level   uint32
	Files   []*ColumnFile
	CurSize uint64
	MaxSize uint64
	TsRange base.TimeRange
}

// NewLevelInfo returns an empty level at the given tier number.
func NewLevelInfo(level uint32, maxSize uint64) *LevelInfo {
	return &LevelInfo{Level: level, MaxSize: maxSize}
}

// Apply appends a new ColumnFile built from delta, adds delta.FileSize to
// CurSize, and widens TsRange, extending the lower bound from delta.TsMin
// and the upper bound from delta.TsMax.
func (l *LevelInfo) Apply(delta *CompactMeta) {
	l.Files = append(l.Files, delta.File)
	l.CurSize += delta.FileSize

	if len(l.Files) == 1 {
		l.TsRange = base.NewTimeRange(delta.TsMin, delta.TsMax)
		return
	}
	if delta.TsMin < l.TsRange.MinTS {
		l.TsRange.MinTS = delta.TsMin
	}
	if delta.TsMax > l.TsRange.MaxTS {
		l.TsRange.MaxTS = delta.TsMax
	}
}

// LiveSize recomputes CurSize from scratch over non-deleted files, the
// ground truth CurSize is expected to track incrementally via Apply.
func (l *LevelInfo) LiveSize() uint64 {
	var sz uint64
	for _, f := range l.Files {
		if !f.Deleted() {
			sz += f.Size
		}
	}
	return sz
}

// Version is a snapshot of a family's on-disk levels, shared by every live
// SuperVersion that was published while it was current: Levels and the
// rest of the struct are treated as immutable by readers. maxLevelTS is
// the one exception, the highest timestamp already persisted to any level
// (the immutable-watermark the ingest path classifies samples against),
// and it is mutated in place when a family hands its immutable caches to
// flush so every holder of
// this *Version observes the new watermark. mu guards exactly that field.
type Version struct {
	ID      base.VersionID
	LastSeq uint64
	Name    string
	Levels  []*LevelInfo

	mu         sync.RWMutex
	maxLevelTS base.Timestamp
}

// NewVersion returns an empty Version with no persisted data yet: every
// level starts empty and MaxLevelTS is the ingest-bootstrap sentinel.
func NewVersion(id base.VersionID, name string, numLevels int, levelMaxSize uint64) *Version {
	v := &Version{
		ID:         id,
		Name:       name,
		maxLevelTS: base.NegInf,
		Levels:     make([]*LevelInfo, numLevels),
	}
	for i := range v.Levels {
		v.Levels[i] = NewLevelInfo(uint32(i), levelMaxSize)
	}
	return v
}

// MaxLevelTS returns the highest timestamp already persisted to any level.
func (v *Version) MaxLevelTS() base.Timestamp {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.maxLevelTS
}

// SetMaxLevelTS updates the highest timestamp already persisted to any
// level. Safe to call concurrently with MaxLevelTS from any goroutine
// holding a reference to this Version through an old SuperVersion.
func (v *Version) SetMaxLevelTS(ts base.Timestamp) {
	v.mu.Lock()
	v.maxLevelTS = ts
	v.mu.Unlock()
}

// TargetLevel picks the lowest level whose file set does not overlap r,
// adapted from the ingest-time target-level search a bulk-load path uses
// to place a new file as deep as possible without creating overlap:
// starting from level 1 and walking downward, the search stops at the
// first level holding an overlapping, non-deleted file, and the deepest
// level passed before it is the target; level 0 is the fallback when
// level 1 already overlaps, since it tolerates overlap by design.
func (v *Version) TargetLevel(r base.TimeRange) int {
	target := 0
	for lvl := 1; lvl < len(v.Levels); lvl++ {
		if v.levelOverlaps(lvl, r) {
			break
		}
		target = lvl
	}
	return target
}

func (v *Version) levelOverlaps(lvl int, r base.TimeRange) bool {
	if lvl < 0 || lvl >= len(v.Levels) {
		return false
	}
	for _, f := range v.Levels[lvl].Files {
		if f.Deleted() {
			continue
		}
		if f.Range.Overlaps(r) {
			return true
		}
	}
	return false
}
