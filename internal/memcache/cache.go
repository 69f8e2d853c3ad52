package memcache

import (
	"sync"

	"github.com/cnosdb/tskv/internal/base"
)

// Cache is an in-memory, per-family write buffer: a field-id -> Entry map
// with size accounting, a mutability flag, and the highest WAL sequence
// number ingested so far. It is guarded by its own RWMutex: writers
// (Insert, SwitchToImmutable, DeleteRange) take it exclusively, scanners
// take it shared.
type Cache struct {
	mu sync.RWMutex

	TfID       base.TseriesFamilyID
	SeqNo      uint64
	MaxBufSize uint64
	IsDelta    bool

	isImmutable bool
	dataCache   map[base.FieldID]*Entry
	cacheSize   uint64
}

// New returns an empty, mutable Cache for family tfID with the given byte
// budget. isDelta marks it as the family's delta (late-arrival) buffer
// rather than its in-order mutable buffer; the two are otherwise identical.
func New(tfID base.TseriesFamilyID, maxBufSize uint64, isDelta bool) *Cache {
	return &Cache{
		TfID:       tfID,
		MaxBufSize: maxBufSize,
		IsDelta:    isDelta,
		dataCache:  make(map[base.FieldID]*Entry),
	}
}

// InsertRaw decodes bytes as the big-endian encoding of typ, builds a Cell,
// and inserts it for fieldID, recording seq as the cache's new high-water
// sequence number. Returns base.ErrUnsupportedType if typ is base.Unknown.
func (c *Cache) InsertRaw(seq uint64, fieldID base.FieldID, ts base.Timestamp, typ base.ValueType, payload []byte) error {
	var cell Cell
	switch typ {
	case base.Unsigned:
		v, err := base.DecodeU64(payload)
		if err != nil {
			return err
		}
		cell = NewU64Cell(ts, v)
	case base.Integer:
		v, err := base.DecodeI64(payload)
		if err != nil {
			return err
		}
		cell = NewI64Cell(ts, v)
	case base.Float:
		v, err := base.DecodeF64(payload)
		if err != nil {
			return err
		}
		cell = NewF64Cell(ts, v)
	case base.Boolean:
		v, err := base.DecodeBool(payload)
		if err != nil {
			return err
		}
		cell = NewBoolCell(ts, v)
	case base.String:
		v, _ := base.DecodeBytes(payload)
		cell = NewBytesCell(ts, v)
	default:
		return base.ErrUnsupportedType
	}
	if err := c.Insert(fieldID, cell, typ); err != nil {
		return err
	}
	c.mu.Lock()
	c.SeqNo = seq
	c.mu.Unlock()
	return nil
}

// Insert locates or creates the Entry for fieldID, appends cell, and adds
// cell's byte footprint to the cache's approximate size. Returns
// base.ErrCacheFrozen if the cache has already been switched to immutable.
func (c *Cache) Insert(fieldID base.FieldID, cell Cell, typ base.ValueType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isImmutable {
		return base.ErrCacheFrozen
	}
	e, ok := c.dataCache[fieldID]
	if !ok {
		e = NewEntry()
		c.dataCache[fieldID] = e
	}
	e.Insert(cell)
	c.cacheSize += cell.Size()
	return nil
}

// DeleteRange applies DeleteRange(r) to every Entry named in fieldIDs that
// is present in the cache. Deletion is permitted even on an immutable
// cache: it only shrinks the cells slice a flush would read, never the
// cache's shape, so a flush in flight tolerates it (readers still take the
// write guard around the mutation, per the concurrency model).
func (c *Cache) DeleteRange(fieldIDs []base.FieldID, r base.TimeRange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range fieldIDs {
		if e, ok := c.dataCache[id]; ok {
			e.DeleteRange(r)
		}
	}
}

// DeleteRangeAll applies DeleteRange(r) to every entry currently present,
// regardless of field id. Used by TseriesFamily.DeleteCache, which deletes
// across a whole family rather than a specific field set.
func (c *Cache) DeleteRangeAll(r base.TimeRange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.dataCache {
		if e.Overlap(r) {
			e.DeleteRange(r)
		}
	}
}

// SwitchToImmutable sorts every Entry and marks the cache immutable. It is
// idempotent: calling it again on an already-immutable cache is a no-op.
func (c *Cache) SwitchToImmutable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isImmutable {
		return
	}
	for _, e := range c.dataCache {
		e.Sort()
	}
	c.isImmutable = true
}

// IsFull reports whether the cache's approximate size has reached its byte
// budget. This is the gating signal for rotation, not a hard allocation cap.
func (c *Cache) IsFull() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cacheSize >= c.MaxBufSize
}

// IsImmutable reports whether SwitchToImmutable has been called.
func (c *Cache) IsImmutable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isImmutable
}

// Size returns the cache's approximate byte footprint.
func (c *Cache) Size() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cacheSize
}

// SeqNumber returns the highest WAL sequence number inserted so far.
func (c *Cache) SeqNumber() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.SeqNo
}

// Entry returns the Entry for fieldID and whether it is present.
func (c *Cache) Entry(fieldID base.FieldID) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.dataCache[fieldID]
	return e, ok
}

// Range calls fn once per (fieldID, Entry) pair currently in the cache. fn
// must not call back into the cache: Range holds the read lock for its
// duration.
func (c *Cache) Range(fn func(fieldID base.FieldID, e *Entry)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for id, e := range c.dataCache {
		fn(id, e)
	}
}

// Len returns the number of fields with at least one cell ever inserted.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.dataCache)
}
