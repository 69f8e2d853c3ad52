// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tskv

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cnosdb/tskv/internal/base"
	"github.com/cnosdb/tskv/internal/flush"
	"github.com/cnosdb/tskv/internal/manifest"
	"github.com/cnosdb/tskv/internal/memcache"
)

// TseriesFamily is the ingest router, watermark owner, rotation
// controller, and flush dispatcher for one time-series family. Put is
// logically single-threaded per family: TseriesFamily
// serializes it internally with mu, so multiple families run independently
// in parallel while a single family's writes stay linearizable in ingest
// order.
type TseriesFamily struct {
	TfID base.TseriesFamilyID

	opts       *Options
	flushQueue *flush.Queue

	mu sync.Mutex // guards everything below except superVersion/superVersionID

	seqNo      uint64
	immutTsMin base.Timestamp
	mutTsMax   base.Timestamp

	mutCache      *memcache.Cache
	deltaMutCache *memcache.Cache
	immutCaches   []*memcache.Cache
	version       *manifest.Version

	superVersion   atomic.Pointer[SuperVersion]
	superVersionID atomic.Uint64
}

// NewTseriesFamily constructs a family over an initial on-disk version.
// immutTsMin bootstraps from version.MaxLevelTS(): base.NegInf if no flush
// has ever persisted data for this family, in which case the first Put
// bootstraps it from that sample's own timestamp.
func NewTseriesFamily(tfID base.TseriesFamilyID, opts *Options, version *manifest.Version, flushQueue *flush.Queue) *TseriesFamily {
	opts.EnsureDefaults()
	tf := &TseriesFamily{
		TfID:          tfID,
		opts:          opts,
		flushQueue:    flushQueue,
		immutTsMin:    version.MaxLevelTS(),
		mutTsMax:      base.NegInf,
		mutCache:      memcache.New(tfID, opts.MaxMemCacheSize, false),
		deltaMutCache: memcache.New(tfID, opts.MaxMemCacheSize, true),
		version:       version,
	}
	tf.publish()
	return tf
}

// publish builds a new SuperVersion from the family's current state and
// atomically swaps it in, bumping the monotone version id. Must be called
// with mu held.
func (tf *TseriesFamily) publish() {
	id := tf.superVersionID.Add(1)
	sv := newSuperVersion(base.VersionID(id), tf.mutCache, tf.deltaMutCache, tf.immutCaches, tf.version, id)
	tf.superVersion.Store(sv)
	tf.opts.Recorder.SetImmutableCount(len(tf.immutCaches))
}

// SuperVersion returns the family's current immutable snapshot. Safe to
// call concurrently with Put: the atomic pointer load is the only
// synchronization needed.
func (tf *TseriesFamily) SuperVersion() *SuperVersion {
	return tf.superVersion.Load()
}

// Put ingests one sample. payload is decoded as the big-endian encoding
// of typ; seq is the WAL sequence number accompanying this write, treated
// as opaque monotone metadata.
func (tf *TseriesFamily) Put(fieldID base.FieldID, payload []byte, typ base.ValueType, seq uint64, ts base.Timestamp) error {
	start := time.Now()
	defer func() { tf.opts.Recorder.ObservePut(time.Since(start)) }()

	tf.mu.Lock()
	defer tf.mu.Unlock()

	// 1. First-sample bootstrap of the watermark.
	if tf.immutTsMin == base.NegInf {
		tf.immutTsMin = ts
	}

	inOrder := ts >= tf.immutTsMin

	// 2/3. Route to mutable or delta based on the watermark.
	var err error
	if inOrder {
		if ts > tf.mutTsMax {
			tf.mutTsMax = ts
		}
		err = tf.mutCache.InsertRaw(seq, fieldID, ts, typ, payload)
	} else {
		err = tf.deltaMutCache.InsertRaw(seq, fieldID, ts, typ, payload)
	}
	if err != nil {
		// Decode/type errors are returned to the caller, never silenced:
		// the caller (WAL replay or RPC) decides whether to skip or abort.
		return err
	}
	tf.seqNo = seq

	// 4. A well-ordered write arrived while late writes are pending:
	// ship the accumulated delta independently.
	if inOrder && tf.deltaMutCache.Len() > 0 {
		tf.wrapDeltaFlushReqLocked()
	}

	// 5. Mutable rotation, and immutable-batch flush dispatch once the
	// immutable list is deep enough.
	if tf.mutCache.IsFull() {
		tf.rotateMutableLocked()
		if len(tf.immutCaches) >= tf.opts.MaxImMemCacheNum {
			tf.immutTsMin = tf.mutTsMax
			tf.version.SetMaxLevelTS(tf.mutTsMax)
			tf.wrapFlushReqLocked()
		}
	}

	// 6. Delta buffer rotation by size, independent of watermark crossing.
	if tf.deltaMutCache.IsFull() {
		tf.wrapDeltaFlushReqLocked()
	}

	return nil
}

// rotateMutableLocked freezes the current mutable cache, pushes it onto
// the immutable list, and allocates a fresh mutable cache inheriting
// TfID/MaxBufSize/seqNo. Must be called with mu held.
func (tf *TseriesFamily) rotateMutableLocked() {
	tf.mutCache.SwitchToImmutable()
	tf.immutCaches = append(tf.immutCaches, tf.mutCache)

	fresh := memcache.New(tf.TfID, tf.opts.MaxMemCacheSize, false)
	fresh.SeqNo = tf.seqNo
	tf.mutCache = fresh

	tf.publish()
	tf.opts.Recorder.IncRotation()
}

// wrapFlushReqLocked drains the entire immutable list into a flush request
// and dispatches it. Must be called with mu held.
func (tf *TseriesFamily) wrapFlushReqLocked() {
	mems := make([]flush.MemRef, len(tf.immutCaches))
	for i, c := range tf.immutCaches {
		mems[i] = flush.MemRef{TfID: tf.TfID, Cache: c}
	}
	tf.immutCaches = nil

	tf.publish()
	tf.flushQueue.Enqueue(flush.NewReq(mems))
	tf.opts.Recorder.IncFlushDispatch(false)
}

// wrapDeltaFlushReqLocked takes the current delta cache, replaces it with
// a fresh one, and dispatches the old one as a single-member flush request.
// Must be called with mu held.
func (tf *TseriesFamily) wrapDeltaFlushReqLocked() {
	old := tf.deltaMutCache
	old.SwitchToImmutable()

	fresh := memcache.New(tf.TfID, tf.opts.MaxMemCacheSize, true)
	fresh.SeqNo = tf.seqNo
	tf.deltaMutCache = fresh

	tf.publish()
	tf.flushQueue.Enqueue(flush.NewReq([]flush.MemRef{{TfID: tf.TfID, Cache: old}}))
	tf.opts.Recorder.IncFlushDispatch(true)
}

// DeleteCache applies DeleteRange(r) to the mutable cache, the delta
// cache, and every immutable cache. Deletion on an immutable cache is
// permitted: it only shrinks the cells a flush would read, never the
// cache's shape, so this never races with a flush in flight beyond the
// per-cache write guard each Cache already takes.
func (tf *TseriesFamily) DeleteCache(r base.TimeRange) {
	tf.mu.Lock()
	defer tf.mu.Unlock()

	tf.mutCache.DeleteRangeAll(r)
	tf.deltaMutCache.DeleteRangeAll(r)
	for _, c := range tf.immutCaches {
		c.DeleteRangeAll(r)
	}
}

// ImmutTsMin returns the family's current immutable watermark.
func (tf *TseriesFamily) ImmutTsMin() base.Timestamp {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return tf.immutTsMin
}

// MutTsMax returns the highest timestamp observed by the mutable buffer
// this epoch.
func (tf *TseriesFamily) MutTsMax() base.Timestamp {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return tf.mutTsMax
}

// SeqNumber returns the highest WAL sequence number ingested so far.
func (tf *TseriesFamily) SeqNumber() uint64 {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return tf.seqNo
}
