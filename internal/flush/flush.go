// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package flush holds the outbound handoff from the ingest/rotation
// controller to the background flush pipeline: FlushReq and the
// process-wide queue it is placed on.
package flush

import (
	"sync"

	"github.com/google/uuid"

	"github.com/cnosdb/tskv/internal/base"
	"github.com/cnosdb/tskv/internal/memcache"
)

// MemRef names one memcache staged for flush, paired with the family it
// belongs to.
type MemRef struct {
	TfID  base.TseriesFamilyID
	Cache *memcache.Cache
}

// Req is a batch of memcaches handed to the flush pipeline in one shot.
type Req struct {
	// ID identifies this request across log lines and metrics; it carries
	// no meaning beyond letting a flush pipeline correlate its own
	// "dispatched"/"completed" log pair for one request.
	ID uuid.UUID

	Mems []MemRef

	// WaitReq counts pending dependent requests a caller may be tracking;
	// the core never inspects it beyond carrying it through.
	WaitReq int32
}

// NewReq allocates a Req with a fresh ID.
func NewReq(mems []MemRef) *Req {
	return &Req{ID: uuid.New(), Mems: mems}
}

// Sink receives a wake whenever a Req is enqueued. Notify is a wake, not a
// payload copy; the sink is expected to read the queue itself via
// Queue.Drain.
type Sink interface {
	Notify()
}

// Queue is a single process-wide shared mutable sequence of flush
// requests, guarded by a short-critical-section mutex touched only to
// append and to hand the sink a wake. Treat it as a singleton initialized
// at startup and torn down on shutdown; never construct a second one for
// the same process, use Global.
type Queue struct {
	mu   sync.Mutex
	reqs []*Req
	sink Sink
}

var global = &Queue{}

// Global returns the process-wide flush queue singleton.
func Global() *Queue {
	return global
}

// SetSink installs the flush pipeline's wake target. Replacing it mid-flight
// is safe: the mutex serializes against concurrent Enqueue/Drain.
func (q *Queue) SetSink(sink Sink) {
	q.mu.Lock()
	q.sink = sink
	q.mu.Unlock()
}

// Enqueue appends req and wakes the sink, if one is installed. The critical
// section only appends; the sink's Notify is called outside the lock so a
// slow or blocking sink implementation cannot stall other families'
// enqueues.
func (q *Queue) Enqueue(req *Req) {
	q.mu.Lock()
	q.reqs = append(q.reqs, req)
	sink := q.sink
	q.mu.Unlock()

	if sink != nil {
		sink.Notify()
	}
}

// Drain removes and returns every request currently queued, leaving the
// queue empty. The flush pipeline calls this after waking to claim the
// current batch.
func (q *Queue) Drain() []*Req {
	q.mu.Lock()
	defer q.mu.Unlock()
	reqs := q.reqs
	q.reqs = nil
	return reqs
}

// Len reports the number of requests currently queued, for tests and
// metrics.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.reqs)
}

// NewQueue returns an independent queue, for use in tests that must not
// share state with the process-wide Global singleton.
func NewQueue() *Queue {
	return &Queue{}
}
