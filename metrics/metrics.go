// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package metrics defines the Recorder interface TseriesFamily reports its
// ingest/rotation/flush activity through. Telemetry internals are out of
// scope for the core write path; it only depends on this interface, so any
// concrete backend, or none at all, can be plugged in without touching
// ingest logic.
package metrics

import "time"

// Recorder observes ingest/rotation/flush events. All methods must be safe
// for concurrent use: multiple families call into the same Recorder
// instance in parallel.
type Recorder interface {
	// ObservePut records the latency of one TseriesFamily.Put call.
	ObservePut(d time.Duration)
	// IncRotation counts one mutable-to-immutable rotation.
	IncRotation()
	// IncFlushDispatch counts one FlushReq enqueue, tagged by whether it
	// was a delta (out-of-order) flush or an immutable flush.
	IncFlushDispatch(isDelta bool)
	// SetImmutableCount reports the current length of a family's
	// immutable cache list, for gauge-style dashboards.
	SetImmutableCount(n int)
}

// Nop is a Recorder that discards every observation. It is the default
// when no concrete backend is configured.
type Nop struct{}

func (Nop) ObservePut(time.Duration)    {}
func (Nop) IncRotation()                {}
func (Nop) IncFlushDispatch(bool)       {}
func (Nop) SetImmutableCount(int)       {}

var _ Recorder = Nop{}
