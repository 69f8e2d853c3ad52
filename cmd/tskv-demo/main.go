// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Command tskv-demo drives a TseriesFamily from the command line: feed it
// synthetic load, dump its current snapshot, watch its growth, or issue
// commands interactively.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cnosdb/tskv"
	"github.com/cnosdb/tskv/internal/flush"
	"github.com/cnosdb/tskv/internal/manifest"
)

// demoState is the single family every subcommand operates on, for the
// purposes of this demo binary.
type demoState struct {
	family *tskv.TseriesFamily
	queue  *flush.Queue
}

func newDemoState(maxMemCacheSize uint64, maxImMemCacheNum int) *demoState {
	opts := (&tskv.Options{
		MaxMemCacheSize:  maxMemCacheSize,
		MaxImMemCacheNum: maxImMemCacheNum,
		TSMDir:           "tsm",
		DeltaDir:         "delta",
	}).EnsureDefaults()
	q := flush.NewQueue()
	v := manifest.NewVersion(1, "demo", 4, 1<<20)
	return &demoState{
		family: tskv.NewTseriesFamily(1, opts, v, q),
		queue:  q,
	}
}

func main() {
	root := &cobra.Command{
		Use:   "tskv-demo",
		Short: "Drive a tskv TseriesFamily from the command line",
	}

	var maxMemCacheSize uint64
	var maxImMemCacheNum int
	root.PersistentFlags().Uint64Var(&maxMemCacheSize, "max-memcache-size", 4096, "byte budget per memcache")
	root.PersistentFlags().IntVar(&maxImMemCacheNum, "max-immemcache-num", 4, "immutable cache count threshold")

	root.AddCommand(
		newIngestCmd(&maxMemCacheSize, &maxImMemCacheNum),
		newInspectCmd(&maxMemCacheSize, &maxImMemCacheNum),
		newWatchCmd(&maxMemCacheSize, &maxImMemCacheNum),
		newReplCmd(&maxMemCacheSize, &maxImMemCacheNum),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
