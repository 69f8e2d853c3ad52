package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/cnosdb/tskv/internal/base"
)

func newIngestCmd(maxMemCacheSize *uint64, maxImMemCacheNum *int) *cobra.Command {
	var count int
	var outOfOrderPct int
	var seed int64

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Feed a synthetic, optionally out-of-order stream of samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := newDemoState(*maxMemCacheSize, *maxImMemCacheNum)
			rng := rand.New(rand.NewSource(seed))

			var ts base.Timestamp
			prevImmutCount := 0
			for i := 0; i < count; i++ {
				ts++
				sampleTs := ts
				if rng.Intn(100) < outOfOrderPct {
					sampleTs -= base.Timestamp(rng.Intn(50) + 1)
				}

				buf := make([]byte, 8)
				binary.BigEndian.PutUint64(buf, math.Float64bits(rng.Float64()*100))
				if err := state.family.Put(1, buf, base.Float, uint64(i+1), sampleTs); err != nil {
					return fmt.Errorf("put failed at sample %d: %w", i, err)
				}

				sv := state.family.SuperVersion()
				if n := len(sv.ImmutCaches); n != prevImmutCount {
					fmt.Printf("rotation: immutable count now %d (version_id=%d)\n", n, sv.VersionID)
					prevImmutCount = n
				}
				if state.queue.Len() > 0 {
					reqs := state.queue.Drain()
					fmt.Printf("flush dispatched: %d request(s)\n", len(reqs))
				}
			}
			fmt.Printf("done: %d samples ingested, seq=%d\n", count, state.family.SeqNumber())
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 1000, "number of samples to ingest")
	cmd.Flags().IntVar(&outOfOrderPct, "out-of-order-pct", 5, "percent chance a sample arrives late")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for the synthetic stream")
	return cmd
}
