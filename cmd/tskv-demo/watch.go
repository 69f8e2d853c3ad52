package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/cnosdb/tskv/internal/base"
)

func newWatchCmd(maxMemCacheSize *uint64, maxImMemCacheNum *int) *cobra.Command {
	var ticks int
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll family stats every tick and render mutable-cache growth",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := newDemoState(*maxMemCacheSize, *maxImMemCacheNum)
			rng := rand.New(rand.NewSource(1))

			var sizes []float64
			for i := 0; i < ticks; i++ {
				for j := 0; j < 20; j++ {
					buf := make([]byte, 8)
					binary.BigEndian.PutUint64(buf, math.Float64bits(rng.Float64()*10))
					ts := base.Timestamp(i*20 + j + 1)
					if err := state.family.Put(1, buf, base.Float, uint64(i*20+j+1), ts); err != nil {
						return err
					}
				}
				sv := state.family.SuperVersion()
				sizes = append(sizes, float64(sv.MutCache.Size()))
				time.Sleep(interval)
			}

			fmt.Println(asciigraph.Plot(sizes, asciigraph.Height(10), asciigraph.Caption("mutable cache size (bytes)")))
			return nil
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 30, "number of polling ticks")
	cmd.Flags().DurationVar(&interval, "interval", 100*time.Millisecond, "delay between ticks")
	return cmd
}
