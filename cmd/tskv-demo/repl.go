package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/cnosdb/tskv/internal/base"
)

func newReplCmd(maxMemCacheSize *uint64, maxImMemCacheNum *int) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively issue put/delete/stats commands against a family",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := newDemoState(*maxMemCacheSize, *maxImMemCacheNum)

			line := liner.NewLiner()
			defer line.Close()
			line.SetCtrlCAborts(true)

			var seq uint64
			for {
				input, err := line.Prompt("tskv> ")
				if err == io.EOF || err == liner.ErrPromptAborted {
					return nil
				}
				if err != nil {
					return err
				}
				input = strings.TrimSpace(input)
				if input == "" {
					continue
				}
				line.AppendHistory(input)

				if err := runReplCommand(state, &seq, input); err != nil {
					fmt.Println("error:", err)
				}
			}
		},
	}
}

func runReplCommand(state *demoState, seq *uint64, input string) error {
	fields := strings.Fields(input)
	switch fields[0] {
	case "put":
		if len(fields) != 3 {
			return fmt.Errorf("usage: put <ts> <value>")
		}
		ts, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return err
		}
		val, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return err
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, math.Float64bits(val))
		*seq++
		return state.family.Put(1, buf, base.Float, *seq, base.Timestamp(ts))

	case "delete":
		if len(fields) != 3 {
			return fmt.Errorf("usage: delete <min_ts> <max_ts>")
		}
		min, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return err
		}
		max, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return err
		}
		state.family.DeleteCache(base.NewTimeRange(base.Timestamp(min), base.Timestamp(max)))
		return nil

	case "stats":
		sv := state.family.SuperVersion()
		fmt.Printf("mut=%d delta=%d immut=%d version_id=%d immut_ts_min=%d mut_ts_max=%d\n",
			sv.MutCache.Size(), sv.DeltaMutCache.Size(), len(sv.ImmutCaches), sv.VersionID,
			state.family.ImmutTsMin(), state.family.MutTsMax())
		return nil

	default:
		return fmt.Errorf("unknown command %q (expected put/delete/stats)", fields[0])
	}
}
