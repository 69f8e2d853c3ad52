package manifest

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/kr/pretty"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"

	"github.com/cnosdb/tskv/internal/base"
)

func TestJournalAppendAndReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	j := NewJournal(&buf)

	edits := []*VersionEdit{
		{Level: 1, Delta: CompactMeta{
			File:     NewColumnFile(1, base.NewTimeRange(0, 100), 10, false),
			FileSize: 10, TsMin: 0, TsMax: 100,
		}},
		{Level: 1, Delta: CompactMeta{
			File:     NewColumnFile(2, base.NewTimeRange(50, 150), 20, false),
			FileSize: 20, TsMin: 50, TsMax: 150,
		}},
	}
	for _, e := range edits {
		require.NoError(t, j.Append(e))
	}

	got, err := ReadAll(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, edits[0].Delta.File.FileID, got[0].Delta.File.FileID)
	require.Equal(t, edits[1].Delta.TsMax, got[1].Delta.TsMax)
}

func TestSnapshotEncodeDecodeRoundTrip(t *testing.T) {
	v := NewVersion(7, "family-7", 3, 1<<20)
	v.Levels[0].Apply(&CompactMeta{
		File:     NewColumnFile(1, base.NewTimeRange(1, 9), 8, false),
		FileSize: 8, TsMin: 1, TsMax: 9,
	})
	v.SetMaxLevelTS(9)
	v.LastSeq = 42

	compressed, err := EncodeSnapshot(v)
	require.NoError(t, err)

	got, err := DecodeSnapshot(compressed)
	require.NoError(t, err)
	require.Equal(t, v.ID, got.ID)
	require.Equal(t, v.LastSeq, got.LastSeq)
	require.Equal(t, v.MaxLevelTS(), got.MaxLevelTS())
	require.Equal(t, v.Levels[0].CurSize, got.Levels[0].CurSize)
	require.Equal(t, v.Levels[0].TsRange, got.Levels[0].TsRange)
}

// dumpVersion renders v with kr/pretty, matching the format a debug-bundle
// dump in cmd/tskv-demo's inspect command would produce.
func dumpVersion(v *Version) string {
	return fmt.Sprintf("%# v", pretty.Formatter(v))
}

// TestSnapshotRoundTripPreservesDump diffs two kr/pretty dumps of a Version
// with go-difflib when a round trip produces an unexpected mismatch,
// giving a human-readable unified diff instead of a raw struct dump.
func TestSnapshotRoundTripPreservesDump(t *testing.T) {
	v := NewVersion(1, "f", 2, 1<<20)
	v.Levels[0].Apply(&CompactMeta{
		File:     NewColumnFile(1, base.NewTimeRange(1, 2), 1, false),
		FileSize: 1, TsMin: 1, TsMax: 2,
	})

	compressed, err := EncodeSnapshot(v)
	require.NoError(t, err)
	got, err := DecodeSnapshot(compressed)
	require.NoError(t, err)

	wantDump := dumpVersion(v)
	gotDump := dumpVersion(got)
	if wantDump != gotDump {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(wantDump),
			B:        difflib.SplitLines(gotDump),
			FromFile: "want",
			ToFile:   "got",
			Context:  2,
		})
		t.Fatalf("version dump mismatch after snapshot round-trip:\n%s", diff)
	}
}
