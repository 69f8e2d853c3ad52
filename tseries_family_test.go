package tskv

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cnosdb/tskv/internal/base"
	"github.com/cnosdb/tskv/internal/flush"
	"github.com/cnosdb/tskv/internal/manifest"
)

func beU64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func beF64(v float64) []byte {
	return beU64(math.Float64bits(v))
}

func newTestFamily(t *testing.T, maxMemCacheSize uint64, maxImMemCacheNum int) *TseriesFamily {
	t.Helper()
	opts := &Options{
		MaxMemCacheSize:  maxMemCacheSize,
		MaxImMemCacheNum: maxImMemCacheNum,
		TSMDir:           "/tsm",
		DeltaDir:         "/delta",
	}
	opts.EnsureDefaults()
	v := manifest.NewVersion(1, "test-family", 4, 1<<20)
	return NewTseriesFamily(1, opts, v, flush.NewQueue())
}

func TestPutRoutesByWatermark(t *testing.T) {
	tf := newTestFamily(t, 1<<20, 2)

	require.NoError(t, tf.Put(1, beF64(1), base.Float, 1, 100))
	require.NoError(t, tf.Put(1, beF64(2), base.Float, 2, 90))
	require.NoError(t, tf.Put(1, beF64(3), base.Float, 3, 110))

	sv := tf.SuperVersion()
	mutEntry, ok := sv.MutCache.Entry(1)
	require.True(t, ok)
	var mutTs []base.Timestamp
	for _, c := range mutEntry.Cells {
		mutTs = append(mutTs, c.Ts)
	}
	require.ElementsMatch(t, []base.Timestamp{100, 110}, mutTs)

	// The late sample landed in the delta cache, which the in-order put at
	// ts=110 then dispatched as a delta flush request.
	reqs := tf.flushQueue.Drain()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Mems, 1)
	deltaCache := reqs[0].Mems[0].Cache
	require.True(t, deltaCache.IsDelta)
	deltaEntry, ok := deltaCache.Entry(1)
	require.True(t, ok)
	require.Len(t, deltaEntry.Cells, 1)
	require.Equal(t, base.Timestamp(90), deltaEntry.Cells[0].Ts)

	require.Equal(t, base.Timestamp(100), tf.ImmutTsMin())
	require.Equal(t, base.Timestamp(110), tf.MutTsMax())
}

func TestPutRotatesMutableCacheBySize(t *testing.T) {
	tf := newTestFamily(t, 64, 2)
	q := tf.flushQueue

	for i := 0; i < 40; i++ {
		require.NoError(t, tf.Put(1, beF64(float64(i)), base.Float, uint64(i+1), base.Timestamp(i+1)))
	}

	require.Greater(t, q.Len(), 0, "expected at least one immutable flush request enqueued")
}

// seq_no tracks the highest sequence number Put has observed, monotonically.
func TestPutSeqNoMonotonic(t *testing.T) {
	tf := newTestFamily(t, 1<<20, 2)
	for i := uint64(1); i <= 10; i++ {
		require.NoError(t, tf.Put(1, beF64(float64(i)), base.Float, i, base.Timestamp(i)))
	}
	require.Equal(t, uint64(10), tf.SeqNumber())
}

func TestPutPublishesNewSuperVersionOnRotation(t *testing.T) {
	tf := newTestFamily(t, 64, 100)

	sv0 := tf.SuperVersion()

	for i := 0; i < 20; i++ {
		require.NoError(t, tf.Put(1, beF64(float64(i)), base.Float, uint64(i+1), base.Timestamp(i+1)))
	}

	sv1 := tf.SuperVersion()
	require.NotSame(t, sv0, sv1)
	require.Greater(t, sv1.VersionID, sv0.VersionID)
	require.NotSame(t, sv0.MutCache, sv1.MutCache, "rotation should have swapped in a fresh mutable cache")
	require.True(t, sv0.MutCache.IsImmutable(), "the old mutable cache is now frozen, not mutated further")
}

func TestPutFlushesDeltaOnInOrderArrival(t *testing.T) {
	tf := newTestFamily(t, 1<<20, 100)
	q := tf.flushQueue

	require.NoError(t, tf.Put(1, beF64(1), base.Float, 1, 100)) // bootstraps watermark to 100
	require.NoError(t, tf.Put(1, beF64(2), base.Float, 2, 50))  // late: lands in delta
	require.Equal(t, 0, q.Len())

	require.NoError(t, tf.Put(1, beF64(3), base.Float, 3, 110)) // in-order: triggers delta flush

	require.Equal(t, 1, q.Len())
	reqs := q.Drain()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Mems, 1)

	sv := tf.SuperVersion()
	require.Equal(t, 0, sv.DeltaMutCache.Len(), "delta cache must be replaced with a fresh empty one")
}

func TestDeleteCacheAppliesAcrossAllTiers(t *testing.T) {
	tf := newTestFamily(t, 1<<20, 100)
	for ts := base.Timestamp(1); ts <= 20; ts++ {
		require.NoError(t, tf.Put(1, beF64(float64(ts)), base.Float, uint64(ts), ts))
	}

	tf.DeleteCache(base.NewTimeRange(5, 10))

	sv := tf.SuperVersion()
	e, _ := sv.MutCache.Entry(1)
	for _, c := range e.Cells {
		require.True(t, c.Ts < 5 || c.Ts > 10)
	}
}
