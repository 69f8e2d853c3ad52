package memcache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cnosdb/tskv/internal/base"
)

func TestEntryInsertWidensBounds(t *testing.T) {
	e := NewEntry()
	e.Insert(NewF64Cell(100, 1.0))
	e.Insert(NewF64Cell(90, 2.0))
	e.Insert(NewF64Cell(110, 3.0))

	require.Equal(t, base.Timestamp(90), e.TsMin)
	require.Equal(t, base.Timestamp(110), e.TsMax)
	require.Equal(t, base.Float, e.FieldType)
	require.Len(t, e.Cells, 3)
	// Insert never sorts.
	require.Equal(t, base.Timestamp(100), e.Cells[0].Ts)
}

func TestEntrySortIsStableAscending(t *testing.T) {
	e := NewEntry()
	for _, ts := range []base.Timestamp{5, 1, 3, 1, 2} {
		e.Insert(NewI64Cell(ts, int64(ts)))
	}
	e.Sort()

	got := make([]base.Timestamp, len(e.Cells))
	for i, c := range e.Cells {
		got[i] = c.Ts
	}
	require.Equal(t, []base.Timestamp{1, 1, 2, 3, 5}, got)
}

// delete-in-range over 1000 samples ts=1..1000 removes exactly
// 1000 - 101 = 899, leaving only cells outside [100,200].
func TestEntryDeleteRangeClosedInterval(t *testing.T) {
	e := NewEntry()
	for ts := base.Timestamp(1); ts <= 1000; ts++ {
		e.Insert(NewF64Cell(ts, float64(ts)))
	}

	e.DeleteRange(base.NewTimeRange(100, 200))

	require.Len(t, e.Cells, 1000-101)
	for _, c := range e.Cells {
		require.True(t, c.Ts < 100 || c.Ts > 200)
	}
}

// delete_range is idempotent: applying it twice matches applying it once.
func TestEntryDeleteRangeIdempotent(t *testing.T) {
	mk := func() *Entry {
		e := NewEntry()
		for ts := base.Timestamp(1); ts <= 50; ts++ {
			e.Insert(NewI64Cell(ts, int64(ts)))
		}
		return e
	}

	once := mk()
	once.DeleteRange(base.NewTimeRange(10, 20))

	twice := mk()
	twice.DeleteRange(base.NewTimeRange(10, 20))
	twice.DeleteRange(base.NewTimeRange(10, 20))

	require.Equal(t, once.Cells, twice.Cells)
}

func TestEntryDeleteRangeDoesNotRecomputeBounds(t *testing.T) {
	e := NewEntry()
	e.Insert(NewI64Cell(1, 1))
	e.Insert(NewI64Cell(50, 50))
	e.Insert(NewI64Cell(100, 100))

	e.DeleteRange(base.NewTimeRange(90, 110))

	// Bounds remain the pre-delete extremes: valid upper/lower bounds for
	// read filtering even though ts=100 is now gone.
	require.Equal(t, base.Timestamp(1), e.TsMin)
	require.Equal(t, base.Timestamp(100), e.TsMax)
}

// overlap is symmetric.
func TestEntryOverlapSymmetric(t *testing.T) {
	e := NewEntry()
	e.Insert(NewI64Cell(10, 0))
	e.Insert(NewI64Cell(20, 0))

	r := base.NewTimeRange(15, 25)
	require.Equal(t, e.Overlap(r), r.Overlaps(base.NewTimeRange(e.TsMin, e.TsMax)))
}

func TestEntryIsEmpty(t *testing.T) {
	e := NewEntry()
	require.True(t, e.IsEmpty())
	e.Insert(NewBoolCell(0, true))
	require.False(t, e.IsEmpty())
}

func TestEntryReadCellClosedInterval(t *testing.T) {
	e := NewEntry()
	for ts := base.Timestamp(1); ts <= 10; ts++ {
		e.Insert(NewI64Cell(ts, int64(ts)))
	}

	got := e.ReadCell(base.NewTimeRange(3, 5))
	require.Len(t, got, 3)
	for _, c := range got {
		require.GreaterOrEqual(t, c.Ts, base.Timestamp(3))
		require.LessOrEqual(t, c.Ts, base.Timestamp(5))
	}
}
