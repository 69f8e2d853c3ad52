package memcache

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cnosdb/tskv/internal/base"
)

func beU64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func TestCacheInsertRawUnsupportedType(t *testing.T) {
	c := New(1, 1024, false)
	err := c.InsertRaw(1, 1, 0, base.Unknown, nil)
	require.ErrorIs(t, err, base.ErrUnsupportedType)
}

func TestCacheInsertRawDecodesBigEndian(t *testing.T) {
	c := New(1, 1024, false)
	require.NoError(t, c.InsertRaw(1, 1, 100, base.Unsigned, beU64(42)))

	e, ok := c.Entry(1)
	require.True(t, ok)
	require.Len(t, e.Cells, 1)
	require.Equal(t, uint64(42), e.Cells[0].U64)
}

func TestCacheInsertRawShortBufferIsDecodeError(t *testing.T) {
	c := New(1, 1024, false)
	err := c.InsertRaw(1, 1, 100, base.Unsigned, []byte{1, 2, 3})
	require.ErrorIs(t, err, base.ErrDecode)
}

func TestCacheInsertRejectedWhenFrozen(t *testing.T) {
	c := New(1, 1024, false)
	c.SwitchToImmutable()

	err := c.Insert(1, NewI64Cell(0, 0), base.Integer)
	require.ErrorIs(t, err, base.ErrCacheFrozen)
}

func TestCacheSwitchToImmutableIsIdempotent(t *testing.T) {
	c := New(1, 1024, false)
	require.NoError(t, c.Insert(1, NewI64Cell(5, 1), base.Integer))
	require.NoError(t, c.Insert(1, NewI64Cell(1, 1), base.Integer))

	c.SwitchToImmutable()
	c.SwitchToImmutable() // no-op, must not panic or re-sort incorrectly

	e, _ := c.Entry(1)
	require.Equal(t, base.Timestamp(1), e.Cells[0].Ts)
}

func TestCacheSeqNoMonotonic(t *testing.T) {
	c := New(1, 1024, false)
	require.NoError(t, c.InsertRaw(5, 1, 0, base.Unsigned, beU64(1)))
	require.NoError(t, c.InsertRaw(9, 1, 1, base.Unsigned, beU64(2)))
	require.Equal(t, uint64(9), c.SeqNumber())
}

func TestCacheIsFullGatesOnSize(t *testing.T) {
	c := New(1, 10, false)
	require.False(t, c.IsFull())
	require.NoError(t, c.Insert(1, NewI64Cell(0, 0), base.Integer))
	require.True(t, c.IsFull())
}

func TestCacheSizeAccountsForStringPayload(t *testing.T) {
	c := New(1, 1<<20, false)
	require.NoError(t, c.Insert(1, NewBytesCell(0, make([]byte, 500)), base.String))
	require.GreaterOrEqual(t, c.Size(), uint64(500))
}

func TestCacheDeleteRangeOnImmutableCacheIsPermitted(t *testing.T) {
	c := New(1, 1<<20, false)
	for ts := base.Timestamp(1); ts <= 10; ts++ {
		require.NoError(t, c.Insert(1, NewI64Cell(ts, int64(ts)), base.Integer))
	}
	c.SwitchToImmutable()

	c.DeleteRange([]base.FieldID{1}, base.NewTimeRange(3, 5))

	e, _ := c.Entry(1)
	require.Len(t, e.Cells, 7)
}
