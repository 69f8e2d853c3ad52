package memcache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cnosdb/tskv/internal/base"
)

func TestCellSizeAccountsForPayload(t *testing.T) {
	small := NewU64Cell(1, 42)
	large := NewBytesCell(1, make([]byte, 4096))

	require.Less(t, small.Size(), large.Size())
	require.GreaterOrEqual(t, large.Size(), uint64(4096))
}

func TestCellConstructorsTagCorrectly(t *testing.T) {
	require.Equal(t, base.Unsigned, NewU64Cell(0, 0).Type)
	require.Equal(t, base.Integer, NewI64Cell(0, 0).Type)
	require.Equal(t, base.Float, NewF64Cell(0, 0).Type)
	require.Equal(t, base.Boolean, NewBoolCell(0, false).Type)
	require.Equal(t, base.String, NewBytesCell(0, nil).Type)
}
