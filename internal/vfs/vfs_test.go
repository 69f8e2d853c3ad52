package vfs

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemFSCreateWriteReadRoundTrip(t *testing.T) {
	fs := NewMemFS()

	w, err := fs.Create("/a/_000001.tsm")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	f, err := fs.Open("/a/_000001.tsm")
	require.NoError(t, err)
	defer f.Close()

	n, err := f.Len()
	require.NoError(t, err)
	require.Equal(t, int64(5), n)

	buf := make([]byte, 5)
	_, err = f.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf))
}

func TestMemFSCursorReadsFromStart(t *testing.T) {
	fs := NewMemFS()
	w, _ := fs.Create("/x")
	_, _ = w.Write([]byte("abcdef"))
	_ = w.Close()

	f, err := fs.Open("/x")
	require.NoError(t, err)
	cur, err := f.Cursor()
	require.NoError(t, err)

	got, err := io.ReadAll(cur)
	require.NoError(t, err)
	require.Equal(t, "abcdef", string(got))
}

func TestMemFSRemoveThenOpenFails(t *testing.T) {
	fs := NewMemFS()
	w, _ := fs.Create("/gone")
	_ = w.Close()

	require.NoError(t, fs.Remove("/gone"))
	_, err := fs.Open("/gone")
	require.Error(t, err)
}

func TestMemFSLockIsExclusive(t *testing.T) {
	fs := NewMemFS()
	lock, err := fs.Lock("/family/LOCK")
	require.NoError(t, err)

	_, err = fs.Lock("/family/LOCK")
	require.Error(t, err, "a second lock on the same path must fail")

	require.NoError(t, lock.Close())

	lock2, err := fs.Lock("/family/LOCK")
	require.NoError(t, err, "lock must be re-acquirable after release")
	require.NoError(t, lock2.Close())
}

func TestColumnFilePathConvention(t *testing.T) {
	got := ColumnFilePath("/tsm", 3, 1)
	require.Contains(t, got, "_000001.tsm")
}

func TestDeltaFilePathConvention(t *testing.T) {
	got := DeltaFilePath("/delta", 3, 1)
	require.Contains(t, got, "_000001.delta")
}
