package tskv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cnosdb/tskv/internal/manifest"
	"github.com/cnosdb/tskv/internal/memcache"
)

func TestNewSuperVersionCopiesImmutableSlice(t *testing.T) {
	mut := memcache.New(1, 1024, false)
	delta := memcache.New(1, 1024, true)
	immut := []*memcache.Cache{memcache.New(1, 1024, false)}
	v := manifest.NewVersion(1, "f", 2, 1<<20)

	sv := newSuperVersion(1, mut, delta, immut, v, 1)

	immut = append(immut, memcache.New(1, 1024, false))
	require.Len(t, sv.ImmutCaches, 1, "appending to the caller's slice must not retroactively grow a published snapshot")
}
