package tskv

import (
	"github.com/cnosdb/tskv/internal/base"
	"github.com/cnosdb/tskv/internal/manifest"
	"github.com/cnosdb/tskv/internal/memcache"
)

// SuperVersion is an immutable snapshot bundling a family's memory tiers
// and its on-disk Version: {mut_cache, delta_mut_cache, immut_caches[],
// version}. It is never mutated after construction; TseriesFamily builds a
// new one and atomically swaps the single reference it holds on every
// rotation or flush dispatch, so a reader taking one reference sees a
// stable, coherent cut across all of its fields for as long as it holds
// that reference.
type SuperVersion struct {
	ID base.VersionID

	MutCache      *memcache.Cache
	DeltaMutCache *memcache.Cache
	ImmutCaches   []*memcache.Cache
	Version       *manifest.Version

	VersionID uint64
}

// newSuperVersion builds a SuperVersion snapshot. immutCaches is copied so
// the caller's backing array can keep growing (or be replaced) without
// retroactively mutating an already-published snapshot.
func newSuperVersion(id base.VersionID, mut, deltaMut *memcache.Cache, immut []*memcache.Cache, v *manifest.Version, versionID uint64) *SuperVersion {
	immutCopy := make([]*memcache.Cache, len(immut))
	copy(immutCopy, immut)
	return &SuperVersion{
		ID:            id,
		MutCache:      mut,
		DeltaMutCache: deltaMut,
		ImmutCaches:   immutCopy,
		Version:       v,
		VersionID:     versionID,
	}
}
