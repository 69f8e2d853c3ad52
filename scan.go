package tskv

import (
	"github.com/cnosdb/tskv/internal/base"
	"github.com/cnosdb/tskv/internal/memcache"
)

// ScanField reads every cell for fieldID within r, observed through sv:
// mutable, then delta-mutable, then immutables oldest-to-newest. Samples
// from later sources with the same timestamp are not deduplicated here;
// that is the flush-merge pipeline's job (internal/tsm.MergeBlocks). A
// direct memory-tier scan simply concatenates what each tier holds.
//
// On-disk levels are not walked by this function; sv.Version is available
// to a caller that wants to continue the scan into
// internal/manifest/internal/tsm itself.
func ScanField(sv *SuperVersion, fieldID base.FieldID, r base.TimeRange) []memcache.Cell {
	var out []memcache.Cell

	appendFrom := func(c *memcache.Cache) {
		e, ok := c.Entry(fieldID)
		if !ok {
			return
		}
		out = append(out, e.ReadCell(r)...)
	}

	appendFrom(sv.MutCache)
	appendFrom(sv.DeltaMutCache)
	for _, immut := range sv.ImmutCaches {
		appendFrom(immut)
	}

	return out
}
