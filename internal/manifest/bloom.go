// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package manifest

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// bloomBits is the fixed width of a ColumnFile's field-id membership
// filter, per the persisted-state layout: a 512-bit bloom filter keyed by
// big-endian field_id bytes.
const bloomBits = 512

// bloomHashCount is the number of independent bit positions set per added
// key. A fixed filter width and hash count (rather than the expected-items
// sizing formula a general-purpose bloom filter would use) is appropriate
// here: every ColumnFile filter is the same fixed 512 bits by construction.
const bloomHashCount = 7

// FieldBloomFilter is a fixed-width bloom filter over field ids, using
// double hashing (two independent 64-bit digests combined as
// h1 + i*h2) to derive bloomHashCount bit positions per key, substituting
// cespare/xxhash/v2 for the fnv digests a general-purpose implementation in
// the pack uses, matching the hash dependency already in this module's
// stack.
type FieldBloomFilter struct {
	bits [bloomBits]bool
}

// NewFieldBloomFilter returns an empty filter.
func NewFieldBloomFilter() *FieldBloomFilter {
	return &FieldBloomFilter{}
}

// Add sets the bloomHashCount bit positions derived from the big-endian
// encoding of fieldID.
func (f *FieldBloomFilter) Add(fieldID uint64) {
	h1, h2 := bloomDigests(fieldID)
	for i := 0; i < bloomHashCount; i++ {
		pos := (h1 + uint64(i)*h2) % bloomBits
		f.bits[pos] = true
	}
}

// MayContain reports whether fieldID could be present in the filter. A
// false result is definitive; a true result may be a false positive.
func (f *FieldBloomFilter) MayContain(fieldID uint64) bool {
	h1, h2 := bloomDigests(fieldID)
	for i := 0; i < bloomHashCount; i++ {
		pos := (h1 + uint64(i)*h2) % bloomBits
		if !f.bits[pos] {
			return false
		}
	}
	return true
}

func bloomDigests(fieldID uint64) (h1, h2 uint64) {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], fieldID)
	h1 = xxhash.Sum64(key[:])
	// Second digest: hash the first digest's bytes so it is independent
	// of h1 while still deterministic for the same key.
	var seed [8]byte
	binary.BigEndian.PutUint64(seed[:], h1)
	h2 = xxhash.Sum64(seed[:])
	if h2 == 0 {
		h2 = 1 // avoid degenerating to a single probed position
	}
	return h1, h2
}
