package importer

import (
	"slices"

	"github.com/zeebo/xxh3"
)

// KeySet is a membership set of entity ids, stored as sorted 64-bit xxh3
// hashes. A few million ids take a few tens of megabytes. A hash collision
// can hide an orphan; it never invents one.
type KeySet struct {
	hashes []uint64
	sealed bool
}

// Add inserts id.
func (k *KeySet) Add(id string) {
	k.hashes = append(k.hashes, xxh3.HashString(id))
	k.sealed = false
}

// Has reports whether id was added. The first lookup after an Add sorts the
// set, so lookups are only cheap once loading is done.
func (k *KeySet) Has(id string) bool {
	if !k.sealed {
		k.seal()
	}
	_, ok := slices.BinarySearch(k.hashes, xxh3.HashString(id))
	return ok
}

// Len returns the number of distinct hashes.
func (k *KeySet) Len() int {
	if !k.sealed {
		k.seal()
	}
	return len(k.hashes)
}

func (k *KeySet) seal() {
	slices.Sort(k.hashes)
	k.hashes = slices.Compact(k.hashes)
	k.sealed = true
}
