// Package idgen derives deterministic identifiers from xxHash64, the
// same hashing primitive the teacher package uses for metric IDs. It
// is not a cryptographic or collision-free UUID generator; real UUID
// generation is an external collaborator per the trace writer's scope.
package idgen

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of data, used for O(1) name-keyed lookups
// (event-class and stream-class names) alongside the authoritative
// string map.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// UUIDFromSeed folds two xxHash64 passes over seed into a 16-byte array
// suitable as a deterministic stand-in trace UUID when the caller has
// no external UUID source. Same seed always yields the same bytes.
func UUIDFromSeed(seed string) [16]byte {
	var out [16]byte

	h1 := xxhash.Sum64String(seed)
	h2 := xxhash.Sum64String(seed + "\x00salt")

	for i := 0; i < 8; i++ {
		out[i] = byte(h1 >> (8 * i))
		out[8+i] = byte(h2 >> (8 * i))
	}

	return out
}
