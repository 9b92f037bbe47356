package random

import (
	"math"

	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

// Seed returns a fresh seed from the system's entropy pool.
func Seed() uint64 {
	return frand.Uint64n(math.MaxUint64)
}

// New returns a generator producing the same stream for the same seed. A zero seed is
// replaced by Seed().
func New(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = Seed()
	}
	return rand.New(rand.NewSource(seed))
}
