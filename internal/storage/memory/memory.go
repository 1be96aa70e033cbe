// Package memory provides in-process implementations of the storage
// contracts, used in dev mode (seeded with fake data) and in tests.
package memory

import (
	"math/rand/v2"
	"os"
	"strconv"
)

// Seed returns the dev data seed from the FILMSHELF_DEV_SEED environment
// variable, or a random value if not set.
func Seed() uint64 {
	if env := os.Getenv("FILMSHELF_DEV_SEED"); env != "" {
		if seed, err := strconv.ParseUint(env, 10, 64); err == nil {
			return seed
		}
	}
	return rand.Uint64() //nolint:gosec // intentionally weak random for dev data
}
