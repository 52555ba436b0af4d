package vm

import (
	"math/rand/v2"
	"time"

	"github.com/dgryski/go-farm"
)

// Seed picks the random seed for one execution: an explicit seed wins, a
// deterministic run hashes the program text, anything else is time seeded.
func Seed(program string, seed uint64, deterministic bool) uint64 {
	switch {
	case seed != 0:
		return seed
	case deterministic:
		return farm.Hash64([]byte(program))
	default:
		return uint64(time.Now().UnixNano())
	}
}

// NewRand returns a generator owned by a single execution.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Fingerprint identifies a program's text in logs.
func Fingerprint(program string) uint64 {
	return farm.Fingerprint64([]byte(program))
}
