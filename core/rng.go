package core

import (
	"math/rand"
	"time"
)

// NewRNG returns a *rand.Rand seeded from system entropy, for production
// use. Both index constructors accept an optional *rand.Rand so tests can
// supply a deterministic one instead, via rand.New(rand.NewSource(seed)).
func NewRNG() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
