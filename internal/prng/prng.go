// Package prng provides a small deterministic random source for weight
// initialization.
//
// Every constructor that needs randomness takes a Source explicitly; nothing
// in this module reads a global generator, so a seed fully determines a run.
package prng

// Source yields floats uniformly distributed in [0, 1).
//
// *math/rand.Rand satisfies Source as well as *SplitMix32.
type Source interface {
	Float64() float64
}

// SplitMix32 is the 32-bit splitmix generator. It is fast and reproducible
// but not cryptographically secure.
type SplitMix32 struct {
	state uint32
}

// New returns a generator seeded with seed. Equal seeds yield equal streams.
func New(seed uint32) *SplitMix32 {
	return &SplitMix32{state: seed}
}

// Uint32 advances the generator and returns the next 32 random bits.
func (g *SplitMix32) Uint32() uint32 {
	g.state += 0x9e3779b9
	t := g.state ^ (g.state >> 16)
	t *= 0x21f0aaad
	t ^= t >> 15
	t *= 0x735a2d97
	t ^= t >> 15
	return t
}

// Float64 returns the next value in [0, 1).
func (g *SplitMix32) Float64() float64 {
	return float64(g.Uint32()) / (1 << 32)
}

