// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package prng provides the seeded random source used for weight
// initialization and shuffling.
package prng

import "github.com/born-ml/micrograd/internal/prng"

// Source yields uniform floats in [0, 1).
type Source = prng.Source

// SplitMix32 is a deterministic 32-bit generator.
type SplitMix32 = prng.SplitMix32

// New creates a generator seeded with seed.
func New(seed uint32) *SplitMix32 {
	return prng.New(seed)
}
