// Package train runs gradient descent over networks built from package nn.
//
// It covers the loop the demo programs share: batching with an optional
// seeded shuffle, per-step loss, ZeroGrad, Backward, optimizer step and
// learning-rate decay. It also provides forward-only evaluation helpers.
package train

import "github.com/born-ml/micrograd/internal/prng"

// Sample is one training example.
type Sample struct {
	Input  []float64
	Target []float64
}

// Batches splits the indices [0, n) into consecutive batches of at most
// batchSize. A batchSize <= 0 yields a single batch.
//
// When src is non-nil the indices are shuffled first (Fisher-Yates), so the
// same seed yields the same batches.
func Batches(n, batchSize int, src prng.Source) [][]int {
	if n <= 0 {
		return nil
	}
	if batchSize <= 0 || batchSize > n {
		batchSize = n
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if src != nil {
		for i := n - 1; i > 0; i-- {
			j := int(src.Float64() * float64(i+1))
			idx[i], idx[j] = idx[j], idx[i]
		}
	}

	batches := make([][]int, 0, (n+batchSize-1)/batchSize)
	for start := 0; start < n; start += batchSize {
		batches = append(batches, idx[start:min(start+batchSize, n)])
	}
	return batches
}
