package nn

import (
	"math"

	"github.com/born-ml/micrograd/internal/prng"
)

// Init selects how fresh neuron weights are drawn. Biases always start at 0.
type Init uint8

// Initialization schemes.
const (
	// InitUniform draws from U(-1, 1).
	InitUniform Init = iota

	// InitHe draws from U(-sqrt(6/fan_in), sqrt(6/fan_in)), suited to ReLU.
	InitHe

	// InitXavier (Glorot) draws from
	// U(-sqrt(6/(fan_in+fan_out)), sqrt(6/(fan_in+fan_out))).
	InitXavier
)

// String returns the scheme name.
func (i Init) String() string {
	switch i {
	case InitUniform:
		return "uniform"
	case InitHe:
		return "he"
	case InitXavier:
		return "xavier"
	default:
		return "unknown"
	}
}

// bound returns the half-width of the sampling interval.
func (i Init) bound(fanIn, fanOut int) float64 {
	switch i {
	case InitHe:
		return math.Sqrt(6.0 / float64(max(fanIn, 1)))
	case InitXavier:
		return math.Sqrt(6.0 / float64(max(fanIn+fanOut, 1)))
	default:
		return 1
	}
}

// drawWeights samples n weights from src.
func drawWeights(n, fanOut int, init Init, src prng.Source) []float64 {
	if src == nil {
		panic("nn: a random source is required to initialize weights")
	}
	bound := init.bound(n, fanOut)
	out := make([]float64, n)
	for i := range out {
		out[i] = (src.Float64()*2 - 1) * bound
	}
	return out
}
