// Package onehot converts between class labels and one-hot vectors.
package onehot

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/micrograd/internal/autodiff"
)

// ErrLabelOutOfRange is returned when a label does not index a class.
var ErrLabelOutOfRange = errors.New("onehot: label out of range")

// Encode returns a vector of numClasses zeros with a 1 at label.
func Encode(label, numClasses int) ([]float64, error) {
	if label < 0 || label >= numClasses {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrLabelOutOfRange, label, numClasses)
	}
	out := make([]float64, numClasses)
	out[label] = 1
	return out, nil
}

// Decode returns the index of the largest entry of probs. Ties resolve to
// the lowest index. An empty vector decodes to -1.
func Decode(probs []float64) int {
	if len(probs) == 0 {
		return -1
	}
	return floats.MaxIdx(probs)
}

// DecodeValues is Decode over the forward values of a network output.
func DecodeValues(vs []*autodiff.Value) int {
	return Decode(autodiff.Data(vs))
}
