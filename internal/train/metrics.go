package train

import (
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/micrograd/internal/onehot"
)

// MovingAverage returns the mean of the last window entries of history.
// A window <= 0 or larger than history averages everything. An empty
// history averages to 0.
func MovingAverage(history []float64, window int) float64 {
	if len(history) == 0 {
		return 0
	}
	if window > 0 && window < len(history) {
		history = history[len(history)-window:]
	}
	return stat.Mean(history, nil)
}

// Accuracy returns the fraction of rows of predictions whose argmax equals
// the matching label. Rows beyond len(labels) are ignored.
func Accuracy(predictions [][]float64, labels []int) float64 {
	n := min(len(predictions), len(labels))
	if n == 0 {
		return 0
	}

	correct := 0
	for i := range n {
		if onehot.Decode(predictions[i]) == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(n)
}

// SignAccuracy returns the fraction of predictions whose sign matches the
// sign of the target, for {-1, 1} labelled binary tasks.
func SignAccuracy(predictions, targets []float64) float64 {
	n := min(len(predictions), len(targets))
	if n == 0 {
		return 0
	}

	correct := 0
	for i := range n {
		if (predictions[i] > 0) == (targets[i] > 0) {
			correct++
		}
	}
	return float64(correct) / float64(n)
}
