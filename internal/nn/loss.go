package nn

import "github.com/born-ml/micrograd/internal/autodiff"

// CrossEntropy computes Σ_j -labels[j] * ln(probs[j]).
//
// probs must already be a probability vector; no softmax is applied here.
// A probability of exactly zero is replaced in place by
// autodiff.LogEpsilon (see autodiff.Value.Log), so the loss stays finite.
func CrossEntropy(probs []*autodiff.Value, labels []float64) *autodiff.Value {
	terms := make([]*autodiff.Value, len(probs))
	for j, p := range probs {
		terms[j] = autodiff.NewValue(-labels[j]).Mul(p.Log())
	}
	return autodiff.Sum(terms...)
}

// MSE computes the mean of (predictions[i] - targets[i])².
func MSE(predictions []*autodiff.Value, targets []float64) *autodiff.Value {
	squares := make([]*autodiff.Value, len(predictions))
	for i, p := range predictions {
		squares[i] = p.SubScalar(targets[i]).Pow(2)
	}
	return autodiff.Sum(squares...).DivScalar(float64(len(targets)))
}

// Hinge computes max(0, 1 - y * prediction) for a label y in {-1, 1}.
func Hinge(prediction *autodiff.Value, y float64) *autodiff.Value {
	return prediction.MulScalar(-y).AddScalar(1).ReLU()
}

// L2 computes alpha * Σ p² over params.
func L2(params []*autodiff.Value, alpha float64) *autodiff.Value {
	squares := make([]*autodiff.Value, len(params))
	for i, p := range params {
		squares[i] = p.Pow(2)
	}
	return autodiff.NewValue(alpha).Mul(autodiff.Sum(squares...))
}
