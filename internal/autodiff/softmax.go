package autodiff

import "math"

// softmaxGroup ties together the outputs of one Softmax call so that each
// output's backward rule can read its siblings.
type softmaxGroup struct {
	inputs  []*Value
	outputs []*Value
}

// Softmax normalizes values into a probability vector:
//
//	out_i = exp(x_i) / Σ_j exp(x_j)
//
// The maximum input is subtracted before exponentiation, which leaves the
// result unchanged and keeps it finite for any finite input.
//
// Backward is joint. Each output distributes its gradient to every input
// following the softmax Jacobian:
//
//	∂out_i/∂x_j = out_i * (δ_ij - out_j)
//
// so an input's gradient sums contributions from all outputs of the call.
func Softmax(values []*Value) []*Value {
	if len(values) == 0 {
		return nil
	}

	maxVal := math.Inf(-1)
	for _, v := range values {
		maxVal = math.Max(maxVal, v.Data)
	}

	exps := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		exps[i] = math.Exp(v.Data - maxVal)
		sum += exps[i]
	}

	group := &softmaxGroup{
		inputs:  values,
		outputs: make([]*Value, len(values)),
	}
	prev := distinct(values)
	for i := range values {
		group.outputs[i] = &Value{
			Data:  exps[i] / sum,
			op:    OpSoftmax,
			prev:  prev,
			group: group,
			index: i,
		}
	}

	out := make([]*Value, len(values))
	copy(out, group.outputs)
	return out
}

// backwardSoftmax propagates the gradient of output i to every input.
func (v *Value) backwardSoftmax() {
	si := v.Data
	for j, in := range v.group.inputs {
		sj := v.group.outputs[j].Data
		if j == v.index {
			in.Grad += si * (1 - sj) * v.Grad
		} else {
			in.Grad += -si * sj * v.Grad
		}
	}
}
