package nn

import (
	"fmt"
	"math"
	"strings"

	"github.com/born-ml/micrograd/internal/autodiff"
	"github.com/born-ml/micrograd/internal/prng"
)

// Neuron computes activation(bias + Σ weight_i * input_i).
//
// It owns one weight per input and a single bias.
type Neuron struct {
	weights    []*autodiff.Value
	bias       *autodiff.Value
	activation Activation
}

// NewNeuron creates a neuron with numInputs weights drawn from U(-1, 1)
// using src, and a zero bias.
func NewNeuron(numInputs int, activation Activation, src prng.Source) *Neuron {
	return newNeuron(numInputs, 1, activation, InitUniform, src)
}

func newNeuron(numInputs, fanOut int, activation Activation, init Init, src prng.Source) *Neuron {
	if numInputs < 0 {
		panic(fmt.Sprintf("nn: negative number of inputs %d", numInputs))
	}
	return &Neuron{
		weights:    autodiff.Values(drawWeights(numInputs, fanOut, init, src)...),
		bias:       autodiff.NewValue(0),
		activation: activation,
	}
}

// NewNeuronFromWeights creates a neuron with the given parameters.
func NewNeuronFromWeights(weights []float64, bias float64, activation Activation) *Neuron {
	return &Neuron{
		weights:    autodiff.Values(weights...),
		bias:       autodiff.NewValue(bias),
		activation: activation,
	}
}

// Forward computes the neuron output for inputs.
//
// Inputs beyond the number of weights are ignored; missing inputs read as
// NaN, which then propagates through the result.
func (n *Neuron) Forward(inputs []*autodiff.Value) (*autodiff.Value, error) {
	sum := n.bias
	for i, w := range n.weights {
		x := nanValue()
		if i < len(inputs) {
			x = inputs[i]
		}
		sum = sum.Add(w.Mul(x))
	}

	out, err := n.activation.Apply(sum)
	if err != nil {
		return nil, fmt.Errorf("neuron forward: %w", err)
	}
	return out, nil
}

// Parameters returns the weights followed by the bias.
func (n *Neuron) Parameters() []*autodiff.Value {
	params := make([]*autodiff.Value, 0, len(n.weights)+1)
	params = append(params, n.weights...)
	return append(params, n.bias)
}

// ZeroGrad resets the gradients of the weights and the bias.
func (n *Neuron) ZeroGrad() {
	ZeroGrad(n)
}

// Weights returns the weight values (not copies).
func (n *Neuron) Weights() []*autodiff.Value {
	return n.weights
}

// Bias returns the bias value.
func (n *Neuron) Bias() *autodiff.Value {
	return n.bias
}

// Activation returns the activation tag.
func (n *Neuron) Activation() Activation {
	return n.activation
}

// NumInputs returns the number of weights.
func (n *Neuron) NumInputs() int {
	return len(n.weights)
}

// String returns e.g. "RELUNeuron(3)".
func (n *Neuron) String() string {
	return fmt.Sprintf("%sNeuron(%d)", strings.ToUpper(n.activation.String()), len(n.weights))
}

func nanValue() *autodiff.Value {
	return autodiff.NewValue(math.NaN())
}
