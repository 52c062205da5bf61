package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/micrograd/internal/autodiff"
)

// Sequential chains layers: each layer's output is the next layer's input.
//
// Layer widths are not checked. The neuron count of layer i should equal
// the input width of layer i+1.
//
// Example:
//
//	rand := prng.New(1337)
//	model := nn.NewSequential(
//	    nn.NewLayer(nn.LayerConfig{NumInputs: 2, NumNeurons: 4, Rand: rand}),
//	    nn.NewLayer(nn.LayerConfig{NumInputs: 4, NumNeurons: 1, Activation: nn.Linear, Rand: rand}),
//	)
//	out, err := model.Forward(autodiff.Values(1, 2))
type Sequential struct {
	layers []*Layer
}

// NewSequential creates a Sequential from layers.
func NewSequential(layers ...*Layer) *Sequential {
	return &Sequential{layers: layers}
}

// Add appends a layer.
func (s *Sequential) Add(layer *Layer) {
	s.layers = append(s.layers, layer)
}

// Forward folds inputs through every layer in order. With no layers the
// inputs are returned unchanged.
func (s *Sequential) Forward(inputs []*autodiff.Value) (Output, error) {
	out := Output(inputs)
	for i, l := range s.layers {
		next, err := l.Forward(out)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		out = next
	}
	return out, nil
}

// Parameters returns the parameters of every layer, earlier layers first.
func (s *Sequential) Parameters() []*autodiff.Value {
	var params []*autodiff.Value
	for _, l := range s.layers {
		params = append(params, l.Parameters()...)
	}
	return params
}

// ZeroGrad resets the gradients of every layer.
func (s *Sequential) ZeroGrad() {
	ZeroGrad(s)
}

// Layers returns the layers in order.
func (s *Sequential) Layers() []*Layer {
	return s.layers
}

// Len returns the number of layers.
func (s *Sequential) Len() int {
	return len(s.layers)
}

// Layer returns the layer at index.
//
// Panics if index is out of bounds.
func (s *Sequential) Layer(index int) *Layer {
	if index < 0 || index >= len(s.layers) {
		panic("nn: Sequential.Layer index out of bounds")
	}
	return s.layers[index]
}

// Weights serializes the current parameter values. The result holds plain
// floats and no graph state.
func (s *Sequential) Weights() Structure {
	st := make(Structure, len(s.layers))
	for i, l := range s.layers {
		lw := make(LayerWeights, len(l.neurons))
		for j, n := range l.neurons {
			lw[j] = NeuronWeights{
				Weights: autodiff.Data(n.weights),
				Bias:    n.bias.Data,
			}
		}
		st[i] = lw
	}
	return st
}

// String returns e.g. "Sequential of [Layer of [RELUNeuron(2)]]".
func (s *Sequential) String() string {
	return "Sequential of [" + joinLayers(s.layers) + "]"
}

func joinLayers(layers []*Layer) string {
	parts := make([]string, len(layers))
	for i, l := range layers {
		parts[i] = l.String()
	}
	return strings.Join(parts, ", ")
}
