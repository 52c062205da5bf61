package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/micrograd/internal/autodiff"
	"github.com/born-ml/micrograd/internal/prng"
)

// LayerConfig holds configuration for a freshly initialized Layer.
type LayerConfig struct {
	NumInputs  int         // Width of the input vector
	NumNeurons int         // Number of neurons, i.e. the output width
	Activation Activation  // Activation for every neuron (default: ReLU)
	Init       Init        // Weight initialization (default: InitUniform)
	Rand       prng.Source // Source for weight initialization (required)
}

// Layer applies each of its neurons to the same input vector.
type Layer struct {
	neurons    []*Neuron
	activation Activation
}

// NewLayer creates a layer of cfg.NumNeurons neurons with cfg.NumInputs
// weights each. Weights are drawn from cfg.Rand in neuron order.
//
// Example:
//
//	rand := prng.New(1337)
//	hidden := nn.NewLayer(nn.LayerConfig{NumInputs: 2, NumNeurons: 16, Rand: rand})
func NewLayer(cfg LayerConfig) *Layer {
	if cfg.NumNeurons < 0 {
		panic(fmt.Sprintf("nn: negative number of neurons %d", cfg.NumNeurons))
	}

	neurons := make([]*Neuron, cfg.NumNeurons)
	for i := range neurons {
		neurons[i] = newNeuron(cfg.NumInputs, cfg.NumNeurons, cfg.Activation, cfg.Init, cfg.Rand)
	}

	return &Layer{
		neurons:    neurons,
		activation: cfg.Activation,
	}
}

// NewLayerFromNeurons wraps existing neurons. The layer reports the
// activation of its first neuron.
func NewLayerFromNeurons(neurons ...*Neuron) *Layer {
	l := &Layer{neurons: neurons}
	if len(neurons) > 0 {
		l.activation = neurons[0].activation
	}
	return l
}

// Forward applies every neuron to inputs. The output is scalar when the
// layer has exactly one neuron.
func (l *Layer) Forward(inputs []*autodiff.Value) (Output, error) {
	out := make(Output, len(l.neurons))
	for i, n := range l.neurons {
		v, err := n.Forward(inputs)
		if err != nil {
			return nil, fmt.Errorf("neuron %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Parameters returns the parameters of every neuron in order.
func (l *Layer) Parameters() []*autodiff.Value {
	var params []*autodiff.Value
	for _, n := range l.neurons {
		params = append(params, n.Parameters()...)
	}
	return params
}

// ZeroGrad resets the gradients of every neuron.
func (l *Layer) ZeroGrad() {
	ZeroGrad(l)
}

// Neurons returns the layer's neurons.
func (l *Layer) Neurons() []*Neuron {
	return l.neurons
}

// Activation returns the layer's activation tag.
func (l *Layer) Activation() Activation {
	return l.activation
}

// Len returns the number of neurons.
func (l *Layer) Len() int {
	return len(l.neurons)
}

// String returns e.g. "Layer of [RELUNeuron(2), RELUNeuron(2)]".
func (l *Layer) String() string {
	parts := make([]string, len(l.neurons))
	for i, n := range l.neurons {
		parts[i] = n.String()
	}
	return "Layer of [" + strings.Join(parts, ", ") + "]"
}
