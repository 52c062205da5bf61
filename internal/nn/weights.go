package nn

import "fmt"

// NeuronWeights is the plain-data form of one neuron.
type NeuronWeights struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// LayerWeights is the plain-data form of one layer, in neuron order.
type LayerWeights []NeuronWeights

// Structure is the serialized form of a Sequential: layers in order, each an
// ordered list of neurons. Both orders are significant.
type Structure []LayerWeights

// NumParameters returns the number of scalars described by s.
func (s Structure) NumParameters() int {
	n := 0
	for _, l := range s {
		for _, nw := range l {
			n += len(nw.Weights) + 1
		}
	}
	return n
}

// Validate checks that s describes a chain of fully connected layers:
// at least one layer, no empty layer, every neuron of a layer has the same
// number of weights, and that number equals the previous layer's width.
func (s Structure) Validate() error {
	if len(s) == 0 {
		return &StructureError{Layer: -1, Neuron: -1, Details: "no layers"}
	}

	for i, l := range s {
		if len(l) == 0 {
			return &StructureError{Layer: i, Neuron: -1, Details: "no neurons"}
		}

		width := len(l[0].Weights)
		if i > 0 && width != len(s[i-1]) {
			return &StructureError{
				Layer:   i,
				Neuron:  0,
				Details: fmt.Sprintf("has %d weights, previous layer has %d neurons", width, len(s[i-1])),
			}
		}

		for j, nw := range l {
			if len(nw.Weights) != width {
				return &StructureError{
					Layer:   i,
					Neuron:  j,
					Details: fmt.Sprintf("has %d weights, neuron 0 has %d", len(nw.Weights), width),
				}
			}
		}
	}

	return nil
}

// Bootstrap rebuilds a trainable Sequential from a serialized structure.
//
// The last layer uses lastActivation and every earlier layer uses ReLU. The
// returned parameters are fresh values with Data equal to the serialized
// floats and Grad = 0. The structure is validated first; a malformed one
// yields an error matching ErrMalformedStructure.
func Bootstrap(s Structure, lastActivation Activation) (*Sequential, error) {
	if !lastActivation.Valid() {
		return nil, fmt.Errorf("bootstrap: %w: %s", ErrUnsupportedActivation, lastActivation)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	layers := make([]*Layer, len(s))
	for i, lw := range s {
		act := ReLU
		if i == len(s)-1 {
			act = lastActivation
		}

		neurons := make([]*Neuron, len(lw))
		for j, nw := range lw {
			neurons[j] = NewNeuronFromWeights(nw.Weights, nw.Bias, act)
		}
		layers[i] = &Layer{neurons: neurons, activation: act}
	}

	return NewSequential(layers...), nil
}
