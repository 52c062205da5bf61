// Package nn composes scalar autodiff values into neural networks.
//
// The building blocks form a strict ownership tree:
//   - Neuron: weighted sum of inputs plus bias, then an activation
//   - Layer: neurons applied to the same input vector
//   - Sequential: layers chained output-to-input
//   - Autoencoder: an encoder and a decoder Sequential with the latent
//     vector detached in between
//
// Each Forward call builds a fresh computation graph from the owned
// parameters. The tree outlives those graphs; the graphs are discarded after
// Backward.
package nn

import "github.com/born-ml/micrograd/internal/autodiff"

// Module is anything that owns trainable parameters.
//
// A value reachable through Parameters is, by convention, trainable.
type Module interface {
	// Parameters returns every trainable value in a fixed order: weights
	// before bias, earlier children before later ones. Modules without
	// parameters return an empty slice.
	Parameters() []*autodiff.Value

	// ZeroGrad resets the gradient of every parameter to 0.
	ZeroGrad()
}

// Network is a Module that maps an input vector to outputs.
type Network interface {
	Module

	// Forward evaluates the network on inputs, building a new graph rooted
	// at the returned values.
	Forward(inputs []*autodiff.Value) (Output, error)

	// String describes the structure, e.g. "Sequential of [Layer of [...]]".
	String() string
}

// ZeroGrad sets Grad = 0 on every parameter of m.
//
// Call it before each Backward that reuses the same parameters, otherwise
// gradients from earlier steps are added to the new ones.
func ZeroGrad(m Module) {
	for _, p := range m.Parameters() {
		p.Grad = 0
	}
}

// Output is the result of a Forward pass.
//
// A layer with a single neuron yields a scalar output; wider layers yield a
// vector. Both shapes are carried by the same slice.
type Output []*autodiff.Value

// Values returns the outputs as a plain slice.
func (o Output) Values() []*autodiff.Value {
	return o
}

// IsScalar reports whether the output came from a single neuron.
func (o Output) IsScalar() bool {
	return len(o) == 1
}

// Scalar returns the single output value.
//
// Panics if the output is not scalar.
func (o Output) Scalar() *autodiff.Value {
	if len(o) != 1 {
		panic("nn: Output.Scalar called on a vector output")
	}
	return o[0]
}

// Data returns the forward values of the outputs.
func (o Output) Data() []float64 {
	return autodiff.Data(o)
}
