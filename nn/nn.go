// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/micrograd/internal/autodiff"
	"github.com/born-ml/micrograd/internal/nn"
	"github.com/born-ml/micrograd/internal/prng"
)

// Module is anything that owns trainable parameters.
type Module = nn.Module

// Network is a Module that maps an input vector to outputs.
type Network = nn.Network

// Output is the result of a Forward pass.
type Output = nn.Output

// ZeroGrad sets Grad = 0 on every parameter of m.
func ZeroGrad(m Module) {
	nn.ZeroGrad(m)
}

// Activations

// Activation selects the function a Neuron applies to its weighted sum.
type Activation = nn.Activation

// Supported activations.
const (
	ReLU    = nn.ReLU
	Tanh    = nn.Tanh
	Linear  = nn.Linear
	Softmax = nn.Softmax
)

// ParseActivation maps a tag such as "relu" to its Activation.
func ParseActivation(s string) (Activation, error) {
	return nn.ParseActivation(s)
}

// Initialization

// Init selects how fresh neuron weights are drawn.
type Init = nn.Init

// Initialization schemes.
const (
	InitUniform = nn.InitUniform
	InitHe      = nn.InitHe
	InitXavier  = nn.InitXavier
)

// Modules

// Neuron computes activation(bias + Σ weight_i * input_i).
type Neuron = nn.Neuron

// NewNeuron creates a neuron with weights drawn from U(-1, 1) and a zero bias.
func NewNeuron(numInputs int, activation Activation, src prng.Source) *Neuron {
	return nn.NewNeuron(numInputs, activation, src)
}

// NewNeuronFromWeights creates a neuron with the given parameters.
func NewNeuronFromWeights(weights []float64, bias float64, activation Activation) *Neuron {
	return nn.NewNeuronFromWeights(weights, bias, activation)
}

// Layer applies each of its neurons to the same input vector.
type Layer = nn.Layer

// LayerConfig holds configuration for a freshly initialized Layer.
type LayerConfig = nn.LayerConfig

// NewLayer creates a layer of freshly initialized neurons.
//
// Example:
//
//	hidden := nn.NewLayer(nn.LayerConfig{NumInputs: 2, NumNeurons: 16, Rand: prng.New(1)})
func NewLayer(cfg LayerConfig) *Layer {
	return nn.NewLayer(cfg)
}

// NewLayerFromNeurons wraps existing neurons.
func NewLayerFromNeurons(neurons ...*Neuron) *Layer {
	return nn.NewLayerFromNeurons(neurons...)
}

// Sequential chains layers output-to-input.
type Sequential = nn.Sequential

// NewSequential creates a Sequential from layers.
func NewSequential(layers ...*Layer) *Sequential {
	return nn.NewSequential(layers...)
}

// Autoencoder pairs an encoder and a decoder with a detached latent vector.
type Autoencoder = nn.Autoencoder

// NewAutoencoder creates an autoencoder from an encoder and a decoder.
func NewAutoencoder(encoder, decoder *Sequential) *Autoencoder {
	return nn.NewAutoencoder(encoder, decoder)
}

// Serialization

// Structure is the serialized form of a Sequential.
type Structure = nn.Structure

// LayerWeights is the serialized form of one layer.
type LayerWeights = nn.LayerWeights

// NeuronWeights is the serialized form of one neuron.
type NeuronWeights = nn.NeuronWeights

// StructureError describes where a serialized structure is malformed.
type StructureError = nn.StructureError

// Errors.
var (
	ErrUnsupportedActivation = nn.ErrUnsupportedActivation
	ErrMalformedStructure    = nn.ErrMalformedStructure
)

// Bootstrap rebuilds a trainable Sequential from a serialized structure.
// Hidden layers use ReLU, the last layer uses lastActivation.
func Bootstrap(s Structure, lastActivation Activation) (*Sequential, error) {
	return nn.Bootstrap(s, lastActivation)
}

// Loss functions

// CrossEntropy computes Σ_j -labels[j] * ln(probs[j]).
func CrossEntropy(probs []*autodiff.Value, labels []float64) *autodiff.Value {
	return nn.CrossEntropy(probs, labels)
}

// MSE computes the mean squared error.
func MSE(predictions []*autodiff.Value, targets []float64) *autodiff.Value {
	return nn.MSE(predictions, targets)
}

// Hinge computes max(0, 1 - y * prediction).
func Hinge(prediction *autodiff.Value, y float64) *autodiff.Value {
	return nn.Hinge(prediction, y)
}

// L2 computes alpha * Σ p² over params.
func L2(params []*autodiff.Value, alpha float64) *autodiff.Value {
	return nn.L2(params, alpha)
}
