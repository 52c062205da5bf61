// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks over scalar values.
//
// # Overview
//
// This package contains:
//   - Modules: Neuron, Layer, Sequential, Autoencoder
//   - Activations: ReLU, Tanh, Linear, Softmax
//   - Loss functions: CrossEntropy, MSE, Hinge, L2
//   - Serialization: Structure, Bootstrap
//   - Initialization: InitUniform, InitHe, InitXavier
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/micrograd/autodiff"
//	    "github.com/born-ml/micrograd/nn"
//	    "github.com/born-ml/micrograd/prng"
//	)
//
//	func main() {
//	    rand := prng.New(1337)
//
//	    model := nn.NewSequential(
//	        nn.NewLayer(nn.LayerConfig{NumInputs: 2, NumNeurons: 16, Rand: rand}),
//	        nn.NewLayer(nn.LayerConfig{NumInputs: 16, NumNeurons: 3, Activation: nn.Linear, Rand: rand}),
//	    )
//
//	    out, err := model.Forward(autodiff.Values(0.5, -1))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    loss := nn.CrossEntropy(autodiff.Softmax(out), []float64{0, 1, 0})
//
//	    model.ZeroGrad()
//	    loss.Backward()
//	}
package nn
