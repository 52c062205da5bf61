// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Training Loop Pattern
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.01})
//
//	for epoch := range numEpochs {
//	    out, err := model.Forward(autodiff.Values(x...))
//	    if err != nil {
//	        return err
//	    }
//	    loss := nn.MSE(out, y)
//
//	    optimizer.ZeroGrad()
//	    loss.Backward()
//	    optimizer.Step()
//	}
package optim
