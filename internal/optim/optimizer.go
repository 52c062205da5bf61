// Package optim implements optimization algorithms for training neural networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//   - Stateful: optimizers whose buffers survive a checkpoint
//
// Optimizers update parameters in place: each step reads Value.Grad and
// writes Value.Data. Gradients come from a Backward call on the loss.
//
// Example usage:
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{
//	    LR: 0.001,
//	})
//
//	for epoch := range epochs {
//	    out, _ := model.Forward(input)
//	    loss := nn.MSE(out, targets)
//
//	    optimizer.ZeroGrad()
//	    loss.Backward()
//	    optimizer.Step()
//	}
package optim

import "github.com/born-ml/micrograd/internal/autodiff"

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply gradient updates to parameters
//   - ZeroGrad: Clear gradients before next iteration
//   - GetLR / SetLR: Read and change the learning rate (for scheduling)
type Optimizer interface {
	// Step applies gradient updates to all parameters.
	Step()

	// ZeroGrad clears all parameter gradients.
	//
	// Call it before each backward pass; Backward accumulates into Grad.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate.
	SetLR(lr float64)
}

// Stateful is an optimizer whose internal buffers can be saved and
// restored, so training can resume where it stopped.
type Stateful interface {
	Optimizer

	// StateDict returns a copy of the optimizer state as a flat slice.
	StateDict() []float64

	// LoadStateDict restores state returned by StateDict on an optimizer
	// built over the same number of parameters.
	LoadStateDict(state []float64) error
}

func zeroGrad(params []*autodiff.Value) {
	for _, p := range params {
		p.Grad = 0
	}
}
