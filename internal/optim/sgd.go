package optim

import (
	"fmt"

	"github.com/born-ml/micrograd/internal/autodiff"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
type SGD struct {
	params     []*autodiff.Value
	lr         float64
	momentum   float64
	velocities []float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer over params.
func NewSGD(params []*autodiff.Value, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	s := &SGD{
		params:   params,
		lr:       config.LR,
		momentum: config.Momentum,
	}
	if s.momentum != 0 {
		s.velocities = make([]float64, len(params))
	}
	return s
}

// Step performs a single optimization step.
func (s *SGD) Step() {
	if s.momentum == 0 {
		for _, p := range s.params {
			p.Data -= s.lr * p.Grad
		}
		return
	}

	for i, p := range s.params {
		s.velocities[i] = s.momentum*s.velocities[i] + p.Grad
		p.Data -= s.lr * s.velocities[i]
	}
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	zeroGrad(s.params)
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// StateDict returns the velocity buffer, one entry per parameter.
// Without momentum it returns nil.
func (s *SGD) StateDict() []float64 {
	if s.velocities == nil {
		return nil
	}
	return append([]float64(nil), s.velocities...)
}

// LoadStateDict restores a velocity buffer saved by StateDict.
func (s *SGD) LoadStateDict(velocities []float64) error {
	if s.momentum == 0 {
		return nil
	}
	if len(velocities) != len(s.params) {
		return fmt.Errorf("velocity count mismatch: expected %d, got %d", len(s.params), len(velocities))
	}
	copy(s.velocities, velocities)
	return nil
}
