package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/micrograd/internal/autodiff"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²
//	m_hat = m_t / (1 - beta1^t)
//	v_hat = v_t / (1 - beta2^t)
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	params []*autodiff.Value
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	t      int       // Timestep for bias correction
	m      []float64 // First moment estimates
	v      []float64 // Second moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float64    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer. Zero fields in config take the
// defaults listed on AdamConfig.
func NewAdam(params []*autodiff.Value, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam{
		params: params,
		lr:     config.LR,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
		m:      make([]float64, len(params)),
		v:      make([]float64, len(params)),
	}
}

// Step performs a single optimization step using Adam algorithm.
func (a *Adam) Step() {
	a.t++

	biasCorrection1 := 1.0 - math.Pow(a.beta1, float64(a.t))
	biasCorrection2 := 1.0 - math.Pow(a.beta2, float64(a.t))

	for i, p := range a.params {
		g := p.Grad

		a.m[i] = a.beta1*a.m[i] + (1.0-a.beta1)*g
		a.v[i] = a.beta2*a.v[i] + (1.0-a.beta2)*g*g

		mHat := a.m[i] / biasCorrection1
		vHat := a.v[i] / biasCorrection2

		p.Data -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
	}
}

// ZeroGrad clears gradients for all parameters.
func (a *Adam) ZeroGrad() {
	zeroGrad(a.params)
}

// GetLR returns the current learning rate.
func (a *Adam) GetLR() float64 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float64) {
	a.lr = lr
}

// StateDict returns the timestep followed by the first and second moment
// estimates: 1 + 2*len(params) values.
func (a *Adam) StateDict() []float64 {
	state := make([]float64, 0, 1+len(a.m)+len(a.v))
	state = append(state, float64(a.t))
	state = append(state, a.m...)
	return append(state, a.v...)
}

// LoadStateDict restores the timestep and moments saved by StateDict.
func (a *Adam) LoadStateDict(state []float64) error {
	n := len(a.params)
	if len(state) != 1+2*n {
		return fmt.Errorf("adam state size mismatch: expected %d, got %d", 1+2*n, len(state))
	}
	t := state[0]
	if t < 0 || t != math.Trunc(t) {
		return fmt.Errorf("adam state: invalid timestep %v", t)
	}
	a.t = int(t)
	copy(a.m, state[1:1+n])
	copy(a.v, state[1+n:])
	return nil
}
