package train

import (
	"errors"
	"fmt"
	"log"

	"github.com/born-ml/micrograd/internal/autodiff"
	"github.com/born-ml/micrograd/internal/nn"
	"github.com/born-ml/micrograd/internal/optim"
	"github.com/born-ml/micrograd/internal/prng"
)

// ErrNoSamples is returned by Fit when there is nothing to train on.
var ErrNoSamples = errors.New("train: no samples")

// LossFunc scores one network output against its target.
type LossFunc func(out nn.Output, target []float64) *autodiff.Value

// MSELoss is the mean squared error between the output and the target.
func MSELoss(out nn.Output, target []float64) *autodiff.Value {
	return nn.MSE(out, target)
}

// HingeLoss is the hinge loss of a scalar output against a {-1, 1} target.
func HingeLoss(out nn.Output, target []float64) *autodiff.Value {
	return nn.Hinge(out.Scalar(), target[0])
}

// SoftmaxCrossEntropyLoss applies softmax to the output vector and scores
// it against a one-hot target.
func SoftmaxCrossEntropyLoss(out nn.Output, target []float64) *autodiff.Value {
	return nn.CrossEntropy(autodiff.Softmax(out), target)
}

// Config holds configuration for a Trainer.
type Config struct {
	Epochs    int         // Passes over the samples (default: 1)
	BatchSize int         // Samples per step (default: all samples)
	Shuffle   prng.Source // Reshuffles every epoch when set
	L2        float64     // Weight of the L2 penalty on all parameters
	Decay     float64     // Per-step learning rate decay: lr *= 1 - Decay
	MinLR     float64     // Floor for the decayed learning rate
	Logger    *log.Logger // Progress output, nil is silent
	LogEvery  int         // Log every N steps (default: 10)
}

// History records the course of a Fit call.
type History struct {
	Losses      []float64 // Loss of every step, penalty included
	EpochLosses []float64 // Mean step loss of every epoch
	FinalLR     float64   // Learning rate after the last step
}

// Trainer fits a network with an optimizer.
type Trainer struct {
	net  nn.Network
	opt  optim.Optimizer
	loss LossFunc
	cfg  Config
}

// NewTrainer creates a trainer. The optimizer must have been built over
// net.Parameters().
func NewTrainer(net nn.Network, opt optim.Optimizer, loss LossFunc, cfg Config) *Trainer {
	if cfg.Epochs <= 0 {
		cfg.Epochs = 1
	}
	if cfg.LogEvery <= 0 {
		cfg.LogEvery = 10
	}
	return &Trainer{net: net, opt: opt, loss: loss, cfg: cfg}
}

// Fit trains on samples and returns the loss history.
//
// Each step averages the per-sample loss over the batch, adds the L2
// penalty, then runs ZeroGrad, Backward and Step, and finally decays the
// learning rate.
func (t *Trainer) Fit(samples []Sample) (*History, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	hist := &History{}
	step := 0
	for epoch := range t.cfg.Epochs {
		var epochLoss float64
		batches := Batches(len(samples), t.cfg.BatchSize, t.cfg.Shuffle)

		for _, batch := range batches {
			loss, err := t.batchLoss(samples, batch)
			if err != nil {
				return hist, fmt.Errorf("epoch %d step %d: %w", epoch+1, step, err)
			}

			t.opt.ZeroGrad()
			loss.Backward()
			t.opt.Step()
			t.decay()

			hist.Losses = append(hist.Losses, loss.Data)
			epochLoss += loss.Data

			if t.cfg.Logger != nil && step%t.cfg.LogEvery == 0 {
				t.cfg.Logger.Printf("epoch %d step %d: loss=%.6f avg=%.6f lr=%.6g",
					epoch+1, step, loss.Data, MovingAverage(hist.Losses, t.cfg.LogEvery), t.opt.GetLR())
			}
			step++
		}

		hist.EpochLosses = append(hist.EpochLosses, epochLoss/float64(len(batches)))
	}

	hist.FinalLR = t.opt.GetLR()
	return hist, nil
}

func (t *Trainer) batchLoss(samples []Sample, batch []int) (*autodiff.Value, error) {
	terms := make([]*autodiff.Value, len(batch))
	for i, idx := range batch {
		s := samples[idx]
		out, err := t.net.Forward(autodiff.Values(s.Input...))
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", idx, err)
		}
		terms[i] = t.loss(out, s.Target)
	}

	loss := autodiff.Sum(terms...).DivScalar(float64(len(batch)))
	if t.cfg.L2 != 0 {
		loss = loss.Add(nn.L2(t.net.Parameters(), t.cfg.L2))
	}
	return loss, nil
}

func (t *Trainer) decay() {
	if t.cfg.Decay == 0 {
		return
	}
	t.opt.SetLR(max(t.opt.GetLR()*(1-t.cfg.Decay), t.cfg.MinLR))
}
