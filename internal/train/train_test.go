package train

import (
	"bytes"
	"errors"
	"log"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/micrograd/internal/autodiff"
	"github.com/born-ml/micrograd/internal/nn"
	"github.com/born-ml/micrograd/internal/optim"
	"github.com/born-ml/micrograd/internal/parallel"
	"github.com/born-ml/micrograd/internal/prng"
)

func regressionModel() *nn.Sequential {
	return nn.NewSequential(
		nn.NewLayerFromNeurons(
			nn.NewNeuronFromWeights([]float64{-0.73127, 0.69486, 0.52754}, 0, nn.ReLU),
			nn.NewNeuronFromWeights([]float64{-0.48986, -0.00912, -0.10101}, 0, nn.ReLU),
			nn.NewNeuronFromWeights([]float64{0.30318, 0.57744, -0.81228}, 0, nn.ReLU),
		),
		nn.NewLayerFromNeurons(
			nn.NewNeuronFromWeights([]float64{-0.9433, 0.67153, -0.13446}, 0, nn.ReLU),
			nn.NewNeuronFromWeights([]float64{0.52456, -0.99578, -0.10922}, 0, nn.ReLU),
			nn.NewNeuronFromWeights([]float64{0.44308, -0.54247, 0.89054}, 0, nn.ReLU),
		),
		nn.NewLayerFromNeurons(
			nn.NewNeuronFromWeights([]float64{0.80285, -0.93882, -0.9491}, 0, nn.Linear),
		),
	)
}

var regressionSamples = []Sample{
	{Input: []float64{2.0, 3.0, -1.0}, Target: []float64{1.0}},
	{Input: []float64{3.0, -1.0, 0.5}, Target: []float64{-1.0}},
	{Input: []float64{0.5, 1.0, 1.0}, Target: []float64{-1.0}},
	{Input: []float64{1.0, 1.0, -1.0}, Target: []float64{1.0}},
}

func TestBatches(t *testing.T) {
	batches := Batches(10, 4, nil)
	assert.Equal(t, [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}, {8, 9}}, batches)

	assert.Equal(t, [][]int{{0, 1, 2}}, Batches(3, 0, nil))
	assert.Equal(t, [][]int{{0, 1, 2}}, Batches(3, 10, nil))
	assert.Nil(t, Batches(0, 4, nil))
}

func TestBatches_Shuffle(t *testing.T) {
	a := Batches(50, 8, prng.New(42))
	b := Batches(50, 8, prng.New(42))
	assert.Equal(t, a, b)

	var all []int
	for _, batch := range a {
		assert.LessOrEqual(t, len(batch), 8)
		all = append(all, batch...)
	}
	sorted := append([]int(nil), all...)
	sort.Ints(sorted)
	for i, v := range sorted {
		assert.Equal(t, i, v)
	}
	assert.NotEqual(t, sorted, all, "expected a shuffled order")
}

func TestMovingAverage(t *testing.T) {
	history := []float64{4, 2, 6, 8}
	assert.InDelta(t, 5.0, MovingAverage(history, 0), 1e-12)
	assert.InDelta(t, 7.0, MovingAverage(history, 2), 1e-12)
	assert.InDelta(t, 5.0, MovingAverage(history, 100), 1e-12)
	assert.Equal(t, 0.0, MovingAverage(nil, 3))
}

func TestAccuracy(t *testing.T) {
	preds := [][]float64{
		{0.9, 0.1},
		{0.2, 0.8},
		{0.6, 0.4},
	}
	assert.InDelta(t, 2.0/3.0, Accuracy(preds, []int{0, 1, 1}), 1e-12)
	assert.Equal(t, 0.0, Accuracy(nil, nil))

	assert.InDelta(t, 0.5, SignAccuracy([]float64{0.3, -2, 1, -1}, []float64{1, 1, 1, 1}), 1e-12)
}

func TestPredict(t *testing.T) {
	model := regressionModel()
	inputs := make([][]float64, 40)
	for i := range inputs {
		inputs[i] = []float64{float64(i) / 10, 1 - float64(i)/20, 0.5}
	}

	got, err := Predict(model, inputs, parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1})
	require.NoError(t, err)
	require.Len(t, got, len(inputs))

	for i, x := range inputs {
		out, err := model.Forward(autodiff.Values(x...))
		require.NoError(t, err)
		assert.Equal(t, out.Data(), got[i], "input %d", i)
	}
}

func TestPredict_PropagatesError(t *testing.T) {
	model := nn.NewSequential(nn.NewLayerFromNeurons(nn.NewNeuronFromWeights([]float64{1}, 0, nn.Activation(9))))
	_, err := Predict(model, [][]float64{{1}, {2}}, parallel.Config{})
	assert.ErrorIs(t, err, nn.ErrUnsupportedActivation)
	assert.Contains(t, err.Error(), "input 0")
}

func TestTrainer_Regression(t *testing.T) {
	model := regressionModel()
	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1})

	hist, err := NewTrainer(model, opt, MSELoss, Config{Epochs: 200}).Fit(regressionSamples)
	require.NoError(t, err)
	require.Len(t, hist.Losses, 200)
	require.Len(t, hist.EpochLosses, 200)
	assert.Less(t, hist.Losses[len(hist.Losses)-1], hist.Losses[0])

	for _, s := range regressionSamples {
		out, err := model.Forward(autodiff.Values(s.Input...))
		require.NoError(t, err)
		assert.InDelta(t, s.Target[0], out.Scalar().Data, 0.01)
	}
}

func TestTrainer_MiniBatchesWithAdam(t *testing.T) {
	model := regressionModel()
	opt := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.01})

	hist, err := NewTrainer(model, opt, MSELoss, Config{
		Epochs:    50,
		BatchSize: 2,
		Shuffle:   prng.New(1),
	}).Fit(regressionSamples)
	require.NoError(t, err)

	assert.Len(t, hist.Losses, 100)
	assert.Len(t, hist.EpochLosses, 50)
	assert.Less(t, hist.EpochLosses[49], hist.EpochLosses[0])
}

func TestTrainer_DecayAndLogging(t *testing.T) {
	var buf bytes.Buffer
	model := regressionModel()
	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1})

	hist, err := NewTrainer(model, opt, MSELoss, Config{
		Epochs:   5,
		Decay:    0.5,
		MinLR:    0.01,
		Logger:   log.New(&buf, "", 0),
		LogEvery: 2,
	}).Fit(regressionSamples)
	require.NoError(t, err)

	// 0.1 -> 0.05 -> 0.025 -> 0.0125 -> floor 0.01
	assert.InDelta(t, 0.01, hist.FinalLR, 1e-12)
	assert.InDelta(t, 0.01, opt.GetLR(), 1e-12)

	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	assert.Equal(t, 3, lines) // steps 0, 2, 4
	assert.Contains(t, buf.String(), "epoch 1 step 0: loss=")
}

func TestTrainer_L2Penalty(t *testing.T) {
	model := regressionModel()
	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1})

	penalty := nn.L2(model.Parameters(), 0.5).Data
	plain, err := NewTrainer(regressionModel(), optim.NewSGD(nil, optim.SGDConfig{}), MSELoss, Config{}).Fit(regressionSamples)
	require.NoError(t, err)

	hist, err := NewTrainer(model, opt, MSELoss, Config{L2: 0.5}).Fit(regressionSamples)
	require.NoError(t, err)
	assert.InDelta(t, plain.Losses[0]+penalty, hist.Losses[0], 1e-9)
}

func TestTrainer_NoSamples(t *testing.T) {
	_, err := NewTrainer(regressionModel(), optim.NewSGD(nil, optim.SGDConfig{}), MSELoss, Config{}).Fit(nil)
	assert.True(t, errors.Is(err, ErrNoSamples))
}

// TestTrainer_ErrorNumbering checks that a failing step is reported with the
// same epoch numbering the progress log uses.
func TestTrainer_ErrorNumbering(t *testing.T) {
	model := nn.NewSequential(nn.NewLayerFromNeurons(nn.NewNeuronFromWeights([]float64{1}, 0, nn.Activation(9))))
	tr := NewTrainer(model, optim.NewSGD(model.Parameters(), optim.SGDConfig{}), MSELoss, Config{})

	hist, err := tr.Fit([]Sample{{Input: []float64{1}, Target: []float64{0}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, nn.ErrUnsupportedActivation)
	assert.Contains(t, err.Error(), "epoch 1 step 0: sample 0")
	assert.Empty(t, hist.Losses)
}

func TestSoftmaxCrossEntropyLoss(t *testing.T) {
	out := nn.Output(autodiff.Values(1, 2, 3, 4))
	loss := SoftmaxCrossEntropyLoss(out, []float64{0, 0, 0, 1})
	assert.InDelta(t, 0.4401896985, loss.Data, 1e-9)
}

func TestHingeLoss(t *testing.T) {
	out := nn.Output(autodiff.Values(0.25))
	assert.InDelta(t, 1.25, HingeLoss(out, []float64{-1}).Data, 1e-12)
}
