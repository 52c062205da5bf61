package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/micrograd/internal/nn"
	"github.com/born-ml/micrograd/internal/onehot"
	"github.com/born-ml/micrograd/internal/prng"
	"github.com/born-ml/micrograd/internal/serialization"
	"github.com/born-ml/micrograd/internal/textfeat"
	"github.com/born-ml/micrograd/internal/train"
)

// task is a demo problem: data, network shape and loss.
type task struct {
	name    string
	samples []train.Sample
	widths  []int // Input width followed by every layer's width
	last    nn.Activation
	loss    train.LossFunc
	l2      float64
	decay   float64
	lr      float64 // Default learning rate
	labels  []int   // Class labels for classification tasks

	// Autoencoder tasks only: widths holds the encoder, these the decoder.
	decoderWidths []int
	decoderLast   nn.Activation
}

func newTask(name string, rand prng.Source, encoding string) (*task, error) {
	switch name {
	case "regression":
		return regressionTask(), nil
	case "binary":
		return binaryTask(), nil
	case "multiclass":
		return multiclassTask(rand), nil
	case "xor":
		return xorTask(), nil
	case "text":
		return textTask(encoding)
	case "autoencoder":
		return autoencoderTask(rand), nil
	default:
		return nil, fmt.Errorf("unknown task %q (want regression, binary, multiclass, xor, text or autoencoder)", name)
	}
}

func regressionTask() *task {
	xs := [][]float64{
		{2.0, 3.0, -1.0},
		{3.0, -1.0, 0.5},
		{0.5, 1.0, 1.0},
		{1.0, 1.0, -1.0},
	}
	ys := []float64{1.0, -1.0, -1.0, 1.0}

	samples := make([]train.Sample, len(xs))
	for i := range xs {
		samples[i] = train.Sample{Input: xs[i], Target: []float64{ys[i]}}
	}
	return &task{
		name:    "regression",
		samples: samples,
		widths:  []int{3, 4, 3, 1},
		last:    nn.Linear,
		loss:    train.MSELoss,
		lr:      0.05,
	}
}

// binaryTask labels a point 1 when y > x and -1 otherwise.
func binaryTask() *task {
	xs := [][]float64{
		{1.0, 2.0},
		{2.0, 3.0},
		{3.0, 1.0},
		{4.0, 2.0},
	}
	ys := []float64{1.0, 1.0, -1.0, -1.0}

	samples := make([]train.Sample, len(xs))
	for i := range xs {
		samples[i] = train.Sample{Input: xs[i], Target: []float64{ys[i]}}
	}
	return &task{
		name:    "binary",
		samples: samples,
		widths:  []int{2, 4, 3, 1},
		last:    nn.Linear,
		loss:    train.HingeLoss,
		l2:      1e-4,
		lr:      0.5,
	}
}

// multiclassTask draws points from the unit square and labels them by
// height: class 1 above 0.8, class 0 above 0.5, class 2 below.
func multiclassTask(rand prng.Source) *task {
	const n = 100
	between := func(low, high float64) float64 {
		return rand.Float64()*(high-low) + low
	}

	t := &task{
		name:   "multiclass",
		widths: []int{2, 16, 16, 3},
		last:   nn.Softmax,
		loss:   train.SoftmaxCrossEntropyLoss,
		l2:     1e-4,
		decay:  0.01,
		lr:     1,
	}
	for range n {
		x, y := between(0, 1), between(0, 1)
		label := 2
		switch {
		case y > 0.8:
			label = 1
		case y > 0.5:
			label = 0
		}
		t.add([]float64{x, y}, label, 3)
	}
	return t
}

func xorTask() *task {
	t := &task{
		name:   "xor",
		widths: []int{2, 8, 2},
		last:   nn.Softmax,
		loss:   train.SoftmaxCrossEntropyLoss,
		lr:     0.1,
	}
	t.add([]float64{0, 0}, 0, 2)
	t.add([]float64{0, 1}, 1, 2)
	t.add([]float64{1, 0}, 1, 2)
	t.add([]float64{1, 1}, 0, 2)
	return t
}

// autoencoderTask reconstructs noisy copies of a few random binary
// patterns through a 3-wide latent vector.
func autoencoderTask(rand prng.Source) *task {
	const (
		width    = 8
		patterns = 4
		n        = 64
	)

	prototypes := make([][]float64, patterns)
	for i := range prototypes {
		prototypes[i] = make([]float64, width)
		for j := range prototypes[i] {
			if rand.Float64() < 0.5 {
				prototypes[i][j] = 1
			}
		}
	}

	t := &task{
		name:          "autoencoder",
		widths:        []int{width, 6, 3},
		last:          nn.Tanh,
		decoderWidths: []int{3, 6, width},
		decoderLast:   nn.Linear,
		loss:          train.MSELoss,
		decay:         0.001,
		lr:            0.05,
	}
	for i := range n {
		x := make([]float64, width)
		for j, p := range prototypes[i%patterns] {
			x[j] = p + (rand.Float64()-0.5)*0.1
		}
		t.samples = append(t.samples, train.Sample{Input: x, Target: x})
	}
	return t
}

var sentiment = []struct {
	text  string
	label int
}{
	{"what a great movie, I loved it", 1},
	{"wonderful acting and a lovely story", 1},
	{"great fun, would watch again", 1},
	{"an excellent and moving film", 1},
	{"I really enjoyed every minute", 1},
	{"terrible plot and awful acting", 0},
	{"boring, I fell asleep", 0},
	{"the worst film I have seen", 0},
	{"awful, a complete waste of time", 0},
	{"dull characters and a bad ending", 0},
}

// textWidth is the feature width of the text task.
const textWidth = 32

func textTask(encoding string) (*task, error) {
	f, err := newFeaturizer(encoding, textWidth)
	if err != nil {
		return nil, err
	}

	t := &task{
		name:   "text",
		widths: []int{textWidth, 8, 2},
		last:   nn.Softmax,
		loss:   train.SoftmaxCrossEntropyLoss,
		lr:     0.5,
	}
	for _, s := range sentiment {
		v, err := f.Features(s.text)
		if err != nil {
			return nil, err
		}
		t.add(v, s.label, 2)
	}
	return t, nil
}

func newFeaturizer(encoding string, width int) (*textfeat.Featurizer, error) {
	if encoding == "bytes" {
		return textfeat.NewFeaturizer(textfeat.Bytes{}, width), nil
	}
	tok, err := textfeat.NewTikToken(encoding)
	if err != nil {
		return nil, err
	}
	return textfeat.NewFeaturizer(tok, width), nil
}

func (t *task) add(input []float64, label, numClasses int) {
	target, err := onehot.Encode(label, numClasses)
	if err != nil {
		panic(err)
	}
	t.samples = append(t.samples, train.Sample{Input: input, Target: target})
	t.labels = append(t.labels, label)
}

func (t *task) inputs() [][]float64 {
	out := make([][]float64, len(t.samples))
	for i, s := range t.samples {
		out[i] = s.Input
	}
	return out
}

func (t *task) isAutoencoder() bool {
	return t.decoderWidths != nil
}

// network creates a freshly initialized network for t: an Autoencoder for
// autoencoder tasks, a Sequential otherwise.
func (t *task) network(rand prng.Source, initKind nn.Init) nn.Network {
	model := build(t.widths, t.last, rand, initKind)
	if !t.isAutoencoder() {
		return model
	}
	return nn.NewAutoencoder(model, build(t.decoderWidths, t.decoderLast, rand, initKind))
}

// build creates a Sequential with ReLU hidden layers and last as the final
// activation, the shape nn.Bootstrap restores.
func build(widths []int, last nn.Activation, rand prng.Source, initKind nn.Init) *nn.Sequential {
	model := nn.NewSequential()
	for i := 1; i < len(widths); i++ {
		act := nn.ReLU
		if i == len(widths)-1 {
			act = last
		}
		model.Add(nn.NewLayer(nn.LayerConfig{
			NumInputs:  widths[i-1],
			NumNeurons: widths[i],
			Activation: act,
			Init:       initKind,
			Rand:       rand,
		}))
	}
	return model
}

// checkpoint captures net, which must have been built for t.
func (t *task) checkpoint(net nn.Network) (*serialization.Checkpoint, error) {
	switch n := net.(type) {
	case *nn.Autoencoder:
		return serialization.NewAutoencoderCheckpoint(n, t.last, t.decoderLast, version), nil
	case *nn.Sequential:
		return serialization.NewCheckpoint(n, t.last, version), nil
	default:
		return nil, fmt.Errorf("cannot checkpoint %T", net)
	}
}

// check reports whether ckpt holds a network that can be trained on t.
func (t *task) check(ckpt *serialization.Checkpoint) error {
	if ckpt.IsAutoencoder() != t.isAutoencoder() {
		return fmt.Errorf("checkpoint does not match task %s", t.name)
	}
	if in := len(ckpt.Layers[0][0].Weights); in != t.widths[0] {
		return fmt.Errorf("checkpoint takes %d inputs, task %s has %d", in, t.name, t.widths[0])
	}
	return nil
}

// reconstructionError is the mean squared distance between outputs and
// the inputs they reconstruct.
func reconstructionError(preds, inputs [][]float64) float64 {
	if len(preds) == 0 {
		return 0
	}
	var sum float64
	for i := range preds {
		sum += math.Pow(floats.Distance(preds[i], inputs[i], 2), 2) / float64(len(inputs[i]))
	}
	return sum / float64(len(preds))
}
