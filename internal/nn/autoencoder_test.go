package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/micrograd/internal/autodiff"
	"github.com/born-ml/micrograd/internal/prng"
)

func newTestAutoencoder() *Autoencoder {
	rand := prng.New(11)
	encoder := NewSequential(
		NewLayer(LayerConfig{NumInputs: 4, NumNeurons: 2, Activation: Tanh, Rand: rand}),
	)
	decoder := NewSequential(
		NewLayer(LayerConfig{NumInputs: 2, NumNeurons: 4, Activation: Linear, Rand: rand}),
	)
	return NewAutoencoder(encoder, decoder)
}

func TestAutoencoder_ForwardDetachesLatent(t *testing.T) {
	ae := newTestAutoencoder()
	x := []float64{0.1, 0.9, -0.4, 0.3}

	out, err := ae.Forward(autodiff.Values(x...))
	require.NoError(t, err)
	require.Len(t, out, 4)

	loss := MSE(out, x)
	ae.ZeroGrad()
	loss.Backward()

	for _, p := range ae.Encoder().Parameters() {
		assert.Equal(t, 0.0, p.Grad)
	}
	nonZero := 0
	for _, p := range ae.Decoder().Parameters() {
		if p.Grad != 0 {
			nonZero++
		}
	}
	assert.Positive(t, nonZero)
}

func TestAutoencoder_EncodeKeepsGraph(t *testing.T) {
	ae := newTestAutoencoder()

	latent, err := ae.Encode(autodiff.Values(1, 0, 0, 1))
	require.NoError(t, err)
	autodiff.Sum(latent...).Backward()

	nonZero := 0
	for _, p := range ae.Encoder().Parameters() {
		if p.Grad != 0 {
			nonZero++
		}
	}
	assert.Positive(t, nonZero)
}

func TestAutoencoder_ForwardMatchesHalves(t *testing.T) {
	ae := newTestAutoencoder()
	x := autodiff.Values(0.2, 0.4, 0.6, 0.8)

	latent, err := ae.Encode(x)
	require.NoError(t, err)
	want, err := ae.Decode(latent)
	require.NoError(t, err)

	got, err := ae.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, want.Data(), got.Data())
}

func TestAutoencoder_Parameters(t *testing.T) {
	ae := newTestAutoencoder()
	params := ae.Parameters()
	require.Len(t, params, 2*5+4*3)
	assert.Same(t, ae.Encoder().Parameters()[0], params[0])
	assert.Same(t, ae.Decoder().Parameters()[0], params[10])
}

func TestAutoencoder_String(t *testing.T) {
	want := "Sequential of [" +
		"Layer of [TANHNeuron(4), TANHNeuron(4)], " +
		"Layer of [LINEARNeuron(2), LINEARNeuron(2), LINEARNeuron(2), LINEARNeuron(2)]]"
	assert.Equal(t, want, newTestAutoencoder().String())
}
