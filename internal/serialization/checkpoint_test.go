package serialization

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/micrograd/internal/autodiff"
	"github.com/born-ml/micrograd/internal/nn"
	"github.com/born-ml/micrograd/internal/prng"
)

func testModel() *nn.Sequential {
	rand := prng.New(5)
	return nn.NewSequential(
		nn.NewLayer(nn.LayerConfig{NumInputs: 2, NumNeurons: 3, Rand: rand}),
		nn.NewLayer(nn.LayerConfig{NumInputs: 3, NumNeurons: 2, Activation: nn.Softmax, Rand: rand}),
	)
}

func TestWeights_RoundTrip(t *testing.T) {
	model := testModel()
	path := filepath.Join(t.TempDir(), "weights.json")

	require.NoError(t, WriteWeights(path, model.Weights()))
	s, err := ReadWeights(path)
	require.NoError(t, err)
	assert.Equal(t, model.Weights(), s)

	restored, err := nn.Bootstrap(s, nn.Softmax)
	require.NoError(t, err)

	x := autodiff.Values(0.5, -0.5)
	want, err := model.Forward(x)
	require.NoError(t, err)
	got, err := restored.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, want.Data(), got.Data())
}

func TestMarshalStructure_Format(t *testing.T) {
	s := nn.Structure{{{Weights: []float64{0.5, -1}, Bias: 0.25}}}
	data, err := MarshalStructure(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[[{"weights":[0.5,-1],"bias":0.25}]]`, string(data))

	_, err = MarshalStructure(nn.Structure{{{Weights: []float64{math.NaN()}}}})
	assert.True(t, IsValidationError(err))
}

func TestReadWeights_Missing(t *testing.T) {
	_, err := ReadWeights(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestCheckpoint_RoundTrip(t *testing.T) {
	model := testModel()
	ckpt := NewCheckpoint(model, nn.Softmax, "v0.1.0")
	ckpt.Metadata = map[string]string{"task": "multiclass"}
	ckpt.Training = &TrainingMeta{
		Epoch:           3,
		Step:            120,
		Loss:            0.42,
		OptimizerType:   "Adam",
		OptimizerConfig: map[string]float64{"lr": 0.01},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCheckpoint(&buf, ckpt))
	assert.Len(t, ckpt.Checksum, 64)

	got, err := ReadCheckpoint(&buf)
	require.NoError(t, err)

	assert.Equal(t, FormatVersion, got.FormatVersion)
	assert.Equal(t, "v0.1.0", got.Version)
	assert.Equal(t, nn.Softmax, got.LastActivation)
	assert.Equal(t, ckpt.Checksum, got.Checksum)
	assert.Equal(t, ckpt.Metadata, got.Metadata)
	assert.Equal(t, ckpt.Training, got.Training)
	assert.True(t, ckpt.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, model.Weights(), got.Layers)

	restored, err := LoadModel(got)
	require.NoError(t, err)
	assert.Equal(t, nn.Softmax, restored.Layer(1).Activation())
	assert.Equal(t, model.Weights(), restored.Weights())
}

func TestCheckpoint_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	ckpt := NewCheckpoint(testModel(), nn.Linear, "dev")

	require.NoError(t, SaveCheckpoint(path, ckpt))
	got, err := LoadCheckpoint(path)
	require.NoError(t, err)
	assert.Equal(t, nn.Linear, got.LastActivation)
}

func TestCheckpoint_WireFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCheckpoint(&buf, NewCheckpoint(testModel(), nn.Tanh, "dev")))

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fields))
	for _, key := range []string{"format_version", "version", "created_at", "last_activation", "checksum", "layers"} {
		assert.Contains(t, fields, key)
	}
	assert.JSONEq(t, `"tanh"`, string(fields["last_activation"]))
	assert.JSONEq(t, `1`, string(fields["format_version"]))
}

func TestReadCheckpoint_DetectsTampering(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCheckpoint(&buf, NewCheckpoint(testModel(), nn.Softmax, "dev")))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	layers := doc["layers"].([]any)
	neuron := layers[0].([]any)[0].(map[string]any)
	neuron["bias"] = 12.5

	tampered, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = ReadCheckpoint(bytes.NewReader(tampered))
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestReadCheckpoint_UnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCheckpoint(&buf, NewCheckpoint(testModel(), nn.Softmax, "dev")))

	doc := strings.Replace(buf.String(), `"format_version": 1`, `"format_version": 7`, 1)
	_, err := ReadCheckpoint(strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestReadCheckpoint_Garbage(t *testing.T) {
	_, err := ReadCheckpoint(strings.NewReader("not json"))
	assert.Error(t, err)
}

func TestWriteCheckpoint_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Checkpoint)
		check  func(t *testing.T, err error)
	}{
		{
			name:   "invalid activation",
			mutate: func(c *Checkpoint) { c.LastActivation = nn.Activation(20) },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, nn.ErrUnsupportedActivation)
			},
		},
		{
			name:   "malformed layers",
			mutate: func(c *Checkpoint) { c.Layers = append(c.Layers, nn.LayerWeights{}) },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, nn.ErrMalformedStructure)
				var se *nn.StructureError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, 2, se.Layer)
			},
		},
		{
			name:   "non-finite weight",
			mutate: func(c *Checkpoint) { c.Layers[1][0].Weights[2] = math.Inf(1) },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, nn.ErrMalformedStructure)
			},
		},
		{
			name: "decoder latent mismatch",
			mutate: func(c *Checkpoint) {
				c.Decoder = &DecoderPart{
					LastActivation: nn.Linear,
					Layers:         nn.Structure{{{Weights: []float64{1, 2, 3}}}},
				}
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, nn.ErrMalformedStructure)
				assert.ErrorContains(t, err, "decoder takes 3 inputs, encoder yields 2")
			},
		},
		{
			name: "non-finite optimizer state",
			mutate: func(c *Checkpoint) {
				c.Training = &TrainingMeta{OptimizerType: "adam", OptimizerState: []float64{1, math.NaN()}}
			},
			check: func(t *testing.T, err error) {
				var ve *ValidationError
				require.True(t, errors.As(err, &ve))
				assert.Equal(t, "training.optimizer_state", ve.Field)
			},
		},
		{
			name: "metadata too large",
			mutate: func(c *Checkpoint) {
				c.Metadata = map[string]string{"blob": strings.Repeat("x", MaxMetadataSize)}
			},
			check: func(t *testing.T, err error) {
				var ve *ValidationError
				require.True(t, errors.As(err, &ve))
				assert.Equal(t, "metadata_too_large", ve.Type)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ckpt := NewCheckpoint(testModel(), nn.Softmax, "dev")
			tt.mutate(ckpt)

			var buf bytes.Buffer
			err := WriteCheckpoint(&buf, ckpt)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			tt.check(t, err)
			assert.Zero(t, buf.Len())
		})
	}
}

func testAutoencoder() *nn.Autoencoder {
	rand := prng.New(9)
	encoder := nn.NewSequential(
		nn.NewLayer(nn.LayerConfig{NumInputs: 4, NumNeurons: 3, Rand: rand}),
		nn.NewLayer(nn.LayerConfig{NumInputs: 3, NumNeurons: 2, Activation: nn.Tanh, Rand: rand}),
	)
	decoder := nn.NewSequential(
		nn.NewLayer(nn.LayerConfig{NumInputs: 2, NumNeurons: 3, Rand: rand}),
		nn.NewLayer(nn.LayerConfig{NumInputs: 3, NumNeurons: 4, Activation: nn.Linear, Rand: rand}),
	)
	return nn.NewAutoencoder(encoder, decoder)
}

func TestAutoencoderCheckpoint_RoundTrip(t *testing.T) {
	ae := testAutoencoder()
	ckpt := NewAutoencoderCheckpoint(ae, nn.Tanh, nn.Linear, "dev")
	ckpt.Training = &TrainingMeta{
		Epoch:          2,
		Step:           8,
		OptimizerType:  "adam",
		OptimizerState: []float64{8, 0.5, -0.25},
	}

	path := filepath.Join(t.TempDir(), "autoencoder.json")
	require.NoError(t, SaveCheckpoint(path, ckpt))
	got, err := LoadCheckpoint(path)
	require.NoError(t, err)

	require.True(t, got.IsAutoencoder())
	assert.Equal(t, nn.Tanh, got.LastActivation)
	assert.Equal(t, nn.Linear, got.Decoder.LastActivation)
	assert.Equal(t, ae.Encoder().Weights(), got.Layers)
	assert.Equal(t, ae.Decoder().Weights(), got.Decoder.Layers)
	assert.Equal(t, ckpt.Training.OptimizerState, got.Training.OptimizerState)

	restored, err := LoadAutoencoder(got)
	require.NoError(t, err)
	assert.Equal(t, ae.String(), restored.String())

	x := autodiff.Values(0.1, 0.9, -0.4, 0.3)
	want, err := ae.Forward(x)
	require.NoError(t, err)
	reconstructed, err := restored.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, want.Data(), reconstructed.Data())

	net, err := LoadNetwork(got)
	require.NoError(t, err)
	assert.IsType(t, &nn.Autoencoder{}, net)
}

func TestAutoencoderCheckpoint_DecoderTampering(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCheckpoint(&buf, NewAutoencoderCheckpoint(testAutoencoder(), nn.Tanh, nn.Linear, "dev")))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	decoder := doc["decoder"].(map[string]any)
	neuron := decoder["layers"].([]any)[1].([]any)[0].(map[string]any)
	neuron["bias"] = -3.5

	tampered, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = ReadCheckpoint(bytes.NewReader(tampered))
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestLoadAutoencoder_NoDecoder(t *testing.T) {
	ckpt := NewCheckpoint(testModel(), nn.Softmax, "dev")
	assert.False(t, ckpt.IsAutoencoder())

	_, err := LoadAutoencoder(ckpt)
	assert.ErrorIs(t, err, ErrNotAutoencoder)

	net, err := LoadNetwork(ckpt)
	require.NoError(t, err)
	assert.IsType(t, &nn.Sequential{}, net)
}
