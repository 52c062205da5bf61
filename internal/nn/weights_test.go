package nn

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/micrograd/internal/autodiff"
	"github.com/born-ml/micrograd/internal/prng"
)

// Three-class classifier trained on 2D points: 2 -> 4 -> 3 -> 3.
const classifierJSON = `[[{"weights":[-0.21632627741709443,2.946365950491937],"bias":-1.1096204228249589},{"weights":[0.042026533691509195,0.31283669585881685],"bias":-0.15101917761597777},{"weights":[0.13806609109826454,2.181174494255367],"bias":-0.9040039679479968},{"weights":[0.10778762131800752,1.4564344021987259],"bias":-0.5410020237990221}],[{"weights":[1.3761752398372382,0.11028477494474086,0.6925711353186949,0.5262157319612195],"bias":-0.3884697984705779},{"weights":[1.3358546166870016,0.14648278730809197,1.4079699288543395,1.0633108913566198],"bias":-0.043218859890338045},{"weights":[1.2599000646098704,0.18207837412895522,0.7981811219456962,0.23805385760073203],"bias":-1.360203704325321}],[{"weights":[-1.0705550203623766,-1.8838090224328763,-0.5265923334419728],"bias":2.844982386250495},{"weights":[0.3206482514648421,1.0781357752328493,-0.9852689565150748],"bias":-0.18285858085609727},{"weights":[1.1155764458948423,0.5978202589098995,1.539837284059666],"bias":-2.6621237841357157}]]`

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func TestBootstrap_Classifier(t *testing.T) {
	var s Structure
	require.NoError(t, json.Unmarshal([]byte(classifierJSON), &s))

	model, err := Bootstrap(s, Softmax)
	require.NoError(t, err)

	require.Equal(t, 3, model.Len())
	assert.Equal(t, ReLU, model.Layer(0).Activation())
	assert.Equal(t, ReLU, model.Layer(1).Activation())
	assert.Equal(t, Softmax, model.Layer(2).Activation())
	assert.Equal(t, 4*3+3*5+3*4, s.NumParameters())

	tests := []struct {
		input []float64
		want  int
	}{
		{[]float64{0, 1}, 2},
		{[]float64{0, 0.75}, 1},
		{[]float64{0.75, 0.25}, 0},
	}

	for _, tt := range tests {
		out, err := model.Forward(autodiff.Values(tt.input...))
		require.NoError(t, err)
		probs := autodiff.Softmax(out)
		assert.Equal(t, tt.want, argmax(autodiff.Data(probs)), "input %v", tt.input)
	}
}

func TestBootstrap_RoundTrip(t *testing.T) {
	rand := prng.New(7)
	model := NewSequential(
		NewLayer(LayerConfig{NumInputs: 3, NumNeurons: 4, Rand: rand}),
		NewLayer(LayerConfig{NumInputs: 4, NumNeurons: 2, Activation: Tanh, Rand: rand}),
	)
	for i, p := range model.Parameters() {
		p.Grad = float64(i)
		// Non-zero biases so that dropping them would show.
		p.Data += 0.01
	}

	restored, err := Bootstrap(model.Weights(), Tanh)
	require.NoError(t, err)
	assert.Equal(t, model.Weights(), restored.Weights())

	for _, p := range restored.Parameters() {
		assert.Equal(t, 0.0, p.Grad)
	}

	x := autodiff.Values(0.3, -1.2, 2)
	want, err := model.Forward(x)
	require.NoError(t, err)
	got, err := restored.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, want.Data(), got.Data())
}

func TestBootstrap_FreshParameters(t *testing.T) {
	s := Structure{{{Weights: []float64{1, 2}, Bias: 3}}}
	a, err := Bootstrap(s, Linear)
	require.NoError(t, err)
	b, err := Bootstrap(s, Linear)
	require.NoError(t, err)

	a.Parameters()[0].Data = 100
	assert.Equal(t, 1.0, b.Parameters()[0].Data)
	assert.Equal(t, []float64{1, 2}, s[0][0].Weights)
}

func TestBootstrap_RejectsUnsupportedActivation(t *testing.T) {
	s := Structure{{{Weights: []float64{1}}}}
	_, err := Bootstrap(s, Activation(99))
	assert.ErrorIs(t, err, ErrUnsupportedActivation)
}

func TestStructure_Validate(t *testing.T) {
	tests := []struct {
		name   string
		s      Structure
		layer  int
		neuron int
	}{
		{
			name:   "no layers",
			s:      Structure{},
			layer:  -1,
			neuron: -1,
		},
		{
			name:   "empty layer",
			s:      Structure{{{Weights: []float64{1}}}, {}},
			layer:  1,
			neuron: -1,
		},
		{
			name: "width mismatch with previous layer",
			s: Structure{
				{{Weights: []float64{1}}, {Weights: []float64{1}}},
				{{Weights: []float64{1, 2, 3}}},
			},
			layer:  1,
			neuron: 0,
		},
		{
			name: "inconsistent neuron widths",
			s: Structure{
				{{Weights: []float64{1, 2}}, {Weights: []float64{1}}},
			},
			layer:  0,
			neuron: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedStructure)

			var se *StructureError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.layer, se.Layer)
			assert.Equal(t, tt.neuron, se.Neuron)

			_, err = Bootstrap(tt.s, Linear)
			assert.ErrorIs(t, err, ErrMalformedStructure)
		})
	}
}

func TestStructure_JSON(t *testing.T) {
	s := Structure{{{Weights: []float64{0.5, -0.25}, Bias: 1}}}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[[{"weights":[0.5,-0.25],"bias":1}]]`, string(data))
}
