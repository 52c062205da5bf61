package train

import (
	"fmt"

	"github.com/born-ml/micrograd/internal/autodiff"
	"github.com/born-ml/micrograd/internal/nn"
	"github.com/born-ml/micrograd/internal/parallel"
)

// Predict evaluates net on every input and returns the forward values.
//
// Each input builds its own graph, so the work is spread across goroutines
// according to cfg. net is only read; nothing may train it concurrently.
func Predict(net nn.Network, inputs [][]float64, cfg parallel.Config) ([][]float64, error) {
	out := make([][]float64, len(inputs))
	err := parallel.ForErr(len(inputs), func(i int) error {
		res, err := net.Forward(autodiff.Values(inputs[i]...))
		if err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
		out[i] = res.Data()
		return nil
	}, cfg)
	if err != nil {
		return nil, err
	}
	return out, nil
}
