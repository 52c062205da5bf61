package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/micrograd/internal/autodiff"
)

// Activation selects the function a Neuron applies to its weighted sum.
type Activation uint8

// Supported activations.
const (
	ReLU Activation = iota
	Tanh
	Linear

	// Softmax is accepted as a neuron activation but behaves exactly like
	// Linear: a single neuron cannot normalize across its layer. Apply
	// autodiff.Softmax to the layer's full output vector instead.
	Softmax
)

var activationNames = [...]string{
	ReLU:    "relu",
	Tanh:    "tanh",
	Linear:  "linear",
	Softmax: "softmax",
}

// ParseActivation maps a tag such as "relu" to its Activation.
func ParseActivation(s string) (Activation, error) {
	for a, name := range activationNames {
		if strings.EqualFold(s, name) {
			return Activation(a), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedActivation, s)
}

// Valid reports whether a is one of the supported activations.
func (a Activation) Valid() bool {
	return int(a) < len(activationNames)
}

// String returns the lower-case tag, e.g. "relu".
func (a Activation) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Activation(%d)", a)
	}
	return activationNames[a]
}

// Apply runs the activation on v.
func (a Activation) Apply(v *autodiff.Value) (*autodiff.Value, error) {
	switch a {
	case ReLU:
		return v.ReLU(), nil
	case Tanh:
		return v.Tanh(), nil
	case Linear, Softmax:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedActivation, a)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Activation) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedActivation, a)
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Activation) UnmarshalText(text []byte) error {
	parsed, err := ParseActivation(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
