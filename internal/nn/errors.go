package nn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrUnsupportedActivation = errors.New("nn: unsupported activation")
	ErrMalformedStructure    = errors.New("nn: malformed weight structure")
)

// StructureError describes where a serialized weight structure is malformed.
// It matches ErrMalformedStructure with errors.Is.
type StructureError struct {
	Layer   int    // Layer index, -1 if not layer specific
	Neuron  int    // Neuron index within the layer, -1 if not neuron specific
	Details string // What is wrong
}

// Error implements the error interface.
func (e *StructureError) Error() string {
	switch {
	case e.Layer < 0:
		return fmt.Sprintf("%v: %s", ErrMalformedStructure, e.Details)
	case e.Neuron < 0:
		return fmt.Sprintf("%v: layer %d: %s", ErrMalformedStructure, e.Layer, e.Details)
	default:
		return fmt.Sprintf("%v: layer %d neuron %d: %s", ErrMalformedStructure, e.Layer, e.Neuron, e.Details)
	}
}

// Unwrap makes StructureError match ErrMalformedStructure.
func (e *StructureError) Unwrap() error {
	return ErrMalformedStructure
}
