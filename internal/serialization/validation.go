package serialization

import (
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/micrograd/internal/nn"
)

// Validation limits for resource protection.
const (
	MaxFileSize     = 256 * 1024 * 1024 // 256MB - maximum weight file or checkpoint size
	MaxMetadataSize = 1024 * 1024       // 1MB - maximum total metadata size
)

// ValidateCheckpoint checks that ckpt can be written and bootstrapped.
func ValidateCheckpoint(ckpt *Checkpoint) error {
	if ckpt.FormatVersion < 1 || ckpt.FormatVersion > FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, ckpt.FormatVersion)
	}

	if !ckpt.LastActivation.Valid() {
		return &ValidationError{
			Type:    "invalid_activation",
			Field:   "last_activation",
			Details: ckpt.LastActivation.String(),
			Err:     nn.ErrUnsupportedActivation,
		}
	}

	size := 0
	for k, v := range ckpt.Metadata {
		size += len(k) + len(v)
	}
	if size > MaxMetadataSize {
		return &ValidationError{
			Type:    "metadata_too_large",
			Field:   "metadata",
			Details: fmt.Sprintf("%d bytes > max %d", size, MaxMetadataSize),
		}
	}

	if err := ckpt.Layers.Validate(); err != nil {
		return &ValidationError{
			Type:    "malformed_layers",
			Field:   "layers",
			Details: err.Error(),
			Err:     err,
		}
	}

	if err := checkFinite("layers", ckpt.Layers); err != nil {
		return err
	}

	if ckpt.Decoder != nil {
		if err := validateDecoder(ckpt.Decoder, len(ckpt.Layers[len(ckpt.Layers)-1])); err != nil {
			return err
		}
	}

	if tm := ckpt.Training; tm != nil {
		for _, x := range tm.OptimizerState {
			if !isFinite(x) {
				return &ValidationError{
					Type:    "non_finite",
					Field:   "training.optimizer_state",
					Details: "optimizer state has a NaN or infinite value",
				}
			}
		}
	}
	return nil
}

// validateDecoder checks the decoder half of an autoencoder checkpoint.
// Its input width must match the encoder output width.
func validateDecoder(d *DecoderPart, latent int) error {
	if !d.LastActivation.Valid() {
		return &ValidationError{
			Type:    "invalid_activation",
			Field:   "decoder.last_activation",
			Details: d.LastActivation.String(),
			Err:     nn.ErrUnsupportedActivation,
		}
	}
	if err := d.Layers.Validate(); err != nil {
		return &ValidationError{
			Type:    "malformed_layers",
			Field:   "decoder.layers",
			Details: err.Error(),
			Err:     err,
		}
	}
	if width := len(d.Layers[0][0].Weights); width != latent {
		return &ValidationError{
			Type:    "malformed_layers",
			Field:   "decoder.layers",
			Details: fmt.Sprintf("decoder takes %d inputs, encoder yields %d", width, latent),
			Err:     &nn.StructureError{Layer: 0, Neuron: 0, Details: "latent width mismatch"},
		}
	}
	return checkFinite("decoder.layers", d.Layers)
}

// checkFinite rejects NaN and infinite parameters, which JSON cannot carry.
func checkFinite(field string, s nn.Structure) error {
	for i, l := range s {
		for j, n := range l {
			bad := !isFinite(n.Bias)
			for _, w := range n.Weights {
				bad = bad || !isFinite(w)
			}
			if bad {
				return &ValidationError{
					Type:    "non_finite",
					Field:   field,
					Details: fmt.Sprintf("layer %d neuron %d has a NaN or infinite parameter", i, j),
					Err:     &nn.StructureError{Layer: i, Neuron: j, Details: "non-finite parameter"},
				}
			}
		}
	}
	return nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// IsValidationError reports whether err is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
