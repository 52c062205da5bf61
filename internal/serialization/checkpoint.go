package serialization

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/born-ml/micrograd/internal/nn"
)

// FormatVersion is the checkpoint format written by this package.
const FormatVersion = 1

// Checkpoint is a weight structure plus what is needed to rebuild and
// audit the network.
//
// An autoencoder checkpoint stores the encoder in Layers and LastActivation
// and the decoder in Decoder.
type Checkpoint struct {
	FormatVersion  int               `json:"format_version"`     // Version of the checkpoint format
	Version        string            `json:"version"`            // Version of the program that wrote it
	CreatedAt      time.Time         `json:"created_at"`         // When the checkpoint was created
	LastActivation nn.Activation     `json:"last_activation"`    // Activation of the final layer
	Checksum       string            `json:"checksum"`           // Hex SHA-256 of the compact layers JSON
	Metadata       map[string]string `json:"metadata,omitempty"` // Custom metadata
	Training       *TrainingMeta     `json:"training,omitempty"` // Training state (optional)
	Layers         nn.Structure      `json:"layers"`             // Serialized weights
	Decoder        *DecoderPart      `json:"decoder,omitempty"`  // Decoder of an autoencoder (optional)
}

// DecoderPart is the second half of an autoencoder checkpoint.
type DecoderPart struct {
	LastActivation nn.Activation `json:"last_activation"`
	Layers         nn.Structure  `json:"layers"`
}

// TrainingMeta records where training stopped.
type TrainingMeta struct {
	Epoch           int                `json:"epoch"`                      // Epochs completed
	Step            int64              `json:"step"`                       // Optimizer steps taken
	Loss            float64            `json:"loss"`                       // Loss at the last step
	OptimizerType   string             `json:"optimizer_type"`             // "SGD", "Adam", ...
	OptimizerConfig map[string]float64 `json:"optimizer_config,omitempty"` // Optimizer hyperparameters
	OptimizerState  []float64          `json:"optimizer_state,omitempty"`  // Optimizer buffers from StateDict
}

// NewCheckpoint captures the current weights of model.
func NewCheckpoint(model *nn.Sequential, lastActivation nn.Activation, version string) *Checkpoint {
	return &Checkpoint{
		FormatVersion:  FormatVersion,
		Version:        version,
		CreatedAt:      time.Now().UTC(),
		LastActivation: lastActivation,
		Layers:         model.Weights(),
	}
}

// NewAutoencoderCheckpoint captures the encoder and decoder weights of ae.
func NewAutoencoderCheckpoint(ae *nn.Autoencoder, encoderActivation, decoderActivation nn.Activation, version string) *Checkpoint {
	ckpt := NewCheckpoint(ae.Encoder(), encoderActivation, version)
	ckpt.Decoder = &DecoderPart{
		LastActivation: decoderActivation,
		Layers:         ae.Decoder().Weights(),
	}
	return ckpt
}

// IsAutoencoder reports whether ckpt carries a decoder.
func (c *Checkpoint) IsAutoencoder() bool {
	return c.Decoder != nil
}

// wireCheckpoint keeps the layers as raw bytes so the checksum can be
// verified before they are decoded.
type wireCheckpoint struct {
	Checkpoint
	Layers  json.RawMessage `json:"layers"`
	Decoder *wireDecoder    `json:"decoder,omitempty"`
}

type wireDecoder struct {
	LastActivation nn.Activation   `json:"last_activation"`
	Layers         json.RawMessage `json:"layers"`
}

// WriteCheckpoint validates ckpt, fills in its format version and checksum
// and writes it to w as indented JSON.
func WriteCheckpoint(w io.Writer, ckpt *Checkpoint) error {
	ckpt.FormatVersion = FormatVersion
	if err := ValidateCheckpoint(ckpt); err != nil {
		return err
	}

	wire := wireCheckpoint{Checkpoint: *ckpt}
	var err error
	if wire.Layers, err = MarshalStructure(ckpt.Layers); err != nil {
		return err
	}
	var decoder []byte
	if ckpt.Decoder != nil {
		if decoder, err = MarshalStructure(ckpt.Decoder.Layers); err != nil {
			return err
		}
		wire.Decoder = &wireDecoder{LastActivation: ckpt.Decoder.LastActivation, Layers: decoder}
	}

	sum, err := layersChecksum(wire.Layers, decoder)
	if err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	ckpt.Checksum = hex.EncodeToString(sum[:])
	wire.Checkpoint.Checksum = ckpt.Checksum

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(wire); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

// ReadCheckpoint reads a checkpoint written by WriteCheckpoint. The format
// version, the checksum and the checkpoint contents are all verified.
func ReadCheckpoint(r io.Reader) (*Checkpoint, error) {
	data, err := readLimited(r)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var wire wireCheckpoint
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	if wire.FormatVersion < 1 || wire.FormatVersion > FormatVersion {
		return nil, fmt.Errorf("%w: %d (supported: 1-%d)", ErrUnsupportedVersion, wire.FormatVersion, FormatVersion)
	}

	stored, err := ParseChecksum(wire.Checkpoint.Checksum)
	if err != nil {
		return nil, err
	}
	var decoder json.RawMessage
	if wire.Decoder != nil {
		decoder = wire.Decoder.Layers
	}
	computed, err := layersChecksum(wire.Layers, decoder)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: layers: %w", err)
	}
	if err := ValidateChecksum(computed, stored); err != nil {
		return nil, err
	}

	ckpt := wire.Checkpoint
	if ckpt.Layers, err = UnmarshalStructure(wire.Layers); err != nil {
		return nil, err
	}
	if wire.Decoder != nil {
		ckpt.Decoder = &DecoderPart{LastActivation: wire.Decoder.LastActivation}
		if ckpt.Decoder.Layers, err = UnmarshalStructure(wire.Decoder.Layers); err != nil {
			return nil, fmt.Errorf("decoder: %w", err)
		}
	}
	if err := ValidateCheckpoint(&ckpt); err != nil {
		return nil, err
	}
	return &ckpt, nil
}

// SaveCheckpoint writes ckpt to path.
func SaveCheckpoint(path string, ckpt *Checkpoint) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("save checkpoint: %w", cerr)
		}
	}()

	return WriteCheckpoint(f, ckpt)
}

// LoadCheckpoint reads a checkpoint from path.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	defer f.Close()

	return ReadCheckpoint(f)
}

// LoadModel bootstraps a trainable network from ckpt. For an autoencoder
// checkpoint it returns the encoder.
func LoadModel(ckpt *Checkpoint) (*nn.Sequential, error) {
	return nn.Bootstrap(ckpt.Layers, ckpt.LastActivation)
}

// LoadAutoencoder bootstraps both halves of an autoencoder checkpoint.
func LoadAutoencoder(ckpt *Checkpoint) (*nn.Autoencoder, error) {
	if ckpt.Decoder == nil {
		return nil, ErrNotAutoencoder
	}
	encoder, err := nn.Bootstrap(ckpt.Layers, ckpt.LastActivation)
	if err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}
	decoder, err := nn.Bootstrap(ckpt.Decoder.Layers, ckpt.Decoder.LastActivation)
	if err != nil {
		return nil, fmt.Errorf("decoder: %w", err)
	}
	return nn.NewAutoencoder(encoder, decoder), nil
}

// LoadNetwork bootstraps whatever ckpt holds: an autoencoder when it
// carries a decoder, a Sequential otherwise.
func LoadNetwork(ckpt *Checkpoint) (nn.Network, error) {
	if ckpt.IsAutoencoder() {
		return LoadAutoencoder(ckpt)
	}
	return LoadModel(ckpt)
}
