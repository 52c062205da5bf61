package serialization

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/micrograd/internal/nn"
)

// MarshalStructure encodes s as a weight file.
func MarshalStructure(s nn.Structure) ([]byte, error) {
	if err := checkFinite("layers", s); err != nil {
		return nil, err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal weights: %w", err)
	}
	return data, nil
}

// UnmarshalStructure decodes a weight file. The structure is not
// validated; nn.Bootstrap does that.
func UnmarshalStructure(data []byte) (nn.Structure, error) {
	var s nn.Structure
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal weights: %w", err)
	}
	return s, nil
}

// WriteWeights writes s to path as a weight file.
func WriteWeights(path string, s nn.Structure) error {
	data, err := MarshalStructure(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write weights: %w", err)
	}
	return nil
}

// ReadWeights reads a weight file from path.
func ReadWeights(path string) (nn.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	defer f.Close()

	data, err := readLimited(f)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	return UnmarshalStructure(data)
}

// readLimited reads r fully, failing once more than MaxFileSize bytes arrive.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, MaxFileSize)
	}
	return data, nil
}
