package serialization

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ComputeChecksum computes SHA-256 checksum of data.
func ComputeChecksum(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// ValidateChecksum compares computed checksum against stored checksum.
// Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(computed, stored [32]byte) error {
	if computed != stored {
		return ErrChecksumMismatch
	}
	return nil
}

// ParseChecksum decodes a hex SHA-256 checksum.
func ParseChecksum(s string) ([32]byte, error) {
	var sum [32]byte
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(sum) {
		return sum, &ValidationError{
			Type:    "invalid_checksum",
			Field:   "checksum",
			Details: fmt.Sprintf("want %d hex-encoded bytes, got %q", len(sum), s),
			Err:     ErrChecksumMismatch,
		}
	}
	copy(sum[:], b)
	return sum, nil
}

// layersChecksum hashes the compact form of the layers JSON documents, so
// indentation does not change the result. Empty documents are skipped.
func layersChecksum(docs ...[]byte) ([32]byte, error) {
	var buf bytes.Buffer
	for _, raw := range docs {
		if len(raw) == 0 {
			continue
		}
		if err := json.Compact(&buf, raw); err != nil {
			return [32]byte{}, err
		}
	}
	return ComputeChecksum(buf.Bytes()), nil
}
