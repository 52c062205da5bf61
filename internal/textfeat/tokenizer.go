// Package textfeat turns text into fixed-width input vectors.
//
// Text is split into token IDs by a Tokenizer, each ID is hashed into one of
// Width buckets, and the bucket counts are normalized to sum to 1. The result
// can be fed straight into a network's first layer.
package textfeat

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer converts text to token IDs.
type Tokenizer interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]int32, error)
}

// Encoding names understood by NewTikToken.
const (
	// EncodingCL100kBase is the encoding name for GPT-4 and GPT-3.5-turbo.
	EncodingCL100kBase = "cl100k_base"
	// EncodingP50kBase is the encoding name for GPT-3.
	EncodingP50kBase = "p50k_base"
	// EncodingR50kBase is the encoding name for older GPT-3 models.
	EncodingR50kBase = "r50k_base"
)

// TikToken wraps the pkoukk/tiktoken-go library for OpenAI BPE tokenizers.
//
// Loading an encoding may download its vocabulary on first use.
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewTikToken creates a tokenizer for the named encoding.
func NewTikToken(encodingName string) (*TikToken, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}

	return &TikToken{
		encoding: encoding,
		name:     encodingName,
	}, nil
}

// Encode converts text to token IDs.
func (t *TikToken) Encode(text string) ([]int32, error) {
	tokens := t.encoding.Encode(text, nil, nil)

	result := make([]int32, len(tokens))
	for i, tok := range tokens {
		result[i] = int32(tok) //nolint:gosec // G115: Token ID fits in int32 - vocab size < 2^31.
	}

	return result, nil
}

// Name returns the encoding name.
func (t *TikToken) Name() string {
	return t.name
}

// Bytes tokenizes text into its raw bytes. It needs no vocabulary and
// works offline.
type Bytes struct{}

// Encode returns one token per byte of text.
func (Bytes) Encode(text string) ([]int32, error) {
	out := make([]int32, len(text))
	for i := range len(text) {
		out[i] = int32(text[i])
	}
	return out, nil
}
