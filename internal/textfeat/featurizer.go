package textfeat

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// DefaultWidth is the feature width used when none is given.
const DefaultWidth = 64

// Featurizer maps text to a bag-of-tokens vector.
type Featurizer struct {
	tok   Tokenizer
	width int
}

// NewFeaturizer creates a featurizer producing width-long vectors.
// A width <= 0 selects DefaultWidth.
func NewFeaturizer(tok Tokenizer, width int) *Featurizer {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Featurizer{tok: tok, width: width}
}

// Width returns the length of the vectors produced by Features.
func (f *Featurizer) Width() int {
	return f.width
}

// Features tokenizes text and returns the L1-normalized bucket counts.
// Text without tokens yields all zeros.
func (f *Featurizer) Features(text string) ([]float64, error) {
	tokens, err := f.tok.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("featurize: %w", err)
	}

	counts := make([]float64, f.width)
	for _, tok := range tokens {
		counts[bucket(tok, f.width)]++
	}

	if total := floats.Sum(counts); total > 0 {
		floats.Scale(1/total, counts)
	}
	return counts, nil
}

// FeaturesAll featurizes every text.
func (f *Featurizer) FeaturesAll(texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v, err := f.Features(text)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func bucket(tok int32, width int) int {
	b := int(tok) % width
	if b < 0 {
		b += width
	}
	return b
}
