package nn

import (
	"fmt"

	"github.com/born-ml/micrograd/internal/autodiff"
)

// Autoencoder pairs an encoder and a decoder.
//
// Forward detaches the latent vector before decoding: the decoder sees fresh
// leaves carrying the encoded data, so a loss on the reconstruction sends no
// gradient into the encoder. Train the encoder through Encode with a loss of
// its own if it should learn.
type Autoencoder struct {
	encoder *Sequential
	decoder *Sequential
}

// NewAutoencoder creates an autoencoder from an encoder and a decoder.
func NewAutoencoder(encoder, decoder *Sequential) *Autoencoder {
	return &Autoencoder{encoder: encoder, decoder: decoder}
}

// Forward encodes inputs, detaches the latent vector and decodes it.
func (a *Autoencoder) Forward(inputs []*autodiff.Value) (Output, error) {
	encoded, err := a.Encode(inputs)
	if err != nil {
		return nil, err
	}
	return a.Decode(autodiff.Detach(encoded))
}

// Encode runs the encoder with the graph attached.
func (a *Autoencoder) Encode(inputs []*autodiff.Value) (Output, error) {
	out, err := a.encoder.Forward(inputs)
	if err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}
	return out, nil
}

// Decode runs the decoder on a latent vector.
func (a *Autoencoder) Decode(latent []*autodiff.Value) (Output, error) {
	out, err := a.decoder.Forward(latent)
	if err != nil {
		return nil, fmt.Errorf("decoder: %w", err)
	}
	return out, nil
}

// Parameters returns the encoder parameters followed by the decoder's.
func (a *Autoencoder) Parameters() []*autodiff.Value {
	params := a.encoder.Parameters()
	return append(params, a.decoder.Parameters()...)
}

// ZeroGrad resets the gradients of both halves.
func (a *Autoencoder) ZeroGrad() {
	ZeroGrad(a)
}

// Encoder returns the encoder.
func (a *Autoencoder) Encoder() *Sequential {
	return a.encoder
}

// Decoder returns the decoder.
func (a *Autoencoder) Decoder() *Sequential {
	return a.decoder
}

// String lists the encoder layers followed by the decoder layers.
func (a *Autoencoder) String() string {
	layers := make([]*Layer, 0, a.encoder.Len()+a.decoder.Len())
	layers = append(layers, a.encoder.layers...)
	layers = append(layers, a.decoder.layers...)
	return "Sequential of [" + joinLayers(layers) + "]"
}
