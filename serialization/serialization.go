// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package serialization saves and loads network weights as plain weight
// files or as checksummed checkpoints.
package serialization

import (
	"github.com/born-ml/micrograd/internal/nn"
	"github.com/born-ml/micrograd/internal/serialization"
)

// Checkpoint is a weight structure plus the metadata needed to rebuild it.
type Checkpoint = serialization.Checkpoint

// DecoderPart is the decoder half of an autoencoder checkpoint.
type DecoderPart = serialization.DecoderPart

// TrainingMeta records where training stopped.
type TrainingMeta = serialization.TrainingMeta

// ValidationError provides detailed information about validation failures.
type ValidationError = serialization.ValidationError

// FormatVersion is the checkpoint format written by this package.
const FormatVersion = serialization.FormatVersion

// Errors.
var (
	ErrChecksumMismatch   = serialization.ErrChecksumMismatch
	ErrUnsupportedVersion = serialization.ErrUnsupportedVersion
	ErrFileTooLarge       = serialization.ErrFileTooLarge
	ErrNotAutoencoder     = serialization.ErrNotAutoencoder
)

// WriteWeights writes s to path as a weight file.
func WriteWeights(path string, s nn.Structure) error {
	return serialization.WriteWeights(path, s)
}

// ReadWeights reads a weight file from path.
func ReadWeights(path string) (nn.Structure, error) {
	return serialization.ReadWeights(path)
}

// NewCheckpoint captures the current weights of model.
func NewCheckpoint(model *nn.Sequential, lastActivation nn.Activation, version string) *Checkpoint {
	return serialization.NewCheckpoint(model, lastActivation, version)
}

// NewAutoencoderCheckpoint captures the encoder and decoder weights of ae.
func NewAutoencoderCheckpoint(ae *nn.Autoencoder, encoderActivation, decoderActivation nn.Activation, version string) *Checkpoint {
	return serialization.NewAutoencoderCheckpoint(ae, encoderActivation, decoderActivation, version)
}

// SaveCheckpoint writes ckpt to path.
func SaveCheckpoint(path string, ckpt *Checkpoint) error {
	return serialization.SaveCheckpoint(path, ckpt)
}

// LoadCheckpoint reads and verifies a checkpoint from path.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	return serialization.LoadCheckpoint(path)
}

// LoadModel bootstraps a trainable network from ckpt.
func LoadModel(ckpt *Checkpoint) (*nn.Sequential, error) {
	return serialization.LoadModel(ckpt)
}

// LoadAutoencoder bootstraps both halves of an autoencoder checkpoint.
func LoadAutoencoder(ckpt *Checkpoint) (*nn.Autoencoder, error) {
	return serialization.LoadAutoencoder(ckpt)
}

// LoadNetwork bootstraps an autoencoder or a Sequential, whichever ckpt holds.
func LoadNetwork(ckpt *Checkpoint) (nn.Network, error) {
	return serialization.LoadNetwork(ckpt)
}
