// Package serialization saves and loads network weights.
//
// Two formats are supported:
//
//	Weight file:
//	  A JSON array of layers, each an array of {"weights": [...], "bias": b}
//	  neuron objects. It carries no activations; the reader chooses the
//	  activation of the last layer when bootstrapping.
//
//	Checkpoint:
//	  A JSON object wrapping the same layers with a format version, the
//	  last-layer activation, creation time, free-form metadata, optional
//	  training state and a SHA-256 checksum of the compact layers JSON.
//	  An autoencoder checkpoint adds a "decoder" object with its own
//	  activation and layers; the checksum then covers both layer arrays.
//
// Example usage:
//
//	// Save a model
//	ckpt := serialization.NewCheckpoint(model, nn.Softmax, "v0.1.0")
//	if err := serialization.SaveCheckpoint("model.json", ckpt); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load a model
//	ckpt, err := serialization.LoadCheckpoint("model.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	model, err := serialization.LoadModel(ckpt)
package serialization
