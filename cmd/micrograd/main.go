// Package main provides the micrograd CLI: train demo networks, inspect
// checkpoints and run predictions.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/micrograd/internal/autodiff"
	"github.com/born-ml/micrograd/internal/nn"
	"github.com/born-ml/micrograd/internal/onehot"
	"github.com/born-ml/micrograd/internal/optim"
	"github.com/born-ml/micrograd/internal/parallel"
	"github.com/born-ml/micrograd/internal/prng"
	"github.com/born-ml/micrograd/internal/serialization"
	"github.com/born-ml/micrograd/internal/train"
)

const version = "v0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	args := os.Args[2:]
	switch os.Args[1] {
	case "version":
		fmt.Printf("micrograd %s\n", version)
	case "train":
		runTrain(args)
	case "predict":
		runPredict(args)
	case "describe":
		runDescribe(args)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("micrograd - scalar autodiff and small neural networks")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  train      Train a demo network and write a checkpoint")
	fmt.Println("  predict    Run a checkpoint on one input")
	fmt.Println("  describe   Show the structure of a checkpoint")
}

var inits = map[string]nn.Init{
	"uniform": nn.InitUniform,
	"he":      nn.InitHe,
	"xavier":  nn.InitXavier,
}

// trainOptions holds the train flags.
type trainOptions struct {
	task      string
	epochs    int
	batchSize int
	lr        float64
	momentum  float64
	seed      uint
	optimizer string
	initName  string
	encoding  string
	logEvery  int
	out       string
	resume    string

	explicit map[string]bool // Flags set on the command line
}

func parseTrainFlags(args []string) *trainOptions {
	o := &trainOptions{explicit: make(map[string]bool)}
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	fs.StringVar(&o.task, "task", "multiclass", "Task: regression, binary, multiclass, xor, text or autoencoder")
	fs.IntVar(&o.epochs, "epochs", 100, "Number of training epochs")
	fs.IntVar(&o.batchSize, "batch", 0, "Batch size (0 = full batch)")
	fs.Float64Var(&o.lr, "lr", 0, "Learning rate (0 = task default)")
	fs.Float64Var(&o.momentum, "momentum", 0, "SGD momentum")
	fs.UintVar(&o.seed, "seed", 1337, "Seed for weight initialization and data")
	fs.StringVar(&o.optimizer, "optimizer", "sgd", "Optimizer: sgd or adam")
	fs.StringVar(&o.initName, "init", "uniform", "Weight initialization: uniform, he or xavier")
	fs.StringVar(&o.encoding, "encoding", "bytes", "Text task tokenizer: bytes or a tiktoken encoding such as cl100k_base")
	fs.IntVar(&o.logEvery, "log-every", 10, "Log progress every N steps")
	fs.StringVar(&o.out, "out", "model.json", "Checkpoint output path")
	fs.StringVar(&o.resume, "resume", "", "Checkpoint to continue training from")
	_ = fs.Parse(args)
	fs.Visit(func(f *flag.Flag) { o.explicit[f.Name] = true })
	return o
}

// resumeFrom takes the task, data seed and optimizer recorded in ckpt. The
// learning rate and momentum are taken too unless given on the command line.
func (o *trainOptions) resumeFrom(ckpt *serialization.Checkpoint) error {
	tm := ckpt.Training
	if tm == nil {
		return fmt.Errorf("checkpoint has no training state")
	}
	name, ok := ckpt.Metadata["task"]
	if !ok {
		return fmt.Errorf("checkpoint has no task metadata")
	}
	o.task = name
	o.encoding = encodingOf(ckpt)
	if s, ok := ckpt.Metadata["seed"]; ok {
		seed, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return fmt.Errorf("seed metadata: %w", err)
		}
		o.seed = uint(seed)
	}

	o.optimizer = tm.OptimizerType
	if lr, ok := tm.OptimizerConfig["final_lr"]; ok && !o.explicit["lr"] {
		o.lr = lr
	}
	if !o.explicit["momentum"] {
		o.momentum = tm.OptimizerConfig["momentum"]
	}
	return nil
}

// encodingOf returns the text encoding recorded in ckpt, or "bytes".
func encodingOf(ckpt *serialization.Checkpoint) string {
	if enc, ok := ckpt.Metadata["encoding"]; ok && enc != "" {
		return enc
	}
	return "bytes"
}

func newOptimizer(name string, params []*autodiff.Value, lr, momentum float64) (optim.Stateful, error) {
	switch name {
	case "sgd":
		return optim.NewSGD(params, optim.SGDConfig{LR: lr, Momentum: momentum}), nil
	case "adam":
		return optim.NewAdam(params, optim.AdamConfig{LR: lr}), nil
	default:
		return nil, fmt.Errorf("unknown optimizer %q", name)
	}
}

func runTrain(args []string) {
	o := parseTrainFlags(args)

	var prev *serialization.Checkpoint
	if o.resume != "" {
		var err error
		if prev, err = serialization.LoadCheckpoint(o.resume); err != nil {
			log.Fatalf("Failed to load checkpoint: %v", err)
		}
		if err := o.resumeFrom(prev); err != nil {
			log.Fatalf("Cannot resume from %s: %v", o.resume, err)
		}
	}

	initKind, ok := inits[o.initName]
	if !ok {
		log.Fatalf("Unknown init %q", o.initName)
	}

	rand := prng.New(uint32(o.seed)) //nolint:gosec // G115: seeds are 32-bit.
	t, err := newTask(o.task, rand, o.encoding)
	if err != nil {
		log.Fatalf("Failed to create task: %v", err)
	}
	if o.lr == 0 {
		o.lr = t.lr
	}

	var (
		model      nn.Network
		startEpoch int
		startStep  int64
	)
	if prev != nil {
		if err := t.check(prev); err != nil {
			log.Fatalf("Cannot resume from %s: %v", o.resume, err)
		}
		if model, err = serialization.LoadNetwork(prev); err != nil {
			log.Fatalf("Failed to build model: %v", err)
		}
		startEpoch, startStep = prev.Training.Epoch, prev.Training.Step
	} else {
		model = t.network(rand, initKind)
	}
	fmt.Printf("Task: %s (%d samples)\n", t.name, len(t.samples))
	fmt.Printf("Model: %s\n", model)
	fmt.Printf("Parameters: %d\n", len(model.Parameters()))

	opt, err := newOptimizer(o.optimizer, model.Parameters(), o.lr, o.momentum)
	if err != nil {
		log.Fatalf("Failed to create optimizer: %v", err)
	}
	if prev != nil && len(prev.Training.OptimizerState) > 0 {
		if err := opt.LoadStateDict(prev.Training.OptimizerState); err != nil {
			log.Fatalf("Failed to restore optimizer state: %v", err)
		}
		fmt.Printf("Resuming from epoch %d, step %d\n", startEpoch, startStep)
	}

	cfg := train.Config{
		Epochs:    o.epochs,
		BatchSize: o.batchSize,
		L2:        t.l2,
		Decay:     t.decay,
		MinLR:     1e-5,
		Logger:    log.New(os.Stdout, "", 0),
		LogEvery:  o.logEvery,
	}
	if o.batchSize > 0 {
		cfg.Shuffle = rand
	}

	hist, err := train.NewTrainer(model, opt, t.loss, cfg).Fit(t.samples)
	if err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	preds, err := train.Predict(model, t.inputs(), parallel.DefaultConfig())
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
	finalLoss := hist.Losses[len(hist.Losses)-1]
	fmt.Printf("Final loss: %.6f\n", finalLoss)
	if acc, ok := t.accuracy(preds); ok {
		fmt.Printf("Accuracy: %.2f%%\n", acc*100)
	}
	if t.isAutoencoder() {
		fmt.Printf("Reconstruction error: %.6f\n", reconstructionError(preds, t.inputs()))
	}

	ckpt, err := t.checkpoint(model)
	if err != nil {
		log.Fatalf("Failed to create checkpoint: %v", err)
	}
	ckpt.Metadata = map[string]string{
		"task": t.name,
		"seed": strconv.FormatUint(uint64(o.seed), 10),
	}
	if t.name == "text" {
		ckpt.Metadata["encoding"] = o.encoding
	}
	optConfig := map[string]float64{"lr": o.lr, "final_lr": hist.FinalLR}
	if o.optimizer == "sgd" {
		optConfig["momentum"] = o.momentum
	}
	ckpt.Training = &serialization.TrainingMeta{
		Epoch:           startEpoch + o.epochs,
		Step:            startStep + int64(len(hist.Losses)),
		Loss:            finalLoss,
		OptimizerType:   o.optimizer,
		OptimizerConfig: optConfig,
		OptimizerState:  opt.StateDict(),
	}
	if err := serialization.SaveCheckpoint(o.out, ckpt); err != nil {
		log.Fatalf("Failed to save checkpoint: %v", err)
	}
	fmt.Printf("Saved checkpoint to %s\n", o.out)
}

// accuracy reports the classification accuracy of preds, or sign accuracy
// for the binary task. Regression and autoencoder tasks have none.
func (t *task) accuracy(preds [][]float64) (float64, bool) {
	switch {
	case t.labels != nil:
		return train.Accuracy(preds, t.labels), true
	case t.name == "binary":
		got := make([]float64, len(preds))
		want := make([]float64, len(preds))
		for i := range preds {
			got[i] = preds[i][0]
			want[i] = t.samples[i].Target[0]
		}
		return train.SignAccuracy(got, want), true
	default:
		return 0, false
	}
}

func runPredict(args []string) {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	modelPath := fs.String("model", "model.json", "Checkpoint path")
	input := fs.String("input", "", "Comma separated input values, e.g. 0.2,0.9")
	text := fs.String("text", "", "Input text for checkpoints trained on the text task")
	_ = fs.Parse(args)

	ckpt, err := serialization.LoadCheckpoint(*modelPath)
	if err != nil {
		log.Fatalf("Failed to load checkpoint: %v", err)
	}
	model, err := serialization.LoadNetwork(ckpt)
	if err != nil {
		log.Fatalf("Failed to build model: %v", err)
	}

	var x []float64
	if *text != "" {
		f, err := newFeaturizer(encodingOf(ckpt), len(ckpt.Layers[0][0].Weights))
		if err != nil {
			log.Fatalf("Failed to create featurizer: %v", err)
		}
		if x, err = f.Features(*text); err != nil {
			log.Fatalf("Failed to featurize text: %v", err)
		}
	} else if x, err = parseInput(*input); err != nil {
		log.Fatalf("Invalid input: %v", err)
	}

	out, err := model.Forward(autodiff.Values(x...))
	if err != nil {
		log.Fatalf("Forward failed: %v", err)
	}

	if ae, ok := model.(*nn.Autoencoder); ok {
		latent, err := ae.Encode(autodiff.Values(x...))
		if err != nil {
			log.Fatalf("Encode failed: %v", err)
		}
		fmt.Printf("Latent: %v\n", latent.Data())
		fmt.Printf("Reconstruction: %v\n", out.Data())
		return
	}
	if ckpt.LastActivation != nn.Softmax {
		fmt.Printf("Output: %v\n", out.Data())
		return
	}
	probs := autodiff.Softmax(out)
	fmt.Printf("Probabilities: %v\n", autodiff.Data(probs))
	fmt.Printf("Class: %d\n", onehot.DecodeValues(probs))
}

func parseInput(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("no input values")
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func runDescribe(args []string) {
	fs := flag.NewFlagSet("describe", flag.ExitOnError)
	modelPath := fs.String("model", "model.json", "Checkpoint path")
	_ = fs.Parse(args)

	ckpt, err := serialization.LoadCheckpoint(*modelPath)
	if err != nil {
		log.Fatalf("Failed to load checkpoint: %v", err)
	}
	model, err := serialization.LoadNetwork(ckpt)
	if err != nil {
		log.Fatalf("Failed to build model: %v", err)
	}

	fmt.Printf("Model: %s\n", model)
	fmt.Printf("Parameters: %d\n", len(model.Parameters()))
	fmt.Printf("Last activation: %s\n", ckpt.LastActivation)
	if ckpt.IsAutoencoder() {
		fmt.Printf("Decoder last activation: %s\n", ckpt.Decoder.LastActivation)
	}
	fmt.Printf("Written by: %s at %s\n", ckpt.Version, ckpt.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Checksum: %s\n", ckpt.Checksum)
	for k, v := range ckpt.Metadata {
		fmt.Printf("  %s: %s\n", k, v)
	}
	if tm := ckpt.Training; tm != nil {
		fmt.Printf("Training: epoch %d, step %d, loss %.6f, optimizer %s (%d state values)\n",
			tm.Epoch, tm.Step, tm.Loss, tm.OptimizerType, len(tm.OptimizerState))
	}
}
