// Package parallel fans independent per-sample work out across goroutines.
//
// Graph construction is single-threaded per graph; only work that builds
// separate graphs (such as forward-only evaluation of distinct samples) may
// be split with For.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 16, // One forward pass per item is already costly.
	}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForErr is For with a fallible f. Every index is still visited; the error
// returned is the one from the lowest failing index, or nil.
func ForErr(n int, f func(i int) error, cfg Config) error {
	errs := make([]error, n)
	For(n, func(i int) {
		errs[i] = f(i)
	}, cfg)

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
