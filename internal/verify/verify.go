// Package verify checks device results against a host-side expectation,
// splitting large buffers across goroutines.
package verify

import (
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Config controls how the comparison is split.
type Config struct {
	NumWorkers   int // Number of worker goroutines to use.
	MinChunkSize int // Minimum elements per goroutine to avoid overhead.
	MaxReported  int // Maximum mismatching indices kept in a Report; negative means 0.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	return Config{
		NumWorkers:   runtime.NumCPU(),
		MinChunkSize: 4096,
		MaxReported:  8,
	}
}

// Report is the outcome of a comparison.
type Report struct {
	Checked    int
	Mismatches int
	// First mismatching indices in ascending order, at most Config.MaxReported.
	Indices []int
}

// OK reports whether every element matched.
func (r Report) OK() bool { return r.Mismatches == 0 }

// Each compares got[i] with want(i) for every i using equal.
// want and equal must be safe to call from several goroutines.
func Each[T any](got []T, want func(i int) T, equal func(a, b T) bool, cfg Config) Report {
	n := len(got)
	workers := max(cfg.NumWorkers, 1)
	chunkSize := max((n+workers-1)/workers, cfg.MinChunkSize, 1)
	maxReported := max(cfg.MaxReported, 0)

	var (
		group  errgroup.Group
		mu     sync.Mutex
		report = Report{Checked: n}
	)
	group.SetLimit(workers)
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		group.Go(func() error {
			var bad []int
			count := 0
			for i := start; i < end; i++ {
				if !equal(got[i], want(i)) {
					count++
					if len(bad) < maxReported {
						bad = append(bad, i)
					}
				}
			}
			if count > 0 {
				mu.Lock()
				report.Mismatches += count
				report.Indices = append(report.Indices, bad...)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = group.Wait() // workers never fail

	slices.Sort(report.Indices)
	if len(report.Indices) > maxReported {
		report.Indices = report.Indices[:maxReported]
	}
	return report
}

// All compares every element of got with the single value want.
func All[T any](got []T, want T, equal func(a, b T) bool, cfg Config) Report {
	return Each(got, func(int) T { return want }, equal, cfg)
}
