package dynamo

import (
	"context"
	"fmt"
	"image/color"
	"runtime"
	"sync"
)

// Ensemble runs the same configuration over consecutive seeds, one driver
// per goroutine, with at most GOMAXPROCS of them stepping at once.
type Ensemble struct {
	cfg       Config
	numRuns   int
	seedStart int64
	metrics   func(cfg Config) []Metric
}

// NewEnsemble prepares numRuns runs seeded seedStart, seedStart+1, ...
// newMetrics, if non-nil, is called once per run so that no metric is
// shared between goroutines.
func NewEnsemble(cfg Config, numRuns int, seedStart int64, newMetrics func(cfg Config) []Metric) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart, metrics: newMetrics}
}

func (e *Ensemble) Run(ctx context.Context, maxSteps int) ([]*Result, error) {
	if e.numRuns < 1 {
		return nil, fmt.Errorf("%w: run count must be at least 1, got %d", ErrInvalidConfig, e.numRuns)
	}
	if maxSteps <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrStepLimit, maxSteps)
	}

	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			cfgCopy := e.cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			d, err := NewDriver(cfgCopy, color.RGBA{}, color.RGBA{})
			if err != nil {
				errs[idx] = err
				return
			}
			if e.metrics != nil {
				for _, m := range e.metrics(cfgCopy) {
					d.AddMetric(m)
				}
			}

			results[idx], errs[idx] = d.Run(ctx, maxSteps)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
