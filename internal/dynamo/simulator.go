package dynamo

import (
	"context"
	"fmt"
)

// Run steps the driver headlessly with cfg.Dt until it completes, maxSteps
// steps have been taken, or ctx is cancelled. Every state including the
// initial one is recorded in Result.Frames. On cancellation the partial
// result is returned together with ctx.Err().
func (d *Driver) Run(ctx context.Context, maxSteps int) (*Result, error) {
	if maxSteps <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrStepLimit, maxSteps)
	}

	result := &Result{
		Config:  d.cfg,
		Frames:  make([]State, 0, min(maxSteps, 4096)+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range d.metrics {
		m.Reset()
		m.Observe(d.State())
	}

	result.Frames = append(result.Frames, d.State())

	var runErr error
	for i := 0; i < maxSteps && !d.done; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		d.Step(d.cfg.Dt)

		if !d.Valid() {
			runErr = &SimulationError{Step: d.steps, Time: d.time, State: d.State(), Wrapped: ErrInvalidState}
			break
		}
		result.Frames = append(result.Frames, d.State())
	}

	result.StepsTaken = d.steps
	result.Collisions = d.collisions
	result.Bounces = d.bounces
	result.Completed = d.done
	result.Events = d.Events()
	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, runErr
}
