// Package dynamo drives the two-body collision simulation.
//
// The package owns all mutable simulation state:
//
//   - [Config]: immutable parameters (container, body size, gravity, ...)
//   - [Driver]: the two bodies, the collision counter and the done flag
//   - [Metric] / [Observer]: hooks called after every step
//   - [Ensemble]: many seeded headless runs in parallel
//
// # Example
//
//	d, err := dynamo.NewDriver(dynamo.DefaultConfig(), red, blue)
//	if err != nil {
//	    return err
//	}
//	for !d.Done() {
//	    d.Step(1.0)
//	}
//
// # Thread Safety
//
// Driver instances are NOT thread-safe. For parallel simulations,
// use the [Ensemble] type which gives every run its own driver.
package dynamo
