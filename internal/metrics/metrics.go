package metrics

import "github.com/san-kum/circlesim/internal/dynamo"

// Default returns a fresh instance of every metric for cfg.
func Default(cfg dynamo.Config) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(cfg),
		NewEnergyLoss(cfg),
		NewContainment(cfg),
		NewSeparation(),
		NewMaxSpeed(),
	}
}
