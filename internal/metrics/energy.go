package metrics

import (
	"math"

	"github.com/san-kum/circlesim/internal/dynamo"
)

// Energy is the mean total mechanical energy over all observed states.
type Energy struct {
	name        string
	cfg         dynamo.Config
	samples     int
	totalEnergy float64
}

func NewEnergy(cfg dynamo.Config) *Energy {
	return &Energy{
		name: "energy",
		cfg:  cfg,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s dynamo.State) {
	e.totalEnergy += dynamo.TotalEnergy(s, e.cfg)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyLoss is the fraction of the first observed energy that is missing
// from the latest observation. Wall bounces are the only dissipative part
// of the model, so this grows with every bounce.
type EnergyLoss struct {
	name          string
	cfg           dynamo.Config
	initialEnergy float64
	currentEnergy float64
	samples       int
}

func NewEnergyLoss(cfg dynamo.Config) *EnergyLoss {
	return &EnergyLoss{
		name: "energy_loss",
		cfg:  cfg,
	}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(s dynamo.State) {
	energy := dynamo.TotalEnergy(s, e.cfg)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.samples++
}

func (e *EnergyLoss) Value() float64 {
	if e.samples == 0 || e.initialEnergy == 0 {
		return 0
	}
	return (e.initialEnergy - e.currentEnergy) / math.Abs(e.initialEnergy)
}

func (e *EnergyLoss) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.samples = 0
}
