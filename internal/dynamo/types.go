package dynamo

import (
	"fmt"
	"image/color"
	"math"

	"github.com/san-kum/circlesim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultContainerRadius  = 200.0
	DefaultBodyRadius       = 15.0
	DefaultBodyMass         = 1.0
	DefaultGravity          = 0.1
	DefaultRestitution      = 0.98
	DefaultTrailLength      = 120
	DefaultTargetCollisions = 10
	DefaultSpeedMin         = 10.0
	DefaultSpeedMax         = 20.0
	DefaultDt               = 1.0
)

// Config is the immutable parameter set of one simulation. It is passed by
// value and never modified by the driver.
type Config struct {
	Container        physics.Container
	BodyRadius       float64
	BodyMass         float64
	Gravity          float64
	Restitution      float64
	TrailLength      int
	TargetCollisions int
	SpeedMin         float64
	SpeedMax         float64
	PlacementMargin  float64
	Dt               float64
	Seed             int64
}

func DefaultConfig() Config {
	return Config{
		Container: physics.Container{
			Center: r2.Vec{X: 400, Y: 400},
			Radius: DefaultContainerRadius,
		},
		BodyRadius:       DefaultBodyRadius,
		BodyMass:         DefaultBodyMass,
		Gravity:          DefaultGravity,
		Restitution:      DefaultRestitution,
		TrailLength:      DefaultTrailLength,
		TargetCollisions: DefaultTargetCollisions,
		SpeedMin:         DefaultSpeedMin,
		SpeedMax:         DefaultSpeedMax,
		PlacementMargin:  2 * DefaultBodyRadius,
		Dt:               DefaultDt,
	}
}

// SpawnRadius is the radius of the disc initial centres are drawn from.
func (c Config) SpawnRadius() float64 {
	return c.Container.Radius - c.PlacementMargin
}

func (c Config) Validate() error {
	switch {
	case c.Container.Radius <= 0:
		return fmt.Errorf("%w: container radius must be positive, got %g", ErrInvalidConfig, c.Container.Radius)
	case c.BodyRadius <= 0:
		return fmt.Errorf("%w: body radius must be positive, got %g", ErrInvalidConfig, c.BodyRadius)
	case c.BodyMass <= 0:
		return fmt.Errorf("%w: body mass must be positive, got %g", ErrInvalidConfig, c.BodyMass)
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	case math.IsNaN(c.Gravity) || math.IsInf(c.Gravity, 0):
		return fmt.Errorf("%w: gravity must be finite", ErrInvalidConfig)
	case c.Restitution <= 0 || c.Restitution > 1:
		return fmt.Errorf("%w: restitution must be in (0, 1], got %g", ErrInvalidConfig, c.Restitution)
	case c.TrailLength < 1:
		return fmt.Errorf("%w: trail length must be at least 1, got %d", ErrInvalidConfig, c.TrailLength)
	case c.TargetCollisions < 1:
		return fmt.Errorf("%w: target collisions must be at least 1, got %d", ErrInvalidConfig, c.TargetCollisions)
	case c.SpeedMin < 0 || c.SpeedMax < c.SpeedMin:
		return fmt.Errorf("%w: speed range [%g, %g] is invalid", ErrInvalidConfig, c.SpeedMin, c.SpeedMax)
	case c.PlacementMargin < c.BodyRadius:
		return fmt.Errorf("%w: placement margin %g is smaller than the body radius %g", ErrInvalidConfig, c.PlacementMargin, c.BodyRadius)
	case c.SpawnRadius() < c.BodyRadius:
		return fmt.Errorf("%w: container radius %g leaves no room to place two bodies", ErrInvalidConfig, c.Container.Radius)
	}
	return nil
}

// BodyState is a read-only copy of one body's kinematics.
type BodyState struct {
	Position r2.Vec     `json:"position"`
	Velocity r2.Vec     `json:"velocity"`
	Radius   float64    `json:"radius"`
	Mass     float64    `json:"mass"`
	Color    color.RGBA `json:"-"`
}

// State is a cheap copy of the driver after a step, without trails.
type State struct {
	Step       int          `json:"step"`
	Time       float64      `json:"time"`
	Collisions int          `json:"collisions"`
	Done       bool         `json:"done"`
	Bodies     [2]BodyState `json:"bodies"`
}

// Snapshot is State plus each body's trail, oldest point first.
type Snapshot struct {
	State
	Trails [2][]r2.Vec
}

// CollisionEvent records one counted body-body collision.
type CollisionEvent struct {
	Step        int     `json:"step"`
	Time        float64 `json:"time"`
	Count       int     `json:"count"`
	Point       r2.Vec  `json:"point"`
	Normal      r2.Vec  `json:"normal"`
	ImpactSpeed float64 `json:"impact_speed"`
}

type Metric interface {
	Name() string
	Observe(s State)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s State)
}

// CollisionObserver is implemented by observers that also want to hear
// about counted collisions.
type CollisionObserver interface {
	OnCollision(ev CollisionEvent)
}

type Result struct {
	Config     Config             `json:"-"`
	Frames     []State            `json:"frames"`
	Events     []CollisionEvent   `json:"events"`
	Metrics    map[string]float64 `json:"metrics"`
	StepsTaken int                `json:"steps_taken"`
	Collisions int                `json:"collisions"`
	Bounces    int                `json:"bounces"`
	Completed  bool               `json:"completed"`
}
