package dynamo

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/san-kum/circlesim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

const maxPlacementAttempts = 1000

// Driver owns the two bodies and advances them one fixed step at a time.
// It moves from running to done exactly once, when the collision count
// reaches Config.TargetCollisions, and ignores Step calls afterwards.
//
// A Driver is not safe for concurrent use.
type Driver struct {
	cfg    Config
	bodies [2]*physics.Body

	collisions int
	bounces    int
	steps      int
	time       float64
	done       bool
	events     []CollisionEvent

	observers []Observer
	metrics   []Metric
}

// NewDriver places two bodies at random, non-overlapping positions inside
// the spawn disc and gives each a random speed in [SpeedMin, SpeedMax] and a
// random heading. The draw is fully determined by cfg.Seed.
func NewDriver(cfg Config, colorA, colorB color.RGBA) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	a := spawnBody(rng, cfg, colorA)

	var b *physics.Body
	for attempt := 0; ; attempt++ {
		if attempt == maxPlacementAttempts {
			return nil, fmt.Errorf("%w after %d attempts", ErrPlacement, attempt)
		}
		b = spawnBody(rng, cfg, colorB)
		if physics.Distance(a.Position, b.Position) >= a.Radius()+b.Radius() {
			break
		}
	}

	return &Driver{
		cfg:       cfg,
		bodies:    [2]*physics.Body{a, b},
		events:    make([]CollisionEvent, 0, cfg.TargetCollisions),
		observers: make([]Observer, 0),
		metrics:   make([]Metric, 0),
	}, nil
}

func spawnBody(rng *rand.Rand, cfg Config, col color.RGBA) *physics.Body {
	r := rng.Float64() * cfg.SpawnRadius()
	theta := rng.Float64() * 2 * math.Pi
	pos := r2.Add(cfg.Container.Center, physics.Polar(r, theta))

	speed := cfg.SpeedMin + rng.Float64()*(cfg.SpeedMax-cfg.SpeedMin)
	heading := rng.Float64() * 2 * math.Pi
	vel := physics.Polar(speed, heading)

	return physics.NewBody(pos, vel, cfg.BodyRadius, cfg.BodyMass, col, cfg.TrailLength)
}

func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }
func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }

// Step advances the simulation by dt: each body integrates, bounces off
// the container and records its trail point, then the pair is resolved. A
// resolved pair counts as one collision.
func (d *Driver) Step(dt float64) {
	if d.done {
		return
	}

	for _, b := range d.bodies {
		if b.Update(dt, d.cfg.Gravity, d.cfg.Container, d.cfg.Restitution) {
			d.bounces++
		}
	}

	d.steps++
	d.time += dt

	var ev *CollisionEvent
	if contact, ok := physics.ResolveContact(d.bodies[0], d.bodies[1]); ok {
		d.collisions++
		d.events = append(d.events, CollisionEvent{
			Step:        d.steps,
			Time:        d.time,
			Count:       d.collisions,
			Point:       contact.Point,
			Normal:      contact.Normal,
			ImpactSpeed: contact.ImpactSpeed,
		})
		ev = &d.events[len(d.events)-1]
		if d.collisions >= d.cfg.TargetCollisions {
			d.done = true
		}
	}

	if len(d.observers) == 0 && len(d.metrics) == 0 {
		return
	}
	s := d.State()
	for _, m := range d.metrics {
		m.Observe(s)
	}
	for _, o := range d.observers {
		if ev != nil {
			if co, ok := o.(CollisionObserver); ok {
				co.OnCollision(*ev)
			}
		}
		o.OnStep(s)
	}
}

func (d *Driver) Done() bool                   { return d.done }
func (d *Driver) CollisionCount() int          { return d.collisions }
func (d *Driver) Bounces() int                 { return d.bounces }
func (d *Driver) Steps() int                   { return d.steps }
func (d *Driver) Time() float64                { return d.time }
func (d *Driver) Config() Config               { return d.cfg }
func (d *Driver) Container() physics.Container { return d.cfg.Container }

// Events returns a copy of the collision log.
func (d *Driver) Events() []CollisionEvent {
	out := make([]CollisionEvent, len(d.events))
	copy(out, d.events)
	return out
}

// Body returns a read-only copy of body i (0 or 1).
func (d *Driver) Body(i int) BodyState {
	b := d.bodies[i]
	return BodyState{
		Position: b.Position,
		Velocity: b.Velocity,
		Radius:   b.Radius(),
		Mass:     b.Mass(),
		Color:    b.Color,
	}
}

func (d *Driver) Bodies() [2]BodyState {
	return [2]BodyState{d.Body(0), d.Body(1)}
}

// Trail returns body i's trail oldest-first. The returned value is live;
// presentation code should only iterate it.
func (d *Driver) Trail(i int) *physics.Trail {
	return d.bodies[i].Trail()
}

func (d *Driver) State() State {
	return State{
		Step:       d.steps,
		Time:       d.time,
		Collisions: d.collisions,
		Done:       d.done,
		Bodies:     d.Bodies(),
	}
}

func (d *Driver) Snapshot() Snapshot {
	return Snapshot{
		State:  d.State(),
		Trails: [2][]r2.Vec{d.bodies[0].Trail().Points(), d.bodies[1].Trail().Points()},
	}
}

// Valid reports whether both bodies hold finite state.
func (d *Driver) Valid() bool {
	return d.bodies[0].Valid() && d.bodies[1].Valid()
}

// Energy returns total kinetic plus gravitational potential energy.
func (d *Driver) Energy() float64 {
	return TotalEnergy(d.State(), d.cfg)
}

// TotalEnergy computes kinetic plus gravitational potential energy of s,
// with potential measured from the container centre.
func TotalEnergy(s State, cfg Config) float64 {
	e := 0.0
	for _, b := range s.Bodies {
		e += 0.5*b.Mass*r2.Dot(b.Velocity, b.Velocity) + b.Mass*cfg.Gravity*(cfg.Container.Center.Y-b.Position.Y)
	}
	return e
}
