package physics

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// Container is the fixed circular wall the bodies live in.
type Container struct {
	Center r2.Vec
	Radius float64
}

// Body is a rigid disc. Radius and mass are fixed at construction.
type Body struct {
	Position r2.Vec
	Velocity r2.Vec
	Color    color.RGBA

	radius float64
	mass   float64
	trail  *Trail
}

func NewBody(pos, vel r2.Vec, radius, mass float64, col color.RGBA, trailLen int) *Body {
	return &Body{
		Position: pos,
		Velocity: vel,
		Color:    col,
		radius:   radius,
		mass:     mass,
		trail:    NewTrail(trailLen),
	}
}

func (b *Body) Radius() float64 { return b.radius }
func (b *Body) Mass() float64   { return b.mass }
func (b *Body) Trail() *Trail   { return b.trail }

// Integrate advances the body by dt: explicit position update, then gravity
// on the velocity.
func (b *Body) Integrate(dt, gravity float64) {
	b.Position = r2.Add(b.Position, r2.Scale(dt, b.Velocity))
	b.Velocity.Y += gravity * dt
}

// Update is one full body step: Integrate, the container bounce, then the
// resolved position is recorded in the trail so that no trail point lies
// outside the wall. It reports whether the body hit the wall.
func (b *Body) Update(dt, gravity float64, c Container, restitution float64) bool {
	b.Integrate(dt, gravity)
	hit := b.ResolveContainerCollision(c, restitution)
	b.trail.Push(b.Position)
	return hit
}

// ResolveContainerCollision reflects the normal velocity component off the
// container wall, scaled by restitution, and pushes the body fully back
// inside. It reports whether the body was touching or outside the wall.
func (b *Body) ResolveContainerCollision(c Container, restitution float64) bool {
	limit := c.Radius - b.radius
	offset := r2.Sub(b.Position, c.Center)
	d := r2.Norm(offset)
	if d < limit {
		return false
	}

	n := normalOf(offset, d)
	vn, vt := decompose(b.Velocity, n)
	b.Velocity = compose(-vn*restitution, vt, n)

	overlap := d - limit
	b.Position = r2.Sub(b.Position, r2.Scale(overlap, n))
	return true
}

func (b *Body) Speed() float64 { return r2.Norm(b.Velocity) }

func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.mass * r2.Dot(b.Velocity, b.Velocity)
}

// PotentialEnergy is measured relative to the container centre with +y
// pointing down, the direction gravity accelerates.
func (b *Body) PotentialEnergy(c Container, gravity float64) float64 {
	return b.mass * gravity * (c.Center.Y - b.Position.Y)
}

// Valid reports whether position and velocity are finite.
func (b *Body) Valid() bool {
	return isFinite(b.Position) && isFinite(b.Velocity)
}
