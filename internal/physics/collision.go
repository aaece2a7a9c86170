package physics

import "gonum.org/v1/gonum/spatial/r2"

// Contact describes a resolved body-body collision.
type Contact struct {
	Normal r2.Vec // from b towards a
	Point  r2.Vec // midpoint of the overlap after separation
	// ImpactSpeed is the closing speed along the normal before resolution.
	ImpactSpeed float64
	Overlap     float64
}

// Resolve detects and resolves an elastic collision between a and b.
func Resolve(a, b *Body) bool {
	_, ok := ResolveContact(a, b)
	return ok
}

// ResolveContact is Resolve but also returns the contact details.
//
// Normal velocities are exchanged with the 1-D elastic formula using both
// masses; tangential velocities are left alone. The overlap is split evenly
// between the two bodies regardless of mass.
func ResolveContact(a, b *Body) (Contact, bool) {
	offset := r2.Sub(a.Position, b.Position)
	d := r2.Norm(offset)
	minDist := a.radius + b.radius
	if d >= minDist {
		return Contact{}, false
	}

	n := normalOf(offset, d)
	van, vat := decompose(a.Velocity, n)
	vbn, vbt := decompose(b.Velocity, n)

	ma, mb := a.mass, b.mass
	total := ma + mb
	vanAfter := (van*(ma-mb) + 2*mb*vbn) / total
	vbnAfter := (vbn*(mb-ma) + 2*ma*van) / total

	a.Velocity = compose(vanAfter, vat, n)
	b.Velocity = compose(vbnAfter, vbt, n)

	overlap := minDist - d
	half := r2.Scale(0.5*overlap, n)
	a.Position = r2.Add(a.Position, half)
	b.Position = r2.Sub(b.Position, half)

	return Contact{
		Normal:      n,
		Point:       r2.Scale(0.5, r2.Add(a.Position, b.Position)),
		ImpactSpeed: vbn - van,
		Overlap:     overlap,
	}, true
}
