package physics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestResolveHeadOn(t *testing.T) {
	a := newTestBody(r2.Vec{X: 420, Y: 400}, r2.Vec{X: 5, Y: 0})
	b := newTestBody(r2.Vec{X: 380, Y: 400}, r2.Vec{X: -5, Y: 0})

	// centres 40 apart do not touch at radius 15
	if Resolve(a, b) {
		t.Fatal("expected no collision at distance 40")
	}

	a.Position.X, b.Position.X = 414, 386
	a.Velocity, b.Velocity = r2.Vec{X: -5, Y: 0}, r2.Vec{X: 5, Y: 0}
	if !Resolve(a, b) {
		t.Fatal("expected a collision at distance 28")
	}
	if math.Abs(a.Velocity.X-5) > 1e-12 || math.Abs(b.Velocity.X+5) > 1e-12 {
		t.Errorf("expected swapped velocities, got a=%v b=%v", a.Velocity, b.Velocity)
	}
	if d := Distance(a.Position, b.Position); math.Abs(d-30) > 1e-9 {
		t.Errorf("expected separation 30, got %f", d)
	}
}

func TestResolveTouchingPairSwapsVelocities(t *testing.T) {
	c := r2.Vec{X: 400, Y: 400}
	a := newTestBody(r2.Add(c, r2.Vec{X: 20}), r2.Vec{X: 5})
	b := newTestBody(r2.Sub(c, r2.Vec{X: 20}), r2.Vec{X: -5})

	// 40 apart: not yet touching, then closed to an overlap along x
	a.Position.X -= 6
	b.Position.X += 6
	if !Resolve(a, b) {
		t.Fatal("expected collision")
	}
	if math.Abs(a.Velocity.X+5) > 1e-12 || math.Abs(b.Velocity.X-5) > 1e-12 {
		t.Errorf("expected a=(-5,0) b=(5,0), got a=%v b=%v", a.Velocity, b.Velocity)
	}
}

func TestResolveEqualMassSwapsNormalComponents(t *testing.T) {
	tests := []struct {
		name   string
		pa, pb r2.Vec
		va, vb r2.Vec
	}{
		{"oblique", r2.Vec{X: 10, Y: 10}, r2.Vec{X: 0, Y: 0}, r2.Vec{X: -3, Y: 1}, r2.Vec{X: 2, Y: 7}},
		{"vertical", r2.Vec{X: 0, Y: 20}, r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: -4}, r2.Vec{X: -1, Y: 4}},
		{"glancing", r2.Vec{X: 29, Y: 2}, r2.Vec{X: 0, Y: 0}, r2.Vec{X: 0, Y: 3}, r2.Vec{X: 6, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestBody(tt.pa, tt.va)
			b := newTestBody(tt.pb, tt.vb)
			n := r2.Unit(r2.Sub(tt.pa, tt.pb))

			vanBefore, vatBefore := decompose(tt.va, n)
			vbnBefore, vbtBefore := decompose(tt.vb, n)

			if !Resolve(a, b) {
				t.Fatal("expected collision")
			}

			vanAfter, vatAfter := decompose(a.Velocity, n)
			vbnAfter, vbtAfter := decompose(b.Velocity, n)

			if math.Abs(vanAfter-vbnBefore) > 1e-9 || math.Abs(vbnAfter-vanBefore) > 1e-9 {
				t.Errorf("normal components not swapped: a %f->%f b %f->%f", vanBefore, vanAfter, vbnBefore, vbnAfter)
			}
			if math.Abs(vatAfter-vatBefore) > 1e-9 || math.Abs(vbtAfter-vbtBefore) > 1e-9 {
				t.Error("tangential components changed")
			}

			pBefore := r2.Add(tt.va, tt.vb)
			pAfter := r2.Add(a.Velocity, b.Velocity)
			if Distance(pBefore, pAfter) > 1e-9 {
				t.Errorf("momentum not conserved: %v -> %v", pBefore, pAfter)
			}
			if d := Distance(a.Position, b.Position); d < 30-1e-6 {
				t.Errorf("bodies still overlap: distance %f", d)
			}
		})
	}
}

func TestResolveUnequalMass(t *testing.T) {
	a := NewBody(r2.Vec{X: 20}, r2.Vec{X: -2}, 15, 3, testColor, 10)
	b := NewBody(r2.Vec{}, r2.Vec{X: 1}, 15, 1, testColor, 10)

	if !Resolve(a, b) {
		t.Fatal("expected collision")
	}

	// (v1(m1-m2) + 2 m2 v2)/(m1+m2) = (-2*2 + 2*1)/4 = -0.5
	// (v2(m2-m1) + 2 m1 v1)/(m1+m2) = (1*-2 + 2*3*-2)/4 = -3.5
	if math.Abs(a.Velocity.X+0.5) > 1e-12 {
		t.Errorf("expected a.vx=-0.5, got %f", a.Velocity.X)
	}
	if math.Abs(b.Velocity.X+3.5) > 1e-12 {
		t.Errorf("expected b.vx=-3.5, got %f", b.Velocity.X)
	}

	kBefore := 0.5*3*4 + 0.5*1*1
	kAfter := a.KineticEnergy() + b.KineticEnergy()
	if math.Abs(kBefore-kAfter) > 1e-9 {
		t.Errorf("kinetic energy not conserved: %f -> %f", kBefore, kAfter)
	}
}

func TestResolveCoincidentCentres(t *testing.T) {
	a := newTestBody(r2.Vec{X: 5, Y: 5}, r2.Vec{X: 0, Y: 2})
	b := newTestBody(r2.Vec{X: 5, Y: 5}, r2.Vec{X: 0, Y: -2})

	contact, ok := ResolveContact(a, b)
	if !ok {
		t.Fatal("expected collision")
	}
	if contact.Normal != FallbackNormal {
		t.Errorf("expected fallback normal, got %v", contact.Normal)
	}
	if !a.Valid() || !b.Valid() {
		t.Fatal("non-finite state")
	}
	if math.Abs(a.Position.Y-b.Position.Y-30) > 1e-9 {
		t.Errorf("expected bodies separated by 30 along y, got %v %v", a.Position, b.Position)
	}
}

func TestResolveContactImpactSpeed(t *testing.T) {
	a := newTestBody(r2.Vec{X: 25}, r2.Vec{X: -4})
	b := newTestBody(r2.Vec{}, r2.Vec{X: 3})

	contact, ok := ResolveContact(a, b)
	if !ok {
		t.Fatal("expected collision")
	}
	if math.Abs(contact.ImpactSpeed-7) > 1e-12 {
		t.Errorf("expected impact speed 7, got %f", contact.ImpactSpeed)
	}
	if math.Abs(contact.Overlap-5) > 1e-12 {
		t.Errorf("expected overlap 5, got %f", contact.Overlap)
	}
}
