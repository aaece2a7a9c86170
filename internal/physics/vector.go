package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// FallbackNormal is substituted whenever two centres coincide and no
// direction can be derived from their separation.
var FallbackNormal = r2.Vec{X: 0, Y: 1}

// Distance returns the euclidean distance between a and b.
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// Tangent returns n rotated a quarter turn counter-clockwise.
func Tangent(n r2.Vec) r2.Vec {
	return r2.Vec{X: -n.Y, Y: n.X}
}

// normalOf scales d by 1/dist, falling back to FallbackNormal at zero distance.
func normalOf(d r2.Vec, dist float64) r2.Vec {
	if dist == 0 {
		return FallbackNormal
	}
	return r2.Scale(1/dist, d)
}

// decompose splits v into its components along n and Tangent(n).
func decompose(v, n r2.Vec) (vn, vt float64) {
	return r2.Dot(v, n), r2.Dot(v, Tangent(n))
}

// compose rebuilds a vector from normal and tangential components.
func compose(vn, vt float64, n r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(vn, n), r2.Scale(vt, Tangent(n)))
}

// Polar returns the vector of length r at angle theta.
func Polar(r, theta float64) r2.Vec {
	return r2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

func isFinite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
