// Package physics implements the rigid-disc mechanics behind circlesim.
//
// The package is deliberately small:
//
//   - [Body]: a disc with position, velocity, fixed radius/mass and a [Trail]
//   - [Container]: the circular wall bodies bounce against
//   - [Resolve]: pairwise elastic collision with normal/tangent decomposition
//
// Vectors are gonum [r2.Vec] values. All operations mutate bodies in place
// and never fail; when two centres coincide the resolvers fall back to
// [FallbackNormal].
//
// # Example
//
//	c := physics.Container{Center: r2.Vec{X: 400, Y: 400}, Radius: 200}
//	a.Update(1, 0.1, c, 0.98)
//	b.Update(1, 0.1, c, 0.98)
//	if physics.Resolve(a, b) {
//	    collisions++
//	}
package physics
