package metrics

import (
	"math"

	"github.com/san-kum/circlesim/internal/dynamo"
	"github.com/san-kum/circlesim/internal/physics"
)

// Containment tracks the worst distance a body centre was seen beyond its
// allowed radius R - r. Pair separation runs after the wall pass, so small
// positive values are expected right after a collision near the wall.
type Containment struct {
	name    string
	cfg     dynamo.Config
	worst   float64
	samples int
}

func NewContainment(cfg dynamo.Config) *Containment {
	return &Containment{name: "containment", cfg: cfg, worst: math.Inf(-1)}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(s dynamo.State) {
	c.samples++
	for _, b := range s.Bodies {
		excess := physics.Distance(b.Position, c.cfg.Container.Center) - (c.cfg.Container.Radius - b.Radius)
		c.worst = math.Max(c.worst, excess)
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.worst
}

func (c *Containment) Reset() {
	c.worst = math.Inf(-1)
	c.samples = 0
}

// Separation tracks the smallest gap between the two discs. Negative values
// mean the bodies were seen overlapping.
type Separation struct {
	name    string
	closest float64
	samples int
}

func NewSeparation() *Separation {
	return &Separation{name: "min_separation", closest: math.Inf(1)}
}

func (s *Separation) Name() string { return s.name }

func (s *Separation) Observe(st dynamo.State) {
	s.samples++
	a, b := st.Bodies[0], st.Bodies[1]
	gap := physics.Distance(a.Position, b.Position) - (a.Radius + b.Radius)
	s.closest = math.Min(s.closest, gap)
}

func (s *Separation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.closest
}

func (s *Separation) Reset() {
	s.closest = math.Inf(1)
	s.samples = 0
}
