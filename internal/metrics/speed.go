package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/circlesim/internal/dynamo"
)

type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(s dynamo.State) {
	for _, b := range s.Bodies {
		if v := r2.Norm(b.Velocity); v > m.max {
			m.max = v
		}
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }
