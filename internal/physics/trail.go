package physics

import "gonum.org/v1/gonum/spatial/r2"

// Trail is a fixed-capacity ring of recent positions. Once full, each push
// evicts the oldest point.
type Trail struct {
	buf   []r2.Vec
	head  int
	count int
}

func NewTrail(capacity int) *Trail {
	if capacity < 1 {
		capacity = 1
	}
	return &Trail{buf: make([]r2.Vec, capacity)}
}

func (t *Trail) Push(p r2.Vec) {
	idx := (t.head + t.count) % len(t.buf)
	t.buf[idx] = p
	if t.count < len(t.buf) {
		t.count++
		return
	}
	t.head = (t.head + 1) % len(t.buf)
}

func (t *Trail) Len() int { return t.count }
func (t *Trail) Cap() int { return len(t.buf) }

// At returns the i-th point counting from the oldest.
func (t *Trail) At(i int) r2.Vec {
	return t.buf[(t.head+i)%len(t.buf)]
}

// Each calls fn for every point oldest-first. Iteration stops early when
// fn returns false.
func (t *Trail) Each(fn func(i int, p r2.Vec) bool) {
	for i := 0; i < t.count; i++ {
		if !fn(i, t.At(i)) {
			return
		}
	}
}

// Points returns a copy of the trail, oldest first.
func (t *Trail) Points() []r2.Vec {
	out := make([]r2.Vec, t.count)
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}

func (t *Trail) Reset() {
	t.head = 0
	t.count = 0
}
