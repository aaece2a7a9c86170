package audio

import (
	"math"
	"testing"

	"github.com/san-kum/circlesim/internal/dynamo"
)

func buffers() [][]float32 {
	return [][]float32{make([]float32, BufferSize), make([]float32, BufferSize)}
}

func peak(out [][]float32) float64 {
	p := 0.0
	for _, ch := range out {
		for _, v := range ch {
			p = math.Max(p, math.Abs(float64(v)))
		}
	}
	return p
}

func TestChimeSilentUntilTriggered(t *testing.T) {
	c := NewChime()
	out := buffers()
	c.Process(out)
	if p := peak(out); p != 0 {
		t.Errorf("expected silence, got peak %f", p)
	}
}

func TestChimeLoudnessFollowsStrength(t *testing.T) {
	soft, loud := NewChime(), NewChime()
	soft.Trigger(notes[0], 0.2)
	loud.Trigger(notes[0], 1.0)

	a, b := buffers(), buffers()
	soft.Process(a)
	loud.Process(b)
	if peak(a) <= 0 || peak(b) <= peak(a) {
		t.Errorf("expected louder chime for stronger hit, got %f vs %f", peak(a), peak(b))
	}
}

func TestChimeDecays(t *testing.T) {
	c := NewChime()
	c.Trigger(notes[0], 1.0)

	first := buffers()
	c.Process(first)
	var last [][]float32
	for range 200 {
		last = buffers()
		c.Process(last)
	}
	if peak(last) >= peak(first)/10 {
		t.Errorf("chime did not decay: %f then %f", peak(first), peak(last))
	}
}

func TestTriggerClamps(t *testing.T) {
	c := NewChime()
	c.Trigger(notes[1], 7)
	if c.pending != 1 || c.freq != notes[1] {
		t.Errorf("unexpected trigger state %f %f", c.pending, c.freq)
	}
	c.Trigger(notes[1], -3)
	if c.pending != 1 {
		t.Error("a weaker trigger should not lower a pending one")
	}
}

func TestProcessorOnCollision(t *testing.T) {
	p := NewProcessor(20)
	p.OnCollision(dynamo.CollisionEvent{Count: 2, ImpactSpeed: -10})

	if p.Chime.freq != notes[1] {
		t.Errorf("expected note %f, got %f", notes[1], p.Chime.freq)
	}
	if p.Chime.pending != 0.5 {
		t.Errorf("expected strength 0.5, got %f", p.Chime.pending)
	}

	p.Stop()
	if p.Active {
		t.Error("stop on an idle processor should leave it inactive")
	}
}
