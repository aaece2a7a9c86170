package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/san-kum/circlesim/internal/dynamo"
)

const (
	SampleRate = 44100
	BufferSize = 1024
)

// G minor pentatonic, one note per collision in turn.
var notes = []float64{196.00, 233.08, 261.63, 293.66, 349.23}

// Chime is a decaying triangle tone with a short stereo echo. Trigger may
// be called from any goroutine; Process runs on the audio thread.
type Chime struct {
	mu      sync.Mutex
	freq    float64
	env     float64
	pending float64

	time        float64
	decay       float64
	filterState [2]float64
	delayLine   [2][]float64
	delayHead   int
}

func NewChime() *Chime {
	// 0.25 second echo
	delayLen := int(float64(SampleRate) * 0.25)
	return &Chime{
		freq:      notes[0],
		decay:     math.Exp(-1.0 / (0.35 * SampleRate)),
		delayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

// Trigger strikes the chime at freq with loudness strength in [0, 1].
func (c *Chime) Trigger(freq, strength float64) {
	strength = math.Max(0, math.Min(strength, 1))
	c.mu.Lock()
	c.freq = freq
	c.pending = math.Max(c.pending, strength)
	c.mu.Unlock()
}

// Triangle Wave: Smooth, flute-like, no harsh buzz
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// Low Pass Filter (One Pole)
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Process fills both output channels.
func (c *Chime) Process(out [][]float32) {
	c.mu.Lock()
	if c.pending > 0 {
		c.env = math.Max(c.env, c.pending)
		c.pending = 0
	}
	freq := c.freq
	c.mu.Unlock()

	dt := 1.0 / float64(SampleRate)
	vol := 0.3

	for i := range out[0] {
		tone := 0.0
		if c.env > 1e-4 {
			tone = c.env * (0.8*triangle(c.time*freq) + 0.2*triangle(c.time*freq*2))
			c.env *= c.decay
		} else {
			c.env = 0
		}

		c.filterState[0] = lpf(tone, 2500, dt, c.filterState[0])
		c.filterState[1] = lpf(tone, 2000, dt, c.filterState[1])

		delayL := c.delayLine[0][c.delayHead]
		delayR := c.delayLine[1][c.delayHead]
		mixL := c.filterState[0] + delayR*0.25
		mixR := c.filterState[1] + delayL*0.25
		c.delayLine[0][c.delayHead] = mixL * 0.5
		c.delayLine[1][c.delayHead] = mixR * 0.5
		c.delayHead = (c.delayHead + 1) % len(c.delayLine[0])

		out[0][i] = float32(mixL * vol)
		if len(out) > 1 {
			out[1][i] = float32(mixR * vol)
		}
		c.time += dt
	}
}

// Processor plays a Chime on the default output device for every
// collision it is told about.
type Processor struct {
	Stream    *portaudio.Stream
	Chime     *Chime
	MaxImpact float64
	Active    bool
}

// NewProcessor returns a processor whose loudest chime is reached at an
// impact speed of maxImpact.
func NewProcessor(maxImpact float64) *Processor {
	if maxImpact <= 0 {
		maxImpact = 1
	}
	return &Processor{Chime: NewChime(), MaxImpact: maxImpact}
}

func (a *Processor) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, a.Chime.Process)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio open: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio start: %w", err)
	}

	a.Stream = stream
	a.Active = true
	return nil
}

func (a *Processor) Stop() {
	if !a.Active {
		return
	}
	if a.Stream != nil {
		a.Stream.Stop()
		a.Stream.Close()
	}
	portaudio.Terminate()
	a.Active = false
}

// OnCollision implements dynamo.CollisionObserver.
func (a *Processor) OnCollision(ev dynamo.CollisionEvent) {
	note := notes[(ev.Count-1+len(notes))%len(notes)]
	a.Chime.Trigger(note, math.Abs(ev.ImpactSpeed)/a.MaxImpact)
}

// OnStep implements dynamo.Observer.
func (a *Processor) OnStep(dynamo.State) {}
