package gui

import (
	"fmt"
	"image/color"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/circlesim/internal/audio"
	"github.com/san-kum/circlesim/internal/config"
	"github.com/san-kum/circlesim/internal/dynamo"
)

var (
	ColBg   = rl.White
	ColLine = rl.Black
	ColText = rl.Black
)

const (
	fontSize        = 24
	containerLineW  = 2
	completeMessage = "Simulation complete! Click to close."
	counterX        = 20
	counterY        = 20
	maxChimeImpact  = 40.0
)

// Phase is the window's presentation state.
type Phase int

const (
	Running Phase = iota
	AwaitingDismiss
	Closed
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case AwaitingDismiss:
		return "awaiting dismiss"
	default:
		return "closed"
	}
}

type App struct {
	Cfg    *config.Config
	Sim    dynamo.Config
	Driver *dynamo.Driver
	Colors [2]rl.Color
	Phase  Phase
	Audio  *audio.Processor
	Log    *slog.Logger
}

// NewApp builds the driver for cfg. The window is not opened until Run.
func NewApp(cfg *config.Config, log *slog.Logger) (*App, error) {
	colorA, colorB, err := cfg.Colors()
	if err != nil {
		return nil, err
	}

	sim := cfg.Sim()
	d, err := dynamo.NewDriver(sim, colorA, colorB)
	if err != nil {
		return nil, err
	}

	return &App{
		Cfg:    cfg,
		Sim:    sim,
		Driver: d,
		Colors: [2]rl.Color{toRL(colorA), toRL(colorB)},
		Phase:  Running,
		Log:    log,
	}, nil
}

func toRL(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// EnableSound starts the collision chime. A failure is logged and the
// simulation carries on silently.
func (a *App) EnableSound() {
	proc := audio.NewProcessor(maxChimeImpact)
	if err := proc.Start(); err != nil {
		a.Log.Warn("audio unavailable, continuing without sound", "err", err)
		return
	}
	a.Audio = proc
	a.Driver.AddObserver(proc)
	a.Log.Debug("audio started", "sample_rate", audio.SampleRate)
}

func (a *App) initWindow() error {
	w, h := a.Cfg.Window.Width, a.Cfg.Window.Height
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(w), int32(h), a.Cfg.Window.Title)
	if !rl.IsWindowReady() {
		return fmt.Errorf("gui: window %dx%d could not be created", w, h)
	}
	rl.SetTargetFPS(int32(a.Cfg.FPS))
	rl.SetExitKey(0)
	return nil
}

// Run opens the window and blocks until it is closed or the finished run
// is dismissed with a click.
func (a *App) Run() error {
	if err := a.initWindow(); err != nil {
		return err
	}
	defer rl.CloseWindow()
	if a.Audio != nil {
		defer a.Audio.Stop()
	}

	a.Log.Info("simulation started", "seed", a.Sim.Seed, "target", a.Sim.TargetCollisions)
	for a.Phase != Closed {
		if rl.WindowShouldClose() {
			a.Phase = Closed
			break
		}
		a.Update(rl.IsMouseButtonPressed(rl.MouseButtonLeft))
		a.Draw()
	}
	a.Log.Info("window closed",
		"collisions", a.Driver.CollisionCount(),
		"steps", a.Driver.Steps(),
		"completed", a.Driver.Done())
	return nil
}

// Update advances one frame. While running it steps the driver once; once
// the target is reached it waits for a click.
func (a *App) Update(clicked bool) {
	switch a.Phase {
	case Running:
		before := a.Driver.CollisionCount()
		a.Driver.Step(a.Sim.Dt)
		if n := a.Driver.CollisionCount(); n != before {
			a.Log.Debug("collision", "count", n, "step", a.Driver.Steps())
		}
		if a.Driver.Done() {
			a.Phase = AwaitingDismiss
			a.Log.Info("simulation complete", "steps", a.Driver.Steps(), "bounces", a.Driver.Bounces())
		}
	case AwaitingDismiss:
		if clicked {
			a.Phase = Closed
		}
	}
}

// CounterText is the label drawn in the top-left corner.
func (a *App) CounterText() string {
	return fmt.Sprintf("Collisions: %d/%d", a.Driver.CollisionCount(), a.Sim.TargetCollisions)
}
