package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/circlesim/internal/dynamo"
	"github.com/san-kum/circlesim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultWidth    = 800
	DefaultHeight   = 800
	DefaultFPS      = 60
	DefaultMaxSteps = 100000
	DefaultTitle    = "Circle Collision Simulation"
	DefaultColorA   = "#ff0000"
	DefaultColorB   = "#0000ff"
)

type Config struct {
	Seed             int64           `yaml:"seed"`
	Dt               float64         `yaml:"dt"`
	FPS              int             `yaml:"fps"`
	MaxSteps         int             `yaml:"max_steps"`
	TrailLength      int             `yaml:"trail_length"`
	TargetCollisions int             `yaml:"target_collisions"`
	Window           WindowConfig    `yaml:"window"`
	Container        ContainerConfig `yaml:"container"`
	Body             BodyConfig      `yaml:"body"`
	Physics          PhysicsConfig   `yaml:"physics"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// ContainerConfig places the container; a zero centre means the window centre.
type ContainerConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
}

type BodyConfig struct {
	Radius   float64 `yaml:"radius"`
	Mass     float64 `yaml:"mass"`
	SpeedMin float64 `yaml:"speed_min"`
	SpeedMax float64 `yaml:"speed_max"`
	ColorA   string  `yaml:"color_a"`
	ColorB   string  `yaml:"color_b"`
}

type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`
	Restitution float64 `yaml:"restitution"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:               dynamo.DefaultDt,
		FPS:              DefaultFPS,
		MaxSteps:         DefaultMaxSteps,
		TrailLength:      dynamo.DefaultTrailLength,
		TargetCollisions: dynamo.DefaultTargetCollisions,
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
		},
		Container: ContainerConfig{
			Radius: dynamo.DefaultContainerRadius,
		},
		Body: BodyConfig{
			Radius:   dynamo.DefaultBodyRadius,
			Mass:     dynamo.DefaultBodyMass,
			SpeedMin: dynamo.DefaultSpeedMin,
			SpeedMax: dynamo.DefaultSpeedMax,
			ColorA:   DefaultColorA,
			ColorB:   DefaultColorB,
		},
		Physics: PhysicsConfig{
			Gravity:     dynamo.DefaultGravity,
			Restitution: dynamo.DefaultRestitution,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := Apply(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply overlays the YAML file at path onto cfg; keys absent from the file
// keep their current value.
func Apply(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Center returns the container centre, defaulting to the window centre.
func (c *Config) Center() r2.Vec {
	if c.Container.X == 0 && c.Container.Y == 0 {
		return r2.Vec{X: float64(c.Window.Width) / 2, Y: float64(c.Window.Height) / 2}
	}
	return r2.Vec{X: c.Container.X, Y: c.Container.Y}
}

// Sim converts the file configuration into the simulation's parameter set.
func (c *Config) Sim() dynamo.Config {
	return dynamo.Config{
		Container: physics.Container{
			Center: c.Center(),
			Radius: c.Container.Radius,
		},
		BodyRadius:       c.Body.Radius,
		BodyMass:         c.Body.Mass,
		Gravity:          c.Physics.Gravity,
		Restitution:      c.Physics.Restitution,
		TrailLength:      c.TrailLength,
		TargetCollisions: c.TargetCollisions,
		SpeedMin:         c.Body.SpeedMin,
		SpeedMax:         c.Body.SpeedMax,
		PlacementMargin:  2 * c.Body.Radius,
		Dt:               c.Dt,
		Seed:             c.Seed,
	}
}

// Colors parses the two body colours.
func (c *Config) Colors() (color.RGBA, color.RGBA, error) {
	a, err := ParseHexColor(c.Body.ColorA)
	if err != nil {
		return color.RGBA{}, color.RGBA{}, fmt.Errorf("color_a: %w", err)
	}
	b, err := ParseHexColor(c.Body.ColorB)
	if err != nil {
		return color.RGBA{}, color.RGBA{}, fmt.Errorf("color_b: %w", err)
	}
	return a, b, nil
}

// ParseHexColor parses "#rrggbb" into an opaque colour.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
