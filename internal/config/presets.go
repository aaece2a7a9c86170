package config

import "sort"

// Presets are partial overrides applied on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"classic": func(c *Config) {},
	"moon": func(c *Config) {
		c.Physics.Gravity = 0.02
	},
	"zero_g": func(c *Config) {
		c.Physics.Gravity = 0
	},
	"heavy": func(c *Config) {
		c.Physics.Gravity = 0.3
		c.Body.SpeedMin, c.Body.SpeedMax = 5, 10
	},
	"elastic": func(c *Config) {
		c.Physics.Restitution = 1.0
	},
	"marathon": func(c *Config) {
		c.TargetCollisions = 50
		c.TrailLength = 240
	},
	"crowded": func(c *Config) {
		c.Container.Radius = 120
		c.Body.Radius = 20
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
