package viz

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
)

// Theme colours the live view. The scene colours feed the canvas palette;
// an empty body or trail colour falls back to the run's configured body
// colour.
type Theme struct {
	Name      string
	Title     [2]lipgloss.Color // gradient ends
	Text      lipgloss.Color
	Done      lipgloss.Color
	Chart     lipgloss.Color
	Container lipgloss.Color
	Bodies    [2]lipgloss.Color
	Trails    [2]lipgloss.Color
}

var themes = []Theme{
	{
		Name:      "classic",
		Title:     [2]lipgloss.Color{"#ff4444", "#4488ff"},
		Text:      "#ffffff",
		Done:      "#00ff00",
		Chart:     "#00ffff",
		Container: "#888888",
	},
	{
		Name:      "phosphor",
		Title:     [2]lipgloss.Color{"#00ff00", "#88ff88"},
		Text:      "#00ff00",
		Done:      "#88ff88",
		Chart:     "#00cc00",
		Container: "#005500",
		Bodies:    [2]lipgloss.Color{"#88ff88", "#00ff00"},
		Trails:    [2]lipgloss.Color{"#00aa00", "#007700"},
	},
	{
		Name:      "ocean",
		Title:     [2]lipgloss.Color{"#0077be", "#00a8cc"},
		Text:      "#e0f0ff",
		Done:      "#00ff88",
		Chart:     "#00a8cc",
		Container: "#4488aa",
		Bodies:    [2]lipgloss.Color{"#ffd700", "#00ff88"},
		Trails:    [2]lipgloss.Color{"#aa8f00", "#00a85a"},
	},
	{
		Name:      "sunset",
		Title:     [2]lipgloss.Color{"#ff6b6b", "#feca57"},
		Text:      "#fff5f5",
		Done:      "#5fd068",
		Chart:     "#ff9ff3",
		Container: "#8b6b8c",
		Bodies:    [2]lipgloss.Color{"#ff6b6b", "#feca57"},
		Trails:    [2]lipgloss.Color{"#b34b4b", "#b38e3d"},
	},
}

// ThemeByName looks a theme up by name.
func ThemeByName(name string) (Theme, bool) {
	for _, t := range themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// next returns the theme after t, wrapping around.
func (t Theme) next() Theme {
	for i, th := range themes {
		if th.Name == t.Name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}

// sceneColors returns one colour per pen, indexed like the pen constants.
func (t Theme) sceneColors(bodies [2]color.RGBA) [penCount]color.RGBA {
	var out [penCount]color.RGBA
	out[penContainer] = rgbaOf(t.Container)
	for i := range 2 {
		body := bodies[i]
		if t.Bodies[i] != "" {
			body = rgbaOf(t.Bodies[i])
		}
		trail := body
		if t.Trails[i] != "" {
			trail = rgbaOf(t.Trails[i])
		}
		out[penBodyA+uint8(i)] = body
		out[penTrailA+uint8(i)] = trail
	}
	return out
}

// palette turns the scene colours into canvas styles.
func (t Theme) palette(bodies [2]color.RGBA) []lipgloss.Style {
	colors := t.sceneColors(bodies)
	styles := make([]lipgloss.Style, len(colors))
	for i, c := range colors {
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(hexRGBA(c)))
	}
	return styles
}

func rgbaOf(c lipgloss.Color) color.RGBA {
	r, g, b := parseHex(string(c))
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}
