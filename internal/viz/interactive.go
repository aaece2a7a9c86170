package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/circlesim/internal/config"
)

var presetInfo = map[string]string{
	"classic":  "gravity 0.1, ten hits",
	"moon":     "weak gravity",
	"zero_g":   "no gravity",
	"heavy":    "strong gravity, slow start",
	"elastic":  "lossless wall bounces",
	"marathon": "fifty hits, long trails",
	"crowded":  "big bodies, small arena",
}

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuValue    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Bold(true)
	menuInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// param is one editable field of the config screen.
type param struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
	step float64
}

var params = []param{
	{"seed", func(c *config.Config) float64 { return float64(c.Seed) }, func(c *config.Config, v float64) { c.Seed = int64(v) }, 1},
	{"gravity", func(c *config.Config) float64 { return c.Physics.Gravity }, func(c *config.Config, v float64) { c.Physics.Gravity = v }, 0.01},
	{"restitution", func(c *config.Config) float64 { return c.Physics.Restitution }, func(c *config.Config, v float64) { c.Physics.Restitution = v }, 0.01},
	{"target", func(c *config.Config) float64 { return float64(c.TargetCollisions) }, func(c *config.Config, v float64) { c.TargetCollisions = int(v) }, 1},
	{"trail", func(c *config.Config) float64 { return float64(c.TrailLength) }, func(c *config.Config, v float64) { c.TrailLength = int(v) }, 10},
	{"speed_min", func(c *config.Config) float64 { return c.Body.SpeedMin }, func(c *config.Config, v float64) { c.Body.SpeedMin = v }, 1},
	{"speed_max", func(c *config.Config) float64 { return c.Body.SpeedMax }, func(c *config.Config, v float64) { c.Body.SpeedMax = v }, 1},
}

// model is a preset picker that hands off to the live view.
type model struct {
	state, cursor int
	presets       []string
	selected      string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	errMsg        string
	liveModel     Model
}

func NewInteractiveApp() *model {
	return &model{
		state:   stateMenu,
		presets: config.ListPresets(),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.cfg = config.GetPreset(m.selected)
		m.state, m.paramCursor, m.errMsg = stateConfig, 0, ""
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	p := params[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if val, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				p.set(m.cfg, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(params)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(p.get(m.cfg), 'f', -1, 64)
	case "s":
		return m.start()
	case "left", "h":
		p.set(m.cfg, p.get(m.cfg)-p.step)
	case "right", "l":
		p.set(m.cfg, p.get(m.cfg)+p.step)
	}
	return m, nil
}

func (m model) start() (model, tea.Cmd) {
	colorA, colorB, err := m.cfg.Colors()
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	live, err := NewModel(m.cfg.Sim(), colorA, colorB, m.selected)
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.liveModel = live
	m.state = stateSim
	return m, m.liveModel.Init()
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func keyHelp(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(menuKey.Render(pairs[i]) + menuInactive.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("CIRCLESIM") + "\n    " + menuSub.Render("two bodies, one container") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			fmt.Fprintf(&b, "    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-12s", name)), menuValue.Render(desc))
		} else {
			fmt.Fprintf(&b, "    %s  %s\n", menuInactive.Render(fmt.Sprintf("  %-12s", name)), menuDim.Render(desc))
		}
	}
	b.WriteString("\n    " + keyHelp("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render(strings.ToUpper(m.selected)) + "\n    " + menuSub.Render(presetInfo[m.selected]) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, p := range params {
		valStr := fmt.Sprintf("%10.3f", p.get(m.cfg))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			fmt.Fprintf(&b, "    %s %s %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-12s", p.name)), menuValue.Render(valStr))
		} else {
			fmt.Fprintf(&b, "    %s %s\n", menuInactive.Render(fmt.Sprintf("  %-12s", p.name)), menuDim.Render(valStr))
		}
	}
	if m.errMsg != "" {
		b.WriteString("\n    " + StatusRecording.UnsetBlink().Render(m.errMsg) + "\n")
	}
	b.WriteString("\n    " + keyHelp("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive opens the preset picker.
func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen()).Run()
	return err
}
