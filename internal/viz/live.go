package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/circlesim/internal/dynamo"
	"github.com/san-kum/circlesim/internal/export"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	width           = 60
	height          = 30
	historyCapacity = 600
	frameRate       = 60
	gifPath         = "circlesim.gif"
	svgPath         = "circlesim.svg"

	// velocityScale is how many steps ahead a velocity arrow reaches.
	velocityScale = 3.0
)

// pens index the theme palette.
const (
	penContainer uint8 = iota
	penBodyA
	penBodyB
	penTrailA
	penTrailB
	penCount
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

type TickMsg time.Time

// Model runs one Driver per frame and draws it onto a Braille canvas.
type Model struct {
	cfg           dynamo.Config
	colors        [2]color.RGBA
	driver        *dynamo.Driver
	width, height int
	canvas        *Canvas
	running       bool
	title         string
	energyHistory []float64
	speedHistory  []float64
	history       []dynamo.Snapshot
	playHead      int
	recording     bool
	frames        []*image.Paletted
	showHelp      bool
	showVelocity  bool
	theme         Theme
	status        string
	err           error
}

// NewModel builds a live view for cfg. title is shown in the stats panel.
func NewModel(cfg dynamo.Config, colorA, colorB color.RGBA, title string) (Model, error) {
	d, err := dynamo.NewDriver(cfg, colorA, colorB)
	if err != nil {
		return Model{}, err
	}

	return Model{
		cfg:           cfg,
		colors:        [2]color.RGBA{colorA, colorB},
		driver:        d,
		width:         width,
		height:        height,
		canvas:        NewCanvas(width, height),
		running:       true,
		title:         title,
		energyHistory: make([]float64, 0, historyCapacity),
		speedHistory:  make([]float64, 0, historyCapacity),
		history:       make([]dynamo.Snapshot, 0, historyCapacity),
		playHead:      -1,
		theme:         themes[0],
	}, nil
}

// WithTheme switches to the named theme.
func (m Model) WithTheme(name string) (Model, error) {
	t, ok := ThemeByName(name)
	if !ok {
		return m, fmt.Errorf("unknown theme: %s (available: %v)", name, ThemeNames())
	}
	m.theme = t
	return m, nil
}

// Err reports a failed restart, if any.
func (m Model) Err() error { return m.err }

func (m Model) Done() bool { return m.driver.Done() }

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if m.driver.Done() && m.playHead == -1 && key != "[" && key != "]" {
			return m, tea.Quit
		}
		switch key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.restart()
			if m.err != nil {
				return m, tea.Quit
			}
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "g":
			if m.recording {
				m.status = m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "e":
			m.status = m.saveSVG()
		case "v":
			m.showVelocity = !m.showVelocity
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			m.theme = m.theme.next()
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

// step advances the driver by one frame and records history.
func (m *Model) step() {
	if m.driver.Done() {
		return
	}
	m.driver.Step(m.cfg.Dt)

	m.energyHistory = appendCapped(m.energyHistory, m.driver.Energy())
	a, b := m.driver.Body(0), m.driver.Body(1)
	m.speedHistory = appendCapped(m.speedHistory, max(r2.Norm(a.Velocity), r2.Norm(b.Velocity)))

	m.history = append(m.history, m.driver.Snapshot())
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// restart begins a fresh run with the next seed.
func (m *Model) restart() {
	m.cfg.Seed++
	d, err := dynamo.NewDriver(m.cfg, m.colors[0], m.colors[1])
	if err != nil {
		m.err = err
		return
	}
	m.driver = d
	m.energyHistory = m.energyHistory[:0]
	m.speedHistory = m.speedHistory[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.running = true
	m.status = ""
}

func (m Model) current() dynamo.Snapshot {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.driver.Snapshot()
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	snap := m.current()
	theme := m.theme

	canvasView := canvasStyle.Render(m.canvas.Render(theme.palette(m.colors)))

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.title), theme.Title[0], theme.Title[1]) + "\n\n")

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.playHead != -1:
		status = StatusPaused.Render(fmt.Sprintf("REPLAY (%d/%d)", m.playHead+1, len(m.history)))
	case m.driver.Done():
		status = lipgloss.NewStyle().Foreground(theme.Done).Bold(true).Render("COMPLETE")
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + StatusRecording.Render("● REC")
	}
	s.WriteString(status + "\n\n")

	target := m.cfg.TargetCollisions
	s.WriteString(labelStyle.Render("Collisions") + valueStyle.Render(fmt.Sprintf("%d/%d", snap.Collisions, target)) + "\n")
	s.WriteString(labelStyle.Render("") + ProgressBar(float64(snap.Collisions)/float64(target), 20) + "\n")
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", snap.Step)) + "\n")
	s.WriteString(labelStyle.Render("Seed") + valueStyle.Render(fmt.Sprintf("%d", m.cfg.Seed)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.1f", dynamo.TotalEnergy(snap.State, m.cfg))) + "\n")
	s.WriteString(labelStyle.Render("Max speed") + SparklineChart(m.speedHistory, 20) + "\n")

	if len(m.energyHistory) > 1 {
		graph := lipgloss.NewStyle().Foreground(theme.Chart).Padding(1, 0)
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graph.Render(chart) + "\n")
	}
	if m.status != "" {
		s.WriteString(Subtle.Render(m.status) + "\n")
	}

	s.WriteString("\n" + Separator(30) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause R:Restart Q:Quit\nT:" + theme.Name + "  G:Record  E:SVG\nV:Velocity  [ ]:Time-Travel  ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.driver.Done() && m.playHead == -1 {
		banner := lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(theme.Done).
			Foreground(theme.Text).
			Bold(true).
			Padding(0, 2).
			Render("Simulation complete! Press [ to replay or any other key to close.")
		mainView += "\n" + banner
	}

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Restart with next seed   ║
║  Q        - Quit                     ║
║  [        - Rewind (time travel)     ║
║  ]        - Forward (time travel)    ║
║  G        - Toggle GIF recording     ║
║  E        - Save frame as SVG        ║
║  V        - Toggle velocity arrows   ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// viewport maps world coordinates onto canvas sub-pixels so that the
// container fills the shorter canvas side.
type viewport struct {
	center r2.Vec
	scale  float64
	cx, cy int
}

func newViewport(c *Canvas, cfg dynamo.Config) viewport {
	side := min(c.SubWidth(), c.SubHeight()) - 2
	return viewport{
		center: cfg.Container.Center,
		scale:  float64(side) / (2 * cfg.Container.Radius),
		cx:     c.SubWidth() / 2,
		cy:     c.SubHeight() / 2,
	}
}

func (v viewport) project(p r2.Vec) (int, int) {
	d := r2.Scale(v.scale, r2.Sub(p, v.center))
	return v.cx + int(d.X+0.5*sign(d.X)), v.cy + int(d.Y+0.5*sign(d.Y))
}

func (v viewport) length(l float64) int {
	return max(1, int(l*v.scale+0.5))
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// draw renders the container, both trails and both bodies.
func (m *Model) draw() {
	drawScene(m.canvas, m.cfg, m.current(), m.showVelocity)
}

func drawScene(c *Canvas, cfg dynamo.Config, snap dynamo.Snapshot, velocity bool) {
	c.Clear()
	vp := newViewport(c, cfg)

	c.Pen = penContainer
	cx, cy := vp.project(cfg.Container.Center)
	c.DrawCircle(cx, cy, vp.length(cfg.Container.Radius))

	for i := range snap.Bodies {
		c.Pen = penTrailA + uint8(i)
		for _, p := range snap.Trails[i] {
			c.Set(vp.project(p))
		}
	}
	for i, body := range snap.Bodies {
		c.Pen = penBodyA + uint8(i)
		bx, by := vp.project(body.Position)
		c.FillCircle(bx, by, vp.length(body.Radius))
		if velocity {
			tx, ty := vp.project(r2.Add(body.Position, r2.Scale(velocityScale, body.Velocity)))
			c.DrawLine(bx, by, tx, ty)
		}
	}
}

func (m *Model) captureFrame() {
	charW, charH := 8, 16
	imgW, imgH := m.width*charW, m.height*charH
	palette := color.Palette{color.Black}
	for _, c := range m.theme.sceneColors(m.colors) {
		palette = append(palette, c)
	}
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), palette)
	dotW, dotH := charW/2, charH/4

	for row := 0; row < m.height; row++ {
		for col := 0; col < m.width; col++ {
			r := m.canvas.Grid[row][col]
			if r <= blank {
				continue
			}
			pattern := int(r - blank)
			idx := 1 + m.canvas.Ink[row][col]
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, idx)
						}
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() string {
	if len(m.frames) == 0 {
		return "nothing recorded"
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(gifPath)
	if err != nil {
		return err.Error()
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("saved %d frames to %s", len(m.frames), gifPath)
}

// saveSVG writes the frame on screen, trails included, as an SVG the size
// of the window the container is centred in.
func (m Model) saveSVG() string {
	w, h := int(2*m.cfg.Container.Center.X), int(2*m.cfg.Container.Center.Y)
	svg := export.SnapshotToSVG(m.current(), m.cfg, w, h)
	if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("saved step %d to %s", m.current().Step, svgPath)
}

// Run starts the live view and blocks until the user quits.
func Run(cfg dynamo.Config, colorA, colorB color.RGBA, title, theme string) error {
	m, err := NewModel(cfg, colorA, colorB, title)
	if err != nil {
		return err
	}
	if theme != "" {
		if m, err = m.WithTheme(theme); err != nil {
			return err
		}
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}
