package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sdesim/internal/dynamo"
	"github.com/san-kum/sdesim/internal/noise"
	"github.com/san-kum/sdesim/internal/sde"
)

const (
	width           = 60
	height          = 16
	historyCapacity = 300
	stepsPerFrame   = 4
	profileRange    = 15.0
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps one trajectory per frame and shows the ring profile, the
// history of site 0 and the running parameters.
type Model struct {
	dyn        dynamo.System
	integrator sde.Integrator
	src        noise.Sampler
	seed       int64

	state, initial dynamo.State
	steps          int
	t, dt          float64
	diffusion      float64
	initialS       float64
	initialForce   float64

	canvas  *Canvas
	history []float64
	running bool
	err     error
}

func NewModel(dyn dynamo.System, integ sde.Integrator, x0 dynamo.State, dt, diffusion float64, seed int64) Model {
	m := Model{
		dyn:        dyn,
		integrator: integ,
		src:        noise.New(seed),
		seed:       seed,
		state:      x0.Clone(),
		initial:    x0.Clone(),
		dt:         dt,
		diffusion:  diffusion,
		initialS:   diffusion,
		canvas:     NewCanvas(width, height),
		history:    make([]float64, 0, historyCapacity),
		running:    true,
	}
	if c, ok := dyn.(dynamo.Configurable); ok {
		m.initialForce = c.GetParams()["force"]
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "up", "k":
			m.diffusion += 0.05
		case "down", "j":
			m.diffusion = math.Max(0, m.diffusion-0.05)
		case "+", "=":
			m.adjustForce(0.5)
		case "-", "_":
			m.adjustForce(-0.5)
		case "t":
			NextTheme()
		}
	case TickMsg:
		if m.running && m.err == nil {
			for i := 0; i < stepsPerFrame; i++ {
				if !m.step() {
					break
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

// step advances one dt; a failing step pauses the model and keeps the
// last good state on screen.
func (m *Model) step() bool {
	next, err := m.integrator.Step(m.dyn, m.state, m.t, m.dt, m.diffusion, m.src)
	if err != nil {
		m.err = err
		m.running = false
		return false
	}
	m.state = next
	m.steps++
	m.t = float64(m.steps) * m.dt

	m.history = append(m.history, m.state[0])
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	return true
}

func (m *Model) adjustForce(delta float64) {
	c, ok := m.dyn.(dynamo.Configurable)
	if !ok {
		return
	}
	m.setForce(c, c.GetParams()["force"]+delta)
}

// setForce applies a force change; a rejected value stops the model like a
// failed step does.
func (m *Model) setForce(c dynamo.Configurable, v float64) {
	if err := c.SetParam("force", v); err != nil {
		m.err = err
		m.running = false
	}
}

// reset restores the initial state, parameters and noise stream, so a
// reset run replays the same path.
func (m *Model) reset() {
	m.state = m.initial.Clone()
	m.steps = 0
	m.t = 0
	m.diffusion = m.initialS
	m.src = noise.New(m.seed)
	m.history = m.history[:0]
	m.err = nil
	m.running = true
	if c, ok := m.dyn.(dynamo.Configurable); ok {
		m.setForce(c, m.initialForce)
	}
}

func (m Model) View() string {
	m.canvas.Clear()
	m.canvas.DrawProfile(m.state, -profileRange, profileRange)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle().Render(fmt.Sprintf("LORENZ-96s  N=%d  %s", len(m.state), m.integrator.Name())) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(statusStyle(false).Render("STOPPED: "+m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(statusStyle(true).Render("RUNNING") + "\n\n")
	default:
		s.WriteString(statusStyle(false).Render("PAUSED") + "\n\n")
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(5), asciigraph.Width(32), asciigraph.Caption("x0"))
		s.WriteString(graphStyle().Render(chart) + "\n")
	}

	force := 0.0
	if c, ok := m.dyn.(dynamo.Configurable); ok {
		force = c.GetParams()["force"]
	}
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle().Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2f", m.t))
	row("Diffusion", fmt.Sprintf("%.2f", m.diffusion))
	row("Force", fmt.Sprintf("%.2f", force))
	row("Norm", fmt.Sprintf("%.3f", m.state.Norm()))
	row("Seed", fmt.Sprintf("%d", m.seed))
	row("Sites", Sparkline(m.state, min(len(m.state), 30)))

	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\n↑↓:Diffusion +-:Force T:Theme"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// State returns the current state and time.
func (m Model) State() (dynamo.State, float64) { return m.state, m.t }

// Err reports the step error that stopped the model, if any.
func (m Model) Err() error { return m.err }

// RunLive starts the TUI and blocks until the user quits.
func RunLive(dyn dynamo.System, integ sde.Integrator, x0 dynamo.State, dt, diffusion float64, seed int64) error {
	p := tea.NewProgram(NewModel(dyn, integ, x0, dt, diffusion, seed), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
