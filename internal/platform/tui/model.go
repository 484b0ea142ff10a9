package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brickdungeon/internal/core"
	"github.com/vovakirdan/brickdungeon/internal/dungeon"
	"github.com/vovakirdan/brickdungeon/internal/storage"
)

// holdTicks is how long a movement or aim key stays active after a press.
// Terminals report held keys only as a stream of repeats.
const holdTicks = 8

// eventHistory is the number of events kept for the status panel.
const eventHistory = 32

// Options configure the console.
type Options struct {
	// NewRun creates a run; it is called again on restart with a fresh seed.
	NewRun  func(core.RuntimeConfig) (*dungeon.Run, error)
	Store   *storage.Store // nil disables history
	Runtime core.RuntimeConfig
	Logger  *log.Logger
}

// Model is the Bubble Tea model for playing a run.
type Model struct {
	opts     Options
	log      *log.Logger
	run      *dungeon.Run
	canvas   *core.Canvas
	keys     KeyMap
	help     help.Model
	pressed  core.InputFrame
	held     map[core.Action]int
	events   []dungeon.Event
	paused   bool
	saved    bool // Whether the finished run has been stored
	quitting bool
	err      error
}

// NewModel creates a console model and its first run.
func NewModel(opts Options) (Model, error) {
	if opts.NewRun == nil {
		panic("tui: nil run factory")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	run, err := opts.NewRun(opts.Runtime)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		opts:    opts,
		log:     logger,
		run:     run,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		pressed: core.NewInputFrame(),
		held:    make(map[core.Action]int),
	}
	m.canvas = core.NewCanvas(1, 1, ArenaRect(run))
	m.resize(opts.Runtime.ScreenW, opts.Runtime.ScreenH)
	return m, nil
}

// resize fits the arena map next to the status panel.
func (m *Model) resize(width, height int) {
	w := max(width-panelWidth-6, 20)
	h := max(height-3, 10)
	// Terminal cells are about twice as tall as wide.
	a := m.run.Config().Arena
	if fit := int(float64(w) * a.Height / a.Width / 2); fit < h {
		h = max(fit, 10)
	}
	m.canvas.Resize(w, h)
	m.help.Width = width
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime.Interval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Restart):
		if m.run.Outcome() != dungeon.Running {
			return m.restart()
		}
		return m, nil
	}

	action, hold := m.keys.MapKey(msg)
	switch {
	case action == core.ActionNone:
	case action == core.ActionPause:
		m.paused = !m.paused
	case hold:
		m.held[action] = holdTicks
	default:
		m.pressed.Set(action)
	}
	return m, nil
}

// restart replaces a finished run with a new one.
func (m Model) restart() (tea.Model, tea.Cmd) {
	rt := m.opts.Runtime
	rt.Seed = time.Now().UnixNano()
	run, err := m.opts.NewRun(rt)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.run = run
	m.events = nil
	m.saved = false
	m.paused = false
	m.pressed.Clear()
	clear(m.held)
	return m, nil
}

// frame merges one-shot presses with held keys and ages the held keys.
func (m *Model) frame() core.InputFrame {
	in := m.pressed.Clone()
	for a, left := range m.held {
		in.Set(a)
		if left <= 1 {
			delete(m.held, a)
		} else {
			m.held[a] = left - 1
		}
	}
	m.pressed.Clear()
	return in
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	next := tickCmd(m.opts.Runtime.Interval())
	if m.paused || m.run.Outcome() != dungeon.Running {
		m.pressed.Clear()
		return m, next
	}

	res, err := m.run.Step(m.frame())
	if err != nil {
		m.log.Error("run failed", "tick", m.run.Tick(), "depth", m.run.Depth(), "err", err)
		m.err = err
		return m, tea.Quit
	}
	m.events = append(m.events, res.Events...)
	if n := len(m.events); n > eventHistory {
		m.events = append(m.events[:0], m.events[n-eventHistory:]...)
	}

	if res.Outcome != dungeon.Running && !m.saved {
		m.saveRun()
		m.saved = true
	}
	return m, next
}

// saveRun stores a finished run. Failures are logged and the console continues.
func (m *Model) saveRun() {
	m.log.Info("run finished", "outcome", m.run.Outcome(), "depth", m.run.Depth(), "ticks", m.run.Tick())
	if m.opts.Store == nil {
		return
	}
	if _, err := m.opts.Store.SaveDungeonRun(m.run); err != nil {
		m.log.Warn("could not save run", "err", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	DrawArena(m.canvas, m.run)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		RenderCanvas(m.canvas), "  ", RenderStatus(m.run, m.events, m.paused))
	return body + "\n" + labelStyle.Render(m.help.View(m.keys))
}

// Err returns the fatal error that ended the console, if any.
func (m Model) Err() error {
	return m.err
}

// Run starts the Bubble Tea program and plays until the player quits.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return fmt.Errorf("run %s: %w", m.run.ID, m.err)
	}
	return nil
}
