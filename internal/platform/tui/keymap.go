package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/brickdungeon/internal/core"
)

// KeyMap defines the key bindings for the console.
type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	ToggleAim key.Binding
	AimLeft   key.Binding
	AimRight  key.Binding
	Shoot     key.Binding
	PrevRoom  key.Binding
	NextRoom  key.Binding
	Confirm   key.Binding
	Pause     key.Binding
	Restart   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.AimLeft, k.Shoot, k.Confirm, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.ToggleAim, k.AimLeft, k.AimRight, k.Shoot},
		{k.PrevRoom, k.NextRoom, k.Confirm},
		{k.Pause, k.Restart, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("a", "left"),
			key.WithHelp("a/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("d", "right"),
			key.WithHelp("d/→", "right"),
		),
		Up: key.NewBinding(
			key.WithKeys("w", "up"),
			key.WithHelp("w/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("s", "down"),
			key.WithHelp("s/↓", "down"),
		),
		ToggleAim: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "hold ball"),
		),
		AimLeft: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q/e", "aim"),
		),
		AimRight: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "aim right"),
		),
		Shoot: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "shoot"),
		),
		PrevRoom: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev room"),
		),
		NextRoom: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next room"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "enter room"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

type actionBinding struct {
	binding key.Binding
	action  core.Action
}

// held are actions a terminal can only report as repeated presses.
// They stay active for a few ticks after each press.
func (k KeyMap) held() []actionBinding {
	return []actionBinding{
		{k.Left, core.ActionLeft},
		{k.Right, core.ActionRight},
		{k.Up, core.ActionUp},
		{k.Down, core.ActionDown},
		{k.AimLeft, core.ActionAimLeft},
		{k.AimRight, core.ActionAimRight},
	}
}

// MapKey translates a key message to a run action.
// Returns ActionNone for keys the run does not consume, and whether the
// action should be held across ticks.
func (k KeyMap) MapKey(msg tea.KeyMsg) (action core.Action, hold bool) {
	for _, h := range k.held() {
		if key.Matches(msg, h.binding) {
			return h.action, true
		}
	}
	switch {
	case key.Matches(msg, k.ToggleAim):
		return core.ActionToggleAim, false
	case key.Matches(msg, k.Shoot):
		return core.ActionShoot, false
	case key.Matches(msg, k.PrevRoom):
		return core.ActionPrevRoom, false
	case key.Matches(msg, k.NextRoom):
		return core.ActionNextRoom, false
	case key.Matches(msg, k.Confirm):
		return core.ActionConfirm, false
	case key.Matches(msg, k.Pause):
		return core.ActionPause, false
	case key.Matches(msg, k.Quit):
		return core.ActionQuit, false
	}
	return core.ActionNone, false
}
