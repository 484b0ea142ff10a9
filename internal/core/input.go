package core

// Action represents a semantic player action, abstracted from physical key presses.
type Action int

const (
	ActionNone      Action = iota
	ActionLeft             // A, Left arrow - move paddle left
	ActionRight            // D, Right arrow - move paddle right
	ActionUp               // W, Up arrow - move paddle up
	ActionDown             // S, Down arrow - move paddle down
	ActionToggleAim        // Shift, Tab - take a ball in hand or put it back
	ActionAimLeft          // Q - rotate aim counter-clockwise
	ActionAimRight         // E - rotate aim clockwise
	ActionShoot            // Space - launch the ball in hand
	ActionPrevRoom         // [ - previous room icon while choosing
	ActionNextRoom         // ] - next room icon while choosing
	ActionConfirm          // Enter - enter the highlighted room
	ActionPause            // P - pause/unpause
	ActionQuit             // Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionToggleAim:
		return "ToggleAim"
	case ActionAimLeft:
		return "AimLeft"
	case ActionAimRight:
		return "AimRight"
	case ActionShoot:
		return "Shoot"
	case ActionPrevRoom:
		return "PrevRoom"
	case ActionNextRoom:
		return "NextRoom"
	case ActionConfirm:
		return "Confirm"
	case ActionPause:
		return "Pause"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state during one simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}

// Axis folds a pair of opposing actions into -1, 0 or +1.
func (f InputFrame) Axis(neg, pos Action) float64 {
	var v float64
	if f.Has(neg) {
		v--
	}
	if f.Has(pos) {
		v++
	}
	return v
}
