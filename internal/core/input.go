package core

// Action represents a semantic input, abstracted from physical keys,
// pointer presses or websocket messages.
type Action int

const (
	ActionNone    Action = iota
	ActionJump           // Space, Up, W, pointer press, touch start
	ActionStart          // Enter - leave the start screen
	ActionRestart        // R - start again after game over
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionJump:
		return "Jump"
	case ActionStart:
		return "Start"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// ParseAction maps a wire name ("jump", "start", ...) to an Action.
// Unknown names map to ActionNone.
func ParseAction(name string) Action {
	switch name {
	case "jump":
		return ActionJump
	case "start":
		return ActionStart
	case "restart":
		return ActionRestart
	case "quit":
		return ActionQuit
	default:
		return ActionNone
	}
}
