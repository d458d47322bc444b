// Package tui provides the Bubble Tea front end for the game.
// It handles the terminal UI loop, input mapping and snapshot rendering.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is one frame callback. The loop only asks for the next one while a run is live.
type TickMsg time.Time

// tickCmd requests a single frame callback after one frame interval.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
