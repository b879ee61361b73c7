// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the player status display
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// NewModel creates a new TUI model
func NewModel() Model {
	return Model{
		state:   "starting",
		started: time.Now(),
	}
}

// Run starts the TUI
func Run() (*tea.Program, error) {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	return p, nil
}
