// ABOUTME: Bubbletea model for the playback status TUI
// ABOUTME: Renders device format and live engine counters
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/steadytone/steadytone-go/internal/engine"
)

// Model represents the TUI state
type Model struct {
	// Identity
	playerID string
	source   string

	// Device
	backend    string
	device     string
	sampleRate int
	channels   int

	// Playback
	state   string
	started time.Time
	stats   engine.Stats

	// Debug
	showDebug bool

	// Dimensions
	width  int
	height int
}

// StatusMsg updates TUI state
type StatusMsg struct {
	PlayerID   string
	Source     string
	Backend    string
	Device     string
	SampleRate int
	Channels   int
	State      string
	Stats      *engine.Stats
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderFormat()
	s += m.renderStats()

	if m.showDebug {
		s += m.renderDebug()
	}

	s += m.renderHelp()

	return s
}

// renderHeader renders player identity and state
func (m Model) renderHeader() string {
	state := m.state
	if state == "" {
		state = "starting"
	}

	return fmt.Sprintf(`┌─ Steadytone Player ──────────────────────────────────┐
│ State:  %-45s │
│ Source: %-45s │
├──────────────────────────────────────────────────────┤
`, state, truncate(m.source, 45))
}

// renderFormat renders the negotiated stream format
func (m Model) renderFormat() string {
	if m.sampleRate == 0 {
		return "│ No device                                            │\n"
	}

	return fmt.Sprintf("│ Device: %-12s (%s) %dHz %-6s float32%-6s │\n",
		truncate(m.device, 12), m.backend, m.sampleRate, channelName(m.channels), "")
}

// renderStats renders live engine counters
func (m Model) renderStats() string {
	played := time.Duration(0)
	if m.sampleRate > 0 {
		played = time.Duration(m.stats.FramesWritten) * time.Second / time.Duration(m.sampleRate)
	}

	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Played: %-45s │
│ Frames: %-10d Refills: %-8d Short: %-9d │
│ Underruns: %-7d Resumes: %-24d │
`, played.Round(time.Second), m.stats.FramesWritten, m.stats.Refills, m.stats.ShortWrites,
		m.stats.Underruns, m.stats.Suspends)
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ d:Debug  q:Quit                                      │
└──────────────────────────────────────────────────────┘
`
}

// renderDebug renders debug information
func (m Model) renderDebug() string {
	return fmt.Sprintf(`│ DEBUG:                                               │
│   Player ID: %-39s │
│   Uptime: %-42s │
`, m.playerID, time.Since(m.started).Round(time.Second))
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.PlayerID != "" {
		m.playerID = msg.PlayerID
	}
	if msg.Source != "" {
		m.source = msg.Source
	}
	if msg.Backend != "" {
		m.backend = msg.Backend
		m.device = msg.Device
		m.sampleRate = msg.SampleRate
		m.channels = msg.Channels
	}
	if msg.State != "" {
		m.state = msg.State
	}
	if msg.Stats != nil {
		m.stats = *msg.Stats
	}
}

// Utility functions
func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	if channels == 1 {
		return "Mono"
	}
	return "Stereo"
}
