package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case TickMsg:
		return m, tea.Batch(pollStatus(m.Client), tickCmd())
	case StatusUpdateMsg:
		return m.handleStatusUpdate(msg)
	case IngestTriggeredMsg:
		return m.handleIngestTriggered(msg)
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "i", "I":
		if m.Connected && !m.Ingesting {
			m.Ingesting = true
			m.LastAction = "ingestion pass running..."
			return m, triggerIngest(m.Client)
		}
	case "r", "R":
		return m, pollStatus(m.Client)
	}
	return m, nil
}

func (m Model) handleStatusUpdate(msg StatusUpdateMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Connected = false
		m.Err = msg.Err
		return m, nil
	}
	m.Connected = true
	m.Err = nil
	m.Snapshot = msg.Snapshot
	return m, nil
}

func (m Model) handleIngestTriggered(msg IngestTriggeredMsg) (tea.Model, tea.Cmd) {
	m.Ingesting = false
	if msg.Err != nil {
		m.LastAction = fmt.Sprintf("ingestion failed: %v", msg.Err)
		return m, nil
	}
	m.LastAction = msg.Result.Message
	// Refresh right away so the pass shows up without waiting for the tick.
	return m, pollStatus(m.Client)
}
