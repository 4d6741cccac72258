// Package tui is a polling terminal dashboard for the pipeline daemon: it
// shows per-stage status and recent activity, and can trigger an ingestion
// pass.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hnrq/veloren-translate/status"
)

// Model is the TUI client state, synced from the daemon by polling.
type Model struct {
	Client *Client

	Snapshot  *status.Snapshot
	Connected bool

	// LastAction is the outcome line of the last manual trigger.
	LastAction string

	Ingesting bool
	Err       error
}

// NewModel creates the TUI model.
func NewModel(apiURL string) Model {
	return Model{
		Client: NewClient(apiURL),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	// Start polling immediately
	return tea.Batch(
		pollStatus(m.Client),
		tickCmd(),
	)
}
