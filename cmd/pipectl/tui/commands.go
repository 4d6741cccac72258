package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// pollStatus creates a command to poll the daemon's status endpoint.
func pollStatus(client *Client) tea.Cmd {
	return func() tea.Msg {
		snap, err := client.GetStatus()
		return StatusUpdateMsg{
			Snapshot: snap,
			Err:      err,
		}
	}
}

// triggerIngest creates a command that runs one ingestion pass.
func triggerIngest(client *Client) tea.Cmd {
	return func() tea.Msg {
		res, err := client.TriggerIngest()
		return IngestTriggeredMsg{Result: res, Err: err}
	}
}

// tickCmd creates a command that ticks every 500ms for polling.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
