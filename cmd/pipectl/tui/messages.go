package tui

import (
	"time"

	"github.com/hnrq/veloren-translate/pipeline"
	"github.com/hnrq/veloren-translate/status"
)

// Messages for the tea program (polling-based)

// StatusUpdateMsg carries the result of one status poll.
type StatusUpdateMsg struct {
	Snapshot *status.Snapshot
	Err      error
}

// TickMsg is sent periodically to trigger polling.
type TickMsg struct {
	Time time.Time
}

// IngestTriggeredMsg carries the result of a manually triggered ingestion
// pass.
type IngestTriggeredMsg struct {
	Result *pipeline.Result
	Err    error
}
