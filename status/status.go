// Package status tracks the last-known state of each pipeline stage for the
// status endpoint and the terminal dashboard.
package status

import (
	"sync"
	"time"

	"github.com/hnrq/veloren-translate/pipeline"
)

const maxRecent = 50

// StageStatus is the last-known state of one stage.
type StageStatus struct {
	Stage       string    `json:"stage"`
	Runs        int       `json:"runs"`
	Failures    int       `json:"failures"`
	LastOutcome string    `json:"last_outcome,omitempty"`
	LastMessage string    `json:"last_message,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	LastRunAt   time.Time `json:"last_run_at"`
}

// Entry is one line in the recent-activity feed.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
}

// Snapshot is the full status document served to pollers.
type Snapshot struct {
	StartedAt time.Time     `json:"started_at"`
	Stages    []StageStatus `json:"stages"`
	Recent    []Entry       `json:"recent"`
}

// Manager aggregates stage outcomes behind a read-write lock, with a bounded
// recent-activity ring.
type Manager struct {
	mu        sync.RWMutex
	startedAt time.Time
	order     []string
	stages    map[string]*StageStatus
	recent    []Entry
}

// NewManager seeds the manager with the hosted stages so the status document
// lists them before their first run.
func NewManager(stageNames ...string) *Manager {
	m := &Manager{
		startedAt: time.Now(),
		stages:    make(map[string]*StageStatus, len(stageNames)),
	}
	for _, name := range stageNames {
		m.order = append(m.order, name)
		m.stages[name] = &StageStatus{Stage: name}
	}
	return m
}

// Record stores the outcome of one stage invocation.
func (m *Manager) Record(stage string, res pipeline.Result, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.stages[stage]
	if !ok {
		st = &StageStatus{Stage: stage}
		m.stages[stage] = st
		m.order = append(m.order, stage)
	}

	st.Runs++
	st.LastRunAt = time.Now()
	if err != nil {
		st.Failures++
		st.LastOutcome = "failed"
		st.LastError = err.Error()
		st.LastMessage = ""
		m.push(stage, "failed: "+err.Error())
		return
	}
	st.LastOutcome = string(res.Outcome)
	st.LastMessage = res.Message
	st.LastError = ""
	m.push(stage, res.Message)
}

func (m *Manager) push(stage, message string) {
	m.recent = append(m.recent, Entry{Timestamp: time.Now(), Stage: stage, Message: message})
	if len(m.recent) > maxRecent {
		m.recent = m.recent[len(m.recent)-maxRecent:]
	}
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		StartedAt: m.startedAt,
		Stages:    make([]StageStatus, 0, len(m.order)),
		Recent:    append([]Entry(nil), m.recent...),
	}
	for _, name := range m.order {
		snap.Stages = append(snap.Stages, *m.stages[name])
	}
	return snap
}
