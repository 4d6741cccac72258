package tui

import (
	"fmt"
	"strings"
)

const recentShown = 10

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🌐 Blog Translation Pipeline"))
	b.WriteString("\n\n")

	if !m.Connected {
		b.WriteString(ErrorStyle.Render("❌ Not connected to the pipeline daemon"))
		if m.Err != nil {
			b.WriteString("\n")
			b.WriteString(InfoStyle.Render("   " + m.Err.Error()))
		}
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render("Press 'q' or Ctrl+C to quit"))
		return b.String()
	}

	b.WriteString(m.renderStages())
	b.WriteString("\n")

	if m.LastAction != "" {
		b.WriteString(StatusStyle.Render("▶ " + m.LastAction))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderRecent())
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("Press 'i' to run ingestion | 'r' to refresh | 'q' to quit"))
	return b.String()
}

func (m Model) renderStages() string {
	var b strings.Builder
	b.WriteString(HighlightStyle.Render("Stages"))
	b.WriteString("\n\n")

	if m.Snapshot == nil || len(m.Snapshot.Stages) == 0 {
		b.WriteString(InfoStyle.Render("   no stages hosted"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(InfoStyle.Render(fmt.Sprintf("   %-18s %5s %9s  %-13s %s", "STAGE", "RUNS", "FAILURES", "LAST", "MESSAGE")))
	b.WriteString("\n")
	for _, st := range m.Snapshot.Stages {
		line := fmt.Sprintf("   %-18s %5d %9d  %-13s %s",
			st.Stage, st.Runs, st.Failures, st.LastOutcome, lastDetail(st.LastMessage, st.LastError))
		if st.LastOutcome == "failed" {
			b.WriteString(ErrorStyle.Render(line))
		} else {
			b.WriteString(StatusStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRecent() string {
	var b strings.Builder
	b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
	b.WriteString("\n")

	if m.Snapshot == nil || len(m.Snapshot.Recent) == 0 {
		b.WriteString(InfoStyle.Render("   nothing yet"))
		b.WriteString("\n")
		return b.String()
	}

	recent := m.Snapshot.Recent
	if len(recent) > recentShown {
		recent = recent[len(recent)-recentShown:]
	}
	for _, entry := range recent {
		line := fmt.Sprintf("   %s  %-18s %s", entry.Timestamp.Format("15:04:05"), entry.Stage, entry.Message)
		b.WriteString(InfoStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func lastDetail(message, errText string) string {
	detail := message
	if errText != "" {
		detail = errText
	}
	if len(detail) > 60 {
		detail = detail[:57] + "..."
	}
	return detail
}
