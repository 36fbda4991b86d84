package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/hashfinder/internal/format"
	"github.com/agbru/hashfinder/internal/orchestration"
	"github.com/agbru/hashfinder/internal/search"
)

// maxLogLines bounds the event log.
const maxLogLines = 2000

// LogModel is a scrollable event log: search start, worker completions,
// matches and errors.
type LogModel struct {
	vp       viewport.Model
	lines    []string
	finished map[int]bool
	keymap   KeyMap
	width    int
	height   int
}

// NewLogModel creates an empty log.
func NewLogModel() LogModel {
	return LogModel{vp: viewport.New(0, 0), keymap: DefaultKeyMap()}
}

// SetSize updates dimensions. The viewport sits inside the panel border and
// below the title line.
func (m *LogModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.vp.Width = max(w-4, 0)
	m.vp.Height = max(h-3, 0)
	m.refresh()
}

func (m *LogModel) refresh() {
	follow := m.vp.AtBottom() || m.vp.TotalLineCount() == 0
	m.vp.SetContent(strings.Join(m.lines, "\n"))
	if follow {
		m.vp.GotoBottom()
	}
}

func (m *LogModel) add(line string) {
	stamp := dimStyle.Render(time.Now().Format(time.TimeOnly))
	m.lines = append(m.lines, stamp+" "+line)
	if len(m.lines) > maxLogLines {
		m.lines = m.lines[len(m.lines)-maxLogLines:]
	}
	m.refresh()
}

// AddStart logs the start of a search.
func (m *LogModel) AddStart(params search.Params, workers int, strategy string) {
	m.add(accentStyle.Render(fmt.Sprintf("searching %d digests with %d trailing zeros on %d workers (%s)",
		params.ResultCount, params.ZeroCount, workers, strategy)))
}

// AddWorkerDone logs a worker that stopped. A worker is logged once even
// when its final totals arrive twice.
func (m *LogModel) AddWorkerDone(msg ProgressMsg) {
	if m.finished[msg.WorkerIndex] {
		return
	}
	if m.finished == nil {
		m.finished = make(map[int]bool)
	}
	m.finished[msg.WorkerIndex] = true
	m.add(fmt.Sprintf("worker %d finished: %s scanned, %d matches",
		msg.WorkerIndex, format.FormatCount(msg.WorkerScanned), msg.WorkerMatches))
}

// AddMatches logs the final ordered matches.
func (m *LogModel) AddMatches(matches []search.Match) {
	m.add(successStyle.Render(fmt.Sprintf("%d matches", len(matches))))
	for _, match := range matches {
		m.add(fmt.Sprintf("  %s %s", valueStyle.Render(fmt.Sprintf("%d", match.Candidate)), digestStyle.Render(match.Digest)))
	}
}

// AddSummary logs the totals of a finished search.
func (m *LogModel) AddSummary(outcome orchestration.SearchOutcome) {
	res := outcome.Result
	m.add(fmt.Sprintf("scanned %s candidates in %s",
		format.FormatCount(res.Scanned()), format.FormatExecutionDuration(res.Duration)))
}

// AddError logs a failure.
func (m *LogModel) AddError(msg ErrorMsg) {
	m.add(errorStyle.Render(fmt.Sprintf("search failed after %s: %v", format.FormatExecutionDuration(msg.Duration), msg.Err)))
}

// AddInfo logs a plain message.
func (m *LogModel) AddInfo(text string) {
	m.add(dimStyle.Render(text))
}

// Reset clears the log.
func (m *LogModel) Reset() {
	m.lines = nil
	clear(m.finished)
	m.vp.SetContent("")
	m.vp.GotoTop()
}

// Update scrolls the log.
func (m *LogModel) Update(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keymap.Up):
		m.vp.ScrollUp(1)
	case key.Matches(msg, m.keymap.Down):
		m.vp.ScrollDown(1)
	case key.Matches(msg, m.keymap.PageUp):
		m.vp.PageUp()
	case key.Matches(msg, m.keymap.PageDown):
		m.vp.PageDown()
	}
}

// Len returns the number of logged lines.
func (m LogModel) Len() int { return len(m.lines) }

// View renders the panel.
func (m LogModel) View() string {
	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(panelTitleStyle.Render("Events") + "\n" + m.vp.View())
}
