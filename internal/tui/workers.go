package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/hashfinder/internal/format"
)

// workerRow is the latest state of one worker.
type workerRow struct {
	progress float64
	scanned  uint64
	matches  int
	done     bool
}

// WorkersModel renders one progress bar per worker.
type WorkersModel struct {
	rows   []workerRow
	width  int
	height int
}

// NewWorkersModel creates a panel for n workers.
func NewWorkersModel(n int) WorkersModel {
	return WorkersModel{rows: make([]workerRow, max(n, 0))}
}

// SetSize updates dimensions.
func (m *WorkersModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Update records a worker's progress. Unknown workers are ignored.
func (m *WorkersModel) Update(msg ProgressMsg) {
	i := msg.WorkerIndex
	if i < 0 || i >= len(m.rows) {
		return
	}
	m.rows[i] = workerRow{
		progress: msg.WorkerProgress,
		scanned:  msg.WorkerScanned,
		matches:  msg.WorkerMatches,
		done:     msg.Done,
	}
}

// Reset clears all rows.
func (m *WorkersModel) Reset() {
	clear(m.rows)
}

// renderBar draws a bar of width cells for a fraction in [0, 1].
func renderBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(min(max(fraction, 0), 1) * float64(width))
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// View renders the panel. Rows beyond the panel height are summarized.
func (m WorkersModel) View() string {
	inner := max(m.height-3, 1)
	barWidth := max(m.width-40, 5)

	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Workers"))
	for i, r := range m.rows {
		if i >= inner {
			fmt.Fprintf(&b, "\n %s", dimStyle.Render(fmt.Sprintf("... %d more", len(m.rows)-i)))
			break
		}
		state := accentStyle.Render("●")
		if r.done {
			state = successStyle.Render("✓")
		}
		fmt.Fprintf(&b, "\n %s %s %s %s %s",
			labelStyle.Render(fmt.Sprintf("w%02d", i)),
			renderBar(r.progress, barWidth),
			valueStyle.Render(fmt.Sprintf("%12s", format.FormatCount(r.scanned))),
			digestStyle.Render(fmt.Sprintf("%3d", r.matches)),
			state)
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(b.String())
}
