package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/hashfinder/internal/format"
)

// historySize bounds the sparkline samples kept per series.
const historySize = 120

// StatsModel shows search totals, throughput history and resource usage.
type StatsModel struct {
	scanned  uint64
	matches  int
	target   int
	rate     float64
	progress float64
	eta      time.Duration

	mem MemStatsMsg
	sys SysStatsMsg

	rateHistory *History
	cpuHistory  *History

	width  int
	height int
}

// NewStatsModel creates an empty panel for a search targeting target matches.
func NewStatsModel(target int) StatsModel {
	return StatsModel{
		target:      target,
		rateHistory: NewHistory(historySize),
		cpuHistory:  NewHistory(historySize),
	}
}

// SetSize updates dimensions.
func (m *StatsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateProgress records the latest aggregated totals.
func (m *StatsModel) UpdateProgress(msg ProgressMsg) {
	m.scanned = msg.Scanned
	m.matches = msg.Matches
	m.rate = msg.Rate
	m.progress = msg.AverageProgress
	m.eta = msg.ETA
}

// UpdateMemStats records a runtime memory reading.
func (m *StatsModel) UpdateMemStats(msg MemStatsMsg) {
	m.mem = msg
}

// UpdateSysStats records a resource reading and samples the throughput.
func (m *StatsModel) UpdateSysStats(msg SysStatsMsg) {
	m.sys = msg
	m.cpuHistory.Push(msg.CPUPercent)
	m.rateHistory.Push(m.rate)
}

// Finish marks the search complete.
func (m *StatsModel) Finish() {
	m.progress = 1
	m.eta = 0
}

// Reset clears totals and history for a new search.
func (m *StatsModel) Reset() {
	*m = StatsModel{
		target:      m.target,
		rateHistory: NewHistory(historySize),
		cpuHistory:  NewHistory(historySize),
		width:       m.width,
		height:      m.height,
	}
}

func statCell(label, value string, width int) string {
	cell := " " + labelStyle.Render(fmt.Sprintf("%-9s", label)) + " " + value
	if pad := width - lipgloss.Width(cell); pad > 0 {
		cell += strings.Repeat(" ", pad)
	}
	return cell
}

// View renders the panel.
func (m StatsModel) View() string {
	col := max((m.width-4)/2, 20)
	spark := max(m.width-22, 8)

	matches := fmt.Sprintf("%d/%d", min(m.matches, m.target), m.target)
	lines := []string{
		panelTitleStyle.Render("Search"),
		statCell("Scanned", valueStyle.Render(format.FormatCount(m.scanned)), col) +
			statCell("Rate", valueStyle.Render(format.FormatRate(m.rate)), col),
		statCell("Matches", digestStyle.Render(matches), col) +
			statCell("ETA", valueStyle.Render(format.FormatETA(m.eta)), col),
		" " + renderBar(m.progress, max(m.width-14, 5)) + valueStyle.Render(fmt.Sprintf(" %5.1f%%", m.progress*100)),
		" " + labelStyle.Render("Rate     ") + rateSparkStyle.Render(RenderSparkline(m.rateHistory.Tail(spark), 0)),
		" " + labelStyle.Render(fmt.Sprintf("CPU %3.0f%% ", m.sys.CPUPercent)) +
			cpuSparklineStyle.Render(RenderSparkline(m.cpuHistory.Tail(spark), 100)),
		statCell("Mem", valueStyle.Render(fmt.Sprintf("%.0f%%", m.sys.MemPercent)), col) +
			statCell("RSS", valueStyle.Render(formatBytes(m.sys.ProcRSS)), col),
		statCell("Heap", valueStyle.Render(formatBytes(m.mem.HeapAlloc)), col) +
			statCell("GC", valueStyle.Render(fmt.Sprintf("%d (%.1fms)", m.mem.NumGC, float64(m.mem.PauseTotalNs)/1e6)), col),
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(strings.Join(lines, "\n"))
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
