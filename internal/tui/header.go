package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/hashfinder/internal/format"
)

// HeaderModel renders the top bar: title, search parameters and status.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	params    string
	status    string
	width     int
}

// NewHeaderModel creates a header for a search of resultCount digests with
// zeroCount trailing zeros on the given number of workers.
func NewHeaderModel(version string, zeroCount, resultCount, workers int) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		params:    fmt.Sprintf("zeros=%d  hashes=%d  workers=%d", zeroCount, resultCount, workers),
		status:    statusRunning,
	}
}

const (
	statusRunning  = "RUNNING"
	statusPaused   = "PAUSED"
	statusDone     = "DONE"
	statusFailed   = "FAILED"
	statusCanceled = "CANCELED"
)

// SetStatus changes the status badge. Terminal states freeze the timer.
func (h *HeaderModel) SetStatus(status string) {
	h.status = status
	switch status {
	case statusDone, statusFailed, statusCanceled:
		if h.endTime.IsZero() {
			h.endTime = time.Now()
		}
	}
}

// Reset restarts the timer for a new search.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
	h.status = statusRunning
}

// Elapsed returns the running time of the current search.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

func (h HeaderModel) statusBadge() string {
	style := statusStyle
	switch h.status {
	case statusRunning, statusDone:
		style = style.Inherit(successStyle)
	case statusPaused, statusCanceled:
		style = style.Inherit(warningStyle)
	case statusFailed:
		style = style.Inherit(errorStyle)
	}
	return style.Render(h.status)
}

// View renders the header.
func (h HeaderModel) View() string {
	title := "hashfinder"
	if h.version != "" && h.version != "dev" {
		title += " " + h.version
	}
	pipe := dimStyle.Render(" | ")
	left := titleStyle.Render(title) + pipe +
		accentStyle.Render(h.params) + pipe +
		accentStyle.Render("Elapsed: "+format.FormatExecutionDuration(h.Elapsed()))
	right := h.statusBadge()

	gap := max(h.width-2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return headerStyle.Width(h.width).Render(left + strings.Repeat(" ", gap) + right)
}
