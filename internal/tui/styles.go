package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/hashfinder/internal/ui"
)

// Dashboard styles, rebuilt from the active ui theme by initTUIStyles.
var (
	panelStyle        lipgloss.Style
	panelTitleStyle   lipgloss.Style
	headerStyle       lipgloss.Style
	titleStyle        lipgloss.Style
	dimStyle          lipgloss.Style
	accentStyle       lipgloss.Style
	digestStyle       lipgloss.Style
	successStyle      lipgloss.Style
	warningStyle      lipgloss.Style
	errorStyle        lipgloss.Style
	labelStyle        lipgloss.Style
	valueStyle        lipgloss.Style
	barFilledStyle    lipgloss.Style
	barEmptyStyle     lipgloss.Style
	statusStyle       lipgloss.Style
	rateSparkStyle    lipgloss.Style
	cpuSparklineStyle lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme. Run calls it
// again because the theme is chosen after package initialization.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)
	panelTitleStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	dimStyle = lipgloss.NewStyle().Foreground(t.Dim)
	accentStyle = lipgloss.NewStyle().Foreground(t.Accent)
	digestStyle = lipgloss.NewStyle().Foreground(t.Digest)
	successStyle = lipgloss.NewStyle().Foreground(t.Success)
	warningStyle = lipgloss.NewStyle().Foreground(t.Warning)
	errorStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(t.Dim)
	valueStyle = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	barFilledStyle = lipgloss.NewStyle().Foreground(t.Accent)
	barEmptyStyle = lipgloss.NewStyle().Foreground(t.Dim)
	statusStyle = lipgloss.NewStyle().Bold(true)
	rateSparkStyle = lipgloss.NewStyle().Foreground(t.Digest)
	cpuSparklineStyle = lipgloss.NewStyle().Foreground(t.Warning)
}
