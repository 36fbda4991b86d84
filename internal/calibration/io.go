package calibration

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/agbru/hashfinder/internal/format"
	"github.com/agbru/hashfinder/internal/ui"
)

// PrintCalibrationResults prints the check interval derived for each entry of
// Latencies and marks the profile's choice.
func PrintCalibrationResults(out io.Writer, p *CalibrationProfile) {
	fmt.Fprintf(out, "\n%s--- Calibration Summary ---%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "Single-worker rate: %s%s%s\n", ui.ColorPrimary(), format.FormatRate(p.HashRate), ui.ColorReset())

	table := tablewriter.NewWriter(out)
	table.Header("Checkpoint every", "Check interval", "")
	for _, latency := range Latencies {
		interval := IntervalFor(p.HashRate, latency)
		mark := ""
		if latency == p.TargetLatency {
			mark = "recommended"
		}
		_ = table.Append(latency.String(), format.FormatCount(interval), mark)
	}
	if err := table.Render(); err != nil {
		fmt.Fprintf(out, "failed to render calibration table: %v\n", err)
	}
}

// PrintCalibrationOutput reports the stored profile.
func PrintCalibrationOutput(out io.Writer, p *CalibrationProfile, path string) {
	fmt.Fprintf(out, "%sCalibration saved%s: check interval %s%d%s in %s\n",
		ui.ColorGreen(), ui.ColorReset(),
		ui.ColorYellow(), p.CheckInterval, ui.ColorReset(),
		path)
}
