package cli

import (
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/agbru/hashfinder/internal/config"
	"github.com/agbru/hashfinder/internal/ui"
)

// hashAcceleration names the CPU features Go's SHA-256 implementation uses
// on this host.
func hashAcceleration() string {
	switch runtime.GOARCH {
	case "amd64":
		if cpu.X86.HasAVX2 {
			return "avx2"
		}
		if cpu.X86.HasSSSE3 {
			return "ssse3"
		}
	case "arm64":
		if cpu.ARM64.HasSHA2 {
			return "sha2"
		}
	}
	return "generic"
}

// PrintExecutionConfig displays the search parameters and the host
// environment before the search starts.
//
// Parameters:
//   - cfg: The application configuration.
//   - workers: The resolved number of workers.
//   - out: The writer for the banner.
func PrintExecutionConfig(cfg config.AppConfig, workers int, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Searching %s%d%s digests ending with %s%d%s zeros (strategy %s).\n",
		ui.ColorPrimary(), cfg.ResultCount, ui.ColorReset(),
		ui.ColorPrimary(), cfg.ZeroCount, ui.ColorReset(), cfg.Strategy)
	timeout := "none"
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout.String()
	}
	fmt.Fprintf(out, "Workers: %s%d%s, timeout: %s%s%s.\n",
		ui.ColorDigest(), workers, ui.ColorReset(), ui.ColorYellow(), timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %d logical processors, Go %s, %s/%s, hashing %s.\n",
		runtime.NumCPU(), runtime.Version(), runtime.GOOS, runtime.GOARCH, hashAcceleration())
	fmt.Fprintf(out, "\n--- Starting Search ---\n")
}
