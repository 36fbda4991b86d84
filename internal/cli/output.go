// # Naming Conventions
//
// Functions in this package follow consistent naming patterns:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayProgress], [DisplayWorkerSummary], [DisplayMatchesWithConfig],
//     [DisplaySavedNotice].
//
//   - Format* functions return a formatted value without performing I/O.
//     Examples: [FormatMatchLine], [FormatMatchesText], [FormatMatchesJSON].
//
//   - Write* functions write data to files on the filesystem.
//     Example: [WriteMatchesToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-faster/jx"

	"github.com/agbru/hashfinder/internal/config"
	"github.com/agbru/hashfinder/internal/search"
	"github.com/agbru/hashfinder/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// Format is config.FormatText or config.FormatJSON.
	Format string
	// OutputFile is the path to save the results (empty for no file output).
	OutputFile string
}

// FormatMatchLine renders a match as `<candidate>, "<digest>"`.
func FormatMatchLine(m search.Match) string {
	return strconv.FormatUint(m.Candidate, 10) + `, "` + m.Digest + `"`
}

// FormatMatchesText renders one line per match in ascending order.
func FormatMatchesText(matches []search.Match) string {
	var b strings.Builder
	b.Grow(len(matches) * 80)
	for _, m := range matches {
		b.WriteString(FormatMatchLine(m))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatMatchesJSON renders the matches as a JSON array of
// {"candidate": ..., "digest": ...} objects.
func FormatMatchesJSON(matches []search.Match) []byte {
	var e jx.Encoder
	e.SetIdent(2)
	e.Arr(func(e *jx.Encoder) {
		for _, m := range matches {
			e.Obj(func(e *jx.Encoder) {
				e.Field("candidate", func(e *jx.Encoder) { e.UInt64(m.Candidate) })
				e.Field("digest", func(e *jx.Encoder) { e.Str(m.Digest) })
			})
		}
	})
	return append(e.Bytes(), '\n')
}

// formatMatches renders matches in the named format.
func formatMatches(matches []search.Match, outputFormat string) ([]byte, error) {
	switch outputFormat {
	case config.FormatText, "":
		return []byte(FormatMatchesText(matches)), nil
	case config.FormatJSON:
		return FormatMatchesJSON(matches), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", outputFormat)
	}
}

// WriteMatchesToFile writes the rendered matches to path, creating parent
// directories as needed.
//
// Parameters:
//   - path: The destination file.
//   - matches: The ordered matches.
//   - outputFormat: config.FormatText or config.FormatJSON.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteMatchesToFile(path string, matches []search.Match, outputFormat string) error {
	if path == "" {
		return nil
	}
	data, err := formatMatches(matches, outputFormat)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// DisplayMatchesWithConfig writes the matches to out and, if configured,
// to the output file.
//
// Parameters:
//   - out: The writer for the results.
//   - matches: The ordered matches.
//   - cfg: The output configuration.
//
// Returns:
//   - error: An error if rendering or file output fails.
func DisplayMatchesWithConfig(out io.Writer, matches []search.Match, cfg OutputConfig) error {
	data, err := formatMatches(matches, cfg.Format)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return err
	}

	if cfg.OutputFile != "" {
		return WriteMatchesToFile(cfg.OutputFile, matches, cfg.Format)
	}
	return nil
}

// DisplaySavedNotice tells the user where the results were saved.
func DisplaySavedNotice(out io.Writer, path string) {
	fmt.Fprintf(out, "%sResults saved to %s%s%s\n", ui.ColorGreen(), ui.ColorPrimary(), path, ui.ColorReset())
}
