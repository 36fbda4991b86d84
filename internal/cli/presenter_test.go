package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/hashfinder/internal/config"
	apperrors "github.com/agbru/hashfinder/internal/errors"
	"github.com/agbru/hashfinder/internal/orchestration"
	"github.com/agbru/hashfinder/internal/search"
	"github.com/agbru/hashfinder/internal/ui"
)

func withoutColors(t *testing.T) {
	t.Helper()
	original := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(original) })
}

func TestCLIResultPresenter_PresentMatches(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	opts := orchestration.PresentationOptions{Format: config.FormatText}
	if err := (CLIResultPresenter{}).PresentMatches(sampleMatches(), opts, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != FormatMatchesText(sampleMatches()) {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestDisplayWorkerSummary(t *testing.T) {
	withoutColors(t)

	outcome := orchestration.SearchOutcome{
		Params: search.Params{ZeroCount: 1, ResultCount: 2},
		Result: search.Result{
			Matches: sampleMatches(),
			Workers: []search.WorkerStats{
				{Index: 0, Scanned: 1200, Matches: 1, Duration: 2 * time.Millisecond},
				{Index: 1, Scanned: 1100, Matches: 1, Duration: 2 * time.Millisecond, Exhausted: true},
			},
			Duration: 3 * time.Millisecond,
		},
		Duration: 4 * time.Millisecond,
	}

	var buf bytes.Buffer
	(CLIResultPresenter{}).PresentSummary(outcome, &buf)
	output := buf.String()

	for _, want := range []string{"Worker Summary", "SCANNED", "1,200", "1,100", "true", "Found 2 of 2 matches", "2,300 candidates"} {
		if !strings.Contains(strings.ToUpper(output), strings.ToUpper(want)) {
			t.Errorf("summary should contain %q, got:\n%s", want, output)
		}
	}
}

func TestCLIResultPresenter_HandleError(t *testing.T) {
	withoutColors(t)

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"timeout", context.DeadlineExceeded, apperrors.ExitErrorTimeout},
		{"canceled", context.Canceled, apperrors.ExitErrorCanceled},
		{"worker", apperrors.WorkerError{Worker: 1, Cause: errors.New("boom")}, apperrors.ExitErrorWorker},
		{"generic", errors.New("disk full"), apperrors.ExitErrorGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if code := (CLIResultPresenter{}).HandleError(tt.err, time.Second, &buf); code != tt.wantCode {
				t.Errorf("HandleError() = %d, want %d", code, tt.wantCode)
			}
			if buf.Len() == 0 {
				t.Error("an error message should be written")
			}
		})
	}
}

func TestCLIColorProvider(t *testing.T) {
	original := ui.GetCurrentTheme()
	t.Cleanup(func() { ui.SetCurrentTheme(original) })

	ui.SetCurrentTheme(ui.DarkTheme)
	var p apperrors.ColorProvider = CLIColorProvider{}
	if p.Red() != ui.DarkTheme.Error || p.Yellow() != ui.DarkTheme.Warning || p.Reset() != ui.DarkTheme.Reset {
		t.Error("CLIColorProvider should follow the active theme")
	}
}

func TestPrintExecutionConfig(t *testing.T) {
	withoutColors(t)

	cfg := config.Default()
	cfg.ZeroCount = 3
	cfg.ResultCount = 6
	cfg.Timeout = time.Minute

	var buf bytes.Buffer
	PrintExecutionConfig(cfg, 4, &buf)
	output := buf.String()

	for _, want := range []string{"Searching 6 digests ending with 3 zeros", "Workers: 4", "timeout: 1m0s", "hashing"} {
		if !strings.Contains(output, want) {
			t.Errorf("banner should contain %q, got:\n%s", want, output)
		}
	}
}

func TestHashAcceleration(t *testing.T) {
	t.Parallel()
	if hashAcceleration() == "" {
		t.Error("hashAcceleration should always name a mode")
	}
}
