package calibration

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/agbru/hashfinder/internal/ui"
)

func TestIntervalFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		rate    float64
		latency time.Duration
		want    uint64
	}{
		{"slow host clamps to minimum", 1000, time.Millisecond, MinCheckInterval},
		{"zero rate", 0, time.Millisecond, MinCheckInterval},
		{"just above a power of two", 1_030_000, time.Millisecond, 1024},
		{"rounds down", 3_000_000, time.Millisecond, 2048},
		{"fast host clamps to maximum", 1e12, time.Second, MaxCheckInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IntervalFor(tt.rate, tt.latency); got != tt.want {
				t.Errorf("IntervalFor(%v, %v) = %d, want %d", tt.rate, tt.latency, got, tt.want)
			}
		})
	}
}

func TestIntervalFor_PowerOfTwoAndMonotonic(t *testing.T) {
	t.Parallel()
	prev := uint64(0)
	for _, latency := range Latencies {
		got := IntervalFor(5e6, latency)
		if got&(got-1) != 0 {
			t.Errorf("IntervalFor(5e6, %v) = %d is not a power of two", latency, got)
		}
		if got < prev {
			t.Errorf("interval decreased from %d to %d at %v", prev, got, latency)
		}
		prev = got
	}
}

func TestMeasureHashRate(t *testing.T) {
	t.Parallel()
	rate, err := MeasureHashRate(context.Background(), 20*time.Millisecond)
	if err != nil {
		t.Fatalf("MeasureHashRate failed: %v", err)
	}
	if rate <= 0 {
		t.Errorf("rate = %v, want > 0", rate)
	}
}

func TestMeasureHashRate_Canceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := MeasureHashRate(ctx, time.Hour); err == nil {
		t.Error("expected an error for a canceled context")
	}
}

func TestCalibrate(t *testing.T) {
	t.Parallel()
	p, err := Calibrate(context.Background(), 20*time.Millisecond, DefaultTargetLatency)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	if p.CheckInterval != IntervalFor(p.HashRate, DefaultTargetLatency) {
		t.Errorf("CheckInterval = %d does not match the measured rate", p.CheckInterval)
	}
	if !p.IsValid() {
		t.Error("a fresh calibration should be valid")
	}
}

func TestPrintCalibrationResults(t *testing.T) {
	original := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(original) })

	p := NewProfile()
	p.HashRate = 4_100_000
	p.TargetLatency = DefaultTargetLatency
	p.CheckInterval = IntervalFor(p.HashRate, p.TargetLatency)

	var buf bytes.Buffer
	PrintCalibrationResults(&buf, p)
	PrintCalibrationOutput(&buf, p, "/tmp/profile.json")

	out := buf.String()
	for _, want := range []string{"Calibration Summary", "4.1 MH/s", "8,192", "recommended", "check interval 8192 in /tmp/profile.json"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
