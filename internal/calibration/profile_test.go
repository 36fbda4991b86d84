package calibration

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestNewProfile(t *testing.T) {
	t.Parallel()
	profile := NewProfile()

	if profile.NumCPU != runtime.NumCPU() {
		t.Errorf("NumCPU = %d, want %d", profile.NumCPU, runtime.NumCPU())
	}
	if profile.GOARCH != runtime.GOARCH {
		t.Errorf("GOARCH = %s, want %s", profile.GOARCH, runtime.GOARCH)
	}
	if profile.GOOS != runtime.GOOS {
		t.Errorf("GOOS = %s, want %s", profile.GOOS, runtime.GOOS)
	}
	if profile.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %s, want %s", profile.GoVersion, runtime.Version())
	}
	if profile.ProfileVersion != CurrentProfileVersion {
		t.Errorf("ProfileVersion = %d, want %d", profile.ProfileVersion, CurrentProfileVersion)
	}
	expectedWordSize := 32 << (^uint(0) >> 63)
	if profile.WordSize != expectedWordSize {
		t.Errorf("WordSize = %d, want %d", profile.WordSize, expectedWordSize)
	}
	if profile.CalibratedAt.IsZero() {
		t.Error("CalibratedAt is zero")
	}
}

func TestProfileSaveLoad(t *testing.T) {
	t.Parallel()
	profilePath := filepath.Join(t.TempDir(), "nested", "profile.json")

	original := NewProfile()
	original.HashRate = 2_345_678.5
	original.CheckInterval = 4096
	original.TargetLatency = 2 * time.Millisecond

	if err := original.SaveProfile(profilePath); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	loaded, err := loadProfile(profilePath)
	if err != nil {
		t.Fatalf("loadProfile failed: %v", err)
	}
	if loaded.CheckInterval != original.CheckInterval {
		t.Errorf("CheckInterval = %d, want %d", loaded.CheckInterval, original.CheckInterval)
	}
	if loaded.HashRate != original.HashRate {
		t.Errorf("HashRate = %v, want %v", loaded.HashRate, original.HashRate)
	}
	if loaded.TargetLatency != original.TargetLatency {
		t.Errorf("TargetLatency = %v, want %v", loaded.TargetLatency, original.TargetLatency)
	}
	if !loaded.CalibratedAt.Equal(original.CalibratedAt) {
		t.Errorf("CalibratedAt = %v, want %v", loaded.CalibratedAt, original.CalibratedAt)
	}
	if loaded.NumCPU != original.NumCPU || loaded.GOOS != original.GOOS {
		t.Errorf("host fields not restored: %+v", loaded)
	}
}

func TestLoadProfile_SkipsUnknownFields(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")
	data := `{"profile_version": 1, "future_field": {"a": [1, 2]}, "check_interval": 512}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := loadProfile(path)
	if err != nil {
		t.Fatalf("loadProfile failed: %v", err)
	}
	if p.CheckInterval != 512 {
		t.Errorf("CheckInterval = %d, want 512", p.CheckInterval)
	}
}

func TestProfileIsValid(t *testing.T) {
	t.Parallel()
	if !NewProfile().IsValid() {
		t.Error("a profile of this host should be valid")
	}

	tests := []struct {
		name   string
		mutate func(*CalibrationProfile)
	}{
		{"wrong CPU count", func(p *CalibrationProfile) { p.NumCPU = 999 }},
		{"wrong architecture", func(p *CalibrationProfile) { p.GOARCH = "invalid_arch" }},
		{"wrong word size", func(p *CalibrationProfile) { p.WordSize = 16 }},
		{"wrong version", func(p *CalibrationProfile) { p.ProfileVersion = 999 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewProfile()
			tt.mutate(p)
			if p.IsValid() {
				t.Error("expected profile to be invalid")
			}
		})
	}

	var nilProfile *CalibrationProfile
	if nilProfile.IsValid() {
		t.Error("expected nil profile to be invalid")
	}
}

func TestProfileIsStale(t *testing.T) {
	t.Parallel()
	profile := NewProfile()
	if profile.IsStale(time.Hour) {
		t.Error("expected fresh profile to not be stale")
	}

	profile.CalibratedAt = time.Now().Add(-2 * time.Hour)
	if !profile.IsStale(time.Hour) {
		t.Error("expected old profile to be stale")
	}

	var nilProfile *CalibrationProfile
	if !nilProfile.IsStale(time.Hour) {
		t.Error("expected nil profile to be stale")
	}
}

func TestProfileString(t *testing.T) {
	t.Parallel()
	profile := NewProfile()
	profile.HashRate = 1_000_000
	profile.CheckInterval = 2048
	profile.TargetLatency = 2 * time.Millisecond

	str := profile.String()
	for _, want := range []string{"check interval 2048", "target 2ms", runtime.GOARCH} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %q, missing %q", str, want)
		}
	}
}

func TestLoadNonExistentProfile(t *testing.T) {
	t.Parallel()
	if _, err := loadProfile("/nonexistent/path/to/profile.json"); err == nil {
		t.Error("expected error loading nonexistent profile")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	t.Parallel()
	invalidPath := filepath.Join(t.TempDir(), "invalid.json")
	if err := os.WriteFile(invalidPath, []byte("not valid json"), 0o644); err != nil {
		t.Fatalf("failed to write invalid file: %v", err)
	}
	if _, err := loadProfile(invalidPath); err == nil {
		t.Error("expected error loading invalid JSON")
	}
}

func TestLoadOrCreateProfile(t *testing.T) {
	t.Parallel()
	profilePath := filepath.Join(t.TempDir(), "profile.json")

	profile, loaded := LoadOrCreateProfile(profilePath)
	if loaded {
		t.Error("expected loaded to be false for nonexistent file")
	}

	profile.CheckInterval = 8192
	if err := profile.SaveProfile(profilePath); err != nil {
		t.Fatalf("failed to save profile: %v", err)
	}

	profile2, loaded2 := LoadOrCreateProfile(profilePath)
	if !loaded2 {
		t.Error("expected loaded to be true for existing file")
	}
	if profile2.CheckInterval != 8192 {
		t.Errorf("loaded profile has wrong interval: %d", profile2.CheckInterval)
	}
}

func TestLoadCachedProfile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	uncalibrated := filepath.Join(dir, "uncalibrated.json")
	if err := NewProfile().SaveProfile(uncalibrated); err != nil {
		t.Fatal(err)
	}
	if _, ok := LoadCachedProfile(uncalibrated, time.Hour); ok {
		t.Error("a profile without an interval should not be used")
	}

	stale := NewProfile()
	stale.CheckInterval = 1024
	stale.CalibratedAt = time.Now().Add(-48 * time.Hour)
	stalePath := filepath.Join(dir, "stale.json")
	if err := stale.SaveProfile(stalePath); err != nil {
		t.Fatal(err)
	}
	if _, ok := LoadCachedProfile(stalePath, time.Hour); ok {
		t.Error("a stale profile should not be used")
	}
	if p, ok := LoadCachedProfile(stalePath, 72*time.Hour); !ok || p.CheckInterval != 1024 {
		t.Errorf("LoadCachedProfile() = %v, %v", p, ok)
	}
}

func TestGetDefaultProfilePath(t *testing.T) {
	t.Parallel()
	path := GetDefaultProfilePath()
	if filepath.Base(path) != DefaultProfileFileName {
		t.Errorf("path %s doesn't end with %s", path, DefaultProfileFileName)
	}
}
