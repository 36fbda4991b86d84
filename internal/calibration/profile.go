package calibration

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-faster/jx"
)

// CurrentProfileVersion is bumped whenever the profile layout changes.
const CurrentProfileVersion = 1

// DefaultProfileFileName is the name of the cached profile in the user's
// home directory.
const DefaultProfileFileName = ".hashfinder_calibration.json"

// CalibrationProfile is the cached calibration of one host.
type CalibrationProfile struct {
	NumCPU    int
	GOARCH    string
	GOOS      string
	GoVersion string
	WordSize  int

	// HashRate is the measured single-worker rate in candidates per second.
	HashRate float64
	// CheckInterval is the tuned number of candidates between checkpoints.
	CheckInterval uint64
	// TargetLatency is the checkpoint spacing the interval was derived for.
	TargetLatency time.Duration

	CalibratedAt   time.Time
	ProfileVersion int
}

// NewProfile creates an empty profile describing the current host.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
		CalibratedAt:   time.Now(),
		ProfileVersion: CurrentProfileVersion,
	}
}

// IsValid reports whether the profile was recorded on a host like this one
// with the current layout.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.WordSize == 32<<(^uint(0)>>63)
}

// IsStale reports whether the profile is older than maxAge. A nil profile is
// always stale.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String summarizes the profile on one line.
func (p *CalibrationProfile) String() string {
	return fmt.Sprintf("%d CPUs %s/%s, %.0f H/s per worker, check interval %d (target %s), calibrated %s",
		p.NumCPU, p.GOOS, p.GOARCH, p.HashRate, p.CheckInterval, p.TargetLatency,
		p.CalibratedAt.Format(time.RFC3339))
}

// Encode writes the profile as a JSON object.
func (p *CalibrationProfile) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("profile_version", func(e *jx.Encoder) { e.Int(p.ProfileVersion) })
		e.Field("num_cpu", func(e *jx.Encoder) { e.Int(p.NumCPU) })
		e.Field("goarch", func(e *jx.Encoder) { e.Str(p.GOARCH) })
		e.Field("goos", func(e *jx.Encoder) { e.Str(p.GOOS) })
		e.Field("go_version", func(e *jx.Encoder) { e.Str(p.GoVersion) })
		e.Field("word_size", func(e *jx.Encoder) { e.Int(p.WordSize) })
		e.Field("hash_rate", func(e *jx.Encoder) { e.Float64(p.HashRate) })
		e.Field("check_interval", func(e *jx.Encoder) { e.UInt64(p.CheckInterval) })
		e.Field("target_latency", func(e *jx.Encoder) { e.Str(p.TargetLatency.String()) })
		e.Field("calibrated_at", func(e *jx.Encoder) { e.Str(p.CalibratedAt.Format(time.RFC3339Nano)) })
	})
}

// Decode reads a profile written by Encode. Unknown fields are skipped.
func (p *CalibrationProfile) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "profile_version":
			p.ProfileVersion, err = d.Int()
		case "num_cpu":
			p.NumCPU, err = d.Int()
		case "goarch":
			p.GOARCH, err = d.Str()
		case "goos":
			p.GOOS, err = d.Str()
		case "go_version":
			p.GoVersion, err = d.Str()
		case "word_size":
			p.WordSize, err = d.Int()
		case "hash_rate":
			p.HashRate, err = d.Float64()
		case "check_interval":
			p.CheckInterval, err = d.UInt64()
		case "target_latency":
			var s string
			if s, err = d.Str(); err == nil {
				p.TargetLatency, err = time.ParseDuration(s)
			}
		case "calibrated_at":
			var s string
			if s, err = d.Str(); err == nil {
				p.CalibratedAt, err = time.Parse(time.RFC3339Nano, s)
			}
		default:
			err = d.Skip()
		}
		return err
	})
}

// SaveProfile writes the profile to path, creating parent directories.
func (p *CalibrationProfile) SaveProfile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create profile directory: %w", err)
		}
	}
	var e jx.Encoder
	e.SetIdent(2)
	p.Encode(&e)
	if err := os.WriteFile(path, append(e.Bytes(), '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	p := &CalibrationProfile{}
	if err := p.Decode(jx.DecodeBytes(data)); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return p, nil
}

// LoadOrCreateProfile loads the profile at path. It reports false and returns
// a fresh profile when the file is missing, unreadable or from another host.
func LoadOrCreateProfile(path string) (*CalibrationProfile, bool) {
	p, err := loadProfile(path)
	if err != nil || !p.IsValid() {
		return NewProfile(), false
	}
	return p, true
}

// LoadCachedProfile returns a valid, calibrated profile at path that is
// younger than maxAge.
func LoadCachedProfile(path string, maxAge time.Duration) (*CalibrationProfile, bool) {
	p, ok := LoadOrCreateProfile(path)
	if !ok || p.CheckInterval == 0 || p.IsStale(maxAge) {
		return nil, false
	}
	return p, true
}

// GetDefaultProfilePath returns the profile location in the user's home
// directory, or in the temporary directory when there is no home.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.TempDir()
	}
	return filepath.Join(home, DefaultProfileFileName)
}
