// Package config loads declsym.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"declsym/internal/trace"
)

// FileName is the name searched for by Find.
const FileName = "declsym.toml"

var (
	// ErrTraceLevel reports an unknown [trace].level.
	ErrTraceLevel = errors.New("invalid [trace].level")
	// ErrTraceMode reports an unknown [trace].mode.
	ErrTraceMode = errors.New("invalid [trace].mode")
	// ErrResolve reports an invalid [resolve] value.
	ErrResolve = errors.New("invalid [resolve] value")
)

// Config is the decoded and validated declsym.toml.
type Config struct {
	Path    string // empty when defaults were used
	Trace   Trace
	Resolve Resolve
}

type Trace struct {
	Level    trace.Level
	Mode     trace.StorageMode
	Output   string
	RingSize int
}

type Resolve struct {
	MiscExtensions []string
	WarmJobs       int
}

type fileConfig struct {
	Trace   traceSection   `toml:"trace"`
	Resolve resolveSection `toml:"resolve"`
}

type traceSection struct {
	Level    string `toml:"level"`
	Mode     string `toml:"mode"`
	Output   string `toml:"output"`
	RingSize int    `toml:"ring_size"`
}

type resolveSection struct {
	MiscExtensions []string `toml:"misc_extensions"`
	WarmJobs       int      `toml:"warm_jobs"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Trace: Trace{
			Level:    trace.LevelOff,
			Mode:     trace.ModeRing,
			Output:   "-",
			RingSize: 4096,
		},
		Resolve: Resolve{
			MiscExtensions: []string{".fsx", ".fsscript"},
			WarmJobs:       4,
		},
	}
}

// TraceConfig converts the [trace] section for trace.New.
func (c Config) TraceConfig() trace.Config {
	return trace.Config{
		Level:      c.Trace.Level,
		Mode:       c.Trace.Mode,
		OutputPath: c.Trace.Output,
		RingSize:   c.Trace.RingSize,
	}
}

// Find walks up from startDir to locate declsym.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds declsym.toml above startDir and loads it, or returns
// Default when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes path. Keys that are absent keep their defaults.
func Load(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	cfg := Default()
	cfg.Path = path

	if meta.IsDefined("trace", "level") {
		lvl, err := trace.ParseLevel(raw.Trace.Level)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w: %q", path, ErrTraceLevel, raw.Trace.Level)
		}
		cfg.Trace.Level = lvl
	}
	if meta.IsDefined("trace", "mode") {
		mode, err := trace.ParseMode(raw.Trace.Mode)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w: %q", path, ErrTraceMode, raw.Trace.Mode)
		}
		cfg.Trace.Mode = mode
	}
	if meta.IsDefined("trace", "output") {
		if strings.TrimSpace(raw.Trace.Output) == "" {
			return Config{}, fmt.Errorf("%s: empty [trace].output", path)
		}
		cfg.Trace.Output = raw.Trace.Output
	}
	if meta.IsDefined("trace", "ring_size") {
		if raw.Trace.RingSize <= 0 {
			return Config{}, fmt.Errorf("%s: [trace].ring_size must be positive, got %d", path, raw.Trace.RingSize)
		}
		cfg.Trace.RingSize = raw.Trace.RingSize
	}

	if meta.IsDefined("resolve", "misc_extensions") {
		exts := make([]string, 0, len(raw.Resolve.MiscExtensions))
		for _, ext := range raw.Resolve.MiscExtensions {
			if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
				return Config{}, fmt.Errorf("%s: %w: [resolve].misc_extensions entry %q must start with a dot", path, ErrResolve, ext)
			}
			exts = append(exts, strings.ToLower(ext))
		}
		cfg.Resolve.MiscExtensions = exts
	}
	if meta.IsDefined("resolve", "warm_jobs") {
		if raw.Resolve.WarmJobs <= 0 {
			return Config{}, fmt.Errorf("%s: %w: [resolve].warm_jobs must be positive, got %d", path, ErrResolve, raw.Resolve.WarmJobs)
		}
		cfg.Resolve.WarmJobs = raw.Resolve.WarmJobs
	}
	return cfg, nil
}
