// Package config loads reflq.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"reflq/internal/reflection"
	"reflq/internal/trace"
)

// FileName is the configuration file searched for by Find.
const FileName = "reflq.toml"

type Config struct {
	// Path of the file the values came from; empty for defaults.
	Path string `toml:"-"`

	Engine Engine `toml:"engine"`
	Trace  Trace  `toml:"trace"`
	Batch  Batch  `toml:"batch"`
}

type Engine struct {
	MaxDiagnostics int    `toml:"max_diagnostics"`
	DisplayNames   string `toml:"display_names"` // plain | qualified
}

type Trace struct {
	Level    string `toml:"level"`
	Mode     string `toml:"mode"`
	Format   string `toml:"format"`
	Output   string `toml:"output"`
	RingSize int    `toml:"ring_size"`
}

type Batch struct {
	Jobs      int    `toml:"jobs"` // 0 means GOMAXPROCS
	DiskCache bool   `toml:"disk_cache"`
	CacheDir  string `toml:"cache_dir"`
	UI        string `toml:"ui"` // auto | on | off
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Engine: Engine{MaxDiagnostics: 100, DisplayNames: "plain"},
		Trace:  Trace{Level: "off", Mode: "stream", Format: "auto", Output: "-", RingSize: 4096},
		Batch:  Batch{UI: "auto"},
	}
}

// Find walks up from startDir to locate reflq.toml.
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

// Discover loads the nearest reflq.toml above startDir, or the defaults.
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

// Load decodes path over the defaults. Keys the file leaves out keep their
// default values; unknown keys are errors.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if meta.IsDefined("batch", "cache_dir") && strings.TrimSpace(cfg.Batch.CacheDir) == "" {
		return Config{}, fmt.Errorf("%s: [batch].cache_dir is empty", path)
	}
	if meta.IsDefined("batch", "cache_dir") && !filepath.IsAbs(cfg.Batch.CacheDir) {
		cfg.Batch.CacheDir = filepath.Join(filepath.Dir(path), cfg.Batch.CacheDir)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated values and ranges.
func (c Config) Validate() error {
	if c.Engine.MaxDiagnostics < 0 {
		return fmt.Errorf("[engine].max_diagnostics must not be negative")
	}
	switch c.Engine.DisplayNames {
	case "plain", "qualified":
	default:
		return fmt.Errorf("[engine].display_names: invalid value %q (expected: plain|qualified)", c.Engine.DisplayNames)
	}
	if _, err := c.Trace.TracerConfig(); err != nil {
		return fmt.Errorf("[trace]: %w", err)
	}
	if c.Batch.Jobs < 0 {
		return fmt.Errorf("[batch].jobs must not be negative")
	}
	switch c.Batch.UI {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("[batch].ui: invalid value %q (expected: auto|on|off)", c.Batch.UI)
	}
	return nil
}

// Options maps the engine section to evaluation options.
func (e Engine) Options() reflection.Options {
	return reflection.Options{QualifiedDisplayNames: e.DisplayNames == "qualified"}
}

// TracerConfig converts the trace section for trace.New.
func (t Trace) TracerConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(t.Level)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(t.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	format, err := trace.ParseFormat(t.Format)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: t.Output,
		RingSize:   t.RingSize,
	}, nil
}
