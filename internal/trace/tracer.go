package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Tracer receives events. Emit must be safe for concurrent batch workers.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
}

// Enabled reports whether t keeps any events.
func Enabled(t Tracer) bool {
	return t != nil && t.Level() > LevelOff
}

// StorageMode says where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they happen
	ModeRing                          // kept in memory, dumped when a run fails
	ModeBoth
)

var modeNames = [...]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

func (m StorageMode) String() string {
	if int(m) < len(modeNames) && modeNames[m] != "" {
		return modeNames[m]
	}
	return "unknown"
}

func ParseMode(s string) (StorageMode, error) {
	for m, name := range modeNames {
		if name != "" && strings.EqualFold(s, name) {
			return StorageMode(m), nil //nolint:gosec // index of a short table
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config is the [trace] section of reflq.toml after parsing.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format        // FormatAuto picks from OutputPath
	Output     io.Writer     // overrides OutputPath
	OutputPath string        // "-" or empty for stderr
	RingSize   int           // default 4096
	Heartbeat  time.Duration // 0 disables
}

// New builds the tracer described by cfg.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Mode == ModeRing {
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	}
	if cfg.Mode != ModeStream && cfg.Mode != ModeBoth {
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}

	format := cfg.Format.resolve(cfg.OutputPath)
	var stream *StreamTracer
	switch {
	case cfg.Output != nil:
		stream = NewStreamTracer(cfg.Output, cfg.Level, format)
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		stream = NewStreamTracer(os.Stderr, cfg.Level, format)
	default:
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open trace output: %w", err)
		}
		stream = NewStreamTracer(f, cfg.Level, format)
		stream.file = f
	}
	if cfg.Mode == ModeStream {
		return stream, nil
	}
	return tee{StreamTracer: stream, ring: NewRingTracer(cfg.RingSize, cfg.Level)}, nil
}

// tee streams every event and keeps the recent ones for a failure dump.
type tee struct {
	*StreamTracer
	ring *RingTracer
}

func (t tee) Emit(ev *Event) {
	t.StreamTracer.Emit(ev)
	t.ring.Emit(ev)
}
