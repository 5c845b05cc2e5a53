package trace

import (
	"io"
	"os"
	"sync"
)

// StreamTracer writes each event as it is emitted. It closes only the file
// New opened for it; a writer passed by the caller stays open.
type StreamTracer struct {
	mu      sync.Mutex
	w       io.Writer
	file    *os.File
	level   Level
	format  Format
	written int
}

// NewStreamTracer writes to w. The chrome format opens its event array
// here and closes it in Close.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatChrome {
		_, _ = io.WriteString(w, "{\"traceEvents\":[\n")
	}
	return &StreamTracer{w: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.format == FormatChrome && t.written > 0 {
		_, _ = io.WriteString(t.w, ",\n")
	}
	// a trace write error never fails a script
	_, _ = t.w.Write(data)
	t.written++
}

// Flush syncs a trace file to disk.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}
	return t.file.Sync()
}

// Close terminates the chrome array and closes the trace file.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.format == FormatChrome {
		_, _ = io.WriteString(t.w, "\n]}\n")
	}
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	return err
}

func (t *StreamTracer) Level() Level { return t.level }
