package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the most recent events in memory for a dump when a run
// fails.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	next   int
	full   bool
	level  Level
}

// NewRingTracer keeps the last capacity events (4096 when not positive).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[t.next] = *ev
	t.next++
	if t.next == len(t.events) {
		t.next, t.full = 0, true
	}
}

// Snapshot copies the buffered events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		return append([]Event(nil), t.events[:t.next]...)
	}
	out := make([]Event, 0, len(t.events))
	out = append(out, t.events[t.next:]...)
	return append(out, t.events[:t.next]...)
}

// Dump writes the buffered events. When a script span in the buffer ended
// failed, events of the scripts that passed are left out; events outside
// any script are always written.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	failed := failedScripts(events)
	for i := range events {
		ev := &events[i]
		if len(failed) > 0 && ev.Script != "" && !failed[ev.Script] {
			continue
		}
		if _, err := w.Write(FormatEvent(ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func failedScripts(events []Event) map[string]bool {
	var failed map[string]bool
	for i := range events {
		ev := &events[i]
		if ev.Kind == KindSpanEnd && ev.Scope == ScopePass && ev.Failed {
			if failed == nil {
				failed = make(map[string]bool)
			}
			failed[ev.Script] = true
		}
	}
	return failed
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
func (t *RingTracer) Level() Level { return t.level }

// DumpRing writes the ring buffer kept by t, if any, and reports whether
// there was one.
func DumpRing(t Tracer, w io.Writer, format Format) (bool, error) {
	switch rt := t.(type) {
	case *RingTracer:
		return true, rt.Dump(w, format)
	case tee:
		return true, rt.ring.Dump(w, format)
	}
	return false, nil
}
