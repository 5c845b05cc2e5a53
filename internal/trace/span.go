package trace

import (
	"bytes"
	"context"
	"path/filepath"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// nextSeq orders events across every tracer in the process.
func nextSeq() uint64 { return seqCounter.Add(1) }

func nextSpanID() uint64 { return spanCounter.Add(1) }

// goroutineID parses the header of runtime.Stack ("goroutine 7 [running]:").
// Batch workers show up as separate lanes in the chrome format.
func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b, ok := bytes.CutPrefix(b, []byte("goroutine "))
	if !ok {
		return 0
	}
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	gid, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

func emits(t Tracer, scope Scope) bool {
	return Enabled(t) && t.Level().ShouldEmit(scope)
}

// Span is an open begin/end pair. A Span whose scope the tracer filters out
// is inert; every method is safe on it and on nil.
type Span struct {
	tracer   Tracer
	id       uint64
	parent   uint64
	scope    Scope
	name     string
	script   string
	line     int
	query    string
	operands []string
	started  time.Time
	failed   bool
	extra    map[string]string
}

func (s *Span) event(kind Kind, detail string) *Event {
	return &Event{
		Time:     time.Now(),
		Seq:      nextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		GID:      goroutineID(),
		Name:     s.name,
		Detail:   detail,
		Script:   s.script,
		Line:     s.line,
		Query:    s.query,
		Operands: s.operands,
	}
}

// Start opens a span below the span in ctx and returns a context that
// carries it. When the scope is filtered out the returned context still
// carries the script, and later spans attach to the nearest emitted one.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	sc := CurrentSpan(ctx)
	s := open(ctx, &Span{scope: scope, name: name, script: sc.Script})
	if s.id != 0 {
		sc.SpanID = s.id
	}
	return withSpanContext(ctx, sc), s
}

// StartScript opens the pass span of one script. Every event below it
// names the script by its base name.
func StartScript(ctx context.Context, path string) (context.Context, *Span) {
	base := filepath.Base(path)
	ctx = withSpanContext(ctx, SpanContext{SpanID: CurrentSpan(ctx).SpanID, Script: base})
	return Start(ctx, ScopePass, "script:"+base)
}

// StartQuery opens the node span of one script statement. Queries are
// leaves, so no context is returned.
func StartQuery(ctx context.Context, line int, query string, operands []string) *Span {
	return open(ctx, &Span{
		scope:    ScopeNode,
		name:     query,
		script:   CurrentSpan(ctx).Script,
		line:     line,
		query:    query,
		operands: operands,
	})
}

func open(ctx context.Context, s *Span) *Span {
	t := FromContext(ctx)
	if !emits(t, s.scope) {
		return &Span{}
	}
	s.tracer = t
	s.id = nextSpanID()
	s.parent = CurrentSpan(ctx).SpanID
	s.started = time.Now()
	t.Emit(s.event(KindSpanBegin, ""))
	return s
}

// End closes the span and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	ev := s.event(KindSpanEnd, detail)
	ev.Failed = s.failed
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return ev.Time.Sub(s.started)
}

// Fail marks the end event as a failure. A ring dump keeps the events of
// failed scripts.
func (s *Span) Fail() *Span {
	if s != nil && s.tracer != nil {
		s.failed = true
	}
	return s
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event below the span in ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !emits(t, scope) {
		return
	}
	sc := CurrentSpan(ctx)
	p := &Span{id: nextSpanID(), parent: sc.SpanID, scope: scope, name: name, script: sc.Script}
	t.Emit(p.event(KindPoint, detail))
}
