package trace

import (
	"strconv"
	"time"
)

// Kind is the shape of an event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is what an event covers. Scopes are ordered from a whole run down
// to a single query; a Level keeps a prefix of them.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // a CLI run or a batch
	ScopePass                    // one script against one manifest
	ScopeModule                  // manifest loading, cache access
	ScopeNode                    // a single query
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopePass:   "pass",
	ScopeModule: "module",
	ScopeNode:   "node",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record. Events emitted inside a pass carry the
// script's base name; query events also carry the statement line, the
// query and its operands as written.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	GID      uint64 // goroutine, one lane per batch worker
	Name     string // "batch", "script:probe.rq", "manifest", "is_class"
	Detail   string
	Script   string
	Line     int
	Query    string
	Operands []string
	Failed   bool // set on the end event of a failed script or query
	Extra    map[string]string
}

// Location is "script:line" for query events, the script name for other
// events inside a pass and empty outside one.
func (e *Event) Location() string {
	if e.Script == "" || e.Line <= 0 {
		return e.Script
	}
	return e.Script + ":" + strconv.Itoa(e.Line)
}
