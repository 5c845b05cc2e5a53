package trace

import (
	"fmt"
	"strings"
)

// Level is how deep a trace goes. Each level keeps the scopes of the one
// before it and adds the next.
type Level uint8

const (
	LevelOff    Level = iota
	LevelScript       // runs, batches and scripts
	LevelLoad         // manifest loads and cache access
	LevelQuery        // every query
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelScript: "script",
	LevelLoad:   "load",
	LevelQuery:  "query",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names printed by String, in any case. The empty
// string is LevelOff.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(l), nil //nolint:gosec // index of a short table
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope are kept at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelScript:
		return scope <= ScopePass
	case LevelLoad:
		return scope <= ScopeModule
	case LevelQuery:
		return scope <= ScopeNode
	}
	return false
}
