package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	if got := tm.Report(); got.TotalMS != 0 || got.Phases != nil {
		t.Fatalf("empty timer report = %+v", got)
	}

	a := tm.Begin("load")
	b := tm.Begin("query")
	tm.End(b, "3 failed")
	tm.End(a, "")
	tm.End(42, "ignored")

	tm.phases[a].Dur = 2 * time.Millisecond
	tm.phases[b].Dur = 500 * time.Microsecond

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(r.Phases))
	}
	if r.Phases[0].Name != "load" || r.Phases[1].Name != "query" {
		t.Fatalf("phase order = %q, %q", r.Phases[0].Name, r.Phases[1].Name)
	}
	if r.Phases[1].Note != "3 failed" {
		t.Errorf("note = %q", r.Phases[1].Note)
	}
	if r.TotalMS != 2.5 {
		t.Errorf("total = %v, want 2.5", r.TotalMS)
	}
}

func TestTimerSummary(t *testing.T) {
	tm := NewTimer()
	tm.End(tm.Begin("parse"), "12 statement(s)")
	s := tm.Summary()
	for _, want := range []string{"timings:\n", "parse", "// 12 statement(s)", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary %q lacks %q", s, want)
		}
	}
}
