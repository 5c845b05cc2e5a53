package diag

import "reflq/internal/source"

type reportKey struct {
	code Code
	span source.Span
	msg  string
}

// DedupReporter drops repeated diagnostics before they reach next. Exact
// repeats are dropped in every domain. Reflection engine failures are
// reported at the span of the script statement being evaluated, so beyond
// that a statement keeps only its first REF diagnostic. Engine diagnostics
// without a location are compared exactly.
type DedupReporter struct {
	next       Reporter
	seen       map[reportKey]struct{}
	statements map[source.Span]struct{}
	suppressed int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next:       next,
		seen:       make(map[reportKey]struct{}),
		statements: make(map[source.Span]struct{}),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := reportKey{code: code, span: primary, msg: msg}
	if _, dup := r.seen[key]; dup {
		r.suppressed++
		return
	}
	if code.Domain() == DomainReflection && primary != source.NoSpan {
		if _, dup := r.statements[primary]; dup {
			r.suppressed++
			return
		}
		r.statements[primary] = struct{}{}
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}

// Suppressed counts the diagnostics dropped so far.
func (r *DedupReporter) Suppressed() int {
	if r == nil {
		return 0
	}
	return r.suppressed
}
