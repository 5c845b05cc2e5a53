// Package trace records what reflq did and how long it took.
//
// Tracing is enabled from the command line:
//
//	reflq query widgets.toml probe.rq --trace=- --trace-level=query
//
// # Tracers
//
//   - Nop: the disabled tracer, free to call
//   - StreamTracer: writes every event as it happens
//   - RingTracer: keeps the most recent events for a dump when a run fails
//
// Mode "both" streams and keeps a ring at once.
//
// # Levels and scopes
//
//   - script: ScopeDriver (a run or batch) and ScopePass (one script)
//   - load: adds ScopeModule (manifest loading, cache access)
//   - query: adds ScopeNode (one span per evaluated statement)
//
// # Spans
//
// Spans nest through the context. A pass span names its script, and every
// event below it carries that name; query spans also carry the statement
// line and operands.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, pass := trace.StartScript(ctx, "probe.rq")
//	q := trace.StartQuery(ctx, 3, "is_class", []string{"type:N::Widget"})
//	q.End("true")
//	pass.End("ok")
package trace
