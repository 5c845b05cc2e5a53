// Package driver runs query scripts against manifests, alone or in batches.
package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"reflq/internal/diag"
	"reflq/internal/manifest"
	"reflq/internal/observ"
	"reflq/internal/pipeline"
	"reflq/internal/reflection"
	"reflq/internal/script"
	"reflq/internal/source"
	"reflq/internal/trace"
)

// Options configures a run.
type Options struct {
	MaxDiagnostics int
	Engine         reflection.Options
	Cache          *DiskCache // nil disables caching
	Sink           pipeline.ProgressSink
	Timings        bool // record an ObsTimings diagnostic
	BaseDir        string
}

// Result is everything one script run produced.
type Result struct {
	ManifestPath string
	ScriptPath   string
	// Manifest is nil when loading failed or the run was served from cache.
	Manifest *manifest.Manifest
	FileSet  *source.FileSet
	Bag      *diag.Bag
	Outcomes []script.Outcome
	Status   pipeline.Status
	Cached   bool
	Failed   int // outcomes with an error
	Timings  pipeline.Timings
}

// OK reports whether the run completed without errors and every query
// succeeded.
func (r *Result) OK() bool {
	return r.Status != pipeline.StatusError && r.Failed == 0 && !r.Bag.HasErrors()
}

// RunScript evaluates scriptPath against the manifest at manifestPath. The
// manifest is loaded first, so its file ID is 0 and the script's is 1.
// Problems with either file are diagnostics in the result; the error is
// non-nil only when ctx ends the run early.
func RunScript(ctx context.Context, manifestPath, scriptPath string, opts Options) (*Result, error) {
	ctx, span := trace.StartScript(ctx, scriptPath)

	res := &Result{
		ManifestPath: manifestPath,
		ScriptPath:   scriptPath,
		FileSet:      source.NewFileSetWithBase(opts.BaseDir),
		Bag:          diag.NewBag(opts.MaxDiagnostics),
		Status:       pipeline.StatusWorking,
	}
	r := &run{ctx: ctx, res: res, opts: opts, timer: observ.NewTimer()}
	r.reporter = diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})

	err := r.execute()
	if err != nil && res.Status == pipeline.StatusWorking {
		res.Status = pipeline.StatusError
	}
	if opts.Timings {
		report := r.timer.Report()
		appendTimingDiagnostic(res.Bag, timingPayload{
			Kind:    "script",
			Path:    scriptPath,
			TotalMS: report.TotalMS,
			Phases:  report.Phases,
		})
	}
	if !res.OK() {
		span.Fail()
	}
	if n := r.reporter.Suppressed(); n > 0 {
		span.WithExtra("suppressed", strconv.Itoa(n))
	}
	span.WithExtra("outcomes", strconv.Itoa(len(res.Outcomes))).
		WithExtra("failed", strconv.Itoa(res.Failed)).
		End(string(res.Status))
	r.emit(stageFor(res.Status), res.Status, err, res.Timings.Sum())
	return res, err
}

type run struct {
	ctx      context.Context
	res      *Result
	opts     Options
	timer    *observ.Timer
	reporter *diag.DedupReporter
}

func (r *run) execute() error {
	manifestFile, ok := r.read(r.res.ManifestPath, "manifest")
	if !ok {
		return nil
	}
	scriptFile, ok := r.read(r.res.ScriptPath, "script")
	if !ok {
		return nil
	}
	if err := r.ctx.Err(); err != nil {
		return err
	}

	key := r.cacheKey(manifestFile, scriptFile)
	if r.probe(key) {
		return nil
	}

	m, ok := r.loadManifest(manifestFile)
	if !ok {
		return nil
	}
	r.res.Manifest = m

	parsed := r.parse(scriptFile)
	if parsed.Errors > 0 {
		r.res.Status = pipeline.StatusError
	}

	if err := r.query(m, parsed); err != nil {
		return err
	}
	if r.res.Status == pipeline.StatusWorking {
		r.res.Status = pipeline.StatusDone
		r.store(key)
	}
	return nil
}

func (r *run) read(path, what string) (source.FileID, bool) {
	idx := r.timer.Begin("read " + what)
	file, err := r.res.FileSet.Load(path)
	r.timer.End(idx, "")
	if err != nil {
		diag.ReportError(r.reporter, diag.IOLoadFileError, source.NoSpan,
			fmt.Sprintf("failed to read %s %s: %v", what, path, err)).Emit()
		r.res.Status = pipeline.StatusError
		return 0, false
	}
	return file, true
}

// cacheKey covers both files and every option that changes the output.
func (r *run) cacheKey(manifestFile, scriptFile source.FileID) Digest {
	m := r.res.FileSet.Get(manifestFile)
	s := r.res.FileSet.Get(scriptFile)
	opts := fmt.Sprintf("schema=%d;qualified=%t;max=%d;base=%s",
		diskCacheSchemaVersion, r.opts.Engine.QualifiedDisplayNames, r.res.Bag.Cap(), r.opts.BaseDir)
	return Combine(Digest(m.Hash), s.Hash[:], []byte(filepath.Ext(m.Path)), []byte(opts))
}

func (r *run) probe(key Digest) bool {
	if r.opts.Cache == nil {
		return false
	}
	r.emit(pipeline.StageCache, pipeline.StatusWorking, nil, 0)
	_, span := trace.Start(r.ctx, trace.ScopeModule, "cache")
	idx := r.timer.Begin("cache")
	start := time.Now()

	var payload DiskPayload
	hit, err := r.opts.Cache.Get(key, &payload)
	if hit && (payload.Manifest != r.res.ManifestPath || payload.Script != r.res.ScriptPath) {
		hit = false
	}
	r.res.Timings.Add(pipeline.StageCache, time.Since(start))
	note := "miss"
	switch {
	case err != nil:
		note = "error: " + err.Error()
	case hit:
		note = "hit"
	}
	r.timer.End(idx, note)
	span.WithExtra("key", key.String()[:12]).End(note)
	if !hit {
		return false
	}

	r.res.Outcomes = payload.Outcomes
	r.res.Failed = payload.Failed
	for i := range payload.Diagnostics {
		r.res.Bag.Add(&payload.Diagnostics[i])
	}
	r.res.Cached = true
	r.res.Status = pipeline.StatusCached
	return true
}

func (r *run) store(key Digest) {
	if r.opts.Cache == nil {
		return
	}
	payload := &DiskPayload{
		Manifest: r.res.ManifestPath,
		Script:   r.res.ScriptPath,
		Outcomes: r.res.Outcomes,
		Failed:   r.res.Failed,
	}
	for _, d := range r.res.Bag.Items() {
		payload.Diagnostics = append(payload.Diagnostics, *d)
	}
	if err := r.opts.Cache.Put(key, payload); err != nil {
		trace.Point(r.ctx, trace.ScopeModule, "cache", "store failed: "+err.Error())
	}
}

func (r *run) loadManifest(file source.FileID) (*manifest.Manifest, bool) {
	r.emit(pipeline.StageLoad, pipeline.StatusWorking, nil, 0)
	_, span := trace.Start(r.ctx, trace.ScopeModule, "manifest")
	idx := r.timer.Begin("manifest")
	start := time.Now()

	format, err := manifest.FormatOf(r.res.ManifestPath)
	var m *manifest.Manifest
	if err == nil {
		m, err = manifest.FromFile(r.res.FileSet, file, format, r.reporter)
	} else {
		diag.ReportError(r.reporter, diag.ManParseError, source.NoSpan, err.Error()).
			WithNote(source.NoSpan, "manifests use the .toml, .yaml or .yml extension").
			Emit()
	}

	elapsed := time.Since(start)
	r.res.Timings.Add(pipeline.StageLoad, elapsed)
	if err != nil {
		r.timer.End(idx, "invalid")
		span.End(err.Error())
		r.res.Status = pipeline.StatusError
		return nil, false
	}
	r.timer.End(idx, m.Name)
	span.WithExtra("format", m.Format.String()).End(m.Name)
	return m, true
}

func (r *run) parse(file source.FileID) *script.Script {
	r.emit(pipeline.StageParse, pipeline.StatusWorking, nil, 0)
	idx := r.timer.Begin("parse")
	start := time.Now()
	s := script.Parse(r.res.FileSet, file, r.reporter)
	r.res.Timings.Add(pipeline.StageParse, time.Since(start))
	r.timer.End(idx, fmt.Sprintf("%d statement(s)", len(s.Statements)))
	return s
}

func (r *run) query(m *manifest.Manifest, s *script.Script) error {
	r.emit(pipeline.StageQuery, pipeline.StatusWorking, nil, 0)
	idx := r.timer.Begin("query")
	start := time.Now()
	runner := &script.Runner{Program: m.Program, Reporter: r.reporter, Options: r.opts.Engine}
	outcomes, err := runner.Run(r.ctx, s)
	r.res.Timings.Add(pipeline.StageQuery, time.Since(start))
	r.res.Outcomes = outcomes
	for _, o := range outcomes {
		if o.Failed() {
			r.res.Failed++
		}
	}
	r.timer.End(idx, fmt.Sprintf("%d failed", r.res.Failed))
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		r.res.Status = pipeline.StatusError
	}
	return err
}

func (r *run) emit(stage pipeline.Stage, status pipeline.Status, err error, elapsed time.Duration) {
	pipeline.Emit(r.opts.Sink, pipeline.Event{
		File:    r.res.ScriptPath,
		Stage:   stage,
		Status:  status,
		Err:     err,
		Elapsed: elapsed,
	})
}

func stageFor(status pipeline.Status) pipeline.Stage {
	if status == pipeline.StatusCached {
		return pipeline.StageCache
	}
	return pipeline.StageQuery
}
