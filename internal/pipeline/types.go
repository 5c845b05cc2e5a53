// Package pipeline describes the progress of script runs.
package pipeline

import "time"

// Stage describes a phase of one run.
type Stage string

const (
	StageLoad  Stage = "load"  // reading and building the manifest
	StageCache Stage = "cache" // disk cache lookup
	StageParse Stage = "parse" // reading the script
	StageQuery Stage = "query" // evaluating statements
)

// Stages lists the stages in run order.
func Stages() []Stage { return []Stage{StageCache, StageLoad, StageParse, StageQuery} }

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusCached  Status = "cached"
	StatusError   Status = "error"
)

// Terminal reports statuses after which a run emits nothing more.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCached || s == StatusError
}

// Event reports progress for a script (or for the whole batch when File is
// empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

// Add accumulates dur into stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] += dur
}

func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

func (t Timings) Duration(stage Stage) time.Duration { return t.stages[stage] }

// Sum returns the sum of durations across the provided stages, or across
// all of them when none are given.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if len(stages) == 0 {
		stages = Stages()
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
