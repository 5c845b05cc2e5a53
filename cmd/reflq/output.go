package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/vmihailenco/msgpack/v5"

	"reflq/internal/diag"
	"reflq/internal/diagfmt"
	"reflq/internal/driver"
	"reflq/internal/pipeline"
	"reflq/internal/script"
	"reflq/internal/source"
)

type outputFormat string

const (
	formatPretty  outputFormat = "pretty"
	formatJSON    outputFormat = "json"
	formatMsgpack outputFormat = "msgpack"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case formatPretty, formatJSON, formatMsgpack:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q (must be pretty, json or msgpack)", s)
}

// scriptReport is the machine-readable form of one run.
type scriptReport struct {
	Manifest    string                    `json:"manifest"`
	Script      string                    `json:"script"`
	Status      string                    `json:"status"`
	Cached      bool                      `json:"cached,omitempty"`
	Failed      int                       `json:"failed"`
	Outcomes    []script.Outcome          `json:"outcomes"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
	TimingsMS   map[string]float64        `json:"timings_ms,omitempty"`
}

func (a *app) report(res *driver.Result) scriptReport {
	out := scriptReport{
		Manifest: res.ManifestPath,
		Script:   res.ScriptPath,
		Status:   string(res.Status),
		Cached:   res.Cached,
		Failed:   res.Failed,
		Outcomes: res.Outcomes,
		Diagnostics: diagfmt.BuildDiagnosticsOutput(res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         a.paths,
			IncludeNotes:     true,
		}),
	}
	if out.Outcomes == nil {
		out.Outcomes = []script.Outcome{}
	}
	if a.timings {
		out.TimingsMS = make(map[string]float64)
		for _, stage := range pipeline.Stages() {
			if res.Timings.Has(stage) {
				out.TimingsMS[string(stage)] = toMillis(res.Timings.Duration(stage))
			}
		}
	}
	return out
}

// encode writes v as JSON or msgpack. Msgpack reuses the json field names.
func encode(w io.Writer, format outputFormat, v any) error {
	switch format {
	case formatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		enc.SetOmitEmpty(true)
		return enc.Encode(v)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

type styles struct {
	header, yes, no, fail, dim *color.Color
}

func newStyles(enabled bool) styles {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return styles{
		header: mk(color.Bold),
		yes:    mk(color.FgGreen),
		no:     mk(color.FgYellow),
		fail:   mk(color.FgRed, color.Bold),
		dim:    mk(color.Faint),
	}
}

// printPretty writes the outcome table of res to out and its diagnostics
// to errOut.
func (a *app) printPretty(out, errOut io.Writer, res *driver.Result) {
	st := newStyles(a.color)
	if !a.quiet {
		header := fmt.Sprintf("%s (%s)", res.ScriptPath, filepath.Base(res.ManifestPath))
		if res.Cached {
			header += " " + st.dim.Sprint("[cached]")
		}
		fmt.Fprintln(out, st.header.Sprint(header))
	}

	srcWidth := 0
	for _, o := range res.Outcomes {
		srcWidth = max(srcWidth, runewidth.StringWidth(o.Source))
	}
	for _, o := range res.Outcomes {
		pad := strings.Repeat(" ", srcWidth-runewidth.StringWidth(o.Source))
		fmt.Fprintf(out, "%4d  %s%s  %s\n", o.Line, o.Source, pad, st.result(o))
		for _, m := range o.Walk {
			fmt.Fprintf(out, "      %s %s\n", st.dim.Sprint("-"), m)
		}
	}

	a.printDiagnostics(errOut, res.Bag, res.FileSet)
	if a.timings {
		printStageTimings(errOut, res.Timings)
	}
}

func (st styles) result(o script.Outcome) string {
	switch {
	case o.Failed():
		return st.fail.Sprint("error: ") + o.Error
	case o.Bool != nil && *o.Bool:
		return st.yes.Sprint(o.Result)
	case o.Bool != nil:
		return st.no.Sprint(o.Result)
	}
	return o.Result
}

// printDiagnostics prints bag sorted by location. Quiet mode keeps errors
// only.
func (a *app) printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet) {
	if bag.Len() == 0 {
		return
	}
	bag.Sort()
	printed := bag
	if a.quiet {
		printed = diag.NewBag(bag.Cap())
		for _, d := range bag.Items() {
			if d.Severity.Fails() {
				printed.Add(d)
			}
		}
	}
	diagfmt.Pretty(w, printed, fs, diagfmt.PrettyOpts{
		Color:     a.color,
		Context:   true,
		PathMode:  a.paths,
		ShowNotes: !a.quiet,
	})
}

func printStageTimings(out io.Writer, timings pipeline.Timings) {
	for _, stage := range pipeline.Stages() {
		if timings.Has(stage) {
			fmt.Fprintf(out, "%-6s %.1f ms\n", stage, toMillis(timings.Duration(stage)))
		}
	}
	fmt.Fprintf(out, "%-6s %.1f ms\n", "total", toMillis(timings.Sum()))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
