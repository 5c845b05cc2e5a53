package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"reflq/internal/source"
)

// goldenLine is one rendered row: `<sev> <CODE> <path>:<line>:<col> <msg>`.
type goldenLine struct {
	sev, code, path, msg string
	line, col            uint32
}

func (g goldenLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", g.sev, g.code, g.path, g.line, g.col, g.msg)
}

// FormatGoldenDiagnostics renders one line per diagnostic, sorted by
// location, for comparison against expected script output. Entries located
// in virtual files (stdin, in-memory fixtures) are dropped.
func FormatGoldenDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return renderLines(diags, fs, includeNotes, true)
}

// FormatShortDiagnostics is FormatGoldenDiagnostics without the filter.
func FormatShortDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return renderLines(diags, fs, includeNotes, false)
}

func renderLines(diags []*Diagnostic, fs *source.FileSet, includeNotes, skipVirtual bool) string {
	if fs == nil {
		return ""
	}
	var lines []goldenLine
	add := func(sev, code string, span source.Span, msg string) {
		if span.File >= source.FileID(fs.Len()) { //nolint:gosec // Len is small
			return
		}
		file := fs.Get(span.File)
		if skipVirtual && file.Flags&source.FileVirtual != 0 {
			return
		}
		start, _ := fs.Resolve(span)
		path := filepath.ToSlash(file.FormatPath("relative", fs.BaseDir()))
		for strings.HasPrefix(path, "./") {
			path = path[2:]
		}
		lines = append(lines, goldenLine{
			sev: sev, code: code, path: path, msg: oneLine(msg),
			line: start.Line, col: start.Col,
		})
	}
	for _, d := range diags {
		add(d.Severity.Label(), d.Code.ID(), d.Primary, d.Message)
		if includeNotes {
			for _, n := range d.Notes {
				add("note", d.Code.ID(), n.Span, n.Msg)
			}
		}
	}

	slices.SortStableFunc(lines, func(a, b goldenLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			cmp.Compare(a.sev, b.sev),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func oneLine(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	return strings.TrimSpace(strings.ReplaceAll(msg, "\n", " "))
}
