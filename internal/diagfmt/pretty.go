package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"reflq/internal/diag"
	"reflq/internal/source"
)

type palette struct {
	err, warn, info, note, loc, caret, gutter *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgBlue),
		loc:    mk(color.Bold),
		caret:  mk(color.FgGreen, color.Bold),
		gutter: mk(color.FgBlue),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty writes bag in a human-readable form, in bag order:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	   3 | get_name decl:N::Nope
//	     |          ^~~~~~~~~~~~
//	  note: <path>:<line>:<col>: <message>
//
// Diagnostics without a location drop the path prefix and the context.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		var b strings.Builder
		if located(fs, d.Code, d.Primary) {
			start, _ := fs.Resolve(d.Primary)
			b.WriteString(p.loc.Sprintf("%s:%d:%d:", formatPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col))
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s %s: %s\n", p.severity(d.Severity).Sprint(d.Severity), d.Code.ID(), d.Message)
		if opts.Context && located(fs, d.Code, d.Primary) {
			writeContext(&b, fs, d.Primary, p)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				b.WriteString("  " + p.note.Sprint("note:") + " ")
				if located(fs, d.Code, n.Span) {
					start, _ := fs.Resolve(n.Span)
					fmt.Fprintf(&b, "%s:%d:%d: ", formatPath(fs, n.Span.File, opts.PathMode), start.Line, start.Col)
				}
				b.WriteString(n.Msg + "\n")
			}
		}
		_, _ = io.WriteString(w, b.String())
	}
}

// writeContext prints the first line of span with a caret run under it. The
// underline stops at the end of that line.
func writeContext(b *strings.Builder, fs *source.FileSet, span source.Span, p palette) {
	start, _ := fs.Resolve(span)
	line := fs.LineSpan(span.File, start.Line)
	content := fs.Get(span.File).Content
	text := string(content[line.Start:line.End])

	prefix := text[:min(int(span.Start-line.Start), len(text))]
	end := min(span.End, line.End)
	width := 1
	if end > span.Start {
		width = max(runewidth.StringWidth(string(content[span.Start:end])), 1)
	}
	pad := runewidth.StringWidth(strings.ReplaceAll(prefix, "\t", " "))

	num := fmt.Sprintf("%d", start.Line)
	gutter := strings.Repeat(" ", len(num))
	fmt.Fprintf(b, " %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), strings.ReplaceAll(text, "\t", " "))
	fmt.Fprintf(b, " %s %s %s%s\n", gutter, p.gutter.Sprint("|"), strings.Repeat(" ", pad),
		p.caret.Sprint("^"+strings.Repeat("~", width-1)))
}
