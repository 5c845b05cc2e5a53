package diag

import (
	"testing"

	"reflq/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	script := fs.Add("/workspace/testdata/widget.rq", []byte("a\nb\n"), 0)
	stdin := fs.AddVirtual("<stdin>", []byte("x\n"))

	diags := []*Diagnostic{
		{
			Severity: SevError,
			Code:     ReflNotDefined,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: script, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: stdin, Start: 0, End: 0}, Msg: "skip me"},
				{Span: source.Span{File: script, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     ScrUnknownQuery,
			Message:  "another",
			Primary:  source.Span{File: script, Start: 2, End: 3},
		},
	}

	expected := "error REF1001 testdata/widget.rq:1:1 first line second\n" +
		"note REF1001 testdata/widget.rq:2:1 note line\n" +
		"warning SCR3001 testdata/widget.rq:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortDiagnosticsKeepsVirtual(t *testing.T) {
	fs := source.NewFileSet()
	stdin := fs.AddVirtual("<stdin>", []byte("get_name type:int\n"))
	diags := []*Diagnostic{NewError(ScrQueryFailed, source.Span{File: stdin, Start: 9, End: 17}, "query failed")}

	want := "error SCR3005 <stdin>:1:10 query failed"
	if got := FormatShortDiagnostics(diags, fs, false); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if got := FormatGoldenDiagnostics(diags, fs, false); got != "" {
		t.Fatalf("virtual file should be filtered, got %q", got)
	}
}
