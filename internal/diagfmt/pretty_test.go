package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"reflq/internal/diag"
	"reflq/internal/source"
)

const probeScript = "is_class type:N::Widget\nget_name decl:N::Nope\n"

func probeBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	fileID := fs.AddVirtual("/home/user/project/scripts/probe.rq", []byte(probeScript))

	bag := diag.NewBag(10)
	// "decl:N::Nope" on line 2
	span := source.Span{File: fileID, Start: 33, End: 45}
	bag.Add(diag.NewError(diag.ScrUnresolvedOperand, span, "decl:N::Nope: no declaration named N::Nope").
		WithNote(source.Span{File: fileID, Start: 0, End: 8}, "first statement"))
	return bag, fs
}

func TestPathModes(t *testing.T) {
	bag, fs := probeBag(t)
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/scripts/probe.rq:2:10:"},
		{"relative", PathModeRelative, "scripts/probe.rq:2:10:"},
		{"basename", PathModeBasename, "probe.rq:2:10:"},
		{"auto", PathModeAuto, "scripts/probe.rq:2:10:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()
			if !strings.HasPrefix(output, tt.contains) {
				t.Errorf("expected output to start with %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR SCR3003: decl:N::Nope") {
				t.Errorf("expected severity, code and message, got:\n%s", output)
			}
		})
	}
}

func TestPrettyContextAndNotes(t *testing.T) {
	bag, fs := probeBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: true, ShowNotes: true})

	want := "probe.rq:2:10: ERROR SCR3003: decl:N::Nope: no declaration named N::Nope\n" +
		" 2 | get_name decl:N::Nope\n" +
		"   |          ^~~~~~~~~~~~\n" +
		"  note: probe.rq:1:1: first statement\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyWithoutLocation(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.NoSpan, "failed to read manifest m.toml: no such file"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: true})
	want := "ERROR IO4001: failed to read manifest m.toml: no such file\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := probeBag(t)
	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output has escape sequences: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output has no escape sequences: %q", colored.String())
	}
}

func TestParsePathMode(t *testing.T) {
	for in, want := range map[string]PathMode{
		"":         PathModeAuto,
		"auto":     PathModeAuto,
		"absolute": PathModeAbsolute,
		"relative": PathModeRelative,
		"basename": PathModeBasename,
	} {
		got, ok := ParsePathMode(in)
		if !ok || got != want {
			t.Errorf("ParsePathMode(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParsePathMode("full"); ok {
		t.Error("ParsePathMode accepted \"full\"")
	}
}
