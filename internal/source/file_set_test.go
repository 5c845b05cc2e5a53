package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()
	id1 := fs.Add("model.toml", []byte("a"), 0)
	id2 := fs.Add("model.toml", []byte("b"), 0)
	if id1 == id2 {
		t.Fatalf("re-adding a path must allocate a new FileID")
	}
	latest, ok := fs.GetLatest("model.toml")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v; want %d", latest, ok, id2)
	}
	if string(fs.Get(id1).Content) != "a" {
		t.Fatalf("old version must stay readable")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("q.rq", []byte("is_class type:S\nget_name decl:f\n"))

	start, _ := fs.Resolve(Span{File: id, Start: 0, End: 1})
	if start != (LineCol{Line: 1, Col: 1}) {
		t.Fatalf("offset 0 resolved to %+v", start)
	}
	start, _ = fs.Resolve(Span{File: id, Start: 16, End: 17})
	if start != (LineCol{Line: 2, Col: 1}) {
		t.Fatalf("offset 16 resolved to %+v", start)
	}
	start, _ = fs.Resolve(Span{File: id, Start: 15, End: 15})
	if start != (LineCol{Line: 1, Col: 16}) {
		t.Fatalf("newline offset resolved to %+v", start)
	}
}

func TestLineSpan(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("q.rq", []byte("first\nsecond"))
	sp := fs.LineSpan(id, 2)
	if got := string(fs.Get(id).Content[sp.Start:sp.End]); got != "second" {
		t.Fatalf("line 2 = %q", got)
	}
	sp = fs.LineSpan(id, 1)
	if got := string(fs.Get(id).Content[sp.Start:sp.End]); got != "first" {
		t.Fatalf("line 1 = %q", got)
	}
}

func TestLoadNormalizesCRLFAndBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.toml")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Fatalf("cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 1}); got != a {
		t.Fatalf("cross-file cover must keep receiver, got %v", got)
	}
}
