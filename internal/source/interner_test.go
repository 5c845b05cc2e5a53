package source

import (
	"fmt"
	"sync"
	"testing"
)

func TestInternerBasic(t *testing.T) {
	in := NewInterner()

	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Fatalf("NoStringID must map to the empty string, got %q ok=%v", s, ok)
	}
	id1 := in.Intern("Widget")
	if id1 == NoStringID {
		t.Fatalf("non-empty string interned as NoStringID")
	}
	if id2 := in.Intern("Widget"); id2 != id1 {
		t.Fatalf("same string got different IDs: %d != %d", id1, id2)
	}
	if s := in.MustLookup(id1); s != "Widget" {
		t.Fatalf("lookup returned %q", s)
	}
	if in.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", in.Len())
	}
	if in.Has(StringID(99)) {
		t.Fatalf("unknown ID reported as present")
	}
}

func TestInternIdentNormalizes(t *testing.T) {
	in := NewInterner()
	composed := in.InternIdent("caf\u00e9")
	decomposed := in.InternIdent("cafe\u0301")
	if composed != decomposed {
		t.Fatalf("NFC-equivalent identifiers must share an ID: %d != %d", composed, decomposed)
	}
}

func TestInternerMustLookupPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown ID")
		}
	}()
	NewInterner().MustLookup(StringID(42))
}

func TestInternerConcurrentIntern(t *testing.T) {
	in := NewInterner()
	const workers, strs = 16, 200

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for i := range strs {
				in.Intern(fmt.Sprintf("name_%d", i))
			}
		}()
	}
	wg.Wait()

	if in.Len() != strs+1 {
		t.Fatalf("expected %d strings, got %d", strs+1, in.Len())
	}
}
