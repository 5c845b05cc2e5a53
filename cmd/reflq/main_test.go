package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const widgetScript = `# sample
is_class type:N::Widget
get_name decl:N::Widget::count
get_definition decl:N::Gadget
walk decl:N::Color
`

type cli struct {
	t      *testing.T
	dir    string
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "reflq.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[engine]\nmax_diagnostics = 50\n"), 0o600))
	return &cli{t: t, dir: dir, config: cfg}
}

func (c *cli) write(name, content string) string {
	c.t.Helper()
	path := filepath.Join(c.dir, name)
	require.NoError(c.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(c.t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (c *cli) widgets(base, script string) (manifestPath, scriptPath string) {
	c.t.Helper()
	content, err := os.ReadFile(filepath.Join("..", "..", "internal", "manifest", "testdata", "widgets.toml"))
	require.NoError(c.t, err)
	return c.write(base+".toml", string(content)), c.write(base+".rq", script)
}

func (c *cli) run(args ...string) (code int, stdout, stderr string) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--config", c.config, "--color", "off"}, args...)
	code = run(context.Background(), full, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestQueryPretty(t *testing.T) {
	c := newCLI(t)
	m, s := c.widgets("widgets", widgetScript)

	code, out, errOut := c.run("query", "--paths", "basename", m, s)
	require.Equal(t, 0, code, errOut)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Equal(t, s+" (widgets.toml)", lines[0])
	require.Equal(t, "   2  is_class type:N::Widget         true", lines[1])
	require.Equal(t, `   3  get_name decl:N::Widget::count  "count"`, lines[2])
	require.True(t, strings.HasPrefix(lines[3], "   4  get_definition decl:N::Gadget   error: "), lines[3])
	require.Equal(t, "   5  walk decl:N::Color              1 member(s)", lines[4])
	require.Equal(t, "      - enumerator N::Red", lines[5])

	require.Contains(t, errOut, "widgets.rq:4:")
	require.Contains(t, errOut, "ERROR REF1001")
	require.Contains(t, errOut, " 4 | get_definition decl:N::Gadget")
}

func TestQueryJSON(t *testing.T) {
	c := newCLI(t)
	m, s := c.widgets("widgets", widgetScript)

	code, out, errOut := c.run("query", "--format", "json", m, s)
	require.Equal(t, 0, code, errOut)

	var rep scriptReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Equal(t, "done", rep.Status)
	require.Equal(t, 1, rep.Failed)
	require.Len(t, rep.Outcomes, 4)
	require.Equal(t, "is_class", rep.Outcomes[0].Query)
	require.Equal(t, "true", rep.Outcomes[0].Result)
	require.Equal(t, []string{"enumerator N::Red"}, rep.Outcomes[3].Walk)
	require.Equal(t, 1, rep.Diagnostics.Count)
	require.Equal(t, "REF1001", rep.Diagnostics.Diagnostics[0].Code)
	require.Equal(t, uint32(4), rep.Diagnostics.Diagnostics[0].Location.StartLine)
}

func TestQueryMsgpack(t *testing.T) {
	c := newCLI(t)
	m, s := c.widgets("widgets", "is_class type:N::Widget\n")

	code, out, errOut := c.run("query", "--format", "msgpack", m, s)
	require.Equal(t, 0, code, errOut)

	var rep map[string]any
	require.NoError(t, msgpack.Unmarshal([]byte(out), &rep))
	require.Equal(t, "done", rep["status"])
	outcomes, ok := rep["outcomes"].([]any)
	require.True(t, ok)
	require.Len(t, outcomes, 1)
}

func TestQueryStrict(t *testing.T) {
	c := newCLI(t)
	m, s := c.widgets("widgets", widgetScript)

	code, _, errOut := c.run("query", "--strict", m, s)
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "ERROR SCR3005: 1 of 4 queries failed")
	require.NotContains(t, errOut, "reflq: failed")
}

func TestQueryErrors(t *testing.T) {
	c := newCLI(t)
	_, s := c.widgets("widgets", widgetScript)

	code, _, errOut := c.run("query", filepath.Join(c.dir, "missing.toml"), s)
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "ERROR IO4001: failed to read manifest")

	bad := c.write("bad.toml", "[[decl]]\nkind = \"gizmo\"\nname = \"x\"\n")
	code, _, errOut = c.run("query", bad, s)
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "MAN2002")

	code, _, errOut = c.run("query", "--format", "yaml", bad, s)
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "reflq: unsupported format")

	code, _, _ = c.run("query", s)
	require.Equal(t, 1, code)
}

func TestQueryTrace(t *testing.T) {
	c := newCLI(t)
	m, s := c.widgets("widgets", "is_class type:N::Widget\n")

	code, _, errOut := c.run("query", "--trace", "-", "--trace-level", "query", m, s)
	require.Equal(t, 0, code, errOut)
	require.Contains(t, errOut, "driver reflq query")
	require.Contains(t, errOut, "pass script:widgets.rq")
	require.Contains(t, errOut, "module manifest @widgets.rq")
	require.Contains(t, errOut, "→ node is_class type:N::Widget @widgets.rq:1\n")
	require.Contains(t, errOut, "← node is_class type:N::Widget @widgets.rq:1 (true)")
}

func TestQueryRingDumpOnFailure(t *testing.T) {
	c := newCLI(t)
	_, s := c.widgets("widgets", "is_class type:N::Widget\n")

	code, _, errOut := c.run("query", "--trace-level", "load", "--trace-mode", "ring", filepath.Join(c.dir, "nope.toml"), s)
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "pass script:widgets.rq (error)")
	require.Contains(t, errOut, "trace: ring buffer dumped above")
}

func TestQueryDiskCache(t *testing.T) {
	c := newCLI(t)
	require.NoError(t, os.WriteFile(c.config, []byte("[batch]\ncache_dir = \"cache\"\n"), 0o600))
	m, s := c.widgets("widgets", widgetScript)

	code, out, errOut := c.run("query", "--disk-cache", m, s)
	require.Equal(t, 0, code, errOut)
	require.NotContains(t, out, "[cached]")

	code, out, errOut = c.run("query", "--disk-cache", m, s)
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "[cached]")
	require.Contains(t, errOut, "ERROR REF1001")

	entries, err := os.ReadDir(filepath.Join(c.dir, "cache", "runs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestBatch(t *testing.T) {
	c := newCLI(t)
	c.widgets("scripts/one", widgetScript)
	c.widgets("scripts/two", "is_class type:N::Widget\n")
	c.write("scripts/orphan.rq", "is_class type:N::Widget\n")

	code, out, errOut := c.run("batch", "--ui", "off", "--jobs", "2", "--format", "json", filepath.Join(c.dir, "scripts"))
	require.Equal(t, 0, code, errOut)

	var rep batchReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Results, 2)
	require.Equal(t, filepath.Join(c.dir, "scripts", "one.rq"), rep.Results[0].Script)
	require.Equal(t, filepath.Join(c.dir, "scripts", "two.rq"), rep.Results[1].Script)
	require.Equal(t, batchSummary{Scripts: 2, Failed: 1, Orphaned: 1}, rep.Summary)
	require.Equal(t, []string{filepath.Join(c.dir, "scripts", "orphan.rq")}, rep.Orphans)

	code, out, errOut = c.run("batch", "--ui", "off", "--strict", filepath.Join(c.dir, "scripts"))
	require.Equal(t, 1, code)
	require.Contains(t, out, "2 script(s), 0 with errors, 1 failed quer(ies), 0 cached")
	require.Contains(t, errOut, "orphan.rq has no manifest")
	require.Contains(t, errOut, "SCR3005")
}

func TestBatchEmptyDir(t *testing.T) {
	c := newCLI(t)
	code, _, errOut := c.run("batch", "--ui", "off", c.dir)
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "no *.rq scripts found")
}

func TestTraitsDecode(t *testing.T) {
	c := newCLI(t)
	code, out, errOut := c.run("traits", "decode", "--format", "json", "linkage", "2")
	require.Equal(t, 0, code, errOut)

	var rep decodeReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Equal(t, "linkage", rep.Record)
	require.Equal(t, uint32(2), rep.Word)
	require.NotEmpty(t, rep.Fields)
	require.Equal(t, "external", rep.Fields[0].Label)

	code, _, errOut = c.run("traits", "decode", "class", "0xffffffff")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "reserved trait bits are set")

	code, _, errOut = c.run("traits", "decode", "gizmo", "1")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, `unknown trait record "gizmo"`)

	code, _, errOut = c.run("traits", "decode", "class", "many")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "invalid trait word")
}

func TestTraitsSchema(t *testing.T) {
	c := newCLI(t)
	code, out, errOut := c.run("traits", "schema", "class")
	require.Equal(t, 0, code, errOut)
	require.True(t, strings.HasPrefix(out, "class ("), out)
	require.Contains(t, out, "class_kind")

	code, out, _ = c.run("traits", "schema")
	require.Equal(t, 0, code)
	for _, name := range []string{"access (", "enum (", "variable ("} {
		require.Contains(t, out, name)
	}
}

func TestCatalog(t *testing.T) {
	c := newCLI(t)
	code, out, errOut := c.run("catalog", "--band", "attribute")
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "get_attribute <subject> <attribute-type>")
	require.Contains(t, out, "has_attribute <subject> <attribute-type>")
	require.NotContains(t, out, "is_class")

	code, out, _ = c.run("catalog", "--format", "json")
	require.Equal(t, 0, code)
	var entries []catalogEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Equal(t, catalogEntry{Name: "is_invalid", Band: "predicate", Operands: 1}, entries[0])

	code, _, errOut = c.run("catalog", "--band", "colour")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, `unknown band "colour"`)
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	code, out, _ := c.run("version")
	require.Equal(t, 0, code)
	require.True(t, strings.HasPrefix(out, "reflq "), out)

	code, out, _ = c.run("version", "--format", "json")
	require.Equal(t, 0, code)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, "reflq", payload.Tool)
}

func TestInvalidGlobalFlags(t *testing.T) {
	c := newCLI(t)
	code, _, errOut := c.run("--trace-level", "loud", "version")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "[trace]")

	code, _, errOut = c.run("--paths", "sideways", "version")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "--paths")
}

func TestProfileFlags(t *testing.T) {
	c := newCLI(t)
	cpu := filepath.Join(c.dir, "cpu.pprof")
	mem := filepath.Join(c.dir, "mem.pprof")
	code, _, errOut := c.run("--cpu-profile", cpu, "--mem-profile", mem, "version")
	require.Equal(t, 0, code, errOut)
	require.FileExists(t, cpu)
	require.FileExists(t, mem)
}
