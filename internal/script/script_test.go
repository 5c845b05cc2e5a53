package script_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"reflq/internal/diag"
	"reflq/internal/model"
	"reflq/internal/model/modeltest"
	"reflq/internal/reflection"
	"reflq/internal/script"
	"reflq/internal/source"
	"reflq/internal/trace"
)

const probe = `# widget probe
is_class type:N::Widget
is_class decl:N::global          # a variable
get_name decl:N::Widget::count
get_parent decl:N::Widget::a
get_attribute decl:N::Widget type:N::Tag
has_attribute decl:N::Derived type:N::Tag

equal type:N::W type:N::Widget
walk decl:N::Color
get_type_traits type:N::Widget
is_namespace ns:::
get_definition decl:N::Gadget
`

type env struct {
	f   *modeltest.Fixture
	fs  *source.FileSet
	bag *diag.Bag
}

func newEnv() *env {
	return &env{f: modeltest.New(), fs: source.NewFileSet(), bag: diag.NewBag(64)}
}

func (e *env) parse(text string) *script.Script {
	return script.ParseString(e.fs, "probe.rq", text, diag.BagReporter{Bag: e.bag})
}

func (e *env) runner() *script.Runner {
	return &script.Runner{Program: e.f.Program, Reporter: diag.BagReporter{Bag: e.bag}}
}

func (e *env) codes() []diag.Code {
	var out []diag.Code
	for _, d := range e.bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func (e *env) spanText(sp source.Span) string {
	return string(e.fs.Get(sp.File).Content[sp.Start:sp.End])
}

func TestParseStatements(t *testing.T) {
	e := newEnv()
	s := e.parse(probe)
	require.Zero(t, s.Errors)
	require.Len(t, s.Statements, 11)

	first := s.Statements[0]
	require.Equal(t, 2, first.Line)
	require.Equal(t, script.VerbQuery, first.Verb)
	require.Equal(t, reflection.IsClass, first.Query)
	require.Equal(t, "is_class type:N::Widget", first.Source)
	require.Equal(t, []script.Operand{{Prefix: script.PrefixType, Text: "N::Widget", Span: first.Operands[0].Span}}, first.Operands)
	require.Equal(t, "type:N::Widget", e.spanText(first.Operands[0].Span))

	comment := s.Statements[1]
	require.Equal(t, "is_class decl:N::global", comment.Source)

	attr := s.Statements[4]
	require.Equal(t, reflection.GetAttribute, attr.Query)
	require.Len(t, attr.Operands, 2)

	eq := s.Statements[6]
	require.Equal(t, 9, eq.Line)
	require.Equal(t, script.VerbEqual, eq.Verb)
	require.Equal(t, "equal", eq.Name())

	ns := s.Statements[9]
	require.Equal(t, script.PrefixNamespace, ns.Operands[0].Prefix)
	require.Equal(t, "::", ns.Operands[0].Text)
}

func TestParseQuotedOperands(t *testing.T) {
	e := newEnv()
	s := e.parse(`is_class_type type:"const N::Widget"   # cv
get_name "invalid"
is_pointer_type type:"N::Widget *"#tight
`)
	require.Zero(t, s.Errors)
	require.Len(t, s.Statements, 3)
	require.Equal(t, "const N::Widget", s.Statements[0].Operands[0].Text)
	require.Equal(t, `type:"const N::Widget"`, e.spanText(s.Statements[0].Operands[0].Span))
	require.Equal(t, script.PrefixInvalid, s.Statements[1].Operands[0].Prefix)
	require.Equal(t, "N::Widget *", s.Statements[2].Operands[0].Text)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []diag.Code
	}{
		{"unknown query", "is_widget decl:N\n", []diag.Code{diag.ScrUnknownQuery}},
		{"unknown prefix", "is_class thing:N\n", []diag.Code{diag.ScrBadOperand}},
		{"bare word", "is_class N::Widget\n", []diag.Code{diag.ScrBadOperand}},
		{"empty operand", "is_class decl:\n", []diag.Code{diag.ScrBadOperand}},
		{"unterminated quote", "is_class type:\"int\n", []diag.Code{diag.ScrBadOperand}},
		{"missing operand", "is_class\n", []diag.Code{diag.ScrArity}},
		{"extra operand", "get_name decl:N decl:N\n", []diag.Code{diag.ScrArity}},
		{"attribute needs two", "has_attribute decl:N::Widget\n", []diag.Code{diag.ScrArity}},
		{"equal needs two", "equal type:int\n", []diag.Code{diag.ScrArity}},
		{"two bad operands", "equal a b\n", []diag.Code{diag.ScrBadOperand, diag.ScrBadOperand}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv()
			s := e.parse("is_class decl:N\n" + tc.src)
			require.Equal(t, tc.want, e.codes())
			require.Len(t, s.Statements, 1, "only the valid line survives")
			require.Equal(t, len(tc.want), s.Errors)
		})
	}
}

func TestParseErrorSpans(t *testing.T) {
	e := newEnv()
	e.parse("\n  is_widget decl:N\n")
	items := e.bag.Items()
	require.Len(t, items, 1)
	start, end := e.fs.Resolve(items[0].Primary)
	require.Equal(t, source.LineCol{Line: 2, Col: 3}, start)
	require.Equal(t, source.LineCol{Line: 2, Col: 12}, end)
}

func TestResolveOperands(t *testing.T) {
	e := newEnv()
	f := e.f
	rn := e.runner()
	resolve := func(prefix script.Prefix, text string) reflection.Operand {
		t.Helper()
		op, ok := rn.Resolve(script.Operand{Prefix: prefix, Text: text})
		require.True(t, ok, "%s:%s", prefix, text)
		return op
	}

	require.Equal(t, f.WidgetType, resolve(script.PrefixType, "N::Widget").AsType())
	require.Equal(t, f.ConstWidgetType, resolve(script.PrefixType, "const N::Widget").AsType())
	require.Equal(t, f.IntArrayType, resolve(script.PrefixType, "int[3]").AsType())
	require.Equal(t, f.MemberPtrType, resolve(script.PrefixType, "memptr(N::Widget, int)").AsType())
	wptr := resolve(script.PrefixType, "N::WPtr").AsType()
	require.NotEqual(t, f.WidgetPtrType, wptr, "aliases keep their sugar")
	require.Equal(t, f.WidgetPtrType, f.Program.CanonicalType(wptr))

	require.Equal(t, f.Count, resolve(script.PrefixDecl, "N::Widget::count").AsDeclaration())
	require.Equal(t, f.Program.TranslationUnit(), resolve(script.PrefixDecl, "::").AsDeclaration())
	require.Equal(t, f.Lit42, resolve(script.PrefixExpr, "lit42").AsExpression())
	require.Equal(t, f.DerivedBase, resolve(script.PrefixBase, "N::Derived:N::Widget").AsBaseSpecifier())
	require.Equal(t, f.Box, resolve(script.PrefixTemplate, "N::Box").AsTemplate())

	global := resolve(script.PrefixNamespace, "::").AsNamespace()
	require.Equal(t, f.Program.TranslationUnit(), global.Namespace())
	require.False(t, global.IsQualified())

	v1 := resolve(script.PrefixNamespace, "N::v1").AsNamespace()
	require.Equal(t, f.V1, v1.Namespace())
	require.Equal(t, []model.DeclID{f.N}, v1.Qualifier())

	require.Equal(t, f.NA, resolve(script.PrefixNamespace, "NA").AsNamespace().Namespace())

	require.True(t, resolve(script.PrefixInvalid, "").IsInvalid())
	info := resolve(script.PrefixInvalid, "lit_str").AsInvalid()
	require.Equal(t, f.LitStr, info.ErrorMessage)
	require.Zero(t, e.bag.Len())
}

func TestResolveFailures(t *testing.T) {
	e := newEnv()
	rn := e.runner()
	for _, op := range []script.Operand{
		{Prefix: script.PrefixType, Text: "Nope"},
		{Prefix: script.PrefixType, Text: "int ["},
		{Prefix: script.PrefixDecl, Text: "N::Nope"},
		{Prefix: script.PrefixExpr, Text: "nope"},
		{Prefix: script.PrefixBase, Text: "N::Widget:N::Derived"},
		{Prefix: script.PrefixNamespace, Text: "N::Widget"},
		{Prefix: script.PrefixTemplate, Text: "N::Widget"},
		{Prefix: script.PrefixInvalid, Text: "nope"},
	} {
		_, ok := rn.Resolve(op)
		require.False(t, ok, op.String())
	}
	for _, code := range e.codes() {
		require.Equal(t, diag.ScrUnresolvedOperand, code)
	}
	require.Equal(t, 8, e.bag.Len())
}

func TestRun(t *testing.T) {
	e := newEnv()
	s := e.parse(probe)
	out, err := e.runner().Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, out, 11)

	byLine := make(map[int]script.Outcome, len(out))
	for _, o := range out {
		byLine[o.Line] = o
	}

	isClass := byLine[2]
	require.Equal(t, "is_class", isClass.Query)
	require.Equal(t, "predicate", isClass.Band)
	require.Equal(t, "type struct N::Widget", isClass.Subject)
	require.NotNil(t, isClass.Bool)
	require.True(t, *isClass.Bool)
	require.Equal(t, "true", isClass.Result)

	require.False(t, *byLine[3].Bool)
	require.Equal(t, `"count"`, byLine[4].Result)
	require.Equal(t, "record N::Widget", byLine[5].Result)
	require.Equal(t, "7", byLine[6].Result)
	require.False(t, *byLine[7].Bool)
	require.True(t, *byLine[9].Bool)
	require.Equal(t, []string{"enumerator N::Red", "enumerator N::Green"}, byLine[10].Walk)
	require.Equal(t, "2 member(s)", byLine[10].Result)

	traitsOut := byLine[11]
	require.NotNil(t, traitsOut.Traits)
	require.True(t, strings.HasPrefix(traitsOut.Result, "0x"))
	require.Contains(t, traitsOut.Result, "class{")
	require.Contains(t, traitsOut.Result, "abstract")

	require.True(t, *byLine[12].Bool)

	def := byLine[13]
	require.True(t, def.Failed())
	require.Contains(t, def.Error, "get_definition")
	require.Equal(t, []diag.Code{diag.ReflNotDefined}, e.codes())
}

func TestExecMapsMissingAttribute(t *testing.T) {
	e := newEnv()
	s := e.parse("get_attribute decl:N::Derived type:N::Tag\n")
	out, err := e.runner().Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.True(t, out[0].Failed())
	require.Equal(t, []diag.Code{diag.ReflNoAttribute}, e.codes())
}

func TestExecUnresolvedOperandFails(t *testing.T) {
	e := newEnv()
	s := e.parse("is_class decl:N::Nope\n")
	out, err := e.runner().Run(context.Background(), s)
	require.NoError(t, err)
	require.True(t, out[0].Failed())
	require.Equal(t, "unresolved operand decl:N::Nope", out[0].Error)
	require.Equal(t, []diag.Code{diag.ScrUnresolvedOperand}, e.codes())
}

func TestDisplayNameOption(t *testing.T) {
	e := newEnv()
	s := e.parse("get_display_name decl:N::Widget::count\n")
	rn := e.runner()
	rn.Options.QualifiedDisplayNames = true
	out, err := rn.Run(context.Background(), s)
	require.NoError(t, err)
	require.Equal(t, `"N::Widget::count"`, out[0].Result)
}

func TestRunTracesQueries(t *testing.T) {
	e := newEnv()
	s := e.parse("is_class type:N::Widget\nget_name decl:N::Nope\n")
	var buf bytes.Buffer
	tracer := trace.NewStreamTracer(&buf, trace.LevelQuery, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), tracer)
	ctx, pass := trace.StartScript(ctx, "scripts/probe.rq")
	_, err := e.runner().Run(ctx, s)
	require.NoError(t, err)
	pass.End("ok")
	require.Contains(t, buf.String(), "← node is_class type:N::Widget @probe.rq:1 (true)")
	require.Contains(t, buf.String(), "← node get_name decl:N::Nope @probe.rq:2 (error: unresolved operand decl:N::Nope)")
}

func TestRunStopsOnCancel(t *testing.T) {
	e := newEnv()
	s := e.parse(probe)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := e.runner().Run(ctx, s)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, out)
}
