package model_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"reflq/internal/model"
	"reflq/internal/model/modeltest"
)

func TestMembersKeepDeclarationOrder(t *testing.T) {
	f := modeltest.New()
	p := f.Program

	members := slices.Collect(p.Members(f.Widget))
	require.Equal(t, []model.DeclID{f.WidgetInjected, f.A, f.PublicSpec, f.B, f.C, f.Count,
		f.DefaultCtor, f.CopyCtor, f.MoveCtor, f.Dtor, f.Draw, f.Assign, f.Make, f.ToBool, f.Mode}, members)

	injected := p.Decl(f.WidgetInjected)
	require.True(t, injected.Is(model.FlagInjectedClassName))
	require.Equal(t, "Widget", p.Name(f.WidgetInjected))
}

func TestMembersStopsEarly(t *testing.T) {
	f := modeltest.New()
	var seen []model.DeclID
	for id := range f.Program.Members(f.Widget) {
		seen = append(seen, id)
		if len(seen) == 2 {
			break
		}
	}
	require.Equal(t, []model.DeclID{f.WidgetInjected, f.A}, seen)
	require.Empty(t, slices.Collect(f.Program.Members(model.NoDeclID)))
}

func TestNextInContext(t *testing.T) {
	f := modeltest.New()
	p := f.Program

	require.Equal(t, f.PublicSpec, p.NextInContext(f.A))
	require.Equal(t, f.Off, p.NextInContext(f.On))
	require.Equal(t, model.NoDeclID, p.NextInContext(f.Off))
	require.Equal(t, model.NoDeclID, p.NextInContext(p.TranslationUnit()))
	require.Equal(t, f.Arg, p.FirstInContext(f.Run))
}

func TestRedeclarationsShareCanonical(t *testing.T) {
	f := modeltest.New()
	p := f.Program

	require.Equal(t, f.Answer, p.CanonicalDecl(f.AnswerDef))
	require.Equal(t, f.AnswerDef, p.Definition(f.Answer))
	require.Equal(t, f.AnswerDef, p.Definition(f.AnswerDef))
	require.Equal(t, model.NoDeclID, p.Definition(f.Gadget))
	require.Equal(t, f.Widget, p.Definition(f.Widget))
}

func TestRedeclContextSkipsUnscopedEnums(t *testing.T) {
	f := modeltest.New()
	p := f.Program

	require.Equal(t, f.N, p.RedeclContext(p.Decl(f.Red).LexicalParent))
	require.Equal(t, f.Mode, p.RedeclContext(p.Decl(f.On).LexicalParent))
}

func TestQualifiedNameAndLookup(t *testing.T) {
	f := modeltest.New()
	p := f.Program

	require.Equal(t, "N::Widget::a", p.QualifiedName(f.A))
	require.Equal(t, "N::Red", p.QualifiedName(f.Red))
	require.Equal(t, "N::Widget::Mode::On", p.QualifiedName(f.On))
	require.Equal(t, "N::Box<long>", p.QualifiedName(f.BoxLong))
	require.Equal(t, "(anonymous namespace)", p.QualifiedName(f.Anon))

	cases := map[string]model.DeclID{
		"N::Widget":    f.Widget,
		"::N::Widget":  f.Widget,
		"N::answer":    f.Answer,
		"N::Box":       f.Box,
		"N::Box<int>":  f.BoxInt,
		"N::Box<T *>":  f.BoxPtr,
		"N::run::arg":  f.Arg,
		"NA":           f.NA,
		"::":           p.TranslationUnit(),
		"N::Widget::b": f.B,
	}
	for key, want := range cases {
		got, ok := p.LookupDecl(key)
		require.True(t, ok, key)
		require.Equal(t, want, got, key)
	}
	_, ok := p.LookupDecl("N::missing")
	require.False(t, ok)

	e, ok := p.LookupExpr("ref_global")
	require.True(t, ok)
	require.Equal(t, f.RefGlobal, e)

	base, ok := p.LookupBase("N::Derived:N::Widget")
	require.True(t, ok)
	require.Equal(t, f.DerivedBase, base)
}

func TestReturnTypeAndNothrow(t *testing.T) {
	f := modeltest.New()
	p := f.Program
	bi := p.Types.Builtins()

	require.Equal(t, bi.Int, p.ReturnType(f.Answer))
	require.True(t, p.Nothrow(f.Answer))
	require.False(t, p.Nothrow(f.Run))
	require.Equal(t, model.NoTypeID, p.ReturnType(f.Global))
}

func TestMaterializeString(t *testing.T) {
	f := modeltest.New()
	p := f.Program

	a, err := p.MaterializeString("Widget")
	require.NoError(t, err)
	b, err := p.MaterializeString("Widget")
	require.NoError(t, err)
	require.Equal(t, a.ID, b.ID)
	require.Equal(t, "Widget", b.Text)

	_, err = p.MaterializeString("bad\x00text")
	require.ErrorIs(t, err, model.ErrNotConstant)
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := model.NewBuilder(nil)
	b.Build()
	require.Panics(t, func() {
		b.Add(model.Decl{Kind: model.DeclNamespace, Parent: b.TranslationUnit()})
	})
}

func TestSortMembersRenumbersSlots(t *testing.T) {
	b := model.NewBuilder(nil)
	tu := b.TranslationUnit()
	ns := b.Add(model.Decl{Kind: model.DeclNamespace, Name: b.Ident("n"), Parent: tu})
	late := b.Add(model.Decl{Kind: model.DeclVar, Name: b.Ident("late"), Parent: ns})
	early := b.Add(model.Decl{Kind: model.DeclVar, Name: b.Ident("early"), Parent: ns})
	rank := map[model.DeclID]int{ns: 0, early: 1, late: 2}
	b.SortMembers(func(id model.DeclID) int { return rank[id] })
	p := b.Build()

	require.Equal(t, []model.DeclID{early, late}, slices.Collect(p.Members(ns)))
	require.Equal(t, late, p.NextInContext(early))
	require.Equal(t, model.NoDeclID, p.NextInContext(late))
	require.Equal(t, early, p.FirstInContext(ns))
}

func TestParseKinds(t *testing.T) {
	k, ok := model.ParseDeclKind("class_template")
	require.True(t, ok)
	require.Equal(t, model.DeclClassTemplate, k)
	_, ok = model.ParseDeclKind("invalid")
	require.False(t, ok)

	fl, ok := model.ParseFlag("copy_ctor")
	require.True(t, ok)
	require.Equal(t, model.FlagCopyCtor, fl)
	require.Equal(t, []string{"static", "constexpr"}, (model.FlagStatic | model.FlagConstexpr).Strings())
}

func TestFollowingAndTagDecl(t *testing.T) {
	f := modeltest.New()
	p := f.Program

	require.Equal(t, []model.DeclID{f.Green}, slices.Collect(p.Following(f.Red)))
	require.Empty(t, slices.Collect(p.Following(f.Green)))

	require.Equal(t, f.Widget, p.TagDecl(f.WType))
	require.Equal(t, f.Gadget, p.TagDecl(p.Decl(f.Gadget).Type))
	require.Equal(t, model.NoDeclID, p.TagDecl(p.Types.Builtins().Int))
}
