package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reflq/internal/model"
	"reflq/internal/model/modeltest"
)

func TestCanonicalStripsSugar(t *testing.T) {
	f := modeltest.New()
	tt := f.Program.Types

	require.Equal(t, f.WidgetType, tt.Canonical(f.WType))
	loc := tt.Intern(model.MakeLocInfo(f.WType))
	require.Equal(t, f.WidgetType, tt.Canonical(loc))

	constW := tt.Intern(model.MakeQualified(f.WType, model.QualConst))
	require.Equal(t, f.ConstWidgetType, tt.Canonical(constW))
	require.Equal(t, f.WidgetType, tt.CanonicalUnqualified(constW))

	ptrW := tt.Intern(model.MakePointer(f.WType))
	require.Equal(t, f.WidgetPtrType, tt.Canonical(ptrW))
}

func TestCanonicalMergesQualifiers(t *testing.T) {
	f := modeltest.New()
	tt := f.Program.Types

	inner := tt.Intern(model.MakeQualified(f.WType, model.QualConst))
	outer := tt.Intern(model.MakeQualified(inner, model.QualVolatile))
	want := tt.Intern(model.MakeQualified(f.WidgetType, model.QualConst|model.QualVolatile))
	require.Equal(t, want, tt.Canonical(outer))
}

func TestCanonicalFunctionParams(t *testing.T) {
	f := modeltest.New()
	tt := f.Program.Types
	bi := tt.Builtins()

	sugared := tt.Function([]model.TypeID{f.WType}, bi.Void, false)
	plain := tt.Function([]model.TypeID{f.WidgetType}, bi.Void, false)
	require.NotEqual(t, sugared, plain)
	require.Equal(t, plain, tt.Canonical(sugared))
	require.Equal(t, plain, tt.Function([]model.TypeID{f.WidgetType}, bi.Void, false))
}

func TestTagDeclSeesThroughSugar(t *testing.T) {
	f := modeltest.New()
	tt := f.Program.Types

	require.Equal(t, f.Widget, tt.TagDecl(f.WType))
	require.Equal(t, f.Widget, tt.TagDecl(f.ConstWidgetType))
	require.Equal(t, model.NoDeclID, tt.TagDecl(f.WidgetPtrType))
	require.Equal(t, model.NoDeclID, tt.TagDecl(model.NoTypeID))
	require.Equal(t, model.TypeRecord, tt.KindOf(f.WType))
}

func TestTypeString(t *testing.T) {
	f := modeltest.New()
	p := f.Program
	bare := model.Policy{SuppressTagKeyword: true}

	cases := []struct {
		id   model.TypeID
		pol  model.Policy
		want string
	}{
		{f.WidgetType, model.Policy{}, "struct N::Widget"},
		{f.WidgetType, bare, "N::Widget"},
		{f.WidgetType, model.Policy{SuppressTagKeyword: true, SuppressScope: true}, "Widget"},
		{f.ConstWidgetType, bare, "const N::Widget"},
		{f.WidgetPtrType, bare, "N::Widget *"},
		{f.WType, bare, "N::W"},
		{f.IntArrayType, bare, "int [3]"},
		{f.FnPtrType, bare, "void (*)(int)"},
		{f.MemberPtrType, bare, "int N::Widget::*"},
		{f.MemberFnPtrType, bare, "void (N::Widget::*)()"},
		{f.IntLRefType, bare, "int &"},
		{f.IntRRefType, bare, "int &&"},
		{p.Decl(f.BoxInt).Type, bare, "N::Box<int>"},
		{p.Decl(f.Answer).Type, bare, "int () noexcept"},
		{p.Decl(f.Color).Type, model.Policy{}, "enum N::Color"},
		{model.NoTypeID, bare, "<null type>"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, p.TypeString(tc.id, tc.pol))
	}

	constPtr := p.Types.Intern(model.MakeQualified(f.WidgetPtrType, model.QualConst))
	require.Equal(t, "N::Widget *const", p.TypeString(constPtr, bare))
}

func TestLookupType(t *testing.T) {
	f := modeltest.New()
	p := f.Program

	id, ok := p.LookupType("N::Widget")
	require.True(t, ok)
	require.Equal(t, f.WidgetType, id)

	id, ok = p.LookupType("struct N::Widget")
	require.True(t, ok)
	require.Equal(t, f.WidgetType, id)

	id, ok = p.LookupType(" int ")
	require.True(t, ok)
	require.Equal(t, p.Types.Builtins().Int, id)

	_, ok = p.LookupType("N::Nope")
	require.False(t, ok)
}
