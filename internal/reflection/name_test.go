package reflection_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reflq/internal/model"
	"reflq/internal/reflection"
)

func TestTypeNameSuppressesTagKeyword(t *testing.T) {
	b := model.NewBuilder(nil)
	w := b.Add(model.Decl{Kind: model.DeclRecord, Name: b.Ident("Widget"), Parent: b.TranslationUnit(),
		Tag: model.TagClass, Flags: model.FlagDefinition})
	p := b.Build()

	s, err := reflection.New(p, reflection.TypeValue(p.Decl(w).Type)).GetName(reflection.GetName)
	require.NoError(t, err)
	require.Equal(t, "Widget", s.Text)
}

func TestGetName(t *testing.T) {
	e := newEnv(t)
	f := e.f
	cases := []struct {
		v    reflection.Value
		want string
	}{
		{reflection.TypeValue(f.WidgetType), "N::Widget"},
		{reflection.TypeValue(f.ConstWidgetType), "const N::Widget"},
		{reflection.TypeValue(f.WType), "N::W"},
		{reflection.TypeValue(f.IntType), "int"},
		{reflection.DeclValue(f.Global), "global"},
		{reflection.DeclValue(f.BoxChar), "Box"},
		{reflection.ExprValue(f.RefGlobal), "global"},
	}
	for _, tc := range cases {
		s, err := e.refl(tc.v).GetName(reflection.GetName)
		require.NoError(t, err)
		require.Equal(t, tc.want, s.Text)
	}
}

func TestGetNameFailures(t *testing.T) {
	e := newEnv(t)
	f := e.f
	for _, v := range []reflection.Value{
		reflection.Invalid(),
		reflection.DeclValue(f.DefaultCtor),
		reflection.DeclValue(f.Anon),
		reflection.DeclValue(f.Program.TranslationUnit()),
		reflection.ExprValue(f.Lit42),
		reflection.BaseValue(f.DerivedBase),
	} {
		_, err := e.refl(v).GetName(reflection.GetName)
		require.ErrorIs(t, err, reflection.ErrNotReflectable)
	}
	require.Equal(t, 6, e.bag.Len())
}

func TestDisplayName(t *testing.T) {
	e := newEnv(t)
	r := e.refl(reflection.DeclValue(e.f.Count))

	name, err := r.GetName(reflection.GetName)
	require.NoError(t, err)
	display, err := r.GetName(reflection.GetDisplayName)
	require.NoError(t, err)
	require.Equal(t, name, display)

	r = r.WithOptions(reflection.Options{QualifiedDisplayNames: true})
	display, err = r.GetName(reflection.GetDisplayName)
	require.NoError(t, err)
	require.Equal(t, "N::Widget::count", display.Text)
	name, err = r.GetName(reflection.GetName)
	require.NoError(t, err)
	require.Equal(t, "count", name.Text)
}

func TestNamesAreMaterializedOnce(t *testing.T) {
	e := newEnv(t)
	a, err := e.refl(reflection.DeclValue(e.f.Global)).GetName(reflection.GetName)
	require.NoError(t, err)
	b, err := e.refl(reflection.ExprValue(e.f.RefGlobal)).GetName(reflection.GetName)
	require.NoError(t, err)
	require.Equal(t, a.ID, b.ID)
}
