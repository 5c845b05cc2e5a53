package reflection_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reflq/internal/diag"
	"reflq/internal/model"
	"reflq/internal/reflection"
)

func TestGetEntity(t *testing.T) {
	e := newEnv(t)
	f := e.f
	p := f.Program

	v, err := e.refl(reflection.TypeValue(f.WType)).GetAssociated(reflection.GetEntity)
	require.NoError(t, err)
	require.Equal(t, f.WidgetType, v.Type())

	v, err = e.refl(reflection.DeclValue(f.AnswerDef)).GetAssociated(reflection.GetEntity)
	require.NoError(t, err)
	require.Equal(t, f.Answer, v.Decl())

	v, err = e.refl(reflection.ExprValue(f.RefGlobal)).GetAssociated(reflection.GetEntity)
	require.NoError(t, err)
	require.Equal(t, f.Global, v.Decl())

	v, err = e.refl(reflection.BaseValue(f.DerivedBase)).GetAssociated(reflection.GetEntity)
	require.NoError(t, err)
	require.Equal(t, p.CanonicalType(f.WidgetType), v.Type())

	_, err = e.refl(reflection.ExprValue(f.Lit42)).GetAssociated(reflection.GetEntity)
	require.ErrorIs(t, err, reflection.ErrNotReflectable)
	_, err = e.refl(reflection.Invalid()).GetAssociated(reflection.GetEntity)
	require.ErrorIs(t, err, reflection.ErrNotReflectable)
}

func TestGetParent(t *testing.T) {
	e := newEnv(t)
	f := e.f

	v, err := e.refl(reflection.DeclValue(f.A)).GetAssociated(reflection.GetParent)
	require.NoError(t, err)
	require.Equal(t, f.Widget, v.Decl())

	// The semantic parent of a template pattern is the enclosing namespace.
	v, err = e.refl(reflection.DeclValue(f.BoxPattern)).GetAssociated(reflection.GetParent)
	require.NoError(t, err)
	require.Equal(t, f.N, v.Decl())

	v, err = e.refl(reflection.DeclValue(f.N)).GetAssociated(reflection.GetParent)
	require.NoError(t, err)
	require.Equal(t, f.Program.TranslationUnit(), v.Decl())

	v, err = e.refl(reflection.DeclValue(f.Program.TranslationUnit())).GetAssociated(reflection.GetParent)
	require.NoError(t, err)
	require.True(t, v.IsInvalid())

	_, err = e.refl(reflection.ExprValue(f.Call)).GetAssociated(reflection.GetParent)
	require.ErrorIs(t, err, reflection.ErrNotReflectable)
}

func TestGetTypeAndReturnType(t *testing.T) {
	e := newEnv(t)
	f := e.f
	p := f.Program

	get := func(v reflection.Value, q reflection.Query) model.TypeID {
		t.Helper()
		got, err := e.refl(v).GetAssociated(q)
		require.NoError(t, err)
		return got.Type()
	}
	require.Equal(t, f.IntType, get(reflection.DeclValue(f.Global), reflection.GetType))
	require.Equal(t, f.WType, get(reflection.DeclValue(f.W), reflection.GetType))
	require.Equal(t, f.WidgetType, get(reflection.TypeValue(f.WType), reflection.GetType))
	require.Equal(t, f.IntType, get(reflection.ExprValue(f.Lit42), reflection.GetType))
	require.Equal(t, p.Decl(f.Color).Type, get(reflection.DeclValue(f.Red), reflection.GetType))
	require.Equal(t, f.IntType, get(reflection.DeclValue(f.Answer), reflection.GetReturnType))
	require.Equal(t, f.WidgetType, get(reflection.DeclValue(f.Make), reflection.GetReturnType))

	for _, tc := range []struct {
		v reflection.Value
		q reflection.Query
	}{
		{reflection.DeclValue(f.N), reflection.GetType},
		{reflection.DeclValue(f.Box), reflection.GetType},
		{reflection.DeclValue(f.Widget), reflection.GetReturnType},
		{reflection.TypeValue(f.IntType), reflection.GetReturnType},
	} {
		_, err := e.refl(tc.v).GetAssociated(tc.q)
		require.ErrorIs(t, err, reflection.ErrNotReflectable, tc.q.String())
	}
}

func TestGetDefinition(t *testing.T) {
	e := newEnv(t)
	f := e.f

	v, err := e.refl(reflection.TypeValue(f.ConstWidgetType)).GetAssociated(reflection.GetDefinition)
	require.NoError(t, err)
	require.Equal(t, f.Widget, v.Decl())

	_, err = e.refl(reflection.TypeValue(f.Program.Decl(f.Gadget).Type)).GetAssociated(reflection.GetDefinition)
	require.ErrorIs(t, err, reflection.ErrNotReflectable)
	_, err = e.refl(reflection.DeclValue(f.Widget)).GetAssociated(reflection.GetDefinition)
	require.ErrorIs(t, err, reflection.ErrNotReflectable)
	_, err = e.refl(reflection.TypeValue(f.IntType)).GetAssociated(reflection.GetDefinition)
	require.ErrorIs(t, err, reflection.ErrNotReflectable)
}

func TestThisRefTypeIsUnimplemented(t *testing.T) {
	e := newEnv(t)
	v, err := e.refl(reflection.DeclValue(e.f.Draw)).GetAssociated(reflection.GetThisRefType)
	require.ErrorIs(t, err, reflection.ErrUnimplemented)
	require.True(t, v.IsInvalid())
	require.Equal(t, 1, e.bag.Len())
	require.Equal(t, diag.ReflQueryUnimplemented, e.bag.Items()[0].Code)
}
