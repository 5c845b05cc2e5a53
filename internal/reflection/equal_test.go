package reflection_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reflq/internal/reflection"
)

func TestEqual(t *testing.T) {
	e := newEnv(t)
	f := e.f
	lit := reflection.ExprValue(f.Lit42)
	base := reflection.BaseValue(f.DerivedBase)
	cases := []struct {
		name string
		a, b reflection.Value
		want bool
	}{
		{"alias and its target", reflection.TypeValue(f.WType), reflection.TypeValue(f.WidgetType), true},
		{"qualifiers differ", reflection.TypeValue(f.ConstWidgetType), reflection.TypeValue(f.WidgetType), false},
		{"redeclarations", reflection.DeclValue(f.Answer), reflection.DeclValue(f.AnswerDef), true},
		{"declaration and type", reflection.DeclValue(f.Widget), reflection.TypeValue(f.WidgetType), false},
		{"invalid ignores message", reflection.Invalid(),
			reflection.InvalidWith(&reflection.InvalidReflection{ErrorMessage: f.LitStr}), true},
		{"expression", lit, lit, false},
		{"base specifier", base, base, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, reflection.Equal(f.Program, tc.a, tc.b), tc.name)
	}
}

func TestEqualIsReflexiveAndSymmetric(t *testing.T) {
	e := newEnv(t)
	f := e.f
	p := f.Program
	values := []reflection.Value{
		reflection.Invalid(),
		reflection.InvalidWith(&reflection.InvalidReflection{}),
		reflection.TypeValue(f.WidgetType),
		reflection.TypeValue(f.WType),
		reflection.TypeValue(f.ConstWidgetType),
		reflection.TypeValue(f.IntType),
		reflection.DeclValue(f.Answer),
		reflection.DeclValue(f.AnswerDef),
		reflection.DeclValue(f.Widget),
		reflection.DeclValue(p.TranslationUnit()),
		reflection.ExprValue(f.RefGlobal),
		reflection.BaseValue(f.DerivedBase),
	}
	for _, a := range values {
		if a.IsType() || a.IsDeclaration() || a.IsInvalid() {
			require.True(t, reflection.Equal(p, a, a), reflection.Describe(p, a))
		}
		for _, b := range values {
			require.Equal(t, reflection.Equal(p, a, b), reflection.Equal(p, b, a))
		}
	}
}
