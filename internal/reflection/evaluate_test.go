package reflection_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"reflq/internal/model"
	"reflq/internal/reflection"
	"reflq/internal/source"
)

func sampleValues(e *env) []reflection.Value {
	f := e.f
	values := []reflection.Value{
		reflection.Invalid(),
		reflection.InvalidWith(&reflection.InvalidReflection{ErrorMessage: f.LitStr}),
		reflection.ExprValue(f.RefGlobal),
		reflection.ExprValue(f.Lit42),
		reflection.ExprValue(f.MoveExpr),
		reflection.BaseValue(f.DerivedBase),
	}
	for _, typ := range []model.TypeID{
		f.WidgetType, f.ConstWidgetType, f.WType, f.IntType, f.WidgetPtrType, f.IntArrayType,
		f.FnPtrType, f.MemberPtrType, f.MemberFnPtrType, f.IntLRefType, f.IntRRefType,
	} {
		values = append(values, reflection.TypeValue(typ))
	}
	for id := model.DeclID(1); int(id) <= f.Program.DeclCount(); id++ {
		values = append(values, reflection.DeclValue(id))
	}
	return values
}

func TestEveryQueryIsTotal(t *testing.T) {
	e := newEnv(t)
	tag := reflection.TypeValue(e.f.TagType)
	for _, v := range sampleValues(e) {
		for _, q := range reflection.Queries() {
			before := e.bag.Len()
			var res reflection.Result
			require.NotPanics(t, func() { res = e.refl(v).Evaluate(q, tag) }, "%s on %s", q, v)
			require.Equal(t, q, res.Query)
			added := e.bag.Len() - before
			require.LessOrEqual(t, added, 1, "%s on %s", q, v)
			if res.Err == nil {
				require.Zero(t, added, "%s on %s succeeded with a diagnostic", q, v)
				if q.IsTrait() {
					require.NotNil(t, res.Traits)
				}
				continue
			}
			require.True(t,
				errors.Is(res.Err, reflection.ErrNotReflectable) ||
					errors.Is(res.Err, reflection.ErrUnimplemented) ||
					errors.Is(res.Err, reflection.ErrNoAttribute),
				"%s on %s: %v", q, v, res.Err)
		}
	}
}

func TestDiagnosticsCarryQuerySpan(t *testing.T) {
	e := newEnv(t)
	span := source.Span{File: 1, Start: 4, End: 9}
	r := e.refl(reflection.Invalid()).At(span)
	_, err := r.GetName(reflection.GetName)
	require.Error(t, err)
	require.Equal(t, 1, e.bag.Len())
	require.Equal(t, span, e.bag.Items()[0].Primary)
}

func TestFailuresWithoutReporter(t *testing.T) {
	f := newEnv(t).f
	r := reflection.New(f.Program, reflection.Invalid())
	_, err := r.GetTraits(reflection.GetDeclTraits)
	require.ErrorIs(t, err, reflection.ErrNotReflectable)
	_, err = r.GetAssociated(reflection.GetThisRefType)
	require.ErrorIs(t, err, reflection.ErrUnimplemented)
}
