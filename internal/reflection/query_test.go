package reflection_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reflq/internal/reflection"
)

func TestBandsAreContiguousAndDisjoint(t *testing.T) {
	prev := reflection.BandPredicate
	seen := map[reflection.Band]bool{}
	for _, q := range reflection.Queries() {
		b := q.Band()
		require.NotEqual(t, reflection.BandNone, b, q.String())
		if b != prev {
			require.False(t, seen[b], "band %s reopened at %s", b, q)
			seen[prev] = true
			prev = b
		}
	}
	require.Equal(t, reflection.BandAttribute, prev)

	require.Equal(t, reflection.BandNone, reflection.QueryUnknown.Band())
	require.True(t, reflection.FirstPredicate.IsPredicate())
	require.True(t, reflection.LastPredicate.IsPredicate())
	require.False(t, reflection.FirstTrait.IsPredicate())
	require.True(t, reflection.LastAssoc.IsAssociated())
	require.False(t, reflection.FirstName.IsAssociated())
}

func TestParseQueryRoundTrip(t *testing.T) {
	for _, q := range reflection.Queries() {
		got, ok := reflection.ParseQuery(q.String())
		require.True(t, ok, q.String())
		require.Equal(t, q, got)
	}
	_, ok := reflection.ParseQuery("is_banana")
	require.False(t, ok)
	_, ok = reflection.ParseQuery("unknown")
	require.False(t, ok)
}

func TestOutOfBandQueryPanics(t *testing.T) {
	e := newEnv(t)
	r := e.refl(reflection.DeclValue(e.f.Widget))
	require.Panics(t, func() { _, _ = r.EvaluatePredicate(reflection.GetName) })
	require.Panics(t, func() { _, _ = r.GetTraits(reflection.IsClass) })
	require.Panics(t, func() { _, _ = r.GetAssociated(reflection.GetDeclTraits) })
	require.Panics(t, func() { _, _ = r.GetName(reflection.GetParent) })
	require.Panics(t, func() { r.Evaluate(reflection.QueryUnknown, reflection.Invalid()) })
}
