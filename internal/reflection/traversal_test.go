package reflection_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reflq/internal/model"
	"reflq/internal/reflection"
)

func TestTraversalTerminates(t *testing.T) {
	e := newEnv(t)
	f := e.f
	want := []model.DeclID{
		f.A, f.B, f.C, f.Count, f.DefaultCtor, f.CopyCtor, f.MoveCtor,
		f.Dtor, f.Draw, f.Assign, f.Make, f.ToBool, f.Mode,
	}

	var got []model.DeclID
	v, err := e.refl(reflection.TypeValue(f.WidgetType)).GetAssociated(reflection.GetBegin)
	require.NoError(t, err)
	for !v.IsInvalid() {
		got = append(got, v.Decl())
		v, err = e.refl(v).GetAssociated(reflection.GetNext)
		require.NoError(t, err)
	}
	require.Equal(t, want, got)
}

func TestGetNextOnEndValueFails(t *testing.T) {
	e := newEnv(t)
	f := e.f

	end, err := e.refl(reflection.DeclValue(f.Mode)).GetAssociated(reflection.GetNext)
	require.NoError(t, err)
	require.True(t, end.IsInvalid())

	for _, v := range []reflection.Value{end, reflection.Invalid()} {
		next, err := e.refl(v).GetAssociated(reflection.GetNext)
		require.ErrorIs(t, err, reflection.ErrNotReflectable)
		require.True(t, next.IsInvalid())
	}

	var n int
	for _, err := range e.refl(reflection.TypeValue(f.WidgetType)).Walk() {
		require.NoError(t, err)
		n++
	}
	require.Equal(t, 13, n)
}

func TestTraversalSkipsHiddenMembers(t *testing.T) {
	e := newEnv(t)
	f := e.f
	require.False(t, reflection.IsReflectable(f.Program, f.WidgetInjected))
	require.False(t, reflection.IsReflectable(f.Program, f.PublicSpec))
	require.True(t, reflection.IsReflectable(f.Program, f.A))

	v, err := e.refl(reflection.DeclValue(f.A)).GetAssociated(reflection.GetNext)
	require.NoError(t, err)
	require.Equal(t, f.B, v.Decl())
}

func TestGetBegin(t *testing.T) {
	e := newEnv(t)
	f := e.f
	cases := []struct {
		name    string
		of      reflection.Value
		want    model.DeclID // NoDeclID for the end value
		wantErr error
	}{
		{"function parameters", reflection.DeclValue(f.Run), f.Arg, nil},
		{"translation unit", reflection.DeclValue(f.Program.TranslationUnit()), f.N, nil},
		{"empty scope ends immediately", reflection.DeclValue(f.V1), model.NoDeclID, nil},
		{"variable has no scope", reflection.DeclValue(f.Global), model.NoDeclID, reflection.ErrNotReflectable},
		{"builtin type has no scope", reflection.TypeValue(f.IntType), model.NoDeclID, reflection.ErrNotReflectable},
	}
	for _, tc := range cases {
		v, err := e.refl(tc.of).GetAssociated(reflection.GetBegin)
		if tc.wantErr != nil {
			require.ErrorIs(t, err, tc.wantErr, tc.name)
			continue
		}
		require.NoError(t, err, tc.name)
		if tc.want == model.NoDeclID {
			require.True(t, v.IsInvalid(), tc.name)
			continue
		}
		require.Equal(t, tc.want, v.Decl(), tc.name)
	}
}

func TestMembersAndWalkAgree(t *testing.T) {
	e := newEnv(t)
	r := e.refl(reflection.DeclValue(e.f.Widget))

	var members []reflection.Value
	for m := range r.Members() {
		members = append(members, m.Value())
	}
	var walked []reflection.Value
	for m, err := range r.Walk() {
		require.NoError(t, err)
		walked = append(walked, m.Value())
	}
	require.Len(t, members, 13)
	require.Equal(t, members, walked)

	n := 0
	for range r.Members() {
		n++
		if n == 2 {
			break
		}
	}
	require.Equal(t, 2, n)

	for range e.refl(reflection.DeclValue(e.f.Global)).Members() {
		t.Fatal("a variable has no members")
	}
}

func TestWalkReportsFailure(t *testing.T) {
	e := newEnv(t)
	var errs int
	for _, err := range e.refl(reflection.ExprValue(e.f.Lit42)).Walk() {
		require.ErrorIs(t, err, reflection.ErrNotReflectable)
		errs++
	}
	require.Equal(t, 1, errs)
}
