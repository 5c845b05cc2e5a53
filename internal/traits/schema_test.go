package traits

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVariableLayout(t *testing.T) {
	w := Variable.New().
		Set(FLinkage, LinkExternal).
		Set(FAccess, AccessPublic).
		Set(FStorage, StorageStatic).
		Flag(FConstexpr, true).
		Flag(FDefined, true).
		Word()
	// linkage 0-1, access 2-3, storage 4-5, constexpr 6, defined 7, inline 8
	require.Equal(t, uint32(0b0_1_1_01_01_10), w)

	r, err := Variable.Decode(w)
	require.NoError(t, err)
	require.Equal(t, LinkExternal, r.Get(FLinkage))
	require.Equal(t, AccessPublic, r.Get(FAccess))
	require.True(t, r.Bool(FConstexpr))
	require.True(t, r.Bool(FDefined))
	require.False(t, r.Bool(FInline))
	require.Equal(t, "variable{linkage=external access=public storage=static constexpr defined}", r.String())
}

func TestAccessRecordIsPadded(t *testing.T) {
	w := Access.New().Set(FKind, AccessProtected).Word()
	require.Equal(t, uint32(AccessProtected<<2), w)
	off, ok := Access.Offset(FKind)
	require.True(t, ok)
	require.Equal(t, uint(2), off)
}

func TestOffsets(t *testing.T) {
	cases := []struct {
		schema *Schema
		bits   uint
		want   map[string]uint
	}{
		{Method, 23, map[string]uint{
			FLinkage: 0, FAccess: 2, FKind: 4, FConstexpr: 6, FExplicit: 7, FVirtual: 8,
			FPure: 9, FFinal: 10, FOverride: 11, FNothrow: 12, FDefined: 13, FInline: 14,
			FDeleted: 15, FDefaulted: 16, FTrivial: 17, FDefaultCtor: 18, FCopyCtor: 19,
			FMoveCtor: 20, FCopyAssign: 21, FMoveAssign: 22,
		}},
		{Class, 11, map[string]uint{FKind: 4, FComplete: 6, FPolymorphic: 7, FAbstract: 8, FFinal: 9, FEmpty: 10}},
	}
	for _, tc := range cases {
		for name, off := range tc.want {
			got, ok := tc.schema.Offset(name)
			require.True(t, ok, "%s.%s", tc.schema.Name, name)
			require.Equal(t, off, got, "%s.%s", tc.schema.Name, name)
		}
		require.Equal(t, tc.bits, tc.schema.Bits(), tc.schema.Name)
	}
}

func TestRoundTripEverySchema(t *testing.T) {
	for _, s := range All() {
		require.LessOrEqual(t, s.Bits(), uint(Width), s.Name)
		r := s.New()
		for i, f := range s.Fields() {
			r.Set(f.Name, uint32(i)&mask(f.Width))
		}
		back, err := s.Decode(r.Word())
		require.NoError(t, err, s.Name)
		require.Equal(t, r.vals, back.vals, s.Name)
		require.Zero(t, r.Word()&s.ReservedMask(), s.Name)
	}
}

func TestDecodeRejectsReservedBits(t *testing.T) {
	_, err := FieldRecord.Decode(1 << 5)
	require.ErrorIs(t, err, ErrReservedBits)
	_, err = FieldRecord.Decode(1 << 4)
	require.NoError(t, err)
}

func TestSetRejectsOverflow(t *testing.T) {
	require.Panics(t, func() { Enum.New().Set(FScoped, 2) })
	require.Panics(t, func() { Enum.New().Set("nope", 0) })
}

func TestLookup(t *testing.T) {
	s, err := Lookup("method")
	require.NoError(t, err)
	require.Same(t, Method, s)
	_, err = Lookup("closure")
	require.ErrorIs(t, err, ErrUnknownSchema)
	require.Len(t, All(), 10)
}
