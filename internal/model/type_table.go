package model

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for fundamental types.
type Builtins struct {
	Void    TypeID
	NullPtr TypeID
	Bool    TypeID
	Char    TypeID
	Short   TypeID
	Int     TypeID
	Long    TypeID
	UShort  TypeID
	UInt    TypeID
	ULong   TypeID
	Float   TypeID
	Double  TypeID
}

// TypeTable interns structural type descriptors. Canonical and unqualified
// forms are computed when a type is first interned, so lookups after
// construction never allocate.
type TypeTable struct {
	types    []Type
	canon    []TypeID
	unqual   []TypeID
	index    map[Type]TypeID
	fns      []FnInfo
	fnIndex  map[string]uint32
	builtins Builtins
}

func NewTypeTable() *TypeTable {
	tt := &TypeTable{
		types:   make([]Type, 1, 64), // 0 is the null type
		canon:   make([]TypeID, 1, 64),
		unqual:  make([]TypeID, 1, 64),
		index:   make(map[Type]TypeID, 64),
		fns:     make([]FnInfo, 1, 8),
		fnIndex: make(map[string]uint32, 8),
	}
	tt.builtins = Builtins{
		Void:    tt.Intern(Type{Kind: TypeVoid}),
		NullPtr: tt.Intern(Type{Kind: TypeNullPtr}),
		Bool:    tt.Intern(Type{Kind: TypeBool}),
		Char:    tt.Intern(Type{Kind: TypeChar}),
		Short:   tt.Intern(MakeInt(Width16)),
		Int:     tt.Intern(MakeInt(Width32)),
		Long:    tt.Intern(MakeInt(Width64)),
		UShort:  tt.Intern(MakeUint(Width16)),
		UInt:    tt.Intern(MakeUint(Width32)),
		ULong:   tt.Intern(MakeUint(Width64)),
		Float:   tt.Intern(MakeFloat(Width32)),
		Double:  tt.Intern(MakeFloat(Width64)),
	}
	return tt
}

func (tt *TypeTable) Builtins() Builtins { return tt.builtins }

// Len counts interned types excluding the null type.
func (tt *TypeTable) Len() int { return len(tt.types) - 1 }

// Intern returns the stable ID for t.
func (tt *TypeTable) Intern(t Type) TypeID {
	if t.Kind == TypeInvalid {
		return NoTypeID
	}
	if id, ok := tt.index[t]; ok {
		return id
	}
	return tt.internRaw(t)
}

func (tt *TypeTable) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(tt.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	tt.types = append(tt.types, t)
	tt.canon = append(tt.canon, id)
	tt.unqual = append(tt.unqual, id)
	tt.index[t] = id

	c := tt.computeCanonical(id)
	tt.canon[id] = c
	if ct := tt.types[c]; ct.Kind == TypeQualified {
		tt.unqual[id] = ct.Elem
	} else {
		tt.unqual[id] = c
	}
	return id
}

// Function interns a function type.
func (tt *TypeTable) Function(params []TypeID, result TypeID, noexcept bool) TypeID {
	key := fmt.Sprint(params, result, noexcept)
	slot, ok := tt.fnIndex[key]
	if !ok {
		n, err := safecast.Conv[uint32](len(tt.fns))
		if err != nil {
			panic(fmt.Errorf("fn info overflow: %w", err))
		}
		slot = n
		tt.fns = append(tt.fns, FnInfo{Params: slices.Clone(params), Result: result, Noexcept: noexcept})
		tt.fnIndex[key] = slot
	}
	return tt.Intern(Type{Kind: TypeFunction, Payload: slot})
}

// Record returns the type declared by a record; decl must be canonical.
func (tt *TypeTable) Record(decl DeclID) TypeID {
	return tt.Intern(Type{Kind: TypeRecord, Decl: decl})
}

// Enum returns the type declared by an enum; decl must be canonical.
func (tt *TypeTable) Enum(decl DeclID) TypeID {
	return tt.Intern(Type{Kind: TypeEnum, Decl: decl})
}

// Alias returns the sugar type introduced by a typedef declaration.
func (tt *TypeTable) Alias(decl DeclID, target TypeID) TypeID {
	return tt.Intern(Type{Kind: TypeAlias, Decl: decl, Elem: target})
}

// Dependent returns the type named by a template type parameter.
func (tt *TypeTable) Dependent(decl DeclID) TypeID {
	return tt.Intern(Type{Kind: TypeDependent, Decl: decl})
}

func (tt *TypeTable) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(tt.types) {
		return Type{}, false
	}
	return tt.types[id], true
}

func (tt *TypeTable) MustLookup(id TypeID) Type {
	t, ok := tt.Lookup(id)
	if !ok {
		panic("model: invalid TypeID")
	}
	return t
}

// FnInfo returns metadata of a function type (sugar is not looked through).
func (tt *TypeTable) FnInfo(id TypeID) (*FnInfo, bool) {
	t, ok := tt.Lookup(id)
	if !ok || t.Kind != TypeFunction || int(t.Payload) >= len(tt.fns) {
		return nil, false
	}
	return &tt.fns[t.Payload], true
}

// Canonical strips alias and location sugar recursively. Qualifiers are kept.
func (tt *TypeTable) Canonical(id TypeID) TypeID {
	if id == NoTypeID || int(id) >= len(tt.canon) {
		return NoTypeID
	}
	return tt.canon[id]
}

// CanonicalUnqualified is Canonical without top-level qualifiers.
func (tt *TypeTable) CanonicalUnqualified(id TypeID) TypeID {
	if id == NoTypeID || int(id) >= len(tt.unqual) {
		return NoTypeID
	}
	return tt.unqual[id]
}

// StripLocInfo removes location wrappers without touching other sugar.
func (tt *TypeTable) StripLocInfo(id TypeID) TypeID {
	for {
		t, ok := tt.Lookup(id)
		if !ok || t.Kind != TypeLocInfo {
			return id
		}
		id = t.Elem
	}
}

// TagDecl returns the record or enum declaration named by id, seeing
// through sugar and qualifiers.
func (tt *TypeTable) TagDecl(id TypeID) DeclID {
	t, ok := tt.Lookup(tt.CanonicalUnqualified(id))
	if !ok {
		return NoDeclID
	}
	if t.Kind == TypeRecord || t.Kind == TypeEnum {
		return t.Decl
	}
	return NoDeclID
}

// KindOf returns the kind of the canonical unqualified form.
func (tt *TypeTable) KindOf(id TypeID) TypeKind {
	t, ok := tt.Lookup(tt.CanonicalUnqualified(id))
	if !ok {
		return TypeInvalid
	}
	return t.Kind
}

func (tt *TypeTable) computeCanonical(id TypeID) TypeID {
	t := tt.types[id]
	switch t.Kind {
	case TypeAlias, TypeLocInfo:
		return tt.Canonical(t.Elem)
	case TypeQualified:
		elem := tt.Canonical(t.Elem)
		et := tt.types[elem]
		if et.Kind == TypeQualified {
			return tt.Intern(MakeQualified(et.Elem, et.Quals|t.Quals))
		}
		if elem == t.Elem {
			return id
		}
		return tt.Intern(MakeQualified(elem, t.Quals))
	case TypePointer, TypeLValueReference, TypeRValueReference, TypeArray:
		elem := tt.Canonical(t.Elem)
		if elem == t.Elem {
			return id
		}
		t.Elem = elem
		return tt.Intern(t)
	case TypeMemberObjectPointer, TypeMemberFunctionPointer:
		elem, class := tt.Canonical(t.Elem), tt.Canonical(t.Class)
		if elem == t.Elem && class == t.Class {
			return id
		}
		t.Elem, t.Class = elem, class
		return tt.Intern(t)
	case TypeFunction:
		info := tt.fns[t.Payload]
		params := make([]TypeID, len(info.Params))
		changed := false
		for i, p := range info.Params {
			params[i] = tt.Canonical(p)
			changed = changed || params[i] != p
		}
		result := tt.Canonical(info.Result)
		if !changed && result == info.Result {
			return id
		}
		return tt.Function(params, result, info.Noexcept)
	}
	return id
}
