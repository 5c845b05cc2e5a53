package traits

import "sort"

// Enumerated field values.
const (
	LinkNone uint32 = iota
	LinkInternal
	LinkExternal
)

const (
	AccessNone uint32 = iota
	AccessPublic
	AccessPrivate
	AccessProtected
)

const (
	StorageAutomatic uint32 = iota
	StorageStatic
	StorageThread
	StorageDynamic
)

const (
	KindMethod uint32 = iota
	KindConstructor
	KindDestructor
	KindConversion
)

const (
	ClassStruct uint32 = iota
	ClassClass
	ClassUnion
)

// Field names shared across records.
const (
	FLinkage     = "linkage"
	FAccess      = "access"
	FKind        = "kind"
	FStorage     = "storage"
	FPadding     = "padding"
	FConstexpr   = "constexpr"
	FDefined     = "defined"
	FInline      = "inline"
	FMutable     = "mutable"
	FNothrow     = "nothrow"
	FDeleted     = "deleted"
	FExplicit    = "explicit"
	FVirtual     = "virtual"
	FPure        = "pure"
	FFinal       = "final"
	FOverride    = "override"
	FDefaulted   = "defaulted"
	FTrivial     = "trivial"
	FDefaultCtor = "default_ctor"
	FCopyCtor    = "copy_ctor"
	FMoveCtor    = "move_ctor"
	FCopyAssign  = "copy_assign"
	FMoveAssign  = "move_assign"
	FScoped      = "scoped"
	FComplete    = "complete"
	FPolymorphic = "polymorphic"
	FAbstract    = "abstract"
	FEmpty       = "empty"
)

func flag(name string) Field { return Field{Name: name, Width: 1, Type: TypeFlag} }

var (
	linkageField = Field{Name: FLinkage, Width: 2, Type: TypeLinkage}
	accessField  = Field{Name: FAccess, Width: 2, Type: TypeAccess}
)

var (
	Variable = newSchema("variable",
		linkageField, accessField,
		Field{Name: FStorage, Width: 2, Type: TypeStorage},
		flag(FConstexpr), flag(FDefined), flag(FInline))

	FieldRecord = newSchema("field",
		linkageField, accessField,
		flag(FMutable))

	Function = newSchema("function",
		linkageField, accessField,
		flag(FConstexpr), flag(FNothrow), flag(FDefined), flag(FInline), flag(FDeleted))

	Method = newSchema("method",
		linkageField, accessField,
		Field{Name: FKind, Width: 2, Type: TypeMethodKind},
		flag(FConstexpr), flag(FExplicit), flag(FVirtual), flag(FPure), flag(FFinal), flag(FOverride),
		flag(FNothrow), flag(FDefined), flag(FInline), flag(FDeleted), flag(FDefaulted), flag(FTrivial),
		flag(FDefaultCtor), flag(FCopyCtor), flag(FMoveCtor), flag(FCopyAssign), flag(FMoveAssign))

	Value = newSchema("value",
		linkageField, accessField)

	Namespace = newSchema("namespace",
		linkageField, accessField,
		flag(FInline))

	Linkage = newSchema("linkage",
		Field{Name: FKind, Width: 2, Type: TypeLinkage})

	Access = newSchema("access",
		Field{Name: FPadding, Width: 2, Type: TypePadding},
		Field{Name: FKind, Width: 2, Type: TypeAccess})

	Class = newSchema("class",
		linkageField, accessField,
		Field{Name: FKind, Width: 2, Type: TypeClassKind},
		flag(FComplete), flag(FPolymorphic), flag(FAbstract), flag(FFinal), flag(FEmpty))

	Enum = newSchema("enum",
		linkageField, accessField,
		flag(FScoped), flag(FComplete))
)

var byName = func() map[string]*Schema {
	m := make(map[string]*Schema)
	for _, s := range []*Schema{Variable, FieldRecord, Function, Method, Value, Namespace, Linkage, Access, Class, Enum} {
		m[s.Name] = s
	}
	return m
}()

// Lookup returns the schema with the given name.
func Lookup(name string) (*Schema, error) {
	s, ok := byName[name]
	if !ok {
		return nil, ErrUnknownSchema
	}
	return s, nil
}

// All returns every schema sorted by name.
func All() []*Schema {
	out := make([]*Schema, 0, len(byName))
	for _, s := range byName {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
