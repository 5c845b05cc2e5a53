package model

import "fmt"

// TypeKind enumerates the type categories of the program model.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	TypeVoid
	TypeNullPtr
	TypeBool
	TypeChar
	TypeInt
	TypeUint
	TypeFloat
	TypeRecord
	TypeEnum
	TypeFunction
	TypeArray
	TypePointer
	TypeLValueReference
	TypeRValueReference
	TypeMemberObjectPointer
	TypeMemberFunctionPointer
	TypeAlias     // typedef sugar; Decl names the alias declaration
	TypeQualified // cv sugar over Elem
	TypeLocInfo   // source-location wrapper, transparent to queries
	TypeDependent // template type parameter
)

var typeKindNames = [...]string{
	TypeInvalid:               "invalid",
	TypeVoid:                  "void",
	TypeNullPtr:               "nullptr",
	TypeBool:                  "bool",
	TypeChar:                  "char",
	TypeInt:                   "int",
	TypeUint:                  "uint",
	TypeFloat:                 "float",
	TypeRecord:                "record",
	TypeEnum:                  "enum",
	TypeFunction:              "function",
	TypeArray:                 "array",
	TypePointer:               "pointer",
	TypeLValueReference:       "lvalue_reference",
	TypeRValueReference:       "rvalue_reference",
	TypeMemberObjectPointer:   "member_object_pointer",
	TypeMemberFunctionPointer: "member_function_pointer",
	TypeAlias:                 "alias",
	TypeQualified:             "qualified",
	TypeLocInfo:               "locinfo",
	TypeDependent:             "dependent",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return fmt.Sprintf("TypeKind(%d)", k)
}

// Width is the precision of integer and floating types.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// Quals is a set of cv-qualifiers.
type Quals uint8

const (
	QualConst Quals = 1 << iota
	QualVolatile
)

func (q Quals) String() string {
	switch q {
	case QualConst:
		return "const"
	case QualVolatile:
		return "volatile"
	case QualConst | QualVolatile:
		return "const volatile"
	}
	return ""
}

// ArrayUnknownBound marks T[].
const ArrayUnknownBound = ^uint32(0)

// Type is a compact structural descriptor.
type Type struct {
	Kind    TypeKind
	Elem    TypeID // pointee, element, sugar target, member pointee
	Class   TypeID // owning class of member pointers
	Decl    DeclID // record/enum (canonical decl), alias or template parameter decl
	Count   uint32 // array bound
	Width   Width
	Quals   Quals  // for TypeQualified
	Payload uint32 // function info slot
}

// FnInfo describes a function type.
type FnInfo struct {
	Params   []TypeID
	Result   TypeID
	Noexcept bool
}

func MakeInt(w Width) Type   { return Type{Kind: TypeInt, Width: w} }
func MakeUint(w Width) Type  { return Type{Kind: TypeUint, Width: w} }
func MakeFloat(w Width) Type { return Type{Kind: TypeFloat, Width: w} }

func MakePointer(elem TypeID) Type { return Type{Kind: TypePointer, Elem: elem} }

func MakeLValueRef(elem TypeID) Type { return Type{Kind: TypeLValueReference, Elem: elem} }

func MakeRValueRef(elem TypeID) Type { return Type{Kind: TypeRValueReference, Elem: elem} }

func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: TypeArray, Elem: elem, Count: count}
}

func MakeQualified(elem TypeID, q Quals) Type {
	return Type{Kind: TypeQualified, Elem: elem, Quals: q}
}

func MakeLocInfo(elem TypeID) Type { return Type{Kind: TypeLocInfo, Elem: elem} }

// MakeMemberPointer describes `Elem Class::*`. A function pointee yields a
// member function pointer.
func MakeMemberPointer(class, elem TypeID, fn bool) Type {
	kind := TypeMemberObjectPointer
	if fn {
		kind = TypeMemberFunctionPointer
	}
	return Type{Kind: kind, Class: class, Elem: elem}
}

// IsSugar reports whether the kind is transparent for canonicalization.
func (k TypeKind) IsSugar() bool {
	return k == TypeAlias || k == TypeLocInfo
}

// IsIntegral reports integral or enumeration kinds.
func (k TypeKind) IsIntegral() bool {
	switch k {
	case TypeBool, TypeChar, TypeInt, TypeUint, TypeEnum:
		return true
	}
	return false
}
