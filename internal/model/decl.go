package model

import (
	"fmt"

	"reflq/internal/source"
)

// DeclKind is the exact subkind of a declaration.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclTranslationUnit
	DeclNamespace
	DeclNamespaceAlias
	DeclTypedef
	DeclTypeAlias
	DeclRecord
	DeclEnum
	DeclEnumConstant
	DeclField
	DeclVar
	DeclParmVar
	DeclFunction
	DeclMethod
	DeclConstructor
	DeclDestructor
	DeclConversion
	DeclAccessSpec
	DeclClassTemplate
	DeclFunctionTemplate
	DeclVarTemplate
	DeclAliasTemplate
	DeclConcept
	DeclTemplateTypeParm
	DeclNonTypeTemplateParm
	DeclTemplateTemplateParm
	DeclClassScopeFunctionSpecialization
)

var declKindNames = [...]string{
	DeclInvalid:                          "invalid",
	DeclTranslationUnit:                  "translation_unit",
	DeclNamespace:                        "namespace",
	DeclNamespaceAlias:                   "namespace_alias",
	DeclTypedef:                          "typedef",
	DeclTypeAlias:                        "type_alias",
	DeclRecord:                           "record",
	DeclEnum:                             "enum",
	DeclEnumConstant:                     "enumerator",
	DeclField:                            "field",
	DeclVar:                              "var",
	DeclParmVar:                          "parm_var",
	DeclFunction:                         "function",
	DeclMethod:                           "method",
	DeclConstructor:                      "constructor",
	DeclDestructor:                       "destructor",
	DeclConversion:                       "conversion",
	DeclAccessSpec:                       "access_spec",
	DeclClassTemplate:                    "class_template",
	DeclFunctionTemplate:                 "function_template",
	DeclVarTemplate:                      "var_template",
	DeclAliasTemplate:                    "alias_template",
	DeclConcept:                          "concept",
	DeclTemplateTypeParm:                 "template_type_parm",
	DeclNonTypeTemplateParm:              "non_type_template_parm",
	DeclTemplateTemplateParm:             "template_template_parm",
	DeclClassScopeFunctionSpecialization: "class_scope_function_specialization",
}

func (k DeclKind) String() string {
	if int(k) < len(declKindNames) {
		return declKindNames[k]
	}
	return fmt.Sprintf("DeclKind(%d)", k)
}

// ParseDeclKind maps a kind name back to its DeclKind.
func ParseDeclKind(s string) (DeclKind, bool) {
	for k, name := range declKindNames {
		if name == s && k != int(DeclInvalid) {
			return DeclKind(k), true
		}
	}
	return DeclInvalid, false
}

// IsVar covers variables and function parameters.
func (k DeclKind) IsVar() bool { return k == DeclVar || k == DeclParmVar }

// IsFunction covers free functions and every member function kind.
func (k DeclKind) IsFunction() bool {
	return k == DeclFunction || k.IsMethod()
}

func (k DeclKind) IsMethod() bool {
	switch k {
	case DeclMethod, DeclConstructor, DeclDestructor, DeclConversion:
		return true
	}
	return false
}

func (k DeclKind) IsTag() bool { return k == DeclRecord || k == DeclEnum }

func (k DeclKind) IsTypedefName() bool { return k == DeclTypedef || k == DeclTypeAlias }

// IsType reports declarations that introduce a type.
func (k DeclKind) IsType() bool {
	return k.IsTag() || k.IsTypedefName() || k == DeclTemplateTypeParm
}

// IsValue reports declarations that have a value type.
func (k DeclKind) IsValue() bool {
	switch k {
	case DeclEnumConstant, DeclField, DeclVar, DeclParmVar, DeclNonTypeTemplateParm:
		return true
	}
	return k.IsFunction()
}

// IsTemplate reports template declarations, template template
// parameters and concepts included.
func (k DeclKind) IsTemplate() bool {
	switch k {
	case DeclClassTemplate, DeclFunctionTemplate, DeclVarTemplate,
		DeclAliasTemplate, DeclConcept, DeclTemplateTemplateParm:
		return true
	}
	return false
}

func (k DeclKind) IsTemplateParameter() bool {
	switch k {
	case DeclTemplateTypeParm, DeclNonTypeTemplateParm, DeclTemplateTemplateParm:
		return true
	}
	return false
}

// IsContext reports declarations that own an ordered list of children.
func (k DeclKind) IsContext() bool {
	switch k {
	case DeclTranslationUnit, DeclNamespace, DeclRecord, DeclEnum:
		return true
	}
	return k.IsFunction()
}

// IsNamed is false for the few declarations that carry no name at all.
func (k DeclKind) IsNamed() bool {
	switch k {
	case DeclInvalid, DeclTranslationUnit, DeclAccessSpec, DeclClassScopeFunctionSpecialization:
		return false
	}
	return true
}

// NameKind distinguishes identifiers from special member names.
type NameKind uint8

const (
	NameIdentifier NameKind = iota
	NameConstructor
	NameDestructor
	NameConversion
	NameOperator
)

// Linkage is the formal linkage of a named declaration.
type Linkage uint8

const (
	LinkageNone Linkage = iota
	LinkageInternal
	LinkageExternal
)

func (l Linkage) String() string {
	switch l {
	case LinkageInternal:
		return "internal"
	case LinkageExternal:
		return "external"
	}
	return "none"
}

// Access is the member access of a declaration.
type Access uint8

const (
	AccessNone Access = iota
	AccessPublic
	AccessPrivate
	AccessProtected
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessPrivate:
		return "private"
	case AccessProtected:
		return "protected"
	}
	return "none"
}

// StorageDuration of a variable.
type StorageDuration uint8

const (
	StorageAutomatic StorageDuration = iota
	StorageFullExpression
	StorageStatic
	StorageThread
	StorageDynamic
)

// TagKind of a record or enum.
type TagKind uint8

const (
	TagStruct TagKind = iota
	TagClass
	TagUnion
	TagEnum
)

func (k TagKind) Keyword() string {
	switch k {
	case TagClass:
		return "class"
	case TagUnion:
		return "union"
	case TagEnum:
		return "enum"
	}
	return "struct"
}

// SpecializationKind classifies a templated entity.
type SpecializationKind uint8

const (
	SpecUndeclared SpecializationKind = iota
	SpecImplicitInstantiation
	SpecExplicitSpecialization
	SpecExplicitInstantiationDeclaration
	SpecExplicitInstantiationDefinition
)

// SpecializationShape says whether a declaration node is itself a template
// specialization, and of which form.
type SpecializationShape uint8

const (
	ShapeNone SpecializationShape = iota
	ShapeFull
	ShapePartial
)

// DeclFlags holds boolean properties of a declaration.
type DeclFlags uint32

const (
	FlagDefinition DeclFlags = 1 << iota
	FlagStatic
	FlagConstexpr
	FlagInline
	FlagDeleted
	FlagDefaulted
	FlagTrivial
	FlagVirtual
	FlagPure
	FlagFinal
	FlagOverride
	FlagExplicit
	FlagMutable
	FlagBitField
	FlagScoped
	FlagInjectedClassName
	FlagPolymorphic
	FlagAbstract
	FlagEmpty
	FlagDefaultCtor
	FlagCopyCtor
	FlagMoveCtor
	FlagCopyAssign
	FlagMoveAssign
)

var flagNames = []struct {
	flag DeclFlags
	name string
}{
	{FlagDefinition, "definition"},
	{FlagStatic, "static"},
	{FlagConstexpr, "constexpr"},
	{FlagInline, "inline"},
	{FlagDeleted, "deleted"},
	{FlagDefaulted, "defaulted"},
	{FlagTrivial, "trivial"},
	{FlagVirtual, "virtual"},
	{FlagPure, "pure"},
	{FlagFinal, "final"},
	{FlagOverride, "override"},
	{FlagExplicit, "explicit"},
	{FlagMutable, "mutable"},
	{FlagBitField, "bitfield"},
	{FlagScoped, "scoped"},
	{FlagInjectedClassName, "injected_class_name"},
	{FlagPolymorphic, "polymorphic"},
	{FlagAbstract, "abstract"},
	{FlagEmpty, "empty"},
	{FlagDefaultCtor, "default_ctor"},
	{FlagCopyCtor, "copy_ctor"},
	{FlagMoveCtor, "move_ctor"},
	{FlagCopyAssign, "copy_assign"},
	{FlagMoveAssign, "move_assign"},
}

// ParseFlag maps a flag name to its bit.
func ParseFlag(s string) (DeclFlags, bool) {
	for _, f := range flagNames {
		if f.name == s {
			return f.flag, true
		}
	}
	return 0, false
}

// Strings returns the textual labels of the set flags.
func (f DeclFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	for _, fl := range flagNames {
		if f&fl.flag != 0 {
			labels = append(labels, fl.name)
		}
	}
	return labels
}

func (f DeclFlags) Has(flag DeclFlags) bool { return f&flag == flag }

// Decl is one declaration node. Redeclarations are separate nodes sharing
// a Canonical ID (the first declaration).
type Decl struct {
	Kind     DeclKind
	Name     source.StringID
	NameKind NameKind
	Args     source.StringID // spelled template arguments of a specialization, e.g. "<int>"
	Span     source.Span

	Parent        DeclID // semantic context
	LexicalParent DeclID // lexical context, equal to Parent unless out-of-line
	Canonical     DeclID
	Target        DeclID // namespace alias target, template pattern

	Type     TypeID // value type, or the type a TypeDecl declares
	Access   Access
	Linkage  Linkage
	Storage  StorageDuration
	Tag      TagKind
	SpecKind SpecializationKind
	Shape    SpecializationShape
	Flags    DeclFlags
	Attrs    []UserAttr

	children []DeclID
	slot     uint32 // index inside the lexical parent's children
}

// Identifier reports the plain identifier of the declaration. Special
// member names and unnamed declarations have none.
func (d *Decl) Identifier() (source.StringID, bool) {
	if d == nil || !d.Kind.IsNamed() || d.NameKind != NameIdentifier || d.Name == source.NoStringID {
		return source.NoStringID, false
	}
	return d.Name, true
}

func (d *Decl) Is(flag DeclFlags) bool { return d != nil && d.Flags.Has(flag) }
