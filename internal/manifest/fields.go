package manifest

import (
	"fmt"
	"strings"

	"reflq/internal/model"
)

func parseEnum[T any](s string, names map[string]T) (T, error) {
	if v, ok := names[s]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("unknown value %q", s)
}

var accessNames = map[string]model.Access{
	"":          model.AccessNone,
	"none":      model.AccessNone,
	"public":    model.AccessPublic,
	"private":   model.AccessPrivate,
	"protected": model.AccessProtected,
}

var linkageNames = map[string]model.Linkage{
	"":         model.LinkageNone,
	"none":     model.LinkageNone,
	"internal": model.LinkageInternal,
	"external": model.LinkageExternal,
}

var storageNames = map[string]model.StorageDuration{
	"":                model.StorageAutomatic,
	"automatic":       model.StorageAutomatic,
	"full_expression": model.StorageFullExpression,
	"static":          model.StorageStatic,
	"thread":          model.StorageThread,
	"dynamic":         model.StorageDynamic,
}

var tagNames = map[string]model.TagKind{
	"":       model.TagStruct,
	"struct": model.TagStruct,
	"class":  model.TagClass,
	"union":  model.TagUnion,
}

var specKindNames = map[string]model.SpecializationKind{
	"":                                   model.SpecUndeclared,
	"undeclared":                         model.SpecUndeclared,
	"implicit_instantiation":             model.SpecImplicitInstantiation,
	"explicit_specialization":            model.SpecExplicitSpecialization,
	"explicit_instantiation_declaration": model.SpecExplicitInstantiationDeclaration,
	"explicit_instantiation_definition":  model.SpecExplicitInstantiationDefinition,
}

var shapeNames = map[string]model.SpecializationShape{
	"":        model.ShapeNone,
	"none":    model.ShapeNone,
	"full":    model.ShapeFull,
	"partial": model.ShapePartial,
}

var categoryNames = map[string]model.ValueCategory{
	"":        model.PRValue,
	"prvalue": model.PRValue,
	"lvalue":  model.LValue,
	"xvalue":  model.XValue,
}

func parseAccess(s string) (model.Access, error)               { return parseEnum(s, accessNames) }
func parseLinkage(s string) (model.Linkage, error)             { return parseEnum(s, linkageNames) }
func parseStorage(s string) (model.StorageDuration, error)     { return parseEnum(s, storageNames) }
func parseTag(s string) (model.TagKind, error)                 { return parseEnum(s, tagNames) }
func parseSpecKind(s string) (model.SpecializationKind, error) { return parseEnum(s, specKindNames) }
func parseShape(s string) (model.SpecializationShape, error)   { return parseEnum(s, shapeNames) }
func parseCategory(s string) (model.ValueCategory, error)      { return parseEnum(s, categoryNames) }

// nameKind derives the kind of a declaration name from the declaration
// kind and its spelling.
func nameKind(kind model.DeclKind, name string) model.NameKind {
	switch kind {
	case model.DeclConstructor:
		return model.NameConstructor
	case model.DeclDestructor:
		return model.NameDestructor
	case model.DeclConversion:
		return model.NameConversion
	}
	if rest, ok := strings.CutPrefix(name, "operator"); ok && rest != "" && !isIdentByte(rest[0]) {
		return model.NameOperator
	}
	return model.NameIdentifier
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// constant converts the entry into a model constant. No value at all is
// the none constant.
func (v ValueEntry) constant() (model.ConstValue, error) {
	var out model.ConstValue
	set := 0
	if v.Int != nil {
		out, set = model.IntValue(*v.Int), set+1
	}
	if v.Bool != nil {
		out, set = model.BoolValue(*v.Bool), set+1
	}
	if v.Float != nil {
		out, set = model.FloatValue(*v.Float), set+1
	}
	if v.String != nil {
		out, set = model.StringValue(*v.String), set+1
	}
	if set > 1 {
		return model.ConstValue{}, fmt.Errorf("%d values given, at most one allowed", set)
	}
	return out, nil
}
