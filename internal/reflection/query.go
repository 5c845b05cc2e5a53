package reflection

import "fmt"

// Query selects one question from the closed catalogue. The numbering is
// grouped into contiguous bands so that band membership is a range check.
type Query uint8

const (
	QueryUnknown Query = iota

	IsInvalid
	IsEntity
	IsUnnamed

	// Declarations
	IsVariable
	IsFunction
	IsClass
	IsUnion
	IsUnscopedEnum
	IsScopedEnum
	IsEnumerator
	IsBitfield
	IsStaticDataMember
	IsNonstaticDataMember
	IsStaticMemberFunction
	IsNonstaticMemberFunction
	IsCopyAssignmentOperator
	IsMoveAssignmentOperator
	IsConstructor
	IsDefaultConstructor
	IsCopyConstructor
	IsMoveConstructor
	IsDestructor

	// Types
	IsType
	IsFunctionType
	IsClassType
	IsUnionType
	IsEnumType
	IsScopedEnumType
	IsVoidType
	IsNullPointerType
	IsIntegralType
	IsFloatingPointType
	IsArrayType
	IsPointerType
	IsLValueReferenceType
	IsRValueReferenceType
	IsMemberObjectPointerType
	IsMemberFunctionPointerType
	IsClosureType

	// Namespaces and aliases
	IsNamespace
	IsNamespaceAlias
	IsTypeAlias

	// Templates and specializations
	IsTemplate
	IsClassTemplate
	IsAliasTemplate
	IsFunctionTemplate
	IsVariableTemplate
	IsStaticMemberFunctionTemplate
	IsNonstaticMemberFunctionTemplate
	IsConstructorTemplate
	IsDestructorTemplate
	IsConcept
	IsSpecialization
	IsPartialSpecialization
	IsExplicitSpecialization
	IsImplicitInstantiation
	IsExplicitInstantiation

	// Base class specifiers
	IsDirectBase
	IsVirtualBase

	// Parameters
	IsFunctionParameter
	IsTemplateParameter
	IsTypeTemplateParameter
	IsNontypeTemplateParameter
	IsTemplateTemplateParameter

	// Expressions
	IsExpression
	IsLValue
	IsXValue
	IsRValue
	IsValue

	// Scope
	IsLocal
	IsClassMember

	HasDefaultAccess

	// Traits
	GetDeclTraits
	GetLinkageTraits
	GetAccessTraits
	GetTypeTraits

	// Associated reflections
	GetEntity
	GetParent
	GetType
	GetReturnType
	GetThisRefType
	GetDefinition
	GetBegin
	GetNext // fails on the invalid end value

	// Names
	GetName
	GetDisplayName

	GetAttribute
	HasAttribute

	queryEnd
)

// Band boundaries.
const (
	FirstPredicate = IsInvalid
	LastPredicate  = HasDefaultAccess
	FirstTrait     = GetDeclTraits
	LastTrait      = GetTypeTraits
	FirstAssoc     = GetEntity
	LastAssoc      = GetNext
	FirstName      = GetName
	LastName       = GetDisplayName
)

// Band is the result family of a query.
type Band uint8

const (
	BandNone Band = iota
	BandPredicate
	BandTrait
	BandAssociated
	BandName
	BandAttribute
)

func (b Band) String() string {
	switch b {
	case BandPredicate:
		return "predicate"
	case BandTrait:
		return "trait"
	case BandAssociated:
		return "associated"
	case BandName:
		return "name"
	case BandAttribute:
		return "attribute"
	}
	return "none"
}

func (q Query) IsPredicate() bool  { return FirstPredicate <= q && q <= LastPredicate }
func (q Query) IsTrait() bool      { return FirstTrait <= q && q <= LastTrait }
func (q Query) IsAssociated() bool { return FirstAssoc <= q && q <= LastAssoc }
func (q Query) IsName() bool       { return FirstName <= q && q <= LastName }
func (q Query) IsAttribute() bool  { return q == GetAttribute || q == HasAttribute }

func (q Query) Band() Band {
	switch {
	case q.IsPredicate():
		return BandPredicate
	case q.IsTrait():
		return BandTrait
	case q.IsAssociated():
		return BandAssociated
	case q.IsName():
		return BandName
	case q.IsAttribute():
		return BandAttribute
	}
	return BandNone
}

var queryNames = [...]string{
	QueryUnknown:                      "unknown",
	IsInvalid:                         "is_invalid",
	IsEntity:                          "is_entity",
	IsUnnamed:                         "is_unnamed",
	IsVariable:                        "is_variable",
	IsFunction:                        "is_function",
	IsClass:                           "is_class",
	IsUnion:                           "is_union",
	IsUnscopedEnum:                    "is_unscoped_enum",
	IsScopedEnum:                      "is_scoped_enum",
	IsEnumerator:                      "is_enumerator",
	IsBitfield:                        "is_bitfield",
	IsStaticDataMember:                "is_static_data_member",
	IsNonstaticDataMember:             "is_nonstatic_data_member",
	IsStaticMemberFunction:            "is_static_member_function",
	IsNonstaticMemberFunction:         "is_nonstatic_member_function",
	IsCopyAssignmentOperator:          "is_copy_assignment_operator",
	IsMoveAssignmentOperator:          "is_move_assignment_operator",
	IsConstructor:                     "is_constructor",
	IsDefaultConstructor:              "is_default_constructor",
	IsCopyConstructor:                 "is_copy_constructor",
	IsMoveConstructor:                 "is_move_constructor",
	IsDestructor:                      "is_destructor",
	IsType:                            "is_type",
	IsFunctionType:                    "is_function_type",
	IsClassType:                       "is_class_type",
	IsUnionType:                       "is_union_type",
	IsEnumType:                        "is_enum_type",
	IsScopedEnumType:                  "is_scoped_enum_type",
	IsVoidType:                        "is_void_type",
	IsNullPointerType:                 "is_null_pointer_type",
	IsIntegralType:                    "is_integral_type",
	IsFloatingPointType:               "is_floating_point_type",
	IsArrayType:                       "is_array_type",
	IsPointerType:                     "is_pointer_type",
	IsLValueReferenceType:             "is_lvalue_reference_type",
	IsRValueReferenceType:             "is_rvalue_reference_type",
	IsMemberObjectPointerType:         "is_member_object_pointer_type",
	IsMemberFunctionPointerType:       "is_member_function_pointer_type",
	IsClosureType:                     "is_closure_type",
	IsNamespace:                       "is_namespace",
	IsNamespaceAlias:                  "is_namespace_alias",
	IsTypeAlias:                       "is_type_alias",
	IsTemplate:                        "is_template",
	IsClassTemplate:                   "is_class_template",
	IsAliasTemplate:                   "is_alias_template",
	IsFunctionTemplate:                "is_function_template",
	IsVariableTemplate:                "is_variable_template",
	IsStaticMemberFunctionTemplate:    "is_static_member_function_template",
	IsNonstaticMemberFunctionTemplate: "is_nonstatic_member_function_template",
	IsConstructorTemplate:             "is_constructor_template",
	IsDestructorTemplate:              "is_destructor_template",
	IsConcept:                         "is_concept",
	IsSpecialization:                  "is_specialization",
	IsPartialSpecialization:           "is_partial_specialization",
	IsExplicitSpecialization:          "is_explicit_specialization",
	IsImplicitInstantiation:           "is_implicit_instantiation",
	IsExplicitInstantiation:           "is_explicit_instantiation",
	IsDirectBase:                      "is_direct_base",
	IsVirtualBase:                     "is_virtual_base",
	IsFunctionParameter:               "is_function_parameter",
	IsTemplateParameter:               "is_template_parameter",
	IsTypeTemplateParameter:           "is_type_template_parameter",
	IsNontypeTemplateParameter:        "is_nontype_template_parameter",
	IsTemplateTemplateParameter:       "is_template_template_parameter",
	IsExpression:                      "is_expression",
	IsLValue:                          "is_lvalue",
	IsXValue:                          "is_xvalue",
	IsRValue:                          "is_rvalue",
	IsValue:                           "is_value",
	IsLocal:                           "is_local",
	IsClassMember:                     "is_class_member",
	HasDefaultAccess:                  "has_default_access",
	GetDeclTraits:                     "get_decl_traits",
	GetLinkageTraits:                  "get_linkage_traits",
	GetAccessTraits:                   "get_access_traits",
	GetTypeTraits:                     "get_type_traits",
	GetEntity:                         "get_entity",
	GetParent:                         "get_parent",
	GetType:                           "get_type",
	GetReturnType:                     "get_return_type",
	GetThisRefType:                    "get_this_ref_type",
	GetDefinition:                     "get_definition",
	GetBegin:                          "get_begin",
	GetNext:                           "get_next",
	GetName:                           "get_name",
	GetDisplayName:                    "get_display_name",
	GetAttribute:                      "get_attribute",
	HasAttribute:                      "has_attribute",
}

var queryByName = func() map[string]Query {
	m := make(map[string]Query, len(queryNames))
	for q, name := range queryNames {
		if Query(q) != QueryUnknown {
			m[name] = Query(q)
		}
	}
	return m
}()

func (q Query) String() string {
	if int(q) < len(queryNames) {
		return queryNames[q]
	}
	return fmt.Sprintf("Query(%d)", q)
}

// ParseQuery maps a catalogue name such as "is_class" to its Query.
func ParseQuery(name string) (Query, bool) {
	q, ok := queryByName[name]
	return q, ok
}

// Queries returns the whole catalogue in numeric order.
func Queries() []Query {
	out := make([]Query, 0, int(queryEnd)-1)
	for q := FirstPredicate; q < queryEnd; q++ {
		out = append(out, q)
	}
	return out
}
