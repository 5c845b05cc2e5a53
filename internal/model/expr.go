package model

import (
	"fmt"
	"strconv"

	"reflq/internal/source"
)

// ExprKind is the node class of an expression.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprDeclRef
	ExprIntegerLiteral
	ExprFixedPointLiteral
	ExprFloatingLiteral
	ExprCharacterLiteral
	ExprImaginaryLiteral
	ExprStringLiteral
	ExprCompoundLiteral
	ExprUserDefinedLiteral
	ExprBoolLiteral
	ExprNullPtrLiteral
	ExprCall
	ExprOther
)

var exprKindNames = [...]string{
	ExprInvalid:            "invalid",
	ExprDeclRef:            "decl_ref",
	ExprIntegerLiteral:     "integer_literal",
	ExprFixedPointLiteral:  "fixed_point_literal",
	ExprFloatingLiteral:    "floating_literal",
	ExprCharacterLiteral:   "character_literal",
	ExprImaginaryLiteral:   "imaginary_literal",
	ExprStringLiteral:      "string_literal",
	ExprCompoundLiteral:    "compound_literal",
	ExprUserDefinedLiteral: "user_defined_literal",
	ExprBoolLiteral:        "bool_literal",
	ExprNullPtrLiteral:     "nullptr_literal",
	ExprCall:               "call",
	ExprOther:              "other",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return fmt.Sprintf("ExprKind(%d)", k)
}

func ParseExprKind(s string) (ExprKind, bool) {
	for k, name := range exprKindNames {
		if name == s && k != int(ExprInvalid) {
			return ExprKind(k), true
		}
	}
	return ExprInvalid, false
}

// IsLiteral reports literal node classes.
func (k ExprKind) IsLiteral() bool {
	switch k {
	case ExprIntegerLiteral, ExprFixedPointLiteral, ExprFloatingLiteral,
		ExprCharacterLiteral, ExprImaginaryLiteral, ExprStringLiteral,
		ExprCompoundLiteral, ExprUserDefinedLiteral, ExprBoolLiteral,
		ExprNullPtrLiteral:
		return true
	}
	return false
}

// ValueCategory of an expression.
type ValueCategory uint8

const (
	PRValue ValueCategory = iota
	LValue
	XValue
)

func (c ValueCategory) String() string {
	switch c {
	case LValue:
		return "lvalue"
	case XValue:
		return "xvalue"
	}
	return "prvalue"
}

// Expr is an expression node.
type Expr struct {
	Kind     ExprKind
	Name     source.StringID // script-visible label
	Category ValueCategory
	Type     TypeID
	Decl     DeclID // referenced declaration of a DeclRef
	Value    ConstValue
	Span     source.Span
}

// BaseSpecifier is one entry of a class base list.
type BaseSpecifier struct {
	Owner   DeclID
	Type    TypeID
	Virtual bool
	Access  Access
	Span    source.Span
}

// ValueKind tags a ConstValue.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueInt
	ValueBool
	ValueFloat
	ValueString
)

// ConstValue is a compile-time constant carried by literals and attributes.
type ConstValue struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Str   string
}

func IntValue(v int64) ConstValue { return ConstValue{Kind: ValueInt, Int: v} }
func BoolValue(v bool) ConstValue { return ConstValue{Kind: ValueBool, Int: boolToInt(v)} }
func FloatValue(v float64) ConstValue { return ConstValue{Kind: ValueFloat, Float: v} }
func StringValue(v string) ConstValue { return ConstValue{Kind: ValueString, Str: v} }
func (v ConstValue) IsNone() bool { return v.Kind == ValueNone }
func (v ConstValue) Bool() bool { return v.Int != 0 }

func (v ConstValue) String() string {
	switch v.Kind {
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueBool:
		return strconv.FormatBool(v.Int != 0)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ValueString:
		return strconv.Quote(v.Str)
	}
	return "<none>"
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// UserAttr is a user-defined attribute: a typed constant attached to a
// declaration.
type UserAttr struct {
	Type  TypeID
	Value ConstValue
}
