package reflection

import (
	"fmt"

	"reflq/internal/model"
)

// Kind is the outer kind of a reflection value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindType
	KindDeclaration
	KindExpression
	KindBaseSpecifier
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindDeclaration:
		return "declaration"
	case KindExpression:
		return "expression"
	case KindBaseSpecifier:
		return "base"
	}
	return "invalid"
}

// InvalidReflection carries the diagnostic expression explaining why a
// reflection failed. A nil *InvalidReflection is a silent invalid value.
type InvalidReflection struct {
	ErrorMessage model.ExprID
}

// Value is an evaluated reflection: an immutable tagged union that is cheap
// to copy. The zero Value is the silent invalid reflection.
type Value struct {
	kind    Kind
	typ     model.TypeID
	decl    model.DeclID
	expr    model.ExprID
	base    model.BaseID
	invalid *InvalidReflection
}

// Invalid returns the silent invalid reflection.
func Invalid() Value { return Value{} }

func InvalidWith(info *InvalidReflection) Value { return Value{invalid: info} }

// TypeValue reflects t. A null type yields an invalid reflection.
func TypeValue(t model.TypeID) Value {
	if !t.IsValid() {
		return Invalid()
	}
	return Value{kind: KindType, typ: t}
}

// DeclValue reflects d. A null declaration yields an invalid reflection.
func DeclValue(d model.DeclID) Value {
	if !d.IsValid() {
		return Invalid()
	}
	return Value{kind: KindDeclaration, decl: d}
}

func ExprValue(e model.ExprID) Value {
	if !e.IsValid() {
		return Invalid()
	}
	return Value{kind: KindExpression, expr: e}
}

func BaseValue(b model.BaseID) Value {
	if !b.IsValid() {
		return Invalid()
	}
	return Value{kind: KindBaseSpecifier, base: b}
}

func (v Value) Kind() Kind            { return v.kind }
func (v Value) IsInvalid() bool       { return v.kind == KindInvalid }
func (v Value) IsType() bool          { return v.kind == KindType }
func (v Value) IsDeclaration() bool   { return v.kind == KindDeclaration }
func (v Value) IsExpression() bool    { return v.kind == KindExpression }
func (v Value) IsBaseSpecifier() bool { return v.kind == KindBaseSpecifier }

// InvalidInfo returns the carried diagnostic, usually nil.
func (v Value) InvalidInfo() *InvalidReflection {
	v.must(KindInvalid)
	return v.invalid
}

func (v Value) Type() model.TypeID {
	v.must(KindType)
	return v.typ
}

func (v Value) Decl() model.DeclID {
	v.must(KindDeclaration)
	return v.decl
}

func (v Value) Expr() model.ExprID {
	v.must(KindExpression)
	return v.expr
}

func (v Value) Base() model.BaseID {
	v.must(KindBaseSpecifier)
	return v.base
}

func (v Value) String() string {
	switch v.kind {
	case KindType:
		return fmt.Sprintf("type#%d", v.typ)
	case KindDeclaration:
		return fmt.Sprintf("decl#%d", v.decl)
	case KindExpression:
		return fmt.Sprintf("expr#%d", v.expr)
	case KindBaseSpecifier:
		return fmt.Sprintf("base#%d", v.base)
	}
	return "invalid"
}

func (v Value) must(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("reflection: value is %s, not %s", v.kind, k))
	}
}
