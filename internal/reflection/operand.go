package reflection

import (
	"fmt"

	"reflq/internal/model"
)

// OperandKind is what the reflection operator was applied to.
type OperandKind uint8

const (
	OperandType OperandKind = iota
	OperandTemplate
	OperandNamespace
	OperandExpression

	OperandInvalid
	OperandDeclaration
	OperandBaseSpecifier
)

func (k OperandKind) String() string {
	switch k {
	case OperandType:
		return "type"
	case OperandTemplate:
		return "template"
	case OperandNamespace:
		return "namespace"
	case OperandExpression:
		return "expression"
	case OperandDeclaration:
		return "declaration"
	case OperandBaseSpecifier:
		return "base"
	}
	return "invalid"
}

// IsParseable reports kinds that can be written in source; the others are
// only synthesized during evaluation.
func (k OperandKind) IsParseable() bool { return k <= OperandExpression }

// Operand is the pre-evaluation form of a reflection. Kind and payload
// always agree.
type Operand struct {
	kind    OperandKind
	typ     model.TypeID
	decl    model.DeclID // template or declaration
	ns      NamespaceName
	expr    model.ExprID
	base    model.BaseID
	invalid *InvalidReflection
}

// InvalidOperand wraps an optional diagnostic.
func InvalidOperand(info *InvalidReflection) Operand {
	return Operand{kind: OperandInvalid, invalid: info}
}

func TypeOperand(t model.TypeID) Operand { return Operand{kind: OperandType, typ: t} }

// TemplateOperand names a template declaration.
func TemplateOperand(d model.DeclID) Operand { return Operand{kind: OperandTemplate, decl: d} }

func NamespaceOperand(n NamespaceName) Operand {
	n.Namespace() // rejects the zero name
	return Operand{kind: OperandNamespace, ns: n}
}

func ExprOperand(e model.ExprID) Operand { return Operand{kind: OperandExpression, expr: e} }

func DeclOperand(d model.DeclID) Operand { return Operand{kind: OperandDeclaration, decl: d} }

func BaseOperand(b model.BaseID) Operand { return Operand{kind: OperandBaseSpecifier, base: b} }

func (o Operand) Kind() OperandKind { return o.kind }

func (o Operand) IsInvalid() bool { return o.kind == OperandInvalid }

func (o Operand) AsInvalid() *InvalidReflection {
	o.must(OperandInvalid)
	return o.invalid
}

func (o Operand) AsType() model.TypeID {
	o.must(OperandType)
	return o.typ
}

func (o Operand) AsTemplate() model.DeclID {
	o.must(OperandTemplate)
	return o.decl
}

func (o Operand) AsNamespace() NamespaceName {
	o.must(OperandNamespace)
	return o.ns
}

func (o Operand) AsExpression() model.ExprID {
	o.must(OperandExpression)
	return o.expr
}

func (o Operand) AsDeclaration() model.DeclID {
	o.must(OperandDeclaration)
	return o.decl
}

func (o Operand) AsBaseSpecifier() model.BaseID {
	o.must(OperandBaseSpecifier)
	return o.base
}

// Reflect evaluates the operand. Namespace names reflect as their
// namespace declaration (or the translation unit), template names as the
// template declaration.
func (o Operand) Reflect() Value {
	switch o.kind {
	case OperandType:
		return TypeValue(o.typ)
	case OperandTemplate, OperandDeclaration:
		return DeclValue(o.decl)
	case OperandNamespace:
		return DeclValue(o.ns.Namespace())
	case OperandExpression:
		return ExprValue(o.expr)
	case OperandBaseSpecifier:
		return BaseValue(o.base)
	}
	return InvalidWith(o.invalid)
}

func (o Operand) must(k OperandKind) {
	if o.kind != k {
		panic(fmt.Sprintf("reflection: operand is %s, not %s", o.kind, k))
	}
}
