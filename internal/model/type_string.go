package model

import (
	"strconv"
	"strings"
)

// Policy controls type printing.
type Policy struct {
	// SuppressTagKeyword prints `Widget` instead of `class Widget`.
	SuppressTagKeyword bool
	// SuppressScope drops enclosing namespace and class names.
	SuppressScope bool
}

// TypeString renders id in declarator syntax, e.g. `const int *`,
// `void (*)(int)` or `int Widget::*`. Location wrappers are transparent.
func (p *Program) TypeString(id TypeID, pol Policy) string {
	if id == NoTypeID {
		return "<null type>"
	}
	return p.printType(id, 0, "", pol)
}

func (p *Program) printType(id TypeID, quals Quals, inner string, pol Policy) string {
	t, ok := p.Types.Lookup(id)
	if !ok {
		return "<invalid type>"
	}
	switch t.Kind {
	case TypeLocInfo:
		return p.printType(t.Elem, quals, inner, pol)
	case TypeQualified:
		return p.printType(t.Elem, quals|t.Quals, inner, pol)
	case TypePointer:
		return p.printType(t.Elem, 0, p.wrapDeclarator(t.Elem, "*", quals, inner), pol)
	case TypeLValueReference:
		return p.printType(t.Elem, 0, p.wrapDeclarator(t.Elem, "&", 0, inner), pol)
	case TypeRValueReference:
		return p.printType(t.Elem, 0, p.wrapDeclarator(t.Elem, "&&", 0, inner), pol)
	case TypeMemberObjectPointer, TypeMemberFunctionPointer:
		class := p.printType(t.Class, 0, "", Policy{SuppressTagKeyword: true, SuppressScope: pol.SuppressScope})
		return p.printType(t.Elem, 0, p.wrapDeclarator(t.Elem, class+"::*", quals, inner), pol)
	case TypeArray:
		bound := "[]"
		if t.Count != ArrayUnknownBound {
			bound = "[" + strconv.FormatUint(uint64(t.Count), 10) + "]"
		}
		return p.printType(t.Elem, quals, inner+bound, pol)
	case TypeFunction:
		info, _ := p.Types.FnInfo(id)
		var sb strings.Builder
		sb.WriteString(inner)
		sb.WriteByte('(')
		for i, param := range info.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.printType(param, 0, "", pol))
		}
		sb.WriteByte(')')
		if info.Noexcept {
			sb.WriteString(" noexcept")
		}
		return p.printType(info.Result, 0, sb.String(), pol)
	}
	return joinDeclarator(qualPrefix(quals)+p.leafName(t, pol), inner)
}

// wrapDeclarator builds the declarator for a pointer-like level. Functions
// and arrays need parentheses: `int (*)[3]`.
func (p *Program) wrapDeclarator(elem TypeID, op string, quals Quals, inner string) string {
	s := op
	if quals != 0 {
		s += quals.String()
		if inner != "" {
			s += " "
		}
	}
	s += inner
	switch p.Types.KindOf(elem) {
	case TypeFunction, TypeArray:
		if et, ok := p.Types.Lookup(p.Types.StripLocInfo(elem)); ok && et.Kind != TypeAlias {
			return "(" + s + ")"
		}
	}
	return s
}

func (p *Program) leafName(t Type, pol Policy) string {
	switch t.Kind {
	case TypeVoid:
		return "void"
	case TypeNullPtr:
		return "std::nullptr_t"
	case TypeBool:
		return "bool"
	case TypeChar:
		return "char"
	case TypeInt:
		switch t.Width {
		case Width8:
			return "signed char"
		case Width16:
			return "short"
		case Width64:
			return "long"
		}
		return "int"
	case TypeUint:
		switch t.Width {
		case Width8:
			return "unsigned char"
		case Width16:
			return "unsigned short"
		case Width64:
			return "unsigned long"
		}
		return "unsigned int"
	case TypeFloat:
		if t.Width == Width32 {
			return "float"
		}
		return "double"
	case TypeRecord, TypeEnum:
		name := p.declName(t.Decl, pol)
		if pol.SuppressTagKeyword {
			return name
		}
		if d := p.Decl(t.Decl); d != nil {
			return d.Tag.Keyword() + " " + name
		}
		return name
	case TypeAlias:
		return p.declName(t.Decl, pol)
	case TypeDependent:
		return p.Name(t.Decl)
	}
	return "<" + t.Kind.String() + ">"
}

func (p *Program) declName(id DeclID, pol Policy) string {
	if pol.SuppressScope {
		if name := p.Name(id); name != "" {
			return name + p.Strings.MustLookup(p.Decl(id).Args)
		}
		return "(anonymous)"
	}
	name := p.QualifiedName(id)
	if name == "" || strings.HasSuffix(name, "::") {
		return name + "(anonymous)"
	}
	return name
}

func qualPrefix(q Quals) string {
	if q == 0 {
		return ""
	}
	return q.String() + " "
}

func joinDeclarator(base, inner string) string {
	if inner == "" {
		return base
	}
	return base + " " + inner
}
