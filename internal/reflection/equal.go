package reflection

// Equal compares two reflections by canonical identity. Values of
// different kinds are unequal and all invalid values are equal. Types
// compare by canonical type, cv-qualifiers included, and declarations by
// canonical declaration. Expressions and base specifiers have no
// canonical form and never compare equal, not even to themselves.
func Equal(ctx Model, a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindInvalid:
		return true
	case KindType:
		return ctx.CanonicalType(a.Type()) == ctx.CanonicalType(b.Type())
	case KindDeclaration:
		return ctx.CanonicalDecl(a.Decl()) == ctx.CanonicalDecl(b.Decl())
	}
	return false
}
