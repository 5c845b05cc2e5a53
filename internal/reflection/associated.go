package reflection

import "reflq/internal/model"

// GetAssociated derives a related reflection. Inapplicable queries fail;
// running off the end of a scope yields an invalid reflection instead.
// That end value reaches no declaration, so GetNext on it fails with
// ErrNotReflectable rather than yielding the end again. Walk stops at the
// end value and never issues that query.
func (r Reflection) GetAssociated(q Query) (Value, error) {
	mustBand(q, BandAssociated)
	switch q {
	case GetEntity:
		return r.entity(q)
	case GetParent:
		if _, d := r.reachableDecl(); d != nil {
			return DeclValue(d.Parent), nil
		}
	case GetType:
		if e := r.expr(); e != nil {
			return TypeValue(e.Type), nil
		}
		if _, d := r.reachableDecl(); d != nil && (d.Kind.IsType() || d.Kind.IsValue()) {
			return TypeValue(d.Type), nil
		}
	case GetReturnType:
		if id, d := r.reachableKind(model.DeclKind.IsFunction); d != nil {
			return TypeValue(r.ctx.ReturnType(id)), nil
		}
	case GetThisRefType:
		return Invalid(), r.unimplemented(q)
	case GetDefinition:
		if r.val.IsType() {
			if def := r.ctx.Definition(r.ctx.TagDecl(r.val.Type())); def.IsValid() {
				return DeclValue(def), nil
			}
		}
	case GetBegin:
		if id, d := r.reachableKind(model.DeclKind.IsContext); d != nil {
			return DeclValue(first(reflectable(r.ctx, r.ctx.Members(id)))), nil
		}
	case GetNext:
		if id, d := r.reachableDecl(); d != nil {
			return DeclValue(first(reflectable(r.ctx, r.ctx.Following(id)))), nil
		}
	default:
		panic("reflection: unhandled associated query " + q.String())
	}
	return Invalid(), r.fail(q)
}

// entity canonicalizes the reflected construct.
func (r Reflection) entity(q Query) (Value, error) {
	switch r.val.Kind() {
	case KindType:
		return TypeValue(r.ctx.CanonicalType(r.val.Type())), nil
	case KindDeclaration:
		return DeclValue(r.ctx.CanonicalDecl(r.val.Decl())), nil
	case KindExpression:
		if id, _ := r.reachableDecl(); id.IsValid() {
			return DeclValue(id), nil
		}
	case KindBaseSpecifier:
		if b := r.ctx.Base(r.val.Base()); b != nil {
			return TypeValue(r.ctx.CanonicalType(b.Type)), nil
		}
	}
	return Invalid(), r.fail(q)
}
