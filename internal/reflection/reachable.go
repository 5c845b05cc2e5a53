package reflection

import "reflq/internal/model"

// reachableDecl projects the value onto the nearest declaration: itself,
// the tag a type names, or the target of a declaration reference.
func (r Reflection) reachableDecl() (model.DeclID, *model.Decl) {
	var id model.DeclID
	switch r.val.Kind() {
	case KindDeclaration:
		id = r.val.Decl()
	case KindType:
		id = r.ctx.TagDecl(r.val.Type())
	case KindExpression:
		if e := r.ctx.Expr(r.val.Expr()); e != nil && e.Kind == model.ExprDeclRef {
			id = e.Decl
		}
	}
	d := r.ctx.Decl(id)
	if d == nil {
		return model.NoDeclID, nil
	}
	return id, d
}

// reachableKind returns the reachable declaration only when its kind
// satisfies pred.
func (r Reflection) reachableKind(pred func(model.DeclKind) bool) (model.DeclID, *model.Decl) {
	id, d := r.reachableDecl()
	if d == nil || !pred(d.Kind) {
		return model.NoDeclID, nil
	}
	return id, d
}

func isKind(k model.DeclKind) func(model.DeclKind) bool {
	return func(got model.DeclKind) bool { return got == k }
}

func (r Reflection) reachableRecord() *model.Decl {
	_, d := r.reachableKind(isKind(model.DeclRecord))
	return d
}

func (r Reflection) reachableEnum() *model.Decl {
	_, d := r.reachableKind(isKind(model.DeclEnum))
	return d
}

func (r Reflection) reachableMethod() *model.Decl {
	_, d := r.reachableKind(model.DeclKind.IsMethod)
	return d
}

func (r Reflection) reachableConstructor() *model.Decl {
	_, d := r.reachableKind(isKind(model.DeclConstructor))
	return d
}

// reachableTemplatePattern returns the pattern of a function template.
func (r Reflection) reachableTemplatePattern() *model.Decl {
	_, tmpl := r.reachableKind(isKind(model.DeclFunctionTemplate))
	if tmpl == nil {
		return nil
	}
	return r.ctx.Decl(tmpl.Target)
}

// canonicalType returns the canonical unqualified type descriptor of a
// type reflection.
func (r Reflection) canonicalType() (model.Type, bool) {
	if !r.val.IsType() {
		return model.Type{}, false
	}
	return r.ctx.Type(r.ctx.CanonicalUnqualifiedType(r.val.Type()))
}

func (r Reflection) expr() *model.Expr {
	if !r.val.IsExpression() {
		return nil
	}
	return r.ctx.Expr(r.val.Expr())
}

// specializationKind reads the specialization kind from the families that
// carry one.
func specializationKind(d *model.Decl) model.SpecializationKind {
	if d == nil {
		return model.SpecUndeclared
	}
	switch {
	case d.Kind == model.DeclRecord, d.Kind == model.DeclEnum, d.Kind.IsVar(), d.Kind.IsFunction():
		return d.SpecKind
	}
	return model.SpecUndeclared
}
