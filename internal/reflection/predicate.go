package reflection

import "reflq/internal/model"

// EvaluatePredicate answers a predicate query. A predicate that does not
// apply to the reflected entity answers false; only is_unnamed and the
// unimplemented placeholders fail. Passing a query from another band
// panics.
func (r Reflection) EvaluatePredicate(q Query) (bool, error) {
	mustBand(q, BandPredicate)
	switch q {
	case IsInvalid:
		return r.val.IsInvalid(), nil
	case IsEntity:
		return r.isEntity(), nil
	case IsUnnamed:
		return r.isUnnamed(q)

	case IsVariable:
		return r.reachableIs(model.DeclKind.IsVar), nil
	case IsFunction:
		return r.reachableIs(model.DeclKind.IsFunction), nil
	case IsClass:
		d := r.reachableRecord()
		return d != nil && d.Tag != model.TagUnion, nil
	case IsUnion:
		d := r.reachableRecord()
		return d != nil && d.Tag == model.TagUnion, nil
	case IsUnscopedEnum:
		d := r.reachableEnum()
		return d != nil && !d.Is(model.FlagScoped), nil
	case IsScopedEnum:
		d := r.reachableEnum()
		return d != nil && d.Is(model.FlagScoped), nil
	case IsEnumerator:
		return r.reachableIs(isKind(model.DeclEnumConstant)), nil
	case IsBitfield:
		_, d := r.reachableKind(isKind(model.DeclField))
		return d.Is(model.FlagBitField), nil
	case IsStaticDataMember:
		return r.isStaticDataMember(), nil
	case IsNonstaticDataMember:
		return r.reachableIs(isKind(model.DeclField)), nil
	case IsStaticMemberFunction:
		d := r.reachableMethod()
		return d != nil && d.Is(model.FlagStatic), nil
	case IsNonstaticMemberFunction:
		d := r.reachableMethod()
		return d != nil && !d.Is(model.FlagStatic), nil
	case IsCopyAssignmentOperator:
		return r.reachableMethod().Is(model.FlagCopyAssign), nil
	case IsMoveAssignmentOperator:
		return r.reachableMethod().Is(model.FlagMoveAssign), nil
	case IsConstructor:
		return r.reachableConstructor() != nil, nil
	case IsDefaultConstructor:
		return r.reachableConstructor().Is(model.FlagDefaultCtor), nil
	case IsCopyConstructor:
		return r.reachableConstructor().Is(model.FlagCopyCtor), nil
	case IsMoveConstructor:
		return r.reachableConstructor().Is(model.FlagMoveCtor), nil
	case IsDestructor:
		return r.reachableIs(isKind(model.DeclDestructor)), nil

	case IsType:
		return r.val.IsType(), nil
	case IsFunctionType, IsClassType, IsUnionType, IsEnumType, IsScopedEnumType,
		IsVoidType, IsNullPointerType, IsIntegralType, IsFloatingPointType,
		IsArrayType, IsPointerType, IsLValueReferenceType, IsRValueReferenceType,
		IsMemberObjectPointerType, IsMemberFunctionPointerType:
		return r.typePredicate(q), nil
	case IsClosureType:
		return false, r.unimplemented(q)

	case IsNamespace:
		return r.reachableIs(func(k model.DeclKind) bool {
			return k == model.DeclNamespace || k == model.DeclTranslationUnit
		}), nil
	case IsNamespaceAlias:
		return r.reachableIs(isKind(model.DeclNamespaceAlias)), nil
	case IsTypeAlias:
		return r.reachableIs(model.DeclKind.IsTypedefName), nil

	case IsTemplate:
		return r.reachableIs(model.DeclKind.IsTemplate), nil
	case IsClassTemplate:
		return r.reachableIs(isKind(model.DeclClassTemplate)), nil
	case IsAliasTemplate:
		return r.reachableIs(isKind(model.DeclAliasTemplate)), nil
	case IsFunctionTemplate:
		return r.reachableIs(isKind(model.DeclFunctionTemplate)), nil
	case IsVariableTemplate:
		return r.reachableIs(isKind(model.DeclVarTemplate)), nil
	case IsStaticMemberFunctionTemplate:
		p := r.templateMethod()
		return p != nil && p.Is(model.FlagStatic), nil
	case IsNonstaticMemberFunctionTemplate:
		p := r.templateMethod()
		return p != nil && !p.Is(model.FlagStatic), nil
	case IsConstructorTemplate:
		p := r.templateMethod()
		return p != nil && p.Kind == model.DeclConstructor, nil
	case IsDestructorTemplate:
		p := r.templateMethod()
		return p != nil && p.Kind == model.DeclDestructor, nil
	case IsConcept:
		return r.reachableIs(isKind(model.DeclConcept)), nil
	case IsSpecialization:
		d := r.reachable()
		return d != nil && isSpecialization(d), nil
	case IsPartialSpecialization:
		d := r.reachable()
		return d != nil && isPartialSpecialization(d), nil
	case IsExplicitSpecialization:
		return r.specKind() == model.SpecExplicitSpecialization, nil
	case IsImplicitInstantiation:
		return r.specKind() == model.SpecImplicitInstantiation, nil
	case IsExplicitInstantiation:
		k := r.specKind()
		return k == model.SpecExplicitInstantiationDeclaration ||
			k == model.SpecExplicitInstantiationDefinition, nil

	case IsDirectBase, IsVirtualBase, IsFunctionParameter:
		return false, r.unimplemented(q)
	case IsTemplateParameter:
		return r.reachableIs(model.DeclKind.IsTemplateParameter), nil
	case IsTypeTemplateParameter:
		return r.reachableIs(isKind(model.DeclTemplateTypeParm)), nil
	case IsNontypeTemplateParameter:
		return r.reachableIs(isKind(model.DeclNonTypeTemplateParm)), nil
	case IsTemplateTemplateParameter:
		return r.reachableIs(isKind(model.DeclTemplateTemplateParm)), nil

	case IsExpression:
		return r.val.IsExpression(), nil
	case IsLValue:
		e := r.expr()
		return e != nil && e.Category == model.LValue, nil
	case IsXValue:
		e := r.expr()
		return e != nil && e.Category == model.XValue, nil
	case IsRValue:
		e := r.expr()
		return e != nil && e.Category == model.PRValue, nil
	case IsValue:
		e := r.expr()
		return e != nil && e.Kind.IsLiteral(), nil

	case IsLocal:
		ctx := r.lexicalRedeclContext()
		return ctx != nil && ctx.Kind.IsFunction(), nil
	case IsClassMember:
		ctx := r.lexicalRedeclContext()
		return ctx != nil && ctx.Kind == model.DeclRecord, nil

	case HasDefaultAccess:
		return r.hasDefaultAccess(), nil
	}
	panic("reflection: unhandled predicate " + q.String())
}

// reachableIs tests the kind of the reachable declaration.
func (r Reflection) reachableIs(pred func(model.DeclKind) bool) bool {
	_, d := r.reachableDecl()
	return d != nil && pred(d.Kind)
}

func (r Reflection) reachable() *model.Decl {
	_, d := r.reachableDecl()
	return d
}

func (r Reflection) isEntity() bool {
	switch r.val.Kind() {
	case KindType:
		return true
	case KindDeclaration:
		d := r.ctx.Decl(r.val.Decl())
		if d == nil {
			return false
		}
		switch {
		case d.Kind.IsValue():
			return true
		case d.Kind.IsTemplate():
			return d.Kind != model.DeclTemplateTemplateParm
		}
		return d.Kind == model.DeclNamespace
	}
	return false
}

// isUnnamed applies to declaration reflections only, and fails rather than
// answering false for anything else.
func (r Reflection) isUnnamed(q Query) (bool, error) {
	if r.val.IsDeclaration() {
		if d := r.ctx.Decl(r.val.Decl()); d != nil && d.Kind.IsNamed() {
			_, ok := d.Identifier()
			return !ok, nil
		}
	}
	return false, r.fail(q)
}

func (r Reflection) isStaticDataMember() bool {
	_, d := r.reachableKind(isKind(model.DeclVar))
	if d == nil {
		return false
	}
	parent := r.ctx.Decl(r.ctx.RedeclContext(d.Parent))
	return parent != nil && parent.Kind == model.DeclRecord
}

// templateMethod returns the member function pattern of a function
// template.
func (r Reflection) templateMethod() *model.Decl {
	p := r.reachableTemplatePattern()
	if p == nil || !p.Kind.IsMethod() {
		return nil
	}
	return p
}

func isSpecialization(d *model.Decl) bool {
	switch d.Kind {
	case model.DeclRecord, model.DeclVar:
		return d.Shape != model.ShapeNone
	case model.DeclClassScopeFunctionSpecialization:
		return true
	}
	return false
}

func isPartialSpecialization(d *model.Decl) bool {
	switch d.Kind {
	case model.DeclRecord, model.DeclVar:
		return d.Shape == model.ShapePartial
	}
	return false
}

func (r Reflection) specKind() model.SpecializationKind {
	return specializationKind(r.reachable())
}

func (r Reflection) typePredicate(q Query) bool {
	t, ok := r.canonicalType()
	if !ok {
		return false
	}
	switch q {
	case IsFunctionType:
		return t.Kind == model.TypeFunction
	case IsClassType:
		return t.Kind == model.TypeRecord
	case IsUnionType:
		if t.Kind != model.TypeRecord {
			return false
		}
		d := r.ctx.Decl(t.Decl)
		return d != nil && d.Tag == model.TagUnion
	case IsEnumType:
		return t.Kind == model.TypeEnum
	case IsScopedEnumType:
		if t.Kind != model.TypeEnum {
			return false
		}
		return r.ctx.Decl(t.Decl).Is(model.FlagScoped)
	case IsVoidType:
		return t.Kind == model.TypeVoid
	case IsNullPointerType:
		return t.Kind == model.TypeNullPtr
	case IsIntegralType:
		if t.Kind == model.TypeEnum {
			return r.ctx.Definition(t.Decl).IsValid()
		}
		return t.Kind.IsIntegral()
	case IsFloatingPointType:
		return t.Kind == model.TypeFloat
	case IsArrayType:
		return t.Kind == model.TypeArray
	case IsPointerType:
		return t.Kind == model.TypePointer
	case IsLValueReferenceType:
		return t.Kind == model.TypeLValueReference
	case IsRValueReferenceType:
		return t.Kind == model.TypeRValueReference
	case IsMemberObjectPointerType:
		return t.Kind == model.TypeMemberObjectPointer
	case IsMemberFunctionPointerType:
		return t.Kind == model.TypeMemberFunctionPointer
	}
	return false
}

// lexicalRedeclContext returns the lexical scope of the reachable
// declaration with transparent contexts skipped.
func (r Reflection) lexicalRedeclContext() *model.Decl {
	d := r.reachable()
	if d == nil {
		return nil
	}
	return r.ctx.Decl(r.ctx.RedeclContext(d.LexicalParent))
}

// hasDefaultAccess scans the enclosing record from the start: the target
// has default access when it precedes every access specifier.
func (r Reflection) hasDefaultAccess() bool {
	id, d := r.reachableDecl()
	if d == nil {
		return false
	}
	parent := r.ctx.Decl(d.Parent)
	if parent == nil || parent.Kind != model.DeclRecord {
		return false
	}
	for member := range r.ctx.Members(d.Parent) {
		if m := r.ctx.Decl(member); m != nil && m.Kind == model.DeclAccessSpec {
			return false
		}
		if member == id {
			return true
		}
	}
	return false
}
