package reflection

import (
	"reflq/internal/model"
	"reflq/internal/traits"
)

// GetTraits packs the trait record selected by q into its carrier word.
// Entities without a matching record fail; there is no zero default.
func (r Reflection) GetTraits(q Query) (uint32, error) {
	rec, err := r.GetTraitRecord(q)
	if err != nil {
		return 0, err
	}
	return rec.Word(), nil
}

// GetTraitRecord is GetTraits without the final packing step.
func (r Reflection) GetTraitRecord(q Query) (*traits.Record, error) {
	mustBand(q, BandTrait)
	var rec *traits.Record
	switch q {
	case GetDeclTraits:
		if id, d := r.reachableDecl(); d != nil {
			rec = r.declTraits(id, d)
		}
	case GetLinkageTraits:
		if _, d := r.reachableDecl(); d != nil && d.Kind.IsNamed() {
			rec = traits.Linkage.New().Set(traits.FKind, linkageTrait(d.Linkage))
		}
	case GetAccessTraits:
		if _, d := r.reachableDecl(); d != nil {
			rec = traits.Access.New().Set(traits.FKind, accessTrait(d.Access))
		}
	case GetTypeTraits:
		rec = r.typeTraits()
	default:
		panic("reflection: unhandled trait query " + q.String())
	}
	if rec == nil {
		return nil, r.fail(q)
	}
	return rec, nil
}

func (r Reflection) declTraits(id model.DeclID, d *model.Decl) *traits.Record {
	switch {
	case d.Kind.IsVar():
		return r.variableTraits(id, d)
	case d.Kind == model.DeclField:
		return withCommon(traits.FieldRecord, d).
			Flag(traits.FMutable, d.Is(model.FlagMutable))
	case d.Kind.IsMethod():
		return r.methodTraits(id, d)
	case d.Kind == model.DeclFunction:
		return withCommon(traits.Function, d).
			Flag(traits.FConstexpr, d.Is(model.FlagConstexpr)).
			Flag(traits.FNothrow, r.ctx.Nothrow(id)).
			Flag(traits.FDefined, r.defined(id)).
			Flag(traits.FInline, d.Is(model.FlagInline)).
			Flag(traits.FDeleted, d.Is(model.FlagDeleted))
	case d.Kind == model.DeclEnumConstant:
		return withCommon(traits.Value, d)
	case d.Kind == model.DeclNamespace:
		return withCommon(traits.Namespace, d).
			Flag(traits.FInline, d.Is(model.FlagInline))
	}
	return nil
}

func (r Reflection) variableTraits(id model.DeclID, d *model.Decl) *traits.Record {
	return withCommon(traits.Variable, d).
		Set(traits.FStorage, storageTrait(d.Storage)).
		Flag(traits.FConstexpr, d.Is(model.FlagConstexpr)).
		Flag(traits.FDefined, r.defined(id)).
		Flag(traits.FInline, d.Is(model.FlagInline))
}

// methodTraits fills the member-function record. Each member kind only
// reports the flags that are meaningful for it.
func (r Reflection) methodTraits(id model.DeclID, d *model.Decl) *traits.Record {
	rec := withCommon(traits.Method, d).
		Flag(traits.FNothrow, r.ctx.Nothrow(id)).
		Flag(traits.FDefined, r.defined(id)).
		Flag(traits.FInline, d.Is(model.FlagInline)).
		Flag(traits.FDeleted, d.Is(model.FlagDeleted))

	virtual := func() {
		rec.Flag(traits.FVirtual, d.Is(model.FlagVirtual)).
			Flag(traits.FPure, d.Is(model.FlagPure)).
			Flag(traits.FFinal, d.Is(model.FlagFinal)).
			Flag(traits.FOverride, d.Is(model.FlagOverride))
	}
	special := func() {
		rec.Flag(traits.FDefaulted, d.Is(model.FlagDefaulted)).
			Flag(traits.FTrivial, d.Is(model.FlagTrivial))
	}

	switch d.Kind {
	case model.DeclConstructor:
		rec.Set(traits.FKind, traits.KindConstructor).
			Flag(traits.FConstexpr, d.Is(model.FlagConstexpr)).
			Flag(traits.FDefaultCtor, d.Is(model.FlagDefaultCtor)).
			Flag(traits.FCopyCtor, d.Is(model.FlagCopyCtor)).
			Flag(traits.FMoveCtor, d.Is(model.FlagMoveCtor))
		special()
	case model.DeclDestructor:
		rec.Set(traits.FKind, traits.KindDestructor)
		virtual()
		special()
	case model.DeclConversion:
		rec.Set(traits.FKind, traits.KindConversion).
			Flag(traits.FConstexpr, d.Is(model.FlagConstexpr)).
			Flag(traits.FExplicit, d.Is(model.FlagExplicit))
		virtual()
	default:
		rec.Set(traits.FKind, traits.KindMethod).
			Flag(traits.FConstexpr, d.Is(model.FlagConstexpr)).
			Flag(traits.FCopyAssign, d.Is(model.FlagCopyAssign)).
			Flag(traits.FMoveAssign, d.Is(model.FlagMoveAssign))
		virtual()
	}
	return rec
}

// typeTraits describes the class or enum named by a type reflection.
func (r Reflection) typeTraits() *traits.Record {
	if !r.val.IsType() {
		return nil
	}
	id := r.ctx.TagDecl(r.ctx.CanonicalType(r.val.Type()))
	d := r.ctx.Decl(id)
	if d == nil {
		return nil
	}
	complete := r.defined(id)
	switch d.Kind {
	case model.DeclRecord:
		rec := withCommon(traits.Class, d).
			Set(traits.FKind, classKindTrait(d.Tag)).
			Flag(traits.FComplete, complete)
		if complete {
			def := r.ctx.Decl(r.ctx.Definition(id))
			rec.Flag(traits.FPolymorphic, def.Is(model.FlagPolymorphic)).
				Flag(traits.FAbstract, def.Is(model.FlagAbstract)).
				Flag(traits.FFinal, def.Is(model.FlagFinal)).
				Flag(traits.FEmpty, def.Is(model.FlagEmpty))
		}
		return rec
	case model.DeclEnum:
		return withCommon(traits.Enum, d).
			Flag(traits.FScoped, d.Is(model.FlagScoped)).
			Flag(traits.FComplete, complete)
	}
	return nil
}

func (r Reflection) defined(id model.DeclID) bool {
	return r.ctx.Definition(id).IsValid()
}

// withCommon starts a record with the leading linkage and access fields.
func withCommon(s *traits.Schema, d *model.Decl) *traits.Record {
	return s.New().
		Set(traits.FLinkage, linkageTrait(d.Linkage)).
		Set(traits.FAccess, accessTrait(d.Access))
}

func linkageTrait(l model.Linkage) uint32 {
	switch l {
	case model.LinkageInternal:
		return traits.LinkInternal
	case model.LinkageExternal:
		return traits.LinkExternal
	}
	return traits.LinkNone
}

func accessTrait(a model.Access) uint32 {
	switch a {
	case model.AccessPublic:
		return traits.AccessPublic
	case model.AccessPrivate:
		return traits.AccessPrivate
	case model.AccessProtected:
		return traits.AccessProtected
	}
	return traits.AccessNone
}

// storageTrait folds full-expression temporaries into automatic storage.
func storageTrait(s model.StorageDuration) uint32 {
	switch s {
	case model.StorageStatic:
		return traits.StorageStatic
	case model.StorageThread:
		return traits.StorageThread
	case model.StorageDynamic:
		return traits.StorageDynamic
	}
	return traits.StorageAutomatic
}

func classKindTrait(t model.TagKind) uint32 {
	switch t {
	case model.TagClass:
		return traits.ClassClass
	case model.TagUnion:
		return traits.ClassUnion
	}
	return traits.ClassStruct
}
