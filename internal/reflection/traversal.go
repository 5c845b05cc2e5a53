package reflection

import (
	"iter"

	"reflq/internal/model"
)

// IsReflectable filters scope members that never surface through
// traversal: access specifiers and a class's injected self-name.
func IsReflectable(ctx Model, id model.DeclID) bool {
	d := ctx.Decl(id)
	if d == nil || d.Kind == model.DeclAccessSpec {
		return false
	}
	return !(d.Kind == model.DeclRecord && d.Is(model.FlagInjectedClassName))
}

func reflectable(ctx Model, seq iter.Seq[model.DeclID]) iter.Seq[model.DeclID] {
	return func(yield func(model.DeclID) bool) {
		for id := range seq {
			if IsReflectable(ctx, id) && !yield(id) {
				return
			}
		}
	}
}

func first(seq iter.Seq[model.DeclID]) model.DeclID {
	for id := range seq {
		return id
	}
	return model.NoDeclID
}

// Members yields the reflectable members of the reflected scope in
// declaration order. It yields nothing when the value has no reachable
// scope. The sequence reads the model directly and can be ranged over
// more than once.
func (r Reflection) Members() iter.Seq[Reflection] {
	return func(yield func(Reflection) bool) {
		id, d := r.reachableKind(model.DeclKind.IsContext)
		if d == nil {
			return
		}
		for member := range reflectable(r.ctx, r.ctx.Members(id)) {
			if !yield(r.derive(DeclValue(member))) {
				return
			}
		}
	}
}

// Walk follows get_begin and then get_next until the end reflection,
// yielding each member. It stops at the first failure.
func (r Reflection) Walk() iter.Seq2[Reflection, error] {
	return func(yield func(Reflection, error) bool) {
		v, err := r.GetAssociated(GetBegin)
		for err == nil && !v.IsInvalid() {
			cur := r.derive(v)
			if !yield(cur, nil) {
				return
			}
			v, err = cur.GetAssociated(GetNext)
		}
		if err != nil {
			yield(Reflection{}, err)
		}
	}
}
