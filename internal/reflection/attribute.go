package reflection

import (
	"fmt"

	"reflq/internal/model"
)

// GetAttribute returns the value of the first user-defined attribute on
// the reachable declaration whose type matches attr, ignoring
// cv-qualifiers. A non-type or null attr never matches.
func (r Reflection) GetAttribute(attr Value) (model.ConstValue, error) {
	if ua, ok := r.findAttribute(attr); ok {
		return ua.Value, nil
	}
	return model.ConstValue{}, fmt.Errorf("%s: %w", GetAttribute, ErrNoAttribute)
}

// HasAttribute reports whether GetAttribute would succeed. It never fails.
func (r Reflection) HasAttribute(attr Value) (bool, error) {
	_, ok := r.findAttribute(attr)
	return ok, nil
}

func (r Reflection) findAttribute(attr Value) (model.UserAttr, bool) {
	if !attr.IsType() {
		return model.UserAttr{}, false
	}
	want := r.ctx.CanonicalUnqualifiedType(attr.Type())
	if !want.IsValid() {
		return model.UserAttr{}, false
	}
	_, d := r.reachableDecl()
	if d == nil {
		return model.UserAttr{}, false
	}
	for _, ua := range d.Attrs {
		if r.ctx.CanonicalUnqualifiedType(ua.Type) == want {
			return ua, true
		}
	}
	return model.UserAttr{}, false
}
