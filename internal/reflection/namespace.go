package reflection

import "reflq/internal/model"

// NamespaceName is a namespace operand: a named namespace or the global
// scope, optionally written with a qualifying scope path (`A::B::ns`).
type NamespaceName struct {
	ns        model.DeclID
	qualifier []model.DeclID
}

// NewNamespaceName wraps an unqualified reference. The reference must be set.
func NewNamespaceName(ns model.DeclID) NamespaceName {
	if !ns.IsValid() {
		panic("reflection: namespace name without a namespace")
	}
	return NamespaceName{ns: ns}
}

// NewQualifiedNamespaceName pairs ns with the scopes that qualified it,
// outermost first.
func NewQualifiedNamespaceName(ns model.DeclID, qualifier []model.DeclID) NamespaceName {
	n := NewNamespaceName(ns)
	if len(qualifier) > 0 {
		n.qualifier = append([]model.DeclID(nil), qualifier...)
	}
	return n
}

func (n NamespaceName) IsQualified() bool { return len(n.qualifier) > 0 }

// Qualifier returns the qualifying scopes, or nil when unqualified.
func (n NamespaceName) Qualifier() []model.DeclID { return n.qualifier }

// Namespace returns the designated namespace or translation unit.
func (n NamespaceName) Namespace() model.DeclID {
	if !n.ns.IsValid() {
		panic("reflection: zero NamespaceName")
	}
	return n.ns
}
