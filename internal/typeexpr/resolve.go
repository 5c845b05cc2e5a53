package typeexpr

import (
	"fmt"

	"reflq/internal/model"
)

// LookupFunc maps a spelled name to the type it denotes.
type LookupFunc func(name string) (model.TypeID, bool)

// Resolve interns n and everything below it into tt.
func Resolve(n *Node, tt *model.TypeTable, lookup LookupFunc) (model.TypeID, error) {
	switch n.Op {
	case OpBuiltin:
		return tt.Intern(n.Builtin), nil
	case OpName:
		if lookup != nil {
			if id, ok := lookup(n.Name); ok {
				return id, nil
			}
		}
		return model.NoTypeID, fmt.Errorf("%q: %w", n.Name, ErrUnresolved)
	case OpFunction:
		params := make([]model.TypeID, len(n.Params))
		for i, param := range n.Params {
			id, err := Resolve(param, tt, lookup)
			if err != nil {
				return model.NoTypeID, err
			}
			params[i] = id
		}
		result, err := Resolve(n.Elem, tt, lookup)
		if err != nil {
			return model.NoTypeID, err
		}
		return tt.Function(params, result, n.Noexcept), nil
	case OpMemberPointer:
		class, err := Resolve(n.Class, tt, lookup)
		if err != nil {
			return model.NoTypeID, err
		}
		if tt.KindOf(class) != model.TypeRecord {
			return model.NoTypeID, fmt.Errorf("%w: member pointer class at %d is not a record", ErrSyntax, n.Class.Pos)
		}
		elem, err := Resolve(n.Elem, tt, lookup)
		if err != nil {
			return model.NoTypeID, err
		}
		return tt.Intern(model.MakeMemberPointer(class, elem, tt.KindOf(elem) == model.TypeFunction)), nil
	}

	elem, err := Resolve(n.Elem, tt, lookup)
	if err != nil {
		return model.NoTypeID, err
	}
	switch n.Op {
	case OpQualified:
		quals := n.Quals
		if t := tt.MustLookup(elem); t.Kind == model.TypeQualified {
			elem, quals = t.Elem, quals|t.Quals
		}
		return tt.Intern(model.MakeQualified(elem, quals)), nil
	case OpPointer:
		return tt.Intern(model.MakePointer(elem)), nil
	case OpLValueRef:
		return tt.Intern(model.MakeLValueRef(elem)), nil
	case OpRValueRef:
		return tt.Intern(model.MakeRValueRef(elem)), nil
	case OpArray:
		return tt.Intern(model.MakeArray(elem, n.Count)), nil
	}
	panic(fmt.Sprintf("typeexpr: unknown op %d", n.Op))
}

// ParseAndResolve is Parse followed by Resolve.
func ParseAndResolve(src string, tt *model.TypeTable, lookup LookupFunc) (model.TypeID, error) {
	n, err := Parse(src)
	if err != nil {
		return model.NoTypeID, err
	}
	return Resolve(n, tt, lookup)
}
