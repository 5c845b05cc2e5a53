package model

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"reflq/internal/source"
)

// Program is a read-only snapshot of declarations, types, expressions and
// base specifiers. It is produced by a Builder and never mutated afterwards,
// except for the string-literal pool, which is safe for concurrent use.
type Program struct {
	Strings *source.Interner
	Types   *TypeTable

	decls []Decl
	exprs []Expr
	bases []BaseSpecifier
	tu    DeclID

	defs      map[DeclID]DeclID // canonical -> defining declaration
	declIndex map[string]DeclID
	exprIndex map[string]ExprID
	baseIndex map[string]BaseID
	typeIndex map[string]TypeID

	literals *source.Interner
}

// ErrNotConstant is returned when text cannot be materialized as a constant
// string literal.
var ErrNotConstant = errors.New("text is not representable as a constant string")

// ConstString is a materialized compile-time string literal.
type ConstString struct {
	ID   source.StringID
	Text string
}

func (p *Program) TranslationUnit() DeclID { return p.tu }

// Decl returns the declaration node, or nil for an invalid ID. The result
// must not be modified.
func (p *Program) Decl(id DeclID) *Decl {
	if id == NoDeclID || int(id) >= len(p.decls) {
		return nil
	}
	return &p.decls[id]
}

func (p *Program) Expr(id ExprID) *Expr {
	if id == NoExprID || int(id) >= len(p.exprs) {
		return nil
	}
	return &p.exprs[id]
}

func (p *Program) Base(id BaseID) *BaseSpecifier {
	if id == NoBaseID || int(id) >= len(p.bases) {
		return nil
	}
	return &p.bases[id]
}

// DeclCount counts declarations including the translation unit.
func (p *Program) DeclCount() int { return len(p.decls) - 1 }

// Name returns the spelling of a declaration's name.
func (p *Program) Name(id DeclID) string {
	d := p.Decl(id)
	if d == nil {
		return ""
	}
	return p.Strings.MustLookup(d.Name)
}

// CanonicalDecl returns the first declaration of id's redeclaration chain.
func (p *Program) CanonicalDecl(id DeclID) DeclID {
	d := p.Decl(id)
	if d == nil {
		return NoDeclID
	}
	return d.Canonical
}

// Definition returns the defining declaration of id's entity, if any.
func (p *Program) Definition(id DeclID) DeclID {
	return p.defs[p.CanonicalDecl(id)]
}

// Members yields the children of scope in declaration order. Nothing is
// copied; the sequence reads the live child list.
func (p *Program) Members(scope DeclID) iter.Seq[DeclID] {
	return func(yield func(DeclID) bool) {
		d := p.Decl(scope)
		if d == nil {
			return
		}
		for _, child := range d.children {
			if !yield(child) {
				return
			}
		}
	}
}

// FirstInContext returns the first child of scope.
func (p *Program) FirstInContext(scope DeclID) DeclID {
	d := p.Decl(scope)
	if d == nil || len(d.children) == 0 {
		return NoDeclID
	}
	return d.children[0]
}

// NextInContext returns the declaration following id in its lexical
// context, or NoDeclID at the end.
func (p *Program) NextInContext(id DeclID) DeclID {
	d := p.Decl(id)
	if d == nil {
		return NoDeclID
	}
	parent := p.Decl(d.LexicalParent)
	if parent == nil {
		return NoDeclID
	}
	next := int(d.slot) + 1
	if next >= len(parent.children) {
		return NoDeclID
	}
	return parent.children[next]
}

// RedeclContext skips transparent contexts (unscoped enums) upwards.
func (p *Program) RedeclContext(ctx DeclID) DeclID {
	for {
		d := p.Decl(ctx)
		if d == nil || d.Kind != DeclEnum || d.Is(FlagScoped) {
			return ctx
		}
		ctx = d.Parent
	}
}

// ReturnType returns the result type of a function declaration.
func (p *Program) ReturnType(id DeclID) TypeID {
	d := p.Decl(id)
	if d == nil || !d.Kind.IsFunction() {
		return NoTypeID
	}
	if info, ok := p.Types.FnInfo(p.Types.StripLocInfo(d.Type)); ok {
		return info.Result
	}
	if info, ok := p.Types.FnInfo(p.Types.Canonical(d.Type)); ok {
		return info.Result
	}
	return NoTypeID
}

// Nothrow reports whether a function declaration has a non-throwing type.
func (p *Program) Nothrow(id DeclID) bool {
	d := p.Decl(id)
	if d == nil {
		return false
	}
	info, ok := p.Types.FnInfo(p.Types.Canonical(d.Type))
	return ok && info.Noexcept
}

// QualifiedName renders id's name prefixed by its enclosing named scopes.
func (p *Program) QualifiedName(id DeclID) string {
	var parts []string
	for cur := id; cur != NoDeclID; {
		d := p.Decl(cur)
		if d == nil || d.Kind == DeclTranslationUnit {
			break
		}
		switch {
		case d.Kind == DeclNamespace && d.Name == source.NoStringID:
			parts = append(parts, "(anonymous namespace)")
		case d.Kind == DeclEnum && !d.Is(FlagScoped) && cur != id:
			// enumerators of unscoped enums live in the enclosing scope
		default:
			parts = append(parts, p.Strings.MustLookup(d.Name)+p.Strings.MustLookup(d.Args))
		}
		cur = d.Parent
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "::")
}

// LookupDecl resolves a qualified name or an explicit binding.
func (p *Program) LookupDecl(key string) (DeclID, bool) {
	if key == "" || key == "::" {
		return p.tu, true
	}
	id, ok := p.declIndex[strings.TrimPrefix(key, "::")]
	return id, ok
}

func (p *Program) LookupExpr(key string) (ExprID, bool) {
	id, ok := p.exprIndex[key]
	return id, ok
}

func (p *Program) LookupBase(key string) (BaseID, bool) {
	id, ok := p.baseIndex[key]
	return id, ok
}

// LookupType resolves a type by binding or by its printed spelling.
func (p *Program) LookupType(spelling string) (TypeID, bool) {
	id, ok := p.typeIndex[strings.TrimSpace(spelling)]
	return id, ok
}

// MaterializeString interns text into the literal pool and returns a
// stable constant. Text containing NUL cannot form a literal.
func (p *Program) MaterializeString(text string) (ConstString, error) {
	if strings.IndexByte(text, 0) >= 0 {
		return ConstString{}, fmt.Errorf("%q: %w", text, ErrNotConstant)
	}
	id := p.literals.Intern(text)
	return ConstString{ID: id, Text: text}, nil
}

// Following yields the declarations after id in its lexical context.
func (p *Program) Following(id DeclID) iter.Seq[DeclID] {
	return func(yield func(DeclID) bool) {
		for next := p.NextInContext(id); next != NoDeclID; next = p.NextInContext(next) {
			if !yield(next) {
				return
			}
		}
	}
}

// Type returns the descriptor of id.
func (p *Program) Type(id TypeID) (Type, bool) { return p.Types.Lookup(id) }

func (p *Program) CanonicalType(id TypeID) TypeID { return p.Types.Canonical(id) }

func (p *Program) CanonicalUnqualifiedType(id TypeID) TypeID {
	return p.Types.CanonicalUnqualified(id)
}

func (p *Program) StripLocInfo(id TypeID) TypeID { return p.Types.StripLocInfo(id) }

// TagDecl returns the declaration of the record or enum named by id,
// preferring its definition.
func (p *Program) TagDecl(id TypeID) DeclID {
	d := p.Types.TagDecl(id)
	if def := p.Definition(d); def != NoDeclID {
		return def
	}
	return d
}
