package model

import (
	"cmp"
	"fmt"
	"slices"

	"fortio.org/safecast"

	"reflq/internal/source"
)

// Builder assembles a Program. A Builder is single-use: Build hands the
// arenas over to the Program.
type Builder struct {
	p     *Program
	built bool
}

// NewBuilder creates a builder seeded with a translation unit. A nil
// interner allocates a fresh one.
func NewBuilder(strs *source.Interner) *Builder {
	if strs == nil {
		strs = source.NewInterner()
	}
	p := &Program{
		Strings:   strs,
		Types:     NewTypeTable(),
		decls:     make([]Decl, 1, 64), // 0 is NoDeclID
		exprs:     make([]Expr, 1, 16),
		bases:     make([]BaseSpecifier, 1, 8),
		defs:      make(map[DeclID]DeclID),
		declIndex: make(map[string]DeclID),
		exprIndex: make(map[string]ExprID),
		baseIndex: make(map[string]BaseID),
		typeIndex: make(map[string]TypeID),
		literals:  source.NewInterner(),
	}
	b := &Builder{p: p}
	p.tu = b.appendDecl(Decl{Kind: DeclTranslationUnit})
	p.decls[p.tu].Canonical = p.tu
	p.decls[p.tu].Flags |= FlagDefinition
	return b
}

func (b *Builder) Types() *TypeTable { return b.p.Types }

func (b *Builder) Strings() *source.Interner { return b.p.Strings }

func (b *Builder) TranslationUnit() DeclID { return b.p.tu }

// Ident interns an identifier.
func (b *Builder) Ident(s string) source.StringID { return b.p.Strings.InternIdent(s) }

// Decl exposes a declaration for adjustment before Build.
func (b *Builder) Decl(id DeclID) *Decl { return b.p.Decl(id) }

// Add appends d to its lexical parent and returns its ID.
//
// Defaults: LexicalParent falls back to Parent, Canonical to the new ID.
// Record and enum declarations get their tag type. For typedef names d.Type
// is the aliased type and is replaced by the alias sugar. Template type
// parameters get a dependent type. A record definition receives its
// injected class name as first member.
func (b *Builder) Add(d Decl) DeclID {
	b.mustBeOpen()
	if d.Kind == DeclInvalid || d.Kind == DeclTranslationUnit {
		panic(fmt.Errorf("model: cannot add a %s declaration", d.Kind))
	}
	if !d.LexicalParent.IsValid() {
		d.LexicalParent = d.Parent
	}
	if d.Kind == DeclEnum {
		d.Tag = TagEnum
	}
	id := b.appendDecl(d)
	nd := &b.p.decls[id]
	if !nd.Canonical.IsValid() {
		nd.Canonical = id
	}

	switch {
	case nd.Kind == DeclRecord:
		nd.Type = b.p.Types.Record(nd.Canonical)
	case nd.Kind == DeclEnum:
		nd.Type = b.p.Types.Enum(nd.Canonical)
	case nd.Kind.IsTypedefName():
		nd.Type = b.p.Types.Alias(id, nd.Type)
	case nd.Kind == DeclTemplateTypeParm:
		nd.Type = b.p.Types.Dependent(id)
	}

	if parent := b.p.Decl(nd.LexicalParent); parent != nil {
		slot, err := safecast.Conv[uint32](len(parent.children))
		if err != nil {
			panic(fmt.Errorf("children overflow: %w", err))
		}
		nd.slot = slot
		parent.children = append(parent.children, id)
	}

	named := nd.Kind.IsNamed() && nd.Name != source.NoStringID && !nd.Is(FlagInjectedClassName)
	if nd.Kind == DeclRecord && nd.Is(FlagDefinition) && !nd.Is(FlagInjectedClassName) {
		b.addInjectedClassName(id)
	}
	if named {
		key := b.p.QualifiedName(id)
		if _, taken := b.p.declIndex[key]; !taken {
			b.p.declIndex[key] = id
		}
	}
	return id
}

func (b *Builder) addInjectedClassName(record DeclID) {
	rd := b.p.decls[record]
	injected := b.appendDecl(Decl{
		Kind:          DeclRecord,
		Name:          rd.Name,
		Span:          rd.Span,
		Parent:        record,
		LexicalParent: record,
		Access:        AccessPublic,
		Tag:           rd.Tag,
		Flags:         FlagInjectedClassName,
		Type:          rd.Type,
	})
	self := &b.p.decls[record]
	b.p.decls[injected].Canonical = injected
	b.p.decls[injected].slot = uint32(len(self.children)) //nolint:gosec // fresh record
	self.children = append(self.children, injected)
}

// Redeclare adds another declaration of prev's entity. Kind, name and tag
// are inherited when unset.
func (b *Builder) Redeclare(prev DeclID, d Decl) DeclID {
	pd := b.p.Decl(prev)
	if pd == nil {
		panic(fmt.Errorf("model: redeclaration of invalid decl %d", prev))
	}
	if d.Kind == DeclInvalid {
		d.Kind = pd.Kind
	}
	if d.Name == source.NoStringID {
		d.Name, d.NameKind = pd.Name, pd.NameKind
	}
	if !d.Parent.IsValid() {
		d.Parent = pd.Parent
	}
	d.Tag = pd.Tag
	d.Canonical = pd.Canonical
	if d.Kind.IsTag() {
		// tag redeclarations share the canonical type
		d.Type = NoTypeID
	}
	return b.Add(d)
}

// Bind registers an explicit lookup key for a declaration.
func (b *Builder) Bind(key string, id DeclID) { b.p.declIndex[key] = id }

func (b *Builder) AddExpr(e Expr) ExprID {
	b.mustBeOpen()
	n, err := safecast.Conv[uint32](len(b.p.exprs))
	if err != nil {
		panic(fmt.Errorf("len(exprs) overflow: %w", err))
	}
	id := ExprID(n)
	b.p.exprs = append(b.p.exprs, e)
	if e.Name != source.NoStringID {
		b.p.exprIndex[b.p.Strings.MustLookup(e.Name)] = id
	}
	return id
}

// AddBase records a base specifier. It is looked up as "Owner:Base".
func (b *Builder) AddBase(bs BaseSpecifier) BaseID {
	b.mustBeOpen()
	n, err := safecast.Conv[uint32](len(b.p.bases))
	if err != nil {
		panic(fmt.Errorf("len(bases) overflow: %w", err))
	}
	id := BaseID(n)
	b.p.bases = append(b.p.bases, bs)
	key := b.p.QualifiedName(bs.Owner) + ":" + b.p.TypeString(bs.Type, Policy{SuppressTagKeyword: true})
	b.p.baseIndex[key] = id
	return id
}

// SortMembers reorders the children of every scope by rank and renumbers
// their slots. Equal ranks keep their insertion order. Loaders that add
// declarations out of source order call it before Build.
func (b *Builder) SortMembers(rank func(DeclID) int) {
	b.mustBeOpen()
	for i := range b.p.decls {
		children := b.p.decls[i].children
		if len(children) < 2 {
			continue
		}
		slices.SortStableFunc(children, func(x, y DeclID) int {
			return cmp.Compare(rank(x), rank(y))
		})
		for slot, child := range children {
			b.p.decls[child].slot = uint32(slot) //nolint:gosec // bounded by Add
		}
	}
}

// BindType registers a type under an explicit name.
func (b *Builder) BindType(name string, id TypeID) { b.p.typeIndex[name] = id }

// Build finalizes the program. The builder must not be used afterwards.
func (b *Builder) Build() *Program {
	b.mustBeOpen()
	b.built = true
	p := b.p
	for i := 1; i < len(p.decls); i++ {
		d := &p.decls[i]
		if d.Is(FlagDefinition) {
			if _, ok := p.defs[d.Canonical]; !ok {
				p.defs[d.Canonical] = DeclID(i) //nolint:gosec // bounded by appendDecl
			}
		}
	}
	for i := 1; i <= p.Types.Len(); i++ {
		id := TypeID(i) //nolint:gosec // bounded by internRaw
		for _, pol := range []Policy{{}, {SuppressTagKeyword: true}} {
			s := p.TypeString(id, pol)
			if _, taken := p.typeIndex[s]; !taken {
				p.typeIndex[s] = id
			}
		}
	}
	return p
}

func (b *Builder) appendDecl(d Decl) DeclID {
	n, err := safecast.Conv[uint32](len(b.p.decls))
	if err != nil {
		panic(fmt.Errorf("len(decls) overflow: %w", err))
	}
	b.p.decls = append(b.p.decls, d)
	return DeclID(n)
}

func (b *Builder) mustBeOpen() {
	if b.built {
		panic("model: builder used after Build")
	}
}
