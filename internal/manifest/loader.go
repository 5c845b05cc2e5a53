package manifest

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"fortio.org/safecast"

	"reflq/internal/diag"
	"reflq/internal/model"
	"reflq/internal/source"
	"reflq/internal/typeexpr"
)

// Manifest is a loaded program model together with its origin.
type Manifest struct {
	Name    string
	Path    string
	File    source.FileID
	Format  Format
	Program *model.Program
}

// Load reads path into fs and builds its program model. Problems inside the
// manifest are reported to r; the returned error then wraps ErrInvalid.
func Load(fs *source.FileSet, path string, r diag.Reporter) (*Manifest, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	file, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read manifest: %w", path, err)
	}
	return FromFile(fs, file, format, r)
}

// FromFile builds the manifest already loaded as file.
func FromFile(fs *source.FileSet, file source.FileID, format Format, r diag.Reporter) (*Manifest, error) {
	f := fs.Get(file)
	l := &loader{fs: fs, file: file, reporter: r, keys: make(map[string]int)}
	doc, line, err := Decode(format, f.Content)
	if err != nil {
		l.report(diag.ManParseError, line, fmt.Sprintf("failed to parse %s manifest: %v", format, err))
		return nil, fmt.Errorf("%s: failed to parse %s: %w", f.Path, format, err)
	}
	prog := l.build(doc)
	if l.errors > 0 {
		return nil, fmt.Errorf("%s: %d error(s): %w", f.Path, l.errors, ErrInvalid)
	}
	name := doc.Name
	if name == "" {
		base := filepath.Base(f.Path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return &Manifest{Name: name, Path: f.Path, File: file, Format: format, Program: prog}, nil
}

type declEntry struct {
	DeclEntry
	index    int
	line     int
	key      string
	kind     model.DeclKind
	decl     model.Decl // enumerated fields, validated up front
	typ      *typeexpr.Node
	attrs    []*typeexpr.Node
	attrVals []model.ConstValue
	deps     []int
	broken   bool
	id       model.DeclID
}

func (e *declEntry) label() string {
	if e.key != "" {
		return fmt.Sprintf("%q", e.key)
	}
	return fmt.Sprintf("#%d (%s)", e.index+1, e.Kind)
}

// scope is the key in which relative type names of e are looked up.
func (e *declEntry) scope() string { return strings.TrimPrefix(e.Parent, "::") }

type loader struct {
	fs       *source.FileSet
	file     source.FileID
	reporter diag.Reporter
	errors   int

	b     *model.Builder
	decls []declEntry
	keys  map[string]int
}

func (l *loader) build(doc *Document) *model.Program {
	l.b = model.NewBuilder(nil)
	l.index(doc)
	l.resolveDeps()
	l.propagateBroken()
	g := l.buildGraph()
	t := toposortKahn(g)
	l.reportCycles(t)
	for _, i := range t.Order {
		if !l.decls[i].broken {
			l.addDecl(&l.decls[i])
		}
	}
	l.restoreOrder()
	l.linkTargets()
	for i, e := range doc.Exprs {
		l.addExpr(e, lineAt(doc.exprLines, i))
	}
	for i, e := range doc.Bases {
		l.addBase(e, lineAt(doc.baseLines, i))
	}
	for _, name := range slices.Sorted(maps.Keys(doc.Types)) {
		id, err := l.resolveType(doc.Types[name], "")
		if err != nil {
			l.reportTypeError(0, fmt.Sprintf("type binding %q", name), err)
			continue
		}
		l.b.BindType(name, id)
	}
	return l.b.Build()
}

// index assigns keys and validates everything that does not refer to
// other entries.
func (l *loader) index(doc *Document) {
	l.decls = make([]declEntry, len(doc.Decls))
	for i, raw := range doc.Decls {
		e := &l.decls[i]
		e.DeclEntry = raw
		e.index = i
		e.line = lineAt(doc.declLines, i)

		kind, ok := model.ParseDeclKind(raw.Kind)
		if !ok || kind == model.DeclTranslationUnit {
			l.report(diag.ManUnknownKind, e.line, fmt.Sprintf("unknown declaration kind %q", raw.Kind))
			e.broken = true
		}
		e.kind = kind

		switch {
		case raw.ID != "":
			e.key = strings.TrimPrefix(raw.ID, "::")
			if prev, taken := l.keys[e.key]; taken {
				l.reportWithNote(diag.ManDuplicateName, e.line, fmt.Sprintf("duplicate declaration id %q", e.key),
					l.decls[prev].line, "previous declaration here")
				e.broken = true
				continue
			}
			l.keys[e.key] = i
		case raw.Name != "":
			e.key = raw.Name + raw.Args
			if scope := e.scope(); scope != "" {
				e.key = scope + "::" + e.key
			}
			// overloads and redeclarations share a key, the first one owns it
			if _, taken := l.keys[e.key]; !taken {
				l.keys[e.key] = i
			}
		}

		if !e.broken {
			l.validate(e)
		}
	}
}

func (l *loader) validate(e *declEntry) {
	fail := func(what string, err error) {
		l.report(diag.ManInvalidValue, e.line, fmt.Sprintf("declaration %s: %s: %v", e.label(), what, err))
		e.broken = true
	}
	d := &e.decl
	var err error
	if d.Access, err = parseAccess(e.Access); err != nil {
		fail("access", err)
	}
	if d.Linkage, err = parseLinkage(e.Linkage); err != nil {
		fail("linkage", err)
	}
	if d.Storage, err = parseStorage(e.Storage); err != nil {
		fail("storage", err)
	}
	if d.Tag, err = parseTag(e.Tag); err != nil {
		fail("tag", err)
	}
	if d.SpecKind, err = parseSpecKind(e.SpecKind); err != nil {
		fail("spec_kind", err)
	}
	if d.Shape, err = parseShape(e.Shape); err != nil {
		fail("shape", err)
	}
	for _, name := range e.Flags {
		flag, ok := model.ParseFlag(name)
		if !ok {
			fail("flags", fmt.Errorf("unknown flag %q", name))
			continue
		}
		d.Flags |= flag
	}

	if e.kind.IsTypedefName() && e.Type == "" {
		fail("type", fmt.Errorf("a %s needs the aliased type", e.kind))
	}
	if e.Type != "" {
		if e.typ, err = typeexpr.Parse(e.Type); err != nil {
			fail("type", err)
		}
	}
	for _, a := range e.Attrs {
		node, perr := typeexpr.Parse(a.Type)
		if perr != nil {
			fail("attribute type", perr)
			continue
		}
		val, verr := a.constant()
		if verr != nil {
			fail("attribute value", verr)
			continue
		}
		e.attrs = append(e.attrs, node)
		e.attrVals = append(e.attrVals, val)
	}
}

// resolveDeps turns references into graph dependencies.
func (l *loader) resolveDeps() {
	for i := range l.decls {
		e := &l.decls[i]
		if e.broken {
			continue
		}
		for _, ref := range []struct{ field, key string }{
			{"parent", e.Parent},
			{"lexical_parent", e.LexicalParent},
			{"redeclares", e.Redeclares},
		} {
			key := strings.TrimPrefix(ref.key, "::")
			if key == "" {
				continue
			}
			dep, ok := l.keys[key]
			if !ok {
				l.report(diag.ManUnresolvedRef, e.line,
					fmt.Sprintf("declaration %s: %s %q is not declared", e.label(), ref.field, ref.key))
				e.broken = true
				continue
			}
			e.deps = append(e.deps, dep)
		}
		nodes := e.attrs
		if e.typ != nil {
			nodes = append([]*typeexpr.Node{e.typ}, nodes...)
		}
		for _, n := range nodes {
			for name := range n.Names() {
				dep, ok := l.lookupType(name, e.scope())
				if !ok {
					l.report(diag.ManUnresolvedRef, e.line,
						fmt.Sprintf("declaration %s: unknown type %q", e.label(), name))
					e.broken = true
					continue
				}
				e.deps = append(e.deps, dep)
			}
		}
	}
}

// lookupType finds a type-declaring entry named name, trying scope and
// then each enclosing scope.
func (l *loader) lookupType(name, scope string) (int, bool) {
	for s := scope; ; s = enclosing(s) {
		key := name
		if s != "" {
			key = s + "::" + name
		}
		if i, ok := l.keys[key]; ok && l.decls[i].kind.IsType() {
			return i, true
		}
		if s == "" {
			return 0, false
		}
	}
}

// enclosing strips the last scope component, ignoring separators inside
// template arguments.
func enclosing(key string) string {
	depth := 0
	for i := len(key) - 1; i > 0; i-- {
		switch key[i] {
		case '>':
			depth++
		case '<':
			depth--
		case ':':
			if depth == 0 && key[i-1] == ':' {
				return key[:i-1]
			}
		}
	}
	return ""
}

func (l *loader) resolveType(src, scope string) (model.TypeID, error) {
	return typeexpr.ParseAndResolve(src, l.b.Types(), l.typeLookup(scope))
}

func (l *loader) typeLookup(scope string) typeexpr.LookupFunc {
	return func(name string) (model.TypeID, bool) {
		i, ok := l.lookupType(name, scope)
		if !ok || !l.decls[i].id.IsValid() {
			return model.NoTypeID, false
		}
		return l.b.Decl(l.decls[i].id).Type, true
	}
}

func (l *loader) addDecl(e *declEntry) {
	for _, dep := range e.deps {
		if !l.decls[dep].id.IsValid() {
			// the dependency failed late and was reported already
			e.broken = true
			return
		}
	}
	d := e.decl
	d.Kind = e.kind
	d.Span = l.span(e.line)
	d.Parent = l.ref(e.Parent)
	d.LexicalParent = l.ref(e.LexicalParent)
	if e.Name != "" {
		d.Name = l.b.Ident(e.Name)
		d.NameKind = nameKind(e.kind, e.Name)
	}
	if e.Args != "" {
		d.Args = l.b.Strings().Intern(e.Args)
	}

	lookup := l.typeLookup(e.scope())
	if e.typ != nil {
		t, err := typeexpr.Resolve(e.typ, l.b.Types(), lookup)
		if err != nil {
			l.reportTypeError(e.line, "declaration "+e.label(), err)
			return
		}
		d.Type = t
	}
	for i, n := range e.attrs {
		t, err := typeexpr.Resolve(n, l.b.Types(), lookup)
		if err != nil {
			l.reportTypeError(e.line, "attribute of "+e.label(), err)
			return
		}
		d.Attrs = append(d.Attrs, model.UserAttr{Type: t, Value: e.attrVals[i]})
	}

	if e.Redeclares != "" {
		e.id = l.b.Redeclare(l.ref(e.Redeclares), d)
	} else {
		if !d.Parent.IsValid() {
			d.Parent = l.b.TranslationUnit()
		}
		e.id = l.b.Add(d)
	}
	if e.key != "" && l.keys[e.key] == e.index {
		l.b.Bind(e.key, e.id)
	}
}

// ref maps a key of an already added entry to its declaration. The empty
// key and "::" denote the translation unit.
func (l *loader) ref(key string) model.DeclID {
	key = strings.TrimPrefix(key, "::")
	if key == "" {
		return model.NoDeclID
	}
	return l.decls[l.keys[key]].id
}

// restoreOrder puts members back in manifest order. Entries are added in
// dependency order, so a member naming a later type would otherwise trail
// its siblings. Builder-made members such as injected class names rank
// first.
func (l *loader) restoreOrder() {
	rank := make(map[model.DeclID]int, len(l.decls))
	for i := range l.decls {
		if id := l.decls[i].id; id.IsValid() {
			rank[id] = l.decls[i].index
		}
	}
	l.b.SortMembers(func(id model.DeclID) int {
		if r, ok := rank[id]; ok {
			return r
		}
		return -1
	})
}

// linkTargets fills template patterns, specialization templates and alias
// targets once every declaration exists; these links may point forward.
func (l *loader) linkTargets() {
	for i := range l.decls {
		e := &l.decls[i]
		if !e.id.IsValid() || e.Target == "" {
			continue
		}
		j, ok := l.keys[strings.TrimPrefix(e.Target, "::")]
		if !ok || !l.decls[j].id.IsValid() {
			l.report(diag.ManUnresolvedRef, e.line,
				fmt.Sprintf("declaration %s: target %q is not declared", e.label(), e.Target))
			continue
		}
		l.b.Decl(e.id).Target = l.decls[j].id
	}
}

func (l *loader) addExpr(e ExprEntry, line int) {
	kind, ok := model.ParseExprKind(e.Kind)
	if !ok {
		l.report(diag.ManUnknownKind, line, fmt.Sprintf("unknown expression kind %q", e.Kind))
		return
	}
	if e.Name == "" {
		l.report(diag.ManInvalidValue, line, "expression needs a name")
		return
	}
	x := model.Expr{Kind: kind, Name: l.b.Ident(e.Name), Span: l.span(line)}
	var err error
	if x.Category, err = parseCategory(e.Category); err != nil {
		l.report(diag.ManInvalidValue, line, fmt.Sprintf("expression %q: category: %v", e.Name, err))
		return
	}
	if e.Type != "" {
		if x.Type, err = l.resolveType(e.Type, ""); err != nil {
			l.reportTypeError(line, fmt.Sprintf("expression %q", e.Name), err)
			return
		}
	}
	if e.Decl != "" {
		i, ok := l.keys[strings.TrimPrefix(e.Decl, "::")]
		if !ok || !l.decls[i].id.IsValid() {
			l.report(diag.ManUnresolvedRef, line, fmt.Sprintf("expression %q: decl %q is not declared", e.Name, e.Decl))
			return
		}
		x.Decl = l.decls[i].id
	}
	if x.Value, err = e.Value.constant(); err != nil {
		l.report(diag.ManInvalidValue, line, fmt.Sprintf("expression %q: value: %v", e.Name, err))
		return
	}
	l.b.AddExpr(x)
}

func (l *loader) addBase(e BaseEntry, line int) {
	i, ok := l.keys[strings.TrimPrefix(e.Owner, "::")]
	if !ok || !l.decls[i].id.IsValid() || l.decls[i].kind != model.DeclRecord {
		l.report(diag.ManUnresolvedRef, line, fmt.Sprintf("base owner %q is not a declared class", e.Owner))
		return
	}
	owner := &l.decls[i]
	t, err := l.resolveType(e.Type, owner.scope())
	if err != nil {
		l.reportTypeError(line, fmt.Sprintf("base of %q", e.Owner), err)
		return
	}
	access, err := parseAccess(e.Access)
	if err != nil {
		l.report(diag.ManInvalidValue, line, fmt.Sprintf("base of %q: access: %v", e.Owner, err))
		return
	}
	l.b.AddBase(model.BaseSpecifier{Owner: owner.id, Type: t, Virtual: e.Virtual, Access: access, Span: l.span(line)})
}

func (l *loader) reportTypeError(line int, what string, err error) {
	code := diag.ManInvalidValue
	if errors.Is(err, typeexpr.ErrUnresolved) {
		code = diag.ManUnresolvedRef
	}
	l.report(code, line, fmt.Sprintf("%s: %v", what, err))
}

func (l *loader) span(line int) source.Span {
	if line <= 0 {
		return source.Span{File: l.file}
	}
	n, err := safecast.Conv[uint32](line)
	if err != nil {
		panic(fmt.Errorf("line overflow: %w", err))
	}
	return l.fs.LineSpan(l.file, n)
}

func (l *loader) report(code diag.Code, line int, msg string) {
	l.errors++
	diag.ReportError(l.reporter, code, l.span(line), msg).Emit()
}

func (l *loader) reportWithNote(code diag.Code, line int, msg string, noteLine int, note string) {
	l.errors++
	diag.ReportError(l.reporter, code, l.span(line), msg).WithNote(l.span(noteLine), note).Emit()
}
