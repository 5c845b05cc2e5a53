// Package typeexpr parses the textual type expressions used by manifests
// and query scripts and interns them into a model.TypeTable.
//
// Grammar, prefix qualifiers bind to the base type and suffix qualifiers to
// the declarator built so far:
//
//	type     = { "const" | "volatile" } base { suffix }
//	base     = builtin | name | "(" type ")"
//	         | "fn" "(" [ type { "," type } ] ")" "->" type [ "noexcept" ]
//	         | "memptr" "(" type "," type ")"
//	name     = [ "::" ] ident [ args ] { "::" ident [ args ] }
//	suffix   = "*" | "&" | "&&" | "[" [ number ] "]" | "const" | "volatile"
//
// A function returning a pointer is `fn() -> int *`; a pointer to a
// function needs parentheses: `(fn(int) -> void) *`.
package typeexpr

import (
	"errors"
	"fmt"
	"iter"
	"strconv"

	"reflq/internal/model"
)

var (
	ErrSyntax     = errors.New("malformed type expression")
	ErrUnresolved = errors.New("unresolved type name")
)

// Op is the node class of a parsed type expression.
type Op uint8

const (
	OpBuiltin Op = iota
	OpName
	OpQualified
	OpPointer
	OpLValueRef
	OpRValueRef
	OpArray
	OpFunction
	OpMemberPointer
)

// Node is one level of a parsed type expression.
type Node struct {
	Op       Op
	Builtin  model.Type // OpBuiltin
	Name     string     // OpName, fully spelled including template arguments
	Quals    model.Quals
	Count    uint32 // OpArray; model.ArrayUnknownBound for []
	Elem     *Node  // element, pointee, result or member type
	Class    *Node  // OpMemberPointer
	Params   []*Node
	Noexcept bool
	Pos      int
}

// Names yields every name referenced by the expression, depth first.
func (n *Node) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		n.walkNames(yield)
	}
}

func (n *Node) walkNames(yield func(string) bool) bool {
	if n == nil {
		return true
	}
	if n.Op == OpName {
		return yield(n.Name)
	}
	if !n.Class.walkNames(yield) {
		return false
	}
	for _, p := range n.Params {
		if !p.walkNames(yield) {
			return false
		}
	}
	return n.Elem.walkNames(yield)
}

type parser struct {
	lx  lexer
	tok token
}

// Parse reads one complete type expression.
func Parse(src string) (*Node, error) {
	p := &parser{lx: lexer{src: src}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	n, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.unexpected("end of type")
	}
	return n, nil
}

func (p *parser) advance() error {
	tok, err := p.lx.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) at(k tokKind) bool { return p.tok.kind == k }

func (p *parser) atWord(w string) bool { return p.tok.kind == tokIdent && p.tok.text == w }

func (p *parser) expect(k tokKind) error {
	if !p.at(k) {
		return p.unexpected(k.String())
	}
	return p.advance()
}

func (p *parser) unexpected(want string) error {
	got := p.tok.kind.String()
	if p.tok.text != "" {
		got = fmt.Sprintf("%q", p.tok.text)
	}
	return fmt.Errorf("%w: expected %s, found %s at %d", ErrSyntax, want, got, p.tok.pos)
}

func (p *parser) parseType() (*Node, error) {
	pos := p.tok.pos
	quals, err := p.parseQuals()
	if err != nil {
		return nil, err
	}
	n, err := p.parseBase()
	if err != nil {
		return nil, err
	}
	if quals != 0 {
		n = qualify(n, quals, pos)
	}
	return p.parseSuffix(n)
}

func (p *parser) parseQuals() (model.Quals, error) {
	var q model.Quals
	for {
		switch {
		case p.atWord("const"):
			q |= model.QualConst
		case p.atWord("volatile"):
			q |= model.QualVolatile
		default:
			return q, nil
		}
		if err := p.advance(); err != nil {
			return 0, err
		}
	}
}

func (p *parser) parseBase() (*Node, error) {
	pos := p.tok.pos
	switch {
	case p.at(tokLParen):
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return n, p.expect(tokRParen)
	case p.atWord("fn"):
		return p.parseFunction()
	case p.atWord("memptr"):
		return p.parseMemberPointer()
	case p.at(tokIdent):
		t, ok, err := p.parseBuiltin()
		if err != nil {
			return nil, err
		}
		if ok {
			return &Node{Op: OpBuiltin, Builtin: t, Pos: pos}, nil
		}
		return p.parseName()
	case p.at(tokScope):
		return p.parseName()
	}
	return nil, p.unexpected("type")
}

func (p *parser) parseFunction() (*Node, error) {
	n := &Node{Op: OpFunction, Pos: p.tok.pos}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	for !p.at(tokRParen) {
		param, err := p.parseType()
		if err != nil {
			return nil, err
		}
		n.Params = append(n.Params, param)
		if !p.at(tokComma) {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	if err := p.expect(tokArrow); err != nil {
		return nil, err
	}
	result, err := p.parseType()
	if err != nil {
		return nil, err
	}
	n.Elem = result
	if p.atWord("noexcept") {
		n.Noexcept = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (p *parser) parseMemberPointer() (*Node, error) {
	n := &Node{Op: OpMemberPointer, Pos: p.tok.pos}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	class, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokComma); err != nil {
		return nil, err
	}
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	n.Class, n.Elem = class, elem
	return n, p.expect(tokRParen)
}

// parseBuiltin recognizes fundamental type spellings, including the
// multi-word integer forms.
func (p *parser) parseBuiltin() (model.Type, bool, error) {
	word := p.tok.text
	var t model.Type
	switch word {
	case "void":
		t = model.Type{Kind: model.TypeVoid}
	case "bool":
		t = model.Type{Kind: model.TypeBool}
	case "char":
		t = model.Type{Kind: model.TypeChar}
	case "float":
		t = model.MakeFloat(model.Width32)
	case "double":
		t = model.MakeFloat(model.Width64)
	case "int":
		t = model.MakeInt(model.Width32)
	case "nullptr_t":
		t = model.Type{Kind: model.TypeNullPtr}
	case "std":
		return p.parseStdNullptr()
	case "short", "long":
		w := model.Width16
		if word == "long" {
			w = model.Width64
		}
		if err := p.advance(); err != nil {
			return t, false, err
		}
		return model.MakeInt(w), true, p.skipWord("int")
	case "signed", "unsigned":
		return p.parseSignedness(word == "unsigned")
	default:
		return t, false, nil
	}
	return t, true, p.advance()
}

func (p *parser) parseSignedness(unsigned bool) (model.Type, bool, error) {
	if err := p.advance(); err != nil {
		return model.Type{}, false, err
	}
	mk := model.MakeInt
	if unsigned {
		mk = model.MakeUint
	}
	w := model.Width32
	switch {
	case p.atWord("char"):
		w = model.Width8
	case p.atWord("short"):
		w = model.Width16
	case p.atWord("long"):
		w = model.Width64
	case p.atWord("int"):
	default:
		return mk(w), true, nil
	}
	if err := p.advance(); err != nil {
		return model.Type{}, false, err
	}
	if w != model.Width8 {
		return mk(w), true, p.skipWord("int")
	}
	return mk(w), true, nil
}

// parseStdNullptr accepts `std::nullptr_t`; any other `std::` name is an
// ordinary qualified name and is left for parseName.
func (p *parser) parseStdNullptr() (model.Type, bool, error) {
	save, saveTok := p.lx, p.tok
	if err := p.advance(); err != nil {
		return model.Type{}, false, err
	}
	if p.at(tokScope) {
		if err := p.advance(); err != nil {
			return model.Type{}, false, err
		}
		if p.atWord("nullptr_t") {
			return model.Type{Kind: model.TypeNullPtr}, true, p.advance()
		}
	}
	p.lx, p.tok = save, saveTok
	return model.Type{}, false, nil
}

func (p *parser) skipWord(w string) error {
	if p.atWord(w) {
		return p.advance()
	}
	return nil
}

func (p *parser) parseName() (*Node, error) {
	n := &Node{Op: OpName, Pos: p.tok.pos}
	if p.at(tokScope) {
		// leading :: is the global scope, names are always global here
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	for {
		if !p.at(tokIdent) {
			return nil, p.unexpected("identifier")
		}
		n.Name += p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.at(tokArgs) {
			n.Name += p.tok.text
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if !p.at(tokScope) {
			return n, nil
		}
		n.Name += "::"
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseSuffix(n *Node) (*Node, error) {
	for {
		pos := p.tok.pos
		switch {
		case p.at(tokStar):
			n = &Node{Op: OpPointer, Elem: n, Pos: pos}
		case p.at(tokAmp):
			n = &Node{Op: OpLValueRef, Elem: n, Pos: pos}
		case p.at(tokAndAnd):
			n = &Node{Op: OpRValueRef, Elem: n, Pos: pos}
		case p.atWord("const"):
			n = qualify(n, model.QualConst, pos)
		case p.atWord("volatile"):
			n = qualify(n, model.QualVolatile, pos)
		case p.at(tokLBrack):
			arr, err := p.parseArray(n)
			if err != nil {
				return nil, err
			}
			n = arr
			continue
		default:
			return n, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseArray(elem *Node) (*Node, error) {
	n := &Node{Op: OpArray, Elem: elem, Count: model.ArrayUnknownBound, Pos: p.tok.pos}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.at(tokNumber) {
		v, err := strconv.ParseUint(p.tok.text, 10, 32)
		if err != nil || v == uint64(model.ArrayUnknownBound) {
			return nil, fmt.Errorf("%w: array bound %s out of range at %d", ErrSyntax, p.tok.text, p.tok.pos)
		}
		n.Count = uint32(v) //nolint:gosec // ParseUint bounds v to 32 bits
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return n, p.expect(tokRBrack)
}

func qualify(n *Node, q model.Quals, pos int) *Node {
	if n.Op == OpQualified {
		n.Quals |= q
		return n
	}
	return &Node{Op: OpQualified, Quals: q, Elem: n, Pos: pos}
}
