// Package script parses and runs query scripts.
//
// A script holds one statement per line:
//
//	<query> <operand> [operand]   # comment
//
// where <query> is a catalogue name (is_class, get_name, ...) or one of the
// verbs `equal a b` and `walk a`. The attribute queries take the attribute
// type as their second operand. Operands are written as
//
//	type:<type>      a bound type name, a printed spelling or a type expression
//	decl:<path>      a declaration key such as N::Widget
//	expr:<name>      a named expression
//	base:<Owner:T>   a base specifier of Owner
//	ns:<path>        a namespace; ns::: is the global scope
//	template:<path>  a template declaration
//	invalid          the silent invalid reflection; invalid:<expr> carries
//	                 a diagnostic expression
//
// Double quotes group words: type:"const N::Widget &".
package script

import (
	"bytes"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"reflq/internal/diag"
	"reflq/internal/reflection"
	"reflq/internal/source"
)

// Verb is the kind of a statement.
type Verb uint8

const (
	VerbQuery Verb = iota + 1
	VerbEqual
	VerbWalk
)

func (v Verb) String() string {
	switch v {
	case VerbQuery:
		return "query"
	case VerbEqual:
		return "equal"
	case VerbWalk:
		return "walk"
	}
	return "unknown"
}

// Prefix selects how an operand is resolved.
type Prefix uint8

const (
	PrefixType Prefix = iota + 1
	PrefixDecl
	PrefixExpr
	PrefixBase
	PrefixNamespace
	PrefixTemplate
	PrefixInvalid
)

var prefixNames = map[string]Prefix{
	"type":     PrefixType,
	"decl":     PrefixDecl,
	"expr":     PrefixExpr,
	"base":     PrefixBase,
	"ns":       PrefixNamespace,
	"template": PrefixTemplate,
	"invalid":  PrefixInvalid,
}

func (p Prefix) String() string {
	for name, v := range prefixNames {
		if v == p {
			return name
		}
	}
	return "unknown"
}

// Operand is an operand as written.
type Operand struct {
	Prefix Prefix
	Text   string
	Span   source.Span
}

func (o Operand) String() string {
	if o.Prefix == PrefixInvalid && o.Text == "" {
		return "invalid"
	}
	return o.Prefix.String() + ":" + o.Text
}

// Statement is one parsed script line.
type Statement struct {
	Line     int
	Source   string
	Verb     Verb
	Query    reflection.Query // VerbQuery only
	Operands []Operand
	Span     source.Span
}

func (st Statement) operandStrings() []string {
	ops := make([]string, len(st.Operands))
	for i, op := range st.Operands {
		ops[i] = op.String()
	}
	return ops
}

// Name is the query or verb name as written.
func (st Statement) Name() string {
	if st.Verb == VerbQuery {
		return st.Query.String()
	}
	return st.Verb.String()
}

// Script is a parsed query script. Lines with errors are reported and
// left out of Statements.
type Script struct {
	File       source.FileID
	Statements []Statement
	Errors     int
}

// Parse reads every statement of file.
func Parse(fs *source.FileSet, file source.FileID, r diag.Reporter) *Script {
	s := &Script{File: file}
	content := fs.Get(file).Content
	off, n := 0, 0
	for raw := range bytes.Lines(content) {
		n++
		text := string(bytes.TrimRight(raw, "\n"))
		lineOff := off
		off += len(raw)
		st, ok := s.parseLine(text, lineOff, n, r)
		if ok {
			s.Statements = append(s.Statements, st)
		}
	}
	return s
}

// ParseString adds text as a virtual file and parses it.
func ParseString(fs *source.FileSet, name, text string, r diag.Reporter) *Script {
	return Parse(fs, fs.AddVirtual(name, []byte(text)), r)
}

func (s *Script) parseLine(text string, lineOff, line int, r diag.Reporter) (Statement, bool) {
	span := func(start, end int) source.Span {
		return source.Span{File: s.File, Start: offset(lineOff + start), End: offset(lineOff + end)}
	}
	fields, err := splitFields(text)
	if err != nil {
		s.report(r, diag.ScrBadOperand, span(0, len(text)), err.Error())
		return Statement{}, false
	}
	if len(fields) == 0 {
		return Statement{}, false
	}
	head := fields[0]
	last := fields[len(fields)-1]
	st := Statement{
		Line:   line,
		Source: strings.TrimSpace(text[head.Start:last.End]),
		Span:   span(head.Start, last.End),
	}
	switch head.Text {
	case "equal":
		st.Verb = VerbEqual
	case "walk":
		st.Verb = VerbWalk
	default:
		q, ok := reflection.ParseQuery(head.Text)
		if !ok {
			s.report(r, diag.ScrUnknownQuery, span(head.Start, head.End),
				fmt.Sprintf("unknown query %q", head.Text))
			return Statement{}, false
		}
		st.Verb, st.Query = VerbQuery, q
	}

	ok := true
	for _, f := range fields[1:] {
		op, err := parseOperand(f.Text)
		if err != nil {
			s.report(r, diag.ScrBadOperand, span(f.Start, f.End), err.Error())
			ok = false
			continue
		}
		op.Span = span(f.Start, f.End)
		st.Operands = append(st.Operands, op)
	}
	if !ok {
		return Statement{}, false
	}
	if want := st.arity(); len(st.Operands) != want {
		s.report(r, diag.ScrArity, st.Span,
			fmt.Sprintf("%s takes %d operand(s), got %d", st.Name(), want, len(st.Operands)))
		return Statement{}, false
	}
	return st, true
}

func (st Statement) arity() int {
	if st.Verb == VerbEqual {
		return 2
	}
	if st.Verb == VerbQuery {
		return QueryArity(st.Query)
	}
	return 1
}

// QueryArity is the number of operands a query statement takes: the
// subject, plus the attribute type for attribute queries.
func QueryArity(q reflection.Query) int {
	if q.IsAttribute() {
		return 2
	}
	return 1
}

func parseOperand(text string) (Operand, error) {
	if text == "invalid" {
		return Operand{Prefix: PrefixInvalid}, nil
	}
	name, rest, found := strings.Cut(text, ":")
	prefix, known := prefixNames[name]
	if !found || !known {
		return Operand{}, fmt.Errorf("malformed operand %q, want <kind>:<name>", text)
	}
	if rest == "" {
		return Operand{}, fmt.Errorf("operand %q names nothing", text)
	}
	return Operand{Prefix: prefix, Text: rest}, nil
}

func (s *Script) report(r diag.Reporter, code diag.Code, span source.Span, msg string) {
	s.Errors++
	diag.ReportError(r, code, span, msg).Emit()
}

func offset(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("script offset overflow: %w", err))
	}
	return v
}
