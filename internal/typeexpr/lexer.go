package typeexpr

import (
	"fmt"
	"strings"
)

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokIdent
	tokNumber
	tokScope  // ::
	tokStar   // *
	tokAmp    // &
	tokAndAnd // &&
	tokLBrack
	tokRBrack
	tokLParen
	tokRParen
	tokComma
	tokArrow // ->
	tokArgs  // balanced <...>, raw text
)

var tokNames = [...]string{
	tokEOF:    "end of input",
	tokIdent:  "identifier",
	tokNumber: "number",
	tokScope:  "'::'",
	tokStar:   "'*'",
	tokAmp:    "'&'",
	tokAndAnd: "'&&'",
	tokLBrack: "'['",
	tokRBrack: "']'",
	tokLParen: "'('",
	tokRParen: "')'",
	tokComma:  "','",
	tokArrow:  "'->'",
	tokArgs:   "template arguments",
}

func (k tokKind) String() string { return tokNames[k] }

type token struct {
	kind tokKind
	text string
	pos  int
}

// lexer splits a type expression into tokens. Template argument lists are
// kept as one raw token so that names like `Box<T *>` survive intact.
type lexer struct {
	src string
	off int
}

func (lx *lexer) next() (token, error) {
	for lx.off < len(lx.src) && isSpace(lx.src[lx.off]) {
		lx.off++
	}
	start := lx.off
	if lx.off >= len(lx.src) {
		return token{kind: tokEOF, pos: start}, nil
	}
	c := lx.src[lx.off]
	switch {
	case isIdentStart(c):
		for lx.off < len(lx.src) && isIdentPart(lx.src[lx.off]) {
			lx.off++
		}
		return token{kind: tokIdent, text: lx.src[start:lx.off], pos: start}, nil
	case isDigit(c):
		for lx.off < len(lx.src) && isDigit(lx.src[lx.off]) {
			lx.off++
		}
		return token{kind: tokNumber, text: lx.src[start:lx.off], pos: start}, nil
	}

	two := ""
	if lx.off+1 < len(lx.src) {
		two = lx.src[lx.off : lx.off+2]
	}
	switch two {
	case "::":
		lx.off += 2
		return token{kind: tokScope, text: two, pos: start}, nil
	case "&&":
		lx.off += 2
		return token{kind: tokAndAnd, text: two, pos: start}, nil
	case "->":
		lx.off += 2
		return token{kind: tokArrow, text: two, pos: start}, nil
	}

	lx.off++
	switch c {
	case '*':
		return token{kind: tokStar, text: "*", pos: start}, nil
	case '&':
		return token{kind: tokAmp, text: "&", pos: start}, nil
	case '[':
		return token{kind: tokLBrack, text: "[", pos: start}, nil
	case ']':
		return token{kind: tokRBrack, text: "]", pos: start}, nil
	case '(':
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case ')':
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case ',':
		return token{kind: tokComma, text: ",", pos: start}, nil
	case '<':
		return lx.args(start)
	}
	return token{}, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, c, start)
}

// args consumes a balanced angle bracket group; the opening '<' is already
// consumed. Arrows inside the group do not close it.
func (lx *lexer) args(start int) (token, error) {
	depth := 1
	for lx.off < len(lx.src) {
		c := lx.src[lx.off]
		switch {
		case c == '-' && lx.off+1 < len(lx.src) && lx.src[lx.off+1] == '>':
			lx.off += 2
			continue
		case c == '<':
			depth++
		case c == '>':
			depth--
		}
		lx.off++
		if depth == 0 {
			return token{kind: tokArgs, text: normalizeArgs(lx.src[start:lx.off]), pos: start}, nil
		}
	}
	return token{}, fmt.Errorf("%w: unterminated template arguments at %d", ErrSyntax, start)
}

// normalizeArgs collapses runs of blanks so that `Box< int >` and
// `Box<int>` name the same entity.
func normalizeArgs(s string) string {
	inner := strings.Join(strings.Fields(s[1:len(s)-1]), " ")
	return "<" + inner + ">"
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
