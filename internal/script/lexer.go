package script

import (
	"errors"
	"strings"
)

var errUnterminatedQuote = errors.New("unterminated quote")

// field is one whitespace separated word of a script line. Double quotes
// group spaces into a word and are dropped from Text.
type field struct {
	Text       string
	Start, End int // byte offsets within the line
}

// splitFields breaks a line into fields, stopping at a '#' outside quotes.
func splitFields(line string) ([]field, error) {
	var (
		out []field
		sb  strings.Builder
	)
	i := 0
	for i < len(line) {
		c := line[i]
		if c == ' ' || c == '\t' || c == '\r' {
			i++
			continue
		}
		if c == '#' {
			break
		}
		start := i
		sb.Reset()
		quoted := false
	word:
		for i < len(line) {
			c = line[i]
			switch {
			case c == '"':
				quoted = !quoted
			case quoted:
				sb.WriteByte(c)
			case c == ' ' || c == '\t' || c == '\r' || c == '#':
				break word
			default:
				sb.WriteByte(c)
			}
			i++
		}
		if quoted {
			return out, errUnterminatedQuote
		}
		out = append(out, field{Text: sb.String(), Start: start, End: i})
	}
	return out, nil
}
