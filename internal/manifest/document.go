// Package manifest loads a program model from a TOML or YAML description.
//
// A manifest lists declarations in source order. Each declaration names
// its semantic parent by key; the key of a declaration is its explicit
// `id`, or its parent's key joined with its name and template arguments
// (`N::Widget`, `N::Box<int>`). Type expressions use the syntax of package
// typeexpr and may name any type-declaring entry, relative to the
// enclosing scopes of the declaration that uses them.
package manifest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownFormat = errors.New("unknown manifest format")
	ErrInvalid       = errors.New("invalid manifest")
)

// Format is the serialization of a manifest file.
type Format uint8

const (
	FormatTOML Format = iota + 1
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// Document is the decoded form of a manifest.
type Document struct {
	Name  string            `toml:"name" yaml:"name"`
	Decls []DeclEntry       `toml:"decl" yaml:"decl"`
	Exprs []ExprEntry       `toml:"expr" yaml:"expr"`
	Bases []BaseEntry       `toml:"base" yaml:"base"`
	Types map[string]string `toml:"types" yaml:"types"`

	// 1-based source lines of the entries, zero when unknown
	declLines, exprLines, baseLines []int
}

type DeclEntry struct {
	ID            string      `toml:"id" yaml:"id"`
	Kind          string      `toml:"kind" yaml:"kind"`
	Name          string      `toml:"name" yaml:"name"`
	Args          string      `toml:"args" yaml:"args"`
	Parent        string      `toml:"parent" yaml:"parent"`
	LexicalParent string      `toml:"lexical_parent" yaml:"lexical_parent"`
	Redeclares    string      `toml:"redeclares" yaml:"redeclares"`
	Target        string      `toml:"target" yaml:"target"`
	Type          string      `toml:"type" yaml:"type"`
	Tag           string      `toml:"tag" yaml:"tag"`
	Access        string      `toml:"access" yaml:"access"`
	Linkage       string      `toml:"linkage" yaml:"linkage"`
	Storage       string      `toml:"storage" yaml:"storage"`
	SpecKind      string      `toml:"spec_kind" yaml:"spec_kind"`
	Shape         string      `toml:"shape" yaml:"shape"`
	Flags         []string    `toml:"flags" yaml:"flags"`
	Attrs         []AttrEntry `toml:"attrs" yaml:"attrs"`
}

// ValueEntry holds at most one constant.
type ValueEntry struct {
	Int    *int64   `toml:"int" yaml:"int"`
	Bool   *bool    `toml:"bool" yaml:"bool"`
	Float  *float64 `toml:"float" yaml:"float"`
	String *string  `toml:"string" yaml:"string"`
}

type AttrEntry struct {
	Type       string `toml:"type" yaml:"type"`
	ValueEntry `yaml:",inline"`
}

type ExprEntry struct {
	Name     string     `toml:"name" yaml:"name"`
	Kind     string     `toml:"kind" yaml:"kind"`
	Category string     `toml:"category" yaml:"category"`
	Type     string     `toml:"type" yaml:"type"`
	Decl     string     `toml:"decl" yaml:"decl"`
	Value    ValueEntry `toml:"value" yaml:"value"`
}

type BaseEntry struct {
	Owner   string `toml:"owner" yaml:"owner"`
	Type    string `toml:"type" yaml:"type"`
	Virtual bool   `toml:"virtual" yaml:"virtual"`
	Access  string `toml:"access" yaml:"access"`
}

// Decode parses manifest content. Syntax errors carry the offending line
// when the decoder reports one.
func Decode(format Format, content []byte) (*Document, int, error) {
	doc := &Document{}
	switch format {
	case FormatTOML:
		meta, err := toml.Decode(string(content), doc)
		if err != nil {
			var perr toml.ParseError
			if errors.As(err, &perr) {
				return nil, perr.Position.Line, err
			}
			return nil, 0, err
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, 0, fmt.Errorf("unknown key %q: %w", undecoded[0].String(), ErrInvalid)
		}
		doc.declLines = tableHeaderLines(content, "[[decl]]")
		doc.exprLines = tableHeaderLines(content, "[[expr]]")
		doc.baseLines = tableHeaderLines(content, "[[base]]")
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(doc); err != nil {
			if errors.Is(err, io.EOF) {
				return doc, 0, nil
			}
			return nil, yamlErrorLine(err), err
		}
		var root yaml.Node
		if err := yaml.Unmarshal(content, &root); err != nil {
			return nil, yamlErrorLine(err), err
		}
		if len(root.Content) > 0 {
			doc.declLines = sequenceLines(root.Content[0], "decl")
			doc.exprLines = sequenceLines(root.Content[0], "expr")
			doc.baseLines = sequenceLines(root.Content[0], "base")
		}
	default:
		return nil, 0, ErrUnknownFormat
	}
	return doc, 0, nil
}

func tableHeaderLines(content []byte, header string) []int {
	var lines []int
	sc := bufio.NewScanner(bytes.NewReader(content))
	for n := 1; sc.Scan(); n++ {
		if strings.TrimSpace(sc.Text()) == header {
			lines = append(lines, n)
		}
	}
	return lines
}

func sequenceLines(mapping *yaml.Node, key string) []int {
	if mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != key || mapping.Content[i+1].Kind != yaml.SequenceNode {
			continue
		}
		items := mapping.Content[i+1].Content
		lines := make([]int, len(items))
		for j, item := range items {
			lines[j] = item.Line
		}
		return lines
	}
	return nil
}

// yamlErrorLine extracts the line from "yaml: line N: ..." messages.
func yamlErrorLine(err error) int {
	var line int
	msg := err.Error()
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		msg = te.Errors[0]
	}
	if i := strings.Index(msg, "line "); i >= 0 {
		if _, scanErr := fmt.Sscanf(msg[i:], "line %d", &line); scanErr != nil {
			return 0
		}
	}
	return line
}

func lineAt(lines []int, i int) int {
	if i < len(lines) {
		return lines[i]
	}
	return 0
}
