// Package traits defines the packed trait records returned by trait
// queries. Each record is an ordered list of fixed-width fields packed
// LSB-first into a 32-bit word; bits past the last field are reserved and
// always zero. Consumers unpack by position, so field order and widths are
// part of the contract.
package traits

import (
	"errors"
	"fmt"
	"strings"
)

// Width is the carrier width of every record.
const Width = 32

var (
	ErrReservedBits  = errors.New("reserved trait bits are set")
	ErrUnknownSchema = errors.New("unknown trait record")
)

// FieldType tells how a field value is interpreted when rendered.
type FieldType uint8

const (
	TypeFlag FieldType = iota
	TypePadding
	TypeLinkage
	TypeAccess
	TypeStorage
	TypeMethodKind
	TypeClassKind
)

func (t FieldType) String() string {
	switch t {
	case TypeFlag:
		return "flag"
	case TypePadding:
		return "padding"
	case TypeLinkage:
		return "linkage"
	case TypeAccess:
		return "access"
	case TypeStorage:
		return "storage"
	case TypeMethodKind:
		return "method_kind"
	case TypeClassKind:
		return "class_kind"
	}
	return fmt.Sprintf("FieldType(%d)", uint8(t))
}

var enumLabels = map[FieldType][]string{
	TypeLinkage:    {"none", "internal", "external"},
	TypeAccess:     {"none", "public", "private", "protected"},
	TypeStorage:    {"automatic", "static", "thread", "dynamic"},
	TypeMethodKind: {"method", "constructor", "destructor", "conversion"},
	TypeClassKind:  {"struct", "class", "union"},
}

// Field is one bit-field of a record.
type Field struct {
	Name  string
	Width uint
	Type  FieldType
}

// Label renders v according to the field type.
func (f Field) Label(v uint32) string {
	if labels, ok := enumLabels[f.Type]; ok && int(v) < len(labels) {
		return labels[v]
	}
	return fmt.Sprint(v)
}

// Schema is an ordered list of fields.
type Schema struct {
	Name   string
	fields []Field
	shifts []uint
	index  map[string]int
	bits   uint
}

func newSchema(name string, fields ...Field) *Schema {
	s := &Schema{
		Name:   name,
		fields: fields,
		shifts: make([]uint, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if f.Width == 0 {
			panic(fmt.Sprintf("traits: %s.%s has zero width", name, f.Name))
		}
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("traits: %s.%s declared twice", name, f.Name))
		}
		s.shifts[i] = s.bits
		s.index[f.Name] = i
		s.bits += f.Width
	}
	if s.bits > Width {
		panic(fmt.Sprintf("traits: %s needs %d bits", name, s.bits))
	}
	return s
}

// Fields returns the fields in packing order.
func (s *Schema) Fields() []Field { return s.fields }

// Bits is the number of used bits.
func (s *Schema) Bits() uint { return s.bits }

// Offset returns the bit position of a field.
func (s *Schema) Offset(name string) (uint, bool) {
	i, ok := s.index[name]
	if !ok {
		return 0, false
	}
	return s.shifts[i], true
}

// ReservedMask covers the bits past the last field.
func (s *Schema) ReservedMask() uint32 {
	if s.bits >= Width {
		return 0
	}
	return ^uint32(0) << s.bits
}

// New starts an all-zero record.
func (s *Schema) New() *Record {
	return &Record{schema: s, vals: make([]uint32, len(s.fields))}
}

// Decode unpacks a word. Reserved bits must be zero.
func (s *Schema) Decode(word uint32) (*Record, error) {
	if word&s.ReservedMask() != 0 {
		return nil, fmt.Errorf("%s: %#x: %w", s.Name, word, ErrReservedBits)
	}
	r := s.New()
	for i, f := range s.fields {
		r.vals[i] = (word >> s.shifts[i]) & mask(f.Width)
	}
	return r, nil
}

// Record holds field values of one schema.
type Record struct {
	schema *Schema
	vals   []uint32
}

func (r *Record) Schema() *Schema { return r.schema }

// Set stores v into the named field. Unknown names and values that do not
// fit the field width are programming errors.
func (r *Record) Set(name string, v uint32) *Record {
	i := r.mustIndex(name)
	if v > mask(r.schema.fields[i].Width) {
		panic(fmt.Sprintf("traits: %s.%s: value %d exceeds %d bits", r.schema.Name, name, v, r.schema.fields[i].Width))
	}
	r.vals[i] = v
	return r
}

// Flag stores a boolean field.
func (r *Record) Flag(name string, b bool) *Record {
	if b {
		return r.Set(name, 1)
	}
	return r.Set(name, 0)
}

func (r *Record) Get(name string) uint32 { return r.vals[r.mustIndex(name)] }

func (r *Record) Bool(name string) bool { return r.Get(name) != 0 }

// Word packs the record.
func (r *Record) Word() uint32 {
	var w uint32
	for i, v := range r.vals {
		w |= v << r.schema.shifts[i]
	}
	return w
}

// String renders the record as `name=value` pairs in field order, skipping
// padding and zero flags.
func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString(r.schema.Name)
	sb.WriteByte('{')
	first := true
	for i, f := range r.schema.fields {
		v := r.vals[i]
		if f.Type == TypePadding || (f.Type == TypeFlag && v == 0) {
			continue
		}
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		if f.Type == TypeFlag {
			sb.WriteString(f.Name)
			continue
		}
		sb.WriteString(f.Name)
		sb.WriteByte('=')
		sb.WriteString(f.Label(v))
	}
	sb.WriteByte('}')
	return sb.String()
}

func (r *Record) mustIndex(name string) int {
	i, ok := r.schema.index[name]
	if !ok {
		panic(fmt.Sprintf("traits: %s has no field %q", r.schema.Name, name))
	}
	return i
}

func mask(width uint) uint32 {
	if width >= Width {
		return ^uint32(0)
	}
	return 1<<width - 1
}
