package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"reflq/internal/traits"
)

func newTraitsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traits",
		Short: "Inspect packed trait records",
	}

	decode := &cobra.Command{
		Use:   "decode <record> <word>",
		Short: "Unpack a trait word returned by a get_*_traits query",
		Example: `  reflq traits decode class 0x1a5
  reflq traits decode variable 37`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTraitsDecode(cmd, args[0], args[1])
		},
	}
	decode.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")

	schema := &cobra.Command{
		Use:   "schema [record]",
		Short: "Show the field layout of one record, or of all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTraitsSchema(cmd, args)
		},
	}

	cmd.AddCommand(decode, schema)
	return cmd
}

type fieldReport struct {
	Name   string `json:"name"`
	Offset uint   `json:"offset"`
	Width  uint   `json:"width"`
	Type   string `json:"type"`
	Value  uint32 `json:"value"`
	Label  string `json:"label"`
}

type decodeReport struct {
	Record string        `json:"record"`
	Word   uint32        `json:"word"`
	Text   string        `json:"text"`
	Fields []fieldReport `json:"fields"`
}

func lookupSchema(name string) (*traits.Schema, error) {
	s, err := traits.Lookup(name)
	if err != nil {
		names := make([]string, 0, len(traits.All()))
		for _, s := range traits.All() {
			names = append(names, s.Name)
		}
		return nil, fmt.Errorf("%w %q (known: %s)", err, name, strings.Join(names, ", "))
	}
	return s, nil
}

func (a *app) runTraitsDecode(cmd *cobra.Command, record, wordStr string) error {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := parseOutputFormat(formatStr)
	if err != nil {
		return err
	}
	s, err := lookupSchema(record)
	if err != nil {
		return err
	}
	word, err := strconv.ParseUint(wordStr, 0, 32)
	if err != nil {
		return fmt.Errorf("invalid trait word %q: %w", wordStr, err)
	}
	rec, err := s.Decode(uint32(word))
	if err != nil {
		return err
	}

	report := decodeReport{Record: s.Name, Word: uint32(word), Text: rec.String()}
	for _, f := range s.Fields() {
		if f.Type == traits.TypePadding {
			continue
		}
		off, _ := s.Offset(f.Name)
		v := rec.Get(f.Name)
		report.Fields = append(report.Fields, fieldReport{
			Name: f.Name, Offset: off, Width: f.Width, Type: f.Type.String(), Value: v, Label: f.Label(v),
		})
	}

	if format != formatPretty {
		return encode(cmd.OutOrStdout(), format, report)
	}
	out := cmd.OutOrStdout()
	st := newStyles(a.color)
	fmt.Fprintf(out, "%#x %s\n", report.Word, st.header.Sprint(report.Text))
	rows := make([][]string, 0, len(report.Fields))
	for _, f := range report.Fields {
		rows = append(rows, []string{f.Name, fmt.Sprintf("bit %d", f.Offset), f.Label})
	}
	writeTable(out, "  ", rows)
	return nil
}

func (a *app) runTraitsSchema(cmd *cobra.Command, args []string) error {
	schemas := traits.All()
	if len(args) == 1 {
		s, err := lookupSchema(args[0])
		if err != nil {
			return err
		}
		schemas = []*traits.Schema{s}
	}
	out := cmd.OutOrStdout()
	st := newStyles(a.color)
	for i, s := range schemas {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s (%d bits, reserved mask %#08x)\n", st.header.Sprint(s.Name), s.Bits(), s.ReservedMask())
		rows := make([][]string, 0, len(s.Fields()))
		for _, f := range s.Fields() {
			off, _ := s.Offset(f.Name)
			bits := fmt.Sprintf("%d", off)
			if f.Width > 1 {
				bits = fmt.Sprintf("%d-%d", off, off+f.Width-1)
			}
			rows = append(rows, []string{bits, f.Name, f.Type.String()})
		}
		writeTable(out, "  ", rows)
	}
	return nil
}

// writeTable prints rows with every column but the last padded to its
// widest cell.
func writeTable(w io.Writer, indent string, rows [][]string) {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for _, row := range rows {
		var b strings.Builder
		b.WriteString(indent)
		for i, cell := range row {
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)+2))
			}
		}
		fmt.Fprintln(w, b.String())
	}
}
