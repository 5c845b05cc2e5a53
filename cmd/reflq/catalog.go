package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reflq/internal/reflection"
	"reflq/internal/script"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the queries a script can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCatalog(cmd)
		},
	}
	cmd.Flags().String("band", "", "only list one band (predicate|trait|associated|name|attribute)")
	cmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	return cmd
}

type catalogEntry struct {
	Name     string `json:"name"`
	Band     string `json:"band"`
	Operands int    `json:"operands"`
}

func (a *app) runCatalog(cmd *cobra.Command) error {
	band, err := cmd.Flags().GetString("band")
	if err != nil {
		return fmt.Errorf("failed to get band flag: %w", err)
	}
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := parseOutputFormat(formatStr)
	if err != nil {
		return err
	}

	band = strings.ToLower(strings.TrimSpace(band))
	var entries []catalogEntry
	for _, q := range reflection.Queries() {
		b := q.Band().String()
		if band != "" && b != band {
			continue
		}
		entries = append(entries, catalogEntry{Name: q.String(), Band: b, Operands: script.QueryArity(q)})
	}
	if len(entries) == 0 {
		return fmt.Errorf("unknown band %q", band)
	}

	if format != formatPretty {
		return encode(cmd.OutOrStdout(), format, entries)
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		usage := e.Name + " <subject>"
		if e.Operands == 2 {
			usage += " <attribute-type>"
		}
		rows = append(rows, []string{usage, e.Band})
	}
	rows = append(rows,
		[]string{"equal <a> <b>", "statement"},
		[]string{"walk <subject>", "statement"},
	)
	writeTable(cmd.OutOrStdout(), "", rows)
	return nil
}
