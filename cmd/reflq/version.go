package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reflq/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func newVersionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			formatStr, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			format, err := parseOutputFormat(formatStr)
			if err != nil {
				return err
			}
			if format == formatPretty {
				fmt.Fprintln(cmd.OutOrStdout(), version.String(a.color))
				return nil
			}
			return encode(cmd.OutOrStdout(), format, versionPayload{
				Tool:      "reflq",
				Version:   strings.TrimSpace(version.Version),
				GitCommit: strings.TrimSpace(version.GitCommit),
				BuildDate: strings.TrimSpace(version.BuildDate),
			})
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	return cmd
}
