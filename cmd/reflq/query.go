package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reflq/internal/diag"
	"reflq/internal/driver"
	"reflq/internal/pipeline"
	"reflq/internal/source"
)

func newQueryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [flags] <manifest> <script>",
		Short: "Run a query script against a manifest",
		Long: `Run every statement of a query script against the program described by a
TOML or YAML manifest and print one result per statement.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(cmd, args[0], args[1])
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	cmd.Flags().Bool("strict", false, "exit with an error when any query fails")
	cmd.Flags().Bool("disk-cache", false, "reuse results stored by earlier runs")
	return cmd
}

func (a *app) runQuery(cmd *cobra.Command, manifestPath, scriptPath string) error {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := parseOutputFormat(formatStr)
	if err != nil {
		return err
	}
	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return fmt.Errorf("failed to get strict flag: %w", err)
	}
	cache, err := a.openCache(cmd)
	if err != nil {
		return err
	}

	res, err := driver.RunScript(cmd.Context(), manifestPath, scriptPath, a.options(cache))
	if err != nil {
		return err
	}
	if strict {
		reportFailedQueries(res)
	}

	if format == formatPretty {
		a.printPretty(cmd.OutOrStdout(), cmd.ErrOrStderr(), res)
	} else if err := encode(cmd.OutOrStdout(), format, a.report(res)); err != nil {
		return err
	}
	return exitStatus(res, strict)
}

// reportFailedQueries adds the summary diagnostic for --strict, located at
// the first failed statement.
func reportFailedQueries(res *driver.Result) {
	if res.Failed == 0 {
		return
	}
	span := source.NoSpan
	if file, ok := res.FileSet.GetLatest(res.ScriptPath); ok {
		for _, o := range res.Outcomes {
			if o.Failed() {
				span = res.FileSet.LineSpan(file, uint32(o.Line)) //nolint:gosec // line numbers come from the parser
				break
			}
		}
	}
	d := diag.NewError(diag.ScrQueryFailed, span,
		fmt.Sprintf("%d of %d queries failed", res.Failed, len(res.Outcomes)))
	if !res.Bag.Add(d) {
		overflow := diag.NewBag(1)
		overflow.Add(d)
		res.Bag.Merge(overflow)
	}
}

// exitStatus maps a finished run to the command error. Failed queries
// count only in strict mode.
func exitStatus(res *driver.Result, strict bool) error {
	if res.Status == pipeline.StatusError || (strict && res.Failed > 0) {
		return errReported
	}
	return nil
}
