package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"reflq/internal/driver"
	"reflq/internal/pipeline"
	"reflq/internal/ui"
)

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [flags] <dir>",
		Short: "Run every script in a directory",
		Long: `Run every *.rq script under a directory against the manifest with the same
base name next to it (.toml, .yaml or .yml). Scripts run in parallel.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(cmd, args[0])
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	cmd.Flags().Bool("strict", false, "exit with an error when any query fails")
	cmd.Flags().Bool("disk-cache", false, "reuse results stored by earlier runs")
	cmd.Flags().Int("jobs", 0, "max parallel scripts (0: from config, then GOMAXPROCS)")
	cmd.Flags().String("ui", "", "progress UI (auto|on|off; default from config)")
	return cmd
}

type batchSummary struct {
	Scripts  int `json:"scripts"`
	Errors   int `json:"errors"`
	Failed   int `json:"failed_queries"`
	Cached   int `json:"cached"`
	Orphaned int `json:"orphaned"`
}

type batchReport struct {
	Results []scriptReport `json:"results"`
	Orphans []string       `json:"orphans,omitempty"`
	Summary batchSummary   `json:"summary"`
}

func (a *app) runBatch(cmd *cobra.Command, dir string) error {
	flags := cmd.Flags()
	formatStr, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := parseOutputFormat(formatStr)
	if err != nil {
		return err
	}
	strict, err := flags.GetBool("strict")
	if err != nil {
		return fmt.Errorf("failed to get strict flag: %w", err)
	}
	jobs := a.cfg.Batch.Jobs
	if flags.Changed("jobs") {
		if jobs, err = flags.GetInt("jobs"); err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	uiValue := a.cfg.Batch.UI
	if flags.Changed("ui") {
		if uiValue, err = flags.GetString("ui"); err != nil {
			return fmt.Errorf("failed to get ui flag: %w", err)
		}
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	cache, err := a.openCache(cmd)
	if err != nil {
		return err
	}

	pairs, orphans, err := driver.FindPairs(dir)
	if err != nil {
		return fmt.Errorf("%s: %w", dir, err)
	}
	if len(pairs) == 0 && len(orphans) == 0 {
		return fmt.Errorf("%s: no *%s scripts found", dir, driver.ScriptExt)
	}

	opts := a.options(cache)
	var results []*driver.Result
	if format == formatPretty && !a.quiet && shouldUseTUI(mode, cmd.OutOrStdout()) {
		results, err = a.runBatchWithUI(cmd.Context(), cmd.OutOrStdout(), dir, pairs, opts, jobs)
	} else {
		results, err = driver.RunBatch(cmd.Context(), pairs, opts, jobs)
	}
	if err != nil {
		return err
	}

	summary := batchSummary{Scripts: len(results), Orphaned: len(orphans)}
	failing := false
	for _, res := range results {
		if strict {
			reportFailedQueries(res)
		}
		summary.Failed += res.Failed
		if res.Status == pipeline.StatusError {
			summary.Errors++
		}
		if res.Cached {
			summary.Cached++
		}
		if exitStatus(res, strict) != nil {
			failing = true
		}
	}

	if format == formatPretty {
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
		for i, res := range results {
			if i > 0 && !a.quiet {
				fmt.Fprintln(out)
			}
			a.printPretty(out, errOut, res)
		}
		for _, o := range orphans {
			fmt.Fprintf(errOut, "warning: %s has no manifest next to it\n", o)
		}
		if !a.quiet {
			fmt.Fprintf(out, "\n%d script(s), %d with errors, %d failed quer(ies), %d cached\n",
				summary.Scripts, summary.Errors, summary.Failed, summary.Cached)
		}
	} else {
		report := batchReport{Orphans: orphans, Summary: summary, Results: make([]scriptReport, 0, len(results))}
		for _, res := range results {
			report.Results = append(report.Results, a.report(res))
		}
		if err := encode(cmd.OutOrStdout(), format, report); err != nil {
			return err
		}
	}

	if failing {
		return errReported
	}
	return nil
}

type batchOutcome struct {
	results []*driver.Result
	err     error
}

// runBatchWithUI runs the batch in the background and renders its progress
// until every script has finished.
func (a *app) runBatchWithUI(ctx context.Context, out io.Writer, title string, pairs []driver.Pair, opts driver.Options, jobs int) ([]*driver.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		opts.Sink = pipeline.ChannelSink{Ch: events}
		res, err := driver.RunBatch(ctx, pairs, opts, jobs)
		outcomeCh <- batchOutcome{results: res, err: err}
		close(events)
	}()

	scripts := make([]string, len(pairs))
	for i, p := range pairs {
		scripts[i] = p.Script
	}
	uiErr := ui.RunProgress(ctx, out, title, scripts, events)
	if uiErr != nil {
		// keep the workers from blocking on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
