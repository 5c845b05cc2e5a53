package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"reflq/internal/config"
	"reflq/internal/diagfmt"
	"reflq/internal/driver"
	"reflq/internal/prof"
	"reflq/internal/trace"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	stdout, stderr io.Writer

	cfg      config.Config
	color    bool
	quiet    bool
	timings  bool
	paths    diagfmt.PathMode
	tracer   trace.Tracer
	span     *trace.Span
	heart    *trace.Heartbeat
	cleanups []func()
}

// setup loads the configuration, applies flag overrides and installs the
// tracer into the command context.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	cfgPath, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if cfgPath != "" {
		a.cfg, err = config.Load(cfgPath)
	} else {
		a.cfg, err = config.Discover(".")
	}
	if err != nil {
		return err
	}

	if err := a.applyFlags(cmd); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	colorMode, err := flags.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorMode {
	case "on":
		a.color = true
	case "off":
		a.color = false
	case "auto":
		a.color = isTerminal(a.stdout) && !color.NoColor
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorMode)
	}

	pathMode, err := flags.GetString("paths")
	if err != nil {
		return fmt.Errorf("failed to get paths flag: %w", err)
	}
	var ok bool
	if a.paths, ok = diagfmt.ParsePathMode(pathMode); !ok {
		return fmt.Errorf("invalid --paths value %q (expected auto|absolute|relative|basename)", pathMode)
	}

	if err := a.setupProfiling(cmd); err != nil {
		return err
	}
	return a.setupTracing(cmd)
}

// setupProfiling starts the runtime profilers named by flags and stops
// them when the command finishes.
func (a *app) setupProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var paths prof.Paths
	for flag, dst := range map[string]*string{
		"cpu-profile":   &paths.CPU,
		"mem-profile":   &paths.Mem,
		"runtime-trace": &paths.Trace,
	} {
		v, err := flags.GetString(flag)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", flag, err)
		}
		*dst = v
	}
	if paths.Empty() {
		return nil
	}
	session, err := prof.Start(paths)
	if err != nil {
		return err
	}
	a.cleanups = append(a.cleanups, func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(a.stderr, "profile: %v\n", err)
		}
	})
	return nil
}

func (a *app) applyFlags(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var err error
	if a.quiet, err = flags.GetBool("quiet"); err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if a.timings, err = flags.GetBool("timings"); err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if flags.Changed("max-diagnostics") {
		n, err := flags.GetInt("max-diagnostics")
		if err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		if n > 0 {
			a.cfg.Engine.MaxDiagnostics = n
		}
	}
	if flags.Changed("qualified-names") {
		qualified, err := flags.GetBool("qualified-names")
		if err != nil {
			return fmt.Errorf("failed to get qualified-names flag: %w", err)
		}
		a.cfg.Engine.DisplayNames = "plain"
		if qualified {
			a.cfg.Engine.DisplayNames = "qualified"
		}
	}

	for flag, dst := range map[string]*string{
		"trace":        &a.cfg.Trace.Output,
		"trace-level":  &a.cfg.Trace.Level,
		"trace-mode":   &a.cfg.Trace.Mode,
		"trace-format": &a.cfg.Trace.Format,
	} {
		if !flags.Changed(flag) {
			continue
		}
		v, err := flags.GetString(flag)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", flag, err)
		}
		*dst = v
	}
	// --trace alone turns tracing on
	if flags.Changed("trace") && !flags.Changed("trace-level") && a.cfg.Trace.Level == "off" {
		a.cfg.Trace.Level = "script"
	}
	if flags.Changed("trace-ring-size") {
		n, err := flags.GetInt("trace-ring-size")
		if err != nil {
			return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
		}
		a.cfg.Trace.RingSize = n
	}
	return nil
}

// setupTracing creates the tracer and opens the driver span for the
// command being run.
func (a *app) setupTracing(cmd *cobra.Command) error {
	a.tracer = trace.Nop
	tc, err := a.cfg.Trace.TracerConfig()
	if err != nil {
		return fmt.Errorf("invalid trace configuration: %w", err)
	}
	heartbeat, err := cmd.Root().PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}
	if tc.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil
	}
	tc.Heartbeat = heartbeat
	if tc.OutputPath == "-" {
		tc.Output = a.stderr
	}

	tracer, err := trace.New(tc)
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	a.tracer = tracer
	if heartbeat > 0 {
		a.heart = trace.StartHeartbeat(tracer, heartbeat)
	}

	ctx, span := trace.Start(trace.WithTracer(cmd.Context(), tracer), trace.ScopeDriver, "reflq "+cmd.Name())
	a.span = span
	cmd.SetContext(ctx)
	return nil
}

// close ends the driver span and releases the tracer. A failed run dumps
// the ring buffer, if any, to stderr.
func (a *app) close(runErr error) {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	if a.tracer == nil {
		return
	}
	if a.heart != nil {
		a.heart.Stop()
	}
	detail := "ok"
	if runErr != nil {
		detail = runErr.Error()
	}
	a.span.End(detail)

	if runErr != nil {
		if dumped, err := trace.DumpRing(a.tracer, a.stderr, trace.FormatText); err != nil {
			fmt.Fprintf(a.stderr, "trace: dump error: %v\n", err)
		} else if dumped {
			fmt.Fprintln(a.stderr, "trace: ring buffer dumped above")
		}
	}
	if err := a.tracer.Flush(); err != nil {
		fmt.Fprintf(a.stderr, "trace: flush error: %v\n", err)
	}
	if err := a.tracer.Close(); err != nil {
		fmt.Fprintf(a.stderr, "trace: close error: %v\n", err)
	}
}

// options builds driver options from the configuration.
func (a *app) options(cache *driver.DiskCache) driver.Options {
	wd, _ := os.Getwd()
	return driver.Options{
		MaxDiagnostics: a.cfg.Engine.MaxDiagnostics,
		Engine:         a.cfg.Engine.Options(),
		Cache:          cache,
		Timings:        a.timings,
		BaseDir:        wd,
	}
}

// openCache opens the disk cache when enabled by flag or configuration.
func (a *app) openCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	enabled := a.cfg.Batch.DiskCache
	if cmd.Flags().Changed("disk-cache") {
		var err error
		if enabled, err = cmd.Flags().GetBool("disk-cache"); err != nil {
			return nil, fmt.Errorf("failed to get disk-cache flag: %w", err)
		}
	}
	if !enabled {
		return nil, nil
	}
	cache, err := driver.OpenDiskCache(a.cfg.Batch.CacheDir)
	if err != nil {
		return nil, err
	}
	trace.Point(cmd.Context(), trace.ScopeModule, "cache", cache.Dir())
	return cache, nil
}
