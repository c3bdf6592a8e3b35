package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"tagcalc/internal/config"
	"tagcalc/internal/prof"
	"tagcalc/internal/trace"
)

// app is the per-invocation state shared by subcommands.
type app struct {
	cfg     config.Config
	tracer  trace.Tracer
	cleanup func()
	stack   *config.Stack
	prof    *prof.Session
}

type appKey struct{}

// current is the app of the running invocation. Cobra skips post-run hooks
// when a command fails, so it is closed from a finalizer instead.
var current *app

func init() {
	cobra.OnFinalize(closeApp)
}

func appFrom(cmd *cobra.Command) *app {
	if a, ok := cmd.Context().Value(appKey{}).(*app); ok {
		return a
	}
	return &app{cfg: config.Default(), tracer: trace.Nop, cleanup: func() {}}
}

// setupApp loads tagcalc.toml and starts tracing before any subcommand.
func setupApp(cmd *cobra.Command, _ []string) error {
	if cmd == versionCmd {
		return nil
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	session, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	tracer, cleanup, err := setupTracing(cmd, cfg)
	if err != nil {
		_ = session.Stop()
		return err
	}
	a := &app{cfg: cfg, tracer: tracer, cleanup: cleanup, prof: session}
	current = a

	ctx := context.WithValue(cmd.Context(), appKey{}, a)
	ctx = trace.WithTracer(ctx, tracer)
	cmd.SetContext(ctx)

	trace.Point(tracer, trace.ScopeSession, "start", cmd.CommandPath(), "config", cfg.Path)
	return nil
}

// closeApp releases the sources, flushes the tracer and stops profiling.
func closeApp() {
	a := current
	if a == nil {
		return
	}
	current = nil
	trace.Point(a.tracer, trace.ScopeSession, "exit", "")

	var result *multierror.Error
	if err := a.stack.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	a.cleanup()
	if err := a.prof.Stop(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}

func setupProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil, nil
	}
	return prof.Start(opts)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(".")
}

// sources opens the configured autocomplete stack once per invocation.
func (a *app) sources() (*config.Stack, error) {
	if a.stack != nil {
		return a.stack, nil
	}
	stack, err := config.OpenSources(a.cfg)
	if err != nil {
		return nil, err
	}
	a.stack = stack
	return stack, nil
}
