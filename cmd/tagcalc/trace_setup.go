package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tagcalc/internal/config"
	"tagcalc/internal/trace"
)

// setupTracing builds the tracer from the [trace] section, with explicitly
// set --trace* flags taking precedence. It returns a cleanup function that
// flushes and closes the tracer.
func setupTracing(cmd *cobra.Command, cfg config.Config) (trace.Tracer, func(), error) {
	flags := cmd.Root().PersistentFlags()

	tc, err := cfg.TraceConfig()
	if err != nil {
		return nil, nil, err
	}

	if flags.Changed("trace") {
		if tc.OutputPath, err = flags.GetString("trace"); err != nil {
			return nil, nil, fmt.Errorf("failed to get trace flag: %w", err)
		}
		// --trace alone turns tracing on at op level
		if tc.Level == trace.LevelOff {
			tc.Level = trace.LevelOp
		}
		if !flags.Changed("trace-mode") && tc.Mode == trace.ModeRing {
			tc.Mode = trace.ModeStream
		}
	}
	if flags.Changed("trace-level") {
		levelStr, err := flags.GetString("trace-level")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-level flag: %w", err)
		}
		if tc.Level, err = trace.ParseLevel(levelStr); err != nil {
			return nil, nil, fmt.Errorf("invalid trace level: %w", err)
		}
	}
	if flags.Changed("trace-mode") {
		modeStr, err := flags.GetString("trace-mode")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
		}
		if tc.Mode, err = trace.ParseMode(modeStr); err != nil {
			return nil, nil, fmt.Errorf("invalid trace mode: %w", err)
		}
	}
	if tc.RingSize, err = flags.GetInt("trace-ring-size"); err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	if tc.Level == trace.LevelOff {
		return trace.Nop, func() {}, nil
	}

	tracer, err := trace.New(tc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	cleanup := func() {
		// ring mode keeps events in memory only; dump them on the way out
		if d, ok := tracer.(interface {
			Dump(io.Writer, trace.Format) error
		}); ok && tc.Mode == trace.ModeRing {
			if err := dumpRing(cmd, d.Dump, tc.OutputPath); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}

func dumpRing(cmd *cobra.Command, dump func(io.Writer, trace.Format) error, path string) error {
	format := trace.FormatText
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
		format = trace.FormatNDJSON
	}
	if path == "" || path == "-" {
		return dump(cmd.ErrOrStderr(), format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open trace output: %w", err)
	}
	if err := dump(f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
