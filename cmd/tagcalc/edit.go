package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tagcalc/internal/config"
	"tagcalc/internal/editor"
	"tagcalc/internal/eval"
	"tagcalc/internal/ui"
)

var editCmd = &cobra.Command{
	Use:   "edit [flags]",
	Short: "Edit and evaluate formulas interactively",
	Long: `Edit opens the formula editor. Without a terminal it falls back to line
mode: every input line is a formula, evaluated as it is read`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	editCmd.Flags().Bool("watch", true, "reload tagcalc.toml tags when the file changes")
}

func runEdit(cmd *cobra.Command, _ []string) error {
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	a := appFrom(cmd)
	stack, err := a.sources()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	ed := editor.New(stack.Tracker(a.cfg), editor.WithContext(ctx), editor.WithTracer(a.tracer))

	if !shouldUseTUI(mode) {
		return runLineMode(ctx, cmd, ed)
	}

	var notices chan ui.Notice
	watch, _ := cmd.Flags().GetBool("watch")
	if watch && a.cfg.Path != "" {
		notices = make(chan ui.Notice, 1)
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		err := config.Watch(watchCtx, a.cfg.Path, func(cfg config.Config, err error) {
			n := ui.Notice{Err: err}
			if err == nil {
				stack.Reload(cfg)
				n.Text = fmt.Sprintf("reloaded %s (%d tags)", a.cfg.Path, len(cfg.Tags))
			}
			select {
			case notices <- n:
			default:
			}
		})
		if err != nil {
			return err
		}
	}
	return ui.Run(ctx, ed, notices)
}

// runLineMode evaluates one formula per input line.
func runLineMode(ctx context.Context, cmd *cobra.Command, ed *editor.Editor) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	color := useColor(cmd, stdoutFile(cmd))
	prompt := func() {
		if !quiet(cmd) {
			fmt.Fprint(out, "> ")
		}
	}

	prompt()
	for in.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			prompt()
			continue
		}
		ed.Clear()
		if err := ed.Feed(ctx, line); err != nil && !quiet(cmd) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
		if v, err := ed.Calculate(); err != nil {
			printFormulaError(out, ed, err, color)
		} else {
			fmt.Fprintf(out, "= %s\n", eval.FormatResult(v))
		}
		prompt()
	}
	if err := in.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}
