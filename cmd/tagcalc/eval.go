package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tagcalc/internal/diag"
	"tagcalc/internal/diagfmt"
	"tagcalc/internal/editor"
	"tagcalc/internal/eval"
	"tagcalc/internal/observ"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] formula...",
	Short: "Evaluate a formula",
	Long: `Eval reads the formula the way the editor does: operator characters split
tokens, numbers become number tokens and names are bound to tags found in
the configured sources`,
	Example: `  tagcalc eval "(Revenue - Cost) / Revenue"
  tagcalc eval --format json Profit * 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	evalCmd.Flags().Bool("tokens", false, "print the token sequence before the result")
}

// errReported marks failures already printed for the user.
var errReported = errors.New("formula evaluation failed")

func runEval(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	showTokens, _ := cmd.Flags().GetBool("tokens")

	a := appFrom(cmd)
	stack, err := a.sources()
	if err != nil {
		return err
	}

	var timer *observ.Timer
	if timings(cmd) {
		timer = observ.NewTimer()
	}
	ed := editor.New(stack.Tracker(a.cfg),
		editor.WithContext(cmd.Context()),
		editor.WithTracer(a.tracer),
		editor.WithTimer(timer))

	tokenized := timer.Track("tokenize")
	if err := ed.Feed(cmd.Context(), strings.Join(args, " ")); err != nil && !quiet(cmd) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	tokenized(fmt.Sprintf("%d tokens", ed.Store().Len()))

	tokens := ed.Store().Tokens()
	out := cmd.OutOrStdout()
	v, evalErr := ed.Calculate()

	if format == "json" {
		opts := diagfmt.JSONOpts{Indent: true}
		if timer != nil {
			report := timer.Report()
			opts.Timings = &report
		}
		var d *diag.Diagnostic
		var result *float64
		if evalErr != nil {
			dd := diagnosticOf(evalErr)
			d = &dd
		} else {
			result = &v
		}
		if err := diagfmt.FormatFormulaJSON(out, eval.Describe(tokens), tokens, result, d, opts); err != nil {
			return err
		}
		if evalErr != nil {
			return errReported
		}
		return nil
	}

	if timer != nil {
		defer fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if showTokens {
		if err := diagfmt.FormatTokensPretty(out, tokens); err != nil {
			return err
		}
	}
	if evalErr != nil {
		printFormulaError(cmd.ErrOrStderr(), ed, evalErr, useColor(cmd, os.Stderr))
		return errReported
	}
	fmt.Fprintln(out, eval.FormatResult(v))
	return nil
}

func diagnosticOf(err error) diag.Diagnostic {
	var fe *eval.FormulaError
	if errors.As(err, &fe) {
		return fe.Diagnostic()
	}
	return diag.Diagnostic{Severity: diag.SevError, Code: diag.EvalInternal, Message: err.Error(), Token: -1}
}

func printFormulaError(w io.Writer, ed *editor.Editor, err error, color bool) {
	expr := ""
	if fe := ed.FormulaError(); fe != nil {
		expr = fe.Expr
	}
	opts := diagfmt.PrettyOpts{Color: color, ShowToken: true}
	_ = diagfmt.Pretty(w, diagnosticOf(err), expr, ed.Store().Tokens(), opts)
}

func stdoutFile(cmd *cobra.Command) *os.File {
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return f
	}
	return os.Stdout
}
