// Package diagfmt renders formula diagnostics and token sequences for the
// terminal and as JSON.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tagcalc/internal/diag"
	"tagcalc/internal/token"
)

func paint(on bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if on {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Pretty prints d against the flattened formula expr:
//
//	ERROR EVL3001: division by zero
//	  5/0
//	   ^
//	  in token #2 operator "/"
//
// tokens may be nil when the formula did not come from a token sequence.
func Pretty(w io.Writer, d diag.Diagnostic, expr string, tokens []token.Token, opts PrettyOpts) error {
	sev := paint(opts.Color, severityColor(d.Severity), color.Bold)
	code := paint(opts.Color, color.Bold)
	caret := paint(opts.Color, color.FgGreen, color.Bold)
	dim := paint(opts.Color, color.Faint)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s\n", sev.Sprint(d.Severity), code.Sprint(d.Code.ID()), d.Message)
	if expr != "" {
		start := min(max(d.Span.Start, 0), len(expr))
		width := max(d.Span.End-d.Span.Start, 1)
		fmt.Fprintf(&b, "  %s\n", expr)
		fmt.Fprintf(&b, "  %s%s\n", strings.Repeat(" ", start), caret.Sprint(strings.Repeat("^", width)))
	}
	if opts.ShowToken && d.Token >= 0 && d.Token < len(tokens) {
		tok := tokens[d.Token]
		fmt.Fprintf(&b, "  %s\n", dim.Sprintf("in token #%d %s %q", d.Token+1, tok.Kind, tok.Literal))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func severityColor(s diag.Severity) color.Attribute {
	switch s {
	case diag.SevError:
		return color.FgRed
	case diag.SevWarning:
		return color.FgYellow
	default:
		return color.FgCyan
	}
}
