package diagfmt

import (
	"encoding/json"
	"io"

	"tagcalc/internal/diag"
	"tagcalc/internal/observ"
	"tagcalc/internal/token"
)

// SpanJSON is a byte range inside the flattened formula.
type SpanJSON struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// DiagnosticJSON is a diagnostic in JSON form.
type DiagnosticJSON struct {
	Severity string   `json:"severity"`
	Code     string   `json:"code"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Span     SpanJSON `json:"span"`
	// Token is the index of the offending token, -1 if none.
	Token int `json:"token"`
}

// TagJSON is a bound tag.
type TagJSON struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Kind  string  `json:"kind"`
}

// TokenJSON is one token of a formula.
type TokenJSON struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	Literal string   `json:"literal"`
	Tag     *TagJSON `json:"tag,omitempty"`
}

// FormulaJSON is the outcome of evaluating a formula.
type FormulaJSON struct {
	Expr       string          `json:"expr"`
	Tokens     []TokenJSON     `json:"tokens"`
	Result     *float64        `json:"result,omitempty"`
	Diagnostic *DiagnosticJSON `json:"diagnostic,omitempty"`
	Timings    *observ.Report  `json:"timings,omitempty"`
}

// MakeDiagnostic converts d.
func MakeDiagnostic(d diag.Diagnostic) DiagnosticJSON {
	return DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Span:     SpanJSON{Start: d.Span.Start, End: d.Span.End},
		Token:    d.Token,
	}
}

// MakeTokens converts tokens.
func MakeTokens(tokens []token.Token) []TokenJSON {
	out := make([]TokenJSON, 0, len(tokens))
	for _, tok := range tokens {
		tj := TokenJSON{ID: tok.ID, Kind: tok.Kind.String(), Literal: tok.Literal}
		if tok.Tag != nil {
			tj.Tag = &TagJSON{
				ID:    tok.Tag.ID,
				Name:  tok.Tag.Name,
				Value: tok.Tag.Value,
				Kind:  tok.Tag.Kind.String(),
			}
		}
		out = append(out, tj)
	}
	return out
}

// FormatFormulaJSON writes the evaluation outcome. Exactly one of result
// and d is expected to be non-nil.
func FormatFormulaJSON(w io.Writer, expr string, tokens []token.Token, result *float64, d *diag.Diagnostic, opts JSONOpts) error {
	out := FormulaJSON{
		Expr:    expr,
		Tokens:  MakeTokens(tokens),
		Result:  result,
		Timings: opts.Timings,
	}
	if d != nil {
		dj := MakeDiagnostic(*d)
		out.Diagnostic = &dj
	}
	enc := json.NewEncoder(w)
	if opts.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
