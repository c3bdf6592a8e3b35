package eval

import (
	"fmt"

	"tagcalc/internal/diag"
)

// FormulaError reports why a formula could not be reduced to a number.
type FormulaError struct {
	Code diag.Code
	Msg  string
	// Span is the byte range inside Expr.
	Span diag.Span
	// Token is the index of the formula token Span falls into, -1 if none.
	Token int
	Expr  string
}

func (e *FormulaError) Error() string {
	return fmt.Sprintf("formula: %s at offset %d", e.Msg, e.Span.Start)
}

// Offset is the byte offset of the failure inside Expr.
func (e *FormulaError) Offset() int { return e.Span.Start }

// Diagnostic converts the error into a diag record.
func (e *FormulaError) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Severity: diag.SevError,
		Code:     e.Code,
		Message:  e.Msg,
		Span:     e.Span,
		Token:    e.Token,
	}
}
