package eval

import (
	"fmt"
	"strconv"

	"tagcalc/internal/diag"
	"tagcalc/internal/observ"
	"tagcalc/internal/token"
	"tagcalc/internal/trace"
)

// Options carries optional instrumentation.
type Options struct {
	Timer  *observ.Timer
	Tracer trace.Tracer
}

// Evaluate reduces tokens to a number. The returned error, if any, is a
// *FormulaError.
func Evaluate(tokens []token.Token) (float64, error) {
	return EvaluateWith(tokens, Options{})
}

// EvaluateWith is Evaluate with instrumentation.
func EvaluateWith(tokens []token.Token, opts Options) (result float64, err error) {
	span := trace.Begin(opts.Tracer, trace.ScopeOp, "evaluate", 0)
	span.WithExtra("tokens", strconv.Itoa(len(tokens)))

	var flat Flat
	defer func() {
		if r := recover(); r != nil {
			result, err = 0, &FormulaError{
				Code:  diag.EvalInternal,
				Msg:   fmt.Sprint(r),
				Token: -1,
				Expr:  flat.Expr,
			}
		}
		if err == nil {
			span.WithExtra("result", strconv.FormatFloat(result, 'g', -1, 64))
		}
		span.Fail(err)
	}()

	idx := opts.Timer.Begin("flatten")
	flat = Flatten(tokens)
	opts.Timer.End(idx, strconv.Itoa(len(flat.Expr))+" bytes")

	return evalFlat(flat, opts.Timer)
}

// EvaluateExpr evaluates a raw expression string with the same grammar.
func EvaluateExpr(expr string) (float64, error) {
	return evalFlat(Flat{Expr: expr}, nil)
}

func evalFlat(flat Flat, timer *observ.Timer) (float64, error) {
	if flat.Blank() {
		return 0, nil
	}

	if fe := checkAdjacent(flat); fe != nil {
		return 0, fe
	}

	idx := timer.Begin("parse")
	v, perr := newParser(flat.Expr).run()
	timer.End(idx, "")
	if perr != nil {
		start, end := int(perr.span.Start), int(perr.span.End)
		return 0, &FormulaError{
			Code:  perr.code,
			Msg:   perr.msg,
			Span:  diag.Span{Start: start, End: end},
			Token: flat.TokenAt(start),
			Expr:  flat.Expr,
		}
	}
	return v, nil
}
