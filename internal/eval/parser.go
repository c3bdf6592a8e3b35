package eval

import (
	"math"
	"strconv"

	"tagcalc/internal/diag"
	"tagcalc/internal/lexer"
)

const (
	precAdd   = 1
	precMul   = 2
	precUnary = 3
	precPow   = 4

	maxDepth = 256
)

// parseError is the parser-internal failure; Evaluate turns it into a
// FormulaError with token attribution.
type parseError struct {
	code diag.Code
	msg  string
	span lexer.Span
}

type parser struct {
	lx    *lexer.Lexer
	depth int
}

func newParser(expr string) *parser {
	return &parser{lx: lexer.New(expr, lexer.Options{})}
}

// run parses and evaluates the whole expression.
func (p *parser) run() (float64, *parseError) {
	v, perr := p.expr(precAdd)
	if perr != nil {
		return 0, perr
	}
	next := p.lx.Next()
	switch next.Kind {
	case lexer.EOF:
		return v, nil
	case lexer.RParen:
		return 0, &parseError{diag.SynUnexpectedRParen, "unmatched ')'", next.Span}
	case lexer.Invalid:
		return 0, unknownChar(next)
	default:
		return 0, &parseError{diag.SynTrailingInput, "unexpected " + describe(next) + " after expression", next.Span}
	}
}

// expr is the precedence-climbing loop for binary operators.
func (p *parser) expr(minPrec int) (float64, *parseError) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return 0, &parseError{diag.SynUnexpectedToken, "expression nested too deeply", p.lx.Peek().Span}
	}

	lhs, perr := p.unary()
	if perr != nil {
		return 0, perr
	}
	for {
		op := p.lx.Peek()
		prec, ok := binaryPrec(op.Kind)
		if !ok || prec < minPrec {
			return lhs, nil
		}
		p.lx.Next()
		next := prec + 1
		// '^' правоассоциативен, и показатель может начинаться с унарного знака: 2^-1
		if op.Kind == lexer.Caret {
			next = precUnary
		}
		rhs, perr := p.expr(next)
		if perr != nil {
			return 0, perr
		}
		lhs, perr = apply(op, lhs, rhs)
		if perr != nil {
			return 0, perr
		}
	}
}

func (p *parser) unary() (float64, *parseError) {
	switch p.lx.Peek().Kind {
	case lexer.Plus:
		p.lx.Next()
		return p.expr(precUnary)
	case lexer.Minus:
		p.lx.Next()
		v, perr := p.expr(precUnary)
		return -v, perr
	default:
		return p.primary()
	}
}

func (p *parser) primary() (float64, *parseError) {
	tok := p.lx.Next()
	switch tok.Kind {
	case lexer.Number:
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil || math.IsInf(v, 0) {
			return 0, &parseError{diag.EvalNotFinite, "number " + strconv.Quote(tok.Text) + " is out of range", tok.Span}
		}
		return v, nil
	case lexer.LParen:
		v, perr := p.expr(precAdd)
		if perr != nil {
			return 0, perr
		}
		closing := p.lx.Next()
		switch closing.Kind {
		case lexer.RParen:
			return v, nil
		case lexer.EOF:
			return 0, &parseError{diag.SynUnclosedParen, "'(' is never closed", tok.Span}
		case lexer.Invalid:
			return 0, unknownChar(closing)
		default:
			return 0, &parseError{diag.SynUnexpectedToken, "expected ')', found " + describe(closing), closing.Span}
		}
	case lexer.Invalid:
		return 0, unknownChar(tok)
	default:
		return 0, &parseError{diag.SynExpectOperand, "expected a number or '(', found " + describe(tok), tok.Span}
	}
}

func binaryPrec(k lexer.Kind) (int, bool) {
	switch k {
	case lexer.Plus, lexer.Minus:
		return precAdd, true
	case lexer.Star, lexer.Slash:
		return precMul, true
	case lexer.Caret:
		return precPow, true
	}
	return 0, false
}

func apply(op lexer.Lexeme, a, b float64) (float64, *parseError) {
	var v float64
	switch op.Kind {
	case lexer.Plus:
		v = a + b
	case lexer.Minus:
		v = a - b
	case lexer.Star:
		v = a * b
	case lexer.Slash:
		if b == 0 {
			return 0, &parseError{diag.EvalDivByZero, "division by zero", op.Span}
		}
		v = a / b
	case lexer.Caret:
		v = math.Pow(a, b)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &parseError{diag.EvalNotFinite, op.Text + " produced a non-finite result", op.Span}
	}
	return v, nil
}

func unknownChar(l lexer.Lexeme) *parseError {
	return &parseError{diag.LexUnknownChar, "unexpected character " + strconv.Quote(l.Text), l.Span}
}

func describe(l lexer.Lexeme) string {
	if l.Kind == lexer.Number {
		return "number " + l.Text
	}
	return l.Kind.String()
}
