package eval

import (
	"strings"

	"tagcalc/internal/diag"
	"tagcalc/internal/lexer"
	"tagcalc/internal/token"
)

// checkAdjacent rejects operands that only meet because flattening put
// their text side by side: "5" next to "3" would read as 53, and a tag
// worth -3 after "5" would read as a subtraction. The earliest offending
// token is reported.
func checkAdjacent(flat Flat) *FormulaError {
	bad := -1
	for _, l := range lexer.New(flat.Expr, lexer.Options{}).All() {
		if l.Kind != lexer.Number || l.Span.End == l.Span.Start {
			continue
		}
		first := flat.TokenAt(int(l.Span.Start))
		last := flat.TokenAt(int(l.Span.End) - 1)
		if first != last {
			bad = last
			break
		}
	}
	if i := tagAfterOperand(flat); i >= 0 && (bad < 0 || i < bad) {
		bad = i
	}
	if bad < 0 {
		return nil
	}
	seg := flat.Segs[bad]
	return &FormulaError{
		Code:  diag.SynMissingOperator,
		Msg:   "missing operator before " + quoteSeg(flat, seg),
		Span:  diag.Span{Start: seg.Start, End: seg.End},
		Token: seg.Token,
		Expr:  flat.Expr,
	}
}

// tagAfterOperand returns the index of the first tag segment whose
// preceding non-empty segment ends an operand, -1 if there is none.
func tagAfterOperand(flat Flat) int {
	prev := -1
	for i, seg := range flat.Segs {
		if seg.End == seg.Start {
			continue
		}
		if seg.Kind == token.KindTag && prev >= 0 && endsOperand(flat, flat.Segs[prev]) {
			return i
		}
		prev = i
	}
	return -1
}

func endsOperand(flat Flat, seg Segment) bool {
	text := strings.TrimRight(flat.Expr[seg.Start:seg.End], " \t")
	switch seg.Kind {
	case token.KindTag, token.KindNumber:
		return true
	case token.KindOperator:
		return text == ")"
	case token.KindText:
		if text == "" {
			return false
		}
		last := text[len(text)-1]
		return last == ')' || last == '.' || (last >= '0' && last <= '9')
	}
	return false
}

func quoteSeg(flat Flat, seg Segment) string {
	return "'" + flat.Expr[seg.Start:seg.End] + "'"
}
