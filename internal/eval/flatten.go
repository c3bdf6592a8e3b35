package eval

import (
	"strings"

	"tagcalc/internal/token"
)

// Segment is the byte range one formula token occupies in a Flat expression.
type Segment struct {
	Start int
	End   int
	Token int
	Kind  token.Kind
}

// Flat is a flattened formula.
type Flat struct {
	Expr string
	Segs []Segment
}

// Flatten concatenates the text every token contributes.
func Flatten(tokens []token.Token) Flat {
	var b strings.Builder
	segs := make([]Segment, 0, len(tokens))
	for i, tok := range tokens {
		start := b.Len()
		b.WriteString(tok.Expr())
		segs = append(segs, Segment{Start: start, End: b.Len(), Token: i, Kind: tok.Kind})
	}
	return Flat{Expr: b.String(), Segs: segs}
}

// Blank reports whether the expression has nothing but whitespace.
func (f Flat) Blank() bool {
	return strings.TrimSpace(f.Expr) == ""
}

// TokenAt maps a byte offset back to the index of the token that produced
// it. Offsets at or past the end map to the last non-empty token; -1 means
// no token.
func (f Flat) TokenAt(off int) int {
	for _, s := range f.Segs {
		if off >= s.Start && off < s.End {
			return s.Token
		}
	}
	if off >= len(f.Expr) {
		for i := len(f.Segs) - 1; i >= 0; i-- {
			if f.Segs[i].End > f.Segs[i].Start {
				return f.Segs[i].Token
			}
		}
	}
	return -1
}

// Describe returns the flattened expression for display.
func Describe(tokens []token.Token) string {
	return Flatten(tokens).Expr
}
