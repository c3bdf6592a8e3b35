package diagfmt

import (
	"fmt"
	"io"
	"strconv"

	"tagcalc/internal/token"
)

// FormatTokensPretty prints one token per line.
func FormatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i, tok := range tokens {
		line := fmt.Sprintf("%3d: %-9s %q", i+1, tok.Kind, tok.Literal)
		if tok.Tag != nil {
			line += fmt.Sprintf(" = %s (%s, id %s)",
				strconv.FormatFloat(tok.Tag.Value, 'f', -1, 64), tok.Tag.Kind, tok.Tag.ID)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
