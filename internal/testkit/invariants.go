package testkit

import (
	"fmt"

	"tagcalc/internal/token"
)

// Sequence is the read side of a token store.
type Sequence interface {
	Tokens() []token.Token
	Cursor() int
}

// CheckSequenceInvariants runs the structural invariants of a token sequence:
// 1) the cursor lies in [0, len]
// 2) every token has a non-empty id and ids are unique
// 3) every token is internally consistent (tag linkage, literal == tag name)
func CheckSequenceInvariants(s Sequence) error {
	if s == nil {
		return fmt.Errorf("nil sequence")
	}
	toks := s.Tokens()
	cur := s.Cursor()

	// 1) cursor bounds
	if cur < 0 || cur > len(toks) {
		return fmt.Errorf("cursor %d outside [0, %d]", cur, len(toks))
	}

	// 2) ids; 3) linkage
	seen := make(map[string]int, len(toks))
	for i, tok := range toks {
		if tok.ID == "" {
			return fmt.Errorf("token %d has empty id", i)
		}
		if prev, ok := seen[tok.ID]; ok {
			return fmt.Errorf("duplicate id %q at %d and %d", tok.ID, prev, i)
		}
		seen[tok.ID] = i
		if !tok.Valid() {
			return fmt.Errorf("token %d (%s %q) is inconsistent", i, tok.Kind, tok.Literal)
		}
	}
	return nil
}
