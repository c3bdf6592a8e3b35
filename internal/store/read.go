package store

import "tagcalc/internal/token"

// Len returns the number of tokens.
func (s *Store) Len() int { return len(s.tokens) }

// Cursor returns the insertion point in [0, Len()].
func (s *Store) Cursor() int { return s.cursor }

// Read accessors hand out clones: a caller editing a returned Tag must not
// reach the stored sequence.

// Tokens returns a copy of the sequence.
func (s *Store) Tokens() []token.Token {
	return cloneAll(s.tokens)
}

// Before returns a copy of the tokens left of the cursor.
func (s *Store) Before() []token.Token {
	return cloneAll(s.tokens[:s.cursor])
}

// After returns a copy of the tokens right of the cursor.
func (s *Store) After() []token.Token {
	return cloneAll(s.tokens[s.cursor:])
}

func cloneAll(toks []token.Token) []token.Token {
	out := make([]token.Token, len(toks))
	for i := range toks {
		out[i] = toks[i].Clone()
	}
	return out
}

// IndexOf returns the position of the first token with id, or -1.
func (s *Store) IndexOf(id string) int {
	for i := range s.tokens {
		if s.tokens[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the token with the given id.
func (s *Store) Get(id string) (token.Token, bool) {
	idx := s.IndexOf(id)
	if idx < 0 {
		return token.Token{}, false
	}
	return s.tokens[idx].Clone(), true
}

// At returns the token at index.
func (s *Store) At(index int) (token.Token, bool) {
	if index < 0 || index >= len(s.tokens) {
		return token.Token{}, false
	}
	return s.tokens[index].Clone(), true
}
