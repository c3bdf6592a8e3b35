// Package store holds the token sequence being edited and its cursor.
//
// A Store is owned by a single editing session and is not safe for
// concurrent use. Every operation is total: out-of-range indices are
// clamped or ignored and unknown ids are no-ops.
package store

import (
	"strconv"

	"tagcalc/internal/token"
	"tagcalc/internal/trace"
)

// IDGenerator hands out token ids. Ids must never repeat for the lifetime
// of a Store.
type IDGenerator interface {
	NextID() string
}

// Counter generates "<prefix>1", "<prefix>2", ...
type Counter struct {
	Prefix string
	n      uint64
}

// NextID returns the next id in sequence.
func (c *Counter) NextID() string {
	c.n++
	return c.Prefix + strconv.FormatUint(c.n, 10)
}

// Store is an ordered token sequence plus an insertion cursor in [0, len].
type Store struct {
	tokens []token.Token
	cursor int
	ids    IDGenerator
	tracer trace.Tracer
}

// Option configures a Store.
type Option func(*Store)

// WithIDs replaces the default "tok-N" id generator.
func WithIDs(g IDGenerator) Option {
	return func(s *Store) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithTracer makes the store emit a detail event per mutation.
func WithTracer(t trace.Tracer) Option {
	return func(s *Store) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		ids:    &Counter{Prefix: "tok-"},
		tracer: trace.Nop,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert splices tok in at index at (clamped to [0, len]) and places the
// cursor right after it. The token receives a fresh id; the stored copy is
// returned.
func (s *Store) Insert(tok token.Token, at int) token.Token {
	at = s.clamp(at)
	tok = tok.Clone()
	tok.ID = s.ids.NextID()

	s.tokens = append(s.tokens, token.Token{})
	copy(s.tokens[at+1:], s.tokens[at:])
	s.tokens[at] = tok
	s.cursor = at + 1

	trace.Point(s.tracer, trace.ScopeDetail, "insert", tok.Literal,
		"id", tok.ID, "kind", tok.Kind.String(), "at", strconv.Itoa(at))
	return tok.Clone()
}

// InsertAtCursor inserts at the current cursor.
func (s *Store) InsertAtCursor(tok token.Token) token.Token {
	return s.Insert(tok, s.cursor)
}

// RemoveByID removes the first token with the given id. Unknown ids are
// ignored. Reports whether a token was removed.
func (s *Store) RemoveByID(id string) bool {
	idx := s.IndexOf(id)
	if idx < 0 {
		return false
	}
	s.removeAt(idx)
	return true
}

// RemoveAt removes the token at index. Indices outside [0, len) are
// ignored. Reports whether a token was removed.
func (s *Store) RemoveAt(index int) bool {
	if index < 0 || index >= len(s.tokens) {
		return false
	}
	s.removeAt(index)
	return true
}

// removeAt keeps the cursor attached to the surviving token on its left.
func (s *Store) removeAt(index int) {
	removed := s.tokens[index]
	s.tokens = append(s.tokens[:index], s.tokens[index+1:]...)
	if index < s.cursor {
		s.cursor = max(0, s.cursor-1)
	}
	s.cursor = s.clamp(s.cursor)

	trace.Point(s.tracer, trace.ScopeDetail, "remove", removed.Literal,
		"id", removed.ID, "at", strconv.Itoa(index), "cursor", strconv.Itoa(s.cursor))
}

// UpdateLiteral replaces the display text of the token with the given id.
// A tag token gets a renamed copy of its tag so that the literal keeps
// matching the tag name; the bound value is not re-resolved.
func (s *Store) UpdateLiteral(id, literal string) bool {
	idx := s.IndexOf(id)
	if idx < 0 {
		return false
	}
	tok := &s.tokens[idx]
	tok.Literal = literal
	if tok.Kind == token.KindTag && tok.Tag != nil {
		tok.Tag = tok.Tag.Renamed(literal)
	}

	trace.Point(s.tracer, trace.ScopeDetail, "update", literal, "id", id)
	return true
}

// SetCursor moves the cursor to index, clamped to [0, len].
func (s *Store) SetCursor(index int) {
	s.cursor = s.clamp(index)
	trace.Point(s.tracer, trace.ScopeDetail, "cursor", "", "at", strconv.Itoa(s.cursor))
}

// MoveCursorLeft moves the cursor one token to the left, stopping at 0.
func (s *Store) MoveCursorLeft() {
	s.SetCursor(s.cursor - 1)
}

// MoveCursorRight moves the cursor one token to the right, stopping at len.
func (s *Store) MoveCursorRight() {
	s.SetCursor(s.cursor + 1)
}

// Reset drops every token. Ids already handed out stay consumed.
func (s *Store) Reset() {
	s.tokens = nil
	s.cursor = 0
	trace.Point(s.tracer, trace.ScopeDetail, "reset", "")
}

func (s *Store) clamp(i int) int {
	return min(max(i, 0), len(s.tokens))
}
