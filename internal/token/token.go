package token

import (
	"regexp"
	"strconv"
)

// Tag is a named, numerically valued entity bindable into a token.
type Tag struct {
	ID    string
	Name  string
	Value float64
	Kind  TagKind
}

// Renamed returns a copy of the tag carrying a new name.
func (t Tag) Renamed(name string) *Tag {
	t.Name = name
	return &t
}

// Token is one atomic unit of a formula sequence.
type Token struct {
	ID      string
	Kind    Kind
	Literal string
	Tag     *Tag
}

// NewTag builds a tag token; the literal is the tag name.
func NewTag(tag Tag) Token {
	return Token{Kind: KindTag, Literal: tag.Name, Tag: &tag}
}

// NewOperator builds an operator token.
func NewOperator(op string) Token {
	return Token{Kind: KindOperator, Literal: op}
}

// NewNumber builds a number token.
func NewNumber(lit string) Token {
	return Token{Kind: KindNumber, Literal: lit}
}

// NewText builds a free text token.
func NewText(lit string) Token {
	return Token{Kind: KindText, Literal: lit}
}

// Clone returns a copy that shares no Tag with t.
func (t Token) Clone() Token {
	if t.Tag != nil {
		tag := *t.Tag
		t.Tag = &tag
	}
	return t
}

// Valid reports whether the tag linkage is consistent with the kind.
func (t Token) Valid() bool {
	switch t.Kind {
	case KindTag:
		return t.Tag != nil && t.Tag.Name == t.Literal
	case KindOperator, KindNumber, KindText:
		return t.Tag == nil
	default:
		return false
	}
}

// Expr returns the text the token contributes to a flattened formula:
// the bound value for tags, the literal otherwise.
func (t Token) Expr() string {
	if t.Kind == KindTag && t.Tag != nil {
		return strconv.FormatFloat(t.Tag.Value, 'f', -1, 64)
	}
	return t.Literal
}

var numberLiteral = regexp.MustCompile(`^\d+(\.\d+)?$`)

// IsNumberLiteral reports whether s is committed as a number token.
func IsNumberLiteral(s string) bool {
	return numberLiteral.MatchString(s)
}

// Classify turns committed input text into a number or text token.
func Classify(s string) Token {
	if IsNumberLiteral(s) {
		return NewNumber(s)
	}
	return NewText(s)
}
