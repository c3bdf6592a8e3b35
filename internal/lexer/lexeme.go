package lexer

// Kind is the category of an arithmetic lexeme.
type Kind uint8

const (
	// Invalid marks bytes that are not part of the grammar.
	Invalid Kind = iota
	// EOF marks the end of the expression.
	EOF
	// Number is a decimal literal: 12, 1.5, .5, 1.
	Number
	Plus   // +
	Minus  // -
	Star   // *
	Slash  // /
	Caret  // ^
	LParen // (
	RParen // )
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of expression"
	case Number:
		return "number"
	case Plus:
		return "'+'"
	case Minus:
		return "'-'"
	case Star:
		return "'*'"
	case Slash:
		return "'/'"
	case Caret:
		return "'^'"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	default:
		return "invalid"
	}
}

// Span is a byte range [Start, End) in the expression.
type Span struct {
	Start uint32
	End   uint32
}

// Lexeme is one lexical unit of the flattened expression.
type Lexeme struct {
	Kind Kind
	Span Span
	Text string
}

// IsBinaryOp reports whether the lexeme can join two operands.
func (l Lexeme) IsBinaryOp() bool {
	switch l.Kind {
	case Plus, Minus, Star, Slash, Caret:
		return true
	}
	return false
}
