package token

import (
	"fmt"
	"strings"
)

// Kind represents the category of a formula token.
type Kind uint8

const (
	// KindInvalid marks a zero-value token.
	KindInvalid Kind = iota
	// KindTag is a token bound to a named value.
	KindTag // tag
	// KindOperator is one of the operator keys.
	KindOperator // operator
	// KindNumber is a decimal literal typed by the user.
	KindNumber // number
	// KindText is free text that did not resolve to anything.
	KindText // text
)

func (k Kind) String() string {
	switch k {
	case KindTag:
		return "tag"
	case KindOperator:
		return "operator"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "invalid"
	}
}

// ParseKind converts the wire name of a token kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tag":
		return KindTag, nil
	case "operator":
		return KindOperator, nil
	case "number":
		return KindNumber, nil
	case "text":
		return KindText, nil
	default:
		return KindInvalid, fmt.Errorf("invalid token kind: %q (expected: tag|operator|number|text)", s)
	}
}

// TagKind distinguishes variables from functions.
type TagKind uint8

const (
	// TagVariable is the default kind.
	TagVariable TagKind = iota
	// TagFunction marks function-like tags (SUM, AVERAGE, ...).
	TagFunction
)

func (k TagKind) String() string {
	if k == TagFunction {
		return "function"
	}
	return "variable"
}

// TagKindOf maps a collaborator-supplied kind string to a TagKind.
// Anything other than "function" is a variable.
func TagKindOf(s string) TagKind {
	if strings.EqualFold(strings.TrimSpace(s), "function") {
		return TagFunction
	}
	return TagVariable
}
