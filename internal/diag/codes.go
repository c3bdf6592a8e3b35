package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexUnknownChar Code = 1001
	LexBadNumber   Code = 1002

	// Синтаксис
	SynUnexpectedToken  Code = 2001
	SynUnclosedParen    Code = 2002
	SynUnexpectedRParen Code = 2003
	SynExpectOperand    Code = 2004
	SynTrailingInput    Code = 2005
	SynMissingOperator  Code = 2006

	// Вычисление
	EvalDivByZero Code = 3001
	EvalNotFinite Code = 3002
	EvalInternal  Code = 3003

	// Автодополнение
	CmpLookupFailed  Code = 4001
	CmpLookupTimeout Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:         "Unknown error",
	LexUnknownChar:      "Unknown character",
	LexBadNumber:        "Malformed number",
	SynUnexpectedToken:  "Unexpected token",
	SynUnclosedParen:    "Unclosed parenthesis",
	SynUnexpectedRParen: "Unmatched closing parenthesis",
	SynExpectOperand:    "Expected operand",
	SynTrailingInput:    "Unexpected input after expression",
	SynMissingOperator:  "Missing operator between operands",
	EvalDivByZero:       "Division by zero",
	EvalNotFinite:       "Result is not a finite number",
	EvalInternal:        "Internal evaluation failure",
	CmpLookupFailed:     "Autocomplete lookup failed",
	CmpLookupTimeout:    "Autocomplete lookup timed out",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("EVL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CMP%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
