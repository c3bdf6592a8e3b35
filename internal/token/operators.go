package token

// operatorKeys are the keys that commit pending input and insert an
// operator token. '=' is accepted by the editor but has no meaning to the
// evaluator.
var operatorKeys = map[string]struct{}{
	"+": {},
	"-": {},
	"*": {},
	"/": {},
	"(": {},
	")": {},
	"^": {},
	"=": {},
}

// IsOperatorKey reports whether s is one of the operator keys.
func IsOperatorKey(s string) bool {
	_, ok := operatorKeys[s]
	return ok
}

// IsOperatorRune is the rune form of IsOperatorKey.
func IsOperatorRune(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '(', ')', '^', '=':
		return true
	}
	return false
}
