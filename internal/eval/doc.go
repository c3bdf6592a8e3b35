// Package eval reduces a formula token sequence to a number.
//
// Reduction is concatenative: every token contributes text to a flat
// expression (tags contribute their bound value, other tokens their
// literal) and the expression is parsed with a bounded arithmetic grammar:
//
//	expr    = term  { ("+" | "-") term } .
//	term    = unary { ("*" | "/") unary } .
//	unary   = ("+" | "-") unary | power .
//	power   = primary [ "^" unary ] .
//	primary = number | "(" expr ")" .
//
// "^" is right-associative and binds tighter than unary minus, so
// -2^2 is -4 and 2^3^2 is 512. An empty or blank expression evaluates to 0.
// Every failure is reported as a *FormulaError; Evaluate never panics.
package eval
