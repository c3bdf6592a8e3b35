// Package token defines the units a formula is composed of.
// Invariants:
//   - Token.Tag is non-nil iff Token.Kind == KindTag.
//   - For tag tokens Token.Literal equals Tag.Name.
//   - Token.ID is assigned by the sequence store; ids set by callers are
//     overwritten on insertion.
//   - Tags are immutable; edits replace a tag wholesale.
package token
