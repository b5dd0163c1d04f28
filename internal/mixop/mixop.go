// Package mixop defines the mixfix-operator identity used by CaseV values
// and CaseE/CaseP constructor nodes (§3, GLOSSARY). A MixOp is an ordered
// list of textual tokens interleaved with argument holes; two constructors
// of the same algebraic type are distinguished by their MixOp, not by a
// separate tag.
package mixop

import "strings"

// MixOp identifies one constructor of an algebraic (CaseV) type. Tokens
// holds the literal notation pieces in source order (e.g. for `if _ then
// _ else _` the Tokens are ["if", "then", "else"]); Arity is the number of
// argument holes, which for well-formed mixfix notation is len(Tokens)-1
// for a fully circumfix operator but is kept explicit here since IL
// mixops may also be simple prefix constructors with a single leading
// token and N holes (e.g. `Some(_)`).
type MixOp struct {
	Tokens []string
	Arity  int
}

// New builds a MixOp from its textual tokens and declared arity.
func New(arity int, tokens ...string) MixOp {
	return MixOp{Tokens: append([]string(nil), tokens...), Arity: arity}
}

// Equal compares two MixOps structurally. Two constructors with identical
// tokens in a different arity are NOT equal — the arity is part of the
// constructor's identity (it disambiguates overloaded notation).
func (m MixOp) Equal(o MixOp) bool {
	if m.Arity != o.Arity || len(m.Tokens) != len(o.Tokens) {
		return false
	}
	for i := range m.Tokens {
		if m.Tokens[i] != o.Tokens[i] {
			return false
		}
	}
	return true
}

// String renders the mixop for diagnostics, e.g. "if _ then _ else _".
func (m MixOp) String() string {
	if len(m.Tokens) == 0 {
		return strings.Repeat("_ ", m.Arity)
	}
	var b strings.Builder
	for i, tok := range m.Tokens {
		if i > 0 {
			b.WriteString(" _ ")
		}
		b.WriteString(tok)
	}
	if m.Arity >= len(m.Tokens) {
		b.WriteString(" _")
	}
	return b.String()
}
