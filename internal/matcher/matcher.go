// Package matcher implements structural pattern matching of values
// against IL patterns (§4.C). Match never panics and never diverges: it
// always returns (Bindings, bool) in finite, pattern-sized time.
package matcher

import (
	"github.com/p4lang/p4spectec-core/internal/ilast"
	"github.com/p4lang/p4spectec-core/internal/typ"
	"github.com/p4lang/p4spectec-core/internal/value"
)

// elemTypOf recovers a list value's declared element type from its note,
// falling back to typ.BoolT{} only if the note is somehow untyped — a
// sign of a caller bug (every list is born with a ListT note — §3), not
// a case this package tries to recover from gracefully.
func elemTypOf(l value.List) typ.Typ {
	if lt, ok := l.Note().Typ.(typ.ListT); ok {
		return lt.Elem
	}
	return typ.BoolT{}
}

// Bindings maps pattern variable names to the values they were bound to.
type Bindings map[string]value.Value

// Merge copies b's entries into dst, overwriting on key collision. Used
// by callers merging a successful branch's bindings into the caller's
// scope (§4.C "Bindings produced by branches that succeed are merged
// into the caller's scope").
func (b Bindings) Merge(dst Bindings) {
	for k, v := range b {
		dst[k] = v
	}
}

// Match attempts to match pat against val. f is used only by ListP's
// Rest binder, which must build a fresh ListV for the middle slice
// (§4.A: every value is born through the factory).
func Match(f value.Factory, pat ilast.Pattern, val value.Value) (Bindings, bool) {
	out := Bindings{}
	if match(f, pat, val, out) {
		return out, true
	}
	return nil, false
}

func match(f value.Factory, pat ilast.Pattern, val value.Value, out Bindings) bool {
	switch p := pat.(type) {
	case ilast.WildcardP:
		return true

	case ilast.VarP:
		out[p.Name] = val
		return true

	case ilast.LitP:
		return matchLiteral(p, val)

	case ilast.CaseP:
		c, ok := val.(value.Case)
		if !ok || !c.Op.Equal(p.Op) || len(c.Args) != len(p.Args) {
			return false
		}
		for i, sub := range p.Args {
			if !match(f, sub, c.Args[i], out) {
				return false
			}
		}
		return true

	case ilast.ListP:
		l, ok := val.(value.List)
		if !ok {
			return false
		}
		n := len(l.Elems)
		minLen := len(p.Prefix) + len(p.Suffix)
		if n < minLen {
			return false
		}
		for i, sub := range p.Prefix {
			if !match(f, sub, l.Elems[i], out) {
				return false
			}
		}
		for i, sub := range p.Suffix {
			if !match(f, sub, l.Elems[n-len(p.Suffix)+i], out) {
				return false
			}
		}
		if p.Rest != nil {
			mid := l.Elems[len(p.Prefix) : n-len(p.Suffix)]
			out[p.Rest.Name] = value.NewList(f, elemTypOf(l), mid)
		}
		return true

	case ilast.TupleP:
		t, ok := val.(value.Tuple)
		if !ok || len(t.Elems) != len(p.Elems) {
			return false
		}
		for i, sub := range p.Elems {
			if !match(f, sub, t.Elems[i], out) {
				return false
			}
		}
		return true

	default:
		return false
	}
}

func matchLiteral(p ilast.LitP, val value.Value) bool {
	switch lit := p.Val.(type) {
	case ilast.BoolLitE:
		b, ok := val.(value.Bool)
		return ok && b.Val == lit.Val
	case ilast.NumLitE:
		n, ok := val.(value.NumV)
		return ok && n.Val.Equal(lit.Val)
	case ilast.TextLitE:
		t, ok := val.(value.Text)
		return ok && t.Val == lit.Val
	default:
		return false
	}
}
