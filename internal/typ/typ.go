// Package typ implements the structural IL type grammar (§3 "Type (Typ)").
package typ

import "fmt"

// NumKind distinguishes the three numeric tags a NumT/Num may carry (§3).
type NumKind struct {
	// Name is "nat", "int", or "bv".
	Name string
	// Width is only meaningful when Name == "bv".
	Width int
}

func Nat() NumKind         { return NumKind{Name: "nat"} }
func Int() NumKind         { return NumKind{Name: "int"} }
func BV(width int) NumKind { return NumKind{Name: "bv", Width: width} }

func (k NumKind) Equal(o NumKind) bool {
	return k.Name == o.Name && (k.Name != "bv" || k.Width == o.Width)
}

func (k NumKind) String() string {
	if k.Name == "bv" {
		return fmt.Sprintf("bv(%d)", k.Width)
	}
	return k.Name
}

// Iter distinguishes the two lift kinds for IterT/IterE (§3, §4.D).
type Iter int

const (
	Opt Iter = iota
	List
)

func (it Iter) String() string {
	if it == Opt {
		return "?"
	}
	return "*"
}

// Typ is the sealed interface implemented by every IL type. A private
// method keeps the set closed to this package's variants, mirroring how
// the teacher seals its AST node interfaces with an unexported marker
// method (internal/ast's statementNode/expressionNode convention).
type Typ interface {
	typ()
	String() string
}

type BoolT struct{}

func (BoolT) typ()          {}
func (BoolT) String() string { return "bool" }

type NumT struct{ Kind NumKind }

func (NumT) typ() {}
func (t NumT) String() string { return t.Kind.String() }

type TextT struct{}

func (TextT) typ()          {}
func (TextT) String() string { return "text" }

type ListT struct{ Elem Typ }

func (ListT) typ() {}
func (t ListT) String() string { return t.Elem.String() + "*" }

type TupleT struct{ Elems []Typ }

func (TupleT) typ() {}
func (t TupleT) String() string {
	s := "("
	for i, e := range t.Elems {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + ")"
}

type OptT struct{ Elem Typ }

func (OptT) typ() {}
func (t OptT) String() string { return t.Elem.String() + "?" }

// VarT is a reference to a declared constructor type (possibly generic).
type VarT struct {
	Name  string
	Targs []Typ
}

func (VarT) typ() {}
func (t VarT) String() string {
	s := t.Name
	if len(t.Targs) > 0 {
		s += "<"
		for i, a := range t.Targs {
			if i > 0 {
				s += ", "
			}
			s += a.String()
		}
		s += ">"
	}
	return s
}

// DefT is an inlined (anonymous) definition of a constructor or record
// type, as opposed to VarT's by-name reference.
type DefT struct {
	// Variants holds the mixop arities for a sum type; nil for a record.
	Variants map[string]int
	// Fields holds the declared atoms for a record type; nil for a sum.
	Fields map[string]Typ
	// FieldOrder preserves declaration order for StructV well-formedness
	// checks and diagnostics.
	FieldOrder []string
}

func (DefT) typ()          {}
func (DefT) String() string { return "<inline def>" }

// IterT lifts a type through an iterator (§3).
type IterT struct {
	Elem Typ
	Iter Iter
}

func (IterT) typ() {}
func (t IterT) String() string { return t.Elem.String() + t.Iter.String() }

// Equal is structural equality over the Typ grammar, used by SubG
// (structural subtyping of records reduces to field-set equality here;
// nominal subtyping of CaseV types is by VarT.Name).
func Equal(a, b Typ) bool {
	switch x := a.(type) {
	case BoolT:
		_, ok := b.(BoolT)
		return ok
	case TextT:
		_, ok := b.(TextT)
		return ok
	case NumT:
		y, ok := b.(NumT)
		return ok && x.Kind.Equal(y.Kind)
	case ListT:
		y, ok := b.(ListT)
		return ok && Equal(x.Elem, y.Elem)
	case OptT:
		y, ok := b.(OptT)
		return ok && Equal(x.Elem, y.Elem)
	case TupleT:
		y, ok := b.(TupleT)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case VarT:
		y, ok := b.(VarT)
		if !ok || x.Name != y.Name || len(x.Targs) != len(y.Targs) {
			return false
		}
		for i := range x.Targs {
			if !Equal(x.Targs[i], y.Targs[i]) {
				return false
			}
		}
		return true
	case IterT:
		y, ok := b.(IterT)
		return ok && x.Iter == y.Iter && Equal(x.Elem, y.Elem)
	case DefT:
		y, ok := b.(DefT)
		if !ok || len(x.FieldOrder) != len(y.FieldOrder) {
			return false
		}
		for _, name := range x.FieldOrder {
			ft, ok := y.Fields[name]
			if !ok || !Equal(x.Fields[name], ft) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsSubtype reports whether sub is a structural subtype of super, used by
// SubG (§4.E). For everything but records this is plain equality; for
// DefT records, sub may carry extra fields beyond super's (width
// subtyping), matching how SubG is documented as "structural for
// records" without further constraint in §4.E.
func IsSubtype(sub, super Typ) bool {
	superDef, ok := super.(DefT)
	if !ok {
		return Equal(sub, super)
	}
	subDef, ok := sub.(DefT)
	if !ok {
		return false
	}
	for name, ft := range superDef.Fields {
		sft, ok := subDef.Fields[name]
		if !ok || !Equal(sft, ft) {
			return false
		}
	}
	return true
}
