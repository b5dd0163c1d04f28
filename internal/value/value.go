// Package value implements the canonical, interned value representation
// (§3 "Value", §4.A "Value store"). Every concrete value is immutable
// once constructed; mutation always produces a new value.
package value

import (
	"fmt"

	"github.com/p4lang/p4spectec-core/internal/mixop"
	"github.com/p4lang/p4spectec-core/internal/numeric"
	"github.com/p4lang/p4spectec-core/internal/typ"
)

// VID is a monotonically increasing value identity, scoped to a single
// Store (§3: "Two values with identical payload may have distinct
// vid's"). It is bookkeeping only — never part of equality (§9).
type VID uint64

// Note is the bookkeeping pair every value carries (§3 "value note").
type Note struct {
	VID VID
	Typ typ.Typ
}

// Value is the sealed sum type of §3. The unexported method keeps the
// set closed to this package, mirroring typ.Typ's sealing convention.
type Value interface {
	value()
	Note() Note
	// Inspect renders the value for diagnostics; it is not used for
	// equality or hashing.
	Inspect() string
}

type Bool struct {
	note Note
	Val  bool
}

func (Bool) value()         {}
func (v Bool) Note() Note { return v.note }
func (v Bool) Inspect() string {
	if v.Val {
		return "true"
	}
	return "false"
}

type NumV struct {
	note Note
	Val  numeric.Num
}

func (NumV) value()         {}
func (v NumV) Note() Note { return v.note }
func (v NumV) Inspect() string { return v.Val.String() }

type Text struct {
	note Note
	Val  string
}

func (Text) value()         {}
func (v Text) Note() Note { return v.note }
func (v Text) Inspect() string { return fmt.Sprintf("%q", v.Val) }

// List is an ordered finite sequence (§3 ListV).
type List struct {
	note Note
	Elems []Value
}

func (List) value()         {}
func (v List) Note() Note { return v.note }
func (v List) Inspect() string {
	s := "["
	for i, e := range v.Elems {
		if i > 0 {
			s += ", "
		}
		s += e.Inspect()
	}
	return s + "]"
}

// Tuple is a fixed-arity heterogeneous product (§3 TupleV).
type Tuple struct {
	note Note
	Elems []Value
}

func (Tuple) value()         {}
func (v Tuple) Note() Note { return v.note }
func (v Tuple) Inspect() string {
	s := "("
	for i, e := range v.Elems {
		if i > 0 {
			s += ", "
		}
		s += e.Inspect()
	}
	return s + ")"
}

// Opt is an optional value (§3 OptV).
type Opt struct {
	note Note
	Elem Value // nil means None
}

func (Opt) value()         {}
func (v Opt) Note() Note { return v.note }
func (v Opt) Inspect() string {
	if v.Elem == nil {
		return "none"
	}
	return "some(" + v.Elem.Inspect() + ")"
}

// Case is a mixfix constructor application (§3 CaseV).
type Case struct {
	note Note
	Op   mixop.MixOp
	Args []Value
}

func (Case) value()         {}
func (v Case) Note() Note { return v.note }
func (v Case) Inspect() string {
	s := v.Op.String() + "("
	for i, a := range v.Args {
		if i > 0 {
			s += ", "
		}
		s += a.Inspect()
	}
	return s + ")"
}

// Struct is an atom-keyed record with insertion order preserved (§3
// StructV). Fields is keyed by atom name; Order records insertion order
// so Inspect and iteration over fields are deterministic.
type Struct struct {
	note   Note
	Fields map[string]Value
	Order  []string
}

func (Struct) value()         {}
func (v Struct) Note() Note { return v.note }
func (v Struct) Inspect() string {
	s := "{"
	for i, name := range v.Order {
		if i > 0 {
			s += ", "
		}
		s += name + " = " + v.Fields[name].Inspect()
	}
	return s + "}"
}

func (v Struct) Get(atom string) (Value, bool) {
	f, ok := v.Fields[atom]
	return f, ok
}

// Func is a reified reference to a DecD or RelD by name (§3 FuncV).
type Func struct {
	note Note
	Id   string
}

func (Func) value()         {}
func (v Func) Note() Note { return v.note }
func (v Func) Inspect() string { return "&" + v.Id }
