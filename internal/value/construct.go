package value

import (
	"github.com/p4lang/p4spectec-core/internal/mixop"
	"github.com/p4lang/p4spectec-core/internal/numeric"
	"github.com/p4lang/p4spectec-core/internal/typ"
)

// NewBool, NewNum, ... are the only constructors for their respective
// variants (§4.A: "All constructors produce values through a single
// factory"). Each stamps a vid via f and registers the result in the
// owning context's value graph before returning it.

func NewBool(f Factory, b bool) Bool {
	v := Bool{note: Note{VID: f.FreshVID(), Typ: typ.BoolT{}}, Val: b}
	f.Register(v)
	return v
}

func NewNum(f Factory, n numeric.Num) NumV {
	v := NumV{note: Note{VID: f.FreshVID(), Typ: typ.NumT{Kind: n.Kind()}}, Val: n}
	f.Register(v)
	return v
}

func NewText(f Factory, s string) Text {
	v := Text{note: Note{VID: f.FreshVID(), Typ: typ.TextT{}}, Val: s}
	f.Register(v)
	return v
}

// NewList builds a ListV. elemTyp is the declared element type (needed
// since an empty list carries no element to infer it from).
func NewList(f Factory, elemTyp typ.Typ, elems []Value) List {
	v := List{
		note:  Note{VID: f.FreshVID(), Typ: typ.ListT{Elem: elemTyp}},
		Elems: append([]Value(nil), elems...),
	}
	f.Register(v)
	return v
}

func NewTuple(f Factory, elems []Value) Tuple {
	elemTyps := make([]typ.Typ, len(elems))
	for i, e := range elems {
		elemTyps[i] = e.Note().Typ
	}
	v := Tuple{
		note:  Note{VID: f.FreshVID(), Typ: typ.TupleT{Elems: elemTyps}},
		Elems: append([]Value(nil), elems...),
	}
	f.Register(v)
	return v
}

// NewOpt builds an OptV. Pass elem == nil for None.
func NewOpt(f Factory, elemTyp typ.Typ, elem Value) Opt {
	v := Opt{note: Note{VID: f.FreshVID(), Typ: typ.OptT{Elem: elemTyp}}, Elem: elem}
	f.Register(v)
	return v
}

// NewCase builds a CaseV. resultTyp is the declared type of the
// constructor's owning sum type (VarT or DefT), not derivable from the
// MixOp alone. WellFormed should be checked by the caller against the
// declared arity (§3 invariant); this constructor does not re-validate
// it since the arity check requires the type declaration, which lives
// in the global Spec, not in this package.
func NewCase(f Factory, resultTyp typ.Typ, op mixop.MixOp, args []Value) Case {
	v := Case{
		note: Note{VID: f.FreshVID(), Typ: resultTyp},
		Op:   op,
		Args: append([]Value(nil), args...),
	}
	f.Register(v)
	return v
}

// NewStruct builds a StructV. order must list exactly the keys present
// in fields (§3 invariant: "exactly the declared atoms... no extras, no
// omissions" — enforced by the caller, which knows the declared record
// type; this constructor trusts its input).
func NewStruct(f Factory, resultTyp typ.Typ, fields map[string]Value, order []string) Struct {
	cp := make(map[string]Value, len(fields))
	for k, val := range fields {
		cp[k] = val
	}
	v := Struct{
		note:   Note{VID: f.FreshVID(), Typ: resultTyp},
		Fields: cp,
		Order:  append([]string(nil), order...),
	}
	f.Register(v)
	return v
}

func NewFunc(f Factory, resultTyp typ.Typ, id string) Func {
	v := Func{note: Note{VID: f.FreshVID(), Typ: resultTyp}, Id: id}
	f.Register(v)
	return v
}
