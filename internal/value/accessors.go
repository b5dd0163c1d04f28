package value

import (
	"fmt"

	"github.com/p4lang/p4spectec-core/internal/mixop"
)

// KindMismatch is returned by every As* accessor when the dynamic tag of
// the value disagrees with the requested view (§4.A, §7).
type KindMismatch struct {
	Expected string
	Actual   string
}

func (e *KindMismatch) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
}

func kindName(v Value) string {
	switch v.(type) {
	case Bool:
		return "bool"
	case NumV:
		return "num"
	case Text:
		return "text"
	case List:
		return "list"
	case Tuple:
		return "tuple"
	case Opt:
		return "opt"
	case Case:
		return "case"
	case Struct:
		return "struct"
	case Func:
		return "func"
	default:
		return "unknown"
	}
}

func AsBool(v Value) (bool, error) {
	b, ok := v.(Bool)
	if !ok {
		return false, &KindMismatch{Expected: "bool", Actual: kindName(v)}
	}
	return b.Val, nil
}

func AsNum(v Value) (NumV, error) {
	n, ok := v.(NumV)
	if !ok {
		return NumV{}, &KindMismatch{Expected: "num", Actual: kindName(v)}
	}
	return n, nil
}

func AsText(v Value) (string, error) {
	t, ok := v.(Text)
	if !ok {
		return "", &KindMismatch{Expected: "text", Actual: kindName(v)}
	}
	return t.Val, nil
}

func AsList(v Value) ([]Value, error) {
	l, ok := v.(List)
	if !ok {
		return nil, &KindMismatch{Expected: "list", Actual: kindName(v)}
	}
	return l.Elems, nil
}

func AsTuple(v Value) ([]Value, error) {
	t, ok := v.(Tuple)
	if !ok {
		return nil, &KindMismatch{Expected: "tuple", Actual: kindName(v)}
	}
	return t.Elems, nil
}

func AsOpt(v Value) (Value, bool, error) {
	o, ok := v.(Opt)
	if !ok {
		return nil, false, &KindMismatch{Expected: "opt", Actual: kindName(v)}
	}
	return o.Elem, o.Elem != nil, nil
}

// AsCase accepts only a CaseV whose MixOp equals expected.
func AsCase(v Value, expected mixop.MixOp) (Case, error) {
	c, ok := v.(Case)
	if !ok {
		return Case{}, &KindMismatch{Expected: "case(" + expected.String() + ")", Actual: kindName(v)}
	}
	if !c.Op.Equal(expected) {
		return Case{}, &KindMismatch{Expected: "case(" + expected.String() + ")", Actual: "case(" + c.Op.String() + ")"}
	}
	return c, nil
}

// AsStruct accepts only a StructV carrying the expected atom.
func AsStruct(v Value, expectedAtom string) (Struct, error) {
	s, ok := v.(Struct)
	if !ok {
		return Struct{}, &KindMismatch{Expected: "struct{" + expectedAtom + "}", Actual: kindName(v)}
	}
	if _, ok := s.Fields[expectedAtom]; !ok {
		return Struct{}, &KindMismatch{Expected: "struct{" + expectedAtom + "}", Actual: "struct without " + expectedAtom}
	}
	return s, nil
}

func AsFunc(v Value) (Func, error) {
	fn, ok := v.(Func)
	if !ok {
		return Func{}, &KindMismatch{Expected: "func", Actual: kindName(v)}
	}
	return fn, nil
}

// TypeOf returns the declared IL type recorded in the value's note.
func TypeOf(v Value) interface{ String() string } {
	return v.Note().Typ
}
