// Package builtins implements the external builtin contract of §6:
// $sum, $min, $max over NumV(nat)*, the only arithmetic builtins this
// core is responsible for (arithmetic builtins beyond these three are
// specified only by their external contract — §1 Non-goals).
package builtins

import (
	"github.com/p4lang/p4spectec-core/internal/errs"
	"github.com/p4lang/p4spectec-core/internal/numeric"
	"github.com/p4lang/p4spectec-core/internal/region"
	"github.com/p4lang/p4spectec-core/internal/typ"
	"github.com/p4lang/p4spectec-core/internal/value"
)

// Fn is a built-in's Go implementation: it receives already-evaluated
// NumV arguments (unwrapped to numeric.Num) and the factory needed to
// build its NumV(nat) result.
type Fn func(f value.Factory, r region.Region, args []numeric.Num) (value.Value, error)

// Registry is the name -> implementation table consulted by
// internal/interp's CallE dispatch (evalCall) for names beginning with "$".
var Registry = map[string]Fn{
	"$sum": sumFn,
	"$min": minFn,
	"$max": maxFn,
}

func sumFn(f value.Factory, r region.Region, args []numeric.Num) (value.Value, error) {
	return value.NewNum(f, numeric.Sum(args)), nil
}

func minFn(f value.Factory, r region.Region, args []numeric.Num) (value.Value, error) {
	m, ok := numeric.Min(args)
	if !ok {
		return nil, &errs.BuiltinError{Region: r, Msg: "min of empty list"}
	}
	return value.NewNum(f, m), nil
}

func maxFn(f value.Factory, r region.Region, args []numeric.Num) (value.Value, error) {
	m, ok := numeric.Max(args)
	if !ok {
		return nil, &errs.BuiltinError{Region: r, Msg: "max of empty list"}
	}
	return value.NewNum(f, m), nil
}

// UnwrapNats projects a []value.Value of NumV(nat) down to []numeric.Num,
// failing KindMismatch on the first non-NumV or non-nat element.
func UnwrapNats(r region.Region, vs []value.Value) ([]numeric.Num, error) {
	out := make([]numeric.Num, len(vs))
	for i, v := range vs {
		n, err := value.AsNum(v)
		if err != nil {
			return nil, &errs.KindMismatch{Region: r, Expected: "num", Actual: "non-num"}
		}
		if n.Val.Kind().Name != typ.Nat().Name {
			return nil, &errs.KindMismatch{Region: r, Expected: "nat", Actual: n.Val.Kind().String()}
		}
		out[i] = n.Val
	}
	return out, nil
}
