// Package interp implements the expression evaluator (§4.D) and
// instruction interpreter (§4.E, §4.E.1) as one package: Exp and Instr
// are mutually recursive in the grammar (IterE/CaseExpE bodies are
// themselves Exps that may contain CallE invoking a DecD whose body is
// Instrs, which in turn evaluate further Exps) so splitting them into
// two packages would force an import cycle. Evaluator dispatch is a
// single big type-switch per node kind, the same shape as the teacher's
// Evaluator.Eval/evalCore (internal/evaluator/evaluator.go).
package interp

import (
	"fmt"
	"strings"

	"github.com/p4lang/p4spectec-core/internal/builtins"
	"github.com/p4lang/p4spectec-core/internal/engine"
	"github.com/p4lang/p4spectec-core/internal/errs"
	"github.com/p4lang/p4spectec-core/internal/ilast"
	"github.com/p4lang/p4spectec-core/internal/matcher"
	"github.com/p4lang/p4spectec-core/internal/numeric"
	"github.com/p4lang/p4spectec-core/internal/typ"
	"github.com/p4lang/p4spectec-core/internal/value"
)

// Eval evaluates e in ctx, dispatching on its dynamic type (§4.D).
func Eval(ctx *engine.Context, e ilast.Exp) (value.Value, error) {
	switch n := e.(type) {
	case ilast.VarE:
		_, v, err := ctx.LookupVar(n.Region, n.Name)
		return v, err

	case ilast.BoolLitE:
		return value.NewBool(ctx, n.Val), nil
	case ilast.NumLitE:
		return value.NewNum(ctx, n.Val), nil
	case ilast.TextLitE:
		return value.NewText(ctx, n.Val), nil

	case ilast.UnE:
		return evalUn(ctx, n)
	case ilast.BinE:
		return evalBin(ctx, n)
	case ilast.CmpE:
		return evalCmp(ctx, n)

	case ilast.CaseE:
		args := make([]value.Value, len(n.Args))
		deps := make([]value.VID, 0, len(n.Args))
		for i, a := range n.Args {
			v, err := Eval(ctx, a)
			if err != nil {
				return nil, err
			}
			args[i] = v
			deps = append(deps, v.Note().VID)
		}
		result := value.NewCase(ctx, n.ResultT, n.Op, args)
		ctx.RecordDependency(result.Note().VID, deps...)
		return result, nil

	case ilast.ProjE:
		return evalProj(ctx, n)

	case ilast.LenE:
		l, err := evalList(ctx, n.List)
		if err != nil {
			return nil, err
		}
		return value.NewNum(ctx, numeric.NewNatInt64(int64(len(l.Elems)))), nil

	case ilast.MemE:
		elem, err := Eval(ctx, n.Elem)
		if err != nil {
			return nil, err
		}
		l, err := evalList(ctx, n.List)
		if err != nil {
			return nil, err
		}
		return value.NewBool(ctx, value.Contains(l.Elems, elem)), nil

	case ilast.ConcatE:
		return evalConcat(ctx, n)

	case ilast.IterE:
		return evalIter(ctx, n)

	case ilast.CallE:
		return evalCall(ctx, n)

	case ilast.TupleE:
		elems := make([]value.Value, len(n.Elems))
		for i, sub := range n.Elems {
			v, err := Eval(ctx, sub)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return value.NewTuple(ctx, elems), nil

	case ilast.ListE:
		elems := make([]value.Value, len(n.Elems))
		for i, sub := range n.Elems {
			v, err := Eval(ctx, sub)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return value.NewList(ctx, n.ElemTyp, elems), nil

	case ilast.StructE:
		fields := make(map[string]value.Value, len(n.Fields))
		order := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			v, err := Eval(ctx, f.Val)
			if err != nil {
				return nil, err
			}
			fields[f.Atom] = v
			order[i] = f.Atom
		}
		return value.NewStruct(ctx, n.ResultT, fields, order), nil

	case ilast.CaseExpE:
		return evalCaseExp(ctx, n)

	default:
		return nil, fmt.Errorf("interp: unknown expression node %T", e)
	}
}

func evalList(ctx *engine.Context, e ilast.Exp) (value.List, error) {
	v, err := Eval(ctx, e)
	if err != nil {
		return value.List{}, err
	}
	l, ok := v.(value.List)
	if !ok {
		return value.List{}, &errs.KindMismatch{Region: e.GetRegion(), Expected: "list", Actual: "non-list"}
	}
	return l, nil
}

func evalUn(ctx *engine.Context, n ilast.UnE) (value.Value, error) {
	switch n.Op {
	case ilast.UnNot:
		arg, err := Eval(ctx, n.Arg)
		if err != nil {
			return nil, err
		}
		b, err := value.AsBool(arg)
		if err != nil {
			return nil, &errs.KindMismatch{Region: n.Region, Expected: "bool", Actual: "non-bool"}
		}
		return value.NewBool(ctx, !b), nil
	case ilast.UnNeg:
		arg, err := Eval(ctx, n.Arg)
		if err != nil {
			return nil, err
		}
		num, err := value.AsNum(arg)
		if err != nil {
			return nil, &errs.KindMismatch{Region: n.Region, Expected: "num", Actual: "non-num"}
		}
		result := value.NewNum(ctx, num.Val.Neg())
		ctx.RecordDependency(result.Note().VID, arg.Note().VID)
		return result, nil
	default:
		return nil, fmt.Errorf("interp: unknown unary op %q", n.Op)
	}
}

// evalBin dispatches arithmetic (NumT optyp) and boolean and/or (BoolT
// optyp, short-circuiting the right operand — §4.D "dispatch on optyp").
func evalBin(ctx *engine.Context, n ilast.BinE) (value.Value, error) {
	if _, isBool := n.OpTyp.Typ.(typ.BoolT); isBool {
		left, err := Eval(ctx, n.Left)
		if err != nil {
			return nil, err
		}
		lb, err := value.AsBool(left)
		if err != nil {
			return nil, &errs.KindMismatch{Region: n.Region, Expected: "bool", Actual: "non-bool"}
		}
		if n.Op == ilast.BinAnd && !lb {
			return value.NewBool(ctx, false), nil
		}
		if n.Op == ilast.BinOr && lb {
			return value.NewBool(ctx, true), nil
		}
		right, err := Eval(ctx, n.Right)
		if err != nil {
			return nil, err
		}
		rb, err := value.AsBool(right)
		if err != nil {
			return nil, &errs.KindMismatch{Region: n.Region, Expected: "bool", Actual: "non-bool"}
		}
		return value.NewBool(ctx, rb), nil
	}

	left, err := Eval(ctx, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := Eval(ctx, n.Right)
	if err != nil {
		return nil, err
	}
	ln, err := value.AsNum(left)
	if err != nil {
		return nil, &errs.KindMismatch{Region: n.Region, Expected: "num", Actual: "non-num"}
	}
	rn, err := value.AsNum(right)
	if err != nil {
		return nil, &errs.KindMismatch{Region: n.Region, Expected: "num", Actual: "non-num"}
	}

	var result numeric.Num
	switch n.Op {
	case ilast.BinAdd:
		result = ln.Val.Add(rn.Val)
	case ilast.BinSub:
		result = ln.Val.Sub(rn.Val)
	case ilast.BinMul:
		result = ln.Val.Mul(rn.Val)
	case ilast.BinDiv:
		result, err = ln.Val.Div(rn.Val)
		if err != nil {
			return nil, &errs.DivByZero{Region: n.Region}
		}
	case ilast.BinMod:
		result, err = ln.Val.Mod(rn.Val)
		if err != nil {
			return nil, &errs.DivByZero{Region: n.Region}
		}
	default:
		return nil, fmt.Errorf("interp: unknown binary op %q", n.Op)
	}
	out := value.NewNum(ctx, result)
	ctx.RecordDependency(out.Note().VID, left.Note().VID, right.Note().VID)
	return out, nil
}

// evalCmp handles Eq/Ne (any optyp, via value.Equal) and the ordering
// comparisons (NumT optyp only — §4.D).
func evalCmp(ctx *engine.Context, n ilast.CmpE) (value.Value, error) {
	left, err := Eval(ctx, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := Eval(ctx, n.Right)
	if err != nil {
		return nil, err
	}

	if n.Op == ilast.CmpEq || n.Op == ilast.CmpNe {
		eq := value.Equal(left, right)
		if n.Op == ilast.CmpNe {
			eq = !eq
		}
		out := value.NewBool(ctx, eq)
		ctx.RecordDependency(out.Note().VID, left.Note().VID, right.Note().VID)
		return out, nil
	}

	ln, err := value.AsNum(left)
	if err != nil {
		return nil, &errs.KindMismatch{Region: n.Region, Expected: "num", Actual: "non-num"}
	}
	rn, err := value.AsNum(right)
	if err != nil {
		return nil, &errs.KindMismatch{Region: n.Region, Expected: "num", Actual: "non-num"}
	}
	c := ln.Val.Cmp(rn.Val)
	var b bool
	switch n.Op {
	case ilast.CmpLt:
		b = c < 0
	case ilast.CmpLe:
		b = c <= 0
	case ilast.CmpGt:
		b = c > 0
	case ilast.CmpGe:
		b = c >= 0
	default:
		return nil, fmt.Errorf("interp: unknown comparison op %q", n.Op)
	}
	out := value.NewBool(ctx, b)
	ctx.RecordDependency(out.Note().VID, left.Note().VID, right.Note().VID)
	return out, nil
}

func evalProj(ctx *engine.Context, n ilast.ProjE) (value.Value, error) {
	base, err := Eval(ctx, n.Base)
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case ilast.ProjField:
		s, ok := base.(value.Struct)
		if !ok {
			return nil, &errs.KindMismatch{Region: n.Region, Expected: "struct", Actual: "non-struct"}
		}
		v, ok := s.Get(n.Atom)
		if !ok {
			return nil, &errs.KindMismatch{Region: n.Region, Expected: "struct{" + n.Atom + "}", Actual: "struct without " + n.Atom}
		}
		return v, nil
	case ilast.ProjTupleIndex:
		elems, err := value.AsTuple(base)
		if err != nil {
			return nil, err
		}
		if n.Index < 0 || n.Index >= len(elems) {
			return nil, &errs.KindMismatch{Region: n.Region, Expected: fmt.Sprintf("tuple of arity > %d", n.Index), Actual: fmt.Sprintf("tuple of arity %d", len(elems))}
		}
		return elems[n.Index], nil
	case ilast.ProjHead:
		elems, err := value.AsList(base)
		if err != nil {
			return nil, err
		}
		if len(elems) == 0 {
			return nil, &errs.EmptyList{Region: n.Region}
		}
		return elems[0], nil
	case ilast.ProjTail:
		l, ok := base.(value.List)
		if !ok {
			return nil, &errs.KindMismatch{Region: n.Region, Expected: "list", Actual: "non-list"}
		}
		if len(l.Elems) == 0 {
			return nil, &errs.EmptyList{Region: n.Region}
		}
		return value.NewList(ctx, elemTypeOf(l), l.Elems[1:]), nil
	default:
		return nil, fmt.Errorf("interp: unknown projection kind %d", n.Kind)
	}
}

func elemTypeOf(l value.List) typ.Typ {
	if lt, ok := l.Note().Typ.(typ.ListT); ok {
		return lt.Elem
	}
	return typ.BoolT{}
}

func evalConcat(ctx *engine.Context, n ilast.ConcatE) (value.Value, error) {
	left, err := Eval(ctx, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := Eval(ctx, n.Right)
	if err != nil {
		return nil, err
	}
	if lt, ok := left.(value.Text); ok {
		rt, err := value.AsText(right)
		if err != nil {
			return nil, &errs.KindMismatch{Region: n.Region, Expected: "text", Actual: "non-text"}
		}
		var sb strings.Builder
		sb.WriteString(lt.Val)
		sb.WriteString(rt)
		return value.NewText(ctx, sb.String()), nil
	}
	ll, ok := left.(value.List)
	if !ok {
		return nil, &errs.KindMismatch{Region: n.Region, Expected: "list or text", Actual: "neither"}
	}
	rl, err := value.AsList(right)
	if err != nil {
		return nil, &errs.KindMismatch{Region: n.Region, Expected: "list", Actual: "non-list"}
	}
	combined := make([]value.Value, 0, len(ll.Elems)+len(rl))
	combined = append(combined, ll.Elems...)
	combined = append(combined, rl...)
	return value.NewList(ctx, elemTypeOf(ll), combined), nil
}

// evalIterSeq lowers one iteration binder to its element sequence: an
// Opt-lifted binder contributes 0 or 1 elements, a List-lifted binder
// contributes its elements directly (§4.D "Iteration").
func evalIterSeq(ctx *engine.Context, b ilast.IterExp) ([]value.Value, error) {
	src, err := Eval(ctx, b.Source)
	if err != nil {
		return nil, err
	}
	switch b.Iter {
	case typ.Opt:
		elem, some, err := value.AsOpt(src)
		if err != nil {
			return nil, err
		}
		if !some {
			return nil, nil
		}
		return []value.Value{elem}, nil
	case typ.List:
		l, ok := src.(value.List)
		if !ok {
			return nil, &errs.KindMismatch{Region: b.Region, Expected: "list", Actual: "non-list"}
		}
		return l.Elems, nil
	default:
		return nil, fmt.Errorf("interp: unknown iter kind %v", b.Iter)
	}
}

// evalIter evaluates Body once per lifted binder tuple, zipping all
// binders positionally and requiring they agree in length (§4.D, §7
// IterLengthMismatch, Testable Property "iteration-arity").
func evalIter(ctx *engine.Context, n ilast.IterE) (value.Value, error) {
	seqs := make([][]value.Value, len(n.Binders))
	lens := map[string]int{}
	n0, haveLen := -1, false
	for i, b := range n.Binders {
		seq, err := evalIterSeq(ctx, b)
		if err != nil {
			return nil, err
		}
		seqs[i] = seq
		lens[b.Var] = len(seq)
		if !haveLen {
			n0, haveLen = len(seq), true
		} else if len(seq) != n0 {
			return nil, &errs.IterLengthMismatch{Region: n.Region, Lens: lens}
		}
	}
	if !haveLen {
		n0 = 0
	}

	results := make([]value.Value, 0, n0)
	for i := 0; i < n0; i++ {
		ctx.EnterScope()
		for j, b := range n.Binders {
			ctx.Bind(b.Var, nil, seqs[j][i])
		}
		v, err := Eval(ctx, n.Body)
		ctx.LeaveScope()
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}

	switch n.Iter {
	case typ.List:
		elemTyp := typ.Typ(typ.BoolT{})
		if len(results) > 0 {
			elemTyp = results[0].Note().Typ
		}
		return value.NewList(ctx, elemTyp, results), nil
	case typ.Opt:
		if len(results) > 1 {
			return nil, &errs.IterLengthMismatch{Region: n.Region, Lens: map[string]int{"<opt-result>": len(results)}}
		}
		elemTyp := typ.Typ(typ.BoolT{})
		var elem value.Value
		if len(results) == 1 {
			elem = results[0]
			elemTyp = elem.Note().Typ
		}
		return value.NewOpt(ctx, elemTyp, elem), nil
	default:
		return nil, fmt.Errorf("interp: unknown iter kind %v", n.Iter)
	}
}

// evalCall dispatches to a registered built-in (name prefixed "$") or a
// user DecD, bounding recursion via ctx.EnterCall/LeaveCall (§4.D "Call",
// §5).
func evalCall(ctx *engine.Context, n ilast.CallE) (value.Value, error) {
	if strings.HasPrefix(n.Callee, "$") {
		fn, ok := builtins.Registry[n.Callee]
		if !ok {
			return nil, &errs.Unbound{Region: n.Region, Name: n.Callee}
		}
		argVals := make([]value.Value, len(n.Args))
		for i, a := range n.Args {
			v, err := Eval(ctx, a)
			if err != nil {
				return nil, err
			}
			argVals[i] = v
		}
		nats, err := builtins.UnwrapNats(n.Region, argVals)
		if err != nil {
			return nil, err
		}
		result, err := fn(ctx, n.Region, nats)
		if err != nil {
			return nil, err
		}
		deps := make([]value.VID, len(argVals))
		for i, a := range argVals {
			deps[i] = a.Note().VID
		}
		ctx.RecordDependency(result.Note().VID, deps...)
		return result, nil
	}

	dec, ok := ctx.Spec.LookupDec(n.Callee)
	if !ok {
		return nil, &errs.Unbound{Region: n.Region, Name: n.Callee}
	}
	argVals := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := Eval(ctx, a)
		if err != nil {
			return nil, err
		}
		argVals[i] = v
	}

	if err := ctx.EnterCall(n.Region); err != nil {
		return nil, err
	}
	defer ctx.LeaveCall()
	ctx.EnterScope()
	defer ctx.LeaveScope()
	for i, p := range dec.Params {
		if i < len(argVals) {
			ctx.Bind(p.Name, p.Typ, argVals[i])
		}
	}

	out, err := Exec(ctx, dec.Instrs)
	if err != nil {
		return nil, err
	}
	if out.Kind != Completed || !out.Returned {
		return nil, &errs.RelFailed{Region: n.Region, RelId: dec.Name}
	}
	return out.Return, nil
}

func evalCaseExp(ctx *engine.Context, n ilast.CaseExpE) (value.Value, error) {
	scrutinee, err := Eval(ctx, n.Scrutinee)
	if err != nil {
		return nil, err
	}
	for _, arm := range n.Arms {
		bindings, ok := matcher.Match(ctx, arm.Pattern, scrutinee)
		if !ok {
			continue
		}
		ctx.EnterScope()
		for name, v := range bindings {
			ctx.Bind(name, v.Note().Typ, v)
		}
		result, err := Eval(ctx, arm.Body)
		ctx.LeaveScope()
		return result, err
	}
	return nil, &errs.RelFailed{Region: n.Region, RelId: "<case expression>"}
}
