package interp

import (
	"fmt"

	"github.com/p4lang/p4spectec-core/internal/engine"
	"github.com/p4lang/p4spectec-core/internal/errs"
	"github.com/p4lang/p4spectec-core/internal/ilast"
	"github.com/p4lang/p4spectec-core/internal/matcher"
	"github.com/p4lang/p4spectec-core/internal/region"
	"github.com/p4lang/p4spectec-core/internal/typ"
	"github.com/p4lang/p4spectec-core/internal/value"
)

// OutcomeKind distinguishes an instruction list that produced a result
// (ResultI/ReturnI reached) from one that ran to the end without one
// (Fallthrough — §4.E: "an instruction list that completes without
// reaching Result/Return falls through to the next case/instruction").
type OutcomeKind int

const (
	Fallthrough OutcomeKind = iota
	Completed
)

// Outcome is what executing an instruction list produces: either it fell
// through, or it completed via ResultI (Results, for a RelD body) or
// ReturnI (Return, for a DecD body).
type Outcome struct {
	Kind     OutcomeKind
	Results  []value.Value
	Returned bool
	Return   value.Value
}

// Exec runs instrs in sequence against ctx, returning as soon as a
// ResultI or ReturnI is reached (§4.E).
func Exec(ctx *engine.Context, instrs []ilast.Instr) (Outcome, error) {
	for _, instr := range instrs {
		if err := ctx.CheckDeadline(instr.GetRegion()); err != nil {
			return Outcome{}, err
		}
		switch i := instr.(type) {
		case ilast.IfI:
			ok, err := evalIfCond(ctx, i)
			if err != nil {
				return Outcome{}, err
			}
			if !ok {
				if i.Phantom != nil {
					ctx.RecordPhantom(i.Phantom.Pid, i.Phantom.Conds)
				}
				continue
			}
			ctx.PushGuard(ifGuardCond(i))
			ctx.EnterScope()
			out, err := Exec(ctx, i.Body)
			ctx.LeaveScope()
			ctx.PopGuard()
			if err != nil {
				return Outcome{}, err
			}
			if out.Kind == Completed {
				return out, nil
			}

		case ilast.CaseI:
			out, matched, err := execCase(ctx, i)
			if err != nil {
				return Outcome{}, err
			}
			if matched && out.Kind == Completed {
				return out, nil
			}

		case ilast.OtherwiseI:
			out, err := Exec(ctx, i.Inner)
			if err != nil {
				return Outcome{}, err
			}
			if out.Kind == Completed {
				return out, nil
			}

		case ilast.LetI:
			if err := execLet(ctx, i); err != nil {
				return Outcome{}, err
			}

		case ilast.RuleI:
			if err := execRule(ctx, i); err != nil {
				return Outcome{}, err
			}

		case ilast.ResultI:
			vals := make([]value.Value, len(i.Exps))
			for idx, e := range i.Exps {
				v, err := Eval(ctx, e)
				if err != nil {
					return Outcome{}, err
				}
				vals[idx] = v
			}
			return Outcome{Kind: Completed, Results: vals}, nil

		case ilast.ReturnI:
			v, err := Eval(ctx, i.Exp)
			if err != nil {
				return Outcome{}, err
			}
			return Outcome{Kind: Completed, Returned: true, Return: v}, nil

		default:
			return Outcome{}, fmt.Errorf("interp: unknown instruction %T", instr)
		}
	}
	return Outcome{Kind: Fallthrough}, nil
}

// evalIfCond evaluates an IfI's condition, universally quantified over
// its Iters if present (an `if` guarded by an iteration binder succeeds
// only when Cond holds for every lifted tuple).
func evalIfCond(ctx *engine.Context, i ilast.IfI) (bool, error) {
	if len(i.Iters) == 0 {
		v, err := Eval(ctx, i.Cond)
		if err != nil {
			return false, err
		}
		return value.AsBool(v)
	}

	n0, seqs, err := zipIters(ctx, i.Iters, i.Region)
	if err != nil {
		return false, err
	}
	for k := 0; k < n0; k++ {
		ctx.EnterScope()
		for j, b := range i.Iters {
			ctx.Bind(b.Var, nil, seqs[j][k])
		}
		v, err := Eval(ctx, i.Cond)
		ctx.LeaveScope()
		if err != nil {
			return false, err
		}
		ok, err := value.AsBool(v)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// ifGuardCond reifies an IfI's taken condition as the PathCond pushed
// onto the context path while its Body runs (§4.F): ForallC when the
// condition is iteration-guarded, matching PathCond's own ForallC(Exp,
// IterExp*) shape, PlainC otherwise.
func ifGuardCond(i ilast.IfI) ilast.PathCond {
	if len(i.Iters) > 0 {
		return ilast.ForallC{Region: i.Region, Exp: i.Cond, Binders: i.Iters}
	}
	return ilast.PlainC{Region: i.Region, Exp: i.Cond}
}

// zipIters evaluates each iteration binder's source sequence and checks
// they agree in length, returning the shared length and each binder's
// positional sequence (§4.D's IterE zipping rule, shared by IfI's forall
// condition and by LetI/RuleI's own IterExp* — §6 grammar — so a let or
// relation invocation under an iteration binder runs once per zipped
// tuple instead of once with the binder left unbound).
func zipIters(ctx *engine.Context, iters []ilast.IterExp, r region.Region) (int, [][]value.Value, error) {
	if len(iters) == 0 {
		return 0, nil, nil
	}
	seqs := make([][]value.Value, len(iters))
	lens := map[string]int{}
	n0, haveLen := -1, false
	for idx, b := range iters {
		seq, err := evalIterSeq(ctx, b)
		if err != nil {
			return 0, nil, err
		}
		seqs[idx] = seq
		lens[b.Var] = len(seq)
		if !haveLen {
			n0, haveLen = len(seq), true
		} else if len(seq) != n0 {
			return 0, nil, &errs.IterLengthMismatch{Region: r, Lens: lens}
		}
	}
	if !haveLen {
		n0 = 0
	}
	return n0, seqs, nil
}

// execCase evaluates a CaseI: the scrutinee is matched against each
// Case's Guard in order, first success wins (§4.E). matched reports
// whether any guard succeeded, distinguishing "fell through with no
// match" (log the phantom, let the caller's instruction list continue)
// from "matched but its body itself fell through" (also continue, but
// without re-logging the phantom).
func execCase(ctx *engine.Context, i ilast.CaseI) (out Outcome, matched bool, err error) {
	scrutinee, err := Eval(ctx, i.Scrutinee)
	if err != nil {
		return Outcome{}, false, err
	}
	for _, c := range i.Cases {
		bindings, ok, err := evalGuard(ctx, c.Guard, scrutinee)
		if err != nil {
			return Outcome{}, false, err
		}
		if !ok {
			continue
		}
		ctx.EnterScope()
		for name, v := range bindings {
			ctx.Bind(name, v.Note().Typ, v)
		}
		out, err := Exec(ctx, c.Body)
		ctx.LeaveScope()
		return out, true, err
	}
	if i.Phantom != nil {
		ctx.RecordPhantom(i.Phantom.Pid, i.Phantom.Conds)
	}
	return Outcome{Kind: Fallthrough}, false, nil
}

// evalGuard evaluates a single Guard against the scrutinee (§4.E).
// MatchG is the only guard that produces bindings.
func evalGuard(ctx *engine.Context, g ilast.Guard, scrutinee value.Value) (matcher.Bindings, bool, error) {
	switch guard := g.(type) {
	case ilast.BoolG:
		return nil, guard.Val, nil

	case ilast.CmpG:
		rhs, err := Eval(ctx, guard.Exp)
		if err != nil {
			return nil, false, err
		}
		ok, err := compareGuard(guard.Op, scrutinee, rhs)
		return nil, ok, err

	case ilast.SubG:
		return nil, typ.IsSubtype(scrutinee.Note().Typ, guard.Typ), nil

	case ilast.MatchG:
		bindings, ok := matcher.Match(ctx, guard.Pattern, scrutinee)
		return bindings, ok, nil

	case ilast.MemG:
		v, err := Eval(ctx, guard.Exp)
		if err != nil {
			return nil, false, err
		}
		l, ok := v.(value.List)
		if !ok {
			return nil, false, &errs.KindMismatch{Region: guard.Region, Expected: "list", Actual: "non-list"}
		}
		return nil, value.Contains(l.Elems, scrutinee), nil

	default:
		return nil, false, fmt.Errorf("interp: unknown guard %T", g)
	}
}

// execLet evaluates a LetI: Rhs is matched against Lhs reinterpreted as
// a pattern, binding into the enclosing scope directly — a Let does not
// open its own scope, unlike a successful If/Case branch (§4.E). When
// Iters is non-empty the match runs once per zipped binder tuple (§6
// grammar `LetI(Exp, Exp, IterExp*)`), with each iteration's bindings
// landing in the scope that precedes the loop rather than the transient
// per-iteration one, so they survive past the binder's own lifetime.
func execLet(ctx *engine.Context, l ilast.LetI) error {
	if len(l.Iters) == 0 {
		bindings, err := evalLetMatch(ctx, l.Lhs, l.Rhs, l.Region)
		if err != nil {
			return err
		}
		applyBindings(ctx, bindings)
		return nil
	}

	n0, seqs, err := zipIters(ctx, l.Iters, l.Region)
	if err != nil {
		return err
	}
	for k := 0; k < n0; k++ {
		ctx.EnterScope()
		for j, b := range l.Iters {
			ctx.Bind(b.Var, nil, seqs[j][k])
		}
		bindings, err := evalLetMatch(ctx, l.Lhs, l.Rhs, l.Region)
		ctx.LeaveScope()
		if err != nil {
			return err
		}
		applyBindings(ctx, bindings)
	}
	return nil
}

// evalLetMatch evaluates Rhs and matches it against Lhs reinterpreted as
// a pattern, returning the produced bindings without applying them —
// callers decide which scope the bindings land in (execLet's iterated
// form needs the binder popped first).
func evalLetMatch(ctx *engine.Context, lhs, rhs ilast.Exp, r region.Region) (matcher.Bindings, error) {
	rhsVal, err := Eval(ctx, rhs)
	if err != nil {
		return nil, err
	}
	pat, ok := expAsPattern(lhs)
	if !ok {
		lhsVal, err := Eval(ctx, lhs)
		if err != nil {
			return nil, err
		}
		if !value.Equal(lhsVal, rhsVal) {
			return nil, &errs.LetMismatch{Region: r}
		}
		return nil, nil
	}
	bindings, ok := matcher.Match(ctx, pat, rhsVal)
	if !ok {
		return nil, &errs.LetMismatch{Region: r}
	}
	return bindings, nil
}

func applyBindings(ctx *engine.Context, bindings matcher.Bindings) {
	for name, v := range bindings {
		ctx.Bind(name, v.Note().Typ, v)
	}
}

// expAsPattern reinterprets an Exp appearing in LHS position (LetI.Lhs,
// or a RuleI's output-position arguments) as a Pattern, since the §6
// grammar gives LetI.Lhs as an Exp rather than a dedicated pattern
// grammar. Only the pattern-shaped subset of Exp converts; anything else
// reports ok=false and the caller falls back to evaluate-then-compare.
func expAsPattern(e ilast.Exp) (ilast.Pattern, bool) {
	switch n := e.(type) {
	case ilast.VarE:
		return ilast.VarP{Region: n.Region, Name: n.Name}, true
	case ilast.BoolLitE:
		return ilast.LitP{Region: n.Region, Val: n}, true
	case ilast.NumLitE:
		return ilast.LitP{Region: n.Region, Val: n}, true
	case ilast.TextLitE:
		return ilast.LitP{Region: n.Region, Val: n}, true
	case ilast.CaseE:
		args := make([]ilast.Pattern, len(n.Args))
		for i, a := range n.Args {
			p, ok := expAsPattern(a)
			if !ok {
				return nil, false
			}
			args[i] = p
		}
		return ilast.CaseP{Region: n.Region, Op: n.Op, Args: args}, true
	case ilast.TupleE:
		elems := make([]ilast.Pattern, len(n.Elems))
		for i, el := range n.Elems {
			p, ok := expAsPattern(el)
			if !ok {
				return nil, false
			}
			elems[i] = p
		}
		return ilast.TupleP{Region: n.Region, Elems: elems}, true
	case ilast.ListE:
		prefix := make([]ilast.Pattern, len(n.Elems))
		for i, el := range n.Elems {
			p, ok := expAsPattern(el)
			if !ok {
				return nil, false
			}
			prefix[i] = p
		}
		return ilast.ListP{Region: n.Region, Prefix: prefix}, true
	default:
		return nil, false
	}
}

func compareGuard(op ilast.CmpOp, scrutinee, rhs value.Value) (bool, error) {
	if op == ilast.CmpEq {
		return value.Equal(scrutinee, rhs), nil
	}
	if op == ilast.CmpNe {
		return !value.Equal(scrutinee, rhs), nil
	}
	ln, err := value.AsNum(scrutinee)
	if err != nil {
		return false, err
	}
	rn, err := value.AsNum(rhs)
	if err != nil {
		return false, err
	}
	c := ln.Val.Cmp(rn.Val)
	switch op {
	case ilast.CmpLt:
		return c < 0, nil
	case ilast.CmpLe:
		return c <= 0, nil
	case ilast.CmpGt:
		return c > 0, nil
	case ilast.CmpGe:
		return c >= 0, nil
	default:
		return false, fmt.Errorf("interp: unknown comparison op %q", op)
	}
}
