package interp

import (
	"testing"

	"github.com/p4lang/p4spectec-core/internal/engine"
	"github.com/p4lang/p4spectec-core/internal/errs"
	"github.com/p4lang/p4spectec-core/internal/ilast"
	"github.com/p4lang/p4spectec-core/internal/mixop"
	"github.com/p4lang/p4spectec-core/internal/numeric"
	"github.com/p4lang/p4spectec-core/internal/typ"
	"github.com/p4lang/p4spectec-core/internal/value"
)

func numLit(v int64) ilast.NumLitE {
	return ilast.NumLitE{Val: numeric.NewNatInt64(v)}
}

func TestEvalCallBuiltinSum(t *testing.T) {
	ctx := engine.New(&ilast.Spec{}, engine.Limits{})
	call := ilast.CallE{Callee: "$sum", Args: []ilast.Exp{numLit(1), numLit(2), numLit(3)}}
	v, err := Eval(ctx, call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, _ := value.AsNum(v)
	if got, _ := n.Val.Int64(); got != 6 {
		t.Fatalf("$sum(1,2,3) = %d, want 6", got)
	}
}

func TestEvalBinDivByZero(t *testing.T) {
	ctx := engine.New(&ilast.Spec{}, engine.Limits{})
	bin := ilast.BinE{Op: ilast.BinDiv, OpTyp: ilast.OpTyp{Typ: typ.NumT{Kind: typ.Nat()}}, Left: numLit(4), Right: numLit(0)}
	_, err := Eval(ctx, bin)
	if _, ok := err.(*errs.DivByZero); !ok {
		t.Fatalf("expected *errs.DivByZero, got %v", err)
	}
}

func TestExecLetMismatch(t *testing.T) {
	ctx := engine.New(&ilast.Spec{}, engine.Limits{})
	let := ilast.LetI{Lhs: ilast.BoolLitE{Val: true}, Rhs: ilast.BoolLitE{Val: false}}
	_, err := Exec(ctx, []ilast.Instr{let})
	if _, ok := err.(*errs.LetMismatch); !ok {
		t.Fatalf("expected *errs.LetMismatch, got %v", err)
	}
}

func TestExecLetBindsVariable(t *testing.T) {
	ctx := engine.New(&ilast.Spec{}, engine.Limits{})
	let := ilast.LetI{Lhs: ilast.VarE{Name: "x"}, Rhs: numLit(7)}
	if _, err := Exec(ctx, []ilast.Instr{let}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, v, err := ctx.LookupVar(let.Region, "x")
	if err != nil {
		t.Fatalf("x should be bound: %v", err)
	}
	n, _ := value.AsNum(v)
	if got, _ := n.Val.Int64(); got != 7 {
		t.Fatalf("x = %d, want 7", got)
	}
}

func TestIfFalseLogsPhantomAndFallsThrough(t *testing.T) {
	ctx := engine.New(&ilast.Spec{}, engine.Limits{})
	ifi := ilast.IfI{
		Cond:    ilast.BoolLitE{Val: false},
		Body:    []ilast.Instr{ilast.ResultI{}},
		Phantom: &ilast.Phantom{Pid: "p-untaken"},
	}
	out, err := Exec(ctx, []ilast.Instr{ifi})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != Fallthrough {
		t.Fatalf("expected Fallthrough, got %v", out.Kind)
	}
	phantoms := ctx.Phantoms()
	if len(phantoms) != 1 || phantoms[0].Pid != "p-untaken" {
		t.Fatalf("expected one phantom p-untaken, got %+v", phantoms)
	}
}

func TestRuleFallthroughRaisesRelFailed(t *testing.T) {
	rel := ilast.RelD{
		Name:     "foo",
		Op:       mixop.New(1, "foo"),
		InputIdx: []int{0},
		Inputs:   []ilast.Param{{Name: "x", Typ: typ.NumT{Kind: typ.Nat()}}},
		Instrs: []ilast.Instr{
			ilast.IfI{Cond: ilast.BoolLitE{Val: false}, Body: []ilast.Instr{ilast.ResultI{}}},
		},
	}
	ctx := engine.New(&ilast.Spec{Defs: []ilast.Def{rel}}, engine.Limits{})
	rule := ilast.RuleI{RelId: "foo", Not: ilast.NotExp{Args: []ilast.Exp{numLit(1)}}}
	_, err := Exec(ctx, []ilast.Instr{rule})
	if _, ok := err.(*errs.RelFailed); !ok {
		t.Fatalf("expected *errs.RelFailed, got %v", err)
	}
}

func TestRuleBindsOutputOnSuccess(t *testing.T) {
	rel := ilast.RelD{
		Name:     "double",
		Op:       mixop.New(2, "double"),
		InputIdx: []int{0},
		Inputs:   []ilast.Param{{Name: "x", Typ: typ.NumT{Kind: typ.Nat()}}},
		Instrs: []ilast.Instr{
			ilast.ResultI{Exps: []ilast.Exp{
				ilast.BinE{Op: ilast.BinMul, OpTyp: ilast.OpTyp{Typ: typ.NumT{Kind: typ.Nat()}}, Left: ilast.VarE{Name: "x"}, Right: numLit(2)},
			}},
		},
	}
	ctx := engine.New(&ilast.Spec{Defs: []ilast.Def{rel}}, engine.Limits{})
	rule := ilast.RuleI{RelId: "double", Not: ilast.NotExp{Args: []ilast.Exp{numLit(5), ilast.VarE{Name: "y"}}}}
	if _, err := Exec(ctx, []ilast.Instr{rule}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, v, err := ctx.LookupVar(rule.Region, "y")
	if err != nil {
		t.Fatalf("y should be bound: %v", err)
	}
	n, _ := value.AsNum(v)
	if got, _ := n.Val.Int64(); got != 10 {
		t.Fatalf("y = %d, want 10", got)
	}
}

func TestCaseIFirstMatchingGuardWins(t *testing.T) {
	ctx := engine.New(&ilast.Spec{}, engine.Limits{})
	scrutinee := numLit(3)
	casei := ilast.CaseI{
		Scrutinee: scrutinee,
		Cases: []ilast.Case{
			{Guard: ilast.MatchG{Pattern: ilast.VarP{Name: "a"}}, Body: []ilast.Instr{ilast.ResultI{Exps: []ilast.Exp{ilast.VarE{Name: "a"}}}}},
			{Guard: ilast.MatchG{Pattern: ilast.VarP{Name: "b"}}, Body: []ilast.Instr{ilast.ResultI{Exps: []ilast.Exp{numLit(999)}}}},
		},
	}
	out, err := Exec(ctx, []ilast.Instr{casei})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != Completed || len(out.Results) != 1 {
		t.Fatalf("expected one completed result, got %+v", out)
	}
	n, _ := value.AsNum(out.Results[0])
	if got, _ := n.Val.Int64(); got != 3 {
		t.Fatalf("result = %d, want 3 (first guard's body, not the second)", got)
	}
	if len(ctx.Phantoms()) != 0 {
		t.Fatalf("a matched CaseI should not log a phantom")
	}
}

func TestIfFalsePhantomCarriesDeclaredConds(t *testing.T) {
	ctx := engine.New(&ilast.Spec{}, engine.Limits{})
	declared := ilast.PlainC{Exp: ilast.BoolLitE{Val: false}}
	ifi := ilast.IfI{
		Cond:    ilast.BoolLitE{Val: false},
		Body:    []ilast.Instr{ilast.ResultI{}},
		Phantom: &ilast.Phantom{Pid: "p-untaken", Conds: []ilast.PathCond{declared}},
	}
	if _, err := Exec(ctx, []ilast.Instr{ifi}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	phantoms := ctx.Phantoms()
	if len(phantoms) != 1 {
		t.Fatalf("expected one phantom, got %+v", phantoms)
	}
	if len(phantoms[0].Path) != 1 {
		t.Fatalf("expected the phantom's declared Conds to survive onto its path, got %+v", phantoms[0].Path)
	}
}

func TestIfTakenBranchPushesEnclosingGuardForNestedPhantom(t *testing.T) {
	ctx := engine.New(&ilast.Spec{}, engine.Limits{})
	outer := ilast.IfI{
		Cond: ilast.BoolLitE{Val: true},
		Body: []ilast.Instr{
			ilast.IfI{
				Cond:    ilast.BoolLitE{Val: false},
				Body:    []ilast.Instr{ilast.ResultI{}},
				Phantom: &ilast.Phantom{Pid: "p-nested"},
			},
		},
	}
	if _, err := Exec(ctx, []ilast.Instr{outer}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	phantoms := ctx.Phantoms()
	if len(phantoms) != 1 || phantoms[0].Pid != "p-nested" {
		t.Fatalf("expected one phantom p-nested, got %+v", phantoms)
	}
	if len(phantoms[0].Path) != 1 {
		t.Fatalf("expected the outer If's taken condition on the path as enclosing context, got %+v", phantoms[0].Path)
	}
}

func TestExecLetIteratesOverBinders(t *testing.T) {
	ctx := engine.New(&ilast.Spec{}, engine.Limits{})
	let := ilast.LetI{
		Lhs: ilast.VarE{Name: "y"},
		Rhs: ilast.BinE{Op: ilast.BinAdd, OpTyp: ilast.OpTyp{Typ: typ.NumT{Kind: typ.Nat()}}, Left: ilast.VarE{Name: "x"}, Right: numLit(1)},
		Iters: []ilast.IterExp{
			{Var: "x", Iter: typ.List, Source: ilast.ListE{ElemTyp: typ.NumT{Kind: typ.Nat()}, Elems: []ilast.Exp{numLit(1), numLit(2), numLit(3)}}},
		},
	}
	if _, err := Exec(ctx, []ilast.Instr{let}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, v, err := ctx.LookupVar(let.Region, "y")
	if err != nil {
		t.Fatalf("y should be bound after the iterated let: %v", err)
	}
	n, _ := value.AsNum(v)
	if got, _ := n.Val.Int64(); got != 4 {
		t.Fatalf("y = %d, want 4 (last iteration's x+1, x=3)", got)
	}
	if _, _, err := ctx.LookupVar(let.Region, "x"); err == nil {
		t.Fatalf("x is the binder's own variable and must not leak past the iterated let")
	}
}

func TestExecLetIteratedMismatchFails(t *testing.T) {
	ctx := engine.New(&ilast.Spec{}, engine.Limits{})
	let := ilast.LetI{
		Lhs: ilast.BoolLitE{Val: true},
		Rhs: ilast.CmpE{Op: ilast.CmpGt, OpTyp: ilast.OpTyp{Typ: typ.NumT{Kind: typ.Nat()}}, Left: ilast.VarE{Name: "x"}, Right: numLit(1)},
		Iters: []ilast.IterExp{
			{Var: "x", Iter: typ.List, Source: ilast.ListE{ElemTyp: typ.NumT{Kind: typ.Nat()}, Elems: []ilast.Exp{numLit(2), numLit(0)}}},
		},
	}
	_, err := Exec(ctx, []ilast.Instr{let})
	if _, ok := err.(*errs.LetMismatch); !ok {
		t.Fatalf("expected *errs.LetMismatch on the second element (0 > 1 is false), got %v", err)
	}
}

func TestRuleWithItersInvokesOncePerElement(t *testing.T) {
	rel := ilast.RelD{
		Name:     "double",
		Op:       mixop.New(2, "double"),
		InputIdx: []int{0},
		Inputs:   []ilast.Param{{Name: "x", Typ: typ.NumT{Kind: typ.Nat()}}},
		Instrs: []ilast.Instr{
			ilast.ResultI{Exps: []ilast.Exp{
				ilast.BinE{Op: ilast.BinMul, OpTyp: ilast.OpTyp{Typ: typ.NumT{Kind: typ.Nat()}}, Left: ilast.VarE{Name: "x"}, Right: numLit(2)},
			}},
		},
	}
	ctx := engine.New(&ilast.Spec{Defs: []ilast.Def{rel}}, engine.Limits{})
	rule := ilast.RuleI{
		RelId: "double",
		Not:   ilast.NotExp{Args: []ilast.Exp{ilast.VarE{Name: "x"}, ilast.VarE{Name: "y"}}},
		Iters: []ilast.IterExp{
			{Var: "x", Iter: typ.List, Source: ilast.ListE{ElemTyp: typ.NumT{Kind: typ.Nat()}, Elems: []ilast.Exp{numLit(1), numLit(2), numLit(3)}}},
		},
	}
	if _, err := Exec(ctx, []ilast.Instr{rule}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, v, err := ctx.LookupVar(rule.Region, "y")
	if err != nil {
		t.Fatalf("y should be bound after the iterated rule: %v", err)
	}
	n, _ := value.AsNum(v)
	if got, _ := n.Val.Int64(); got != 6 {
		t.Fatalf("y = %d, want 6 (last iteration's double(3))", got)
	}
	if _, _, err := ctx.LookupVar(rule.Region, "x"); err == nil {
		t.Fatalf("x is the binder's own variable and must not leak past the iterated rule")
	}
}

func TestCaseINoMatchLogsPhantom(t *testing.T) {
	ctx := engine.New(&ilast.Spec{}, engine.Limits{})
	casei := ilast.CaseI{
		Scrutinee: ilast.BoolLitE{Val: true},
		Cases: []ilast.Case{
			{Guard: ilast.BoolG{Val: false}, Body: []ilast.Instr{ilast.ResultI{}}},
		},
		Phantom: &ilast.Phantom{Pid: "p-no-match"},
	}
	out, err := Exec(ctx, []ilast.Instr{casei})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != Fallthrough {
		t.Fatalf("expected Fallthrough, got %v", out.Kind)
	}
	phantoms := ctx.Phantoms()
	if len(phantoms) != 1 || phantoms[0].Pid != "p-no-match" {
		t.Fatalf("expected one phantom p-no-match, got %+v", phantoms)
	}
}

func TestIterLengthMismatchRaised(t *testing.T) {
	ctx := engine.New(&ilast.Spec{}, engine.Limits{})
	iter := ilast.IterE{
		Body: ilast.VarE{Name: "x"},
		Iter: typ.List,
		Binders: []ilast.IterExp{
			{Var: "x", Iter: typ.List, Source: ilast.ListE{ElemTyp: typ.NumT{Kind: typ.Nat()}, Elems: []ilast.Exp{numLit(1), numLit(2)}}},
			{Var: "y", Iter: typ.List, Source: ilast.ListE{ElemTyp: typ.NumT{Kind: typ.Nat()}, Elems: []ilast.Exp{numLit(1)}}},
		},
	}
	_, err := Eval(ctx, iter)
	if _, ok := err.(*errs.IterLengthMismatch); !ok {
		t.Fatalf("expected *errs.IterLengthMismatch, got %v", err)
	}
}

func TestIterProducesListDeterministically(t *testing.T) {
	mkIter := func(ctx *engine.Context) (value.Value, error) {
		iter := ilast.IterE{
			Body: ilast.BinE{Op: ilast.BinAdd, OpTyp: ilast.OpTyp{Typ: typ.NumT{Kind: typ.Nat()}}, Left: ilast.VarE{Name: "x"}, Right: numLit(1)},
			Iter: typ.List,
			Binders: []ilast.IterExp{
				{Var: "x", Iter: typ.List, Source: ilast.ListE{ElemTyp: typ.NumT{Kind: typ.Nat()}, Elems: []ilast.Exp{numLit(1), numLit(2), numLit(3)}}},
			},
		}
		return Eval(ctx, iter)
	}

	ctx1 := engine.New(&ilast.Spec{}, engine.Limits{})
	v1, err := mkIter(ctx1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx2 := engine.New(&ilast.Spec{}, engine.Limits{})
	v2, err := mkIter(ctx2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.Equal(v1, v2) {
		t.Fatalf("two evaluations of the same IterE over the same input diverged (determinism, Testable Property 1)")
	}
	l, _ := value.AsList(v1)
	if len(l) != 3 {
		t.Fatalf("expected 3 results, got %d", len(l))
	}
	n, _ := value.AsNum(l[2])
	if got, _ := n.Val.Int64(); got != 4 {
		t.Fatalf("l[2] = %d, want 4", got)
	}
}
