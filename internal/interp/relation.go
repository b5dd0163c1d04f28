package interp

import (
	"github.com/p4lang/p4spectec-core/internal/engine"
	"github.com/p4lang/p4spectec-core/internal/errs"
	"github.com/p4lang/p4spectec-core/internal/ilast"
	"github.com/p4lang/p4spectec-core/internal/matcher"
	"github.com/p4lang/p4spectec-core/internal/value"
)

// execRule implements the relation-invocation protocol of §4.E.1:
//  1. look up the declared RelD by name;
//  2. evaluate the call's input-position argument expressions in the
//     caller's scope;
//  3. run the relation's own body in a fresh, recursion-bounded scope
//     with its declared input positions bound;
//  4. on ResultI, match the produced outputs against the call's output-
//     position argument expressions (reinterpreted as patterns) and
//     bind the result into the CALLER's scope; on Fallthrough, raise
//     RelFailed (or, for a negated premise, succeed with no bindings).
//
// A RuleI never opens a scope of its own in the caller: on success its
// bindings are visible to the instructions that follow it, exactly like
// LetI (§4.E). When Iters is non-empty (§6 grammar `RuleI(Id, NotExp,
// IterExp*)`) the whole protocol runs once per zipped binder tuple,
// mirroring LetI's own iterated form: the binder lives in a transient
// per-iteration scope, and each iteration's output bindings land in the
// scope that precedes the loop.
func execRule(ctx *engine.Context, r ilast.RuleI) error {
	rel, ok := ctx.Spec.LookupRel(r.RelId)
	if !ok {
		return &errs.Unbound{Region: r.Region, Name: r.RelId}
	}

	if len(r.Iters) == 0 {
		_, err := invokeRuleOnce(ctx, r, rel)
		return err
	}

	n0, seqs, err := zipIters(ctx, r.Iters, r.Region)
	if err != nil {
		return err
	}
	for k := 0; k < n0; k++ {
		ctx.EnterScope()
		for j, b := range r.Iters {
			ctx.Bind(b.Var, nil, seqs[j][k])
		}
		bindings, err := invokeRuleOnce(ctx, r, rel)
		ctx.LeaveScope()
		if err != nil {
			return err
		}
		applyBindings(ctx, bindings)
	}
	return nil
}

// invokeRuleOnce runs steps 2-4 of the relation-invocation protocol
// once, with r's argument expressions evaluated against whatever scope
// is current (the caller's scope directly, or a binder scope when
// invoked per-iteration by execRule). It returns the output bindings it
// made in that scope.
func invokeRuleOnce(ctx *engine.Context, r ilast.RuleI, rel ilast.RelD) (matcher.Bindings, error) {
	argExps := r.Not.Args
	argVals := make([]value.Value, len(argExps))
	for i, e := range argExps {
		if !rel.IsInput(i) {
			continue
		}
		v, err := Eval(ctx, e)
		if err != nil {
			return nil, err
		}
		argVals[i] = v
	}

	if err := ctx.EnterCall(r.Region); err != nil {
		return nil, err
	}
	ctx.EnterScope()
	for argIdx, pos := range inputPositions(rel) {
		if argIdx >= len(argVals) {
			continue
		}
		ctx.Bind(rel.Inputs[pos].Name, rel.Inputs[pos].Typ, argVals[argIdx])
	}

	out, err := Exec(ctx, rel.Instrs)
	ctx.LeaveScope()
	ctx.LeaveCall()
	if err != nil {
		return nil, err
	}

	succeeded := out.Kind == Completed
	if r.Not.Negated {
		if succeeded {
			return nil, &errs.RelFailed{Region: r.Region, RelId: r.RelId}
		}
		return nil, nil
	}
	if !succeeded {
		return nil, &errs.RelFailed{Region: r.Region, RelId: r.RelId}
	}

	return bindOutputs(ctx, r, rel, argExps, out.Results)
}

// inputPositions maps each mixop argument index declared as an input to
// its offset within RelD.Inputs (in mixop-argument order).
func inputPositions(rel ilast.RelD) map[int]int {
	out := make(map[int]int, len(rel.InputIdx))
	pos := 0
	for _, idx := range rel.InputIdx {
		out[idx] = pos
		pos++
	}
	return out
}

// bindOutputs matches the relation's produced Results, in order, against
// the call's output-position argument expressions (those mixop positions
// not in InputIdx), reinterpreted as patterns, binding matched variables
// into the current scope and returning them. A shape mismatch is the
// same failure as a LetI whose pattern doesn't fit its value.
func bindOutputs(ctx *engine.Context, r ilast.RuleI, rel ilast.RelD, argExps []ilast.Exp, results []value.Value) (matcher.Bindings, error) {
	out := matcher.Bindings{}
	outIdx := 0
	for i, argExp := range argExps {
		if rel.IsInput(i) {
			continue
		}
		if outIdx >= len(results) {
			return nil, &errs.LetMismatch{Region: r.Region}
		}
		result := results[outIdx]
		outIdx++

		pat, ok := expAsPattern(argExp)
		if !ok {
			v, err := Eval(ctx, argExp)
			if err != nil {
				return nil, err
			}
			if !value.Equal(v, result) {
				return nil, &errs.LetMismatch{Region: r.Region}
			}
			continue
		}
		bindings, ok := matcher.Match(ctx, pat, result)
		if !ok {
			return nil, &errs.LetMismatch{Region: r.Region}
		}
		for name, v := range bindings {
			ctx.Bind(name, v.Note().Typ, v)
		}
		bindings.Merge(out)
	}
	return out, nil
}
