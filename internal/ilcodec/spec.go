package ilcodec

import (
	"encoding/json"
	"fmt"

	"github.com/p4lang/p4spectec-core/internal/ilast"
	"github.com/p4lang/p4spectec-core/internal/mixop"
	"github.com/p4lang/p4spectec-core/internal/numeric"
	"github.com/p4lang/p4spectec-core/internal/typ"
)

// snode is the self-describing wire shape for every node across the
// mutually recursive Exp/Instr/Pattern/Guard/PathCond/Def grammar
// (internal/ilast) — one discriminated struct, the same "tag names as
// discriminators" approach json.go uses for value.Value, rather than a
// family of envelope types per sealed interface. Region is intentionally
// not carried across the wire: a reloaded program's diagnostics render
// "<unknown>" positions, which is acceptable for a program handed to
// p4ilrun as a standalone artifact rather than tied to original source
// text.
type snode struct {
	Kind string `json:"kind"`

	Name string `json:"name,omitempty"`

	Bool     bool   `json:"bool,omitempty"`
	NumKind  string `json:"num_kind,omitempty"`
	NumWidth int    `json:"num_width,omitempty"`
	NumVal   string `json:"num_val,omitempty"`
	Text     string `json:"text,omitempty"`

	Op    string   `json:"op,omitempty"`
	OpTyp *typNode `json:"op_typ,omitempty"`
	Arg   *snode   `json:"arg,omitempty"`
	Left  *snode   `json:"left,omitempty"`
	Right *snode   `json:"right,omitempty"`

	MixOp     *mixOpNode `json:"mixop,omitempty"`
	ResultTyp *typNode   `json:"result_typ,omitempty"`
	Args      []*snode   `json:"args,omitempty"`

	ProjKind string `json:"proj_kind,omitempty"`
	Base     *snode `json:"base,omitempty"`
	Atom     string `json:"atom,omitempty"`
	Index    int    `json:"index,omitempty"`

	List *snode `json:"list,omitempty"`
	Elem *snode `json:"elem,omitempty"`

	ElemTyp *typNode            `json:"elem_typ,omitempty"`
	Elems   []*snode            `json:"elems,omitempty"`
	Fields  []*structFieldNode  `json:"fields,omitempty"`

	Callee string `json:"callee,omitempty"`

	Iter    string        `json:"iter,omitempty"`
	Binders []*iterExpNode `json:"binders,omitempty"`
	Body    *snode        `json:"body,omitempty"`

	Scrutinee *snode        `json:"scrutinee,omitempty"`
	Arms      []*caseArmNode `json:"arms,omitempty"`

	Cond    *snode      `json:"cond,omitempty"`
	Instrs  []*snode    `json:"instrs,omitempty"`
	Phantom *phantomNode `json:"phantom,omitempty"`
	Cases   []*caseNode `json:"cases,omitempty"`
	Guard   *snode      `json:"guard,omitempty"`

	Lhs   *snode      `json:"lhs,omitempty"`
	Rhs   *snode      `json:"rhs,omitempty"`
	RelId string      `json:"rel_id,omitempty"`
	Not   *notExpNode `json:"not,omitempty"`
	Exps  []*snode    `json:"exps,omitempty"`
	Exp   *snode      `json:"exp,omitempty"`

	Val    *snode   `json:"val,omitempty"`
	Prefix []*snode `json:"prefix,omitempty"`
	Rest   *snode   `json:"rest,omitempty"`
	Suffix []*snode `json:"suffix,omitempty"`

	Pattern *snode `json:"pattern,omitempty"`
	Typ     *typNode `json:"typ,omitempty"`

	Tparams    []*tparamNode `json:"tparams,omitempty"`
	Params     []*paramNode  `json:"params,omitempty"`
	ReturnType *typNode      `json:"return_type,omitempty"`
	DefTyp     *typNode      `json:"def_typ,omitempty"`
	InputIdx   []int         `json:"input_idx,omitempty"`

	Defs []*snode `json:"defs,omitempty"`
}

type structFieldNode struct {
	Atom string `json:"atom"`
	Val  *snode `json:"val"`
}

type iterExpNode struct {
	Var    string `json:"var"`
	Source *snode `json:"source"`
	Iter   string `json:"iter"`
}

type caseArmNode struct {
	Pattern *snode `json:"pattern"`
	Body    *snode `json:"body"`
}

type caseNode struct {
	Guard *snode   `json:"guard"`
	Body  []*snode `json:"body"`
}

type notExpNode struct {
	Negated bool     `json:"negated"`
	Rel     string   `json:"rel"`
	Args    []*snode `json:"args"`
}

type tparamNode struct {
	Name string   `json:"name"`
	Kind *typNode `json:"kind,omitempty"`
}

type paramNode struct {
	Name string   `json:"name"`
	Typ  *typNode `json:"typ"`
}

type phantomNode struct {
	Pid   string   `json:"pid"`
	Conds []*snode `json:"conds"`
}

func iterString(it typ.Iter) string {
	if it == typ.Opt {
		return "opt"
	}
	return "list"
}

func iterFromString(s string) typ.Iter {
	if s == "opt" {
		return typ.Opt
	}
	return typ.List
}

// MarshalSpec renders a full elaborated program as JSON (§6 grammar).
func MarshalSpec(spec *ilast.Spec) ([]byte, error) {
	defs := make([]*snode, len(spec.Defs))
	for i, d := range spec.Defs {
		n, err := toSDef(d)
		if err != nil {
			return nil, err
		}
		defs[i] = n
	}
	return json.Marshal(&snode{Kind: "Spec", Defs: defs})
}

// UnmarshalSpec parses data back into a *ilast.Spec.
func UnmarshalSpec(data []byte) (*ilast.Spec, error) {
	var n snode
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("ilcodec: %w", err)
	}
	if n.Kind != "Spec" {
		return nil, fmt.Errorf("ilcodec: expected top-level kind \"Spec\", got %q", n.Kind)
	}
	defs := make([]ilast.Def, len(n.Defs))
	for i, dn := range n.Defs {
		d, err := fromSDef(dn)
		if err != nil {
			return nil, err
		}
		defs[i] = d
	}
	return &ilast.Spec{Defs: defs}, nil
}

// --- Def ---

func toSDef(d ilast.Def) (*snode, error) {
	switch x := d.(type) {
	case ilast.TypD:
		defTyp, err := toTypNode(x.DefTyp)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "TypD", Name: x.Name, Tparams: toTparams(x.Tparams), DefTyp: defTyp}, nil
	case ilast.RelD:
		instrs, err := toSInstrs(x.Instrs)
		if err != nil {
			return nil, err
		}
		params, err := toParams(x.Inputs)
		if err != nil {
			return nil, err
		}
		return &snode{
			Kind: "RelD", Name: x.Name, MixOp: &mixOpNode{Tokens: x.Op.Tokens, Arity: x.Op.Arity},
			InputIdx: append([]int(nil), x.InputIdx...), Params: params, Instrs: instrs,
		}, nil
	case ilast.DecD:
		instrs, err := toSInstrs(x.Instrs)
		if err != nil {
			return nil, err
		}
		params, err := toParams(x.Params)
		if err != nil {
			return nil, err
		}
		rt, err := toTypNode(x.ReturnType)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "DecD", Name: x.Name, Tparams: toTparams(x.Tparams), Params: params, ReturnType: rt, Instrs: instrs}, nil
	default:
		return nil, fmt.Errorf("ilcodec: unknown Def %T", d)
	}
}

func fromSDef(n *snode) (ilast.Def, error) {
	switch n.Kind {
	case "TypD":
		defTyp, err := fromTypNode(n.DefTyp)
		if err != nil {
			return nil, err
		}
		return ilast.TypD{Name: n.Name, Tparams: fromTparams(n.Tparams), DefTyp: defTyp}, nil
	case "RelD":
		instrs, err := fromSInstrs(n.Instrs)
		if err != nil {
			return nil, err
		}
		params, err := fromParams(n.Params)
		if err != nil {
			return nil, err
		}
		return ilast.RelD{
			Name: n.Name, Op: mixop.New(n.MixOp.Arity, n.MixOp.Tokens...),
			InputIdx: append([]int(nil), n.InputIdx...), Inputs: params, Instrs: instrs,
		}, nil
	case "DecD":
		instrs, err := fromSInstrs(n.Instrs)
		if err != nil {
			return nil, err
		}
		params, err := fromParams(n.Params)
		if err != nil {
			return nil, err
		}
		rt, err := fromTypNode(n.ReturnType)
		if err != nil {
			return nil, err
		}
		return ilast.DecD{Name: n.Name, Tparams: fromTparams(n.Tparams), Params: params, ReturnType: rt, Instrs: instrs}, nil
	default:
		return nil, fmt.Errorf("ilcodec: unknown Def kind %q", n.Kind)
	}
}

func toTparams(ts []ilast.Tparam) []*tparamNode {
	out := make([]*tparamNode, len(ts))
	for i, t := range ts {
		var kn *typNode
		if t.Kind != nil {
			kn, _ = toTypNode(t.Kind)
		}
		out[i] = &tparamNode{Name: t.Name, Kind: kn}
	}
	return out
}

func fromTparams(ts []*tparamNode) []ilast.Tparam {
	out := make([]ilast.Tparam, len(ts))
	for i, t := range ts {
		var kind typ.Typ
		if t.Kind != nil {
			kind, _ = fromTypNode(t.Kind)
		}
		out[i] = ilast.Tparam{Name: t.Name, Kind: kind}
	}
	return out
}

func toParams(ps []ilast.Param) ([]*paramNode, error) {
	out := make([]*paramNode, len(ps))
	for i, p := range ps {
		tn, err := toTypNode(p.Typ)
		if err != nil {
			return nil, err
		}
		out[i] = &paramNode{Name: p.Name, Typ: tn}
	}
	return out, nil
}

func fromParams(ps []*paramNode) ([]ilast.Param, error) {
	out := make([]ilast.Param, len(ps))
	for i, p := range ps {
		t, err := fromTypNode(p.Typ)
		if err != nil {
			return nil, err
		}
		out[i] = ilast.Param{Name: p.Name, Typ: t}
	}
	return out, nil
}

// --- Exp ---

func toSExp(e ilast.Exp) (*snode, error) {
	switch x := e.(type) {
	case ilast.VarE:
		return &snode{Kind: "VarE", Name: x.Name}, nil
	case ilast.BoolLitE:
		return &snode{Kind: "BoolLitE", Bool: x.Val}, nil
	case ilast.NumLitE:
		return &snode{Kind: "NumLitE", NumKind: x.Val.Kind().Name, NumWidth: x.Val.Kind().Width, NumVal: x.Val.String()}, nil
	case ilast.TextLitE:
		return &snode{Kind: "TextLitE", Text: x.Val}, nil
	case ilast.UnE:
		arg, err := toSExp(x.Arg)
		if err != nil {
			return nil, err
		}
		ot, err := toTypNode(x.OpTyp.Typ)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "UnE", Op: string(x.Op), OpTyp: ot, Arg: arg}, nil
	case ilast.BinE:
		l, r, err := toSExpPair(x.Left, x.Right)
		if err != nil {
			return nil, err
		}
		ot, err := toTypNode(x.OpTyp.Typ)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "BinE", Op: string(x.Op), OpTyp: ot, Left: l, Right: r}, nil
	case ilast.CmpE:
		l, r, err := toSExpPair(x.Left, x.Right)
		if err != nil {
			return nil, err
		}
		ot, err := toTypNode(x.OpTyp.Typ)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "CmpE", Op: string(x.Op), OpTyp: ot, Left: l, Right: r}, nil
	case ilast.CaseE:
		args, err := toSExps(x.Args)
		if err != nil {
			return nil, err
		}
		rt, err := toTypNode(x.ResultT)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "CaseE", MixOp: &mixOpNode{Tokens: x.Op.Tokens, Arity: x.Op.Arity}, ResultTyp: rt, Args: args}, nil
	case ilast.ProjE:
		base, err := toSExp(x.Base)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "ProjE", ProjKind: projKindString(x.Kind), Base: base, Atom: x.Atom, Index: x.Index}, nil
	case ilast.LenE:
		list, err := toSExp(x.List)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "LenE", List: list}, nil
	case ilast.MemE:
		elem, list, err := toSExpPair(x.Elem, x.List)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "MemE", Elem: elem, List: list}, nil
	case ilast.ConcatE:
		l, r, err := toSExpPair(x.Left, x.Right)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "ConcatE", Left: l, Right: r}, nil
	case ilast.IterE:
		body, err := toSExp(x.Body)
		if err != nil {
			return nil, err
		}
		binders, err := toIterExps(x.Binders)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "IterE", Body: body, Iter: iterString(x.Iter), Binders: binders}, nil
	case ilast.CallE:
		args, err := toSExps(x.Args)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "CallE", Callee: x.Callee, Args: args}, nil
	case ilast.TupleE:
		elems, err := toSExps(x.Elems)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "TupleE", Elems: elems}, nil
	case ilast.ListE:
		elems, err := toSExps(x.Elems)
		if err != nil {
			return nil, err
		}
		et, err := toTypNode(x.ElemTyp)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "ListE", Elems: elems, ElemTyp: et}, nil
	case ilast.StructE:
		fields := make([]*structFieldNode, len(x.Fields))
		for i, f := range x.Fields {
			v, err := toSExp(f.Val)
			if err != nil {
				return nil, err
			}
			fields[i] = &structFieldNode{Atom: f.Atom, Val: v}
		}
		rt, err := toTypNode(x.ResultT)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "StructE", Fields: fields, ResultTyp: rt}, nil
	case ilast.CaseExpE:
		scrut, err := toSExp(x.Scrutinee)
		if err != nil {
			return nil, err
		}
		arms := make([]*caseArmNode, len(x.Arms))
		for i, a := range x.Arms {
			p, err := toSPattern(a.Pattern)
			if err != nil {
				return nil, err
			}
			b, err := toSExp(a.Body)
			if err != nil {
				return nil, err
			}
			arms[i] = &caseArmNode{Pattern: p, Body: b}
		}
		return &snode{Kind: "CaseExpE", Scrutinee: scrut, Arms: arms}, nil
	default:
		return nil, fmt.Errorf("ilcodec: unknown Exp %T", e)
	}
}

func toSExpPair(a, b ilast.Exp) (*snode, *snode, error) {
	an, err := toSExp(a)
	if err != nil {
		return nil, nil, err
	}
	bn, err := toSExp(b)
	if err != nil {
		return nil, nil, err
	}
	return an, bn, nil
}

func toSExps(es []ilast.Exp) ([]*snode, error) {
	out := make([]*snode, len(es))
	for i, e := range es {
		n, err := toSExp(e)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func projKindString(k ilast.ProjKind) string {
	switch k {
	case ilast.ProjField:
		return "field"
	case ilast.ProjTupleIndex:
		return "tuple_index"
	case ilast.ProjHead:
		return "head"
	case ilast.ProjTail:
		return "tail"
	default:
		return "field"
	}
}

func projKindFromString(s string) ilast.ProjKind {
	switch s {
	case "tuple_index":
		return ilast.ProjTupleIndex
	case "head":
		return ilast.ProjHead
	case "tail":
		return ilast.ProjTail
	default:
		return ilast.ProjField
	}
}

func toIterExps(its []ilast.IterExp) ([]*iterExpNode, error) {
	out := make([]*iterExpNode, len(its))
	for i, it := range its {
		src, err := toSExp(it.Source)
		if err != nil {
			return nil, err
		}
		out[i] = &iterExpNode{Var: it.Var, Source: src, Iter: iterString(it.Iter)}
	}
	return out, nil
}

func fromIterExps(ns []*iterExpNode) ([]ilast.IterExp, error) {
	out := make([]ilast.IterExp, len(ns))
	for i, n := range ns {
		src, err := fromSExp(n.Source)
		if err != nil {
			return nil, err
		}
		out[i] = ilast.IterExp{Var: n.Var, Source: src, Iter: iterFromString(n.Iter)}
	}
	return out, nil
}

func fromSExp(n *snode) (ilast.Exp, error) {
	switch n.Kind {
	case "VarE":
		return ilast.VarE{Name: n.Name}, nil
	case "BoolLitE":
		return ilast.BoolLitE{Val: n.Bool}, nil
	case "NumLitE":
		num, err := toNumFields(n.NumKind, n.NumWidth, n.NumVal)
		if err != nil {
			return nil, err
		}
		return ilast.NumLitE{Val: num}, nil
	case "TextLitE":
		return ilast.TextLitE{Val: n.Text}, nil
	case "UnE":
		arg, err := fromSExp(n.Arg)
		if err != nil {
			return nil, err
		}
		ot, err := fromTypNode(n.OpTyp)
		if err != nil {
			return nil, err
		}
		return ilast.UnE{Op: ilast.UnOp(n.Op), OpTyp: ilast.OpTyp{Typ: ot}, Arg: arg}, nil
	case "BinE":
		l, r, err := fromSExpPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		ot, err := fromTypNode(n.OpTyp)
		if err != nil {
			return nil, err
		}
		return ilast.BinE{Op: ilast.BinOp(n.Op), OpTyp: ilast.OpTyp{Typ: ot}, Left: l, Right: r}, nil
	case "CmpE":
		l, r, err := fromSExpPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		ot, err := fromTypNode(n.OpTyp)
		if err != nil {
			return nil, err
		}
		return ilast.CmpE{Op: ilast.CmpOp(n.Op), OpTyp: ilast.OpTyp{Typ: ot}, Left: l, Right: r}, nil
	case "CaseE":
		args, err := fromSExps(n.Args)
		if err != nil {
			return nil, err
		}
		rt, err := fromTypNode(n.ResultTyp)
		if err != nil {
			return nil, err
		}
		return ilast.CaseE{Op: mixop.New(n.MixOp.Arity, n.MixOp.Tokens...), ResultT: rt, Args: args}, nil
	case "ProjE":
		base, err := fromSExp(n.Base)
		if err != nil {
			return nil, err
		}
		return ilast.ProjE{Kind: projKindFromString(n.ProjKind), Base: base, Atom: n.Atom, Index: n.Index}, nil
	case "LenE":
		list, err := fromSExp(n.List)
		if err != nil {
			return nil, err
		}
		return ilast.LenE{List: list}, nil
	case "MemE":
		elem, list, err := fromSExpPair(n.Elem, n.List)
		if err != nil {
			return nil, err
		}
		return ilast.MemE{Elem: elem, List: list}, nil
	case "ConcatE":
		l, r, err := fromSExpPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		return ilast.ConcatE{Left: l, Right: r}, nil
	case "IterE":
		body, err := fromSExp(n.Body)
		if err != nil {
			return nil, err
		}
		binders, err := fromIterExps(n.Binders)
		if err != nil {
			return nil, err
		}
		return ilast.IterE{Body: body, Iter: iterFromString(n.Iter), Binders: binders}, nil
	case "CallE":
		args, err := fromSExps(n.Args)
		if err != nil {
			return nil, err
		}
		return ilast.CallE{Callee: n.Callee, Args: args}, nil
	case "TupleE":
		elems, err := fromSExps(n.Elems)
		if err != nil {
			return nil, err
		}
		return ilast.TupleE{Elems: elems}, nil
	case "ListE":
		elems, err := fromSExps(n.Elems)
		if err != nil {
			return nil, err
		}
		et, err := fromTypNode(n.ElemTyp)
		if err != nil {
			return nil, err
		}
		return ilast.ListE{Elems: elems, ElemTyp: et}, nil
	case "StructE":
		fields := make([]ilast.StructField, len(n.Fields))
		for i, f := range n.Fields {
			v, err := fromSExp(f.Val)
			if err != nil {
				return nil, err
			}
			fields[i] = ilast.StructField{Atom: f.Atom, Val: v}
		}
		rt, err := fromTypNode(n.ResultTyp)
		if err != nil {
			return nil, err
		}
		return ilast.StructE{Fields: fields, ResultT: rt}, nil
	case "CaseExpE":
		scrut, err := fromSExp(n.Scrutinee)
		if err != nil {
			return nil, err
		}
		arms := make([]ilast.CaseArm, len(n.Arms))
		for i, a := range n.Arms {
			p, err := fromSPattern(a.Pattern)
			if err != nil {
				return nil, err
			}
			b, err := fromSExp(a.Body)
			if err != nil {
				return nil, err
			}
			arms[i] = ilast.CaseArm{Pattern: p, Body: b}
		}
		return ilast.CaseExpE{Scrutinee: scrut, Arms: arms}, nil
	default:
		return nil, fmt.Errorf("ilcodec: unknown Exp kind %q", n.Kind)
	}
}

func fromSExpPair(a, b *snode) (ilast.Exp, ilast.Exp, error) {
	av, err := fromSExp(a)
	if err != nil {
		return nil, nil, err
	}
	bv, err := fromSExp(b)
	if err != nil {
		return nil, nil, err
	}
	return av, bv, nil
}

func fromSExps(ns []*snode) ([]ilast.Exp, error) {
	out := make([]ilast.Exp, len(ns))
	for i, n := range ns {
		e, err := fromSExp(n)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func toNumFields(kind string, width int, val string) (numeric.Num, error) {
	n := &node{NumKind: kind, NumWidth: width, NumVal: val}
	return toNum(n)
}

// --- Instr ---

func toSInstr(i ilast.Instr) (*snode, error) {
	switch x := i.(type) {
	case ilast.IfI:
		cond, err := toSExp(x.Cond)
		if err != nil {
			return nil, err
		}
		binders, err := toIterExps(x.Iters)
		if err != nil {
			return nil, err
		}
		body, err := toSInstrs(x.Body)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "IfI", Cond: cond, Binders: binders, Instrs: body, Phantom: toPhantom(x.Phantom)}, nil
	case ilast.CaseI:
		scrut, err := toSExp(x.Scrutinee)
		if err != nil {
			return nil, err
		}
		cases := make([]*caseNode, len(x.Cases))
		for idx, c := range x.Cases {
			g, err := toSGuard(c.Guard)
			if err != nil {
				return nil, err
			}
			b, err := toSInstrs(c.Body)
			if err != nil {
				return nil, err
			}
			cases[idx] = &caseNode{Guard: g, Body: b}
		}
		return &snode{Kind: "CaseI", Scrutinee: scrut, Cases: cases, Phantom: toPhantom(x.Phantom)}, nil
	case ilast.OtherwiseI:
		inner, err := toSInstrs(x.Inner)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "OtherwiseI", Instrs: inner}, nil
	case ilast.LetI:
		lhs, rhs, err := toSExpPair(x.Lhs, x.Rhs)
		if err != nil {
			return nil, err
		}
		binders, err := toIterExps(x.Iters)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "LetI", Lhs: lhs, Rhs: rhs, Binders: binders}, nil
	case ilast.RuleI:
		args, err := toSExps(x.Not.Args)
		if err != nil {
			return nil, err
		}
		binders, err := toIterExps(x.Iters)
		if err != nil {
			return nil, err
		}
		return &snode{
			Kind: "RuleI", RelId: x.RelId,
			Not:     &notExpNode{Negated: x.Not.Negated, Rel: x.Not.Rel, Args: args},
			Binders: binders,
		}, nil
	case ilast.ResultI:
		exps, err := toSExps(x.Exps)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "ResultI", Exps: exps}, nil
	case ilast.ReturnI:
		e, err := toSExp(x.Exp)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "ReturnI", Exp: e}, nil
	default:
		return nil, fmt.Errorf("ilcodec: unknown Instr %T", i)
	}
}

func toSInstrs(is []ilast.Instr) ([]*snode, error) {
	out := make([]*snode, len(is))
	for i, in := range is {
		n, err := toSInstr(in)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func toPhantom(p *ilast.Phantom) *phantomNode {
	if p == nil {
		return nil
	}
	conds := make([]*snode, len(p.Conds))
	for i, c := range p.Conds {
		n, err := toSPathCond(c)
		if err != nil {
			continue
		}
		conds[i] = n
	}
	return &phantomNode{Pid: string(p.Pid), Conds: conds}
}

func fromPhantom(n *phantomNode) (*ilast.Phantom, error) {
	if n == nil {
		return nil, nil
	}
	conds := make([]ilast.PathCond, len(n.Conds))
	for i, c := range n.Conds {
		pc, err := fromSPathCond(c)
		if err != nil {
			return nil, err
		}
		conds[i] = pc
	}
	return &ilast.Phantom{Pid: ilast.Pid(n.Pid), Conds: conds}, nil
}

func fromSInstr(n *snode) (ilast.Instr, error) {
	switch n.Kind {
	case "IfI":
		cond, err := fromSExp(n.Cond)
		if err != nil {
			return nil, err
		}
		binders, err := fromIterExps(n.Binders)
		if err != nil {
			return nil, err
		}
		body, err := fromSInstrs(n.Instrs)
		if err != nil {
			return nil, err
		}
		ph, err := fromPhantom(n.Phantom)
		if err != nil {
			return nil, err
		}
		return ilast.IfI{Cond: cond, Iters: binders, Body: body, Phantom: ph}, nil
	case "CaseI":
		scrut, err := fromSExp(n.Scrutinee)
		if err != nil {
			return nil, err
		}
		cases := make([]ilast.Case, len(n.Cases))
		for i, c := range n.Cases {
			g, err := fromSGuard(c.Guard)
			if err != nil {
				return nil, err
			}
			b, err := fromSInstrs(c.Body)
			if err != nil {
				return nil, err
			}
			cases[i] = ilast.Case{Guard: g, Body: b}
		}
		ph, err := fromPhantom(n.Phantom)
		if err != nil {
			return nil, err
		}
		return ilast.CaseI{Scrutinee: scrut, Cases: cases, Phantom: ph}, nil
	case "OtherwiseI":
		inner, err := fromSInstrs(n.Instrs)
		if err != nil {
			return nil, err
		}
		return ilast.OtherwiseI{Inner: inner}, nil
	case "LetI":
		lhs, rhs, err := fromSExpPair(n.Lhs, n.Rhs)
		if err != nil {
			return nil, err
		}
		binders, err := fromIterExps(n.Binders)
		if err != nil {
			return nil, err
		}
		return ilast.LetI{Lhs: lhs, Rhs: rhs, Iters: binders}, nil
	case "RuleI":
		args, err := fromSExps(n.Not.Args)
		if err != nil {
			return nil, err
		}
		binders, err := fromIterExps(n.Binders)
		if err != nil {
			return nil, err
		}
		return ilast.RuleI{
			RelId: n.RelId,
			Not:   ilast.NotExp{Negated: n.Not.Negated, Rel: n.Not.Rel, Args: args},
			Iters: binders,
		}, nil
	case "ResultI":
		exps, err := fromSExps(n.Exps)
		if err != nil {
			return nil, err
		}
		return ilast.ResultI{Exps: exps}, nil
	case "ReturnI":
		e, err := fromSExp(n.Exp)
		if err != nil {
			return nil, err
		}
		return ilast.ReturnI{Exp: e}, nil
	default:
		return nil, fmt.Errorf("ilcodec: unknown Instr kind %q", n.Kind)
	}
}

func fromSInstrs(ns []*snode) ([]ilast.Instr, error) {
	out := make([]ilast.Instr, len(ns))
	for i, n := range ns {
		in, err := fromSInstr(n)
		if err != nil {
			return nil, err
		}
		out[i] = in
	}
	return out, nil
}

// --- Guard ---

func toSGuard(g ilast.Guard) (*snode, error) {
	switch x := g.(type) {
	case ilast.BoolG:
		return &snode{Kind: "BoolG", Bool: x.Val}, nil
	case ilast.CmpG:
		e, err := toSExp(x.Exp)
		if err != nil {
			return nil, err
		}
		ot, err := toTypNode(x.OpTyp.Typ)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "CmpG", Op: string(x.Op), OpTyp: ot, Exp: e}, nil
	case ilast.SubG:
		t, err := toTypNode(x.Typ)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "SubG", Typ: t}, nil
	case ilast.MatchG:
		p, err := toSPattern(x.Pattern)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "MatchG", Pattern: p}, nil
	case ilast.MemG:
		e, err := toSExp(x.Exp)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "MemG", Exp: e}, nil
	default:
		return nil, fmt.Errorf("ilcodec: unknown Guard %T", g)
	}
}

func fromSGuard(n *snode) (ilast.Guard, error) {
	switch n.Kind {
	case "BoolG":
		return ilast.BoolG{Val: n.Bool}, nil
	case "CmpG":
		e, err := fromSExp(n.Exp)
		if err != nil {
			return nil, err
		}
		ot, err := fromTypNode(n.OpTyp)
		if err != nil {
			return nil, err
		}
		return ilast.CmpG{Op: ilast.CmpOp(n.Op), OpTyp: ilast.OpTyp{Typ: ot}, Exp: e}, nil
	case "SubG":
		t, err := fromTypNode(n.Typ)
		if err != nil {
			return nil, err
		}
		return ilast.SubG{Typ: t}, nil
	case "MatchG":
		p, err := fromSPattern(n.Pattern)
		if err != nil {
			return nil, err
		}
		return ilast.MatchG{Pattern: p}, nil
	case "MemG":
		e, err := fromSExp(n.Exp)
		if err != nil {
			return nil, err
		}
		return ilast.MemG{Exp: e}, nil
	default:
		return nil, fmt.Errorf("ilcodec: unknown Guard kind %q", n.Kind)
	}
}

// --- Pattern ---

func toSPattern(p ilast.Pattern) (*snode, error) {
	switch x := p.(type) {
	case ilast.WildcardP:
		return &snode{Kind: "WildcardP"}, nil
	case ilast.VarP:
		return &snode{Kind: "VarP", Name: x.Name}, nil
	case ilast.LitP:
		v, err := toSExp(x.Val)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "LitP", Val: v}, nil
	case ilast.CaseP:
		args := make([]*snode, len(x.Args))
		for i, a := range x.Args {
			n, err := toSPattern(a)
			if err != nil {
				return nil, err
			}
			args[i] = n
		}
		return &snode{Kind: "CaseP", MixOp: &mixOpNode{Tokens: x.Op.Tokens, Arity: x.Op.Arity}, Args: args}, nil
	case ilast.ListP:
		prefix, err := toSPatterns(x.Prefix)
		if err != nil {
			return nil, err
		}
		suffix, err := toSPatterns(x.Suffix)
		if err != nil {
			return nil, err
		}
		var rest *snode
		if x.Rest != nil {
			rest = &snode{Kind: "VarP", Name: x.Rest.Name}
		}
		return &snode{Kind: "ListP", Prefix: prefix, Rest: rest, Suffix: suffix}, nil
	case ilast.TupleP:
		elems, err := toSPatterns(x.Elems)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "TupleP", Elems: elems}, nil
	default:
		return nil, fmt.Errorf("ilcodec: unknown Pattern %T", p)
	}
}

func toSPatterns(ps []ilast.Pattern) ([]*snode, error) {
	out := make([]*snode, len(ps))
	for i, p := range ps {
		n, err := toSPattern(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func fromSPattern(n *snode) (ilast.Pattern, error) {
	switch n.Kind {
	case "WildcardP":
		return ilast.WildcardP{}, nil
	case "VarP":
		return ilast.VarP{Name: n.Name}, nil
	case "LitP":
		v, err := fromSExp(n.Val)
		if err != nil {
			return nil, err
		}
		return ilast.LitP{Val: v}, nil
	case "CaseP":
		args := make([]ilast.Pattern, len(n.Args))
		for i, a := range n.Args {
			p, err := fromSPattern(a)
			if err != nil {
				return nil, err
			}
			args[i] = p
		}
		return ilast.CaseP{Op: mixop.New(n.MixOp.Arity, n.MixOp.Tokens...), Args: args}, nil
	case "ListP":
		prefix, err := fromSPatterns(n.Prefix)
		if err != nil {
			return nil, err
		}
		suffix, err := fromSPatterns(n.Suffix)
		if err != nil {
			return nil, err
		}
		var rest *ilast.VarP
		if n.Rest != nil {
			rest = &ilast.VarP{Name: n.Rest.Name}
		}
		return ilast.ListP{Prefix: prefix, Rest: rest, Suffix: suffix}, nil
	case "TupleP":
		elems, err := fromSPatterns(n.Elems)
		if err != nil {
			return nil, err
		}
		return ilast.TupleP{Elems: elems}, nil
	default:
		return nil, fmt.Errorf("ilcodec: unknown Pattern kind %q", n.Kind)
	}
}

func fromSPatterns(ns []*snode) ([]ilast.Pattern, error) {
	out := make([]ilast.Pattern, len(ns))
	for i, n := range ns {
		p, err := fromSPattern(n)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// --- PathCond ---

func toSPathCond(c ilast.PathCond) (*snode, error) {
	switch x := c.(type) {
	case ilast.ForallC:
		e, err := toSExp(x.Exp)
		if err != nil {
			return nil, err
		}
		binders, err := toIterExps(x.Binders)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "ForallC", Exp: e, Binders: binders}, nil
	case ilast.ExistsC:
		e, err := toSExp(x.Exp)
		if err != nil {
			return nil, err
		}
		binders, err := toIterExps(x.Binders)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "ExistsC", Exp: e, Binders: binders}, nil
	case ilast.PlainC:
		e, err := toSExp(x.Exp)
		if err != nil {
			return nil, err
		}
		return &snode{Kind: "PlainC", Exp: e}, nil
	default:
		return nil, fmt.Errorf("ilcodec: unknown PathCond %T", c)
	}
}

func fromSPathCond(n *snode) (ilast.PathCond, error) {
	switch n.Kind {
	case "ForallC":
		e, err := fromSExp(n.Exp)
		if err != nil {
			return nil, err
		}
		binders, err := fromIterExps(n.Binders)
		if err != nil {
			return nil, err
		}
		return ilast.ForallC{Exp: e, Binders: binders}, nil
	case "ExistsC":
		e, err := fromSExp(n.Exp)
		if err != nil {
			return nil, err
		}
		binders, err := fromIterExps(n.Binders)
		if err != nil {
			return nil, err
		}
		return ilast.ExistsC{Exp: e, Binders: binders}, nil
	case "PlainC":
		e, err := fromSExp(n.Exp)
		if err != nil {
			return nil, err
		}
		return ilast.PlainC{Exp: e}, nil
	default:
		return nil, fmt.Errorf("ilcodec: unknown PathCond kind %q", n.Kind)
	}
}
