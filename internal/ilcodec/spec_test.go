package ilcodec

import (
	"testing"

	"github.com/p4lang/p4spectec-core/internal/ilast"
	"github.com/p4lang/p4spectec-core/internal/mixop"
	"github.com/p4lang/p4spectec-core/internal/numeric"
	"github.com/p4lang/p4spectec-core/internal/typ"
)

// a tiny two-definition program: a function doubling a nat, and a
// relation that succeeds iff its input is even.
func sampleSpec() *ilast.Spec {
	double := ilast.DecD{
		Name:       "double",
		Params:     []ilast.Param{{Name: "x", Typ: typ.NumT{Kind: typ.NumKind{Name: "nat"}}}},
		ReturnType: typ.NumT{Kind: typ.NumKind{Name: "nat"}},
		Instrs: []ilast.Instr{
			ilast.ReturnI{Exp: ilast.BinE{
				Op:    ilast.BinAdd,
				OpTyp: ilast.OpTyp{Typ: typ.NumT{Kind: typ.NumKind{Name: "nat"}}},
				Left:  ilast.VarE{Name: "x"},
				Right: ilast.VarE{Name: "x"},
			}},
		},
	}
	isEven := ilast.RelD{
		Name:     "is-even",
		Op:       mixop.New(1, "is-even(", ")"),
		InputIdx: []int{0},
		Inputs:   []ilast.Param{{Name: "n", Typ: typ.NumT{Kind: typ.NumKind{Name: "nat"}}}},
		Instrs: []ilast.Instr{
			ilast.IfI{
				Cond: ilast.CmpE{
					Op:    ilast.CmpEq,
					OpTyp: ilast.OpTyp{Typ: typ.NumT{Kind: typ.NumKind{Name: "nat"}}},
					Left:  ilast.BinE{Op: ilast.BinMod, OpTyp: ilast.OpTyp{Typ: typ.NumT{Kind: typ.NumKind{Name: "nat"}}}, Left: ilast.VarE{Name: "n"}, Right: ilast.NumLitE{Val: numeric.NewNatInt64(2)}},
					Right: ilast.NumLitE{Val: numeric.NewNatInt64(0)},
				},
				Body: []ilast.Instr{ilast.ResultI{Exps: []ilast.Exp{ilast.BoolLitE{Val: true}}}},
				Phantom: &ilast.Phantom{
					Pid:   ilast.Pid("is-even.odd"),
					Conds: []ilast.PathCond{ilast.PlainC{Exp: ilast.BoolLitE{Val: false}}},
				},
			},
		},
	}
	return &ilast.Spec{Defs: []ilast.Def{double, isEven}}
}

func TestMarshalUnmarshalSpecRoundTrip(t *testing.T) {
	spec := sampleSpec()
	data, err := MarshalSpec(spec)
	if err != nil {
		t.Fatalf("MarshalSpec: %v", err)
	}

	got, err := UnmarshalSpec(data)
	if err != nil {
		t.Fatalf("UnmarshalSpec: %v", err)
	}
	if len(got.Defs) != 2 {
		t.Fatalf("Defs = %d, want 2", len(got.Defs))
	}

	dec, ok := got.LookupDec("double")
	if !ok {
		t.Fatal("double: not found after round trip")
	}
	if len(dec.Params) != 1 || dec.Params[0].Name != "x" {
		t.Fatalf("double.Params = %+v", dec.Params)
	}
	ret, ok := dec.Instrs[0].(ilast.ReturnI)
	if !ok {
		t.Fatalf("double.Instrs[0] = %T, want ReturnI", dec.Instrs[0])
	}
	bin, ok := ret.Exp.(ilast.BinE)
	if !ok || bin.Op != ilast.BinAdd {
		t.Fatalf("double's return expression = %+v", ret.Exp)
	}

	rel, ok := got.LookupRel("is-even")
	if !ok {
		t.Fatal("is-even: not found after round trip")
	}
	if !rel.IsInput(0) {
		t.Fatal("is-even: input position 0 should be an input per InputIdx")
	}
	ifi, ok := rel.Instrs[0].(ilast.IfI)
	if !ok {
		t.Fatalf("is-even.Instrs[0] = %T, want IfI", rel.Instrs[0])
	}
	if ifi.Phantom == nil || ifi.Phantom.Pid != ilast.Pid("is-even.odd") {
		t.Fatalf("is-even's phantom = %+v", ifi.Phantom)
	}
	if len(ifi.Phantom.Conds) != 1 {
		t.Fatalf("is-even's phantom conds = %d, want 1", len(ifi.Phantom.Conds))
	}
}

func TestUnmarshalSpecRejectsWrongTopLevelKind(t *testing.T) {
	if _, err := UnmarshalSpec([]byte(`{"kind":"bool"}`)); err == nil {
		t.Fatal("expected an error for a non-Spec top-level kind")
	}
}
