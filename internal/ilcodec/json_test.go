package ilcodec

import (
	"math/big"
	"testing"

	"github.com/p4lang/p4spectec-core/internal/engine"
	"github.com/p4lang/p4spectec-core/internal/ilast"
	"github.com/p4lang/p4spectec-core/internal/mixop"
	"github.com/p4lang/p4spectec-core/internal/numeric"
	"github.com/p4lang/p4spectec-core/internal/typ"
	"github.com/p4lang/p4spectec-core/internal/value"
)

func newCtx() *engine.Context {
	return engine.New(&ilast.Spec{}, engine.Limits{})
}

func TestMarshalUnmarshalScalars(t *testing.T) {
	ctx := newCtx()
	cases := []value.Value{
		value.NewBool(ctx, true),
		value.NewNum(ctx, numeric.NewNatInt64(42)),
		value.NewNum(ctx, numeric.NewBV(8, big.NewInt(255))),
		value.NewText(ctx, "hello"),
	}
	for _, v := range cases {
		data, err := Marshal(v)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", v.Inspect(), err)
		}
		got, err := Unmarshal(newCtx(), data)
		if err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if !value.Equal(v, got) {
			t.Fatalf("round trip mismatch: got %s, want %s", got.Inspect(), v.Inspect())
		}
	}
}

func TestMarshalUnmarshalContainers(t *testing.T) {
	ctx := newCtx()
	list := value.NewList(ctx, typ.NumT{Kind: typ.Nat()}, []value.Value{
		value.NewNum(ctx, numeric.NewNatInt64(1)),
		value.NewNum(ctx, numeric.NewNatInt64(2)),
	})
	tup := value.NewTuple(ctx, []value.Value{value.NewBool(ctx, false), value.NewText(ctx, "x")})
	opt := value.NewOpt(ctx, typ.TextT{}, value.NewText(ctx, "present"))
	none := value.NewOpt(ctx, typ.TextT{}, nil)
	cse := value.NewCase(ctx, typ.VarT{Name: "expr"}, mixop.New(2, "if", "then", "else"),
		[]value.Value{value.NewBool(ctx, true), value.NewNum(ctx, numeric.NewNatInt64(3))})
	st := value.NewStruct(ctx, typ.VarT{Name: "pair"}, map[string]value.Value{
		"fst": value.NewNum(ctx, numeric.NewNatInt64(1)),
		"snd": value.NewNum(ctx, numeric.NewNatInt64(2)),
	}, []string{"fst", "snd"})
	fn := value.NewFunc(ctx, typ.VarT{Name: "rel"}, "eval_expr")

	for _, v := range []value.Value{list, tup, opt, none, cse, st, fn} {
		data, err := Marshal(v)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		got, err := Unmarshal(newCtx(), data)
		if err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if !value.Equal(v, got) {
			t.Fatalf("round trip mismatch: got %s, want %s", got.Inspect(), v.Inspect())
		}
	}
}

func TestCheckRoundTripConformance(t *testing.T) {
	ctx := newCtx()
	v := value.NewCase(ctx, typ.VarT{Name: "expr"}, mixop.New(2, "add"),
		[]value.Value{value.NewNum(ctx, numeric.NewNatInt64(1)), value.NewNum(ctx, numeric.NewNatInt64(2))})
	if err := CheckRoundTrip(v); err != nil {
		t.Fatalf("CheckRoundTrip: %v", err)
	}
}

func TestToStructpbStruct(t *testing.T) {
	ctx := newCtx()
	st := value.NewStruct(ctx, typ.VarT{Name: "pair"}, map[string]value.Value{
		"fst": value.NewBool(ctx, true),
	}, []string{"fst"})
	sv, err := ToStructpb(st)
	if err != nil {
		t.Fatalf("ToStructpb: %v", err)
	}
	fields := sv.GetStructValue().GetFields()
	if fields["fst"].GetBoolValue() != true {
		t.Fatalf("expected fst=true, got %v", fields["fst"])
	}
}
