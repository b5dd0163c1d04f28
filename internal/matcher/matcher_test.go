package matcher

import (
	"testing"

	"github.com/p4lang/p4spectec-core/internal/ilast"
	"github.com/p4lang/p4spectec-core/internal/mixop"
	"github.com/p4lang/p4spectec-core/internal/numeric"
	"github.com/p4lang/p4spectec-core/internal/typ"
	"github.com/p4lang/p4spectec-core/internal/value"
)

type fac struct{ next value.VID }

func (f *fac) FreshVID() value.VID { f.next++; return f.next }
func (f *fac) Register(value.Value) {}

func TestListPrefixRestSuffix(t *testing.T) {
	f := &fac{}
	l := value.NewList(f, typ.NumT{Kind: typ.Nat()}, []value.Value{
		value.NewNum(f, numeric.NewNatInt64(1)),
		value.NewNum(f, numeric.NewNatInt64(2)),
		value.NewNum(f, numeric.NewNatInt64(3)),
		value.NewNum(f, numeric.NewNatInt64(4)),
	})
	pat := ilast.ListP{
		Prefix: []ilast.Pattern{ilast.VarP{Name: "head"}},
		Rest:   &ilast.VarP{Name: "mid"},
		Suffix: []ilast.Pattern{ilast.VarP{Name: "tail"}},
	}
	bindings, ok := Match(f, pat, l)
	if !ok {
		t.Fatalf("expected match")
	}
	mid, err := value.AsList(bindings["mid"])
	if err != nil {
		t.Fatalf("mid binding should be a list: %v", err)
	}
	if len(mid) != 2 {
		t.Fatalf("expected 2 middle elements, got %d", len(mid))
	}
}

func TestListPrefixSuffixTooShortFails(t *testing.T) {
	f := &fac{}
	l := value.NewList(f, typ.BoolT{}, []value.Value{value.NewBool(f, true)})
	pat := ilast.ListP{
		Prefix: []ilast.Pattern{ilast.VarP{Name: "a"}, ilast.VarP{Name: "b"}},
	}
	if _, ok := Match(f, pat, l); ok {
		t.Fatalf("expected no match: list too short")
	}
}

func TestCasePMismatchedOp(t *testing.T) {
	f := &fac{}
	some := mixop.New(1, "some")
	none := mixop.New(0, "none")
	c := value.NewCase(f, typ.VarT{Name: "Option"}, some, []value.Value{value.NewBool(f, true)})
	pat := ilast.CaseP{Op: none}
	if _, ok := Match(f, pat, c); ok {
		t.Fatalf("expected no match: different mixop")
	}
}

func TestWildcardAlwaysMatches(t *testing.T) {
	f := &fac{}
	v := value.NewBool(f, false)
	bindings, ok := Match(f, ilast.WildcardP{}, v)
	if !ok || len(bindings) != 0 {
		t.Fatalf("wildcard should match with no bindings")
	}
}
