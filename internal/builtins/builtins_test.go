package builtins

import (
	"testing"

	"github.com/p4lang/p4spectec-core/internal/errs"
	"github.com/p4lang/p4spectec-core/internal/numeric"
	"github.com/p4lang/p4spectec-core/internal/region"
	"github.com/p4lang/p4spectec-core/internal/value"
)

type fac struct{ next value.VID }

func (f *fac) FreshVID() value.VID  { f.next++; return f.next }
func (f *fac) Register(value.Value) {}

func TestSum(t *testing.T) {
	f := &fac{}
	result, err := Registry["$sum"](f, region.Region{}, []numeric.Num{
		numeric.NewNatInt64(1), numeric.NewNatInt64(2), numeric.NewNatInt64(3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, _ := value.AsNum(result)
	if got, _ := n.Val.Int64(); got != 6 {
		t.Fatalf("$sum([1,2,3]) = %d, want 6", got)
	}
}

func TestMinOfEmptyList(t *testing.T) {
	f := &fac{}
	_, err := Registry["$min"](f, region.Region{}, nil)
	be, ok := err.(*errs.BuiltinError)
	if !ok {
		t.Fatalf("expected *errs.BuiltinError, got %T", err)
	}
	if be.Msg != "min of empty list" {
		t.Fatalf("message = %q, want %q", be.Msg, "min of empty list")
	}
}

func TestMaxPicksLargest(t *testing.T) {
	f := &fac{}
	result, err := Registry["$max"](f, region.Region{}, []numeric.Num{
		numeric.NewNatInt64(4), numeric.NewNatInt64(9), numeric.NewNatInt64(2),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, _ := value.AsNum(result)
	if got, _ := n.Val.Int64(); got != 9 {
		t.Fatalf("$max = %d, want 9", got)
	}
}
