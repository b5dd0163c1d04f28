package value

import (
	"testing"

	"github.com/p4lang/p4spectec-core/internal/numeric"
	"github.com/p4lang/p4spectec-core/internal/typ"
)

// testFactory is a minimal Factory for exercising constructors in
// isolation, without pulling in internal/engine.
type testFactory struct {
	next    VID
	entries []Value
}

func (f *testFactory) FreshVID() VID {
	f.next++
	return f.next
}

func (f *testFactory) Register(v Value) {
	f.entries = append(f.entries, v)
}

func TestEqualIgnoresVID(t *testing.T) {
	f := &testFactory{}
	a := NewNum(f, numeric.NewNatInt64(3))
	b := NewNum(f, numeric.NewNatInt64(3))
	if a.Note().VID == b.Note().VID {
		t.Fatalf("expected distinct vids, got %d == %d", a.Note().VID, b.Note().VID)
	}
	if !Equal(a, b) {
		t.Fatalf("values with equal payload but distinct vid should be Equal")
	}
}

func TestEqualListsWithSamePayload(t *testing.T) {
	f := &testFactory{}
	l1 := NewList(f, typ.NumT{Kind: typ.Nat()}, []Value{
		NewNum(f, numeric.NewNatInt64(1)),
		NewNum(f, numeric.NewNatInt64(2)),
	})
	l2 := NewList(f, typ.NumT{Kind: typ.Nat()}, []Value{
		NewNum(f, numeric.NewNatInt64(1)),
		NewNum(f, numeric.NewNatInt64(2)),
	})
	if !Equal(l1, l2) {
		t.Fatalf("expected equal lists")
	}
}

func TestAccessorsKindMismatch(t *testing.T) {
	f := &testFactory{}
	b := NewBool(f, true)
	if _, err := AsNum(b); err == nil {
		t.Fatalf("expected KindMismatch, got nil")
	} else if _, ok := err.(*KindMismatch); !ok {
		t.Fatalf("expected *KindMismatch, got %T", err)
	}
}

func TestOptNoneIsNotSome(t *testing.T) {
	f := &testFactory{}
	none := NewOpt(f, typ.BoolT{}, nil)
	some := NewOpt(f, typ.BoolT{}, NewBool(f, true))
	if Equal(none, some) {
		t.Fatalf("None must not equal Some(true)")
	}
	_, ok, err := AsOpt(none)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected None, got Some")
	}
}
