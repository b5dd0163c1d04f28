package engine

import (
	"testing"
	"time"

	"github.com/p4lang/p4spectec-core/internal/errs"
	"github.com/p4lang/p4spectec-core/internal/ilast"
	"github.com/p4lang/p4spectec-core/internal/numeric"
	"github.com/p4lang/p4spectec-core/internal/value"
)

func TestScopeDisciplineAfterError(t *testing.T) {
	c := New(&ilast.Spec{}, Limits{})
	start := c.ScopeDepth()

	func() {
		c.EnterScope()
		defer c.LeaveScope()
		c.Bind("x", nil, nil)
		// simulate an inner computation failing
		_, _, err := c.LookupVar(ilast.WildcardP{}.GetRegion(), "does-not-exist")
		if err == nil {
			t.Fatalf("expected Unbound error")
		}
	}()

	if got := c.ScopeDepth(); got != start {
		t.Fatalf("scope depth after error = %d, want %d (Testable Property 4)", got, start)
	}
}

func TestUnboundLookup(t *testing.T) {
	c := New(&ilast.Spec{}, Limits{})
	_, _, err := c.LookupVar(ilast.WildcardP{}.GetRegion(), "y")
	if _, ok := err.(*errs.Unbound); !ok {
		t.Fatalf("expected *errs.Unbound, got %T", err)
	}
}

func TestRecursionDepthBound(t *testing.T) {
	c := New(&ilast.Spec{}, Limits{MaxDepth: 3})
	for i := 0; i < 3; i++ {
		if err := c.EnterCall(ilast.WildcardP{}.GetRegion()); err != nil {
			t.Fatalf("unexpected error at depth %d: %v", i, err)
		}
	}
	err := c.EnterCall(ilast.WildcardP{}.GetRegion())
	if _, ok := err.(*errs.StackOverflow); !ok {
		t.Fatalf("expected *errs.StackOverflow, got %v", err)
	}
}

func TestDeadlineExceeded(t *testing.T) {
	c := New(&ilast.Spec{}, Limits{Deadline: time.Now().Add(-time.Second)})
	err := c.CheckDeadline(ilast.WildcardP{}.GetRegion())
	if _, ok := err.(*errs.Deadline); !ok {
		t.Fatalf("expected *errs.Deadline, got %v", err)
	}
}

func TestValueGraphAcyclicity(t *testing.T) {
	c := New(&ilast.Spec{}, Limits{})
	a := value.NewNum(c, numeric.NewNatInt64(1))
	b := value.NewNum(c, numeric.NewNatInt64(2))
	sum := value.NewNum(c, numeric.NewNatInt64(3))
	c.RecordDependency(sum.Note().VID, a.Note().VID, b.Note().VID)

	if !c.Tracker().IsAcyclic() {
		t.Fatalf("expected acyclic dependency graph")
	}
}

func TestPhantomLogRecordsContextPath(t *testing.T) {
	c := New(&ilast.Spec{}, Limits{})
	guard := ilast.PlainC{Exp: ilast.BoolLitE{Val: true}}
	c.PushGuard(guard)
	local := ilast.PlainC{Exp: ilast.BoolLitE{Val: false}}
	c.RecordPhantom(ilast.Pid("p1"), []ilast.PathCond{local})
	c.PopGuard()

	entries := c.Phantoms()
	if len(entries) != 1 || entries[0].Pid != "p1" {
		t.Fatalf("expected one phantom entry with pid p1, got %+v", entries)
	}
	if len(entries[0].Path) != 2 {
		t.Fatalf("expected context path of enclosing guard + local conds, length 2, got %d", len(entries[0].Path))
	}
}
