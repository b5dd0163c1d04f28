package errs

import (
	"strings"
	"testing"

	"github.com/p4lang/p4spectec-core/internal/region"
)

func TestDiagnosticFormat(t *testing.T) {
	r := region.Region{File: "foo.il", Start: region.Pos{Line: 3, Column: 5}, End: region.Pos{Line: 3, Column: 5}}
	err := &DivByZero{Region: r}
	got := Diagnostic(err)
	want := "foo.il:3:5: DivByZero: division by zero"
	if got != want {
		t.Fatalf("Diagnostic() = %q, want %q", got, want)
	}
}

func TestKindNames(t *testing.T) {
	cases := []struct {
		err  error
		kind string
	}{
		{&Unbound{Name: "x"}, "Unbound"},
		{&RelFailed{RelId: "typing"}, "RelFailed"},
		{&BuiltinError{Msg: "min of empty list"}, "BuiltinError"},
	}
	for _, c := range cases {
		if got := Kind(c.err); got != c.kind {
			t.Errorf("Kind(%v) = %s, want %s", c.err, got, c.kind)
		}
	}
}

func TestBuiltinErrorMinOfEmptyList(t *testing.T) {
	err := &BuiltinError{Msg: "min of empty list"}
	if !strings.Contains(Diagnostic(err), "min of empty list") {
		t.Fatalf("diagnostic missing message: %s", Diagnostic(err))
	}
}
