package interp_test

import (
	"testing"

	"github.com/kr/pretty"
	"golang.org/x/tools/txtar"

	"github.com/p4lang/p4spectec-core/internal/engine"
	"github.com/p4lang/p4spectec-core/internal/ilcodec"
	"github.com/p4lang/p4spectec-core/internal/interp"
	"github.com/p4lang/p4spectec-core/internal/value"
)

// archiveFile returns the named section's bytes or fails the test.
func archiveFile(t *testing.T, a *txtar.Archive, name string) []byte {
	t.Helper()
	for _, f := range a.Files {
		if f.Name == name {
			return f.Data
		}
	}
	t.Fatalf("testdata archive missing section %q", name)
	return nil
}

// TestGoldenIsEven drives internal/interp against a bundled IL program,
// input value, and expected result — one .txtar file per fixture,
// generalizing the corpus's bundled-fixture fuzz-test style to golden
// interpreter fixtures.
func TestGoldenIsEven(t *testing.T) {
	a, err := txtar.ParseFile("testdata/is_even.txtar")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	spec, err := ilcodec.UnmarshalSpec(archiveFile(t, a, "il.json"))
	if err != nil {
		t.Fatalf("UnmarshalSpec: %v", err)
	}
	rel, ok := spec.LookupRel("is-even")
	if !ok {
		t.Fatal("is-even: not found in fixture")
	}

	ctx := engine.New(spec, engine.Limits{})
	input, err := ilcodec.Unmarshal(ctx, archiveFile(t, a, "input.json"))
	if err != nil {
		t.Fatalf("Unmarshal input: %v", err)
	}
	want, err := ilcodec.Unmarshal(ctx, archiveFile(t, a, "want.json"))
	if err != nil {
		t.Fatalf("Unmarshal want: %v", err)
	}

	ctx.Bind(rel.Inputs[0].Name, rel.Inputs[0].Typ, input)
	out, err := interp.Exec(ctx, rel.Instrs)
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if out.Kind != interp.Completed || len(out.Results) != 1 {
		t.Fatalf("is-even(4) fell through, want a single result")
	}

	got := out.Results[0]
	if !value.Equal(got, want) {
		t.Errorf("is-even(4) mismatch: %v", pretty.Diff(got, want))
	}
	if len(ctx.Phantoms()) != 0 {
		t.Errorf("is-even(4) should log no phantom (the even branch was taken), got %d", len(ctx.Phantoms()))
	}
}
