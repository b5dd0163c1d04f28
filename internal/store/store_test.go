package store

import (
	"path/filepath"
	"testing"

	"github.com/p4lang/p4spectec-core/internal/ilast"
	"github.com/p4lang/p4spectec-core/internal/trace"
	"github.com/p4lang/p4spectec-core/internal/value"
)

func TestRecordRunSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phantoms.db")

	tracker := trace.New()
	tracker.RegisterValue(1)
	tracker.RegisterValue(2)
	tracker.RecordDependency(2, 1)
	tracker.RecordPhantom(ilast.Pid("branch.else"), []ilast.PathCond{
		ilast.PlainC{Exp: nil},
	})

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.RecordRun("run-1", tracker); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	n, err := reopened.PhantomCount(ilast.Pid("branch.else"))
	if err != nil {
		t.Fatalf("PhantomCount: %v", err)
	}
	if n != 1 {
		t.Fatalf("PhantomCount = %d, want 1", n)
	}

	deps, err := reopened.Dependencies(value.VID(2))
	if err != nil {
		t.Fatalf("Dependencies: %v", err)
	}
	if len(deps) != 1 || deps[0] != value.VID(1) {
		t.Fatalf("Dependencies(2) = %v, want [1]", deps)
	}
}

func TestRecordRunAccumulatesAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phantoms.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	for _, runID := range []string{"run-a", "run-b"} {
		tracker := trace.New()
		tracker.RecordPhantom(ilast.Pid("branch.x"), nil)
		if err := s.RecordRun(runID, tracker); err != nil {
			t.Fatalf("RecordRun(%s): %v", runID, err)
		}
	}

	n, err := s.PhantomCount(ilast.Pid("branch.x"))
	if err != nil {
		t.Fatalf("PhantomCount: %v", err)
	}
	if n != 2 {
		t.Fatalf("PhantomCount = %d, want 2 (accumulated across runs)", n)
	}
}
