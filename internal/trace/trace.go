// Package trace implements the path-condition / dependency tracker
// (§4.F): the phantom log and the value dependency graph. Both concerns
// are append-only for the lifetime of one evaluation and are never
// rolled back on error (§7, §9 "Phantoms are observational").
package trace

import (
	"github.com/p4lang/p4spectec-core/internal/ilast"
	"github.com/p4lang/p4spectec-core/internal/value"
)

// PhantomEntry is one recorded "branch not taken" (§3 Phantom, §4.F).
// Path holds the conjunction of enclosing guards encountered up to the
// point the phantom was recorded — the "context path" of §4.F.
type PhantomEntry struct {
	Pid  ilast.Pid
	Path []ilast.PathCond
}

// Tracker accumulates both halves of component F for a single
// evaluation. It is owned exclusively by one *engine.Context (§5: "each
// owns its ... phantom log"), so it needs no internal locking.
type Tracker struct {
	phantoms []PhantomEntry
	// edges maps a produced value's vid to the vids it was derived from.
	edges map[value.VID][]value.VID
	// registered records every vid ever seen, to support the acyclicity
	// check (Testable Property 3: "every value's predecessors were
	// registered earlier").
	registered map[value.VID]int // vid -> registration order
	seq        int
}

func New() *Tracker {
	return &Tracker{
		edges:      make(map[value.VID][]value.VID),
		registered: make(map[value.VID]int),
	}
}

// RecordPhantom appends a phantom log entry. Never rolled back (§9).
func (t *Tracker) RecordPhantom(pid ilast.Pid, path []ilast.PathCond) {
	t.phantoms = append(t.phantoms, PhantomEntry{Pid: pid, Path: append([]ilast.PathCond(nil), path...)})
}

// Phantoms returns the accumulated phantom log in recording order.
func (t *Tracker) Phantoms() []PhantomEntry {
	return append([]PhantomEntry(nil), t.phantoms...)
}

// RegisterValue records a newly constructed value's vid as "seen" before
// any dependency edge may reference it as a predecessor.
func (t *Tracker) RegisterValue(vid value.VID) {
	if _, ok := t.registered[vid]; ok {
		return
	}
	t.seq++
	t.registered[vid] = t.seq
}

// RecordDependency links produced to the vids that were read to produce
// it (§4.F "Value dependency"). Edges are append-only and never
// invalidated.
func (t *Tracker) RecordDependency(produced value.VID, deps ...value.VID) {
	if len(deps) == 0 {
		return
	}
	t.edges[produced] = append(t.edges[produced], deps...)
}

// Predecessors returns the recorded dependency set for a vid.
func (t *Tracker) Predecessors(vid value.VID) []value.VID {
	return append([]value.VID(nil), t.edges[vid]...)
}

// Edges returns every recorded produced-to-predecessor mapping, for
// persistence (internal/store) rather than single-vid lookups.
func (t *Tracker) Edges() map[value.VID][]value.VID {
	cp := make(map[value.VID][]value.VID, len(t.edges))
	for produced, deps := range t.edges {
		cp[produced] = append([]value.VID(nil), deps...)
	}
	return cp
}

// IsAcyclic checks Testable Property 3: the dependency edges form a DAG
// and every value's predecessors were registered earlier than it.
func (t *Tracker) IsAcyclic() bool {
	for produced, deps := range t.edges {
		producedSeq, ok := t.registered[produced]
		if !ok {
			return false
		}
		for _, dep := range deps {
			depSeq, ok := t.registered[dep]
			if !ok || depSeq >= producedSeq {
				return false
			}
		}
	}
	return true
}
