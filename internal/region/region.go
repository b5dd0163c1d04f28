// Package region carries source positions through the IL so diagnostics
// can point back at the originating SL text. Regions are opaque outside
// this package: every comparison in the engine (value equality, MemG
// membership, phantom dedup) ignores them by construction, since nothing
// outside this package ever compares a Region for equality.
package region

import "fmt"

// Pos is a single line/column position, 1-indexed as is conventional for
// diagnostics.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Region is a half-open source span within a file. The zero Region is
// used for synthetic nodes (builtins, desugared forms) and renders as
// "<unknown>".
type Region struct {
	File  string
	Start Pos
	End   Pos
}

func (r Region) IsZero() bool {
	return r.File == "" && r.Start == Pos{} && r.End == Pos{}
}

func (r Region) String() string {
	if r.IsZero() {
		return "<unknown>"
	}
	if r.Start == r.End {
		return fmt.Sprintf("%s:%s", r.File, r.Start)
	}
	return fmt.Sprintf("%s:%s-%s", r.File, r.Start, r.End)
}

// Id is a textual name carrying the region it was written at. Equality
// between two Ids is by Name alone (§3) — Region is metadata for
// diagnostics only.
type Id struct {
	Name   string
	Region Region
}

func NewId(name string) Id {
	return Id{Name: name}
}

func (i Id) Equal(o Id) bool {
	return i.Name == o.Name
}

func (i Id) String() string {
	return i.Name
}
