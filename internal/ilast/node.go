// Package ilast is the abstract grammar of the elaborated IL (§6): the
// mutually recursive Exp/Instr/Pattern/Guard/Def tree this core
// interprets. Every node carries a source Region for diagnostics; none
// of that Region participates in value or node equality (§9).
package ilast

import (
	"github.com/p4lang/p4spectec-core/internal/region"
	"github.com/p4lang/p4spectec-core/internal/typ"
)

// Node is the common shape of every IL tree node: a region for
// diagnostics. Nodes that carry a declared IL type hold it in a field of
// their own (e.g. CaseE.ResultT); Node itself exposes no type.
type Node interface {
	GetRegion() region.Region
}

// Exp is the sealed interface for expression nodes (§6 grammar; the
// concrete Exp forms are documented per-variant in exp.go).
type Exp interface {
	Node
	expNode()
}

// Instr is the sealed interface for instruction nodes (§6 grammar).
type Instr interface {
	Node
	instrNode()
}

// Pattern is the sealed interface for pattern nodes (§3 "Pattern").
type Pattern interface {
	Node
	patternNode()
}

// Guard is the sealed interface for CaseI guards (§4.E).
type Guard interface {
	Node
	guardNode()
}

// PathCond is the sealed interface for phantom path conditions (§3).
type PathCond interface {
	Node
	pathCondNode()
}

// Def is the sealed interface for top-level definitions (§3 "Spec").
type Def interface {
	Node
	defNode()
	Ident() string
}

// Param is a function/relation formal parameter.
type Param struct {
	Region region.Region
	Name   string
	Typ    typ.Typ
}

// Tparam is a type-level formal parameter (generics, §3 TypD/DecD).
type Tparam struct {
	Region region.Region
	Name   string
	Kind   typ.Typ // present only when the parameter carries a kind annotation
}

// IterExp is one iteration binder: `x <- e` inside an IfI/LetI/RuleI's
// iteration clause, lifted through Opt or List (§4.D "IterE").
type IterExp struct {
	Region region.Region
	Var    string
	Source Exp
	Iter   typ.Iter
}

func (i IterExp) GetRegion() region.Region { return i.Region }

// NotExp wraps a RuleI call target expression together with whether the
// relation invocation is negated (`~rel(...)`, used for negative
// premises). The zero NotExp is not negated.
type NotExp struct {
	Region  region.Region
	Negated bool
	Rel     string
	Args    []Exp
}

func (n NotExp) GetRegion() region.Region { return n.Region }
