package ilast

import "github.com/p4lang/p4spectec-core/internal/region"

// IfI is `if cond then body` with an optional phantom for the untaken
// else-branch (§4.E).
type IfI struct {
	Region  region.Region
	Cond    Exp
	Iters   []IterExp
	Body    []Instr
	Phantom *Phantom
}

func (IfI) instrNode()              {}
func (i IfI) GetRegion() region.Region { return i.Region }

// CaseI is a guarded multi-way branch on Scrutinee (§4.E). The last Case
// may be an OtherwiseI.
type CaseI struct {
	Region    region.Region
	Scrutinee Exp
	Cases     []Case
	Phantom   *Phantom
}

func (CaseI) instrNode()              {}
func (i CaseI) GetRegion() region.Region { return i.Region }

// Case pairs a Guard with the instruction list to run when it succeeds.
type Case struct {
	Region region.Region
	Guard  Guard
	Body   []Instr
}

// OtherwiseI's Inner runs iff every earlier Case in the enclosing CaseI
// failed (§4.E). It only ever appears as the last Case's Body wrapper.
type OtherwiseI struct {
	Region region.Region
	Inner  []Instr
}

func (OtherwiseI) instrNode()              {}
func (i OtherwiseI) GetRegion() region.Region { return i.Region }

// LetI evaluates RHS and matches it against LHS-as-pattern (§4.E). LHS is
// an Exp (not a Pattern) per the §6 grammar — the interpreter treats it
// as a pattern by structural reinterpretation (variables bind, literals
// compare, CaseE/TupleE-shaped LHS destructure).
type LetI struct {
	Region region.Region
	Lhs    Exp
	Rhs    Exp
	Iters  []IterExp
}

func (LetI) instrNode()              {}
func (i LetI) GetRegion() region.Region { return i.Region }

// RuleI invokes a relation (§4.E.1).
type RuleI struct {
	Region region.Region
	RelId  string
	Not    NotExp
	Iters  []IterExp
}

func (RuleI) instrNode()              {}
func (i RuleI) GetRegion() region.Region { return i.Region }

// ResultI produces a relation's outputs (§4.E).
type ResultI struct {
	Region region.Region
	Exps   []Exp
}

func (ResultI) instrNode()              {}
func (i ResultI) GetRegion() region.Region { return i.Region }

// ReturnI produces a function's return value (§4.E).
type ReturnI struct {
	Region region.Region
	Exp    Exp
}

func (ReturnI) instrNode()              {}
func (i ReturnI) GetRegion() region.Region { return i.Region }
