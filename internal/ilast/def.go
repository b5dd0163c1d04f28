package ilast

import (
	"github.com/p4lang/p4spectec-core/internal/mixop"
	"github.com/p4lang/p4spectec-core/internal/region"
	"github.com/p4lang/p4spectec-core/internal/typ"
)

// TypD declares a constructor or record type (§3 "Spec").
type TypD struct {
	Region  region.Region
	Name    string
	Tparams []Tparam
	DefTyp  typ.Typ
}

func (TypD) defNode()              {}
func (d TypD) GetRegion() region.Region { return d.Region }
func (d TypD) Ident() string        { return d.Name }

// RelD declares an inductive relation (§3, §4.E.1). InputIdx partitions
// the mixop's argument positions into inputs (given by the caller) and
// outputs (produced by Instrs); an index not listed in InputIdx is an
// output position.
type RelD struct {
	Region   region.Region
	Name     string
	Op       mixop.MixOp
	InputIdx []int
	Inputs   []Param
	Instrs   []Instr
}

func (RelD) defNode()              {}
func (d RelD) GetRegion() region.Region { return d.Region }
func (d RelD) Ident() string        { return d.Name }

// IsInput reports whether the mixop argument at position i is an input
// (given) rather than an output (produced).
func (d RelD) IsInput(i int) bool {
	for _, idx := range d.InputIdx {
		if idx == i {
			return true
		}
	}
	return false
}

// DecD declares a deterministic function (§3).
type DecD struct {
	Region     region.Region
	Name       string
	Tparams    []Tparam
	Params     []Param
	ReturnType typ.Typ
	Instrs     []Instr
}

func (DecD) defNode()              {}
func (d DecD) GetRegion() region.Region { return d.Region }
func (d DecD) Ident() string        { return d.Name }

// Spec is a flat, topologically orderable list of definitions (§3). The
// elaborator guarantees topological order; this core does not re-sort
// it, matching §4.B's "global definitions ... immutable after load".
type Spec struct {
	Defs []Def
}

// Lookup finds a definition by name. Definitions of different kinds may
// not share a name (an elaborator invariant), so the first match is
// unambiguous.
func (s Spec) Lookup(name string) (Def, bool) {
	for _, d := range s.Defs {
		if d.Ident() == name {
			return d, true
		}
	}
	return nil, false
}

func (s Spec) LookupRel(name string) (RelD, bool) {
	d, ok := s.Lookup(name)
	if !ok {
		return RelD{}, false
	}
	rel, ok := d.(RelD)
	return rel, ok
}

func (s Spec) LookupDec(name string) (DecD, bool) {
	d, ok := s.Lookup(name)
	if !ok {
		return DecD{}, false
	}
	dec, ok := d.(DecD)
	return dec, ok
}
