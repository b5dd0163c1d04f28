package ilast

import (
	"github.com/p4lang/p4spectec-core/internal/region"
	"github.com/p4lang/p4spectec-core/internal/typ"
)

// BoolG is a literal guard used for exhaustive splits (§4.E).
type BoolG struct {
	Region region.Region
	Val    bool
}

func (BoolG) guardNode()              {}
func (g BoolG) GetRegion() region.Region { return g.Region }

// CmpG compares the scrutinee against Exp using Op under OpTyp (§4.E).
type CmpG struct {
	Region region.Region
	Op     CmpOp
	OpTyp  OpTyp
	Exp    Exp
}

func (CmpG) guardNode()              {}
func (g CmpG) GetRegion() region.Region { return g.Region }

// SubG succeeds when the scrutinee's dynamic type is a subtype of T
// (nominal for CaseV, structural for records — §4.E, §4.C via typ.IsSubtype).
type SubG struct {
	Region region.Region
	Typ    typ.Typ
}

func (SubG) guardNode()              {}
func (g SubG) GetRegion() region.Region { return g.Region }

// MatchG pattern-matches the scrutinee; bindings enter the body's scope
// on success (§4.E).
type MatchG struct {
	Region  region.Region
	Pattern Pattern
}

func (MatchG) guardNode()              {}
func (g MatchG) GetRegion() region.Region { return g.Region }

// MemG succeeds when the scrutinee is an element of the list produced
// by Exp (§4.E).
type MemG struct {
	Region region.Region
	Exp    Exp
}

func (MemG) guardNode()              {}
func (g MemG) GetRegion() region.Region { return g.Region }
