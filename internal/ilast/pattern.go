package ilast

import (
	"github.com/p4lang/p4spectec-core/internal/mixop"
	"github.com/p4lang/p4spectec-core/internal/region"
)

// WildcardP matches anything, binds nothing (§4.C).
type WildcardP struct {
	Region region.Region
}

func (WildcardP) patternNode()              {}
func (p WildcardP) GetRegion() region.Region { return p.Region }

// VarP binds the full matched value to Name (§4.C "Variable binder").
// Linearity (no repeated binder within one pattern) is an elaborator
// invariant this core trusts rather than re-checks (§4.C states the
// matcher is total, not that it re-verifies elaborator-enforced shape
// invariants).
type VarP struct {
	Region region.Region
	Name   string
}

func (VarP) patternNode()              {}
func (p VarP) GetRegion() region.Region { return p.Region }

// LitP matches iff the value equals Val under value.Equal (§4.A). Val is
// always one of BoolLitE/NumLitE/TextLitE; since literals are
// self-evaluating, the matcher reads Val's payload directly and never
// needs an expression evaluator to match a LitP, keeping the matcher
// free of any evaluator dependency (§4.C "total, never diverges").
type LitP struct {
	Region region.Region
	Val    Exp
}

func (LitP) patternNode()              {}
func (p LitP) GetRegion() region.Region { return p.Region }

// CaseP matches a CaseV whose MixOp equals Op, recursing over Args (§4.C).
type CaseP struct {
	Region region.Region
	Op     mixop.MixOp
	Args   []Pattern
}

func (CaseP) patternNode()              {}
func (p CaseP) GetRegion() region.Region { return p.Region }

// ListP matches a ListV with Prefix/Suffix pointwise and Rest (if
// present) bound to the middle slice (§4.C).
type ListP struct {
	Region region.Region
	Prefix []Pattern
	Rest   *VarP // nil if no middle-slice binder is present
	Suffix []Pattern
}

func (ListP) patternNode()              {}
func (p ListP) GetRegion() region.Region { return p.Region }

// TupleP matches a TupleV pointwise (§4.C).
type TupleP struct {
	Region region.Region
	Elems  []Pattern
}

func (TupleP) patternNode()              {}
func (p TupleP) GetRegion() region.Region { return p.Region }
