package ilast

import "github.com/p4lang/p4spectec-core/internal/region"

// Pid identifies one phantom branch declaration site (§3). It is stable
// across re-elaborations of the same IL so the fuzzer can correlate
// phantom ids between runs.
type Pid string

// ForallC, ExistsC, PlainC are the three PathCond shapes (§3).
type ForallC struct {
	Region  region.Region
	Exp     Exp
	Binders []IterExp
}

func (ForallC) pathCondNode()              {}
func (c ForallC) GetRegion() region.Region { return c.Region }

type ExistsC struct {
	Region  region.Region
	Exp     Exp
	Binders []IterExp
}

func (ExistsC) pathCondNode()              {}
func (c ExistsC) GetRegion() region.Region { return c.Region }

type PlainC struct {
	Region region.Region
	Exp    Exp
}

func (PlainC) pathCondNode()              {}
func (c PlainC) GetRegion() region.Region { return c.Region }

// Phantom identifies the branch not taken at an If/Case site, together
// with the path conditions under which that branch applies (§3).
type Phantom struct {
	Region region.Region
	Pid    Pid
	Conds  []PathCond
}

func (p Phantom) GetRegion() region.Region { return p.Region }
