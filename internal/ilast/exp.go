package ilast

import (
	"github.com/p4lang/p4spectec-core/internal/mixop"
	"github.com/p4lang/p4spectec-core/internal/numeric"
	"github.com/p4lang/p4spectec-core/internal/region"
	"github.com/p4lang/p4spectec-core/internal/typ"
)

// VarE is a variable reference (§4.D).
type VarE struct {
	Region region.Region
	Name   string
}

func (VarE) expNode()                 {}
func (e VarE) GetRegion() region.Region { return e.Region }

// BoolLitE, NumLitE, TextLitE are the literal forms (§4.D "Literal").
type BoolLitE struct {
	Region region.Region
	Val    bool
}

func (BoolLitE) expNode()                 {}
func (e BoolLitE) GetRegion() region.Region { return e.Region }

type NumLitE struct {
	Region region.Region
	Val    numeric.Num
}

func (NumLitE) expNode()                 {}
func (e NumLitE) GetRegion() region.Region { return e.Region }

type TextLitE struct {
	Region region.Region
	Val    string
}

func (TextLitE) expNode()                 {}
func (e TextLitE) GetRegion() region.Region { return e.Region }

// UnOp/BinOp/CmpOp enumerate the operator vocabulary dispatched on
// OpTyp (§4.D). Carried as plain strings rather than a closed Go enum so
// the elaborator's full operator set (§9 "supplemented" note) can be
// extended without a breaking change to this grammar; internal/interp
// (expr.go) is the single place that interprets these names.
type UnOp string
type BinOp string
type CmpOp string

const (
	UnNot UnOp = "not"
	UnNeg UnOp = "neg"
)

const (
	BinAdd BinOp = "+"
	BinSub BinOp = "-"
	BinMul BinOp = "*"
	BinDiv BinOp = "/"
	BinMod BinOp = "%"
	BinAnd BinOp = "and"
	BinOr  BinOp = "or"
)

const (
	CmpEq CmpOp = "="
	CmpNe CmpOp = "<>"
	CmpLt CmpOp = "<"
	CmpLe CmpOp = "<="
	CmpGt CmpOp = ">"
	CmpGe CmpOp = ">="
)

// OpTyp names the dispatch type of a unary/binary/comparison operator
// (§4.D: "dispatch on optyp (BoolT, NumT(kind), TextT)").
type OpTyp struct {
	Typ typ.Typ
}

type UnE struct {
	Region region.Region
	Op     UnOp
	OpTyp  OpTyp
	Arg    Exp
}

func (UnE) expNode()                 {}
func (e UnE) GetRegion() region.Region { return e.Region }

type BinE struct {
	Region region.Region
	Op     BinOp
	OpTyp  OpTyp
	Left   Exp
	Right  Exp
}

func (BinE) expNode()                 {}
func (e BinE) GetRegion() region.Region { return e.Region }

type CmpE struct {
	Region region.Region
	Op     CmpOp
	OpTyp  OpTyp
	Left   Exp
	Right  Exp
}

func (CmpE) expNode()                 {}
func (e CmpE) GetRegion() region.Region { return e.Region }

// CaseE is mixfix construction (§4.D).
type CaseE struct {
	Region  region.Region
	Op      mixop.MixOp
	ResultT typ.Typ
	Args    []Exp
}

func (CaseE) expNode()                 {}
func (e CaseE) GetRegion() region.Region { return e.Region }

// ProjKind distinguishes the projection forms of §4.D ("Projection").
type ProjKind int

const (
	ProjField ProjKind = iota
	ProjTupleIndex
	ProjHead
	ProjTail
)

type ProjE struct {
	Region region.Region
	Kind   ProjKind
	Base   Exp
	Atom   string // for ProjField
	Index  int    // for ProjTupleIndex
}

func (ProjE) expNode()                 {}
func (e ProjE) GetRegion() region.Region { return e.Region }

// LenE, MemE, ConcatE are "the obvious denotations" of §4.D.
type LenE struct {
	Region region.Region
	List   Exp
}

func (LenE) expNode()                 {}
func (e LenE) GetRegion() region.Region { return e.Region }

type MemE struct {
	Region region.Region
	Elem   Exp
	List   Exp
}

func (MemE) expNode()                 {}
func (e MemE) GetRegion() region.Region { return e.Region }

type ConcatE struct {
	Region region.Region
	Left   Exp
	Right  Exp
}

func (ConcatE) expNode()                 {}
func (e ConcatE) GetRegion() region.Region { return e.Region }

// IterE evaluates Body once per lifted binder tuple (§4.D "Iteration").
type IterE struct {
	Region  region.Region
	Body    Exp
	Iter    typ.Iter
	Binders []IterExp
}

func (IterE) expNode()                 {}
func (e IterE) GetRegion() region.Region { return e.Region }

// CallE invokes a DecD or a registered built-in (§4.D "Call").
type CallE struct {
	Region region.Region
	Callee string
	Args   []Exp
}

func (CallE) expNode()                 {}
func (e CallE) GetRegion() region.Region { return e.Region }

// TupleE, ListE, and StructE construct the remaining container values
// that CaseE doesn't cover (§3 TupleV/ListV/StructV) — mixfix
// construction is the only container-building form the canonical
// grammar calls out explicitly (§6), but a complete interpreter needs
// these too, just as it needs Un/BinE beyond what's spelled out.
type TupleE struct {
	Region region.Region
	Elems  []Exp
}

func (TupleE) expNode()                 {}
func (e TupleE) GetRegion() region.Region { return e.Region }

type ListE struct {
	Region  region.Region
	ElemTyp typ.Typ
	Elems   []Exp
}

func (ListE) expNode()                 {}
func (e ListE) GetRegion() region.Region { return e.Region }

type StructField struct {
	Atom string
	Val  Exp
}

type StructE struct {
	Region  region.Region
	ResultT typ.Typ
	Fields  []StructField
}

func (StructE) expNode()                 {}
func (e StructE) GetRegion() region.Region { return e.Region }

// CaseExpE is a case *expression* (as opposed to CaseI, the instruction
// form): the scrutinee is matched against each arm's pattern in source
// order, first match wins (§4.D "Case expression").
type CaseArm struct {
	Pattern Pattern
	Body    Exp
}

type CaseExpE struct {
	Region    region.Region
	Scrutinee Exp
	Arms      []CaseArm
}

func (CaseExpE) expNode()                 {}
func (e CaseExpE) GetRegion() region.Region { return e.Region }
