// Package numeric implements Num (§3): tagged arbitrary-precision
// integers over math/big, with exact nat/int arithmetic and modulo-2^w
// wraparound for fixed-width bit-vectors.
package numeric

import (
	"math/big"

	"github.com/p4lang/p4spectec-core/internal/typ"
)

// Num is an immutable arbitrary-precision number tagged with its kind.
// The zero value is not meaningful; construct with New*.
type Num struct {
	kind typ.NumKind
	val  *big.Int
}

// NewNat builds a natural-number Num; panics if v is negative, since a
// negative nat can only arise from a bug in the caller (elaboration
// guarantees nat literals and nat-typed arithmetic stay non-negative —
// this mirrors how the engine trusts its own invariants rather than
// re-validating elaborator output at every call site).
func NewNat(v *big.Int) Num {
	if v.Sign() < 0 {
		panic("numeric: negative value for nat kind")
	}
	return Num{kind: typ.Nat(), val: new(big.Int).Set(v)}
}

func NewNatInt64(v int64) Num {
	return NewNat(big.NewInt(v))
}

// NewInt builds a signed-integer Num.
func NewInt(v *big.Int) Num {
	return Num{kind: typ.Int(), val: new(big.Int).Set(v)}
}

func NewIntInt64(v int64) Num {
	return Num{kind: typ.Int(), val: big.NewInt(v)}
}

// NewBV builds a fixed-width bit-vector Num, wrapping v modulo 2^width
// per §3's invariant "0 ≤ n < 2^w".
func NewBV(width int, v *big.Int) Num {
	return Num{kind: typ.BV(width), val: wrap(width, v)}
}

func wrap(width int, v *big.Int) *big.Int {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
	r := new(big.Int).Mod(v, mod)
	if r.Sign() < 0 {
		r.Add(r, mod)
	}
	return r
}

func (n Num) Kind() typ.NumKind { return n.kind }
func (n Num) BigInt() *big.Int  { return new(big.Int).Set(n.val) }

func (n Num) String() string {
	return n.val.String()
}

func (n Num) Int64() (int64, bool) {
	if !n.val.IsInt64() {
		return 0, false
	}
	return n.val.Int64(), true
}

// Equal ignores kind: §9's "value identity" note and §3's equality rule
// for values is payload-based; two Nums with the same mathematical value
// but different kinds are NOT equal values of the SAME type, but the
// engine never compares across kinds except where the IL itself already
// established type agreement (binary ops require matching optyp), so
// plain big.Int comparison is sufficient and kind mismatches are a
// caller bug, not a runtime case to special-case here.
func (n Num) Equal(o Num) bool {
	return n.val.Cmp(o.val) == 0
}

func (n Num) Cmp(o Num) int {
	return n.val.Cmp(o.val)
}

// Arithmetic. Each op preserves kind (§4.D "numeric ops preserve kind");
// bit-vector ops wrap modulo width.

func (n Num) Add(o Num) Num { return n.binary(o, (*big.Int).Add) }
func (n Num) Sub(o Num) Num { return n.binary(o, (*big.Int).Sub) }
func (n Num) Mul(o Num) Num { return n.binary(o, (*big.Int).Mul) }

// DivByZeroError signals §7's DivByZero kind at the numeric layer; the
// interpreter wraps it into errs.DivByZero with a region.
type DivByZeroError struct{}

func (DivByZeroError) Error() string { return "division by zero" }

func (n Num) Div(o Num) (Num, error) {
	if o.val.Sign() == 0 {
		return Num{}, DivByZeroError{}
	}
	return n.binary(o, func(z, x, y *big.Int) *big.Int {
		if n.kind.Name == "nat" {
			return z.Div(x, y)
		}
		return z.Quo(x, y)
	}), nil
}

func (n Num) Mod(o Num) (Num, error) {
	if o.val.Sign() == 0 {
		return Num{}, DivByZeroError{}
	}
	return n.binary(o, func(z, x, y *big.Int) *big.Int {
		if n.kind.Name == "nat" {
			return z.Mod(x, y)
		}
		return z.Rem(x, y)
	}), nil
}

func (n Num) Neg() Num {
	r := new(big.Int).Neg(n.val)
	return n.result(r)
}

func (n Num) binary(o Num, op func(z, x, y *big.Int) *big.Int) Num {
	r := op(new(big.Int), n.val, o.val)
	return n.result(r)
}

func (n Num) result(r *big.Int) Num {
	if n.kind.Name == "bv" {
		return Num{kind: n.kind, val: wrap(n.kind.Width, r)}
	}
	return Num{kind: n.kind, val: r}
}

// Sum, Min, Max implement the §6 external builtin contract for
// NumV(nat)* inputs. Min on an empty slice is the caller's
// responsibility to reject (§6: BuiltinError("min of empty list")) —
// kept out of this package since BuiltinError is an interpreter-level
// concern, not a numeric one.

func Sum(ns []Num) Num {
	acc := NewNatInt64(0)
	for _, n := range ns {
		acc = acc.Add(n)
	}
	return acc
}

func Min(ns []Num) (Num, bool) {
	if len(ns) == 0 {
		return Num{}, false
	}
	m := ns[0]
	for _, n := range ns[1:] {
		if n.Cmp(m) < 0 {
			m = n
		}
	}
	return m, true
}

func Max(ns []Num) (Num, bool) {
	if len(ns) == 0 {
		return Num{}, false
	}
	m := ns[0]
	for _, n := range ns[1:] {
		if n.Cmp(m) > 0 {
			m = n
		}
	}
	return m, true
}
