package scalar

import (
	"math/big"

	"github.com/ncw/gmp"
)

// toBig converts a gmp.Int to a math/big.Int. gmp.Int mirrors math/big.Int's
// public API (including Bytes/SetBytes/Sign), so the conversion is exact and
// allocation-free beyond the copy itself.
func toBig(z *gmp.Int) *big.Int {
	out := new(big.Int).SetBytes(z.Bytes())
	if z.Sign() < 0 {
		out.Neg(out)
	}
	return out
}

// fromBig converts a math/big.Int to a gmp.Int.
func fromBig(x *big.Int) *gmp.Int {
	out := new(gmp.Int).SetBytes(new(big.Int).Abs(x).Bytes())
	if x.Sign() < 0 {
		out.Neg(out)
	}
	return out
}

// accumulator folds a big-endian sequence of signed, fixed-width limbs
// back into one arbitrary-precision integer, using gmp.Int as the carry-
// propagating big-integer backend: for n limbs,
// value = sum_s limb[s] * 2^((n-1-s)*limbWidth).
type accumulator struct {
	total *gmp.Int
}

func newAccumulator() *accumulator {
	return &accumulator{total: new(gmp.Int)}
}

// foldFromTop consumes limbs from most significant to least significant,
// shifting the running total left by limbWidth bits before adding the next
// limb down. Calling this for s := 0 up to len(limbs)-1 reproduces
// sum_s limbs[s] * 2^((len(limbs)-1-s)*limbWidth) exactly, since each limb value may itself
// be negative (signed-digit limbs) and gmp.Int.Add handles the sign.
func (a *accumulator) foldFromTop(limb int64, limbWidth uint) {
	a.total.Lsh(a.total, limbWidth)
	a.total.Add(a.total, gmp.NewInt(limb))
}

func (a *accumulator) bigInt() *big.Int { return toBig(a.total) }
