// Package scalar implements the engine's narrow contract onto the
// arbitrary-precision scalar library (§6 of the design): reading a
// scalar's precision and exponent, reading and writing its value as a
// signed, fixed-width limb sequence sharing one matrix-wide exponent.
//
// The scalar type itself is math/big.Float, chosen because its public API
// (Prec, MantExp, SetMantExp, Int) already exposes exactly the primitives
// the limb-BLAS contract needs, without requiring an adapter around an
// external arbitrary-precision library.
package scalar

import (
	"math/big"
	"math/rand"
)

// CoarseGrainBits is the coarse exponent grain the codec normalizes matrix
// exponents to: one machine word, matching "a fixed coarse grain —
// typically one machine word" in the data model.
const CoarseGrainBits = 64

// Precision returns x's precision in bits.
func Precision(x *big.Float) uint { return x.Prec() }

// BinaryExponent returns exp such that x = mant * 2^exp with 0.5 <= |mant| <
// 1 (or 0 if x is zero), the same convention as (*big.Float).MantExp.
func BinaryExponent(x *big.Float) int {
	return x.MantExp(nil)
}

// MatrixExponent returns the shared matrix exponent E for a slice of
// scalars: the maximum binary exponent across all (non-zero) entries,
// rounded up to a multiple of CoarseGrainBits. Every entry of the matrix
// is later normalized to this one exponent.
func MatrixExponent(xs []*big.Float) int {
	maxExp := 0
	seen := false
	for _, x := range xs {
		if x.Sign() == 0 {
			continue
		}
		e := x.MantExp(nil)
		if !seen || e > maxExp {
			maxExp = e
			seen = true
		}
	}
	return alignUp(maxExp, CoarseGrainBits)
}

func alignUp(e, grain int) int {
	if e >= 0 {
		return ((e + grain - 1) / grain) * grain
	}
	return -(((-e) / grain) * grain)
}

// RandomMatrix fills a rows*cols slice of *big.Float values at the given
// precision with uniform values in (-5, 5), for exercising the engine
// against random operands.
func RandomMatrix(rows, cols int, prec uint, rng *rand.Rand) []*big.Float {
	out := make([]*big.Float, rows*cols)
	for i := range out {
		v := 10*rng.Float64() - 5
		out[i] = new(big.Float).SetPrec(prec).SetFloat64(v)
	}
	return out
}
