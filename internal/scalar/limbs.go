package scalar

import "math/big"

// EncodeScalar expresses x, normalized against the shared matrix exponent
// matExp, as numLimbs signed digits in base 2^limbWidth, big-endian
// (limb 0 is most significant), so that x ~= sum_s digit[s] *
// 2^(matExp - (s+1)*limbWidth). Every digit but limb 0 has magnitude at
// most 2^(limbWidth-1); limb 0 also absorbs the final carry of the
// rebalancing pass, so its magnitude is at most 2^limbWidth.
//
// The digits are produced by taking the integer
// trunc(|x| * 2^(-matExp) * 2^(numLimbs*limbWidth)), slicing it into
// unsigned base-2^limbWidth digits, then rebalancing those digits into the
// signed range with a single carry-propagation pass from the least
// significant digit up, so the signed digits still sum to that integer.
func EncodeScalar(x *big.Float, matExp, limbWidth, numLimbs int) []float64 {
	digits := make([]float64, numLimbs)
	if x.Sign() == 0 {
		return digits
	}

	mant := new(big.Float)
	exp := x.MantExp(mant)

	shiftPrec := x.Prec() + uint(numLimbs*limbWidth) + 64
	shifted := new(big.Float).SetPrec(shiftPrec)
	shifted.SetMantExp(mant, exp-matExp+numLimbs*limbWidth)

	bi, _ := shifted.Int(nil)
	sign := bi.Sign()
	mag := new(big.Int).Abs(bi)

	mask := new(big.Int).Lsh(big.NewInt(1), uint(limbWidth))
	mask.Sub(mask, big.NewInt(1))

	unsigned := make([]uint64, numLimbs)
	rem := new(big.Int).Set(mag)
	tmp := new(big.Int)
	for s := 0; s < numLimbs; s++ {
		tmp.And(rem, mask)
		unsigned[s] = tmp.Uint64()
		rem.Rsh(rem, uint(limbWidth))
	}

	half := int64(1) << uint(limbWidth-1)
	full := int64(1) << uint(limbWidth)
	var carry int64
	for s := 0; s < numLimbs; s++ {
		d := int64(unsigned[s]) + carry
		if d >= half && s < numLimbs-1 {
			d -= full
			carry = 1
		} else {
			carry = 0
		}
		digits[numLimbs-1-s] = float64(sign) * float64(d)
	}
	return digits
}

// DecodeScalar reconstructs a scalar at the given precision from its
// big-endian signed-digit limb sequence and the shared exponent
// totalExp, inverting EncodeScalar: value = sum_s limb[s] * 2^(totalExp -
// (s+1)*limbWidth).
func DecodeScalar(limbs []float64, limbWidth, totalExp int, prec uint) *big.Float {
	acc := newAccumulator()
	for s := 0; s < len(limbs); s++ {
		acc.foldFromTop(int64(limbs[s]), uint(limbWidth))
	}

	bi := acc.bigInt()
	tmp := new(big.Float).SetPrec(prec + 64).SetInt(bi)
	out := new(big.Float).SetPrec(prec)
	out.SetMantExp(tmp, totalExp-len(limbs)*limbWidth)
	return out
}
