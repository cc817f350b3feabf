// Package planner implements the Precision Planner: the iterative search
// for a limb width L and limb counts that keep every product of two limbs,
// accumulated K-deep, representable exactly in a float64 mantissa.
package planner

import (
	"math"

	apperrors "github.com/sdpb-go/limbblas/internal/errors"
)

// MantissaBits is the number of bits float64 can hold exactly, including
// the implicit leading bit: the budget the mantissa-safety inequality
// spends on limb width and accumulation headroom.
const MantissaBits = 53

// Plan is the outcome of the Precision Planner for one GEMM or SYRK call:
// the limb width shared by every operand, the limb counts of A, B, and the
// limb count the caller must allocate for C.
type Plan struct {
	L  int
	Sa int
	Sb int
	Sc int
}

func ceilLog2(x float64) int {
	if x <= 1 {
		return 0
	}
	return int(math.Ceil(math.Log2(x)))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// limbCount returns how many limbs of limbWidth bits cover prec bits
// rounded up to whole 64-bit words plus one extra word: the codec aligns
// every matrix exponent up to a 64-bit grain, which can leave up to 63
// leading zero bits in front of an entry's significant bits.
func limbCount(prec, limbWidth int) int {
	const wordBits = 64
	return ceilDiv((ceilDiv(prec, wordBits)+1)*wordBits, limbWidth)
}

// PlanGEMM plans a GEMM of two matrices at precisions pa and pb, reduced
// over k, per the mantissa-safety inequality
// 2L + ceil(log2(K*min(Sa,Sb))) <= 53. It returns PrecisionUnderflowError if
// no positive L satisfies the bound.
func PlanGEMM(pa, pb, k int) (Plan, error) {
	l := (MantissaBits - ceilLog2(float64(k))) / 2
	if l <= 0 {
		return Plan{}, apperrors.PrecisionUnderflowError{PrecA: pa, PrecB: pb, K: k}
	}
	sa := limbCount(pa, l)
	sb := limbCount(pb, l)

	for 2*l+ceilLog2(float64(k)*math.Min(float64(sa), float64(sb))) > MantissaBits {
		l = (MantissaBits - ceilLog2(float64(k)*math.Min(float64(sa), float64(sb)))) / 2
		if l <= 0 {
			return Plan{}, apperrors.PrecisionUnderflowError{PrecA: pa, PrecB: pb, K: k}
		}
		sa = limbCount(pa, l)
		sb = limbCount(pb, l)
	}

	sc := sa
	if sb < sc {
		sc = sb
	}
	return Plan{L: l, Sa: sa, Sb: sb, Sc: sc}, nil
}

// PlanSYRK plans a SYRK update (A * A^T or A^T * A) at precision pa, reduced
// over k, using the same mantissa-safety inequality specialized to a single
// operand. Sa and Sb are equal since the left and right operand are the
// same matrix; Sc is fixed to Sa on both the host and device paths, so a
// device branch can never disagree with the host's Sc by running an
// independent precision-planning pass for each operand.
func PlanSYRK(pa, k int) (Plan, error) {
	l := (MantissaBits - ceilLog2(float64(k))) / 2
	if l <= 0 {
		return Plan{}, apperrors.PrecisionUnderflowError{PrecA: pa, PrecB: pa, K: k}
	}
	sa := limbCount(pa, l)

	for 2*l+ceilLog2(float64(k)*float64(sa)) > MantissaBits {
		l = (MantissaBits - ceilLog2(float64(k)*float64(sa))) / 2
		if l <= 0 {
			return Plan{}, apperrors.PrecisionUnderflowError{PrecA: pa, PrecB: pa, K: k}
		}
		sa = limbCount(pa, l)
	}

	return Plan{L: l, Sa: sa, Sb: sa, Sc: sa}, nil
}

// PlanBaseCase plans the single-scalar multiplication, which carries no
// reduction dimension (k is always 1) but keeps ceil(MantissaBits/L) extra
// guard limbs in Sc, since only min(Sa,Sb) limbs of the product are known
// exactly and the remainder is retained purely to make the result
// comparable against a full-precision reference.
func PlanBaseCase(pa, pb int) (Plan, error) {
	plan, err := PlanGEMM(pa, pb, 1)
	if err != nil {
		return Plan{}, err
	}
	plan.Sc = plan.Sa
	if plan.Sb < plan.Sc {
		plan.Sc = plan.Sb
	}
	plan.Sc += ceilDiv(MantissaBits, plan.L)
	return plan, nil
}
