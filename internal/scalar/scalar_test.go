package scalar

import (
	"math/big"
	"math/rand"
	"testing"
)

func TestMatrixExponentAlignsToGrain(t *testing.T) {
	t.Parallel()
	xs := []*big.Float{
		new(big.Float).SetPrec(128).SetFloat64(3.5),
		new(big.Float).SetPrec(128).SetFloat64(0),
		new(big.Float).SetPrec(128).SetFloat64(-100000),
	}
	e := MatrixExponent(xs)
	if e%CoarseGrainBits != 0 {
		t.Errorf("expected exponent aligned to %d bits, got %d", CoarseGrainBits, e)
	}
	if e < xs[2].MantExp(nil) {
		t.Errorf("matrix exponent %d must dominate every entry's exponent", e)
	}
}

func TestMatrixExponentAllZero(t *testing.T) {
	t.Parallel()
	xs := []*big.Float{new(big.Float), new(big.Float)}
	if e := MatrixExponent(xs); e != 0 {
		t.Errorf("expected 0 for an all-zero matrix, got %d", e)
	}
}

func TestEncodeDecodeScalarRoundTrip(t *testing.T) {
	t.Parallel()
	const limbWidth = 24
	const numLimbs = 6
	const prec = 120

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		v := (rng.Float64()*2 - 1) * 1e6
		x := new(big.Float).SetPrec(prec).SetFloat64(v)
		matExp := alignUp(x.MantExp(nil), CoarseGrainBits)

		digits := EncodeScalar(x, matExp, limbWidth, numLimbs)
		for _, d := range digits {
			bound := float64(int64(1) << (limbWidth - 1))
			if d <= -bound || d >= bound {
				t.Fatalf("digit %v out of range for limb width %d", d, limbWidth)
			}
		}

		got := DecodeScalar(digits, limbWidth, matExp, prec)
		diff := new(big.Float).Sub(got, x)
		diff.Abs(diff)
		tolerance := new(big.Float).SetPrec(prec).SetMantExp(big.NewFloat(1), matExp-numLimbs*limbWidth+8)
		if diff.Cmp(tolerance) > 0 {
			t.Fatalf("round trip mismatch: x=%v got=%v diff=%v tol=%v", x, got, diff, tolerance)
		}
	}
}

func TestEncodeScalarZero(t *testing.T) {
	t.Parallel()
	x := new(big.Float)
	digits := EncodeScalar(x, 0, 16, 4)
	for _, d := range digits {
		if d != 0 {
			t.Errorf("expected all-zero digits for zero scalar, got %v", digits)
		}
	}
}

func TestRandomMatrixShapeAndPrecision(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(7))
	m := RandomMatrix(3, 4, 96, rng)
	if len(m) != 12 {
		t.Fatalf("expected 12 entries, got %d", len(m))
	}
	for _, v := range m {
		if v.Prec() != 96 {
			t.Errorf("expected precision 96, got %d", v.Prec())
		}
	}
}
