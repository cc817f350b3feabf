package limbblas

import (
	"context"
	"math/big"
	"math/rand"
	"testing"

	"github.com/sdpb-go/limbblas/internal/scalar"
)

func floatsEqual(t *testing.T, got, want *big.Float, tol float64) {
	t.Helper()
	diff := new(big.Float).Sub(got, want)
	diff.Abs(diff)
	f, _ := diff.Float64()
	if f > tol {
		t.Errorf("got %v, want %v (diff %v > tol %v)", got, want, f, tol)
	}
}

func TestBaseCaseMulMatchesReferenceProduct(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20; i++ {
		a := new(big.Float).SetPrec(200).SetFloat64(10*rng.Float64() - 5)
		b := new(big.Float).SetPrec(200).SetFloat64(10*rng.Float64() - 5)
		want := new(big.Float).SetPrec(200).Mul(a, b)

		got, err := e.BaseCaseMul(context.Background(), a, b)
		if err != nil {
			t.Fatalf("BaseCaseMul: %v", err)
		}
		floatsEqual(t, got, want, 1e-30)
	}
}

func TestGEMMReducedMatchesReferenceProduct(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	rng := rand.New(rand.NewSource(2))
	const m, n, k = 3, 2, 4
	const prec = 128

	a := scalar.RandomMatrix(m, k, prec, rng)
	b := scalar.RandomMatrix(k, n, prec, rng)
	c := make([]*big.Float, m*n)

	if err := e.GEMMReduced(context.Background(), RowMajor, NoTrans, NoTrans, m, n, k, a, b, c); err != nil {
		t.Fatalf("GEMMReduced: %v", err)
	}

	for r := 0; r < m; r++ {
		for col := 0; col < n; col++ {
			want := new(big.Float).SetPrec(prec)
			for idx := 0; idx < k; idx++ {
				term := new(big.Float).SetPrec(prec).Mul(a[r*k+idx], b[idx*n+col])
				want.Add(want, term)
			}
			floatsEqual(t, c[r*n+col], want, 1e-10)
		}
	}
}

func TestGEMMReducedAccumulatesIntoExistingC(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	rng := rand.New(rand.NewSource(3))
	const m, n, k = 2, 2, 2
	const prec = 128

	a := scalar.RandomMatrix(m, k, prec, rng)
	b := scalar.RandomMatrix(k, n, prec, rng)
	seed := new(big.Float).SetPrec(prec).SetFloat64(3.5)
	c := []*big.Float{seed, nil, nil, nil}

	if err := e.GEMMReduced(context.Background(), RowMajor, NoTrans, NoTrans, m, n, k, a, b, c); err != nil {
		t.Fatalf("GEMMReduced: %v", err)
	}

	delta := new(big.Float).SetPrec(prec)
	for idx := 0; idx < k; idx++ {
		delta.Add(delta, new(big.Float).SetPrec(prec).Mul(a[idx], b[idx*n]))
	}
	want := new(big.Float).SetPrec(prec).Add(new(big.Float).SetFloat64(3.5), delta)
	floatsEqual(t, c[0], want, 1e-10)
}

func TestGEMMReducedRejectsDimensionMismatch(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	a := []*big.Float{big.NewFloat(1), big.NewFloat(2)}
	b := []*big.Float{big.NewFloat(1), big.NewFloat(2)}
	c := make([]*big.Float, 4)
	err := e.GEMMReduced(context.Background(), RowMajor, NoTrans, NoTrans, 2, 2, 2, a, b, c)
	var dm DimensionMismatchError
	if !asDimensionMismatch(err, &dm) {
		t.Fatalf("expected a DimensionMismatchError, got %v", err)
	}
}

func TestSYRKReducedMatchesReferenceProduct(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	rng := rand.New(rand.NewSource(4))
	const m, k = 3, 4
	const prec = 128

	a := scalar.RandomMatrix(m, k, prec, rng)
	c := make([]*big.Float, m*m)

	if err := e.SYRKReduced(context.Background(), RowMajor, NoTrans, m, k, a, c); err != nil {
		t.Fatalf("SYRKReduced: %v", err)
	}

	for r := 0; r < m; r++ {
		for col := 0; col < m; col++ {
			want := new(big.Float).SetPrec(prec)
			for idx := 0; idx < k; idx++ {
				term := new(big.Float).SetPrec(prec).Mul(a[r*k+idx], a[col*k+idx])
				want.Add(want, term)
			}
			floatsEqual(t, c[r*m+col], want, 1e-10)
			diffT := new(big.Float).Sub(c[r*m+col], c[col*m+r])
			if diffT.Sign() != 0 {
				t.Errorf("expected symmetric output, c[%d][%d] != c[%d][%d]", r, col, col, r)
			}
		}
	}
}

func TestSYRKReducedRejectsDimensionMismatch(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	a := []*big.Float{big.NewFloat(1), big.NewFloat(2)}
	c := make([]*big.Float, 9)
	err := e.SYRKReduced(context.Background(), RowMajor, NoTrans, 3, 1, a, c)
	var dm DimensionMismatchError
	if !asDimensionMismatch(err, &dm) {
		t.Fatalf("expected a DimensionMismatchError, got %v", err)
	}
}

func asDimensionMismatch(err error, target *DimensionMismatchError) bool {
	if dm, ok := err.(DimensionMismatchError); ok {
		*target = dm
		return true
	}
	return false
}
