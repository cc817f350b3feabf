package convolution

import (
	"context"

	gblas "gonum.org/v2/gonum/blas"
	"gonum.org/v2/gonum/blas/blas64"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sdpb-go/limbblas/internal/blas"
	"github.com/sdpb-go/limbblas/internal/limb"
)

// SyrkSchoolbook computes the limb-index convolution of a rank-k update,
// C[i] = sum_{j=0}^{i} tA(A[i-j]) * tA(A[j])^T, restricted to i < sc,
// writing only the upper triangle of each output plane.
//
// It exploits two symmetries the plain Gemm convolution does not: for any
// off-diagonal pair (j, i-j), the contribution tA(A[j])*tA(A[i-j])^T plus
// its mirror tA(A[i-j])*tA(A[j])^T is exactly M + M^T for M the single
// Gemm product, so only one Gemm call (not two) is needed per pair; and
// the self-term at an even limb index i is a genuine symmetric rank-k
// update, computed directly with Syrk instead of a general Gemm.
//
// Like GemmSchoolbook, the outer limb-index loop writes disjoint planes of
// c and runs as a bounded fork-join over up to workers limb indices; each
// goroutine keeps its own scratch buffer so none is shared across limb
// indices running concurrently.
func SyrkSchoolbook(ctx context.Context, provider blas.Provider, d Dims, a *limb.Matrix, sc int, workers int) (*limb.Matrix, error) {
	c := &limb.Matrix{Rows: d.M, Cols: d.M, S: sc, LimbWidth: a.LimbWidth, Exp: 2*a.Exp - a.LimbWidth, Data: make([]float64, sc*d.M*d.M)}

	arows, acols := operandDims(d.TransA, d.M, d.K)

	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(workers))

	for idx := 0; idx < sc; idx++ {
		i := idx
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			cPlane := c.Plane(i)
			tmp := make([]float64, d.M*d.M)

			pairs := i/2 + i%2
			for j := 0; j < pairs; j++ {
				ai := i - j
				if ai >= a.S || j >= a.S {
					continue
				}
				for k := range tmp {
					tmp[k] = 0
				}
				tmpGen := general(d.M, d.M, tmp)
				aj := general(arows, acols, a.Plane(j))
				ai_ := general(arows, acols, a.Plane(ai))
				provider.Gemm(d.TransA, transposeOf(d.TransA), aj, ai_, tmpGen)

				for r := 0; r < d.M; r++ {
					for s := r; s < d.M; s++ {
						cPlane[r*d.M+s] += tmp[r*d.M+s] + tmp[s*d.M+r]
					}
				}
			}

			if i%2 == 0 {
				mid := i / 2
				if mid < a.S {
					sym := blas64.Symmetric{N: d.M, Stride: d.M, Uplo: gblas.Upper, Data: cPlane}
					provider.Syrk(d.TransA, general(arows, acols, a.Plane(mid)), sym)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c, nil
}

func transposeOf(t gblas.Transpose) gblas.Transpose {
	if t == gblas.Trans {
		return gblas.NoTrans
	}
	return gblas.Trans
}
