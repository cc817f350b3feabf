// Package convolution implements the Convolution Engine: the limb-index
// convolution that turns a pair of limb-decomposed operand matrices into a
// limb-decomposed product, by driving an ordinary double-precision BLAS
// provider once per limb-index pair.
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

// Dims describes the shape of a GEMM: C (m x n) = tA(A) (m x k) * tB(B)
// (k x n), with A and B given as limb matrices.
type Dims struct {
	M, N, K int
	TransA  gblas.Transpose
	TransB  gblas.Transpose
}

func general(rows, cols int, data []float64) blas64.General {
	return blas64.General{Rows: rows, Cols: cols, Stride: cols, Data: data}
}

// operandDims returns the (rows, cols) of one limb plane of operand A or
// B as stored, given the operand's transpose flag and logical m x k shape.
func operandDims(trans gblas.Transpose, m, k int) (rows, cols int) {
	if trans == gblas.Trans {
		return k, m
	}
	return m, k
}

// GemmSchoolbook computes the full limb-index convolution
//
//	C[i] = sum_{j=0}^{i} tA(A[i-j]) * tB(B[j])   for i in [0, sc)
//
// restricted to the valid limb-index ranges (i-j < Sa, j < Sb), using one
// BLAS Gemm call per contributing (i,j) pair. This is the direct O(Sa*Sb)
// schoolbook algorithm; Karatsuba trades some of these Gemm calls for
// cheaper limb-plane additions when Sa, Sb, and sc are large.
//
// The outer limb-index loop is independent across i (each writes a disjoint
// plane of c), so it runs as a bounded fork-join: up to workers limb
// indices convolved concurrently.
func GemmSchoolbook(ctx context.Context, provider blas.Provider, d Dims, a, b *limb.Matrix, sc int, workers int) (*limb.Matrix, error) {
	c := &limb.Matrix{Rows: d.M, Cols: d.N, S: sc, LimbWidth: a.LimbWidth, Exp: a.Exp + b.Exp - a.LimbWidth, Data: make([]float64, sc*d.M*d.N)}

	arows, acols := operandDims(d.TransA, d.M, d.K)
	brows, bcols := operandDims(d.TransB, d.K, d.N)

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
			cPlane := general(d.M, d.N, c.Plane(i))
			for j := 0; j <= i; j++ {
				ai := i - j
				if ai >= a.S || j >= b.S {
					continue
				}
				aGen := general(arows, acols, a.Plane(ai))
				bGen := general(brows, bcols, b.Plane(j))
				provider.Gemm(d.TransA, d.TransB, aGen, bGen, cPlane)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c, nil
}
