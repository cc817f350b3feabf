package convolution

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sdpb-go/limbblas/internal/blas"
	"github.com/sdpb-go/limbblas/internal/limb"
)

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// padPlanes zero-pads a slice of limb planes (each of the given element
// count) out to n planes.
func padPlanes(planes [][]float64, n, elems int) [][]float64 {
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		if i < len(planes) {
			out[i] = planes[i]
		} else {
			out[i] = make([]float64, elems)
		}
	}
	return out
}

func addPlanes(x, y [][]float64, elems int) [][]float64 {
	out := make([][]float64, len(x))
	for i := range x {
		sum := make([]float64, elems)
		for e := 0; e < elems; e++ {
			sum[e] = x[i][e] + y[i][e]
		}
		out[i] = sum
	}
	return out
}

func subInto(dst, x [][]float64, elems int) {
	for i := range dst {
		for e := 0; e < elems; e++ {
			dst[i][e] -= x[i][e]
		}
	}
}

func addInto(dst [][]float64, offset int, x [][]float64, elems int) {
	for i := range x {
		d := dst[offset+i]
		for e := 0; e < elems; e++ {
			d[e] += x[i][e]
		}
	}
}

// karatsubaConvolve computes the full length-(2n-1) limb-index convolution
// of two n-plane sequences of matrix coefficients, where n is a power of
// two, via the standard three-multiplication Karatsuba split: each
// "multiplication" of two half-length sequences recurses, bottoming out at
// n=1 with a single Gemm call.
//
// z0 and z2 depend on disjoint halves of a and b, so they can run
// concurrently; sem bounds how many such branches run at once across the
// whole recursion tree. A goroutine already holding a slot must never
// block acquiring another (its child would starve waiting on a pool the
// parent itself is occupying), so the fan-out uses a non-blocking
// TryAcquire: z0 runs on its own goroutine only when a slot is free,
// otherwise every branch runs sequentially on the calling goroutine.
func karatsubaConvolve(ctx context.Context, provider blas.Provider, d Dims, a, b [][]float64, sem *semaphore.Weighted) ([][]float64, error) {
	n := len(a)
	cElems := d.M * d.N

	if n == 1 {
		out := make([]float64, cElems)
		cGen := general(d.M, d.N, out)
		arows, acols := operandDims(d.TransA, d.M, d.K)
		brows, bcols := operandDims(d.TransB, d.K, d.N)
		provider.Gemm(d.TransA, d.TransB, general(arows, acols, a[0]), general(brows, bcols, b[0]), cGen)
		return [][]float64{out}, nil
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	half := n / 2
	a0, a1 := a[:half], a[half:]
	b0, b1 := b[:half], b[half:]

	aElems := len(a0[0])
	bElems := len(b0[0])

	var z0, z2 [][]float64
	if sem.TryAcquire(1) {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			defer sem.Release(1)
			var err error
			z0, err = karatsubaConvolve(gctx, provider, d, a0, b0, sem)
			return err
		})
		g.Go(func() error {
			var err error
			z2, err = karatsubaConvolve(gctx, provider, d, a1, b1, sem)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		var err error
		z0, err = karatsubaConvolve(ctx, provider, d, a0, b0, sem)
		if err != nil {
			return nil, err
		}
		z2, err = karatsubaConvolve(ctx, provider, d, a1, b1, sem)
		if err != nil {
			return nil, err
		}
	}

	aSum := addPlanes(a0, a1, aElems)
	bSum := addPlanes(b0, b1, bElems)
	z1, err := karatsubaConvolve(ctx, provider, d, aSum, bSum, sem)
	if err != nil {
		return nil, err
	}
	subInto(z1, z0, cElems)
	subInto(z1, z2, cElems)

	out := make([][]float64, 2*n-1)
	for i := range out {
		out[i] = make([]float64, cElems)
	}
	addInto(out, 0, z0, cElems)
	addInto(out, half, z1, cElems)
	addInto(out, n, z2, cElems)
	return out, nil
}

// GemmKaratsuba computes the same limb-index convolution as GemmSchoolbook
// using the Karatsuba limb-index convolution: both operand sequences are
// zero-padded to a common power-of-two length, convolved recursively, and
// the result trimmed back to sc output limbs. workers bounds the number of
// concurrent recursive branches across the whole call.
func GemmKaratsuba(ctx context.Context, provider blas.Provider, d Dims, a, b *limb.Matrix, sc int, workers int) (*limb.Matrix, error) {
	n := nextPow2(a.S)
	if nb := nextPow2(b.S); nb > n {
		n = nb
	}

	aElems := d.M * d.K
	bElems := d.N * d.K
	aPlanes := make([][]float64, a.S)
	for i := 0; i < a.S; i++ {
		aPlanes[i] = a.Plane(i)
	}
	bPlanes := make([][]float64, b.S)
	for i := 0; i < b.S; i++ {
		bPlanes[i] = b.Plane(i)
	}

	aPad := padPlanes(aPlanes, n, aElems)
	bPad := padPlanes(bPlanes, n, bElems)

	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))

	full, err := karatsubaConvolve(ctx, provider, d, aPad, bPad, sem)
	if err != nil {
		return nil, err
	}

	c := &limb.Matrix{Rows: d.M, Cols: d.N, S: sc, LimbWidth: a.LimbWidth, Exp: a.Exp + b.Exp - a.LimbWidth, Data: make([]float64, sc*d.M*d.N)}
	limit := sc
	if limit > len(full) {
		limit = len(full)
	}
	for i := 0; i < limit; i++ {
		copy(c.Plane(i), full[i])
	}
	return c, nil
}
