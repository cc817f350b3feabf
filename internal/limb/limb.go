// Package limb implements the Limb Codec: converting a matrix of
// arbitrary-precision scalars into a stack of double-precision limb planes
// sharing one exponent, and back.
package limb

import (
	"context"
	"math/big"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	apperrors "github.com/sdpb-go/limbblas/internal/errors"
	"github.com/sdpb-go/limbblas/internal/scalar"
)

// Matrix is a rows x cols matrix of arbitrary-precision scalars, decomposed
// into S limb planes sharing exponent Exp. Data is plane-major: plane s
// occupies Data[s*rows*cols : (s+1)*rows*cols], each plane laid out
// row-major within itself.
type Matrix struct {
	Rows, Cols int
	S          int
	LimbWidth  int
	Exp        int
	Data       []float64
}

// Plane returns the s'th limb plane as a row-major rows*cols slice backed
// by the matrix's own storage; mutating it mutates the matrix.
func (m *Matrix) Plane(s int) []float64 {
	n := m.Rows * m.Cols
	return m.Data[s*n : (s+1)*n]
}

// Encode decomposes src (row-major, rows*cols entries) into an S-plane
// Matrix at the given limb width, sharing one matrix-wide exponent
// computed from the operands themselves.
func Encode(ctx context.Context, src []*big.Float, rows, cols, limbWidth, numLimbs, workers int) (*Matrix, error) {
	if len(src) != rows*cols {
		return nil, apperrors.NewDimensionMismatch("limb encode: got %d entries, want %d (rows=%d cols=%d)", len(src), rows*cols, rows, cols)
	}

	exp := scalar.MatrixExponent(src)
	out := &Matrix{Rows: rows, Cols: cols, S: numLimbs, LimbWidth: limbWidth, Exp: exp, Data: make([]float64, numLimbs*rows*cols)}

	n := rows * cols
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(workers))

	for idx := 0; idx < n; idx++ {
		i := idx
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			digits := scalar.EncodeScalar(src[i], exp, limbWidth, numLimbs)
			for s, d := range digits {
				out.Data[s*n+i] = d
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperrors.WrapError(err, "limb encode")
	}
	return out, nil
}

// Decode recombines an S-plane Matrix back into rows*cols
// arbitrary-precision scalars at the requested output precision, using
// carry-propagating big-integer accumulation of each entry's limb column.
func Decode(ctx context.Context, m *Matrix, prec uint, workers int) ([]*big.Float, error) {
	n := m.Rows * m.Cols
	out := make([]*big.Float, n)

	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(workers))

	for idx := 0; idx < n; idx++ {
		i := idx
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			column := make([]float64, m.S)
			for s := 0; s < m.S; s++ {
				column[s] = m.Data[s*n+i]
			}
			out[i] = scalar.DecodeScalar(column, m.LimbWidth, m.Exp, prec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperrors.WrapError(err, "limb decode")
	}
	return out, nil
}

// DecodeSymmetric decodes a square (rows==cols) Matrix that only holds
// a valid upper triangle (row <= col of every plane), mirroring each
// decoded upper-triangular entry into its lower-triangular counterpart.
// This matches the Convolution Engine's SYRK output, which only ever
// populates the upper triangle.
func DecodeSymmetric(ctx context.Context, m *Matrix, prec uint, workers int) ([]*big.Float, error) {
	if m.Rows != m.Cols {
		return nil, apperrors.NewDimensionMismatch("limb decode symmetric: matrix is not square (%dx%d)", m.Rows, m.Cols)
	}
	n := m.Rows

	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]*big.Float, n*n)
	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(workers))

	for row := 0; row < n; row++ {
		r := row
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			for col := r; col < n; col++ {
				idx := r*n + col
				column := make([]float64, m.S)
				for s := 0; s < m.S; s++ {
					column[s] = m.Data[s*n*n+idx]
				}
				v := scalar.DecodeScalar(column, m.LimbWidth, m.Exp, prec)
				out[r*n+col] = v
				if col != r {
					out[col*n+r] = new(big.Float).SetPrec(prec).Copy(v)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperrors.WrapError(err, "limb decode symmetric")
	}
	return out, nil
}
