package limbblas

import gblas "gonum.org/v2/gonum/blas"

// Layout describes how a caller's matrix is stored: RowMajor (C order) or
// ColumnMajor (Fortran order). Every limbblas matrix argument is supplied
// as a plain []*big.Float indexed by the caller, so Layout's only effect
// is on how a requested Transpose composes with the BLAS call beneath it
// — the same role it plays in a CBLAS-style interface.
type Layout int

const (
	RowMajor Layout = iota
	ColumnMajor
)

// Transpose requests that an operand be used in transposed form.
type Transpose int

const (
	NoTrans Transpose = iota
	Trans
)

// resolveTranspose folds a caller's Layout and requested Transpose into
// the single gonum blas.Transpose flag the Convolution Engine needs:
// (layout == RowMajor) != (want == Trans) ? NoTrans : Trans. For RowMajor
// callers (the overwhelming common case) this reduces to the identity
// map; ColumnMajor flips it, exactly mirroring how a CBLAS-style call
// compensates for a column-major caller without re-laying out memory.
func resolveTranspose(layout Layout, want Transpose) gblas.Transpose {
	rowMajor := layout == RowMajor
	wantTrans := want == Trans
	if rowMajor != wantTrans {
		return gblas.NoTrans
	}
	return gblas.Trans
}
